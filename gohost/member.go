/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package gohost

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"dirpx.dev/mirror/apis"
)

const (
	setterPrefix  = "Set"
	addPrefix     = "On"
	removePrefix  = "Off"
	noMethodIndex = -1
)

// signature returns the parameter and result types of m, receiver excluded.
func signature(t reflect.Type, m reflect.Method) (in, out []reflect.Type) {
	ft := m.Type
	skip := 1
	if t.Kind() == reflect.Interface {
		skip = 0
	}
	for i := skip; i < ft.NumIn(); i++ {
		in = append(in, ft.In(i))
	}
	for i := range ft.NumOut() {
		out = append(out, ft.Out(i))
	}
	return in, out
}

// wrapTypes wraps reflect types as origins.
func (h *Host) wrapTypes(ts []reflect.Type) []apis.Type {
	out := make([]apis.Type, len(ts))
	for i, t := range ts {
		out[i] = typeOrigin{h: h, t: t}
	}
	return out
}

// methodOrigin is a method of a type's method set.
type methodOrigin struct {
	h     *Host
	t     reflect.Type
	index int
}

// Ensure methodOrigin implements apis.Method.
var _ apis.Method = methodOrigin{}

func (o methodOrigin) method() reflect.Method { return o.t.Method(o.index) }

func (o methodOrigin) Name() string { return o.method().Name }

func (o methodOrigin) DeclaringType() apis.Type { return typeOrigin{h: o.h, t: o.t} }

func (o methodOrigin) Module() apis.Module { return typeOrigin{h: o.h, t: o.t}.Module() }

// ReturnType returns the first result type; nil when there are no results.
func (o methodOrigin) ReturnType() apis.Type {
	_, out := signature(o.t, o.method())
	if len(out) == 0 {
		return nil
	}
	return typeOrigin{h: o.h, t: out[0]}
}

func (o methodOrigin) ReturnTypes() []apis.Type {
	_, out := signature(o.t, o.method())
	return o.h.wrapTypes(out)
}

func (o methodOrigin) ParameterTypes() []apis.Type {
	in, _ := signature(o.t, o.method())
	return o.h.wrapTypes(in)
}

// Invoke calls the method on recv, which must be assignable to the declaring type.
func (o methodOrigin) Invoke(recv any, args ...any) ([]any, error) {
	name := o.method().Name
	if recv == nil {
		return nil, fmt.Errorf("%w: %s: nil receiver", ErrInvocation, name)
	}
	rv := reflect.ValueOf(recv)
	if !rv.Type().AssignableTo(o.t) {
		return nil, fmt.Errorf("%w: %s: receiver %s is not assignable to %s", ErrInvocation, name, rv.Type(), o.t)
	}
	out, err := call(rv.MethodByName(name), name, args)
	if err != nil {
		return nil, err
	}
	return values(out), nil
}

// fieldOrigin is an exported visible field, identified by name.
type fieldOrigin struct {
	h    *Host
	t    reflect.Type
	name string
}

// Ensure fieldOrigin implements apis.Field.
var _ apis.Field = fieldOrigin{}

func (o fieldOrigin) field() reflect.StructField {
	f, _ := o.t.FieldByName(o.name)
	return f
}

func (o fieldOrigin) Name() string { return o.name }

func (o fieldOrigin) DeclaringType() apis.Type { return typeOrigin{h: o.h, t: o.t} }

func (o fieldOrigin) Module() apis.Module { return typeOrigin{h: o.h, t: o.t}.Module() }

func (o fieldOrigin) FieldType() apis.Type { return typeOrigin{h: o.h, t: o.field().Type} }

func (o fieldOrigin) Tag(key string) (string, bool) { return o.field().Tag.Lookup(key) }

func (o fieldOrigin) Index() []int { return o.field().Index }

// target dereferences obj down to the declaring struct.
func (o fieldOrigin) target(obj any) (reflect.Value, error) {
	rv := reflect.ValueOf(obj)
	for rv.IsValid() && rv.Kind() == reflect.Pointer && rv.Type() != o.t {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: %s: nil pointer", ErrInvocation, o.name)
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != o.t {
		return reflect.Value{}, fmt.Errorf("%w: %s: %T is not a %s", ErrInvocation, o.name, obj, o.t)
	}
	f, err := rv.FieldByIndexErr(o.field().Index)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %s: %w", ErrInvocation, o.name, err)
	}
	return f, nil
}

// Value reads the field of obj (a struct or a pointer to one).
func (o fieldOrigin) Value(obj any) (any, error) {
	f, err := o.target(obj)
	if err != nil {
		return nil, err
	}
	if !f.CanInterface() {
		return nil, fmt.Errorf("%w: %s: not accessible", ErrInvocation, o.name)
	}
	return f.Interface(), nil
}

// SetValue writes the field of obj, which must be a pointer to the struct.
func (o fieldOrigin) SetValue(obj any, v any) error {
	f, err := o.target(obj)
	if err != nil {
		return err
	}
	if !f.CanSet() {
		return fmt.Errorf("%w: %s: not settable", ErrInvocation, o.name)
	}
	val, err := argValue(v, f.Type())
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvocation, o.name, err)
	}
	f.Set(val)
	return nil
}

// accessorShape is a property or an event found in a method set.
type accessorShape struct {
	name   string
	typ    reflect.Type
	first  int
	second int
}

// properties finds X()/SetX(v) pairs. A getter fixes the property type; a
// setter whose parameter differs is ignored.
func properties(t reflect.Type) []accessorShape {
	var out []accessorShape
	at := make(map[string]int)
	for i := range t.NumMethod() {
		m := t.Method(i)
		in, out1 := signature(t, m)
		if len(in) == 0 && len(out1) == 1 {
			at[m.Name] = len(out)
			out = append(out, accessorShape{name: m.Name, typ: out1[0], first: i, second: noMethodIndex})
		}
	}
	for i := range t.NumMethod() {
		m := t.Method(i)
		name, ok := strings.CutPrefix(m.Name, setterPrefix)
		if !ok || name == "" {
			continue
		}
		in, res := signature(t, m)
		if len(in) != 1 || len(res) > 1 || len(res) == 1 && res[0] != errorType {
			continue
		}
		if j, ok := at[name]; ok {
			if out[j].typ == in[0] {
				out[j].second = i
			}
			continue
		}
		at[name] = len(out)
		out = append(out, accessorShape{name: name, typ: in[0], first: noMethodIndex, second: i})
	}
	return out
}

// events finds OnX(handler) methods with an optional OffX(handler).
func events(t reflect.Type) []accessorShape {
	var out []accessorShape
	for i := range t.NumMethod() {
		m := t.Method(i)
		name, ok := strings.CutPrefix(m.Name, addPrefix)
		if !ok || name == "" {
			continue
		}
		in, res := signature(t, m)
		if len(in) != 1 || in[0].Kind() != reflect.Func || len(res) > 1 {
			continue
		}
		e := accessorShape{name: name, typ: in[0], first: i, second: noMethodIndex}
		if rm, ok := t.MethodByName(removePrefix + name); ok {
			if rin, _ := signature(t, rm); len(rin) == 1 && rin[0] == in[0] {
				e.second = rm.Index
			}
		}
		out = append(out, e)
	}
	return out
}

// findShape returns the shape named name.
func findShape(shapes []accessorShape, name string) (accessorShape, bool) {
	for _, s := range shapes {
		if s.name == name {
			return s, true
		}
	}
	return accessorShape{}, false
}

// methodAt wraps the method at index; nil for noMethodIndex.
func (h *Host) methodAt(t reflect.Type, index int) apis.Method {
	if index == noMethodIndex {
		return nil
	}
	return methodOrigin{h: h, t: t, index: index}
}

// propertyOrigin is a getter/setter pair, identified by name.
type propertyOrigin struct {
	h    *Host
	t    reflect.Type
	name string
}

// Ensure propertyOrigin implements apis.Property.
var _ apis.Property = propertyOrigin{}

func (o propertyOrigin) shape() accessorShape {
	s, _ := findShape(properties(o.t), o.name)
	return s
}

func (o propertyOrigin) Name() string { return o.name }

func (o propertyOrigin) DeclaringType() apis.Type { return typeOrigin{h: o.h, t: o.t} }

func (o propertyOrigin) Module() apis.Module { return typeOrigin{h: o.h, t: o.t}.Module() }

func (o propertyOrigin) PropertyType() apis.Type { return typeOrigin{h: o.h, t: o.shape().typ} }

func (o propertyOrigin) Getter() apis.Method { return o.h.methodAt(o.t, o.shape().first) }

func (o propertyOrigin) Setter() apis.Method { return o.h.methodAt(o.t, o.shape().second) }

// eventOrigin is an OnX/OffX pair, identified by X.
type eventOrigin struct {
	h    *Host
	t    reflect.Type
	name string
}

// Ensure eventOrigin implements apis.Event.
var _ apis.Event = eventOrigin{}

func (o eventOrigin) shape() accessorShape {
	s, _ := findShape(events(o.t), o.name)
	return s
}

func (o eventOrigin) Name() string { return o.name }

func (o eventOrigin) DeclaringType() apis.Type { return typeOrigin{h: o.h, t: o.t} }

func (o eventOrigin) Module() apis.Module { return typeOrigin{h: o.h, t: o.t}.Module() }

func (o eventOrigin) HandlerType() apis.Type { return typeOrigin{h: o.h, t: o.shape().typ} }

func (o eventOrigin) AddMethod() apis.Method { return o.h.methodAt(o.t, o.shape().first) }

func (o eventOrigin) RemoveMethod() apis.Method { return o.h.methodAt(o.t, o.shape().second) }

// constructorOrigin is a factory registered for a named type.
type constructorOrigin struct {
	h     *Host
	t     reflect.Type
	index int
}

// Ensure constructorOrigin implements apis.Constructor.
var _ apis.Constructor = constructorOrigin{}

// fn returns the factory; false after the catalog was reset.
func (o constructorOrigin) fn() (reflect.Value, bool) {
	fns := o.h.state().reg.Constructors(o.t)
	if o.index >= len(fns) {
		return reflect.Value{}, false
	}
	return fns[o.index], true
}

// Name returns the factory's function name without its package.
func (o constructorOrigin) Name() string {
	fn, ok := o.fn()
	if !ok {
		return ""
	}
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return ""
	}
	n := f.Name()
	if i := strings.LastIndexByte(n, '/'); i >= 0 {
		n = n[i+1:]
	}
	if i := strings.IndexByte(n, '.'); i >= 0 {
		n = n[i+1:]
	}
	return n
}

func (o constructorOrigin) DeclaringType() apis.Type { return typeOrigin{h: o.h, t: o.t} }

func (o constructorOrigin) Module() apis.Module { return typeOrigin{h: o.h, t: o.t}.Module() }

func (o constructorOrigin) ParameterTypes() []apis.Type {
	fn, ok := o.fn()
	if !ok {
		return nil
	}
	ft := fn.Type()
	in := make([]reflect.Type, ft.NumIn())
	for i := range in {
		in[i] = ft.In(i)
	}
	return o.h.wrapTypes(in)
}

// Invoke calls the factory. An error returned by the factory is passed through.
func (o constructorOrigin) Invoke(args ...any) (any, error) {
	fn, ok := o.fn()
	if !ok {
		return nil, fmt.Errorf("%w: constructor of %s is no longer registered", ErrInvocation, o.t)
	}
	out, err := call(fn, o.Name(), args)
	if err != nil {
		return nil, err
	}
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}
