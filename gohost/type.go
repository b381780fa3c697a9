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
	"reflect"
	"slices"
	"strconv"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/registry"
	uref "dirpx.dev/mirror/utils/reflect"
)

var errorType = reflect.TypeFor[error]()

// typeOrigin is a reflect.Type seen through a host.
type typeOrigin struct {
	h *Host
	t reflect.Type
}

// Ensure typeOrigin implements apis.Type.
var _ apis.Type = typeOrigin{}

// Name returns the type name; unnamed types render as their expression.
func (o typeOrigin) Name() string {
	if n := o.t.Name(); n != "" {
		return n
	}
	return o.t.String()
}

// FullName returns the name GetType resolves back to this type.
func (o typeOrigin) FullName() string {
	return fullName(o.t)
}

// fullName renders t with full package paths.
func fullName(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}
		return t.PkgPath() + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + fullName(t.Elem())
	case reflect.Slice:
		return "[]" + fullName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + fullName(t.Elem())
	case reflect.Map:
		return "map[" + fullName(t.Key()) + "]" + fullName(t.Elem())
	case reflect.Chan:
		if t.ChanDir() == reflect.BothDir {
			return "chan " + fullName(t.Elem())
		}
	}
	return t.String()
}

// named returns the nearest named type of o.
func (o typeOrigin) named() (reflect.Type, bool) {
	n, err := uref.Normalize(o.t, o.h.Config())
	return n, err == nil
}

// Namespace returns the package path of the nearest named type.
func (o typeOrigin) Namespace() string {
	n, ok := o.named()
	if !ok {
		return ""
	}
	return registry.PkgPathOf(n)
}

// Kind returns the reflect kind name.
func (o typeOrigin) Kind() string {
	return o.t.Kind().String()
}

// Assembly returns the module owning the nearest named type.
func (o typeOrigin) Assembly() apis.Assembly {
	n, ok := o.named()
	if !ok {
		return nil
	}
	p, ok := o.h.mods.owner(registry.PkgPathOf(n))
	if !ok {
		return nil
	}
	return assemblyOrigin{h: o.h, path: p}
}

// Module returns the package of the nearest named type.
func (o typeOrigin) Module() apis.Module {
	n, ok := o.named()
	if !ok {
		return nil
	}
	return moduleOrigin{h: o.h, path: registry.PkgPathOf(n)}
}

// BaseType returns the type of the first embedded field of a struct.
func (o typeOrigin) BaseType() apis.Type {
	if o.t.Kind() != reflect.Struct || o.t.NumField() == 0 {
		return nil
	}
	if f := o.t.Field(0); f.Anonymous {
		return typeOrigin{h: o.h, t: f.Type}
	}
	return nil
}

// ElementType returns the element type of pointers, slices, arrays, maps and channels.
func (o typeOrigin) ElementType() apis.Type {
	switch o.t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return typeOrigin{h: o.h, t: o.t.Elem()}
	default:
		return nil
	}
}

// KeyType returns the key type of maps.
func (o typeOrigin) KeyType() apis.Type {
	if o.t.Kind() != reflect.Map {
		return nil
	}
	return typeOrigin{h: o.h, t: o.t.Key()}
}

// Interfaces returns the registered interfaces the type implements, in
// catalog order, followed by error when builtins are visible.
func (o typeOrigin) Interfaces() []apis.Type {
	s := o.h.state()
	var out []apis.Type
	for _, p := range s.reg.Packages() {
		for _, e := range s.reg.Package(p) {
			it, err := e.Resolve()
			if err != nil || it.Kind() != reflect.Interface || it == o.t || it == errorType {
				continue
			}
			if o.t.Implements(it) {
				out = append(out, typeOrigin{h: o.h, t: it})
			}
		}
	}
	if s.cfg.IncludeBuiltins && o.t != errorType && o.t.Implements(errorType) {
		out = append(out, typeOrigin{h: o.h, t: errorType})
	}
	return out
}

// Method looks a method of the method set up.
func (o typeOrigin) Method(name string, ignoreCase bool) apis.Method {
	if m, ok := o.t.MethodByName(name); ok {
		return methodOrigin{h: o.h, t: o.t, index: m.Index}
	}
	if !ignoreCase {
		return nil
	}
	folded := registry.Fold(name)
	for i := range o.t.NumMethod() {
		if registry.Fold(o.t.Method(i).Name) == folded {
			return methodOrigin{h: o.h, t: o.t, index: i}
		}
	}
	return nil
}

// Methods returns the method set in name order.
func (o typeOrigin) Methods() []apis.Method {
	out := make([]apis.Method, o.t.NumMethod())
	for i := range out {
		out[i] = methodOrigin{h: o.h, t: o.t, index: i}
	}
	return out
}

// Field looks an exported visible field up.
func (o typeOrigin) Field(name string, ignoreCase bool) apis.Field {
	for _, f := range visibleFields(o.t) {
		if f.Name == name || ignoreCase && registry.Fold(f.Name) == registry.Fold(name) {
			return fieldOrigin{h: o.h, t: o.t, name: f.Name}
		}
	}
	return nil
}

// Fields returns the exported visible fields in declaration order.
func (o typeOrigin) Fields() []apis.Field {
	fs := visibleFields(o.t)
	out := make([]apis.Field, len(fs))
	for i, f := range fs {
		out[i] = fieldOrigin{h: o.h, t: o.t, name: f.Name}
	}
	return out
}

// visibleFields returns the exported fields reachable by selector.
func visibleFields(t reflect.Type) []reflect.StructField {
	if t.Kind() != reflect.Struct {
		return nil
	}
	all := reflect.VisibleFields(t)
	return slices.DeleteFunc(all, func(f reflect.StructField) bool { return !f.IsExported() })
}

// Property looks a getter/setter pair up.
func (o typeOrigin) Property(name string, ignoreCase bool) apis.Property {
	for _, p := range properties(o.t) {
		if p.name == name || ignoreCase && registry.Fold(p.name) == registry.Fold(name) {
			return propertyOrigin{h: o.h, t: o.t, name: p.name}
		}
	}
	return nil
}

// Properties returns the properties in method order.
func (o typeOrigin) Properties() []apis.Property {
	ps := properties(o.t)
	out := make([]apis.Property, len(ps))
	for i, p := range ps {
		out[i] = propertyOrigin{h: o.h, t: o.t, name: p.name}
	}
	return out
}

// Event looks an OnX subscription method up by X.
func (o typeOrigin) Event(name string, ignoreCase bool) apis.Event {
	for _, e := range events(o.t) {
		if e.name == name || ignoreCase && registry.Fold(e.name) == registry.Fold(name) {
			return eventOrigin{h: o.h, t: o.t, name: e.name}
		}
	}
	return nil
}

// Events returns the events in method order.
func (o typeOrigin) Events() []apis.Event {
	es := events(o.t)
	out := make([]apis.Event, len(es))
	for i, e := range es {
		out[i] = eventOrigin{h: o.h, t: o.t, name: e.name}
	}
	return out
}

// Constructor selects a registered factory. The default binding picks the
// first factory whose parameter types equal params exactly.
func (o typeOrigin) Constructor(binder apis.BinderFunc, params []apis.Type) (apis.Constructor, error) {
	if binder == nil {
		binder = bindExact
	}
	return binder(o.Constructors(), params)
}

// bindExact is the default binder.
func bindExact(candidates []apis.Constructor, params []apis.Type) (apis.Constructor, error) {
	for _, c := range candidates {
		if slices.Equal(c.ParameterTypes(), params) {
			return c, nil
		}
	}
	return nil, nil
}

// Constructors returns the factories registered for a named type.
func (o typeOrigin) Constructors() []apis.Constructor {
	if o.t.Name() == "" {
		return nil
	}
	fns := o.h.state().reg.Constructors(o.t)
	out := make([]apis.Constructor, len(fns))
	for i := range fns {
		out[i] = constructorOrigin{h: o.h, t: o.t, index: i}
	}
	return out
}

// IsAssignableTo reports reflect assignability.
func (o typeOrigin) IsAssignableTo(u apis.Type) bool {
	uo, ok := u.(typeOrigin)
	return ok && uo.h == o.h && o.t.AssignableTo(uo.t)
}

// Implements reports whether the type implements the interface u.
func (o typeOrigin) Implements(u apis.Type) bool {
	uo, ok := u.(typeOrigin)
	return ok && uo.h == o.h && uo.t.Kind() == reflect.Interface && o.t.Implements(uo.t)
}

// PointerTo returns *T.
func (o typeOrigin) PointerTo() apis.Type {
	return typeOrigin{h: o.h, t: reflect.PointerTo(o.t)}
}

// SliceOf returns []T.
func (o typeOrigin) SliceOf() apis.Type {
	return typeOrigin{h: o.h, t: reflect.SliceOf(o.t)}
}
