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

package mirror

import (
	"fmt"

	"dirpx.dev/mirror/apis"
	uref "dirpx.dev/mirror/utils/reflect"
)

// Member is implemented by Method, Field, Property, Event and Constructor.
type Member interface {
	Name() string
	MemberKind() apis.MemberKind
	DeclaringType() (*Type, error)
	Module() (*Module, error)
	fmt.Stringer
}

var (
	_ Member = (*Method)(nil)
	_ Member = (*Field)(nil)
	_ Member = (*Property)(nil)
	_ Member = (*Event)(nil)
	_ Member = (*Constructor)(nil)
)

// member carries what every member facade shares.
type member struct {
	u *Universe
}

func (m member) declaringType(o apis.Member) (*Type, error) {
	return required(o.DeclaringType(), msgNoDeclaringType, m.u.wrapType)
}

func (m member) module(o apis.Member) (*Module, error) {
	return required(o.Module(), msgTypeNoModule, m.u.wrapModule)
}

// qualified renders "Type.Name", or the bare name without a declaring type.
func qualified(o apis.Member) string {
	if t := o.DeclaringType(); !uref.IsNil(t) {
		return t.FullName() + "." + o.Name()
	}
	return o.Name()
}

// Method is the canonical facade of a host method.
type Method struct {
	member
	origin apis.Method
}

// Origin returns the wrapped host method.
func (m *Method) Origin() apis.Method { return m.origin }

// Equal reports whether m and o wrap equal origins.
func (m *Method) Equal(o *Method) bool {
	return m != nil && o != nil && m.origin == o.origin
}

// String returns the declaring type and member name.
func (m *Method) String() string { return qualified(m.origin) }

// Name returns the method name.
func (m *Method) Name() string { return m.origin.Name() }

// MemberKind returns apis.MemberMethod.
func (*Method) MemberKind() apis.MemberKind { return apis.MemberMethod }

// DeclaringType returns the type whose method set holds m.
func (m *Method) DeclaringType() (*Type, error) { return m.declaringType(m.origin) }

// Module returns the module of the declaring type.
func (m *Method) Module() (*Module, error) { return m.module(m.origin) }

// ReturnType returns the first result type, or VoidType for a method without
// results.
func (m *Method) ReturnType() *Type {
	return m.u.wrapTypeOrVoid(m.origin.ReturnType())
}

// ReturnTypes returns every result type in order.
func (m *Method) ReturnTypes() []*Type {
	return wrapAll(m.origin.ReturnTypes(), m.u.wrapType)
}

// ParameterTypes returns the parameter types without the receiver.
func (m *Method) ParameterTypes() []*Type {
	return wrapAll(m.origin.ParameterTypes(), m.u.wrapType)
}

// Invoke calls the method on recv. Host invocation errors are returned
// unchanged.
func (m *Method) Invoke(recv any, args ...any) ([]any, error) {
	return m.origin.Invoke(recv, args...)
}

// Field is the canonical facade of a host field.
type Field struct {
	member
	origin apis.Field
}

// Origin returns the wrapped host field.
func (f *Field) Origin() apis.Field { return f.origin }

// Equal reports whether f and o wrap equal origins.
func (f *Field) Equal(o *Field) bool {
	return f != nil && o != nil && f.origin == o.origin
}

// String returns the declaring type and member name.
func (f *Field) String() string { return qualified(f.origin) }

// Name returns the field name.
func (f *Field) Name() string { return f.origin.Name() }

// MemberKind returns apis.MemberField.
func (*Field) MemberKind() apis.MemberKind { return apis.MemberField }

// DeclaringType returns the struct type that holds f.
func (f *Field) DeclaringType() (*Type, error) { return f.declaringType(f.origin) }

// Module returns the module of the declaring type.
func (f *Field) Module() (*Module, error) { return f.module(f.origin) }

// FieldType returns the type of the field.
func (f *Field) FieldType() (*Type, error) {
	return required(f.origin.FieldType(), msgTypeNotFound, f.u.wrapType)
}

// Tag returns the value of the struct tag key.
func (f *Field) Tag(key string) (string, error) {
	v, ok := f.origin.Tag(key)
	if !ok {
		return "", notFound(msgNoTag)
	}
	return v, nil
}

// Index returns the index sequence for reflect.Value.FieldByIndex.
func (f *Field) Index() []int { return f.origin.Index() }

// GetValue reads the field of obj.
func (f *Field) GetValue(obj any) (any, error) { return f.origin.Value(obj) }

// SetValue writes v into the field of obj, which must be addressable.
func (f *Field) SetValue(obj, v any) error { return f.origin.SetValue(obj, v) }

// Property is the canonical facade of a host property.
type Property struct {
	member
	origin apis.Property
}

// Origin returns the wrapped host property.
func (p *Property) Origin() apis.Property { return p.origin }

// Equal reports whether p and o wrap equal origins.
func (p *Property) Equal(o *Property) bool {
	return p != nil && o != nil && p.origin == o.origin
}

// String returns the declaring type and member name.
func (p *Property) String() string { return qualified(p.origin) }

// Name returns the property name.
func (p *Property) Name() string { return p.origin.Name() }

// MemberKind returns apis.MemberProperty.
func (*Property) MemberKind() apis.MemberKind { return apis.MemberProperty }

// DeclaringType returns the type whose methods form p.
func (p *Property) DeclaringType() (*Type, error) { return p.declaringType(p.origin) }

// Module returns the module of the declaring type.
func (p *Property) Module() (*Module, error) { return p.module(p.origin) }

// PropertyType returns the type read by the getter or written by the setter.
func (p *Property) PropertyType() (*Type, error) {
	return required(p.origin.PropertyType(), msgTypeNotFound, p.u.wrapType)
}

// CanRead reports whether p has a getter.
func (p *Property) CanRead() bool { return !uref.IsNil(p.origin.Getter()) }

// CanWrite reports whether p has a setter.
func (p *Property) CanWrite() bool { return !uref.IsNil(p.origin.Setter()) }

// GetMethod returns the getter.
func (p *Property) GetMethod() (*Method, error) {
	return required(p.origin.Getter(), msgNoGetter, p.u.wrapMethod)
}

// SetMethod returns the setter.
func (p *Property) SetMethod() (*Method, error) {
	return required(p.origin.Setter(), msgNoSetter, p.u.wrapMethod)
}

// GetValue calls the getter on obj.
func (p *Property) GetValue(obj any) (any, error) {
	g, err := p.GetMethod()
	if err != nil {
		return nil, err
	}
	out, err := g.Invoke(obj)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// SetValue calls the setter on obj. An error returned by the setter itself
// is returned as is.
func (p *Property) SetValue(obj, v any) error {
	s, err := p.SetMethod()
	if err != nil {
		return err
	}
	out, err := s.Invoke(obj, v)
	if err != nil {
		return err
	}
	return resultError(out)
}

// resultError returns the trailing error result of a call, if any.
func resultError(out []any) error {
	if len(out) == 0 {
		return nil
	}
	err, _ := out[len(out)-1].(error)
	return err
}

// Event is the canonical facade of a host event.
type Event struct {
	member
	origin apis.Event
}

// Origin returns the wrapped host event.
func (e *Event) Origin() apis.Event { return e.origin }

// Equal reports whether e and o wrap equal origins.
func (e *Event) Equal(o *Event) bool {
	return e != nil && o != nil && e.origin == o.origin
}

// String returns the declaring type and member name.
func (e *Event) String() string { return qualified(e.origin) }

// Name returns the event name.
func (e *Event) Name() string { return e.origin.Name() }

// MemberKind returns apis.MemberEvent.
func (*Event) MemberKind() apis.MemberKind { return apis.MemberEvent }

// DeclaringType returns the type whose methods form e.
func (e *Event) DeclaringType() (*Type, error) { return e.declaringType(e.origin) }

// Module returns the module of the declaring type.
func (e *Event) Module() (*Module, error) { return e.module(e.origin) }

// HandlerType returns the type of the handlers e accepts.
func (e *Event) HandlerType() (*Type, error) {
	return required(e.origin.HandlerType(), msgTypeNotFound, e.u.wrapType)
}

// AddMethod returns the subscribe method.
func (e *Event) AddMethod() (*Method, error) {
	return required(e.origin.AddMethod(), msgNoAddMethod, e.u.wrapMethod)
}

// RemoveMethod returns the unsubscribe method.
func (e *Event) RemoveMethod() (*Method, error) {
	return required(e.origin.RemoveMethod(), msgNoRemoveMethod, e.u.wrapMethod)
}

// AddHandler subscribes h on obj.
func (e *Event) AddHandler(obj, h any) error {
	m, err := e.AddMethod()
	if err != nil {
		return err
	}
	out, err := m.Invoke(obj, h)
	if err != nil {
		return err
	}
	return resultError(out)
}

// RemoveHandler unsubscribes h from obj.
func (e *Event) RemoveHandler(obj, h any) error {
	m, err := e.RemoveMethod()
	if err != nil {
		return err
	}
	out, err := m.Invoke(obj, h)
	if err != nil {
		return err
	}
	return resultError(out)
}

// Constructor is the canonical facade of a host constructor.
type Constructor struct {
	member
	origin apis.Constructor
}

// Origin returns the wrapped host constructor.
func (c *Constructor) Origin() apis.Constructor { return c.origin }

// Equal reports whether c and o wrap equal origins.
func (c *Constructor) Equal(o *Constructor) bool {
	return c != nil && o != nil && c.origin == o.origin
}

// String returns the declaring type and member name.
func (c *Constructor) String() string { return qualified(c.origin) }

// Name returns the factory name without its package.
func (c *Constructor) Name() string { return c.origin.Name() }

// MemberKind returns apis.MemberConstructor.
func (*Constructor) MemberKind() apis.MemberKind { return apis.MemberConstructor }

// DeclaringType returns the type the factory builds.
func (c *Constructor) DeclaringType() (*Type, error) { return c.declaringType(c.origin) }

// Module returns the module of the built type.
func (c *Constructor) Module() (*Module, error) { return c.module(c.origin) }

// ParameterTypes returns the factory parameter types.
func (c *Constructor) ParameterTypes() []*Type {
	return wrapAll(c.origin.ParameterTypes(), c.u.wrapType)
}

// Invoke calls the constructor. Errors returned by the constructor and host
// invocation errors are returned unchanged.
func (c *Constructor) Invoke(args ...any) (any, error) {
	return c.origin.Invoke(args...)
}
