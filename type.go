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
	"dirpx.dev/mirror/apis"
)

// Type is the canonical facade of a host type. Two Types of one Universe
// describe the same host type iff they are the same pointer.
type Type struct {
	u      *Universe
	origin apis.Type
}

// Origin returns the wrapped host type.
func (t *Type) Origin() apis.Type { return t.origin }

// Equal reports whether t and o wrap equal origins.
func (t *Type) Equal(o *Type) bool {
	return t != nil && o != nil && t.origin == o.origin
}

// String returns the full type name.
func (t *Type) String() string { return t.origin.FullName() }

// IsMissing reports whether t is MissingType.
func (t *Type) IsMissing() bool { return t == MissingType }

// IsVoid reports whether t is VoidType.
func (t *Type) IsVoid() bool { return t == VoidType }

// IsNotLoaded reports whether t is TypeNotLoaded.
func (t *Type) IsNotLoaded() bool { return t == TypeNotLoaded }

// Name returns the simple type name.
func (t *Type) Name() string { return t.origin.Name() }

// FullName returns the package-qualified name.
func (t *Type) FullName() string { return t.origin.FullName() }

// Namespace returns the package path of the nearest named type.
func (t *Type) Namespace() string { return t.origin.Namespace() }

// Kind returns the reflect kind name, e.g. "struct".
func (t *Type) Kind() string { return t.origin.Kind() }

// Assembly returns the assembly that declares t.
func (t *Type) Assembly() (*Assembly, error) {
	return required(t.origin.Assembly(), msgTypeNoAssembly, t.u.wrapAssembly)
}

// Module returns the module that declares t.
func (t *Type) Module() (*Module, error) {
	return required(t.origin.Module(), msgTypeNoModule, t.u.wrapModule)
}

// BaseType returns the embedded base of a struct type.
func (t *Type) BaseType() (*Type, error) {
	return required(t.origin.BaseType(), msgNoBaseType, t.u.wrapType)
}

// ElementType returns the element type of a pointer, slice, array, map or channel.
func (t *Type) ElementType() (*Type, error) {
	return required(t.origin.ElementType(), msgNoElementType, t.u.wrapType)
}

// KeyType returns the key type of a map.
func (t *Type) KeyType() (*Type, error) {
	return required(t.origin.KeyType(), msgNoKeyType, t.u.wrapType)
}

// GetInterfaces returns the registered interfaces t implements.
func (t *Type) GetInterfaces() []*Type {
	return wrapAll(t.origin.Interfaces(), t.u.wrapType)
}

// GetMethod finds a method by name.
func (t *Type) GetMethod(name string, ignoreCase bool) (*Method, error) {
	return required(t.origin.Method(name, ignoreCase), msgMethodNotFound, t.u.wrapMethod)
}

// GetMethods returns the method set of t in host order.
func (t *Type) GetMethods() []*Method {
	return wrapAll(t.origin.Methods(), t.u.wrapMethod)
}

// GetField finds a field by name.
func (t *Type) GetField(name string, ignoreCase bool) (*Field, error) {
	return required(t.origin.Field(name, ignoreCase), msgFieldNotFound, t.u.wrapField)
}

// GetFields returns the visible fields of t.
func (t *Type) GetFields() []*Field {
	return wrapAll(t.origin.Fields(), t.u.wrapField)
}

// GetProperty finds a property by name.
func (t *Type) GetProperty(name string, ignoreCase bool) (*Property, error) {
	return required(t.origin.Property(name, ignoreCase), msgPropertyNotFound, t.u.wrapProperty)
}

// GetProperties returns the properties of t.
func (t *Type) GetProperties() []*Property {
	return wrapAll(t.origin.Properties(), t.u.wrapProperty)
}

// GetEvent finds an event by name.
func (t *Type) GetEvent(name string, ignoreCase bool) (*Event, error) {
	return required(t.origin.Event(name, ignoreCase), msgEventNotFound, t.u.wrapEvent)
}

// GetEvents returns the events of t.
func (t *Type) GetEvents() []*Event {
	return wrapAll(t.origin.Events(), t.u.wrapEvent)
}

// GetConstructor selects a constructor for params with binder; a nil binder
// or DefaultBinder keeps the host's binding rules. Binder errors are
// returned unchanged.
func (t *Type) GetConstructor(binder Binder, params ...*Type) (*Constructor, error) {
	if t.u == nil {
		return nil, notFound(msgConstructorNotFound)
	}
	c, err := t.origin.Constructor(t.u.binderFunc(binder), t.u.unwrapTypes(params))
	if err != nil {
		return nil, err
	}
	return required(c, msgConstructorNotFound, t.u.wrapConstructor)
}

// GetConstructors returns the factories registered for t.
func (t *Type) GetConstructors() []*Constructor {
	return wrapAll(t.origin.Constructors(), t.u.wrapConstructor)
}

// GetMember returns the methods, fields, properties and events called name.
func (t *Type) GetMember(name string, ignoreCase bool) ([]Member, error) {
	var out []Member
	if m, err := t.GetMethod(name, ignoreCase); err == nil {
		out = append(out, m)
	}
	if f, err := t.GetField(name, ignoreCase); err == nil {
		out = append(out, f)
	}
	if p, err := t.GetProperty(name, ignoreCase); err == nil {
		out = append(out, p)
	}
	if e, err := t.GetEvent(name, ignoreCase); err == nil {
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, notFound(msgMemberNotFound)
	}
	return out, nil
}

// GetMembers returns every member: methods, fields, properties, events and
// constructors, each group in host order.
func (t *Type) GetMembers() []Member {
	var out []Member
	for _, m := range t.GetMethods() {
		out = append(out, m)
	}
	for _, f := range t.GetFields() {
		out = append(out, f)
	}
	for _, p := range t.GetProperties() {
		out = append(out, p)
	}
	for _, e := range t.GetEvents() {
		out = append(out, e)
	}
	for _, c := range t.GetConstructors() {
		out = append(out, c)
	}
	return out
}

// IsAssignableTo reports whether a value of t can be assigned to o.
// Sentinels are assignable to nothing. o may come from another Universe.
func (t *Type) IsAssignableTo(o *Type) bool {
	if t.u == nil || o == nil || isSentinel(o) {
		return false
	}
	return t.origin.IsAssignableTo(o.origin)
}

// Implements reports whether t implements the interface o. o may come from
// another Universe.
func (t *Type) Implements(o *Type) bool {
	if t.u == nil || o == nil || isSentinel(o) {
		return false
	}
	return t.origin.Implements(o.origin)
}

// MakePointerType returns the pointer type *t.
func (t *Type) MakePointerType() (*Type, error) {
	return required(t.origin.PointerTo(), msgTypeNotFound, t.u.wrapType)
}

// MakeSliceType returns the slice type []t.
func (t *Type) MakeSliceType() (*Type, error) {
	return required(t.origin.SliceOf(), msgTypeNotFound, t.u.wrapType)
}
