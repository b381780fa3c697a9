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

package apis

import (
	"io"
)

// The interfaces below describe the host reflection subsystem: the native
// metadata graph the facade wraps. Accessors documented as "nil if absent"
// are partial; the facade converts that absence into explicit faults.
//
// Every origin value handed out by a host MUST be comparable with ==, and
// two origins denoting the same metadata entity MUST compare equal even when
// obtained through different queries. Small value structs are the natural
// choice; pointers work when the host interns them itself.

// AssemblyName identifies an assembly.
type AssemblyName interface {
	// Name returns the simple assembly name (a module path for the Go host).
	Name() string
	// Version returns the version, or "" if unknown.
	Version() string
	// Checksum returns the content checksum, or "" if unknown.
	Checksum() string
	// FullName returns the display form, e.g. "example.com/m@v1.2.3".
	FullName() string
}

// Assembly is a unit of deployment holding modules and types.
type Assembly interface {
	// Name returns the assembly's identity.
	Name() AssemblyName
	// FullName returns the display form of Name.
	FullName() string
	// Types returns every type the assembly defines. Entries that failed to
	// load are nil and err describes the failures.
	Types() (types []Type, err error)
	// ExportedTypes returns the loadable exported types.
	ExportedTypes() []Type
	// Type looks up a type by name; nil if absent.
	Type(name string, ignoreCase bool) Type
	// Modules returns the modules of the assembly.
	Modules() []Module
	// Module looks up a module by name; nil if absent.
	Module(name string) Module
	// ManifestModule returns the module carrying the manifest; nil if absent.
	ManifestModule() Module
	// ReferencedAssemblies returns the names of the assemblies this one references.
	ReferencedAssemblies() []AssemblyName
	// ManifestResourceNames returns the names of the attached resources.
	ManifestResourceNames() []string
	// ManifestResourceInfo describes a resource; nil if absent.
	ManifestResourceInfo(name string) ManifestResourceInfo
	// ManifestResourceStream opens a resource; (nil, nil) if absent.
	ManifestResourceStream(name string) (io.ReadCloser, error)
}

// Module is a compilation unit inside an assembly.
type Module interface {
	// Name returns the short module name.
	Name() string
	// FullyQualifiedName returns the unique module name.
	FullyQualifiedName() string
	// Assembly returns the owning assembly; nil if absent.
	Assembly() Assembly
	// Types returns the loadable types of the module.
	Types() []Type
	// Type looks up a type by name; nil if absent.
	Type(name string, ignoreCase bool) Type
}

// Type describes a type.
type Type interface {
	// Name returns the simple name, or "" for unnamed types.
	Name() string
	// FullName returns the qualified display name.
	FullName() string
	// Namespace returns the namespace (package path), or "".
	Namespace() string
	// Kind returns the kind of the type, e.g. "struct", "ptr".
	Kind() string

	// Assembly returns the defining assembly; nil if absent.
	Assembly() Assembly
	// Module returns the defining module; nil if absent.
	Module() Module
	// BaseType returns the base type; nil if absent.
	BaseType() Type
	// ElementType returns the element type of a composite type; nil if absent.
	ElementType() Type
	// KeyType returns the key type of a map type; nil if absent.
	KeyType() Type
	// Interfaces returns the interfaces the type is known to implement.
	Interfaces() []Type

	// Method looks up a method; nil if absent.
	Method(name string, ignoreCase bool) Method
	// Methods returns all methods.
	Methods() []Method
	// Field looks up a field; nil if absent.
	Field(name string, ignoreCase bool) Field
	// Fields returns all fields.
	Fields() []Field
	// Property looks up a property; nil if absent.
	Property(name string, ignoreCase bool) Property
	// Properties returns all properties.
	Properties() []Property
	// Event looks up an event; nil if absent.
	Event(name string, ignoreCase bool) Event
	// Events returns all events.
	Events() []Event
	// Constructor selects a constructor for the parameter types using binder,
	// or the host's default binding when binder is nil; nil if absent.
	Constructor(binder BinderFunc, params []Type) (Constructor, error)
	// Constructors returns all constructors.
	Constructors() []Constructor

	// IsAssignableTo reports whether values of the type are assignable to u.
	IsAssignableTo(u Type) bool
	// Implements reports whether the type implements the interface u.
	Implements(u Type) bool
	// PointerTo returns the pointer type to this type; nil if absent.
	PointerTo() Type
	// SliceOf returns the slice type of this type; nil if absent.
	SliceOf() Type
}

// MemberKind classifies members.
type MemberKind int

const (
	// MemberMethod is a method.
	MemberMethod MemberKind = iota + 1
	// MemberField is a field.
	MemberField
	// MemberProperty is a property.
	MemberProperty
	// MemberEvent is an event.
	MemberEvent
	// MemberConstructor is a constructor.
	MemberConstructor
)

// String returns a human-readable member kind.
func (k MemberKind) String() string {
	switch k {
	case MemberMethod:
		return "Method"
	case MemberField:
		return "Field"
	case MemberProperty:
		return "Property"
	case MemberEvent:
		return "Event"
	case MemberConstructor:
		return "Constructor"
	default:
		return "Unknown"
	}
}

// Member is the part shared by every member kind.
type Member interface {
	// Name returns the member name.
	Name() string
	// DeclaringType returns the declaring type; nil if absent.
	DeclaringType() Type
	// Module returns the module of the declaring type; nil if absent.
	Module() Module
}

// Method describes a method.
type Method interface {
	Member
	// ReturnType returns the first result type; nil when the method returns nothing.
	ReturnType() Type
	// ReturnTypes returns every result type.
	ReturnTypes() []Type
	// ParameterTypes returns the parameter types, receiver excluded.
	ParameterTypes() []Type
	// Invoke calls the method on recv.
	Invoke(recv any, args ...any) ([]any, error)
}

// Field describes a field.
type Field interface {
	Member
	// FieldType returns the field's type; nil if absent.
	FieldType() Type
	// Tag returns the struct tag value for key.
	Tag(key string) (string, bool)
	// Index returns the index sequence within the declaring struct.
	Index() []int
	// Value reads the field of obj.
	Value(obj any) (any, error)
	// SetValue writes the field of obj, which must be addressable.
	SetValue(obj any, v any) error
}

// Property describes a property.
type Property interface {
	Member
	// PropertyType returns the property type; nil if absent.
	PropertyType() Type
	// Getter returns the getter; nil if absent.
	Getter() Method
	// Setter returns the setter; nil if absent.
	Setter() Method
}

// Event describes an event.
type Event interface {
	Member
	// HandlerType returns the handler type; nil if absent.
	HandlerType() Type
	// AddMethod returns the subscribe method; nil if absent.
	AddMethod() Method
	// RemoveMethod returns the unsubscribe method; nil if absent.
	RemoveMethod() Method
}

// Constructor describes a constructor.
type Constructor interface {
	Member
	// ParameterTypes returns the parameter types.
	ParameterTypes() []Type
	// Invoke calls the constructor.
	Invoke(args ...any) (any, error)
}

// ResourceLocation describes where a manifest resource lives.
type ResourceLocation int

const (
	// ResourceEmbedded marks a resource embedded in the assembly.
	ResourceEmbedded ResourceLocation = 1 << iota
	// ResourceContainedInAnotherAssembly marks a resource forwarded to another assembly.
	ResourceContainedInAnotherAssembly
	// ResourceContainedInManifestFile marks a resource stored in the manifest file.
	ResourceContainedInManifestFile
)

// ManifestResourceInfo describes a manifest resource.
type ManifestResourceInfo interface {
	// Name returns the resource name.
	Name() string
	// FileName returns the file holding the resource, or "" if embedded.
	FileName() string
	// ReferencedAssembly returns the assembly holding the resource; nil if absent.
	ReferencedAssembly() Assembly
	// Location returns the resource location flags.
	Location() ResourceLocation
}
