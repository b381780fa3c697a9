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
	"io/fs"
	"reflect"
)

// Registry is the catalog behind the Go host. Go cannot enumerate the types
// of a package at run time, so the host only knows what was registered here.
// Implementations must be safe for concurrent use.
type Registry interface {
	// Register adds the nearest named type of t under its package.
	// Re-registering the same type is a no-op.
	Register(t reflect.Type) error
	// RegisterDeferred adds a type that is produced on first use by load.
	// load runs at most once; its error is remembered.
	RegisterDeferred(pkgPath, name string, load func() (reflect.Type, error)) error
	// RegisterConstructor adds a factory function for the type it returns.
	RegisterConstructor(fn any) error
	// RegisterResources attaches a resource file system to a module path.
	RegisterResources(modulePath string, fsys fs.FS) error

	// Lookup finds an entry by package path and simple name.
	Lookup(pkgPath, name string, ignoreCase bool) (Entry, bool)
	// LookupAlias finds an entry by the alias its type declares through Namer.
	LookupAlias(alias string, ignoreCase bool) (Entry, bool)
	// LookupShort finds entries by "base.Name", where base is the last
	// element of the package path.
	LookupShort(short string, ignoreCase bool) []Entry

	// Package returns the entries of a package ordered by name.
	Package(pkgPath string) []Entry
	// Packages returns the registered package paths in order.
	Packages() []string
	// Constructors returns the factories registered for t in registration order.
	Constructors(t reflect.Type) []reflect.Value
	// Resources returns the file system attached to a module path.
	Resources(modulePath string) (fs.FS, bool)
	// ResourceModules returns the module paths with attached resources in order.
	ResourceModules() []string

	// Entries returns a snapshot of every entry (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears the catalog.
	Reset()
}

// Entry is a single registered type.
type Entry struct {
	// PkgPath is the package path of the type ("builtin" for predeclared types).
	PkgPath string
	// Name is the simple type name.
	Name string
	// Alias is the name declared through Namer, or "".
	Alias string
	// load produces the type; nil for eagerly registered entries.
	load func() (reflect.Type, error)
	// typ is the eagerly registered type.
	typ reflect.Type
}

// NewEntry builds an entry for an eagerly registered type.
func NewEntry(pkgPath, name, alias string, t reflect.Type) Entry {
	return Entry{PkgPath: pkgPath, Name: name, Alias: alias, typ: t}
}

// NewDeferredEntry builds an entry whose type is produced by load.
func NewDeferredEntry(pkgPath, name string, load func() (reflect.Type, error)) Entry {
	return Entry{PkgPath: pkgPath, Name: name, load: load}
}

// Resolve returns the entry's type, loading it if needed.
func (e Entry) Resolve() (reflect.Type, error) {
	if e.load != nil {
		return e.load()
	}
	return e.typ, nil
}

// Deferred reports whether the type is produced on first use.
func (e Entry) Deferred() bool {
	return e.load != nil
}

// FullName returns "pkgPath.Name".
func (e Entry) FullName() string {
	return e.PkgPath + "." + e.Name
}

// Namer lets a type declare an additional lookup name.
type Namer interface {
	// MirrorName returns the alias; it must be non-empty and constant per type.
	MirrorName() string
}
