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
	"io"

	"dirpx.dev/mirror/apis"
)

// Sentinel facades. They belong to no Universe, are never cached and are
// compared by pointer.
var (
	// MissingAssembly is handed to a TypeResolver when the name carried no
	// assembly qualifier. A resolver may also return it to mean "not resolved".
	MissingAssembly = &Assembly{origin: sentinelAssembly{}}
	// MissingType is returned by a TypeResolver to mean "not resolved here".
	MissingType = &Type{origin: sentinelType{name: "Missing"}}
	// VoidType is the return type of a method with no results.
	VoidType = &Type{origin: sentinelType{name: "Void"}}
	// TypeNotLoaded stands in for a type that failed to load in
	// Assembly.GetLoadableTypes.
	TypeNotLoaded = &Type{origin: sentinelType{name: "TypeNotLoaded"}}

	missingName = &AssemblyName{origin: sentinelName{}}
)

// sentinelAssembly is an assembly with nothing in it.
type sentinelAssembly struct{}

var _ apis.Assembly = sentinelAssembly{}

func (sentinelAssembly) Name() apis.AssemblyName                   { return sentinelName{} }
func (sentinelAssembly) FullName() string                          { return "Missing" }
func (sentinelAssembly) Types() ([]apis.Type, error)               { return nil, nil }
func (sentinelAssembly) ExportedTypes() []apis.Type                { return nil }
func (sentinelAssembly) Type(string, bool) apis.Type               { return nil }
func (sentinelAssembly) Modules() []apis.Module                    { return nil }
func (sentinelAssembly) Module(string) apis.Module                 { return nil }
func (sentinelAssembly) ManifestModule() apis.Module               { return nil }
func (sentinelAssembly) ReferencedAssemblies() []apis.AssemblyName { return nil }
func (sentinelAssembly) ManifestResourceNames() []string           { return nil }

func (sentinelAssembly) ManifestResourceInfo(string) apis.ManifestResourceInfo { return nil }

func (sentinelAssembly) ManifestResourceStream(string) (io.ReadCloser, error) { return nil, nil }

type sentinelName struct{}

var _ apis.AssemblyName = sentinelName{}

func (sentinelName) Name() string     { return "Missing" }
func (sentinelName) Version() string  { return "" }
func (sentinelName) Checksum() string { return "" }
func (sentinelName) FullName() string { return "Missing" }

// sentinelType is a type with a fixed name and nothing else.
type sentinelType struct {
	name string
}

var _ apis.Type = sentinelType{}

func (s sentinelType) Name() string     { return s.name }
func (s sentinelType) FullName() string { return s.name }
func (sentinelType) Namespace() string  { return "" }
func (sentinelType) Kind() string       { return "" }

func (sentinelType) Assembly() apis.Assembly { return nil }
func (sentinelType) Module() apis.Module     { return nil }
func (sentinelType) BaseType() apis.Type     { return nil }
func (sentinelType) ElementType() apis.Type  { return nil }
func (sentinelType) KeyType() apis.Type      { return nil }
func (sentinelType) Interfaces() []apis.Type { return nil }

func (sentinelType) Method(string, bool) apis.Method     { return nil }
func (sentinelType) Methods() []apis.Method              { return nil }
func (sentinelType) Field(string, bool) apis.Field       { return nil }
func (sentinelType) Fields() []apis.Field                { return nil }
func (sentinelType) Property(string, bool) apis.Property { return nil }
func (sentinelType) Properties() []apis.Property         { return nil }
func (sentinelType) Event(string, bool) apis.Event       { return nil }
func (sentinelType) Events() []apis.Event                { return nil }
func (sentinelType) Constructors() []apis.Constructor    { return nil }

func (sentinelType) Constructor(apis.BinderFunc, []apis.Type) (apis.Constructor, error) {
	return nil, nil
}

func (sentinelType) IsAssignableTo(apis.Type) bool { return false }
func (sentinelType) Implements(apis.Type) bool     { return false }
func (sentinelType) PointerTo() apis.Type          { return nil }
func (sentinelType) SliceOf() apis.Type            { return nil }

// isSentinel reports whether t is one of the sentinel types.
func isSentinel(t *Type) bool {
	return t == MissingType || t == VoidType || t == TypeNotLoaded
}
