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

// Host is the entry point of a reflection subsystem.
type Host interface {
	// Assemblies returns the assemblies currently known to the host.
	Assemblies() []Assembly
	// ParseAssemblyName parses a display name into an AssemblyName.
	ParseAssemblyName(s string) (AssemblyName, error)
	// LoadAssembly returns the assembly named name; (nil, nil) if absent.
	LoadAssembly(name AssemblyName) (Assembly, error)
	// TypeOf returns the dynamic type of v; nil if v has none.
	TypeOf(v any) Type
	// GetType resolves a type name. Nil callbacks select the host's standard
	// resolution. It returns (nil, nil) when the name resolves to nothing.
	GetType(name string, asm AssemblyResolveFunc, typ TypeResolveFunc, ignoreCase bool) (Type, error)
}

// AssemblyResolveFunc maps an assembly name to an assembly; nil result means absent.
type AssemblyResolveFunc func(name AssemblyName) (Assembly, error)

// TypeResolveFunc maps a type name to a type. asm is nil when the name carries
// no assembly context; a nil result means absent.
type TypeResolveFunc func(asm Assembly, name string, ignoreCase bool) (Type, error)

// BinderFunc selects one constructor among candidates for the given parameter
// types; a nil result means no match.
type BinderFunc func(candidates []Constructor, params []Type) (Constructor, error)
