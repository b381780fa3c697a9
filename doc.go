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

// Package mirror provides an identity-preserving facade over a host
// reflection subsystem.
//
// A host (see apis.Host) describes assemblies, modules, types and members
// through origin values it may mint afresh on every call. mirror wraps each
// origin in a facade and keeps exactly one facade per distinct origin, so
// callers can compare, hash and cache facades by pointer:
//
//	t1, _ := mirror.TypeOf(Widget{})
//	t2, _ := mirror.GetType("example.com/app.Widget", nil, nil, false)
//	t1 == t2 // true
//
// # Design
//
// A Universe owns one identity table per facade kind (Assembly,
// AssemblyName, Module, Type, Method, Field, Property, Event, Constructor,
// ResourceInfo). Every accessor that returns a facade routes the host's
// origin through the matching table. Tables never evict.
//
// Host absence is never returned as a nil facade. Accessors that can come
// back empty return (X, error) and fail with a *NotFoundError matching
// ErrNotFound; collections are returned eagerly wrapped and in host order.
// Host errors pass through unchanged, so errors.Is keeps working against
// the host's sentinels.
//
// # Sentinels
//
// MissingAssembly, MissingType, VoidType and TypeNotLoaded are fixed
// facades that belong to no Universe:
//
//   - Method.ReturnType returns VoidType for a method without results.
//   - Assembly.GetLoadableTypes substitutes TypeNotLoaded for entries the
//     host failed to load.
//   - A TypeResolver receives MissingAssembly for unqualified names and may
//     return MissingType (or nil) to let the host continue.
//
// DefaultAssemblyResolver, DefaultTypeResolver and DefaultBinder select the
// host's own behavior; a nil resolver or binder does the same.
//
// # Default universe
//
// The package publishes a default Universe over a gohost.Host for the
// running binary. Reads load it atomically; SetHost, SetConfig, SetLogger
// and SetAll build a new Universe under a mutex and publish it. The
// package-level helpers (TypeOf, TypeFor, GetType, Register, ...) operate on
// the default Universe and its host.
//
// # Programming errors
//
// Handing a facade from one Universe to another, building a Universe over a
// nil host, or a host returning nil inside a collection panics.
package mirror
