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

import "errors"

var (
	// ErrMalformedTypeName is returned by GetType for names that do not parse
	// as a Go type expression.
	ErrMalformedTypeName = errors.New("mirror(gohost): malformed type name")
	// ErrForeignType is returned when a type that did not come from this host
	// is used to build or bind against this host's types.
	ErrForeignType = errors.New("mirror(gohost): type does not belong to this host")
	// ErrInvalidAssemblyName is returned by ParseAssemblyName.
	ErrInvalidAssemblyName = errors.New("mirror(gohost): invalid assembly name")
	// ErrInvocation is returned when a reflective call cannot be made or panics.
	ErrInvocation = errors.New("mirror(gohost): invocation failed")
	// ErrTypeLoad wraps the failure of a deferred type.
	ErrTypeLoad = errors.New("mirror(gohost): type failed to load")
	// ErrNilBuilderResult is the panic value raised when a builder returns a
	// nil registry or resolver.
	ErrNilBuilderResult = errors.New("mirror(gohost): builder returned nil")
)
