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

// Module is the canonical facade of a host module.
type Module struct {
	u      *Universe
	origin apis.Module
}

// Origin returns the wrapped host module.
func (m *Module) Origin() apis.Module { return m.origin }

// Equal reports whether m and o wrap equal origins.
func (m *Module) Equal(o *Module) bool {
	return m != nil && o != nil && m.origin == o.origin
}

// String returns the fully qualified name.
func (m *Module) String() string { return m.origin.FullyQualifiedName() }

// Name returns the last element of the package path.
func (m *Module) Name() string { return m.origin.Name() }

// FullyQualifiedName returns the package path.
func (m *Module) FullyQualifiedName() string { return m.origin.FullyQualifiedName() }

// Assembly returns the assembly that owns m.
func (m *Module) Assembly() (*Assembly, error) {
	return required(m.origin.Assembly(), msgModuleNoAssembly, m.u.wrapAssembly)
}

// GetTypes returns the registered types of the package.
func (m *Module) GetTypes() []*Type {
	return wrapAll(m.origin.Types(), m.u.wrapType)
}

// GetType finds a type of the package by name.
func (m *Module) GetType(name string, ignoreCase bool) (*Type, error) {
	return required(m.origin.Type(name, ignoreCase), msgTypeNotFound, m.u.wrapType)
}
