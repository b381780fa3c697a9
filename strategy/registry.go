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

package strategy

import (
	"errors"
	"reflect"
	"strings"

	"dirpx.dev/mirror/apis"
)

// ErrAmbiguousName is returned when a short name matches several registered types.
var ErrAmbiguousName = errors.New("mirror(strategy): ambiguous type name")

// SplitFullName splits "pkg/path.Name" into its package path and simple name.
// The separator is the last '.' after the last '/'.
func SplitFullName(name string) (pkgPath, simple string, ok bool) {
	slash := strings.LastIndexByte(name, '/')
	dot := strings.LastIndexByte(name[slash+1:], '.')
	if dot < 0 {
		return "", "", false
	}
	dot += slash + 1
	pkgPath, simple = name[:dot], name[dot+1:]
	if pkgPath == "" || simple == "" {
		return "", "", false
	}
	return pkgPath, simple, true
}

// NewRegistryStrategy creates an apis.Strategy that resolves full names
// ("pkg/path.Name") through an apis.Registry.
func NewRegistryStrategy(reg apis.Registry) apis.Strategy {
	return &registryStrategy{reg: reg}
}

// registryStrategy consults a provided apis.Registry.
type registryStrategy struct {
	reg apis.Registry
}

// Ensure registryStrategy implements apis.Strategy.
var _ apis.Strategy = (*registryStrategy)(nil)

// TryLookup looks the full name up in the registry.
func (s *registryStrategy) TryLookup(name string, ignoreCase bool, _ apis.Config) (reflect.Type, bool, error) {
	if s.reg == nil {
		return nil, false, nil
	}
	pkg, simple, ok := SplitFullName(name)
	if !ok {
		return nil, false, nil
	}
	e, ok := s.reg.Lookup(pkg, simple, ignoreCase)
	if !ok {
		return nil, false, nil
	}
	t, err := e.Resolve()
	return t, true, err
}
