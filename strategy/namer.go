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
	"reflect"

	"dirpx.dev/mirror/apis"
)

// NewNamerStrategy creates an apis.Strategy that resolves the aliases types
// declare through apis.Namer.
func NewNamerStrategy(reg apis.Registry) apis.Strategy {
	return &namerStrategy{reg: reg}
}

// namerStrategy is the first step of the chain: explicit aliases win over
// structural names.
type namerStrategy struct {
	reg apis.Registry
}

// Ensure namerStrategy implements apis.Strategy.
var _ apis.Strategy = (*namerStrategy)(nil)

// TryLookup resolves name as an alias.
func (s *namerStrategy) TryLookup(name string, ignoreCase bool, _ apis.Config) (reflect.Type, bool, error) {
	if s.reg == nil || name == "" {
		return nil, false, nil
	}
	e, ok := s.reg.LookupAlias(name, ignoreCase)
	if !ok {
		return nil, false, nil
	}
	t, err := e.Resolve()
	return t, true, err
}
