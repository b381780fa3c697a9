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
	"fmt"
	"reflect"
	"strings"

	"dirpx.dev/mirror/apis"
)

// NewShortNameStrategy creates an apis.Strategy that resolves the compact
// "base.Name" form, where base is the last element of the package path.
func NewShortNameStrategy(reg apis.Registry) apis.Strategy {
	return &shortNameStrategy{reg: reg}
}

// shortNameStrategy accepts names such as "strategy.A" for a type A declared
// in ".../strategy". Several matches are an error, never a guess.
type shortNameStrategy struct {
	reg apis.Registry
}

// Ensure shortNameStrategy implements apis.Strategy.
var _ apis.Strategy = (*shortNameStrategy)(nil)

// TryLookup resolves a short name.
func (s *shortNameStrategy) TryLookup(name string, ignoreCase bool, _ apis.Config) (reflect.Type, bool, error) {
	if s.reg == nil || strings.ContainsRune(name, '/') || !strings.ContainsRune(name, '.') {
		return nil, false, nil
	}
	es := s.reg.LookupShort(name, ignoreCase)
	switch len(es) {
	case 0:
		return nil, false, nil
	case 1:
		t, err := es[0].Resolve()
		return t, true, err
	default:
		full := make([]string, len(es))
		for i, e := range es {
			full[i] = e.FullName()
		}
		return nil, true, fmt.Errorf("%w: %q matches %s", ErrAmbiguousName, name, strings.Join(full, ", "))
	}
}
