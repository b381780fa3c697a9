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
	"slices"
	"strings"

	"dirpx.dev/mirror/apis"
)

// builtinPrefix is the optional qualifier of predeclared names.
const builtinPrefix = "builtin."

// builtins maps predeclared identifiers to their types.
var builtins = map[string]reflect.Type{
	"any":        reflect.TypeFor[any](),
	"bool":       reflect.TypeFor[bool](),
	"byte":       reflect.TypeFor[byte](),
	"complex64":  reflect.TypeFor[complex64](),
	"complex128": reflect.TypeFor[complex128](),
	"error":      reflect.TypeFor[error](),
	"float32":    reflect.TypeFor[float32](),
	"float64":    reflect.TypeFor[float64](),
	"int":        reflect.TypeFor[int](),
	"int8":       reflect.TypeFor[int8](),
	"int16":      reflect.TypeFor[int16](),
	"int32":      reflect.TypeFor[int32](),
	"int64":      reflect.TypeFor[int64](),
	"rune":       reflect.TypeFor[rune](),
	"string":     reflect.TypeFor[string](),
	"uint":       reflect.TypeFor[uint](),
	"uint8":      reflect.TypeFor[uint8](),
	"uint16":     reflect.TypeFor[uint16](),
	"uint32":     reflect.TypeFor[uint32](),
	"uint64":     reflect.TypeFor[uint64](),
	"uintptr":    reflect.TypeFor[uintptr](),
}

// Builtin returns the predeclared type named name ("int", "builtin.int").
func Builtin(name string, ignoreCase bool) (reflect.Type, bool) {
	name = strings.TrimPrefix(name, builtinPrefix)
	if t, ok := builtins[name]; ok {
		return t, true
	}
	if !ignoreCase {
		return nil, false
	}
	for n, t := range builtins {
		if strings.EqualFold(n, name) {
			return t, true
		}
	}
	return nil, false
}

// NewBuiltinStrategy creates an apis.Strategy resolving predeclared names.
// It is inert unless Config.IncludeBuiltins is set.
func NewBuiltinStrategy() apis.Strategy {
	return builtinStrategy{}
}

// builtinStrategy is the final fallback of the chain.
type builtinStrategy struct{}

// Ensure builtinStrategy implements apis.Strategy.
var _ apis.Strategy = (*builtinStrategy)(nil)

// TryLookup resolves predeclared names.
func (builtinStrategy) TryLookup(name string, ignoreCase bool, cfg apis.Config) (reflect.Type, bool, error) {
	if !cfg.IncludeBuiltins {
		return nil, false, nil
	}
	t, ok := Builtin(name, ignoreCase)
	return t, ok, nil
}

// BuiltinNames returns the names of the predeclared named types in order.
// byte, rune and any are skipped: they denote uint8, int32 and an unnamed
// interface.
func BuiltinNames() []string {
	out := make([]string, 0, len(builtins))
	for n, t := range builtins {
		if t.Name() == n {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}
