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
	uref "dirpx.dev/mirror/utils/reflect"
)

// required turns a host absence into a NotFoundError and wraps anything else.
func required[O, F any](o O, msg string, wrap func(O) F) (F, error) {
	if uref.IsNil(o) {
		var zero F
		return zero, notFound(msg)
	}
	return wrap(o), nil
}

// wrapAll wraps a host collection in order. A nil element reaches the cache
// and panics there.
func wrapAll[O, F any](os []O, wrap func(O) F) []F {
	out := make([]F, len(os))
	for i, o := range os {
		out[i] = wrap(o)
	}
	return out
}

// requiredString faults on an empty string.
func requiredString(s, msg string) (string, error) {
	if s == "" {
		return "", notFound(msg)
	}
	return s, nil
}
