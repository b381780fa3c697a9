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

// Config carries read-only knobs shared by the facade and the Go host.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// IncludeBuiltins controls whether predeclared types (e.g. "int", "string")
	// are resolvable by name and reported as members of the "std" assembly.
	IncludeBuiltins bool `yaml:"include_builtins" mapstructure:"include_builtins"`

	// MaxUnwrap limits container unwrapping depth (ptr/slice/array/chan/map)
	// when searching for the nearest named type of a composite type.
	MaxUnwrap int `yaml:"max_unwrap" mapstructure:"max_unwrap"`

	// MapPreferElem controls which side of map[K]V is considered primary
	// when searching for a nearest named inner type. If true, prefer V; otherwise K.
	MapPreferElem bool `yaml:"map_prefer_elem" mapstructure:"map_prefer_elem"`

	// LogLevel is a zap level name ("debug", "info", ...) or "development".
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`

	// CapacityHint is the expected number of entries per identity table.
	// It only feeds diagnostics; tables grow without bound.
	CapacityHint int `yaml:"capacity_hint" mapstructure:"capacity_hint"`
}
