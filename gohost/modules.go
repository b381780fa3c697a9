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

import (
	"runtime"
	"runtime/debug"
	"slices"
	"strings"

	"dirpx.dev/mirror/registry"
)

// StdModule is the path of the synthetic module holding the standard library
// and the predeclared types.
const StdModule = "std"

// moduleInfo describes one Go module known to the host.
type moduleInfo struct {
	path    string
	version string
	sum     string
	main    bool
}

// moduleSet is the immutable set of modules of a host.
type moduleSet struct {
	byPath map[string]moduleInfo
	// order is main module first, dependencies by path, then std.
	order []string
}

// newModuleSet builds the module set from build info and explicit modules.
// Explicit modules override build info entries with the same path.
func newModuleSet(bi *debug.BuildInfo, extra []moduleInfo) *moduleSet {
	s := &moduleSet{byPath: make(map[string]moduleInfo)}
	mainPath := ""
	if bi != nil {
		if bi.Main.Path != "" {
			mainPath = bi.Main.Path
			s.byPath[mainPath] = moduleInfo{path: mainPath, version: bi.Main.Version, sum: bi.Main.Sum, main: true}
		}
		for _, d := range bi.Deps {
			if d == nil || d.Path == "" {
				continue
			}
			m := moduleInfo{path: d.Path, version: d.Version, sum: d.Sum}
			if r := d.Replace; r != nil {
				if r.Version != "" {
					m.version = r.Version
				}
				m.sum = r.Sum
			}
			s.byPath[m.path] = m
		}
	}
	for _, m := range extra {
		if m.path == mainPath {
			m.main = true
		}
		s.byPath[m.path] = m
	}
	s.byPath[StdModule] = moduleInfo{path: StdModule, version: runtime.Version()}

	deps := make([]string, 0, len(s.byPath))
	for p := range s.byPath {
		if p != mainPath && p != StdModule {
			deps = append(deps, p)
		}
	}
	slices.Sort(deps)
	if mainPath != "" {
		s.order = append(s.order, mainPath)
	}
	s.order = append(s.order, deps...)
	s.order = append(s.order, StdModule)
	return s
}

// get returns the module with the given path.
func (s *moduleSet) get(path string) (moduleInfo, bool) {
	m, ok := s.byPath[path]
	return m, ok
}

// main returns the main module, if any.
func (s *moduleSet) main() (moduleInfo, bool) {
	if len(s.order) == 0 {
		return moduleInfo{}, false
	}
	m := s.byPath[s.order[0]]
	return m, m.main
}

// owner returns the path of the module a package belongs to: std for the
// standard library and predeclared types, otherwise the longest module path
// that prefixes the package path.
func (s *moduleSet) owner(pkgPath string) (string, bool) {
	if pkgPath == "main" {
		m, ok := s.main()
		return m.path, ok
	}
	if isStdPackage(pkgPath) {
		return StdModule, true
	}
	best := ""
	for p := range s.byPath {
		if p == StdModule || len(p) <= len(best) {
			continue
		}
		if pkgPath == p || strings.HasPrefix(pkgPath, p+"/") {
			best = p
		}
	}
	return best, best != ""
}

// isStdPackage reports whether pkgPath names a standard library package:
// its first path element has no dot.
func isStdPackage(pkgPath string) bool {
	if pkgPath == registry.BuiltinPkgPath {
		return true
	}
	first, _, _ := strings.Cut(pkgPath, "/")
	return first != "" && !strings.Contains(first, ".")
}

// ownedBy reports whether pkgPath belongs to module.
func (s *moduleSet) ownedBy(pkgPath, module string) bool {
	o, ok := s.owner(pkgPath)
	return ok && o == module
}
