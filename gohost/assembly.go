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
	"embed"
	"errors"
	"fmt"
	"go/token"
	"io"
	"io/fs"
	"path"
	"reflect"
	"slices"
	"strings"

	"go.uber.org/multierr"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/registry"
	"dirpx.dev/mirror/strategy"
)

// nameOrigin is a module identity.
type nameOrigin struct {
	path    string
	version string
	sum     string
}

// Ensure nameOrigin implements apis.AssemblyName.
var _ apis.AssemblyName = nameOrigin{}

func (n nameOrigin) Name() string     { return n.path }
func (n nameOrigin) Version() string  { return n.version }
func (n nameOrigin) Checksum() string { return n.sum }

// FullName returns "path@version", or the bare path without a version.
func (n nameOrigin) FullName() string {
	if n.version == "" {
		return n.path
	}
	return n.path + "@" + n.version
}

// assemblyOrigin is a Go module known to a host.
type assemblyOrigin struct {
	h    *Host
	path string
}

// Ensure assemblyOrigin implements apis.Assembly.
var _ apis.Assembly = assemblyOrigin{}

func (a assemblyOrigin) info() moduleInfo {
	m, _ := a.h.mods.get(a.path)
	return m
}

// Name returns the module identity.
func (a assemblyOrigin) Name() apis.AssemblyName {
	m := a.info()
	return nameOrigin{path: m.path, version: m.version, sum: m.sum}
}

// FullName returns "path@version".
func (a assemblyOrigin) FullName() string {
	return a.Name().FullName()
}

// packages returns the registered packages the module owns, plus builtin for
// std when builtins are visible.
func (a assemblyOrigin) packages() []string {
	s := a.h.state()
	var out []string
	for _, p := range s.reg.Packages() {
		if p != registry.BuiltinPkgPath && a.h.mods.ownedBy(p, a.path) {
			out = append(out, p)
		}
	}
	if a.path == StdModule && s.cfg.IncludeBuiltins {
		out = append(out, registry.BuiltinPkgPath)
		slices.Sort(out)
	}
	return out
}

// Types returns every type of the module. A deferred type that fails to load
// leaves a nil entry; the failures are combined into err.
func (a assemblyOrigin) Types() ([]apis.Type, error) {
	var (
		out  []apis.Type
		errs error
	)
	for _, p := range a.packages() {
		ts, err := a.h.packageTypes(p)
		out = append(out, ts...)
		errs = multierr.Append(errs, err)
	}
	return out, errs
}

// packageTypes returns the types of a package in name order.
func (h *Host) packageTypes(pkg string) ([]apis.Type, error) {
	s := h.state()
	if pkg == registry.BuiltinPkgPath && s.cfg.IncludeBuiltins {
		names := strategy.BuiltinNames()
		out := make([]apis.Type, len(names))
		for i, n := range names {
			t, _ := strategy.Builtin(n, false)
			out[i] = typeOrigin{h: h, t: t}
		}
		return out, nil
	}

	entries := s.reg.Package(pkg)
	out := make([]apis.Type, len(entries))
	var errs error
	for i, e := range entries {
		t, err := e.Resolve()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s: %w", ErrTypeLoad, e.FullName(), err))
			continue
		}
		out[i] = typeOrigin{h: h, t: t}
	}
	return out, errs
}

// ExportedTypes returns the loadable types with exported names.
func (a assemblyOrigin) ExportedTypes() []apis.Type {
	ts, _ := a.Types()
	return slices.DeleteFunc(ts, func(t apis.Type) bool {
		return t == nil || !token.IsExported(t.Name())
	})
}

// Type looks a type up by full name ("pkg/path.Name") or by simple name
// across the module's packages.
func (a assemblyOrigin) Type(name string, ignoreCase bool) apis.Type {
	if pkg, simple, ok := strategy.SplitFullName(name); ok {
		if t := a.h.packageType(pkg, simple, ignoreCase); t != nil && a.h.mods.ownedBy(t.Namespace(), a.path) {
			return t
		}
		return nil
	}
	for _, p := range a.packages() {
		if t := a.h.packageType(p, name, ignoreCase); t != nil {
			return t
		}
	}
	return nil
}

// packageType looks a loadable type up in one package.
func (h *Host) packageType(pkg, name string, ignoreCase bool) apis.Type {
	s := h.state()
	if (pkg == registry.BuiltinPkgPath || ignoreCase && strings.EqualFold(pkg, registry.BuiltinPkgPath)) && s.cfg.IncludeBuiltins {
		t, _ := strategy.Builtin(name, ignoreCase)
		return h.typ(t)
	}
	e, ok := s.reg.Lookup(pkg, name, ignoreCase)
	if !ok {
		return nil
	}
	t, err := e.Resolve()
	if err != nil {
		return nil
	}
	return typeOrigin{h: h, t: t}
}

// Modules returns the module's packages.
func (a assemblyOrigin) Modules() []apis.Module {
	ps := a.packages()
	out := make([]apis.Module, len(ps))
	for i, p := range ps {
		out[i] = moduleOrigin{h: a.h, path: p}
	}
	return out
}

// Module looks a package up by path or by its last path element.
func (a assemblyOrigin) Module(name string) apis.Module {
	for _, p := range a.packages() {
		if p == name || path.Base(p) == name {
			return moduleOrigin{h: a.h, path: p}
		}
	}
	return nil
}

// ManifestModule returns the package at the module root, if registered.
func (a assemblyOrigin) ManifestModule() apis.Module {
	if slices.Contains(a.packages(), a.path) {
		return moduleOrigin{h: a.h, path: a.path}
	}
	return nil
}

// ReferencedAssemblies returns every other module for the main module and
// std for a dependency.
func (a assemblyOrigin) ReferencedAssemblies() []apis.AssemblyName {
	var out []apis.AssemblyName
	switch {
	case a.path == StdModule:
	case a.info().main:
		for _, p := range a.h.mods.order[1:] {
			out = append(out, assemblyOrigin{h: a.h, path: p}.Name())
		}
	default:
		out = append(out, assemblyOrigin{h: a.h, path: StdModule}.Name())
	}
	return out
}

// resources returns the resource file system attached to the module.
func (a assemblyOrigin) resources() (fs.FS, bool) {
	return a.h.state().reg.Resources(a.path)
}

// ManifestResourceNames returns the slash-separated paths of the attached
// files in lexical order.
func (a assemblyOrigin) ManifestResourceNames() []string {
	fsys, ok := a.resources()
	if !ok {
		return nil
	}
	var out []string
	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			out = append(out, p)
		}
		return nil
	})
	return out
}

// ManifestResourceInfo describes a resource of this module, or one forwarded
// to a referenced module.
func (a assemblyOrigin) ManifestResourceInfo(name string) apis.ManifestResourceInfo {
	if fsys, ok := a.resources(); ok && isFile(fsys, name) {
		return resourceOrigin{h: a.h, module: a.path, owner: a.path, name: name}
	}
	for _, ref := range a.ReferencedAssemblies() {
		fsys, ok := a.h.state().reg.Resources(ref.Name())
		if ok && isFile(fsys, name) {
			return resourceOrigin{h: a.h, module: a.path, owner: ref.Name(), name: name}
		}
	}
	return nil
}

// ManifestResourceStream opens a resource; (nil, nil) if it does not exist.
func (a assemblyOrigin) ManifestResourceStream(name string) (io.ReadCloser, error) {
	fsys, ok := a.resources()
	if !ok || !isFile(fsys, name) {
		return nil, nil
	}
	f, err := fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// isFile reports whether name is a regular file of fsys.
func isFile(fsys fs.FS, name string) bool {
	fi, err := fs.Stat(fsys, name)
	return err == nil && !fi.IsDir()
}

// moduleOrigin is a Go package.
type moduleOrigin struct {
	h    *Host
	path string
}

// Ensure moduleOrigin implements apis.Module.
var _ apis.Module = moduleOrigin{}

// Name returns the last element of the package path.
func (m moduleOrigin) Name() string { return path.Base(m.path) }

// FullyQualifiedName returns the package path.
func (m moduleOrigin) FullyQualifiedName() string { return m.path }

// Assembly returns the module owning the package.
func (m moduleOrigin) Assembly() apis.Assembly {
	p, ok := m.h.mods.owner(m.path)
	if !ok {
		return nil
	}
	return m.h.assembly(p)
}

// Types returns the loadable types of the package.
func (m moduleOrigin) Types() []apis.Type {
	ts, _ := m.h.packageTypes(m.path)
	return slices.DeleteFunc(ts, func(t apis.Type) bool { return t == nil })
}

// Type looks a type up by simple name or by "path.Name".
func (m moduleOrigin) Type(name string, ignoreCase bool) apis.Type {
	if rest, ok := strings.CutPrefix(name, m.path+"."); ok {
		name = rest
	}
	return m.h.packageType(m.path, name, ignoreCase)
}

// resourceOrigin is a file of a module's resource file system.
type resourceOrigin struct {
	h      *Host
	module string
	owner  string
	name   string
}

// Ensure resourceOrigin implements apis.ManifestResourceInfo.
var _ apis.ManifestResourceInfo = resourceOrigin{}

var embedFSType = reflect.TypeFor[embed.FS]()

func (r resourceOrigin) Name() string { return r.name }

// embedded reports whether the owner's files are compiled into the binary.
func (r resourceOrigin) embedded() bool {
	fsys, ok := r.h.state().reg.Resources(r.owner)
	return ok && reflect.TypeOf(fsys) == embedFSType
}

// FileName returns the file a linked resource lives in; "" when embedded.
func (r resourceOrigin) FileName() string {
	if r.owner != r.module || r.embedded() {
		return ""
	}
	return r.name
}

// ReferencedAssembly returns the module holding a forwarded resource.
func (r resourceOrigin) ReferencedAssembly() apis.Assembly {
	if r.owner == r.module {
		return nil
	}
	return r.h.assembly(r.owner)
}

// Location reports where the resource lives.
func (r resourceOrigin) Location() apis.ResourceLocation {
	switch {
	case r.owner != r.module:
		return apis.ResourceContainedInAnotherAssembly
	case r.embedded():
		return apis.ResourceEmbedded | apis.ResourceContainedInManifestFile
	default:
		return 0
	}
}
