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

// Package gohost implements apis.Host over Go's reflect package.
//
// Go cannot enumerate the types of a package at run time, so the host only
// sees the types registered with it. Modules (assemblies) come from the
// binary's build information; packages (modules) are the registered package
// paths; everything else is read from reflect on demand.
package gohost

import (
	"fmt"
	"io/fs"
	"reflect"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/builder"
	"dirpx.dev/mirror/config"
)

// develVersion is the version reported for modules built from a work tree.
const develVersion = "(devel)"

// Host is an apis.Host over Go's reflect package. It is safe for concurrent use.
type Host struct {
	// log traces registration and reconfiguration.
	log *zap.Logger
	// mods is the immutable module set.
	mods *moduleSet
	// st holds the current catalog snapshot.
	st atomic.Pointer[state]
	// buildMu serializes snapshot rebuilds.
	buildMu sync.Mutex
}

// state is an immutable catalog snapshot.
type state struct {
	cfg apis.Config
	bld apis.Builder
	reg apis.Registry
	res apis.Resolver
}

// Ensure Host implements apis.Host.
var _ apis.Host = (*Host)(nil)

// Option configures a Host.
type Option func(*options)

type options struct {
	cfg   apis.Config
	log   *zap.Logger
	bld   apis.Builder
	bi    *debug.BuildInfo
	biSet bool
	mods  []moduleInfo
}

// WithConfig sets the host configuration.
func WithConfig(cfg apis.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the host logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithBuilder sets the builder producing the catalog and the lookup chain.
func WithBuilder(b apis.Builder) Option {
	return func(o *options) {
		if b != nil {
			o.bld = b
		}
	}
}

// WithModule adds a module. It overrides a build info entry with the same path.
func WithModule(path, version, sum string) Option {
	return func(o *options) {
		o.mods = append(o.mods, moduleInfo{path: path, version: version, sum: sum})
	}
}

// WithBuildInfo replaces the build information read from the running binary.
// A nil bi leaves the host with explicit modules and std only.
func WithBuildInfo(bi *debug.BuildInfo) Option {
	return func(o *options) {
		o.bi = bi
		o.biSet = true
	}
}

// New constructs a Host.
func New(opts ...Option) *Host {
	o := options{cfg: config.DefaultConfig(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.biSet {
		if bi, ok := debug.ReadBuildInfo(); ok {
			o.bi = bi
		}
	}
	if o.bld == nil {
		o.bld = builder.New(builder.WithLogger(o.log))
	}

	h := &Host{log: o.log, mods: newModuleSet(o.bi, o.mods)}
	h.st.Store(build(o.cfg, o.bld, nil))
	h.log.Debug("mirror: go host ready", zap.Int("modules", len(h.mods.order)))
	return h
}

// build creates a snapshot, carrying prev's registrations over.
func build(cfg apis.Config, bld apis.Builder, prev apis.Registry) *state {
	reg := bld.BuildRegistry(cfg, prev)
	if reg == nil {
		panic(fmt.Errorf("%w: registry", ErrNilBuilderResult))
	}
	res := bld.BuildResolver(cfg, reg)
	if res == nil {
		panic(fmt.Errorf("%w: resolver", ErrNilBuilderResult))
	}
	return &state{cfg: cfg, bld: bld, reg: reg, res: res}
}

// state returns the current snapshot.
func (h *Host) state() *state {
	return h.st.Load()
}

// Config returns the host configuration.
func (h *Host) Config() apis.Config {
	return h.state().cfg
}

// SetConfig rebuilds the catalog and lookup chain for cfg. Registrations are
// carried over; origins handed out earlier stay valid.
func (h *Host) SetConfig(cfg apis.Config) {
	h.buildMu.Lock()
	defer h.buildMu.Unlock()

	old := h.state()
	h.st.Store(build(cfg, old.bld, old.reg))
	h.log.Debug("mirror: go host reconfigured", zap.Bool("include_builtins", cfg.IncludeBuiltins), zap.Int("max_unwrap", cfg.MaxUnwrap))
}

// SetBuilder rebuilds the catalog and lookup chain with b.
func (h *Host) SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	h.buildMu.Lock()
	defer h.buildMu.Unlock()

	old := h.state()
	h.st.Store(build(old.cfg, b, old.reg))
}

// Registry returns the current catalog.
func (h *Host) Registry() apis.Registry {
	return h.state().reg
}

// Register adds types to the catalog. Every type is attempted; the failures
// are combined.
func (h *Host) Register(types ...reflect.Type) error {
	reg := h.state().reg
	var err error
	for _, t := range types {
		err = multierr.Append(err, reg.Register(t))
	}
	return err
}

// RegisterValue adds the dynamic types of vals to the catalog.
func (h *Host) RegisterValue(vals ...any) error {
	types := make([]reflect.Type, len(vals))
	for i, v := range vals {
		types[i] = reflect.TypeOf(v)
	}
	return h.Register(types...)
}

// RegisterDeferred adds a type produced by load on first use.
func (h *Host) RegisterDeferred(pkgPath, name string, load func() (reflect.Type, error)) error {
	return h.state().reg.RegisterDeferred(pkgPath, name, load)
}

// RegisterConstructor adds a factory for the type fn returns.
func (h *Host) RegisterConstructor(fn any) error {
	return h.state().reg.RegisterConstructor(fn)
}

// RegisterResources attaches a resource file system to a module.
func (h *Host) RegisterResources(modulePath string, fsys fs.FS) error {
	return h.state().reg.RegisterResources(modulePath, fsys)
}

// Assemblies returns the main module, the dependencies by path, then std.
func (h *Host) Assemblies() []apis.Assembly {
	out := make([]apis.Assembly, len(h.mods.order))
	for i, p := range h.mods.order {
		out[i] = assemblyOrigin{h: h, path: p}
	}
	return out
}

// ParseAssemblyName parses "path" or "path@version".
func (h *Host) ParseAssemblyName(s string) (apis.AssemblyName, error) {
	s = strings.TrimSpace(s)
	p, v, _ := strings.Cut(s, "@")
	if p == "" {
		return nil, fmt.Errorf("%w: %q: empty path", ErrInvalidAssemblyName, s)
	}
	if p != StdModule {
		if err := module.CheckPath(p); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAssemblyName, s, err)
		}
	}
	if v != "" && !validVersion(p, v) {
		return nil, fmt.Errorf("%w: %q: invalid version %q", ErrInvalidAssemblyName, s, v)
	}
	return nameOrigin{path: p, version: v}, nil
}

// validVersion accepts semantic versions, "(devel)", and Go release names for std.
func validVersion(path, v string) bool {
	switch {
	case v == develVersion, semver.IsValid(v):
		return true
	case path == StdModule:
		return strings.HasPrefix(v, "go") || strings.HasPrefix(v, "devel")
	default:
		return false
	}
}

// LoadAssembly returns the module named name. A version in name must match.
func (h *Host) LoadAssembly(name apis.AssemblyName) (apis.Assembly, error) {
	if name == nil {
		return nil, nil
	}
	m, ok := h.mods.get(name.Name())
	if !ok {
		return nil, nil
	}
	if v := name.Version(); v != "" && v != m.version {
		return nil, nil
	}
	return assemblyOrigin{h: h, path: m.path}, nil
}

// TypeOf returns the dynamic type of v.
func (h *Host) TypeOf(v any) apis.Type {
	return h.typ(reflect.TypeOf(v))
}

// typ wraps t; nil stays nil.
func (h *Host) typ(t reflect.Type) apis.Type {
	if t == nil {
		return nil
	}
	return typeOrigin{h: h, t: t}
}

// assembly returns the module at path; nil if unknown.
func (h *Host) assembly(path string) apis.Assembly {
	if _, ok := h.mods.get(path); !ok {
		return nil
	}
	return assemblyOrigin{h: h, path: path}
}
