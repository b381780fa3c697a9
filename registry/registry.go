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

package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"reflect"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/config"
	uref "dirpx.dev/mirror/utils/reflect"
)

// BuiltinPkgPath is the package path under which predeclared types are catalogued.
const BuiltinPkgPath = "builtin"

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("mirror(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when an empty package path or name is provided.
	ErrEmptyName = errors.New("mirror(registry): empty name provided")
	// ErrNotNamed is returned when a type has no nearest named type.
	ErrNotNamed = errors.New("mirror(registry): type has no nearest named type")
	// ErrConflictingRegistration indicates an attempt to register a different
	// type, alias or resource set under a name already taken.
	ErrConflictingRegistration = errors.New("mirror(registry): conflicting registration")
	// ErrInvalidConstructor is returned for factories that are not
	// func(...) T, func(...) *T, func(...) (T, error) or func(...) (*T, error).
	ErrInvalidConstructor = errors.New("mirror(registry): invalid constructor")
	// ErrNilLoader is returned when a deferred type has no loader.
	ErrNilLoader = errors.New("mirror(registry): nil loader provided")
	// ErrNilFS is returned when a nil resource file system is provided.
	ErrNilFS = errors.New("mirror(registry): nil resource file system provided")
	// ErrTypeMismatch is returned by a deferred entry whose loader produced a
	// type with a different package path or name.
	ErrTypeMismatch = errors.New("mirror(registry): deferred type mismatch")
)

var (
	errorType = reflect.TypeFor[error]()
	namerType = reflect.TypeFor[apis.Namer]()
)

// Option configures a Registry.
type Option func(*registry)

// WithLogger sets the logger used to trace registrations.
func WithLogger(log *zap.Logger) Option {
	return func(r *registry) {
		if log != nil {
			r.log = log
		}
	}
}

// New constructs a Registry that normalizes types according to cfg.
// Only MaxUnwrap and MapPreferElem are used here.
func New(cfg apis.Config, opts ...Option) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	r := &registry{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	r.init()
	return r
}

// registry is a Registry implementation backed by plain maps under a RWMutex.
// Several indices must change together, which sync.Map cannot express.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// log traces registrations.
	log *zap.Logger
	// mu guards every field below.
	mu sync.RWMutex
	// pkgs maps package path -> simple name -> entry.
	pkgs map[string]map[string]apis.Entry
	// order lists entries in registration order.
	order []apis.Entry
	// types maps eagerly registered types to their entry.
	types map[reflect.Type]apis.Entry
	// folded maps the case-folded full name to entries.
	folded map[string][]apis.Entry
	// aliases maps Namer aliases to entries.
	aliases map[string]apis.Entry
	// foldedAliases maps case-folded aliases to entries.
	foldedAliases map[string][]apis.Entry
	// shorts maps "base.Name" to entries.
	shorts map[string][]apis.Entry
	// foldedShorts maps case-folded "base.Name" to entries.
	foldedShorts map[string][]apis.Entry
	// ctors maps a type to its factories.
	ctors map[reflect.Type][]reflect.Value
	// resources maps module paths to resource file systems.
	resources map[string]fs.FS
}

// init resets every index.
func (r *registry) init() {
	r.pkgs = make(map[string]map[string]apis.Entry)
	r.order = nil
	r.types = make(map[reflect.Type]apis.Entry)
	r.folded = make(map[string][]apis.Entry)
	r.aliases = make(map[string]apis.Entry)
	r.foldedAliases = make(map[string][]apis.Entry)
	r.shorts = make(map[string][]apis.Entry)
	r.foldedShorts = make(map[string][]apis.Entry)
	r.ctors = make(map[reflect.Type][]reflect.Value)
	r.resources = make(map[string]fs.FS)
}

// Fold returns the case-folded form of s. A Caser keeps state, so each call
// gets a fresh one.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ShortName returns "base.Name" where base is the last element of pkgPath.
func ShortName(pkgPath, name string) string {
	return path.Base(pkgPath) + "." + name
}

// PkgPathOf returns the catalog package path of a named type.
func PkgPathOf(t reflect.Type) string {
	if p := t.PkgPath(); p != "" {
		return p
	}
	return BuiltinPkgPath
}

// Register adds the nearest named type of t under its package.
// It is idempotent for the same type.
func (r *registry) Register(t reflect.Type) error {
	if t == nil {
		return ErrNilType
	}
	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotNamed, t)
	}

	// Fast read path: idempotency without the write lock.
	r.mu.RLock()
	_, ok := r.types[b]
	r.mu.RUnlock()
	if ok {
		return nil
	}

	e := apis.NewEntry(PkgPathOf(b), b.Name(), aliasOf(b), b)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[b]; ok {
		return nil
	}
	if err := r.insertLocked(e); err != nil {
		return err
	}
	r.types[b] = e
	r.log.Debug("mirror: registered type", zap.String("type", e.FullName()), zap.String("alias", e.Alias))
	return nil
}

// RegisterDeferred adds a type produced on first use by load.
func (r *registry) RegisterDeferred(pkgPath, name string, load func() (reflect.Type, error)) error {
	if pkgPath == "" || name == "" {
		return ErrEmptyName
	}
	if load == nil {
		return ErrNilLoader
	}
	once := sync.OnceValues(func() (reflect.Type, error) {
		t, err := load()
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, ErrNilType
		}
		if PkgPathOf(t) != pkgPath || t.Name() != name {
			return nil, fmt.Errorf("%w: want %s.%s, loaded %s", ErrTypeMismatch, pkgPath, name, t)
		}
		return t, nil
	})
	e := apis.NewDeferredEntry(pkgPath, name, once)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.insertLocked(e); err != nil {
		return err
	}
	r.log.Debug("mirror: registered deferred type", zap.String("type", e.FullName()))
	return nil
}

// insertLocked adds e to every index. r.mu must be held for writing.
func (r *registry) insertLocked(e apis.Entry) error {
	if _, ok := r.pkgs[e.PkgPath][e.Name]; ok {
		return fmt.Errorf("%w: type %s", ErrConflictingRegistration, e.FullName())
	}
	if e.Alias != "" {
		if _, ok := r.aliases[e.Alias]; ok {
			return fmt.Errorf("%w: alias %q", ErrConflictingRegistration, e.Alias)
		}
		r.aliases[e.Alias] = e
		fa := Fold(e.Alias)
		r.foldedAliases[fa] = append(r.foldedAliases[fa], e)
	}

	pkg, ok := r.pkgs[e.PkgPath]
	if !ok {
		pkg = make(map[string]apis.Entry)
		r.pkgs[e.PkgPath] = pkg
	}
	pkg[e.Name] = e
	r.order = append(r.order, e)

	ff := Fold(e.FullName())
	r.folded[ff] = append(r.folded[ff], e)
	short := ShortName(e.PkgPath, e.Name)
	r.shorts[short] = append(r.shorts[short], e)
	fsh := Fold(short)
	r.foldedShorts[fsh] = append(r.foldedShorts[fsh], e)
	return nil
}

// aliasOf returns the Namer alias declared by t, or "".
func aliasOf(t reflect.Type) string {
	switch {
	case t.Kind() == reflect.Interface:
		return ""
	case t.Implements(namerType):
		return reflect.Zero(t).Interface().(apis.Namer).MirrorName()
	case reflect.PointerTo(t).Implements(namerType):
		return reflect.New(t).Interface().(apis.Namer).MirrorName()
	default:
		return ""
	}
}

// RegisterConstructor adds fn as a factory of the type it returns and
// registers that type.
func (r *registry) RegisterConstructor(fn any) error {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Errorf("%w: %T is not a function", ErrInvalidConstructor, fn)
	}
	ft := v.Type()
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return fmt.Errorf("%w: %s must return T or (T, error)", ErrInvalidConstructor, ft)
	}
	t := ft.Out(0)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return fmt.Errorf("%w: %s does not return a named type", ErrInvalidConstructor, ft)
	}
	if err := r.Register(t); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[t] = append(r.ctors[t], v)
	r.log.Debug("mirror: registered constructor", zap.Stringer("type", t), zap.Stringer("func", ft))
	return nil
}

// RegisterResources attaches fsys to modulePath.
func (r *registry) RegisterResources(modulePath string, fsys fs.FS) error {
	if modulePath == "" {
		return ErrEmptyName
	}
	if fsys == nil {
		return ErrNilFS
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resources[modulePath]; ok {
		return fmt.Errorf("%w: resources of %s", ErrConflictingRegistration, modulePath)
	}
	r.resources[modulePath] = fsys
	return nil
}

// Lookup finds an entry by package path and simple name. Case-insensitive
// lookups that match several entries return the first registered one.
func (r *registry) Lookup(pkgPath, name string, ignoreCase bool) (apis.Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.pkgs[pkgPath][name]; ok {
		return e, true
	}
	if !ignoreCase {
		return apis.Entry{}, false
	}
	if es := r.folded[Fold(pkgPath+"."+name)]; len(es) > 0 {
		return es[0], true
	}
	return apis.Entry{}, false
}

// LookupAlias finds an entry by Namer alias.
func (r *registry) LookupAlias(alias string, ignoreCase bool) (apis.Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.aliases[alias]; ok {
		return e, true
	}
	if !ignoreCase {
		return apis.Entry{}, false
	}
	if es := r.foldedAliases[Fold(alias)]; len(es) > 0 {
		return es[0], true
	}
	return apis.Entry{}, false
}

// LookupShort finds entries by "base.Name".
func (r *registry) LookupShort(short string, ignoreCase bool) []apis.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ignoreCase {
		return slices.Clone(r.foldedShorts[Fold(short)])
	}
	return slices.Clone(r.shorts[short])
}

// Package returns the entries of a package ordered by name.
func (r *registry) Package(pkgPath string) []apis.Entry {
	r.mu.RLock()
	entries := make([]apis.Entry, 0, len(r.pkgs[pkgPath]))
	for _, e := range r.pkgs[pkgPath] {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	slices.SortFunc(entries, func(a, b apis.Entry) int { return strings.Compare(a.Name, b.Name) })
	return entries
}

// Packages returns the registered package paths in order.
func (r *registry) Packages() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.pkgs))
	for p := range r.pkgs {
		out = append(out, p)
	}
	r.mu.RUnlock()

	slices.Sort(out)
	return out
}

// Constructors returns the factories registered for t in registration order.
func (r *registry) Constructors(t reflect.Type) []reflect.Value {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.ctors[t])
}

// Resources returns the file system attached to modulePath.
func (r *registry) Resources(modulePath string) (fs.FS, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fsys, ok := r.resources[modulePath]
	return fsys, ok
}

// ResourceModules returns the module paths with attached resources in order.
func (r *registry) ResourceModules() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.resources))
	for m := range r.resources {
		out = append(out, m)
	}
	r.mu.RUnlock()

	slices.Sort(out)
	return out
}

// Entries returns a snapshot in registration order.
func (r *registry) Entries() []apis.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Reset clears all registered entries, constructors and resources.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.init()
}
