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
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/cache"
	"dirpx.dev/mirror/config"
	uref "dirpx.dev/mirror/utils/reflect"
)

// Universe is one canonical space of facades over a host: every origin the
// host hands out is wrapped at most once per Universe.
type Universe struct {
	host apis.Host
	// set holds the configuration and logger; both can change without
	// touching the tables.
	set atomic.Pointer[settings]

	assemblies   *cache.Table[apis.Assembly, *Assembly]
	names        *cache.Table[apis.AssemblyName, *AssemblyName]
	modules      *cache.Table[apis.Module, *Module]
	types        *cache.Table[apis.Type, *Type]
	methods      *cache.Table[apis.Method, *Method]
	fields       *cache.Table[apis.Field, *Field]
	properties   *cache.Table[apis.Property, *Property]
	events       *cache.Table[apis.Event, *Event]
	constructors *cache.Table[apis.Constructor, *Constructor]
	resources    *cache.Table[apis.ManifestResourceInfo, *ResourceInfo]
}

// settings is the replaceable part of a Universe.
type settings struct {
	cfg apis.Config
	log *zap.Logger
}

// Option configures a Universe.
type Option func(*settings)

// WithConfig sets the configuration. Only CapacityHint is read by the
// Universe itself.
func WithConfig(cfg apis.Config) Option {
	return func(s *settings) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger shared by the identity tables and the resolver bridge.
func WithLogger(log *zap.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log
		}
	}
}

// New builds a Universe over host. It panics with ErrNilHost if host is nil.
func New(host apis.Host, opts ...Option) *Universe {
	if uref.IsNil(host) {
		panic(ErrNilHost)
	}
	set := &settings{cfg: config.DefaultConfig(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(set)
	}
	u := &Universe{host: host}
	u.set.Store(set)

	topts := set.tableOptions()
	u.assemblies = cache.New("Assembly", func(o apis.Assembly) *Assembly {
		return &Assembly{u: u, origin: o}
	}, topts...)
	u.names = cache.New("AssemblyName", func(o apis.AssemblyName) *AssemblyName {
		return &AssemblyName{u: u, origin: o}
	}, topts...)
	u.modules = cache.New("Module", func(o apis.Module) *Module {
		return &Module{u: u, origin: o}
	}, topts...)
	u.types = cache.New("Type", func(o apis.Type) *Type {
		return &Type{u: u, origin: o}
	}, topts...)
	u.methods = cache.New("Method", func(o apis.Method) *Method {
		return &Method{member: member{u: u}, origin: o}
	}, topts...)
	u.fields = cache.New("Field", func(o apis.Field) *Field {
		return &Field{member: member{u: u}, origin: o}
	}, topts...)
	u.properties = cache.New("Property", func(o apis.Property) *Property {
		return &Property{member: member{u: u}, origin: o}
	}, topts...)
	u.events = cache.New("Event", func(o apis.Event) *Event {
		return &Event{member: member{u: u}, origin: o}
	}, topts...)
	u.constructors = cache.New("Constructor", func(o apis.Constructor) *Constructor {
		return &Constructor{member: member{u: u}, origin: o}
	}, topts...)
	u.resources = cache.New("ResourceInfo", func(o apis.ManifestResourceInfo) *ResourceInfo {
		return &ResourceInfo{u: u, origin: o}
	}, topts...)
	return u
}

func (s *settings) tableOptions() []cache.Option {
	return []cache.Option{
		cache.WithLogger(s.log),
		cache.WithCapacityHint(s.cfg.CapacityHint),
	}
}

// reconfigure applies opts over the current settings. The identity tables
// and every facade handed out so far are kept.
func (u *Universe) reconfigure(opts ...Option) {
	set := *u.set.Load()
	for _, opt := range opts {
		opt(&set)
	}
	u.set.Store(&set)

	topts := set.tableOptions()
	u.assemblies.Configure(topts...)
	u.names.Configure(topts...)
	u.modules.Configure(topts...)
	u.types.Configure(topts...)
	u.methods.Configure(topts...)
	u.fields.Configure(topts...)
	u.properties.Configure(topts...)
	u.events.Configure(topts...)
	u.constructors.Configure(topts...)
	u.resources.Configure(topts...)
}

// Host returns the wrapped host.
func (u *Universe) Host() apis.Host { return u.host }

// Config returns the configuration the Universe was built with.
func (u *Universe) Config() apis.Config { return u.set.Load().cfg }

// Logger returns the Universe logger.
func (u *Universe) Logger() *zap.Logger { return u.set.Load().log }

// Stat is the size of one identity table.
type Stat struct {
	Kind string
	Len  int
}

// Stats reports the size of every identity table in a fixed order.
func (u *Universe) Stats() []Stat {
	return []Stat{
		{u.assemblies.Kind(), u.assemblies.Len()},
		{u.names.Kind(), u.names.Len()},
		{u.modules.Kind(), u.modules.Len()},
		{u.types.Kind(), u.types.Len()},
		{u.methods.Kind(), u.methods.Len()},
		{u.fields.Kind(), u.fields.Len()},
		{u.properties.Kind(), u.properties.Len()},
		{u.events.Kind(), u.events.Len()},
		{u.constructors.Kind(), u.constructors.Len()},
		{u.resources.Kind(), u.resources.Len()},
	}
}

// TypeOf returns the type of v.
func (u *Universe) TypeOf(v any) (*Type, error) {
	return required(u.host.TypeOf(v), msgValueHasNoType, u.wrapType)
}

// TypeForIn returns the type T within u, including interface types that
// TypeOf cannot observe through a value.
func TypeForIn[T any](u *Universe) (*Type, error) {
	pt, err := u.TypeOf((*T)(nil))
	if err != nil {
		return nil, err
	}
	return pt.ElementType()
}

// GetType looks a type up by name. Nil or default resolvers select the
// host's own resolution; host errors are returned unchanged.
func (u *Universe) GetType(name string, asm AssemblyResolver, typ TypeResolver, ignoreCase bool) (*Type, error) {
	t, err := u.host.GetType(name, u.assemblyResolveFunc(asm), u.typeResolveFunc(typ), ignoreCase)
	if err != nil {
		return nil, err
	}
	return required(t, msgTypeNotFound, u.wrapType)
}

// GetAssemblies returns every assembly the host knows, in host order.
func (u *Universe) GetAssemblies() []*Assembly {
	return wrapAll(u.host.Assemblies(), u.wrapAssembly)
}

// LoadAssembly loads an assembly by name.
func (u *Universe) LoadAssembly(name *AssemblyName) (*Assembly, error) {
	a, err := u.host.LoadAssembly(u.unwrapName(name))
	if err != nil {
		return nil, err
	}
	return required(a, msgAssemblyNotFound, u.wrapAssembly)
}

// ParseAssemblyName parses s with the host's name syntax.
func (u *Universe) ParseAssemblyName(s string) (*AssemblyName, error) {
	n, err := u.host.ParseAssemblyName(s)
	if err != nil {
		return nil, err
	}
	return required(n, msgAssemblyNotFound, u.wrapName)
}

func (u *Universe) wrapAssembly(o apis.Assembly) *Assembly { return u.assemblies.GetOrCreate(o) }

func (u *Universe) wrapName(o apis.AssemblyName) *AssemblyName { return u.names.GetOrCreate(o) }

func (u *Universe) wrapModule(o apis.Module) *Module { return u.modules.GetOrCreate(o) }

func (u *Universe) wrapType(o apis.Type) *Type { return u.types.GetOrCreate(o) }

func (u *Universe) wrapMethod(o apis.Method) *Method { return u.methods.GetOrCreate(o) }

func (u *Universe) wrapField(o apis.Field) *Field { return u.fields.GetOrCreate(o) }

func (u *Universe) wrapProperty(o apis.Property) *Property { return u.properties.GetOrCreate(o) }

func (u *Universe) wrapEvent(o apis.Event) *Event { return u.events.GetOrCreate(o) }

func (u *Universe) wrapConstructor(o apis.Constructor) *Constructor {
	return u.constructors.GetOrCreate(o)
}

func (u *Universe) wrapResource(o apis.ManifestResourceInfo) *ResourceInfo {
	return u.resources.GetOrCreate(o)
}

// wrapTypeOrVoid is the return-type wrapper: no result is VoidType.
func (u *Universe) wrapTypeOrVoid(o apis.Type) *Type {
	if uref.IsNil(o) {
		return VoidType
	}
	return u.wrapType(o)
}
