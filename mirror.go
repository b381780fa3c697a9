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
	"io/fs"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/config"
	"dirpx.dev/mirror/gohost"
	uref "dirpx.dev/mirror/utils/reflect"
)

// init publishes the default Universe over a Go host for the running binary.
func init() {
	cfg := config.DefaultConfig()
	st.Store(New(gohost.New(gohost.WithConfig(cfg)), WithConfig(cfg)))
}

var (
	// st holds the published default Universe.
	st atomic.Pointer[Universe]
	// buildMu serializes reconfiguration.
	buildMu sync.Mutex
)

// Registrar is implemented by hosts that accept type registrations, such as
// *gohost.Host.
type Registrar interface {
	Register(types ...reflect.Type) error
	RegisterValue(vals ...any) error
	RegisterDeferred(pkgPath, name string, load func() (reflect.Type, error)) error
	RegisterConstructor(fn any) error
	RegisterResources(modulePath string, fsys fs.FS) error
}

var _ Registrar = (*gohost.Host)(nil)

// configurable is implemented by hosts that take the shared configuration.
type configurable interface {
	SetConfig(cfg apis.Config)
}

// Default returns the published default Universe.
func Default() *Universe {
	return st.Load()
}

// SetAll replaces the default host, configuration and logger. Nil arguments
// leave the corresponding component unchanged. A host that accepts a
// configuration receives cfg as well.
//
// While the host stays the same the default Universe is reconfigured in
// place, so facades obtained earlier remain canonical. A different host
// publishes a new Universe with empty identity tables.
func SetAll(host apis.Host, cfg *apis.Config, log *zap.Logger) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()

	nhost := old.host
	if !uref.IsNil(host) {
		nhost = host
	}
	opts := make([]Option, 0, 2)
	if cfg != nil {
		if c, ok := nhost.(configurable); ok {
			c.SetConfig(*cfg)
		}
		opts = append(opts, WithConfig(*cfg))
	}
	if log != nil {
		opts = append(opts, WithLogger(log))
	}

	if sameHost(nhost, old.host) {
		old.reconfigure(opts...)
		old.Logger().Debug("mirror: reconfigured default universe",
			zap.Bool("config_changed", cfg != nil),
			zap.Bool("logger_changed", log != nil),
		)
		return
	}

	u := New(nhost, append([]Option{WithConfig(old.Config()), WithLogger(old.Logger())}, opts...)...)
	u.Logger().Debug("mirror: publishing default universe",
		zap.Bool("config_changed", cfg != nil),
	)
	st.Store(u)
}

// sameHost reports whether a and b are the same host value.
func sameHost(a, b apis.Host) bool {
	ta := reflect.TypeOf(a)
	return ta == reflect.TypeOf(b) && ta.Comparable() && a == b
}

// SetHost replaces the default host. It panics with ErrNilHost if host is nil.
func SetHost(host apis.Host) {
	if uref.IsNil(host) {
		panic(ErrNilHost)
	}
	SetAll(host, nil, nil)
}

// SetConfig replaces the default configuration.
func SetConfig(cfg apis.Config) {
	SetAll(nil, &cfg, nil)
}

// SetLogger replaces the default logger.
func SetLogger(log *zap.Logger) {
	SetAll(nil, nil, log)
}

// TypeOf returns the type of v in the default Universe.
func TypeOf(v any) (*Type, error) {
	return Default().TypeOf(v)
}

// TypeFor returns the type T in the default Universe.
func TypeFor[T any]() (*Type, error) {
	return TypeForIn[T](Default())
}

// GetType looks a type up by name in the default Universe.
func GetType(name string, asm AssemblyResolver, typ TypeResolver, ignoreCase bool) (*Type, error) {
	return Default().GetType(name, asm, typ, ignoreCase)
}

// GetAssemblies returns the assemblies of the default host.
func GetAssemblies() []*Assembly {
	return Default().GetAssemblies()
}

// LoadAssembly loads an assembly of the default host.
func LoadAssembly(name *AssemblyName) (*Assembly, error) {
	return Default().LoadAssembly(name)
}

// ParseAssemblyName parses s with the default host's name syntax.
func ParseAssemblyName(s string) (*AssemblyName, error) {
	return Default().ParseAssemblyName(s)
}

// Stats reports the identity tables of the default Universe.
func Stats() []Stat {
	return Default().Stats()
}

// registrar returns the default host as a Registrar.
func registrar() (Registrar, error) {
	r, ok := Default().Host().(Registrar)
	if !ok {
		return nil, ErrNotRegistrable
	}
	return r, nil
}

// Register adds types to the default host.
func Register(types ...reflect.Type) error {
	r, err := registrar()
	if err != nil {
		return err
	}
	return r.Register(types...)
}

// RegisterValue adds the types of vals to the default host.
func RegisterValue(vals ...any) error {
	r, err := registrar()
	if err != nil {
		return err
	}
	return r.RegisterValue(vals...)
}

// RegisterDeferred adds a lazily loaded type to the default host.
func RegisterDeferred(pkgPath, name string, load func() (reflect.Type, error)) error {
	r, err := registrar()
	if err != nil {
		return err
	}
	return r.RegisterDeferred(pkgPath, name, load)
}

// RegisterConstructor adds a factory function to the default host.
func RegisterConstructor(fn any) error {
	r, err := registrar()
	if err != nil {
		return err
	}
	return r.RegisterConstructor(fn)
}

// RegisterResources attaches a resource file system to a module of the
// default host.
func RegisterResources(modulePath string, fsys fs.FS) error {
	r, err := registrar()
	if err != nil {
		return err
	}
	return r.RegisterResources(modulePath, fsys)
}
