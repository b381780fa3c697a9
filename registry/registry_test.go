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

package registry_test

import (
	"errors"
	"io/fs"
	"reflect"
	"runtime"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/config"
	"dirpx.dev/mirror/registry"
)

// A few named types to avoid anonymous/unnamed pitfalls.
type T0 struct{}
type T1 struct{}
type T2 struct{}
type T3 struct{}

// Aliased declares a lookup alias through apis.Namer.
type Aliased struct{}

func (Aliased) MirrorName() string { return "domain.Aliased" }

// PtrAliased declares its alias on the pointer receiver.
type PtrAliased struct{}

func (*PtrAliased) MirrorName() string { return "domain.PtrAliased" }

type Widget struct{ Size int }

func NewWidget(size int) *Widget { return &Widget{Size: size} }
func NewDefaultWidget() (Widget, error) { return Widget{Size: 1}, nil }
func badFactory() (Widget, int) { return Widget{}, 0 }
func anonFactory() struct{ X int } { return struct{ X int }{} }
func newReg(opts ...config.Option) apis.Registry { return registry.New(config.NewConfig(opts...)) }

const pkg = "dirpx.dev/mirror/registry_test"

func TestRegister_IdempotentAndLookup(t *testing.T) {
	reg := newReg()

	// pointer -> nearest named = T1
	require.NoError(t, reg.Register(reflect.TypeOf(&T1{})))
	require.NoError(t, reg.Register(reflect.TypeOf([]T1{})))

	e, ok := reg.Lookup(pkg, "T1", false)
	require.True(t, ok)
	assert.Equal(t, "T1", e.Name)
	assert.Equal(t, pkg, e.PkgPath)
	assert.Equal(t, pkg+".T1", e.FullName())
	assert.False(t, e.Deferred())

	got, err := e.Resolve()
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(T1{}), got)
	assert.Equal(t, 1, reg.Count())
}

func TestRegister_Errors(t *testing.T) {
	reg := newReg()

	assert.ErrorIs(t, reg.Register(nil), registry.ErrNilType)
	assert.ErrorIs(t, reg.Register(reflect.TypeOf(struct{ X int }{})), registry.ErrNotNamed)
	assert.ErrorIs(t, reg.RegisterDeferred("", "X", nil), registry.ErrEmptyName)
	assert.ErrorIs(t, reg.RegisterDeferred(pkg, "X", nil), registry.ErrNilLoader)
	assert.ErrorIs(t, reg.RegisterResources("", fstest.MapFS{}), registry.ErrEmptyName)
	assert.ErrorIs(t, reg.RegisterResources("example.com/m", nil), registry.ErrNilFS)
}

func TestRegister_Builtin(t *testing.T) {
	reg := newReg()
	require.NoError(t, reg.Register(reflect.TypeOf(0)))
	require.NoError(t, reg.Register(reflect.TypeFor[error]()))

	e, ok := reg.Lookup(registry.BuiltinPkgPath, "int", false)
	require.True(t, ok)
	assert.Equal(t, "builtin.int", e.FullName())
	_, ok = reg.Lookup(registry.BuiltinPkgPath, "error", false)
	assert.True(t, ok)
}

func TestRegister_IgnoreCase(t *testing.T) {
	reg := newReg()
	require.NoError(t, reg.Register(reflect.TypeOf(T2{})))

	_, ok := reg.Lookup(pkg, "t2", false)
	assert.False(t, ok)

	e, ok := reg.Lookup(pkg, "t2", true)
	require.True(t, ok)
	assert.Equal(t, "T2", e.Name)
}

func TestAliases(t *testing.T) {
	reg := newReg()
	require.NoError(t, reg.Register(reflect.TypeOf(Aliased{})))
	require.NoError(t, reg.Register(reflect.TypeOf(PtrAliased{})))

	e, ok := reg.LookupAlias("domain.Aliased", false)
	require.True(t, ok)
	assert.Equal(t, "Aliased", e.Name)

	e, ok = reg.LookupAlias("DOMAIN.ptraliased", true)
	require.True(t, ok)
	assert.Equal(t, "PtrAliased", e.Name)

	_, ok = reg.LookupAlias("domain.Missing", true)
	assert.False(t, ok)
}

func TestLookupShort(t *testing.T) {
	reg := newReg()
	require.NoError(t, reg.Register(reflect.TypeOf(T3{})))

	es := reg.LookupShort("registry_test.T3", false)
	require.Len(t, es, 1)
	assert.Equal(t, "T3", es[0].Name)

	assert.Len(t, reg.LookupShort("REGISTRY_TEST.t3", true), 1)
	assert.Empty(t, reg.LookupShort("registry_test.T4", true))
	assert.Equal(t, "m.T", registry.ShortName("example.com/m", "T"))
}

func TestRegisterDeferred(t *testing.T) {
	reg := newReg()
	calls := 0
	require.NoError(t, reg.RegisterDeferred(pkg, "T0", func() (reflect.Type, error) {
		calls++
		return reflect.TypeOf(T0{}), nil
	}))
	boom := errors.New("boom")
	require.NoError(t, reg.RegisterDeferred(pkg, "Broken", func() (reflect.Type, error) { return nil, boom }))
	require.NoError(t, reg.RegisterDeferred(pkg, "Liar", func() (reflect.Type, error) { return reflect.TypeOf(T1{}), nil }))

	e, ok := reg.Lookup(pkg, "T0", false)
	require.True(t, ok)
	assert.True(t, e.Deferred())
	for range 3 {
		got, err := e.Resolve()
		require.NoError(t, err)
		assert.Equal(t, reflect.TypeOf(T0{}), got)
	}
	assert.Equal(t, 1, calls)

	e, _ = reg.Lookup(pkg, "Broken", false)
	_, err := e.Resolve()
	assert.ErrorIs(t, err, boom)

	e, _ = reg.Lookup(pkg, "Liar", false)
	_, err = e.Resolve()
	assert.ErrorIs(t, err, registry.ErrTypeMismatch)
}

func TestRegister_Conflict(t *testing.T) {
	reg := newReg()
	require.NoError(t, reg.RegisterDeferred(pkg, "T1", func() (reflect.Type, error) { return reflect.TypeOf(T1{}), nil }))

	err := reg.Register(reflect.TypeOf(T1{}))
	assert.ErrorIs(t, err, registry.ErrConflictingRegistration)

	err = reg.RegisterDeferred(pkg, "T1", func() (reflect.Type, error) { return nil, nil })
	assert.ErrorIs(t, err, registry.ErrConflictingRegistration)

	require.NoError(t, reg.RegisterResources("example.com/m", fstest.MapFS{}))
	assert.ErrorIs(t, reg.RegisterResources("example.com/m", fstest.MapFS{}), registry.ErrConflictingRegistration)
}

func TestRegisterConstructor(t *testing.T) {
	reg := newReg()
	require.NoError(t, reg.RegisterConstructor(NewWidget))
	require.NoError(t, reg.RegisterConstructor(NewDefaultWidget))

	ctors := reg.Constructors(reflect.TypeOf(Widget{}))
	require.Len(t, ctors, 2)
	assert.Equal(t, reflect.ValueOf(NewWidget).Pointer(), ctors[0].Pointer())

	_, ok := reg.Lookup(pkg, "Widget", false)
	assert.True(t, ok, "constructed type is registered")

	assert.ErrorIs(t, reg.RegisterConstructor(42), registry.ErrInvalidConstructor)
	assert.ErrorIs(t, reg.RegisterConstructor(nil), registry.ErrInvalidConstructor)
	assert.ErrorIs(t, reg.RegisterConstructor(badFactory), registry.ErrInvalidConstructor)
	assert.ErrorIs(t, reg.RegisterConstructor(anonFactory), registry.ErrInvalidConstructor)
	var nilFn func() Widget
	assert.ErrorIs(t, reg.RegisterConstructor(nilFn), registry.ErrInvalidConstructor)
}

func TestPackagesAndResources(t *testing.T) {
	reg := newReg()
	require.NoError(t, reg.Register(reflect.TypeOf(T2{})))
	require.NoError(t, reg.Register(reflect.TypeOf(T0{})))
	require.NoError(t, reg.Register(reflect.TypeOf(0)))

	if diff := cmp.Diff([]string{registry.BuiltinPkgPath, pkg}, reg.Packages()); diff != "" {
		t.Fatalf("Packages() mismatch (-want +got):\n%s", diff)
	}
	names := []string{}
	for _, e := range reg.Package(pkg) {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"T0", "T2"}, names); diff != "" {
		t.Fatalf("Package() mismatch (-want +got):\n%s", diff)
	}

	res := fstest.MapFS{"a.txt": {Data: []byte("a")}}
	require.NoError(t, reg.RegisterResources("example.com/b", res))
	require.NoError(t, reg.RegisterResources("example.com/a", fstest.MapFS{}))
	fsys, ok := reg.Resources("example.com/b")
	require.True(t, ok)
	data, err := fs.ReadFile(fsys, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
	assert.Equal(t, []string{"example.com/a", "example.com/b"}, reg.ResourceModules())
}

func TestEntriesAndReset(t *testing.T) {
	reg := newReg()
	require.NoError(t, reg.Register(reflect.TypeOf(&T1{})))
	require.NoError(t, reg.Register(reflect.TypeOf(&T2{})))
	require.NoError(t, reg.RegisterConstructor(NewWidget))

	snap := reg.Entries()
	require.Len(t, snap, 3)
	assert.Equal(t, "T1", snap[0].Name)

	reg.Reset()

	assert.Zero(t, reg.Count())
	assert.Len(t, snap, 3, "snapshot survives reset")
	_, ok := reg.Lookup(pkg, "T1", false)
	assert.False(t, ok)
	assert.Empty(t, reg.Constructors(reflect.TypeOf(Widget{})))
	assert.Empty(t, reg.ResourceModules())
}

func TestConcurrentRegisterAndLookup(t *testing.T) {
	reg := newReg()
	types := []reflect.Type{
		reflect.TypeOf(T0{}), reflect.TypeOf(T1{}), reflect.TypeOf(T2{}), reflect.TypeOf(T3{}),
	}

	var g errgroup.Group
	workers := runtime.GOMAXPROCS(0) * 4
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < 1000; i++ {
				tt := types[(i+w)%len(types)]
				if err := reg.Register(tt); err != nil {
					return err
				}
				if _, ok := reg.Lookup(pkg, tt.Name(), i%2 == 0); !ok {
					return errors.New("lookup failed for " + tt.Name())
				}
				_ = reg.Entries()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, len(types), reg.Count())
}
