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
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dirpx.dev/mirror/apis"
)

// emptyHost hands out origins that have nothing: every absence-capable
// accessor returns nil, sometimes as a typed nil.
type emptyHost struct{}

func (emptyHost) Assemblies() []apis.Assembly { return []apis.Assembly{emptyAssembly{}} }

func (emptyHost) ParseAssemblyName(string) (apis.AssemblyName, error) { return emptyName{}, nil }

func (emptyHost) LoadAssembly(apis.AssemblyName) (apis.Assembly, error) { return nil, nil }

func (emptyHost) TypeOf(v any) apis.Type {
	if v == nil {
		return nil
	}
	return emptyType{}
}

func (emptyHost) GetType(string, apis.AssemblyResolveFunc, apis.TypeResolveFunc, bool) (apis.Type, error) {
	return (*emptyType)(nil), nil
}

type emptyName struct{}

func (emptyName) Name() string     { return "empty" }
func (emptyName) Version() string  { return "" }
func (emptyName) Checksum() string { return "" }
func (emptyName) FullName() string { return "empty" }

type emptyAssembly struct{}

func (emptyAssembly) Name() apis.AssemblyName                   { return emptyName{} }
func (emptyAssembly) FullName() string                          { return "empty" }
func (emptyAssembly) Types() ([]apis.Type, error)               { return []apis.Type{nil}, nil }
func (emptyAssembly) ExportedTypes() []apis.Type                { return nil }
func (emptyAssembly) Type(string, bool) apis.Type               { return nil }
func (emptyAssembly) Modules() []apis.Module                    { return []apis.Module{emptyModule{}} }
func (emptyAssembly) Module(string) apis.Module                 { return nil }
func (emptyAssembly) ManifestModule() apis.Module               { return nil }
func (emptyAssembly) ReferencedAssemblies() []apis.AssemblyName { return nil }
func (emptyAssembly) ManifestResourceNames() []string           { return []string{"r"} }

func (emptyAssembly) ManifestResourceInfo(name string) apis.ManifestResourceInfo {
	if name == "r" {
		return emptyResource{}
	}
	return nil
}

func (emptyAssembly) ManifestResourceStream(string) (io.ReadCloser, error) { return nil, nil }

type emptyModule struct{}

func (emptyModule) Name() string                { return "empty" }
func (emptyModule) FullyQualifiedName() string  { return "empty" }
func (emptyModule) Assembly() apis.Assembly     { return nil }
func (emptyModule) Types() []apis.Type          { return nil }
func (emptyModule) Type(string, bool) apis.Type { return (*emptyType)(nil) }

type emptyResource struct{}

func (emptyResource) Name() string                      { return "r" }
func (emptyResource) FileName() string                  { return "" }
func (emptyResource) ReferencedAssembly() apis.Assembly { return nil }
func (emptyResource) Location() apis.ResourceLocation   { return 0 }

type emptyType struct{}

func (emptyType) Name() string      { return "empty" }
func (emptyType) FullName() string  { return "empty" }
func (emptyType) Namespace() string { return "" }
func (emptyType) Kind() string      { return "" }

func (emptyType) Assembly() apis.Assembly { return nil }
func (emptyType) Module() apis.Module     { return nil }
func (emptyType) BaseType() apis.Type     { return (*emptyType)(nil) }
func (emptyType) ElementType() apis.Type  { return nil }
func (emptyType) KeyType() apis.Type      { return nil }
func (emptyType) Interfaces() []apis.Type { return nil }

func (emptyType) Method(string, bool) apis.Method     { return nil }
func (emptyType) Methods() []apis.Method              { return []apis.Method{emptyMember{}} }
func (emptyType) Field(string, bool) apis.Field       { return nil }
func (emptyType) Fields() []apis.Field                { return []apis.Field{emptyMember{}} }
func (emptyType) Property(string, bool) apis.Property { return nil }
func (emptyType) Properties() []apis.Property         { return []apis.Property{emptyMember{}} }
func (emptyType) Event(string, bool) apis.Event       { return nil }
func (emptyType) Events() []apis.Event                { return []apis.Event{emptyMember{}} }
func (emptyType) Constructors() []apis.Constructor    { return []apis.Constructor{emptyCtor{}} }

func (emptyType) Constructor(apis.BinderFunc, []apis.Type) (apis.Constructor, error) {
	return nil, nil
}

func (emptyType) IsAssignableTo(apis.Type) bool { return false }
func (emptyType) Implements(apis.Type) bool     { return false }
func (emptyType) PointerTo() apis.Type          { return nil }
func (emptyType) SliceOf() apis.Type            { return nil }

// emptyMember is every member kind at once, with nothing behind it.
type emptyMember struct{}

func (emptyMember) Name() string             { return "empty" }
func (emptyMember) DeclaringType() apis.Type { return nil }
func (emptyMember) Module() apis.Module      { return nil }

func (emptyMember) ReturnType() apis.Type             { return nil }
func (emptyMember) ReturnTypes() []apis.Type          { return nil }
func (emptyMember) ParameterTypes() []apis.Type       { return nil }
func (emptyMember) FieldType() apis.Type              { return nil }
func (emptyMember) Tag(string) (string, bool)         { return "", false }
func (emptyMember) Index() []int                      { return nil }
func (emptyMember) Value(any) (any, error)            { return nil, nil }
func (emptyMember) SetValue(any, any) error           { return nil }
func (emptyMember) PropertyType() apis.Type           { return nil }
func (emptyMember) Getter() apis.Method               { return nil }
func (emptyMember) Setter() apis.Method               { return nil }
func (emptyMember) HandlerType() apis.Type            { return nil }
func (emptyMember) AddMethod() apis.Method            { return nil }
func (emptyMember) RemoveMethod() apis.Method         { return nil }
func (emptyMember) Invoke(any, ...any) ([]any, error) { return nil, nil }

// emptyCtor differs from emptyMember only in its Invoke signature.
type emptyCtor struct{ emptyMember }

func (emptyCtor) Invoke(...any) (any, error) { return nil, nil }

func TestAbsence_NeverLeaks(t *testing.T) {
	u := New(emptyHost{})

	_, err := u.TypeOf(nil)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = u.GetType("x", nil, nil, false)
	assert.ErrorIs(t, err, ErrNotFound, "a typed nil is absent")
	n, err := u.ParseAssemblyName("x")
	require.NoError(t, err)
	_, err = u.LoadAssembly(n)
	assert.ErrorIs(t, err, ErrNotFound)

	typ, err := u.TypeOf(1)
	require.NoError(t, err)
	for name, call := range map[string]func() error{
		"Assembly":        func() error { _, err := typ.Assembly(); return err },
		"Module":          func() error { _, err := typ.Module(); return err },
		"BaseType":        func() error { _, err := typ.BaseType(); return err },
		"ElementType":     func() error { _, err := typ.ElementType(); return err },
		"KeyType":         func() error { _, err := typ.KeyType(); return err },
		"GetMethod":       func() error { _, err := typ.GetMethod("m", false); return err },
		"GetField":        func() error { _, err := typ.GetField("f", false); return err },
		"GetProperty":     func() error { _, err := typ.GetProperty("p", false); return err },
		"GetEvent":        func() error { _, err := typ.GetEvent("e", false); return err },
		"GetConstructor":  func() error { _, err := typ.GetConstructor(nil); return err },
		"GetMember":       func() error { _, err := typ.GetMember("x", false); return err },
		"MakePointerType": func() error { _, err := typ.MakePointerType(); return err },
		"MakeSliceType":   func() error { _, err := typ.MakeSliceType(); return err },
	} {
		assert.ErrorIs(t, call(), ErrNotFound, name)
	}

	a := u.GetAssemblies()[0]
	mod := a.GetModules()[0]
	res, err := a.GetManifestResourceInfo("r")
	require.NoError(t, err)
	for name, call := range map[string]func() error{
		"Assembly.GetType":            func() error { _, err := a.GetType("t", false); return err },
		"Assembly.GetModule":          func() error { _, err := a.GetModule("m"); return err },
		"Assembly.ManifestModule":     func() error { _, err := a.ManifestModule(); return err },
		"Assembly.ResourceInfo":       func() error { _, err := a.GetManifestResourceInfo("x"); return err },
		"Assembly.ResourceStream":     func() error { _, err := a.GetManifestResourceStream("r"); return err },
		"AssemblyName.Version":        func() error { _, err := a.Name().Version(); return err },
		"AssemblyName.Checksum":       func() error { _, err := a.Name().Checksum(); return err },
		"Module.Assembly":             func() error { _, err := mod.Assembly(); return err },
		"Module.GetType":              func() error { _, err := mod.GetType("t", false); return err },
		"Resource.FileName":           func() error { _, err := res.FileName(); return err },
		"Resource.ReferencedAssembly": func() error { _, err := res.ReferencedAssembly(); return err },
	} {
		assert.ErrorIs(t, call(), ErrNotFound, name)
	}
	assert.Equal(t, []*Type{TypeNotLoaded}, a.GetLoadableTypes())

	m, f, p, e := typ.GetMethods()[0], typ.GetFields()[0], typ.GetProperties()[0], typ.GetEvents()[0]
	assert.Same(t, VoidType, m.ReturnType())
	assert.False(t, p.CanRead())
	assert.False(t, p.CanWrite())
	for name, call := range map[string]func() error{
		"Method.DeclaringType":  func() error { _, err := m.DeclaringType(); return err },
		"Method.Module":         func() error { _, err := m.Module(); return err },
		"Field.FieldType":       func() error { _, err := f.FieldType(); return err },
		"Field.Tag":             func() error { _, err := f.Tag("json"); return err },
		"Property.PropertyType": func() error { _, err := p.PropertyType(); return err },
		"Property.GetMethod":    func() error { _, err := p.GetMethod(); return err },
		"Property.SetMethod":    func() error { _, err := p.SetMethod(); return err },
		"Property.GetValue":     func() error { _, err := p.GetValue(nil); return err },
		"Property.SetValue":     func() error { return p.SetValue(nil, nil) },
		"Event.HandlerType":     func() error { _, err := e.HandlerType(); return err },
		"Event.AddMethod":       func() error { _, err := e.AddMethod(); return err },
		"Event.RemoveMethod":    func() error { _, err := e.RemoveMethod(); return err },
		"Event.AddHandler":      func() error { return e.AddHandler(nil, nil) },
		"Event.RemoveHandler":   func() error { return e.RemoveHandler(nil, nil) },
	} {
		assert.ErrorIs(t, call(), ErrNotFound, name)
	}
	assert.Equal(t, "empty", m.String(), "a member without a declaring type renders its bare name")
}

var errLoad = errors.New("load failed")

// brokenAssembly fails to load any of its types.
type brokenAssembly struct{ emptyAssembly }

func (brokenAssembly) Types() ([]apis.Type, error) { return nil, errLoad }

type brokenHost struct{ emptyHost }

func (brokenHost) Assemblies() []apis.Assembly { return []apis.Assembly{brokenAssembly{}} }

func TestAbsence_LoadableTypesLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	u := New(brokenHost{}, WithLogger(zap.New(core)))
	a := u.GetAssemblies()[0]

	_, err := a.GetTypes()
	assert.ErrorIs(t, err, errLoad)

	assert.Empty(t, a.GetLoadableTypes())
	entries := logs.FilterMessage("mirror: loading assembly types").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "empty", entries[0].ContextMap()["assembly"])
	assert.Equal(t, errLoad.Error(), entries[0].ContextMap()["error"])
}
