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
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/gohost"
)

func names[T interface{ Name() string }](xs []T) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = x.Name()
	}
	return out
}

// notFoundMsg asserts err is a NotFoundError carrying msg.
func notFoundMsg(t *testing.T, err error, msg string) {
	t.Helper()
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, msg, nf.Msg)
}

func TestType_Structure(t *testing.T) {
	u := newUniverse(t)
	w := mustType(t, u, Widget{})

	assert.Equal(t, "Widget", w.Name())
	assert.Equal(t, pkgPath+".Widget", w.FullName())
	assert.Equal(t, pkgPath+".Widget", w.String())
	assert.Equal(t, pkgPath, w.Namespace())
	assert.Equal(t, "struct", w.Kind())

	base, err := w.BaseType()
	require.NoError(t, err)
	assert.Same(t, mustType(t, u, Base{}), base)

	_, err = base.BaseType()
	notFoundMsg(t, err, "Type doesn't have a base type.")
	_, err = w.ElementType()
	notFoundMsg(t, err, "Type doesn't have an element type.")
	_, err = w.KeyType()
	notFoundMsg(t, err, "Type doesn't have a key type.")

	m := mustType(t, u, map[string]Base{})
	key, err := m.KeyType()
	require.NoError(t, err)
	assert.Same(t, mustType(t, u, ""), key)

	fn := mustType(t, u, func() {})
	_, err = fn.Assembly()
	notFoundMsg(t, err, "Type doesn't belong to an assembly.")
	_, err = fn.Module()
	notFoundMsg(t, err, "Type doesn't belong to a module.")

	ws, err := w.MakeSliceType()
	require.NoError(t, err)
	assert.Same(t, mustType(t, u, []Widget{}), ws)

	assert.False(t, w.IsMissing())
	assert.False(t, w.IsVoid())
	assert.False(t, w.IsNotLoaded())
}

func TestType_Relations(t *testing.T) {
	u := newUniverse(t)
	w, pw := mustType(t, u, Widget{}), mustType(t, u, &Widget{})
	shape, err := TypeForIn[Shape](u)
	require.NoError(t, err)

	assert.Equal(t, []*Type{shape}, pw.GetInterfaces())
	assert.True(t, pw.IsAssignableTo(shape))
	assert.False(t, w.IsAssignableTo(pw))
	assert.False(t, w.IsAssignableTo(nil))
	assert.False(t, w.IsAssignableTo(MissingType))
	assert.False(t, pw.Implements(VoidType))

	other := New(u.Host())
	foreignPtr := mustType(t, other, &Widget{})
	foreignShape, err := TypeForIn[Shape](other)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		assert.True(t, pw.IsAssignableTo(foreignPtr))
		assert.True(t, pw.Implements(foreignShape))
		assert.True(t, foreignPtr.Implements(shape))
		assert.False(t, w.IsAssignableTo(foreignPtr))
	})
}

func TestType_Methods(t *testing.T) {
	u := newUniverse(t)
	pw := mustType(t, u, &Widget{})

	want := []string{"Area", "Click", "Label", "OffClick", "OnClick", "SetLabel", "SetLimit", "Touch"}
	if diff := cmp.Diff(want, names(pw.GetMethods())); diff != "" {
		t.Fatalf("methods mismatch (-want +got):\n%s", diff)
	}

	click, err := pw.GetMethod("click", true)
	require.NoError(t, err)
	assert.Equal(t, apis.MemberMethod, click.MemberKind())
	assert.Equal(t, "*"+pkgPath+".Widget.Click", click.String())
	assert.Same(t, mustType(t, u, 0), click.ReturnType())
	assert.Equal(t, []*Type{mustType(t, u, 0)}, click.ReturnTypes())
	assert.Equal(t, []*Type{mustType(t, u, "")}, click.ParameterTypes())

	mod, err := click.Module()
	require.NoError(t, err)
	assert.Equal(t, pkgPath, mod.FullyQualifiedName())

	_, err = pw.GetMethod("click", false)
	notFoundMsg(t, err, "Method not found.")

	touch, err := pw.GetMethod("Touch", false)
	require.NoError(t, err)
	assert.Same(t, VoidType, touch.ReturnType())
	assert.True(t, touch.ReturnType().IsVoid())
	assert.Empty(t, touch.ReturnTypes())

	w := &Widget{}
	_, err = method(t, pw, "SetLabel").Invoke(w, "hi")
	require.NoError(t, err)
	out, err := method(t, pw, "Label").Invoke(w)
	require.NoError(t, err)
	assert.Equal(t, []any{"hi"}, out)

	_, err = click.Invoke(w)
	assert.ErrorIs(t, err, gohost.ErrInvocation, "host invocation errors pass through")
}

func method(t *testing.T, typ *Type, name string) *Method {
	t.Helper()
	m, err := typ.GetMethod(name, false)
	require.NoError(t, err)
	return m
}

func TestType_Fields(t *testing.T) {
	u := newUniverse(t)
	w := mustType(t, u, Widget{})

	assert.Equal(t, []string{"Base", "ID", "Name", "Size"}, names(w.GetFields()))
	_, err := w.GetField("label", false)
	notFoundMsg(t, err, "Field not found.")

	name, err := w.GetField("name", true)
	require.NoError(t, err)
	assert.Equal(t, apis.MemberField, name.MemberKind())
	ft, err := name.FieldType()
	require.NoError(t, err)
	assert.Same(t, mustType(t, u, ""), ft)
	assert.Equal(t, []int{1}, name.Index())

	tag, err := name.Tag("db")
	require.NoError(t, err)
	assert.Equal(t, "name", tag)
	_, err = name.Tag("yaml")
	notFoundMsg(t, err, "Field doesn't have the requested tag.")

	v := &Widget{Name: "a"}
	got, err := name.GetValue(v)
	require.NoError(t, err)
	assert.Equal(t, "a", got)
	require.NoError(t, name.SetValue(v, "b"))
	assert.Equal(t, "b", v.Name)
	assert.ErrorIs(t, name.SetValue(v, 1), gohost.ErrInvocation)
}

func TestType_Properties(t *testing.T) {
	u := newUniverse(t)
	pw := mustType(t, u, &Widget{})

	assert.Equal(t, []string{"Area", "Label", "Limit"}, names(pw.GetProperties()))

	label, err := pw.GetProperty("Label", false)
	require.NoError(t, err)
	assert.Equal(t, apis.MemberProperty, label.MemberKind())
	assert.True(t, label.CanRead())
	assert.True(t, label.CanWrite())
	getter, err := label.GetMethod()
	require.NoError(t, err)
	assert.Same(t, method(t, pw, "Label"), getter)

	w := &Widget{}
	require.NoError(t, label.SetValue(w, "x"))
	v, err := label.GetValue(w)
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	area, err := pw.GetProperty("Area", false)
	require.NoError(t, err)
	assert.False(t, area.CanWrite())
	_, err = area.SetMethod()
	notFoundMsg(t, err, "Property doesn't have a setter.")
	err = area.SetValue(w, 1.0)
	notFoundMsg(t, err, "Property doesn't have a setter.")

	limit, err := pw.GetProperty("Limit", false)
	require.NoError(t, err)
	assert.False(t, limit.CanRead())
	_, err = limit.GetValue(w)
	notFoundMsg(t, err, "Property doesn't have a getter.")
	pt, err := limit.PropertyType()
	require.NoError(t, err)
	assert.Same(t, mustType(t, u, 0), pt)

	require.NoError(t, limit.SetValue(w, 3))
	assert.Equal(t, 3, w.limit)
	assert.ErrorIs(t, limit.SetValue(w, -1), errNegativeLimit, "setter errors pass through")

	_, err = pw.GetProperty("Size", false)
	notFoundMsg(t, err, "Property not found.")
}

func TestType_Events(t *testing.T) {
	u := newUniverse(t)
	pw := mustType(t, u, &Widget{})

	assert.Equal(t, []string{"Click"}, names(pw.GetEvents()))
	click, err := pw.GetEvent("Click", false)
	require.NoError(t, err)
	assert.Equal(t, apis.MemberEvent, click.MemberKind())
	ht, err := click.HandlerType()
	require.NoError(t, err)
	assert.Same(t, mustType(t, u, func(string) {}), ht)
	add, err := click.AddMethod()
	require.NoError(t, err)
	assert.Same(t, method(t, pw, "OnClick"), add)

	w := &Widget{}
	var got []string
	require.NoError(t, click.AddHandler(w, func(s string) { got = append(got, s) }))
	assert.Equal(t, 1, w.Click("ping"))
	assert.Equal(t, []string{"ping"}, got)
	require.NoError(t, click.RemoveHandler(w, func(string) {}))
	assert.Zero(t, w.Click("pong"))

	_, err = pw.GetEvent("Tap", false)
	notFoundMsg(t, err, "Event not found.")
}

func TestType_Constructors(t *testing.T) {
	u := newUniverse(t)
	w := mustType(t, u, Widget{})
	str, num := mustType(t, u, ""), mustType(t, u, 0)

	ctors := w.GetConstructors()
	assert.Equal(t, []string{"NewWidget", "NewSizedWidget"}, names(ctors))
	assert.Equal(t, apis.MemberConstructor, ctors[0].MemberKind())
	assert.Equal(t, []*Type{str, num}, ctors[1].ParameterTypes())

	for _, b := range []Binder{nil, DefaultBinder} {
		c, err := w.GetConstructor(b, str)
		require.NoError(t, err)
		assert.Same(t, ctors[0], c)
	}

	c, err := w.GetConstructor(nil, str, num)
	require.NoError(t, err)
	v, err := c.Invoke("w", 2)
	require.NoError(t, err)
	assert.Equal(t, &Widget{Name: "w", Size: 2}, v)
	_, err = c.Invoke("w", -1)
	assert.ErrorIs(t, err, errNegativeSize)

	_, err = w.GetConstructor(nil, num)
	notFoundMsg(t, err, "Constructor not found.")

	var seen []*Constructor
	last := BinderFunc(func(cands []*Constructor, params []*Type) (*Constructor, error) {
		seen = cands
		assert.Equal(t, []*Type{num}, params)
		return cands[len(cands)-1], nil
	})
	c, err = w.GetConstructor(last, num)
	require.NoError(t, err)
	assert.Same(t, ctors[1], c)
	assert.Equal(t, ctors, seen, "candidates are the canonical facades")

	boom := errors.New("boom")
	_, err = w.GetConstructor(BinderFunc(func([]*Constructor, []*Type) (*Constructor, error) {
		return nil, boom
	}))
	assert.ErrorIs(t, err, boom)

	foreign := mustType(t, New(u.Host()), Widget{}).GetConstructors()[0]
	assert.Panics(t, func() {
		_, _ = w.GetConstructor(BinderFunc(func([]*Constructor, []*Type) (*Constructor, error) {
			return foreign, nil
		}))
	})
}

func TestType_Members(t *testing.T) {
	u := newUniverse(t)
	pw := mustType(t, u, &Widget{})

	label, err := pw.GetMember("Label", false)
	require.NoError(t, err)
	require.Len(t, label, 2)
	assert.Equal(t, apis.MemberMethod, label[0].MemberKind())
	assert.Equal(t, apis.MemberProperty, label[1].MemberKind())

	_, err = pw.GetMember("Nope", true)
	notFoundMsg(t, err, "Member not found.")

	members := pw.GetMembers()
	kinds := map[apis.MemberKind]int{}
	for _, m := range members {
		kinds[m.MemberKind()]++
		owner, err := m.DeclaringType()
		require.NoError(t, err)
		assert.Same(t, pw, owner)
	}
	assert.Equal(t, map[apis.MemberKind]int{
		apis.MemberMethod:   8,
		apis.MemberProperty: 3,
		apis.MemberEvent:    1,
	}, kinds)

	w := mustType(t, u, Widget{})
	kinds = map[apis.MemberKind]int{}
	for _, m := range w.GetMembers() {
		kinds[m.MemberKind()]++
	}
	assert.Equal(t, 4, kinds[apis.MemberField])
	assert.Equal(t, 2, kinds[apis.MemberConstructor])
}

func TestAssembly_Types(t *testing.T) {
	u := newUniverse(t)
	n, err := u.ParseAssemblyName(mainModule)
	require.NoError(t, err)
	a, err := u.LoadAssembly(n)
	require.NoError(t, err)

	types, err := a.GetTypes()
	require.NoError(t, err)
	assert.Equal(t, []string{"Base", "Shape", "Widget"}, names(types))
	assert.Equal(t, types, a.GetLoadableTypes())
	assert.Equal(t, types, a.GetExportedTypes())

	_, err = a.GetType("Nope", false)
	notFoundMsg(t, err, "Type not found.")

	boom := errors.New("boom")
	require.NoError(t, u.Host().(*gohost.Host).RegisterDeferred(pkgPath, "Ghost", func() (reflect.Type, error) {
		return nil, boom
	}))

	_, err = a.GetTypes()
	assert.ErrorIs(t, err, gohost.ErrTypeLoad)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)

	loadable := a.GetLoadableTypes()
	require.Len(t, loadable, 4)
	assert.Same(t, TypeNotLoaded, loadable[1])
	assert.True(t, loadable[1].IsNotLoaded())
	assert.Same(t, types[2], loadable[3])
}

func TestAssembly_Modules(t *testing.T) {
	u := newUniverse(t)
	a, err := mustType(t, u, Widget{}).Assembly()
	require.NoError(t, err)

	assert.Equal(t, "dirpx.dev/mirror@(devel)", a.FullName())
	assert.False(t, a.IsMissing())

	mods := a.GetModules()
	require.Len(t, mods, 1)
	mod, err := a.GetModule("mirror")
	require.NoError(t, err)
	assert.Same(t, mods[0], mod)
	mm, err := a.ManifestModule()
	require.NoError(t, err)
	assert.Same(t, mod, mm)
	owner, err := mod.Assembly()
	require.NoError(t, err)
	assert.Same(t, a, owner)
	assert.Equal(t, "mirror", mod.Name())
	assert.Equal(t, []string{"Base", "Shape", "Widget"}, names(mod.GetTypes()))

	_, err = a.GetModule("nope")
	notFoundMsg(t, err, "Module not found.")
	_, err = mod.GetType("Nope", false)
	notFoundMsg(t, err, "Type not found.")

	n, err := u.ParseAssemblyName("go.uber.org/zap")
	require.NoError(t, err)
	zn, err := u.LoadAssembly(n)
	require.NoError(t, err)
	_, err = zn.ManifestModule()
	notFoundMsg(t, err, "Assembly doesn't have a manifest module.")

	refs := a.GetReferencedAssemblies()
	require.Len(t, refs, 2)
	assert.Same(t, zn.Name(), refs[0])
}

func TestAssemblyName(t *testing.T) {
	u := newUniverse(t)
	asms := u.GetAssemblies()

	mainName := asms[0].Name()
	assert.Equal(t, mainModule, mainName.Name())
	assert.Equal(t, "dirpx.dev/mirror@(devel)", mainName.String())
	v, err := mainName.Version()
	require.NoError(t, err)
	assert.Equal(t, "(devel)", v)
	_, err = mainName.Checksum()
	notFoundMsg(t, err, "Assembly name doesn't have a checksum.")

	sum, err := asms[1].Name().Checksum()
	require.NoError(t, err)
	assert.Equal(t, "h1:zap", sum)

	bare, err := u.ParseAssemblyName("go.uber.org/zap")
	require.NoError(t, err)
	_, err = bare.Version()
	notFoundMsg(t, err, "Assembly name doesn't have a version.")
	assert.False(t, bare.Equal(asms[1].Name()))
	assert.Same(t, asms[1].Name(), asms[1].Name())
}

func TestAssembly_Resources(t *testing.T) {
	u := newUniverse(t)
	h := u.Host().(*gohost.Host)
	require.NoError(t, h.RegisterResources(mainModule, fstest.MapFS{
		"conf/app.yaml": {Data: []byte("a: 1\n")},
	}))
	require.NoError(t, h.RegisterResources("go.uber.org/zap", fstest.MapFS{
		"LICENSE": {Data: []byte("MIT")},
	}))
	asms := u.GetAssemblies()
	a, zn := asms[0], asms[1]

	assert.Equal(t, []string{"conf/app.yaml"}, a.GetManifestResourceNames())

	own, err := a.GetManifestResourceInfo("conf/app.yaml")
	require.NoError(t, err)
	assert.Equal(t, "conf/app.yaml", own.Name())
	fileName, err := own.FileName()
	require.NoError(t, err)
	assert.Equal(t, "conf/app.yaml", fileName)
	_, err = own.ReferencedAssembly()
	notFoundMsg(t, err, "Resource doesn't have a referenced assembly.")

	fwd, err := a.GetManifestResourceInfo("LICENSE")
	require.NoError(t, err)
	assert.Equal(t, apis.ResourceContainedInAnotherAssembly, fwd.Location())
	ref, err := fwd.ReferencedAssembly()
	require.NoError(t, err)
	assert.Same(t, zn, ref)
	_, err = fwd.FileName()
	notFoundMsg(t, err, "Resource doesn't have a file name.")

	again, err := a.GetManifestResourceInfo("LICENSE")
	require.NoError(t, err)
	assert.Same(t, fwd, again)

	_, err = a.GetManifestResourceInfo("missing")
	notFoundMsg(t, err, "Resource not found.")

	rc, err := a.GetManifestResourceStream("conf/app.yaml")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "a: 1\n", string(b))

	_, err = a.GetManifestResourceStream("missing")
	notFoundMsg(t, err, "Resource not found.")
}
