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
	"fmt"

	"go.uber.org/zap"

	"dirpx.dev/mirror/apis"
	uref "dirpx.dev/mirror/utils/reflect"
)

// AssemblyResolver maps a parsed assembly qualifier to an assembly. A host
// that calls back without a name passes MissingAssembly.Name(). Returning nil
// or MissingAssembly means "not resolved".
type AssemblyResolver interface {
	ResolveAssembly(name *AssemblyName) (*Assembly, error)
}

// AssemblyResolverFunc adapts a function to AssemblyResolver.
type AssemblyResolverFunc func(name *AssemblyName) (*Assembly, error)

// ResolveAssembly calls f(name).
func (f AssemblyResolverFunc) ResolveAssembly(name *AssemblyName) (*Assembly, error) {
	return f(name)
}

// TypeResolver maps a type name to a type. asm is MissingAssembly when the
// name carried no assembly qualifier. Returning nil or MissingType means
// "not resolved here".
type TypeResolver interface {
	ResolveType(asm *Assembly, name string, ignoreCase bool) (*Type, error)
}

// TypeResolverFunc adapts a function to TypeResolver.
type TypeResolverFunc func(asm *Assembly, name string, ignoreCase bool) (*Type, error)

// ResolveType calls f(asm, name, ignoreCase).
func (f TypeResolverFunc) ResolveType(asm *Assembly, name string, ignoreCase bool) (*Type, error) {
	return f(asm, name, ignoreCase)
}

// Binder picks a constructor for a parameter list.
type Binder interface {
	SelectConstructor(candidates []*Constructor, params []*Type) (*Constructor, error)
}

// BinderFunc adapts a function to Binder.
type BinderFunc func(candidates []*Constructor, params []*Type) (*Constructor, error)

// SelectConstructor calls f(candidates, params).
func (f BinderFunc) SelectConstructor(candidates []*Constructor, params []*Type) (*Constructor, error) {
	return f(candidates, params)
}

// Markers selecting the host's standard behavior. A nil resolver or binder
// selects it too.
var (
	DefaultAssemblyResolver AssemblyResolver = defaultAssemblyResolver{}
	DefaultTypeResolver     TypeResolver     = defaultTypeResolver{}
	DefaultBinder           Binder           = defaultBinder{}
)

// The markers resolve nothing when called directly.
type (
	defaultAssemblyResolver struct{}
	defaultTypeResolver     struct{}
	defaultBinder           struct{}
)

func (defaultAssemblyResolver) ResolveAssembly(*AssemblyName) (*Assembly, error) {
	return MissingAssembly, nil
}

func (defaultTypeResolver) ResolveType(*Assembly, string, bool) (*Type, error) {
	return MissingType, nil
}

func (defaultBinder) SelectConstructor([]*Constructor, []*Type) (*Constructor, error) {
	return nil, nil
}

// assemblyResolveFunc returns the host-shaped callback for r, or nil for the
// host default.
func (u *Universe) assemblyResolveFunc(r AssemblyResolver) apis.AssemblyResolveFunc {
	if _, ok := r.(defaultAssemblyResolver); ok || uref.IsNil(r) {
		return nil
	}
	return func(name apis.AssemblyName) (apis.Assembly, error) {
		n := missingName
		if !uref.IsNil(name) {
			n = u.wrapName(name)
		}
		u.Logger().Debug("mirror: assembly resolver", zap.Stringer("name", n))
		a, err := r.ResolveAssembly(n)
		if err != nil {
			return nil, err
		}
		return u.unwrapAssembly(a), nil
	}
}

// typeResolveFunc returns the host-shaped callback for r, or nil for the
// host default.
func (u *Universe) typeResolveFunc(r TypeResolver) apis.TypeResolveFunc {
	if _, ok := r.(defaultTypeResolver); ok || uref.IsNil(r) {
		return nil
	}
	return func(asm apis.Assembly, name string, ignoreCase bool) (apis.Type, error) {
		a := MissingAssembly
		if !uref.IsNil(asm) {
			a = u.wrapAssembly(asm)
		}
		u.Logger().Debug("mirror: type resolver",
			zap.Stringer("assembly", a),
			zap.String("name", name),
			zap.Bool("ignore_case", ignoreCase),
		)
		t, err := r.ResolveType(a, name, ignoreCase)
		if err != nil {
			return nil, err
		}
		return u.unwrapType(t), nil
	}
}

// binderFunc returns the host-shaped callback for b, or nil for the host
// default.
func (u *Universe) binderFunc(b Binder) apis.BinderFunc {
	if _, ok := b.(defaultBinder); ok || uref.IsNil(b) {
		return nil
	}
	return func(candidates []apis.Constructor, params []apis.Type) (apis.Constructor, error) {
		u.Logger().Debug("mirror: binder",
			zap.Int("candidates", len(candidates)),
			zap.Int("params", len(params)),
		)
		c, err := b.SelectConstructor(wrapAll(candidates, u.wrapConstructor), wrapAll(params, u.wrapType))
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, nil
		}
		u.own(c.u, "Constructor")
		return c.origin, nil
	}
}

// own panics with ErrForeignFacade unless owner is u.
func (u *Universe) own(owner *Universe, kind string) {
	if owner != u {
		panic(fmt.Errorf("%w: %s", ErrForeignFacade, kind))
	}
}

// unwrapAssembly maps nil and MissingAssembly to an absent origin.
func (u *Universe) unwrapAssembly(a *Assembly) apis.Assembly {
	if a == nil || a == MissingAssembly {
		return nil
	}
	u.own(a.u, "Assembly")
	return a.origin
}

// unwrapType maps nil and MissingType to an absent origin.
func (u *Universe) unwrapType(t *Type) apis.Type {
	if t == nil || t == MissingType {
		return nil
	}
	u.own(t.u, "Type")
	return t.origin
}

// unwrapTypes unwraps a parameter list; nil entries stay absent.
func (u *Universe) unwrapTypes(ts []*Type) []apis.Type {
	out := make([]apis.Type, len(ts))
	for i, t := range ts {
		out[i] = u.unwrapType(t)
	}
	return out
}

// unwrapName maps nil and the name of MissingAssembly to an absent origin.
func (u *Universe) unwrapName(n *AssemblyName) apis.AssemblyName {
	if n == nil || n == missingName {
		return nil
	}
	u.own(n.u, "AssemblyName")
	return n.origin
}
