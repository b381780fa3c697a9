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
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/strategy"
)

// ErrAmbiguousTypeName is returned when a short name matches several types.
var ErrAmbiguousTypeName = strategy.ErrAmbiguousName

// exprOp is the constructor of a parsed type expression.
type exprOp int

const (
	opNamed exprOp = iota
	opPointer
	opSlice
	opArray
	opMap
	opChan
)

// typeExpr is a parsed Go type expression such as "map[string][]*pkg.T".
type typeExpr struct {
	op   exprOp
	name string
	n    int
	key  *typeExpr
	elem *typeExpr
}

// splitQualifier splits "T, module@version" into the type part and the
// assembly qualifier. Commas inside brackets belong to the type.
func splitQualifier(s string) (typ, qual string, err error) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				typ, qual = strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
				if qual == "" {
					return "", "", fmt.Errorf("%w: %q: empty assembly qualifier", ErrMalformedTypeName, s)
				}
				return typ, qual, nil
			}
		}
	}
	return strings.TrimSpace(s), "", nil
}

// parseTypeName parses a type expression.
func parseTypeName(s string) (*typeExpr, error) {
	p := &parser{s: s}
	e, err := p.parse()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.s) {
		return nil, p.errorf("unexpected %q", p.s[p.pos:])
	}
	return e, nil
}

// parser is a recursive descent parser over one type expression.
type parser struct {
	s   string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %q at %d: %s", ErrMalformedTypeName, p.s, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) rest() string {
	return p.s[p.pos:]
}

func (p *parser) parse() (*typeExpr, error) {
	switch r := p.rest(); {
	case r == "":
		return nil, p.errorf("missing type")
	case r[0] == '*':
		p.pos++
		return p.wrap(opPointer, 0)
	case strings.HasPrefix(r, "[]"):
		p.pos += 2
		return p.wrap(opSlice, 0)
	case r[0] == '[':
		end := strings.IndexByte(r, ']')
		if end < 0 {
			return nil, p.errorf("unterminated array length")
		}
		n64, err := strconv.ParseInt(r[1:end], 10, 64)
		if err != nil || n64 < 0 {
			return nil, p.errorf("invalid array length %q", r[1:end])
		}
		n, err := safecast.Conv[int](n64)
		if err != nil {
			return nil, p.errorf("array length %d: %v", n64, err)
		}
		p.pos += end + 1
		return p.wrap(opArray, n)
	case strings.HasPrefix(r, "map["):
		p.pos += len("map[")
		key, err := p.parse()
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(p.rest(), "]") {
			return nil, p.errorf("missing ] after map key")
		}
		p.pos++
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return &typeExpr{op: opMap, key: key, elem: elem}, nil
	case strings.HasPrefix(r, "chan "):
		p.pos += len("chan ")
		return p.wrap(opChan, 0)
	default:
		end := strings.IndexAny(r, "[], ")
		if end < 0 {
			end = len(r)
		}
		if end == 0 {
			return nil, p.errorf("missing type name")
		}
		p.pos += end
		return &typeExpr{op: opNamed, name: r[:end]}, nil
	}
}

// wrap parses the element of a composite expression.
func (p *parser) wrap(op exprOp, n int) (*typeExpr, error) {
	elem, err := p.parse()
	if err != nil {
		return nil, err
	}
	return &typeExpr{op: op, n: n, elem: elem}, nil
}

// GetType resolves a Go type expression with an optional ", module@version"
// qualifier. Named leaves go through typ (or the default lookup) in the
// context of the assembly asm resolved (or the host's own module set).
// A leaf that resolves to nothing makes the whole name resolve to nothing.
func (h *Host) GetType(name string, asm apis.AssemblyResolveFunc, typ apis.TypeResolveFunc, ignoreCase bool) (apis.Type, error) {
	expr, qual, err := splitQualifier(name)
	if err != nil {
		return nil, err
	}
	e, err := parseTypeName(expr)
	if err != nil {
		return nil, err
	}

	var ctx apis.Assembly
	if qual != "" {
		an, err := h.ParseAssemblyName(qual)
		if err != nil {
			return nil, err
		}
		if asm != nil {
			ctx, err = asm(an)
		} else {
			ctx, err = h.LoadAssembly(an)
		}
		if err != nil {
			return nil, err
		}
		if ctx == nil {
			return nil, nil
		}
	}

	t, err := h.compose(e, ctx, typ, ignoreCase)
	if err != nil || t == nil {
		return nil, err
	}
	return typeOrigin{h: h, t: t}, nil
}

// compose resolves the leaves of e and composes the result.
func (h *Host) compose(e *typeExpr, ctx apis.Assembly, typ apis.TypeResolveFunc, ignoreCase bool) (t reflect.Type, err error) {
	if e.op == opNamed {
		return h.leaf(e.name, ctx, typ, ignoreCase)
	}

	var key reflect.Type
	if e.op == opMap {
		if key, err = h.compose(e.key, ctx, typ, ignoreCase); err != nil || key == nil {
			return nil, err
		}
		if !key.Comparable() {
			return nil, fmt.Errorf("%w: invalid map key type %s", ErrMalformedTypeName, key)
		}
	}
	elem, err := h.compose(e.elem, ctx, typ, ignoreCase)
	if err != nil || elem == nil {
		return nil, err
	}

	// reflect panics on types it cannot build, e.g. arrays too large.
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("%w: %v", ErrMalformedTypeName, r)
		}
	}()
	switch e.op {
	case opPointer:
		return reflect.PointerTo(elem), nil
	case opSlice:
		return reflect.SliceOf(elem), nil
	case opArray:
		return reflect.ArrayOf(e.n, elem), nil
	case opMap:
		return reflect.MapOf(key, elem), nil
	default:
		return reflect.ChanOf(reflect.BothDir, elem), nil
	}
}

// leaf resolves one named type.
func (h *Host) leaf(name string, ctx apis.Assembly, typ apis.TypeResolveFunc, ignoreCase bool) (reflect.Type, error) {
	var (
		t   apis.Type
		err error
	)
	switch {
	case typ != nil:
		t, err = typ(ctx, name, ignoreCase)
	case ctx != nil:
		t = ctx.Type(name, ignoreCase)
	default:
		t, err = h.lookup(name, ignoreCase)
	}
	if err != nil || t == nil {
		return nil, err
	}
	o, ok := t.(typeOrigin)
	if !ok || o.h != h {
		return nil, fmt.Errorf("%w: %s", ErrForeignType, t.FullName())
	}
	return o.t, nil
}

// lookup runs the lookup chain. Loader failures are wrapped with ErrTypeLoad;
// ambiguity passes through.
func (h *Host) lookup(name string, ignoreCase bool) (apis.Type, error) {
	s := h.state()
	t, err := s.res.ResolveName(name, ignoreCase, s.cfg)
	switch {
	case errors.Is(err, ErrAmbiguousTypeName):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("%w: %s: %w", ErrTypeLoad, name, err)
	}
	return h.typ(t), nil
}
