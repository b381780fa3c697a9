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
	"fmt"
	"reflect"
)

// call checks args against fn's signature and calls it. A panic raised by
// the callee is returned as ErrInvocation.
func call(fn reflect.Value, name string, args []any) (out []reflect.Value, err error) {
	if !fn.IsValid() {
		return nil, fmt.Errorf("%w: %s: no such function", ErrInvocation, name)
	}
	ft := fn.Type()
	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, fmt.Errorf("%w: %s: want at least %d arguments, got %d", ErrInvocation, name, fixed, len(args))
		}
	} else if len(args) != fixed {
		return nil, fmt.Errorf("%w: %s: want %d arguments, got %d", ErrInvocation, name, fixed, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		pt := ft.In(min(i, ft.NumIn()-1))
		if ft.IsVariadic() && i >= fixed {
			pt = pt.Elem()
		}
		v, err := argValue(a, pt)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: argument %d: %w", ErrInvocation, name, i, err)
		}
		in[i] = v
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %s: panic: %v", ErrInvocation, name, r)
		}
	}()
	return fn.Call(in), nil
}

// argValue converts a to a value of type t. Nil is accepted for nillable types.
func argValue(a any, t reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		default:
			return reflect.Value{}, fmt.Errorf("nil is not a valid %s", t)
		}
	}
	v := reflect.ValueOf(a)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), t)
	}
	return v, nil
}

// values unwraps call results.
func values(vs []reflect.Value) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v.Interface()
	}
	return out
}
