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

// Package cache provides the identity tables that keep exactly one facade per
// distinct origin value.
package cache

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	uref "dirpx.dev/mirror/utils/reflect"
)

// ErrAbsentKey is the panic value raised when an absent origin reaches a table.
// Callers must turn host absence into a fault before wrapping.
var ErrAbsentKey = errors.New("mirror(cache): absent origin reached an identity table")

// Table maps an origin value to the single facade that wraps it.
// Entries live for the lifetime of the table; there is no eviction.
type Table[K comparable, V any] struct {
	// kind names the facade kind for diagnostics.
	kind string
	// create builds the facade for a key seen for the first time.
	create func(K) V
	// log receives a debug record per miss.
	log *zap.Logger
	// hint is the expected entry count, reported with diagnostics.
	hint int
	// mu serializes the create-and-insert path and guards count, log and hint.
	mu sync.Mutex
	// m maps K to V.
	m sync.Map
	// count tracks the number of entries.
	count int
}

// Option configures a Table.
type Option func(*options)

type options struct {
	log  *zap.Logger
	hint int
}

// WithLogger sets the logger used to trace misses.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithCapacityHint records the expected number of entries.
func WithCapacityHint(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.hint = n
		}
	}
}

// New constructs a Table for one facade kind. create must not fail and must
// not call back into the same table.
func New[K comparable, V any](kind string, create func(K) V, opts ...Option) *Table[K, V] {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Table[K, V]{
		kind:   kind,
		create: create,
		log:    o.log,
		hint:   o.hint,
	}
}

// Configure replaces the logger and capacity hint. Entries are kept.
func (t *Table[K, V]) Configure(opts ...Option) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o := options{log: t.log, hint: t.hint}
	for _, opt := range opts {
		opt(&o)
	}
	t.log, t.hint = o.log, o.hint
}

// GetOrCreate returns the value associated with k, creating and inserting it
// on first use. Concurrent callers with equal keys all observe the same value.
func (t *Table[K, V]) GetOrCreate(k K) V {
	if uref.IsNil(k) {
		panic(fmt.Errorf("%w (kind %s)", ErrAbsentKey, t.kind))
	}

	// Fast read path without locking.
	if v, ok := t.m.Load(k); ok {
		return v.(V)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if v, ok := t.m.Load(k); ok {
		return v.(V)
	}

	v := t.create(k)
	t.m.Store(k, v)
	t.count++

	if ce := t.log.Check(zap.DebugLevel, "mirror: wrapped origin"); ce != nil {
		ce.Write(
			zap.String("kind", t.kind),
			zap.String("origin", fmt.Sprintf("%T", k)),
			zap.Int("size", t.count),
			zap.Int("hint", t.hint),
		)
	}
	return v
}

// Lookup returns the value for k if it was already created.
func (t *Table[K, V]) Lookup(k K) (V, bool) {
	if uref.IsNil(k) {
		var zero V
		return zero, false
	}
	if v, ok := t.m.Load(k); ok {
		return v.(V), true
	}
	var zero V
	return zero, false
}

// Entry is a single (origin, facade) pair in a Table snapshot.
type Entry[K comparable, V any] struct {
	// Key is the origin.
	Key K
	// Value is the facade.
	Value V
}

// Entries returns a snapshot for diagnostics (order is unspecified).
func (t *Table[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, t.Len())
	t.m.Range(func(key, value any) bool {
		entries = append(entries, Entry[K, V]{Key: key.(K), Value: value.(V)})
		return true
	})
	return entries
}

// Len returns the number of entries.
func (t *Table[K, V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Kind returns the facade kind served by the table.
func (t *Table[K, V]) Kind() string {
	return t.kind
}
