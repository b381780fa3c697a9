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

package builder

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/registry"
	"dirpx.dev/mirror/resolver"
	"dirpx.dev/mirror/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Option configures the default builder.
type Option func(*builder)

// WithLogger sets the logger handed to the registries the builder creates.
func WithLogger(log *zap.Logger) Option {
	return func(b *builder) {
		if log != nil {
			b.log = log
		}
	}
}

// builder composes the default catalog and lookup chain.
type builder struct {
	log *zap.Logger
}

// BuildRegistry builds a new apis.Registry for cfg. If prev is provided, its
// types, deferred loaders, constructors and resources are carried over.
// Entries that fail to migrate are skipped and logged at warn level.
func (b *builder) BuildRegistry(cfg apis.Config, prev apis.Registry) apis.Registry {
	nreg := registry.New(cfg, registry.WithLogger(b.log))
	if prev == nil {
		return nreg
	}
	var errs error
	for _, e := range prev.Entries() {
		if e.Deferred() {
			errs = multierr.Append(errs, nreg.RegisterDeferred(e.PkgPath, e.Name, e.Resolve))
			continue
		}
		t, err := e.Resolve()
		if err == nil {
			err = nreg.Register(t)
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", e.FullName(), err))
			continue
		}
		for _, fn := range prev.Constructors(t) {
			errs = multierr.Append(errs, nreg.RegisterConstructor(fn.Interface()))
		}
	}
	for _, m := range prev.ResourceModules() {
		if fsys, ok := prev.Resources(m); ok {
			errs = multierr.Append(errs, nreg.RegisterResources(m, fsys))
		}
	}
	if errs != nil {
		b.log.Warn("mirror: registry migration dropped entries",
			zap.Int("failed", len(multierr.Errors(errs))),
			zap.Error(errs),
		)
	}
	return nreg
}

// BuildResolver builds the lookup chain: aliases, full names, short names,
// then predeclared names.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry) apis.Resolver {
	return resolver.New(
		strategy.NewNamerStrategy(reg),
		strategy.NewRegistryStrategy(reg),
		strategy.NewShortNameStrategy(reg),
		strategy.NewBuiltinStrategy(),
	)
}
