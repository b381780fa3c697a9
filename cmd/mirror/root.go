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

package main

import (
	"bytes"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"dirpx.dev/mirror"
	"dirpx.dev/mirror/apis"
	"dirpx.dev/mirror/config"
	"dirpx.dev/mirror/gohost"
)

// envPrefix prefixes every environment override, e.g. MIRROR_LOG_LEVEL.
const envPrefix = "MIRROR"

// Viper keys.
const (
	keyConfig          = "config"
	keyLogLevel        = "log_level"
	keyNoColor         = "no_color"
	keyIgnoreCase      = "ignore_case"
	keyIncludeBuiltins = "include_builtins"
	keyMaxUnwrap       = "max_unwrap"
	keyMapPreferElem   = "map_prefer_elem"
	keyCapacityHint    = "capacity_hint"
)

// app carries what every subcommand needs once the root has been set up.
type app struct {
	v   *viper.Viper
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "mirror",
		Short:         "Inspect assemblies and types through the mirror facade",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "YAML configuration file")
	pf.String("log-level", "", "zap level name or \"development\"")
	pf.Bool("no-color", false, "disable colored output")
	_ = a.v.BindPFlag(keyConfig, pf.Lookup("config"))
	_ = a.v.BindPFlag(keyLogLevel, pf.Lookup("log-level"))
	_ = a.v.BindPFlag(keyNoColor, pf.Lookup("no-color"))

	root.AddCommand(
		a.assembliesCmd(),
		a.refsCmd(),
		a.typeCmd(),
		a.statsCmd(),
	)
	return root
}

// setup layers the configuration, builds the logger and host, and publishes
// them as the default Universe.
func (a *app) setup() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	log, err := config.NewLogger(cfg)
	if err != nil {
		return err
	}
	a.log = log

	if a.v.GetBool(keyNoColor) {
		color.NoColor = true
	}

	h := gohost.New(gohost.WithConfig(cfg), gohost.WithLogger(log))
	if err := preload(h); err != nil {
		return fmt.Errorf("mirror: preload: %w", err)
	}
	mirror.SetAll(h, &cfg, log)
	return nil
}

// loadConfig starts from the file named by --config (or the defaults) and
// applies environment and flag overrides on top.
func (a *app) loadConfig() (apis.Config, error) {
	cfg := config.DefaultConfig()
	if path := a.v.GetString(keyConfig); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return apis.Config{}, err
		}
	}

	a.v.SetDefault(keyIncludeBuiltins, cfg.IncludeBuiltins)
	a.v.SetDefault(keyMaxUnwrap, cfg.MaxUnwrap)
	a.v.SetDefault(keyMapPreferElem, cfg.MapPreferElem)
	a.v.SetDefault(keyLogLevel, cfg.LogLevel)
	a.v.SetDefault(keyCapacityHint, cfg.CapacityHint)

	if err := a.v.Unmarshal(&cfg); err != nil {
		return apis.Config{}, fmt.Errorf("mirror: config: %w", err)
	}
	return config.Sanitize(cfg), nil
}

// preload registers a few standard library types so that "mirror type" has
// something to show beyond builtins.
func preload(h *gohost.Host) error {
	if err := h.Register(
		reflect.TypeFor[time.Time](),
		reflect.TypeFor[time.Duration](),
		reflect.TypeFor[url.URL](),
		reflect.TypeFor[bytes.Buffer](),
		reflect.TypeFor[strings.Builder](),
	); err != nil {
		return err
	}
	for _, fn := range []any{url.Parse, bytes.NewBufferString, time.Unix} {
		if err := h.RegisterConstructor(fn); err != nil {
			return err
		}
	}
	return nil
}
