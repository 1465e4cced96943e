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
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dirpx.dev/ready"
	"dirpx.dev/ready/config"
)

// Config keys; flags, READYDEMO_* env vars and the config file share them.
const (
	cfgKeyStrict    = "strict"
	cfgKeyVerbose   = "verbose"
	cfgKeyMaxUnwrap = "max-unwrap"

	envPrefix = "READYDEMO"
)

// newRootCmd builds the command tree. Each call returns an independent tree.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	root := &cobra.Command{
		Use:   "readydemo",
		Short: "Worked examples of per-type lazily initialized class state",
		Long: `readydemo declares small type hierarchies and shows that every
type owns its own copy of its class-level properties, initialized on first
use, including the raw-read fallback that accessors avoid.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, v, configFile)
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().Bool(cfgKeyStrict, config.DefaultStrict, "fail when a schema key collides with an accessor name")
	root.PersistentFlags().BoolP(cfgKeyVerbose, "v", false, "log class lifecycle events to stderr")
	root.PersistentFlags().Int(cfgKeyMaxUnwrap, config.DefaultMaxUnwrap, "pointer unwrapping depth for type normalization")

	root.AddCommand(newGroupsCmd())
	root.AddCommand(newCatsCmd())
	root.AddCommand(newFallbackCmd())
	return root
}

// setup loads configuration and installs a fresh global registry with the
// example hierarchies declared.
func setup(cmd *cobra.Command, v *viper.Viper, configFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	level := slog.LevelWarn
	if v.GetBool(cfgKeyVerbose) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg := config.NewConfig(
		config.WithStrict(v.GetBool(cfgKeyStrict)),
		config.WithMaxUnwrap(v.GetInt(cfgKeyMaxUnwrap)),
	)
	ready.SetAll(&cfg, logger, nil, nil)
	logger.Debug("configuration loaded", "strict", cfg.Strict, "max_unwrap", cfg.MaxUnwrap)

	return declareExamples()
}
