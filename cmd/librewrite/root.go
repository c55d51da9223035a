// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/librewrite/cmd/librewrite/commands"
	"github.com/walteh/librewrite/cmd/librewrite/opts"
	"github.com/walteh/librewrite/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// newRootCmd creates the librewrite command tree
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "librewrite",
		Short: "Apply an ordered list of regex rewrite rules to a library of text files",
		Long: `librewrite reads a rule script of Pat:/Rep: pairs and applies the rules,
in order, to every selected file under a root directory. Changed files are
rewritten through a temporary file and the previous content is kept as a
.bak backup unless --no-backup is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), o.Debug)
			cmd.SetContext(ctx)

			cfg, err := loadConfig(ctx, o.ConfigFile)
			if err != nil {
				return err
			}
			o.Config = cfg
			return nil
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewRunCmd(o),
		commands.NewCleanCmd(o),
		commands.NewRestoreCmd(o),
		commands.NewCheckCmd(o),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (default ./"+config.BareName+" when present)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(ctx context.Context, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	return logger.WithContext(ctx)
}

// loadConfig loads the config file, falling back to ./.librewrite and then to defaults
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.BareName); err != nil {
			cfg := config.Default()
			if err := config.Validate(ctx, cfg); err != nil {
				return nil, errors.Errorf("validating default config: %w", err)
			}
			return cfg, nil
		}
		path = config.BareName
	}

	cfg, err := config.LoadConfig(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("config loaded")
	return cfg, nil
}
