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

package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/librewrite/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// 📚 Config holds the settings of one librewrite run
type Config struct {
	Script     string   `json:"script" yaml:"script"`                             // Rule script path
	Root       string   `json:"root" yaml:"root"`                                 // Library root directory
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"` // Exact file extensions to select
	Patterns   []string `json:"patterns,omitempty" yaml:"patterns,omitempty"`     // Doublestar patterns to select
	Ignore     []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`         // Doublestar patterns to skip
	KeepBackup *bool    `json:"keep_backup,omitempty" yaml:"keep_backup,omitempty"`
	Verbose    bool     `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	DryRun     bool     `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Workers    int      `json:"workers,omitempty" yaml:"workers,omitempty"`

	location string
	resolved bool
}

// 🏭 Default returns the configuration used when no file is given
func Default() *Config {
	keep := true
	return &Config{
		Root:       ".",
		KeepBackup: &keep,
		Workers:    1,
	}
}

// Location returns the file the config was loaded from, or "" for a default config
func (cfg *Config) Location() string {
	return cfg.location
}

// Backup reports whether originals are kept as backups. Defaults to true.
func (cfg *Config) Backup() bool {
	return cfg.KeepBackup == nil || *cfg.KeepBackup
}

// Filter returns the file selection of the config
func (cfg *Config) Filter() walk.Filter {
	return walk.Filter{
		Extensions: cfg.Extensions,
		Patterns:   cfg.Patterns,
		Ignore:     cfg.Ignore,
	}
}

// 🔍 Validate sets defaults, resolves paths relative to the config file and
// checks the file selection
func Validate(ctx context.Context, cfg *Config) error {
	logger := zerolog.Ctx(ctx)

	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}

	// paths from the file are relative to it; values set afterwards are not
	if cfg.location != "" && !cfg.resolved {
		base := filepath.Dir(cfg.location)
		cfg.Root = resolve(base, cfg.Root)
		if cfg.Script != "" {
			cfg.Script = resolve(base, cfg.Script)
		}
		cfg.resolved = true
	}
	cfg.Root = filepath.Clean(cfg.Root)

	if err := cfg.Filter().Validate(); err != nil {
		return errors.Errorf("validating file selection: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration validated")
	return nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s (ext=%v patterns=%v ignore=%v backup=%v)",
		cfg.Script, cfg.Root, cfg.Extensions, cfg.Patterns, cfg.Ignore, cfg.Backup())
}
