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

package walk

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Filter selects files by exact extension or doublestar pattern
type Filter struct {
	// Extensions are compared case-sensitively with the file's extension.
	// A missing leading dot is added.
	Extensions []string

	// Patterns are doublestar patterns. Patterns containing "/" match the
	// slash-separated path relative to the walk root, others match the file name.
	Patterns []string

	// Ignore excludes files and directories, using the same rules as Patterns
	Ignore []string
}

// ✅ Validate checks every pattern of the filter
func (f Filter) Validate() error {
	for _, p := range append(append([]string{}, f.Patterns...), f.Ignore...) {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("invalid pattern %q", p)
		}
	}
	for _, ext := range f.Extensions {
		if strings.Trim(ext, ".") == "" {
			return errors.Errorf("invalid extension %q", ext)
		}
	}
	return nil
}

// 🎯 Selects reports whether the file at rel (slash-separated, relative to the
// walk root) is selected. With no extensions and no patterns every file is selected.
func (f Filter) Selects(rel string) bool {
	if f.Ignores(rel) {
		return false
	}
	if len(f.Extensions) == 0 && len(f.Patterns) == 0 {
		return true
	}

	ext := path.Ext(rel)
	for _, want := range f.Extensions {
		if normalizeExt(want) == ext {
			return true
		}
	}
	return matchAny(f.Patterns, rel)
}

// 🚫 Ignores reports whether rel matches an ignore pattern
func (f Filter) Ignores(rel string) bool {
	return matchAny(f.Ignore, rel)
}

func normalizeExt(ext string) string {
	if strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		subject := path.Base(rel)
		if strings.Contains(p, "/") {
			subject = rel
		}
		if ok, err := doublestar.Match(p, subject); err == nil && ok {
			return true
		}
	}
	return false
}

// 📂 VisitFunc is called for every selected file with its directory and name
type VisitFunc func(dir, name string) error

// 🚶 Walk visits every file under root that f selects, in lexical order.
// Ignored directories are not descended into.
func Walk(ctx context.Context, fsys afero.Fs, root string, f Filter, fn VisitFunc) error {
	logger := zerolog.Ctx(ctx)

	if err := f.Validate(); err != nil {
		return errors.Errorf("validating filter: %w", err)
	}

	err := afero.Walk(fsys, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", p, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return errors.Errorf("relative path of %s: %w", p, err)
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel != "." && f.Ignores(rel) {
				logger.Debug().Str("dir", p).Msg("directory ignored")
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if rel == "." {
			rel = info.Name()
		}
		if !f.Selects(rel) {
			return nil
		}

		return fn(filepath.Dir(p), filepath.Base(p))
	})
	if err != nil {
		return errors.Errorf("walking %s: %w", root, err)
	}
	return nil
}

// 📋 Files returns the paths of every file under root that f selects
func Files(ctx context.Context, fsys afero.Fs, root string, f Filter) ([]string, error) {
	var out []string
	err := Walk(ctx, fsys, root, f, func(dir, name string) error {
		out = append(out, filepath.Join(dir, name))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
