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

package rules

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// Line prefixes of a rule script.
const (
	PatternPrefix     = "Pat:"
	ReplacementPrefix = "Rep:"
)

const maxLineSize = 1 << 20

// 📥 Load reads and compiles the rule script at path from the OS file system
func Load(ctx context.Context, path string) (*RuleSet, error) {
	return LoadFS(ctx, afero.NewOsFs(), path)
}

// 📥 LoadFS reads and compiles the rule script at path from fsys
func LoadFS(ctx context.Context, fsys afero.Fs, path string) (*RuleSet, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "opening script", Err: err}
	}
	defer f.Close()

	return Parse(ctx, f, path)
}

// 📝 Parse reads a rule script from r. source names the script in errors.
//
// Lines starting with "Pat:" add a pattern, lines starting with "Rep:" add a
// replacement, everything else is ignored. The n-th pattern pairs with the
// n-th replacement.
func Parse(ctx context.Context, r io.Reader, source string) (*RuleSet, error) {
	logger := zerolog.Ctx(ctx)

	var patterns, replacements []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, PatternPrefix):
			patterns = append(patterns, strings.TrimSpace(strings.TrimPrefix(line, PatternPrefix)))
		case strings.HasPrefix(line, ReplacementPrefix):
			replacements = append(replacements, strings.TrimSpace(strings.TrimPrefix(line, ReplacementPrefix)))
		default:
			continue
		}
		logger.Trace().Str("script", source).Int("line", lineNo).Msg("rule line")
	}
	if err := scanner.Err(); err != nil {
		return nil, &ConfigError{Path: source, Reason: "reading script", Err: err}
	}

	rs, err := build(source, patterns, replacements)
	if err != nil {
		return nil, errors.Errorf("loading rules: %w", err)
	}

	logger.Debug().
		Str("script", source).
		Int("rules", rs.Len()).
		Msg("rule script loaded")

	return rs, nil
}
