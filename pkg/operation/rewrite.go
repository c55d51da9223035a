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

package operation

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/librewrite/pkg/files"
	"github.com/walteh/librewrite/pkg/log"
	"github.com/walteh/librewrite/pkg/text"
	"github.com/walteh/librewrite/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// artifactPatterns are never rewritten
var artifactPatterns = []string{"*" + files.BackupSuffix, "*" + files.TempSuffix}

// ✏️ NewRewriteOperation creates the operation that applies the rule set to every selected file
func NewRewriteOperation(opts Options) (Operation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	if opts.Rules == nil {
		return nil, errors.New("rule set is required")
	}
	if base.Replacer == nil {
		base.Replacer = text.NewRegexpReplacer()
	}
	return &rewriteOperation{BaseOperation: base}, nil
}

// ✏️ rewriteOperation implements the rewrite operation
type rewriteOperation struct {
	BaseOperation
}

func (op *rewriteOperation) Name() string {
	return "rewrite"
}

// 🏃 Execute runs the rewrite operation. A file that fails is reported and the
// remaining files are still processed.
func (op *rewriteOperation) Execute(ctx context.Context) (*Summary, error) {
	filter := op.Filter
	filter.Ignore = append(append([]string{}, filter.Ignore...), artifactPatterns...)

	paths, err := walk.Files(ctx, op.Files.Fs(), op.Root, filter)
	if err != nil {
		return nil, errors.Errorf("listing files: %w", err)
	}
	paths = withoutScript(paths, op.Rules.Source())

	zerolog.Ctx(ctx).Debug().
		Str("root", op.Root).
		Int("files", len(paths)).
		Int("rules", op.Rules.Len()).
		Msg("rewriting library")

	results := make([]FileResult, len(paths))
	err = NewRunner(op.Workers).ForEach(ctx, len(paths), func(ctx context.Context, i int) error {
		results[i] = op.processFile(ctx, paths[i])
		report(ctx, results[i], op.KeepBackup && !op.DryRun)
		return nil
	})

	summary := &Summary{Operation: op.Name()}
	for _, r := range results {
		if r.Path == "" {
			continue
		}
		summary.add(r)
	}
	if err != nil {
		return summary, err
	}

	return summary, summary.err()
}

// withoutScript drops the rule script from paths so a run never rewrites its own rules
func withoutScript(paths []string, script string) []string {
	if script == "" {
		return paths
	}
	scriptAbs, err := filepath.Abs(script)
	if err != nil {
		return paths
	}

	out := paths[:0]
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil && abs == scriptAbs {
			continue
		}
		out = append(out, p)
	}
	return out
}

// 📄 processFile rewrites a single file
func (op *rewriteOperation) processFile(ctx context.Context, path string) FileResult {
	logger := log.FromContext(ctx)

	content, err := op.Files.ReadFile(ctx, path)
	if err != nil {
		return FileResult{Path: path, Status: log.StatusFailed, Err: err}
	}

	result, err := op.Replacer.ReplaceText(ctx, bytes.NewReader(content), op.Rules)
	if err != nil {
		return FileResult{Path: path, Status: log.StatusFailed, Err: errors.Errorf("replacing text in %s: %w", path, err)}
	}

	if logger.Verbose() {
		for _, rr := range result.Rules {
			logger.LogRule(ctx, log.RuleEvent{
				Path:    path,
				Index:   rr.Index,
				Rule:    op.Rules.Rule(rr.Index).String(),
				Count:   rr.Count,
				Skipped: rr.Skipped,
			})
		}
	}

	if !result.WasModified {
		return FileResult{Path: path, Status: log.StatusUnchanged}
	}

	if op.DryRun {
		if op.ShowDiff {
			logger.Print(Preview(path, result.OriginalContent, result.ModifiedContent))
		}
		return FileResult{Path: path, Status: log.StatusWouldChange, Replacements: result.ReplacementCount}
	}

	written, err := op.Files.WriteIfChanged(ctx, path, []byte(result.ModifiedContent), result.ReplacementCount, op.KeepBackup)
	if err != nil {
		return FileResult{Path: path, Status: log.StatusFailed, Err: err}
	}
	if !written {
		return FileResult{Path: path, Status: log.StatusUnchanged}
	}

	return FileResult{Path: path, Status: log.StatusRewritten, Replacements: result.ReplacementCount}
}
