// Package operation provides the librewrite actions over a library: rewrite, clean and restore
package operation

import (
	"context"

	"github.com/walteh/librewrite/pkg/files"
	"github.com/walteh/librewrite/pkg/log"
	"github.com/walteh/librewrite/pkg/rules"
	"github.com/walteh/librewrite/pkg/text"
	"github.com/walteh/librewrite/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation defines one librewrite action over a library
type Operation interface {
	// Name identifies the operation in logs and summaries
	Name() string
	// Execute runs the operation and reports what happened to each file
	Execute(ctx context.Context) (*Summary, error)
}

// 🔧 Options contains configuration for an operation
type Options struct {
	// Files performs every read and write
	Files *files.Manager
	// Rules is required by the rewrite operation
	Rules *rules.RuleSet
	// Replacer applies Rules to file content, a text.RegexpReplacer when unset
	Replacer text.TextReplacer
	// Root is the library directory
	Root string
	// Filter selects the files to rewrite
	Filter walk.Filter
	// KeepBackup leaves the previous content of rewritten files as backups
	KeepBackup bool
	// DryRun reports what would change without touching files
	DryRun bool
	// ShowDiff prints a preview of each change during a dry run
	ShowDiff bool
	// Workers is the number of files processed at once, 1 when unset
	Workers int
}

// 🧱 BaseOperation holds the options shared by every operation
type BaseOperation struct {
	Options
}

// 🏗️ NewBaseOperation checks the shared options
func NewBaseOperation(opts Options) (BaseOperation, error) {
	if opts.Files == nil {
		return BaseOperation{}, errors.New("file manager is required")
	}
	if opts.Root == "" {
		return BaseOperation{}, errors.New("root is required")
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return BaseOperation{Options: opts}, nil
}

// 📄 FileResult is what an operation did to one file
type FileResult struct {
	Path         string
	Status       log.FileStatus
	Replacements int
	Err          error
}

// 📊 Summary aggregates the file results of one operation
type Summary struct {
	Operation    string
	Files        []FileResult
	Scanned      int
	Changed      int
	Replacements int
	Failed       int
}

func (s *Summary) add(r FileResult) {
	s.Files = append(s.Files, r)
	s.Scanned++
	s.Replacements += r.Replacements
	switch r.Status {
	case log.StatusFailed:
		s.Failed++
	case log.StatusUnchanged:
	default:
		s.Changed++
	}
}

// err returns an error naming the failed files, or nil
func (s *Summary) err() error {
	if s.Failed == 0 {
		return nil
	}
	for _, f := range s.Files {
		if f.Err != nil {
			return errors.Errorf("%d of %d files failed, first %s: %w", s.Failed, s.Scanned, f.Path, f.Err)
		}
	}
	return errors.Errorf("%d of %d files failed", s.Failed, s.Scanned)
}

// 📝 report logs a file result to the reporting sink. Unchanged files are
// shown only when the sink is verbose.
func report(ctx context.Context, r FileResult, backup bool) {
	logger := log.FromContext(ctx)
	if r.Status == log.StatusUnchanged && !logger.Verbose() {
		return
	}
	logger.LogFileOperation(ctx, log.FileOperation{
		Path:         r.Path,
		Status:       r.Status,
		Replacements: r.Replacements,
		Backup:       backup && r.Status == log.StatusRewritten,
		Err:          r.Err,
	})
}
