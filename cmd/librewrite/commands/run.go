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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/librewrite/cmd/librewrite/opts"
	"github.com/walteh/librewrite/pkg/config"
	"github.com/walteh/librewrite/pkg/files"
	"github.com/walteh/librewrite/pkg/log"
	"github.com/walteh/librewrite/pkg/operation"
	"github.com/walteh/librewrite/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

type runFlags struct {
	script   string
	root     string
	exts     []string
	globs    []string
	ignore   []string
	noBackup bool
	dryRun   bool
	diff     bool
	workers  int
	verbose  bool
}

// NewRunCmd creates the command that rewrites a library with a rule script
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rewrite every selected file under the root with a rule script",
		Long: `Run loads the rule script, then applies its rules in order to every selected
file under the root. A script that does not compile stops the run before any
file is touched. A file that cannot be rewritten is reported and the run goes
on with the rest; the command then fails naming how many files failed.`,
		Example: `  librewrite run --script migrate.rules --root docs --ext .md
  librewrite run -s migrate.rules -r docs --glob '**/*.txt' --ignore vendor --dry-run --diff`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := o.Config
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}

			ctx := o.WithLogger(cmd.Context(), cmd.OutOrStdout(), cfg.Verbose)
			logger := log.FromContext(ctx)

			if cfg.Script == "" {
				return errors.New("no rule script given, use --script or set script in the config file")
			}

			rs, err := rules.Load(ctx, cfg.Script)
			if err != nil {
				return err
			}

			op, err := operation.NewRewriteOperation(operation.Options{
				Files:      files.NewOS(),
				Rules:      rs,
				Root:       cfg.Root,
				Filter:     cfg.Filter(),
				KeepBackup: cfg.Backup(),
				DryRun:     cfg.DryRun,
				ShowDiff:   f.diff,
				Workers:    cfg.Workers,
			})
			if err != nil {
				return errors.Errorf("creating rewrite operation: %w", err)
			}

			logger.Header("rewriting " + cfg.Root)

			summary, err := operation.NewRunner(cfg.Workers).Run(ctx, op)
			return finish(logger, summary, err, cfg.Root, cfg.DryRun)
		},
	}

	cmd.Flags().StringVarP(&f.script, "script", "s", "", "rule script of Pat:/Rep: lines")
	cmd.Flags().StringVarP(&f.root, "root", "r", "", "library root directory")
	cmd.Flags().StringSliceVarP(&f.exts, "ext", "e", nil, "file extension to rewrite, exact and case-sensitive (repeatable)")
	cmd.Flags().StringSliceVarP(&f.globs, "glob", "g", nil, "doublestar pattern of files to rewrite (repeatable)")
	cmd.Flags().StringSliceVarP(&f.ignore, "ignore", "i", nil, "doublestar pattern of files or directories to skip (repeatable)")
	cmd.Flags().BoolVar(&f.noBackup, "no-backup", false, "delete originals instead of keeping .bak backups")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "report what would change without writing")
	cmd.Flags().BoolVar(&f.diff, "diff", false, "print a diff of each change (implies --dry-run)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "number of files rewritten at once")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "print every rule applied to every file")

	return cmd
}

// apply overrides config values with the flags that were set
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("script") {
		cfg.Script = f.script
	}
	if flags.Changed("root") {
		cfg.Root = f.root
	}
	if flags.Changed("ext") {
		cfg.Extensions = f.exts
	}
	if flags.Changed("glob") {
		cfg.Patterns = f.globs
	}
	if flags.Changed("ignore") {
		cfg.Ignore = f.ignore
	}
	if flags.Changed("no-backup") {
		keep := !f.noBackup
		cfg.KeepBackup = &keep
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if f.diff {
		cfg.DryRun = true
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("verbose") {
		cfg.Verbose = f.verbose
	}

	if err := config.Validate(cmd.Context(), cfg); err != nil {
		return errors.Errorf("validating flags: %w", err)
	}
	return nil
}
