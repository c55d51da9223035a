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
	"gitlab.com/tozd/go/errors"
)

type backupFlags struct {
	root   string
	dryRun bool
}

// NewCleanCmd creates the command that deletes backups
func NewCleanCmd(o *opts.RootOpts) *cobra.Command {
	return newBackupCmd(o, &cobra.Command{
		Use:   "clean",
		Short: "Delete every .bak backup under the root",
		Long: `Clean deletes the backups left by earlier runs. The rewritten files are kept.
A tree without backups is left as it is.`,
	}, "removing backups in ", operation.NewCleanOperation)
}

// NewRestoreCmd creates the command that puts backups back in place
func NewRestoreCmd(o *opts.RootOpts) *cobra.Command {
	return newBackupCmd(o, &cobra.Command{
		Use:   "restore",
		Short: "Replace every rewritten file under the root with its .bak backup",
		Long: `Restore undoes earlier runs: each backup is renamed over the file it was made
from, so the library is back to its content before the first kept backup.`,
	}, "restoring backups in ", operation.NewRestoreOperation)
}

// newBackupCmd wires the shared flags and run loop of the backup commands
func newBackupCmd(o *opts.RootOpts, cmd *cobra.Command, header string, newOp func(operation.Options) (operation.Operation, error)) *cobra.Command {
	f := &backupFlags{}

	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := o.Config
		if cmd.Flags().Changed("root") {
			cfg.Root = f.root
		}
		if cmd.Flags().Changed("dry-run") {
			cfg.DryRun = f.dryRun
		}
		if err := config.Validate(cmd.Context(), cfg); err != nil {
			return errors.Errorf("validating flags: %w", err)
		}

		ctx := o.WithLogger(cmd.Context(), cmd.OutOrStdout(), cfg.Verbose)
		logger := log.FromContext(ctx)

		op, err := newOp(operation.Options{
			Files:  files.NewOS(),
			Root:   cfg.Root,
			DryRun: cfg.DryRun,
		})
		if err != nil {
			return errors.Errorf("creating %s operation: %w", cmd.Name(), err)
		}

		logger.Header(header + cfg.Root)

		summary, err := operation.NewRunner(1).Run(ctx, op)
		return finish(logger, summary, err, cfg.Root, cfg.DryRun)
	}

	cmd.Flags().StringVarP(&f.root, "root", "r", "", "library root directory")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "list the backups without touching them")

	return cmd
}
