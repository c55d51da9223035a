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
	"context"
	"strings"

	"github.com/walteh/librewrite/pkg/files"
	"github.com/walteh/librewrite/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// ⏪ NewRestoreOperation creates the operation that puts every backup under the root back in place
func NewRestoreOperation(opts Options) (Operation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &restoreOperation{BaseOperation: base}, nil
}

// ⏪ restoreOperation implements the restore operation
type restoreOperation struct {
	BaseOperation
}

func (op *restoreOperation) Name() string {
	return "restore"
}

// 🏃 Execute runs the restore operation
func (op *restoreOperation) Execute(ctx context.Context) (*Summary, error) {
	summary := &Summary{Operation: op.Name()}
	record := func(bak string, err error) error {
		orig := strings.TrimSuffix(bak, files.BackupSuffix)
		r := FileResult{Path: orig, Status: log.StatusRestored}
		if err != nil {
			r = FileResult{Path: orig, Status: log.StatusFailed, Err: err}
		}
		summary.add(r)
		report(ctx, r, false)
		return nil
	}

	if op.DryRun {
		if err := listBackups(ctx, op.Files, op.Root, record); err != nil {
			return summary, err
		}
		return summary, nil
	}

	if _, err := op.Files.RestoreBackups(ctx, op.Root, record); err != nil {
		return summary, errors.Errorf("restoring backups: %w", err)
	}

	return summary, summary.err()
}
