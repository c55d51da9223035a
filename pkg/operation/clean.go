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

	"github.com/walteh/librewrite/pkg/files"
	"github.com/walteh/librewrite/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🧹 NewCleanOperation creates the operation that deletes every backup under the root
func NewCleanOperation(opts Options) (Operation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &cleanOperation{BaseOperation: base}, nil
}

// 🧹 cleanOperation implements the clean operation
type cleanOperation struct {
	BaseOperation
}

func (op *cleanOperation) Name() string {
	return "clean"
}

// 🏃 Execute runs the clean operation
func (op *cleanOperation) Execute(ctx context.Context) (*Summary, error) {
	summary := &Summary{Operation: op.Name()}
	record := func(bak string, err error) error {
		r := FileResult{Path: bak, Status: log.StatusRemoved}
		if err != nil {
			r = FileResult{Path: bak, Status: log.StatusFailed, Err: err}
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

	if _, err := op.Files.RemoveBackups(ctx, op.Root, record); err != nil {
		return summary, errors.Errorf("removing backups: %w", err)
	}

	return summary, summary.err()
}

// 📋 listBackups calls fn for every backup under root without touching it
func listBackups(ctx context.Context, m *files.Manager, root string, fn files.BackupFunc) error {
	backups, err := m.FindBackups(ctx, root)
	if err != nil {
		return errors.Errorf("listing backups: %w", err)
	}
	for _, bak := range backups {
		if err := fn(bak, nil); err != nil {
			return err
		}
	}
	return nil
}
