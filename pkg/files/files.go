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

package files

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/librewrite/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// File name suffixes of the artifacts the lifecycle manages.
const (
	BackupSuffix = ".bak"
	TempSuffix   = ".out"
)

// BackupPath returns the backup artifact path for path
func BackupPath(path string) string {
	return path + BackupSuffix
}

// TempPath returns the temporary artifact path for path
func TempPath(path string) string {
	return path + TempSuffix
}

// 💾 IOError reports a failed file system operation on one path
type IOError struct {
	Op   string // read, write, rename, remove, stat
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// 🔧 Manager reads files and replaces their content through the backup lifecycle
type Manager struct {
	fs afero.Fs
}

// 🏭 New creates a manager over fsys
func New(fsys afero.Fs) *Manager {
	return &Manager{fs: fsys}
}

// 🏭 NewOS creates a manager over the OS file system
func NewOS() *Manager {
	return New(afero.NewOsFs())
}

// Fs returns the underlying file system
func (m *Manager) Fs() afero.Fs {
	return m.fs
}

// 📖 ReadFile returns the content of path
func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return content, nil
}

// ✍️ WriteIfChanged replaces the content of path when matchCount is positive.
// It reports whether the file was written. With keepBackup the previous content
// is left at BackupPath(path), replacing any older backup.
func (m *Manager) WriteIfChanged(ctx context.Context, path string, content []byte, matchCount int, keepBackup bool) (bool, error) {
	if matchCount <= 0 {
		return false, nil
	}
	if err := m.commit(ctx, path, content, keepBackup); err != nil {
		return false, err
	}
	return true, nil
}

// 🔒 commit is the only code path that replaces a file's content.
//
// Order: write temp, remove old backup, move original to backup (or remove it),
// move temp to original. The original is not touched until the temp file is
// completely written.
func (m *Manager) commit(ctx context.Context, path string, content []byte, keepBackup bool) error {
	logger := zerolog.Ctx(ctx)
	tmp := TempPath(path)
	bak := BackupPath(path)

	info, err := m.fs.Stat(path)
	if err != nil {
		return &IOError{Op: "stat", Path: path, Err: err}
	}

	if err := afero.WriteFile(m.fs, tmp, content, info.Mode().Perm()); err != nil {
		_ = m.fs.Remove(tmp)
		return &IOError{Op: "write", Path: tmp, Err: err}
	}

	if err := m.removeIfExists(bak); err != nil {
		_ = m.fs.Remove(tmp)
		return err
	}

	if keepBackup {
		if err := m.fs.Rename(path, bak); err != nil {
			_ = m.fs.Remove(tmp)
			return &IOError{Op: "rename", Path: path, Err: err}
		}
	} else {
		if err := m.fs.Remove(path); err != nil {
			_ = m.fs.Remove(tmp)
			return &IOError{Op: "remove", Path: path, Err: err}
		}
	}

	if err := m.fs.Rename(tmp, path); err != nil {
		if keepBackup {
			if rerr := m.fs.Rename(bak, path); rerr != nil {
				logger.Error().Err(rerr).Str("path", path).Msg("putting original back after failed rename")
			}
		}
		return &IOError{Op: "rename", Path: tmp, Err: err}
	}

	logger.Debug().
		Str("path", path).
		Bool("backup", keepBackup).
		Int("bytes", len(content)).
		Msg("file rewritten")

	return nil
}

func (m *Manager) removeIfExists(path string) error {
	if err := m.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return &IOError{Op: "remove", Path: path, Err: err}
	}
	return nil
}

// 🔍 FindBackups returns every backup artifact under root, sorted
func (m *Manager) FindBackups(ctx context.Context, root string) ([]string, error) {
	found, err := walk.Files(ctx, m.fs, root, walk.Filter{Patterns: []string{"*" + BackupSuffix}})
	if err != nil {
		return nil, errors.Errorf("finding backups: %w", err)
	}
	sort.Strings(found)
	return found, nil
}

// BackupFunc is called after each backup is handled, with the error of that
// backup or nil. Returning nil goes on with the next backup; returning an
// error stops the loop with it.
type BackupFunc func(bak string, err error) error

// 🧹 RemoveBackups deletes every backup artifact under root and returns how
// many it removed. A nil fn stops at the first failure.
func (m *Manager) RemoveBackups(ctx context.Context, root string, fn BackupFunc) (int, error) {
	return m.eachBackup(ctx, root, m.RemoveBackup, fn)
}

// 🗑️ RemoveBackup deletes one backup artifact
func (m *Manager) RemoveBackup(ctx context.Context, bak string) error {
	if !strings.HasSuffix(bak, BackupSuffix) {
		return errors.Errorf("%s is not a backup", bak)
	}
	if err := m.removeIfExists(bak); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Str("backup", bak).Msg("backup removed")
	return nil
}

// ⏪ RestoreBackups moves every backup artifact under root back over its
// original and returns how many it restored. A nil fn stops at the first failure.
func (m *Manager) RestoreBackups(ctx context.Context, root string, fn BackupFunc) (int, error) {
	return m.eachBackup(ctx, root, m.RestoreBackup, fn)
}

// eachBackup applies apply to every backup under root in sorted order
func (m *Manager) eachBackup(ctx context.Context, root string, apply func(context.Context, string) error, fn BackupFunc) (int, error) {
	backups, err := m.FindBackups(ctx, root)
	if err != nil {
		return 0, err
	}
	if fn == nil {
		fn = func(_ string, err error) error { return err }
	}

	done := 0
	for _, bak := range backups {
		if err := ctx.Err(); err != nil {
			return done, errors.Errorf("handling backups: %w", err)
		}
		err := apply(ctx, bak)
		if err == nil {
			done++
		}
		if err := fn(bak, err); err != nil {
			return done, err
		}
	}
	return done, nil
}

// ⏪ RestoreBackup replaces the original of one backup artifact with the backup.
// A missing original is not an error.
func (m *Manager) RestoreBackup(ctx context.Context, bak string) error {
	if !strings.HasSuffix(bak, BackupSuffix) {
		return errors.Errorf("%s is not a backup", bak)
	}
	orig := strings.TrimSuffix(bak, BackupSuffix)
	if err := m.removeIfExists(orig); err != nil {
		return err
	}
	if err := m.fs.Rename(bak, orig); err != nil {
		return &IOError{Op: "rename", Path: bak, Err: err}
	}
	zerolog.Ctx(ctx).Debug().Str("backup", bak).Str("path", orig).Msg("backup restored")
	return nil
}
