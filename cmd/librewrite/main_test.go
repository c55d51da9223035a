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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/librewrite/pkg/rules"
)

// library writes a script and a small library into a temp dir
func library(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("migrate.rules", script)
	write("docs/a.md", "The colour of money\n")
	write("docs/sub/b.md", "no match here\n")
	write("docs/c.txt", "colour\n")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

const colourScript = "Pat:(?i)colour\nRep:color\n"

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantA      string
		wantBackup bool
		wantOut    []string
	}{
		{
			name:       "rewrites_with_backup",
			args:       []string{"--ext", ".md"},
			wantA:      "The color of money\n",
			wantBackup: true,
			wantOut:    []string{"rewritten", "done"},
		},
		{
			name:    "no_backup",
			args:    []string{"--ext", ".md", "--no-backup"},
			wantA:   "The color of money\n",
			wantOut: []string{"rewritten"},
		},
		{
			name:    "dry_run",
			args:    []string{"--dry-run"},
			wantA:   "The colour of money\n",
			wantOut: []string{"would rewrite", "dry run"},
		},
		{
			name:    "diff_implies_dry_run",
			args:    []string{"--diff"},
			wantA:   "The colour of money\n",
			wantOut: []string{"[-u-]", "dry run"},
		},
		{
			name:       "verbose_lists_rules",
			args:       []string{"-v", "--workers", "2"},
			wantA:      "The color of money\n",
			wantBackup: true,
			wantOut:    []string{"#0 (?i)colour -> color 1", "unchanged"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := library(t, colourScript)
			docs := filepath.Join(dir, "docs")

			args := append([]string{"run", "--script", filepath.Join(dir, "migrate.rules"), "--root", docs}, tt.args...)
			out, err := execute(t, args...)
			require.NoError(t, err, out)

			assert.Equal(t, tt.wantA, read(t, filepath.Join(docs, "a.md")))
			assert.Equal(t, tt.wantBackup, exists(filepath.Join(docs, "a.md.bak")))
			assert.Equal(t, "no match here\n", read(t, filepath.Join(docs, "sub", "b.md")))
			assert.False(t, exists(filepath.Join(docs, "a.md.out")))
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRunExtensionFilter(t *testing.T) {
	dir := library(t, colourScript)
	docs := filepath.Join(dir, "docs")

	_, err := execute(t, "run", "-s", filepath.Join(dir, "migrate.rules"), "-r", docs, "-e", ".md")
	require.NoError(t, err)
	assert.Equal(t, "colour\n", read(t, filepath.Join(docs, "c.txt")))

	_, err = execute(t, "run", "-s", filepath.Join(dir, "migrate.rules"), "-r", docs, "-e", ".MD")
	require.NoError(t, err)
	assert.Equal(t, "colour\n", read(t, filepath.Join(docs, "c.txt")), "extensions are case-sensitive")
}

func TestRunBadScriptTouchesNothing(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr interface{}
	}{
		{name: "count_mismatch", script: "Pat:a\nRep:b\nPat:c\n", wantErr: &rules.ConfigError{}},
		{name: "no_patterns", script: "# nothing\n", wantErr: &rules.ConfigError{}},
		{name: "bad_regex", script: "Pat:ok\nRep:x\nPat:(\nRep:y\n", wantErr: &rules.CompileError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := library(t, tt.script)
			docs := filepath.Join(dir, "docs")

			_, err := execute(t, "run", "--script", filepath.Join(dir, "migrate.rules"), "--root", docs)
			require.Error(t, err)
			switch want := tt.wantErr.(type) {
			case *rules.ConfigError:
				assert.ErrorAs(t, err, &want)
			case *rules.CompileError:
				assert.ErrorAs(t, err, &want)
			}

			assert.Equal(t, "The colour of money\n", read(t, filepath.Join(docs, "a.md")))
			assert.False(t, exists(filepath.Join(docs, "a.md.bak")))
		})
	}
}

func TestRunRequiresScript(t *testing.T) {
	_, err := execute(t, "run", "--root", t.TempDir())
	assert.ErrorContains(t, err, "no rule script given")
}

func TestRunWithConfigFile(t *testing.T) {
	dir := library(t, colourScript)
	cfg := filepath.Join(dir, "librewrite.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("script: migrate.rules\nroot: docs\nextensions: [.txt]\nkeep_backup: false\n"), 0o644))

	_, err := execute(t, "--config", cfg, "run")
	require.NoError(t, err)
	assert.Equal(t, "color\n", read(t, filepath.Join(dir, "docs", "c.txt")))
	assert.Equal(t, "The colour of money\n", read(t, filepath.Join(dir, "docs", "a.md")))
	assert.False(t, exists(filepath.Join(dir, "docs", "c.txt.bak")))

	_, err = execute(t, "--config", cfg, "run", "--ext", ".md", "--no-backup=false")
	require.NoError(t, err)
	assert.Equal(t, "The color of money\n", read(t, filepath.Join(dir, "docs", "a.md")), "flags override the file")
	assert.True(t, exists(filepath.Join(dir, "docs", "a.md.bak")))
}

func TestRunWithBareHCLConfig(t *testing.T) {
	dir := library(t, colourScript)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".librewrite"),
		[]byte("script = \"migrate.rules\"\nroot = \"docs\"\nextensions = [\".md\"]\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out, err := execute(t, "run")
	require.NoError(t, err, out)
	assert.Equal(t, "The color of money\n", read(t, filepath.Join(dir, "docs", "a.md")))
	assert.Equal(t, "colour\n", read(t, filepath.Join(dir, "docs", "c.txt")))

	_, err = execute(t, "check")
	require.NoError(t, err, "the bare config also gives check its script")
}

func TestRunLeavesScriptInRoot(t *testing.T) {
	dir := library(t, colourScript)
	script := filepath.Join(dir, "colour.rules")
	require.NoError(t, os.WriteFile(script, []byte("Pat:colour\nRep:color\n"), 0o644))

	_, err := execute(t, "run", "-s", script, "-r", dir)
	require.NoError(t, err)
	assert.Equal(t, "Pat:colour\nRep:color\n", read(t, script))
	assert.Equal(t, "color\n", read(t, filepath.Join(dir, "docs", "c.txt")))
}

func TestRestoreAndClean(t *testing.T) {
	dir := library(t, colourScript)
	docs := filepath.Join(dir, "docs")
	script := filepath.Join(dir, "migrate.rules")

	_, err := execute(t, "run", "-s", script, "-r", docs)
	require.NoError(t, err)
	require.True(t, exists(filepath.Join(docs, "a.md.bak")))

	out, err := execute(t, "restore", "-r", docs)
	require.NoError(t, err)
	assert.Contains(t, out, "restored")
	assert.Equal(t, "The colour of money\n", read(t, filepath.Join(docs, "a.md")))
	assert.Equal(t, "colour\n", read(t, filepath.Join(docs, "c.txt")))
	assert.False(t, exists(filepath.Join(docs, "a.md.bak")))

	_, err = execute(t, "run", "-s", script, "-r", docs)
	require.NoError(t, err)

	out, err = execute(t, "clean", "-r", docs, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "a.md.bak")
	assert.True(t, exists(filepath.Join(docs, "a.md.bak")))

	_, err = execute(t, "clean", "-r", docs)
	require.NoError(t, err)
	assert.False(t, exists(filepath.Join(docs, "a.md.bak")))
	assert.False(t, exists(filepath.Join(docs, "c.txt.bak")))
	assert.Equal(t, "The color of money\n", read(t, filepath.Join(docs, "a.md")))

	out, err = execute(t, "restore", "-r", docs)
	require.NoError(t, err, "restoring a tree without backups is a no-op")
	assert.Contains(t, out, "nothing to restore")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "migrate.rules")
	require.NoError(t, os.WriteFile(script, []byte("Pat:(?1)(?m)^Draft$\nRep:Final\nPat:(?i)colour\nRep:color\n"), 0o644))

	out, err := execute(t, "check", "--script", script)
	require.NoError(t, err)
	assert.Contains(t, out, "^Draft$")
	assert.Contains(t, out, "(?1)(?m)")
	assert.Contains(t, out, "2 rules compiled")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "librewrite version info")
}
