package walk

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for _, p := range []string{
		"/lib/README.md",
		"/lib/notes.MD",
		"/lib/index.html",
		"/lib/docs/guide.md",
		"/lib/docs/guide.md.bak",
		"/lib/docs/api/ref.txt",
		"/lib/docs/api/ref.md",
		"/lib/.git/config",
		"/lib/vendor/dep.md",
	} {
		require.NoError(t, afero.WriteFile(fsys, p, []byte(p), 0o644))
	}
	return fsys
}

func TestFiles(t *testing.T) {
	tests := []struct {
		name      string
		filter    Filter
		want      []string
		wantError string
	}{
		{
			name: "everything",
			want: []string{
				"/lib/.git/config",
				"/lib/README.md",
				"/lib/docs/api/ref.md",
				"/lib/docs/api/ref.txt",
				"/lib/docs/guide.md",
				"/lib/docs/guide.md.bak",
				"/lib/index.html",
				"/lib/notes.MD",
				"/lib/vendor/dep.md",
			},
		},
		{
			name:   "extension_is_case_sensitive",
			filter: Filter{Extensions: []string{".md"}},
			want: []string{
				"/lib/README.md",
				"/lib/docs/api/ref.md",
				"/lib/docs/guide.md",
				"/lib/vendor/dep.md",
			},
		},
		{
			name:   "extension_without_dot",
			filter: Filter{Extensions: []string{"MD", "html"}},
			want:   []string{"/lib/index.html", "/lib/notes.MD"},
		},
		{
			name:   "extension_or_pattern",
			filter: Filter{Extensions: []string{"html"}, Patterns: []string{"ref.*"}},
			want:   []string{"/lib/docs/api/ref.md", "/lib/docs/api/ref.txt", "/lib/index.html"},
		},
		{
			name:   "path_pattern",
			filter: Filter{Patterns: []string{"docs/**/*.md"}},
			want:   []string{"/lib/docs/api/ref.md", "/lib/docs/guide.md"},
		},
		{
			name: "ignore_files_and_directories",
			filter: Filter{
				Extensions: []string{".md"},
				Ignore:     []string{"vendor", "README.*"},
			},
			want: []string{"/lib/docs/api/ref.md", "/lib/docs/guide.md"},
		},
		{
			name:   "ignore_backups",
			filter: Filter{Patterns: []string{"*"}, Ignore: []string{"*.bak", ".git"}},
			want: []string{
				"/lib/README.md",
				"/lib/docs/api/ref.md",
				"/lib/docs/api/ref.txt",
				"/lib/docs/guide.md",
				"/lib/index.html",
				"/lib/notes.MD",
				"/lib/vendor/dep.md",
			},
		},
		{
			name:      "invalid_pattern",
			filter:    Filter{Patterns: []string{"[a-"}},
			wantError: "invalid pattern",
		},
		{
			name:      "invalid_extension",
			filter:    Filter{Extensions: []string{"."}},
			wantError: "invalid extension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

			got, err := Files(ctx, testFS(t), "/lib", tt.filter)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWalkYieldsDirAndName(t *testing.T) {
	ctx := context.Background()
	var dirs, names []string
	err := Walk(ctx, testFS(t), "/lib/docs", Filter{Extensions: []string{".md"}}, func(dir, name string) error {
		dirs = append(dirs, dir)
		names = append(names, name)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.FromSlash("/lib/docs/api"), filepath.FromSlash("/lib/docs")}, dirs)
	assert.Equal(t, []string{"ref.md", "guide.md"}, names)
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := Files(context.Background(), afero.NewMemMapFs(), "/nope", Filter{})
	require.Error(t, err)
}

func TestWalkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Files(ctx, testFS(t), "/lib", Filter{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWalkSingleFileRoot(t *testing.T) {
	got, err := Files(context.Background(), testFS(t), "/lib/docs/guide.md", Filter{Extensions: []string{".md"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"/lib/docs/guide.md"}, got)
}
