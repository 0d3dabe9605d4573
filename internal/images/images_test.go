// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupSite creates a _posts and images directory pair under a temp root.
func setupSite(t *testing.T) (postsDir, imagesDir string) {
	t.Helper()
	root := t.TempDir()
	postsDir = filepath.Join(root, "_posts")
	imagesDir = filepath.Join(root, "images")
	require.NoError(t, os.MkdirAll(postsDir, 0o755))
	require.NoError(t, os.MkdirAll(imagesDir, 0o755))
	return postsDir, imagesDir
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))
}

func TestRelocate(t *testing.T) {
	postsDir, imagesDir := setupSite(t)
	prefix := filepath.Join(postsDir, "2021-07-04-foo-python")

	touch(t, prefix+"_4_0.png")
	touch(t, prefix+"_7_1.png")
	touch(t, filepath.Join(prefix+"_files", "output_3_0.png"))
	touch(t, prefix+".md")
	touch(t, prefix+"_notes.txt")
	touch(t, filepath.Join(postsDir, "2020-01-01-other-python_1_0.png"))

	moves, err := Relocate(prefix, postsDir, imagesDir)
	require.NoError(t, err)
	require.Len(t, moves, 3)

	for _, m := range moves {
		assert.NoFileExists(t, m.From)
		assert.FileExists(t, m.To)
	}
	assert.FileExists(t, filepath.Join(imagesDir, "2021-07-04-foo-python_4_0.png"))
	assert.FileExists(t, filepath.Join(imagesDir, "2021-07-04-foo-python_7_1.png"))
	assert.FileExists(t, filepath.Join(imagesDir, "2021-07-04-foo-python_files", "output_3_0.png"))

	assert.FileExists(t, prefix+".md", "markdown stays in posts")
	assert.FileExists(t, prefix+"_notes.txt", "non-png files stay in posts")
	assert.FileExists(t, filepath.Join(postsDir, "2020-01-01-other-python_1_0.png"), "other posts' images untouched")
}

func TestRelocate_NoImages(t *testing.T) {
	postsDir, imagesDir := setupSite(t)

	moves, err := Relocate(filepath.Join(postsDir, "none-python"), postsDir, imagesDir)
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestDestination(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    string
		wantErr bool
	}{
		{
			name: "direct child",
			src:  "site/_posts/a_1.png",
			want: filepath.Join("site", "images", "a_1.png"),
		},
		{
			name: "nested files directory",
			src:  "site/_posts/a_files/b.png",
			want: filepath.Join("site", "images", "a_files", "b.png"),
		},
		{
			name:    "outside posts directory",
			src:     "site/other/a.png",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Destination(tt.src, "site/_posts", "site/images")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewritePaths(t *testing.T) {
	postsDir, imagesDir := setupSite(t)
	absPosts, err := filepath.Abs(postsDir)
	require.NoError(t, err)

	mdPath := filepath.Join(postsDir, "2021-07-04-foo-python.md")
	content := "# Title\n" +
		"![png](" + filepath.ToSlash(absPosts) + "/2021-07-04-foo-python_4_0.png)\n" +
		"![png](2021-07-04-foo-python_files/output_3_0.png)\n" +
		"plain text\n"
	require.NoError(t, os.WriteFile(mdPath, []byte(content), 0o644))

	moves := []Move{
		{
			From: filepath.Join(postsDir, "2021-07-04-foo-python_4_0.png"),
			To:   filepath.Join(imagesDir, "2021-07-04-foo-python_4_0.png"),
		},
		{
			From: filepath.Join(postsDir, "2021-07-04-foo-python_files", "output_3_0.png"),
			To:   filepath.Join(imagesDir, "2021-07-04-foo-python_files", "output_3_0.png"),
		},
	}

	require.NoError(t, RewritePaths(mdPath, postsDir, "/images", moves))

	data, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	want := "# Title\n" +
		"![png](/images/2021-07-04-foo-python_4_0.png)\n" +
		"![png](/images/2021-07-04-foo-python_files/output_3_0.png)\n" +
		"plain text\n"
	assert.Equal(t, want, string(data))

	entries, err := os.ReadDir(postsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestRewritePaths_NoReferences(t *testing.T) {
	postsDir, _ := setupSite(t)
	mdPath := filepath.Join(postsDir, "p.md")
	require.NoError(t, os.WriteFile(mdPath, []byte("nothing to do\n"), 0o600))

	require.NoError(t, RewritePaths(mdPath, postsDir, "/images/", nil))

	data, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Equal(t, "nothing to do\n", string(data))
}

func TestRewritePaths_MissingFile(t *testing.T) {
	postsDir, _ := setupSite(t)
	err := RewritePaths(filepath.Join(postsDir, "missing.md"), postsDir, "/images", nil)
	require.Error(t, err)
}
