// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/convert-notebooks/pkg/types"
)

// fakeConverter implements nbconvert.Converter for testing. It writes canned
// markdown to <prefix>.md and one PNG per entry in images.
type fakeConverter struct {
	markdown string
	images   []string // suffixes appended to the prefix, e.g. "_4_0.png"
	err      error
	calls    []string
}

func (f *fakeConverter) Convert(ctx context.Context, notebookPath, outputPrefix string) error {
	f.calls = append(f.calls, notebookPath)
	if f.err != nil {
		return f.err
	}
	md := strings.ReplaceAll(f.markdown, "{{prefix}}", outputPrefix)
	if err := os.WriteFile(outputPrefix+".md", []byte(md), 0o644); err != nil {
		return err
	}
	for _, suffix := range f.images {
		if err := os.WriteFile(outputPrefix+suffix, []byte("png"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// fakeDates returns a fixed date prefix.
type fakeDates struct {
	date string
	err  error
}

func (f fakeDates) Resolve(ctx context.Context, notebookPath string) (string, error) {
	return f.date, f.err
}

const notebookMarkdown = "#Title\n\nAuthor: Jane Doe\n\n```python\nimport numpy\nimport sys\n```\n\n![png]({{prefix}}_4_0.png)\n"

// setupNotebook creates tutorials/python/foo.ipynb and an output dir under a
// temp root and returns both.
func setupNotebook(t *testing.T) (nbPath, outDir string) {
	t.Helper()
	root := t.TempDir()
	nbPath = filepath.Join(root, "tutorials", "python", "foo.ipynb")
	if err := os.MkdirAll(filepath.Dir(nbPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(nbPath, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir = filepath.Join(root, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return nbPath, outDir
}

func newTestPipeline(t *testing.T, outDir string, conv *fakeConverter, dates DateResolver) *Pipeline {
	t.Helper()
	cfg := types.DefaultConfig().Post
	p := NewPipeline(outDir, conv, dates, cfg, nil)
	if err := p.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestConvertNotebook(t *testing.T) {
	nbPath, outDir := setupNotebook(t)
	conv := &fakeConverter{markdown: notebookMarkdown, images: []string{"_4_0.png"}}
	p := newTestPipeline(t, outDir, conv, fakeDates{date: "2021-07-04-"})

	post, err := p.ConvertNotebook(context.Background(), types.Notebook{Path: nbPath, Language: types.LanguagePython})
	if err != nil {
		t.Fatalf("ConvertNotebook: %v", err)
	}

	wantMD := filepath.Join(outDir, "_posts", "2021-07-04-foo-python.md")
	if post.MarkdownPath != wantMD {
		t.Errorf("markdown path = %q, want %q", post.MarkdownPath, wantMD)
	}

	data, err := os.ReadFile(wantMD)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"layout: single\n",
		"title: Title\n",
		"category: python\n",
		"author: Jane Doe\n",
		"tags: [numpy]\n",
		"![png](/images/2021-07-04-foo-python_4_0.png)",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("output missing %q:\n%s", want, content)
		}
	}
	if strings.Contains(content, "#Title") {
		t.Error("header line should be removed from the body")
	}
	if strings.Contains(content, "Author: Jane Doe") {
		t.Error("author line should be removed from the body")
	}

	wantImage := filepath.Join(outDir, "images", "2021-07-04-foo-python_4_0.png")
	if _, err := os.Stat(wantImage); err != nil {
		t.Errorf("expected relocated image at %s", wantImage)
	}
	if _, err := os.Stat(filepath.Join(outDir, "_posts", "2021-07-04-foo-python_4_0.png")); !os.IsNotExist(err) {
		t.Error("image should no longer be in the posts directory")
	}
	if len(post.Images) != 1 || post.Images[0] != wantImage {
		t.Errorf("post images = %v, want [%s]", post.Images, wantImage)
	}
}

func TestConvertNotebook_NoDate(t *testing.T) {
	nbPath, outDir := setupNotebook(t)
	conv := &fakeConverter{markdown: notebookMarkdown}
	p := newTestPipeline(t, outDir, conv, fakeDates{date: "-"})

	post, err := p.ConvertNotebook(context.Background(), types.Notebook{Path: nbPath, Language: types.LanguagePython})
	if err != nil {
		t.Fatalf("ConvertNotebook: %v", err)
	}
	if got := filepath.Base(post.MarkdownPath); got != "-foo-python.md" {
		t.Errorf("file name = %q, want %q", got, "-foo-python.md")
	}
}

func TestConvertNotebook_Failures(t *testing.T) {
	tests := []struct {
		name    string
		conv    *fakeConverter
		dates   fakeDates
		wantErr error
	}{
		{
			name:    "converter fails",
			conv:    &fakeConverter{err: types.ErrConverterFailed},
			dates:   fakeDates{date: "2021-07-04-"},
			wantErr: types.ErrConverterFailed,
		},
		{
			name:    "git fails",
			conv:    &fakeConverter{markdown: notebookMarkdown},
			dates:   fakeDates{err: types.ErrGitFailed},
			wantErr: types.ErrGitFailed,
		},
		{
			name:    "missing title",
			conv:    &fakeConverter{markdown: "Author: A\n"},
			dates:   fakeDates{date: "-"},
			wantErr: types.ErrNoTitle,
		},
		{
			name:    "missing author",
			conv:    &fakeConverter{markdown: "# T\n"},
			dates:   fakeDates{date: "-"},
			wantErr: types.ErrNoAuthor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nbPath, outDir := setupNotebook(t)
			p := newTestPipeline(t, outDir, tt.conv, tt.dates)

			_, err := p.ConvertNotebook(context.Background(), types.Notebook{Path: nbPath, Language: types.LanguagePython})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOutputPrefix(t *testing.T) {
	tests := []struct {
		name   string
		outDir string
		nb     types.Notebook
		date   string
		want   string
	}{
		{
			name:   "posts child created under output dir",
			outDir: "out",
			nb:     types.Notebook{Path: "tutorials/python/foo.ipynb", Language: types.LanguagePython},
			date:   "2021-07-04-",
			want:   filepath.Join("out", "_posts", "2021-07-04-foo-python"),
		},
		{
			name:   "output dir already _posts",
			outDir: "site/_posts",
			nb:     types.Notebook{Path: "tutorials/R/bar.ipynb", Language: types.LanguageR},
			date:   "2020-01-02-",
			want:   filepath.Join("site", "_posts", "2020-01-02-bar-r"),
		},
		{
			name:   "underscores hyphenated and substring removed",
			outDir: "site/_posts",
			nb:     types.Notebook{Path: "x/python/intro_to_tutorials_pandas.ipynb", Language: types.LanguagePython},
			date:   "-",
			want:   filepath.Join("site", "_posts", "-intro-to--pandas-python"),
		},
		{
			name:   "dotted name keeps inner dots",
			outDir: "o",
			nb:     types.Notebook{Path: "in/python/v1.2_notes.ipynb", Language: types.LanguagePython},
			date:   "2021-07-04-",
			want:   filepath.Join("o", "_posts", "2021-07-04-v1.2-notes-python"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(tt.outDir, &fakeConverter{}, fakeDates{}, types.DefaultConfig().Post, nil)
			if got := p.OutputPrefix(tt.nb, tt.date); got != tt.want {
				t.Errorf("OutputPrefix = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPostsAndImagesDir(t *testing.T) {
	if got := PostsDir("site/"); got != filepath.Join("site", "_posts") {
		t.Errorf("PostsDir = %q", got)
	}
	if got := PostsDir("site/_posts/"); got != filepath.Join("site", "_posts") {
		t.Errorf("PostsDir = %q", got)
	}
	if got := ImagesDir(filepath.Join("site", "_posts")); got != filepath.Join("site", "images") {
		t.Errorf("ImagesDir = %q", got)
	}
}
