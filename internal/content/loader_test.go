package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	foundationerrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func slugs(posts []*Document) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Slug)
	}
	return out
}

func TestLoadPosts_SortsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.md", "---\ntitle: B\ndate: 2024-01-01\n---\nbody b\n")
	writeFile(t, dir, "a.md", "---\ntitle: A\ndate: 2024-02-01\n---\nbody a\n")
	writeFile(t, dir, "c.md", "---\ntitle: C\ndate: 2023-06-15\n---\nbody c\n")

	posts, err := LoadPosts(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, slugs(posts))
}

func TestLoadPosts_TiesKeepFilenameOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zeta.md", "---\ntitle: Z\ndate: 2024-01-01\n---\n")
	writeFile(t, dir, "alpha.md", "---\ntitle: A\ndate: 2024-01-01\n---\n")
	writeFile(t, dir, "mid.md", "---\ntitle: M\ndate: 2024-01-01\n---\n")

	posts, err := LoadPosts(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, slugs(posts))
}

func TestLoadPosts_IgnoresNonMarkdown(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "post.md", "---\ntitle: P\ndate: 2024-01-01\n---\n")
	writeFile(t, dir, "notes.txt", "not a post")
	writeFile(t, dir, "draft.md.bak", "not a post")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "images.md"), 0o750))

	posts, err := LoadPosts(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"post"}, slugs(posts))
}

func TestLoadPosts_MissingDirectory(t *testing.T) {
	_, err := LoadPosts(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryContent))
}

func TestLoadPost_SlugFromFilename(t *testing.T) {
	path := writeFile(t, t.TempDir(), "my-post.md", "---\ntitle: Mine\ndate: 2024-01-01\n---\n")

	doc, err := LoadPost(path)
	require.NoError(t, err)
	assert.Equal(t, "my-post", doc.Slug)
	assert.Equal(t, "/posts/my-post/", doc.URLPath())
}

func TestLoadPost_ExplicitSlugWins(t *testing.T) {
	path := writeFile(t, t.TempDir(), "2024-01-01-long-name.md", "---\ntitle: X\ndate: 2024-01-01\nslug: short\n---\n")

	doc, err := LoadPost(path)
	require.NoError(t, err)
	assert.Equal(t, "short", doc.Slug)
}

func TestLoadPost_Fields(t *testing.T) {
	path := writeFile(t, t.TempDir(), "p.md", "---\ntitle: Hello\ndate: 2024-03-09\ndescription: A greeting\n---\n# Hi\n")

	doc, err := LoadPost(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello", doc.Title)
	assert.Equal(t, "2024-03-09", doc.Date)
	assert.Equal(t, "A greeting", doc.Description)
	assert.Equal(t, []byte("# Hi\n"), doc.Body)
	assert.Equal(t, "Hello", doc.Meta[KeyTitle])
}

func TestLoadPost_MissingDescriptionIsEmpty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "p.md", "---\ntitle: Hello\ndate: 2024-03-09\n---\n")

	doc, err := LoadPost(path)
	require.NoError(t, err)
	assert.Equal(t, "", doc.Description)
}

func TestLoadPost_DateWithTimeUsesUTCDay(t *testing.T) {
	path := writeFile(t, t.TempDir(), "p.md", "---\ntitle: Late\ndate: 2024-01-04T23:30:00-02:00\n---\n")

	doc, err := LoadPost(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", doc.Date)
}

func TestLoadPost_TitleFallsBackToSlug(t *testing.T) {
	path := writeFile(t, t.TempDir(), "my-first_post.md", "---\ndate: 2024-01-01\n---\n")

	doc, err := LoadPost(path)
	require.NoError(t, err)
	assert.Equal(t, "My First Post", doc.Title)
}

func TestLoadPost_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		content  string
		category foundationerrors.ErrorCategory
	}{
		{"missing date", "---\ntitle: X\n---\n", foundationerrors.CategoryValidation},
		{"malformed date", "---\ntitle: X\ndate: 05/01/2024\n---\n", foundationerrors.CategoryValidation},
		{"unclosed front matter", "---\ntitle: X\n", foundationerrors.CategoryContent},
		{"invalid yaml", "---\ntitle: [x\n---\n", foundationerrors.CategoryContent},
		{"slug escapes posts dir", "---\ntitle: X\ndate: 2024-01-01\nslug: ../../x\n---\n", foundationerrors.CategoryValidation},
		{"nested slug", "---\ntitle: X\ndate: 2024-01-01\nslug: a/b\n---\n", foundationerrors.CategoryValidation},
		{"dot dot slug", "---\ntitle: X\ndate: 2024-01-01\nslug: ..\n---\n", foundationerrors.CategoryValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "bad.md", tt.content)
			_, err := LoadPost(path)
			require.Error(t, err)
			assert.True(t, foundationerrors.HasCategory(err, tt.category), err.Error())
		})
	}
}

func TestLoadPosts_DuplicateSlug(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "first.md", "---\ntitle: One\ndate: 2024-01-01\nslug: same\n---\n")
	writeFile(t, dir, "second.md", "---\ntitle: Two\ndate: 2024-02-01\nslug: same\n---\n")

	_, err := LoadPosts(dir)
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryValidation))

	ce, ok := foundationerrors.AsClassified(err)
	require.True(t, ok)
	slug, _ := ce.Context().GetString("slug")
	assert.Equal(t, "same", slug)
	prev, _ := ce.Context().GetString("conflicts_with")
	assert.Equal(t, filepath.Join(dir, "first.md"), prev)
}

func TestValidSlug(t *testing.T) {
	for slug, want := range map[string]bool{
		"my-post": true,
		"v1.2":    true,
		"":        false,
		".":       false,
		"..":      false,
		"../../x": false,
		"a/b":     false,
		`a\b`:     false,
	} {
		assert.Equal(t, want, ValidSlug(slug), slug)
	}
}

func TestLoadPage_DateOptional(t *testing.T) {
	path := writeFile(t, t.TempDir(), "about.md", "---\ntitle: About\n---\nHello there.\n")

	doc, err := LoadPage(path)
	require.NoError(t, err)
	assert.Equal(t, "About", doc.Title)
	assert.Equal(t, "", doc.Date)
	assert.Equal(t, "about", doc.Slug)
}

func TestStringField_FormatsScalars(t *testing.T) {
	meta := map[string]any{"title": 2024, "slug": true, "description": nil}
	assert.Equal(t, "2024", stringField(meta, "title"))
	assert.Equal(t, "true", stringField(meta, "slug"))
	assert.Equal(t, "", stringField(meta, "description"))
	assert.Equal(t, "", stringField(meta, "missing"))
}
