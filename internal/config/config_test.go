package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	foundationerrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
site:
  title: Example
  base_url: https://example.com/
  author: Ada
  domain: example.com
  profile: FULL
paths:
  posts: src/posts
  about: src/about.md
  static: assets
  output: public
build:
  verify_links: true
  metrics_file: metrics.prom
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Example", cfg.Site.Title)
	assert.Equal(t, "https://example.com", cfg.Site.BaseURL, "trailing slash trimmed")
	assert.Equal(t, ProfileFull, cfg.Site.Profile)
	assert.Equal(t, "en", cfg.Site.Language)
	assert.Equal(t, "en-us", cfg.Site.FeedLanguage)
	assert.Equal(t, "src/posts", cfg.Paths.Posts)
	assert.Equal(t, "public", cfg.Paths.Output)
	assert.True(t, cfg.Build.VerifyLinks)
	assert.Equal(t, "metrics.prom", cfg.Build.MetricsFile)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "site:\n  title: Partial\n"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, "Partial", cfg.Site.Title)
	assert.Equal(t, def.Site.BaseURL, cfg.Site.BaseURL)
	assert.Equal(t, def.Paths, cfg.Paths)
	assert.Equal(t, ProfileBio, cfg.Site.Profile)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("BLOG_TEST_URL", "https://env.example.com")
	cfg, err := Load(writeConfig(t, "site:\n  title: T\n  base_url: ${BLOG_TEST_URL}\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Site.BaseURL)
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, Default().Site, cfg.Site)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryConfig))
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "site: [unclosed"))
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryConfig))
}

func TestLoad_ReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(".env", []byte("BLOG_TEST_TITLE=FromDotEnv\nBLOG_TEST_AUTHOR=DotEnvAuthor\n"), 0o600))
	t.Setenv("BLOG_TEST_AUTHOR", "Process")
	t.Cleanup(func() { _ = os.Unsetenv("BLOG_TEST_TITLE") })

	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  title: ${BLOG_TEST_TITLE}\n  author: ${BLOG_TEST_AUTHOR}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "FromDotEnv", cfg.Site.Title)
	assert.Equal(t, "Process", cfg.Site.Author)
}
