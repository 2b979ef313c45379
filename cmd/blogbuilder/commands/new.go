package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/dates"
	foundationerrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Title       string `arg:"" help:"Post title"`
	Slug        string `help:"URL slug (derived from the title when empty)"`
	Description string `short:"d" help:"Short summary shown in listings and the feed"`
	Date        string `help:"Publication date YYYY-MM-DD (defaults to today, UTC)"`
}

func (n *NewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	_, err = RunNew(cfg, NewPost{
		Title:       n.Title,
		Slug:        n.Slug,
		Description: n.Description,
		Date:        n.Date,
	}, time.Now(), os.Stdout)
	return err
}

// NewPost holds the values for a scaffolded post.
type NewPost struct {
	Title       string
	Slug        string
	Description string
	Date        string
}

// RunNew writes content/posts/{slug}.md and returns its path. An existing
// file is never overwritten.
func RunNew(cfg *config.Config, p NewPost, now time.Time, out io.Writer) (string, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return "", foundationerrors.ValidationError("post title is required").Build()
	}
	slug := strings.TrimSpace(p.Slug)
	if slug == "" {
		slug = content.Slugify(title)
	}
	if slug == "" || slug != content.Slugify(slug) {
		return "", foundationerrors.ValidationError("invalid slug").
			WithContext("slug", slug).
			Build()
	}

	date := dates.Canonical(now)
	if p.Date != "" {
		if _, err := dates.Parse(p.Date); err != nil {
			return "", foundationerrors.WrapError(err, foundationerrors.CategoryValidation, "invalid date").
				WithContext("date", p.Date).
				Build()
		}
		date = p.Date
	}

	path := filepath.Join(cfg.Paths.Posts, slug+".md")
	if _, err := os.Stat(path); err == nil {
		return "", foundationerrors.ValidationError("post already exists").
			WithContext("path", path).
			Build()
	}

	data, err := frontmatter.Render(map[string]any{
		content.KeyTitle:       title,
		content.KeyDate:        date,
		content.KeySlug:        slug,
		content.KeyDescription: strings.TrimSpace(p.Description),
	}, []byte("\n"))
	if err != nil {
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryInternal, "serialize front matter").Build()
	}

	if err := os.MkdirAll(cfg.Paths.Posts, 0o755); err != nil {
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "create posts directory").
			WithContext("path", cfg.Paths.Posts).
			Build()
	}
	// O_EXCL closes the gap between the existence check and the write.
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "create post").
			WithContext("path", path).
			Build()
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "write post").
			WithContext("path", path).
			Build()
	}
	if err := f.Close(); err != nil {
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "write post").
			WithContext("path", path).
			Build()
	}

	slog.Info("Created post", logfields.Path(path), logfields.Slug(slug))
	_, _ = fmt.Fprintln(out, path)
	return path, nil
}
