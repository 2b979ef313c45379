package content

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/blogbuilder/internal/dates"
	foundationerrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

const markdownExt = ".md"

// LoadPosts parses every Markdown file directly inside dir and returns the
// posts ordered newest first. Files with other extensions and subdirectories
// are ignored. Posts sharing a date keep filename order.
//
// Any unreadable file, malformed front matter or bad date aborts the load, as
// do two posts claiming the same slug.
func LoadPosts(dir string) ([]*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryContent, "read posts directory").
			WithContext("path", dir).
			Fatal().
			Build()
	}

	posts := make([]*Document, 0, len(entries))
	bySlug := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), markdownExt) {
			continue
		}
		doc, err := LoadPost(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if prev, dup := bySlug[doc.Slug]; dup {
			return nil, foundationerrors.ValidationError("duplicate post slug").
				WithContext("slug", doc.Slug).
				WithContext("path", doc.SourcePath).
				WithContext("conflicts_with", prev).
				Build()
		}
		bySlug[doc.Slug] = doc.SourcePath
		slog.Debug("Parsed post", logfields.Path(doc.SourcePath), logfields.Slug(doc.Slug), "date", doc.Date)
		posts = append(posts, doc)
	}

	SortNewestFirst(posts)
	return posts, nil
}

// LoadPost parses one post. The slug falls back to the file name without its
// extension and must name a single path segment; the date is required.
func LoadPost(path string) (*Document, error) {
	doc, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	if !ValidSlug(doc.Slug) {
		return nil, foundationerrors.ValidationError("post slug must be a single path segment").
			WithContext("path", path).
			WithContext("slug", doc.Slug).
			Build()
	}
	raw, ok := doc.Meta[KeyDate]
	if !ok {
		return nil, foundationerrors.ValidationError("post has no date").
			WithContext("path", path).
			Build()
	}
	doc.Date, err = dates.Normalize(raw)
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryValidation, "invalid post date").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return doc, nil
}

// LoadPage parses a standalone document such as the about page. A date is
// optional; when present it is normalized like a post date.
func LoadPage(path string) (*Document, error) {
	doc, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	if raw, ok := doc.Meta[KeyDate]; ok {
		if doc.Date, err = dates.Normalize(raw); err != nil {
			return nil, foundationerrors.WrapError(err, foundationerrors.CategoryValidation, "invalid page date").
				Fatal().
				WithContext("path", path).
				Build()
		}
	}
	return doc, nil
}

// SortNewestFirst orders posts by canonical date, descending. The fixed-width
// date format makes string comparison equivalent to chronological order.
func SortNewestFirst(posts []*Document) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})
}

func parseFile(path string) (*Document, error) {
	// #nosec G304 -- path comes from the configured content directory.
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryContent, "read document").
			Fatal().
			WithContext("path", path).
			Build()
	}
	meta, body, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryContent, "parse front matter").
			Fatal().
			WithContext("path", path).
			Build()
	}

	doc := &Document{
		SourcePath:  path,
		Meta:        meta,
		Body:        body,
		Title:       stringField(meta, KeyTitle),
		Slug:        stringField(meta, KeySlug),
		Description: stringField(meta, KeyDescription),
	}
	if doc.Slug == "" {
		doc.Slug = SlugFromFilename(path)
	}
	if doc.Title == "" {
		doc.Title = TitleFromSlug(doc.Slug)
		slog.Warn("Document has no title; derived one from its slug", logfields.Path(path), "title", doc.Title)
	}
	return doc, nil
}

// ValidSlug reports whether slug can be used as one directory name below
// posts/ without escaping it.
func ValidSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	return !strings.ContainsAny(slug, `/\`)
}

// SlugFromFilename strips the directory and extension: posts/my-post.md -> my-post.
func SlugFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TitleFromSlug turns "my-first_post" into "My First Post".
func TitleFromSlug(slug string) string {
	words := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return cases.Title(language.English).String(strings.Join(strings.Fields(words), " "))
}
