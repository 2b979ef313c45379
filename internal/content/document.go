// Package content loads Markdown source documents and normalizes their front
// matter into the fields the templates and feed rely on.
package content

import (
	"fmt"
	"strings"
)

// Recognized front matter keys.
const (
	KeyTitle       = "title"
	KeyDate        = "date"
	KeySlug        = "slug"
	KeyDescription = "description"
)

// Document is one parsed source file. Meta keeps the raw front matter; the
// typed fields are filled during normalization and are what renderers read.
type Document struct {
	SourcePath  string
	Meta        map[string]any
	Body        []byte
	Title       string
	Date        string // canonical YYYY-MM-DD; empty for standalone pages without a date
	Slug        string
	Description string
}

// URLPath returns the site-relative permalink of a post.
func (d *Document) URLPath() string {
	return "/posts/" + d.Slug + "/"
}

// stringField reads a front matter value as a trimmed string. Non-string
// scalars (numbers, booleans) are formatted; absent keys yield "".
func stringField(meta map[string]any, key string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
