// Package markdown converts post bodies to HTML with goldmark.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options controls the goldmark configuration.
type Options struct {
	// HardWraps turns single newlines into <br>. Off by default.
	HardWraps bool
	// HeadingIDs adds auto-generated id attributes to headings.
	HeadingIDs bool
}

// Renderer converts Markdown to HTML. It is safe to reuse across documents.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer with GitHub Flavored Markdown enabled and raw HTML
// passed through untouched.
func New(opts Options) *Renderer {
	htmlOpts := []renderer.Option{html.WithUnsafe()}
	if opts.HardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	var parserOpts []parser.Option
	if opts.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(htmlOpts...),
	)
	return &Renderer{md: md}
}

// Render converts a Markdown body (front matter already removed) to HTML.
func (r *Renderer) Render(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
