package linkverify

import (
	"bytes"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL        string // The URL or path
	Tag        string // HTML tag (a, img, script, link, etc.)
	Attribute  string // Attribute containing the link (href, src)
	IsInternal bool   // True if link is internal to the site
	Line       int    // 1-based source line of the element
}

// linkAttrs maps elements to the attribute that carries their target.
var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"video":  "src",
	"audio":  "src",
	"source": "src",
}

// ExtractLinks extracts all links from an HTML file.
func ExtractLinks(htmlPath string, baseURL string) ([]*Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open HTML file").
			WithSeverity(errors.SeverityError).WithContext("html_path", htmlPath).Build()
	}
	defer func() {
		_ = file.Close()
	}()

	return ExtractLinksFromReader(file, baseURL)
}

// ExtractLinksFromReader extracts all links from an HTML reader in document
// order.
func ExtractLinksFromReader(r io.Reader, baseURL string) ([]*Link, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid base URL").
			WithSeverity(errors.SeverityError).WithContext("base_url", baseURL).Build()
	}

	var links []*Link
	line := 1
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").
					WithSeverity(errors.SeverityError).Build()
			}
			return links, nil
		}
		start := line
		line += bytes.Count(z.Raw(), []byte{'\n'})
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		tok := z.Token()
		attr, ok := linkAttrs[tok.Data]
		if !ok {
			continue
		}
		if target := getAttr(tok.Attr, attr); target != "" {
			links = append(links, &Link{
				URL:        target,
				Tag:        tok.Data,
				Attribute:  attr,
				IsInternal: isInternalLink(target, base),
				Line:       start,
			})
		}
	}
}

// getAttr retrieves an attribute value from a tag's attributes.
func getAttr(attrs []html.Attribute, key string) string {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// isInternalLink determines if a URL points into the generated site.
func isInternalLink(linkURL string, baseURL *url.URL) bool {
	u, err := url.Parse(linkURL)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return true
	}
	return baseURL != nil && u.Host == baseURL.Host
}

// ShouldVerifyLink reports whether a link targets a file the build is
// expected to produce.
func ShouldVerifyLink(link *Link) bool {
	if link.URL == "" || strings.HasPrefix(link.URL, "#") {
		return false
	}
	for _, scheme := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(link.URL, scheme) {
			return false
		}
	}
	return link.IsInternal
}
