// Package linkverify checks that internal links in the generated site resolve
// to files in the output directory.
package linkverify

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// BrokenLink is an internal link whose target is missing from the output.
type BrokenLink struct {
	Page string // output-relative path of the page containing the link
	URL  string
	Tag  string
	Line int // source line of the element in Page
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s:%d: <%s> %s", b.Page, b.Line, b.Tag, b.URL)
}

// Result summarizes one verification run.
type Result struct {
	Pages  int
	Links  int
	Broken []BrokenLink
}

// Verify walks every .html file under outputDir and resolves its internal
// links against the files on disk. Links on the site's own host (baseURL) are
// treated like root-relative links. The returned Result lists broken links in
// page order; a non-empty list is not itself an error.
func Verify(outputDir, baseURL string) (*Result, error) {
	res := &Result{}
	err := filepath.WalkDir(outputDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		rel, err := filepath.Rel(outputDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		links, err := ExtractLinks(p, baseURL)
		if err != nil {
			return err
		}
		res.Pages++
		for _, link := range links {
			if !ShouldVerifyLink(link) {
				continue
			}
			res.Links++
			if !resolves(outputDir, rel, link.URL) {
				res.Broken = append(res.Broken, BrokenLink{Page: rel, URL: link.URL, Tag: link.Tag, Line: link.Line})
			}
		}
		return nil
	})
	if err != nil {
		if errors.IsClassified(err) {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk output directory").
			WithContext("output", outputDir).Build()
	}

	sort.SliceStable(res.Broken, func(i, j int) bool { return res.Broken[i].Page < res.Broken[j].Page })
	slog.Debug("Verified links",
		logfields.Count(res.Links),
		slog.Int("pages", res.Pages),
		slog.Int("broken", len(res.Broken)))
	return res, nil
}

// resolves maps a link onto the output tree. Directory URLs resolve through
// their index.html.
func resolves(outputDir, page, link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	target := u.Path
	if target == "" {
		// Query- or fragment-only link to the page itself.
		return true
	}
	if !strings.HasPrefix(target, "/") {
		target = path.Join(path.Dir("/"+page), target)
		if strings.HasSuffix(u.Path, "/") {
			target += "/"
		}
	}

	full := filepath.Join(outputDir, filepath.FromSlash(path.Clean(target)))
	info, err := os.Stat(full)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	_, err = os.Stat(filepath.Join(full, "index.html"))
	return err == nil
}
