// Package templates renders the HTML pages of the site from embedded layouts.
//
// Every method is a pure function of its arguments and the Renderer's site
// settings; the footer year is fixed when the Renderer is created so a build
// is reproducible under a fixed clock.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/dates"
)

//go:embed layouts/*.gohtml
var layoutFS embed.FS

// BodyRenderer converts a Markdown body to HTML.
type BodyRenderer interface {
	Render(body []byte) (string, error)
}

// Site carries the site-wide values every page needs.
type Site struct {
	Title    string
	BaseURL  string
	Author   string
	Language string
	Profile  config.Profile
}

// SiteFromConfig extracts template settings from the build configuration.
func SiteFromConfig(cfg *config.Config) Site {
	return Site{
		Title:    cfg.Site.Title,
		BaseURL:  cfg.Site.BaseURL,
		Author:   cfg.Site.Author,
		Language: cfg.Site.Language,
		Profile:  cfg.Site.Profile,
	}
}

// Item holds the display fields of one post in a listing.
type Item struct {
	Title       string
	Slug        string
	URL         string
	Date        string
	DisplayDate string
	Description string
}

// Renderer executes the embedded layouts.
type Renderer struct {
	site Site
	year int
	md   BodyRenderer
	tpl  *template.Template
}

// New parses the embedded layouts. year is printed in the footer.
func New(site Site, md BodyRenderer, year int) (*Renderer, error) {
	tpl, err := template.New("site").Option("missingkey=error").ParseFS(layoutFS, "layouts/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}
	return &Renderer{site: site, year: year, md: md, tpl: tpl}, nil
}

type baseData struct {
	Site      Site
	PageTitle string
	Canonical string
	Nav       bool
	Year      int
	Content   template.HTML
}

// Base wraps a content fragment in the page skeleton. An empty title yields the
// bare site title; an empty canonical URL omits the canonical link.
func (r *Renderer) Base(title, canonical string, fragment template.HTML) (string, error) {
	pageTitle := r.site.Title
	if title != "" {
		pageTitle = title + " | " + r.site.Title
	}
	return r.execute("base", baseData{
		Site:      r.site,
		PageTitle: pageTitle,
		Canonical: canonical,
		Nav:       r.site.Profile.HasListingPages(),
		Year:      r.year,
		Content:   fragment,
	})
}

// NewItem builds the listing fields for a post.
func NewItem(doc *content.Document) (Item, error) {
	display, err := dates.Display(doc.Date)
	if err != nil {
		return Item{}, fmt.Errorf("post %s: %w", doc.Slug, err)
	}
	return Item{
		Title:       doc.Title,
		Slug:        doc.Slug,
		URL:         doc.URLPath(),
		Date:        doc.Date,
		DisplayDate: display,
		Description: doc.Description,
	}, nil
}

// Home renders the homepage for the configured profile. bio may be nil.
func (r *Renderer) Home(posts []*content.Document, bio *content.Document) (string, error) {
	items, err := itemsFor(posts)
	if err != nil {
		return "", err
	}

	data := struct {
		Items []Item
		Bio   template.HTML
	}{Items: items}

	name := "home-full"
	if r.site.Profile == config.ProfileBio {
		name = "home-bio"
		if bio != nil {
			if data.Bio, err = r.body(bio); err != nil {
				return "", err
			}
		}
	}

	fragment, err := r.fragment(name, data)
	if err != nil {
		return "", err
	}
	return r.Base("", "", fragment)
}

// Post renders a single post page with its Markdown body converted to HTML.
func (r *Renderer) Post(doc *content.Document) (string, error) {
	display, err := dates.Display(doc.Date)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", doc.Slug, err)
	}
	body, err := r.body(doc)
	if err != nil {
		return "", err
	}
	fragment, err := r.fragment("post", struct {
		Title       string
		DisplayDate string
		Body        template.HTML
	}{doc.Title, display, body})
	if err != nil {
		return "", err
	}
	return r.Base(doc.Title, r.site.BaseURL+doc.URLPath(), fragment)
}

// About renders a standalone page under /about/.
func (r *Renderer) About(doc *content.Document) (string, error) {
	body, err := r.body(doc)
	if err != nil {
		return "", err
	}
	fragment, err := r.fragment("about", struct {
		Title string
		Body  template.HTML
	}{doc.Title, body})
	if err != nil {
		return "", err
	}
	return r.Base(doc.Title, r.site.BaseURL+"/about/", fragment)
}

// PostsIndex renders every post as a summary under /posts/.
func (r *Renderer) PostsIndex(posts []*content.Document) (string, error) {
	items, err := itemsFor(posts)
	if err != nil {
		return "", err
	}
	fragment, err := r.fragment("posts-index", struct{ Items []Item }{items})
	if err != nil {
		return "", err
	}
	return r.Base("All posts", r.site.BaseURL+"/posts/", fragment)
}

// body converts a document's Markdown to trusted HTML. Content files are
// authored by the site owner, so raw HTML inside them is intentional.
func (r *Renderer) body(doc *content.Document) (template.HTML, error) {
	html, err := r.md.Render(doc.Body)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", doc.SourcePath, err)
	}
	// #nosec G203 -- markdown output of site-owned content.
	return template.HTML(html), nil
}

func (r *Renderer) fragment(name string, data any) (template.HTML, error) {
	out, err := r.execute(name, data)
	// #nosec G203 -- produced by html/template, already escaped.
	return template.HTML(out), err
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

func itemsFor(posts []*content.Document) ([]Item, error) {
	items := make([]Item, 0, len(posts))
	for _, p := range posts {
		item, err := NewItem(p)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
