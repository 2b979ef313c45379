// Package feed builds the RSS 2.0 document for the post collection.
package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/dates"
)

// ContentNamespace is the RSS content module used for full post bodies.
const ContentNamespace = "http://purl.org/rss/1.0/modules/content/"

// BodyRenderer converts a Markdown body to HTML.
type BodyRenderer interface {
	Render(body []byte) (string, error)
}

// Channel describes the feed as a whole. Link is the site base URL without a
// trailing slash.
type Channel struct {
	Title       string
	Link        string
	Description string
	Language    string
}

type rss struct {
	XMLName      xml.Name   `xml:"rss"`
	Version      string     `xml:"version,attr"`
	XmlnsContent string     `xml:"xmlns:content,attr"`
	Channel      rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       cdata  `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Description cdata  `xml:"description"`
	Encoded     cdata  `xml:"content:encoded"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

// Build renders the feed. Items follow the order of posts, which callers pass
// already sorted newest first.
func Build(ch Channel, posts []*content.Document, md BodyRenderer) ([]byte, error) {
	doc := rss{
		Version:      "2.0",
		XmlnsContent: ContentNamespace,
		Channel: rssChannel{
			Title:       ch.Title,
			Link:        ch.Link,
			Description: ch.Description,
			Language:    ch.Language,
			Items:       make([]rssItem, 0, len(posts)),
		},
	}

	for _, p := range posts {
		item, err := newItem(ch.Link, p, md)
		if err != nil {
			return nil, err
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode feed: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func newItem(base string, p *content.Document, md BodyRenderer) (rssItem, error) {
	pubDate, err := dates.PubDate(p.Date)
	if err != nil {
		return rssItem{}, fmt.Errorf("post %s: %w", p.Slug, err)
	}
	html, err := md.Render(p.Body)
	if err != nil {
		return rssItem{}, fmt.Errorf("post %s: %w", p.Slug, err)
	}
	link := base + p.URLPath()
	return rssItem{
		Title:       cdata{p.Title},
		Link:        link,
		GUID:        link,
		PubDate:     pubDate,
		Description: cdata{p.Description},
		Encoded:     cdata{html},
	}, nil
}
