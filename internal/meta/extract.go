// Package meta implements the page-metadata scraper behind the
// /api/fetch-meta endpoint. Extraction never fails: every network, HTTP or
// parse problem collapses into a metadata record with nil fields.
package meta

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/hmoreau/linkshelf/internal/domain"
)

// head tag priority, per field:
//
//	title:       og:title > <title>
//	description: og:description > <meta name="description">
//	favicon:     rel="icon" > rel="shortcut icon" > /favicon.ico
type headTags struct {
	ogTitle       string
	docTitle      string
	ogDescription string
	metaDesc      string
	iconHref      string
	shortcutHref  string
}

// parseHead reads an HTML document and extracts the head tags above.
// base is the page URL, used to resolve relative favicon hrefs and to
// build the /favicon.ico fallback.
func parseHead(r io.Reader, base *url.URL) (domain.Metadata, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return domain.Metadata{}, err
	}

	var tags headTags
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if tags.docTitle == "" && n.FirstChild != nil {
					tags.docTitle = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				collectMeta(n, &tags)
			case "link":
				collectLink(n, &tags)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return tags.toMetadata(base), nil
}

func collectMeta(n *html.Node, tags *headTags) {
	var property, name, content string
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "property":
			property = strings.ToLower(attr.Val)
		case "name":
			name = strings.ToLower(attr.Val)
		case "content":
			content = attr.Val
		}
	}
	if content == "" {
		return
	}
	switch {
	case property == "og:title" && tags.ogTitle == "":
		tags.ogTitle = content
	case property == "og:description" && tags.ogDescription == "":
		tags.ogDescription = content
	case name == "description" && tags.metaDesc == "":
		tags.metaDesc = content
	}
}

func collectLink(n *html.Node, tags *headTags) {
	var rel, href string
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "rel":
			rel = strings.ToLower(strings.TrimSpace(attr.Val))
		case "href":
			href = attr.Val
		}
	}
	if href == "" {
		return
	}
	switch rel {
	case "icon":
		if tags.iconHref == "" {
			tags.iconHref = href
		}
	case "shortcut icon":
		if tags.shortcutHref == "" {
			tags.shortcutHref = href
		}
	}
}

func (t headTags) toMetadata(base *url.URL) domain.Metadata {
	var meta domain.Metadata

	switch {
	case t.ogTitle != "":
		meta.Title = &t.ogTitle
	case t.docTitle != "":
		meta.Title = &t.docTitle
	}

	switch {
	case t.ogDescription != "":
		meta.Description = &t.ogDescription
	case t.metaDesc != "":
		meta.Description = &t.metaDesc
	}

	href := t.iconHref
	if href == "" {
		href = t.shortcutHref
	}
	if favicon := resolveFavicon(base, href); favicon != "" {
		meta.FaviconURL = &favicon
	}

	return meta
}

// resolveFavicon resolves a (possibly relative) icon href against the page
// URL. With no icon link at all it falls back to same-origin /favicon.ico.
func resolveFavicon(base *url.URL, href string) string {
	if base == nil {
		return ""
	}
	if href == "" {
		fallback := *base
		fallback.Path = "/favicon.ico"
		fallback.RawQuery = ""
		fallback.Fragment = ""
		return fallback.String()
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
