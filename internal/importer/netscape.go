// Package importer turns browser bookmark export files into bookmark rows.
// Two formats are understood: the Netscape bookmark-file HTML every browser
// exports, and the Homepage-style bookmarks.yaml layout. Both produce the
// same candidate stream, which the Importer submits in fixed-size batches.
package importer

import (
	"iter"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Candidate is one prospective bookmark from an import file. Nothing is
// validated here: malformed URLs pass through unchanged and are rejected,
// if at all, by the insert step.
type Candidate struct {
	URL       string
	Title     string
	Tags      []string
	CreatedAt time.Time
}

// ParseNetscape parses a browser bookmark export (the Netscape HTML
// format) and returns a lazy, restartable sequence of candidates: the
// document is parsed once, and each range over the sequence re-walks the
// tree.
//
// Per anchor: href is the URL, the text content the title (falling back to
// the href when empty), and a numeric ADD_DATE attribute (epoch seconds)
// the creation time, defaulting to now().
func ParseNetscape(data []byte, now func() time.Time) (iter.Seq[Candidate], error) {
	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}

	return func(yield func(Candidate) bool) {
		walkAnchors(doc, func(n *html.Node) bool {
			c, ok := anchorCandidate(n, now)
			if !ok {
				return true
			}
			return yield(c)
		})
	}, nil
}

// walkAnchors visits every <a> element; visit returning false stops the walk.
func walkAnchors(n *html.Node, visit func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && n.Data == "a" {
		if !visit(n) {
			return false
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walkAnchors(c, visit) {
			return false
		}
	}
	return true
}

func anchorCandidate(n *html.Node, now func() time.Time) (Candidate, bool) {
	var href, addDate string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "href":
			href = attr.Val
		case "add_date":
			addDate = attr.Val
		}
	}
	if href == "" {
		return Candidate{}, false
	}

	title := strings.TrimSpace(anchorText(n))
	if title == "" {
		title = href
	}

	created := now()
	if addDate != "" {
		if epoch, err := strconv.ParseInt(addDate, 10, 64); err == nil {
			created = time.Unix(epoch, 0)
		}
	}

	return Candidate{URL: href, Title: title, CreatedAt: created}, true
}

// anchorText concatenates the text descendants of an anchor.
func anchorText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
