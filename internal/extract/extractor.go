// Package extract isolates the job links of one region section from a
// listings page. The section is delimited by headings: it starts at the
// first h3/h4 whose text contains the region marker and ends at the
// next h3/h4 or the end of the document.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ganesh070723/job-change-detector/internal/models"
)

// ErrRegionNotFound is returned when no heading matches the region
// marker. Callers treat it as "empty section", not a failure.
var ErrRegionNotFound = errors.New("extract: region heading not found")

// KeyStrategy selects how a job key is derived from a link.
type KeyStrategy string

const (
	// KeyTitleOnly uses the bare link text.
	KeyTitleOnly KeyStrategy = "title"
	// KeyLocationTitle prefixes the link text with the surrounding
	// location text when present.
	KeyLocationTitle KeyStrategy = "location-title"
)

// keySeparator joins location and title in a derived key.
const keySeparator = " – "

// headingSelector covers the heading levels that delimit region sections.
const headingSelector = "h3, h4"

// Extractor pulls the region's job links out of a parsed page.
type Extractor struct {
	marker   string
	strategy KeyStrategy
}

// New creates an Extractor for the given region marker and key strategy.
func New(marker string, strategy KeyStrategy) *Extractor {
	return &Extractor{marker: marker, strategy: strategy}
}

// Extract parses the page body and returns the job mapping for the
// region section. Relative hrefs are resolved against pageURL. A page
// without the region heading yields an empty mapping and
// ErrRegionNotFound. If two links derive the same key, the last one wins.
func (e *Extractor) Extract(body []byte, pageURL string) (models.Jobs, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return models.Jobs{}, fmt.Errorf("extract: parse html: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return models.Jobs{}, fmt.Errorf("extract: parse page url: %w", err)
	}

	var heading *html.Node
	doc.Find(headingSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(normalizeText(s.Text()), e.marker) {
			heading = s.Get(0)
			return false
		}
		return true
	})
	if heading == nil {
		return models.Jobs{}, ErrRegionNotFound
	}

	jobs := models.Jobs{}
	stopped := false
	for n := nextAfterSubtree(heading); n != nil && !stopped; n = nextNode(n) {
		if isBoundaryHeading(n) {
			stopped = true
			continue
		}
		if !isLink(n) {
			continue
		}
		key, href := e.jobFromLink(n, base)
		if key == "" || href == "" {
			continue
		}
		jobs[key] = href
	}
	return jobs, nil
}

// jobFromLink derives the (key, absolute URL) pair for one anchor.
func (e *Extractor) jobFromLink(n *html.Node, base *url.URL) (string, string) {
	title := normalizeText(nodeText(n))
	if title == "" {
		return "", ""
	}

	href := strings.TrimSpace(attr(n, "href"))
	if ref, err := url.Parse(href); err == nil {
		href = base.ResolveReference(ref).String()
	}

	if e.strategy == KeyTitleOnly {
		return title, href
	}

	key := title
	if n.Parent != nil {
		parentText := normalizeText(nodeText(n.Parent))
		location := strings.TrimSpace(strings.ReplaceAll(parentText, title, ""))
		if location != "" {
			key = location + keySeparator + title
		}
	}
	return key, href
}

// nextNode returns the document-order successor of n.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	return nextAfterSubtree(n)
}

// nextAfterSubtree returns the first document-order node after n's
// entire subtree.
func nextAfterSubtree(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// isBoundaryHeading reports whether n terminates the region section.
func isBoundaryHeading(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.Data == "h3" || n.Data == "h4")
}

// isLink reports whether n is an anchor carrying an href.
func isLink(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "a" && attr(n, "href") != ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// nodeText concatenates the text descendants of n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// normalizeText collapses all whitespace runs to single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
