package extraction

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/zatekoja/grocerylist/backend/pkg/utils"
)

// Line is one block-level line of a page: the raw markup fragment and its
// visible text.
type Line struct {
	Raw  string
	Text string
}

// Page is a parsed recipe page, built once per pipeline run and shared by
// every extraction strategy.
type Page struct {
	Doc    *goquery.Document
	JSONLD []string
	Title  string
	Lines  []Line
}

var (
	spaceRe         = regexp.MustCompile(`\s+`)
	blockBoundaryRe = regexp.MustCompile(`(?i)(<(?:br|p|div|li|ul|ol|h[1-6]|tr|td|dt|dd|section|article|header|footer|table|blockquote)\b[^>]*>|</(?:p|div|li|ul|ol|h[1-6]|tr|section|article|table|blockquote)>)`)

	strictPolicy = bluemonday.StrictPolicy()
)

func norm(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// StripTags removes markup from fragment and returns its visible text with
// entities decoded and whitespace collapsed.
func StripTags(fragment string) string {
	return norm(html.UnescapeString(strictPolicy.Sanitize(fragment)))
}

// NewPage parses raw HTML. JSON-LD blocks and the title are captured before
// script, style and other non-content elements are dropped.
func NewPage(raw []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &Page{Doc: doc}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			page.JSONLD = append(page.JSONLD, text)
		}
	})

	page.Title = meta(doc, "og:title")
	if page.Title == "" {
		page.Title = norm(doc.Find("title").First().Text())
	}

	doc.Find("script, style, noscript, template, iframe, svg, head").Remove()

	body, err := doc.Find("body").Html()
	if err != nil || strings.TrimSpace(body) == "" {
		body, err = doc.Html()
		if err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
	}
	page.Lines = splitLines(body)

	return page, nil
}

// NewTextPage wraps plain text (one candidate per line) as a Page without
// markup.
func NewTextPage(text string) *Page {
	page := &Page{}
	for _, l := range strings.Split(text, "\n") {
		if t := norm(l); t != "" {
			page.Lines = append(page.Lines, Line{Raw: l, Text: t})
		}
	}
	return page
}

// Text returns the visible text of the page, one line per block element.
func (p *Page) Text() string {
	var b strings.Builder
	for _, l := range p.Lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func splitLines(markup string) []Line {
	// Source newlines only separate lines when there is no block markup.
	if blockBoundaryRe.MatchString(markup) {
		markup = strings.NewReplacer("\r", " ", "\n", " ").Replace(markup)
		markup = blockBoundaryRe.ReplaceAllString(markup, "\n$1")
	}
	var lines []Line
	for _, raw := range strings.Split(markup, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		text := StripTags(raw)
		if text == "" {
			continue
		}
		lines = append(lines, Line{Raw: raw, Text: text})
	}
	return lines
}

func meta(doc *goquery.Document, key string) string {
	if v, ok := doc.Find(fmt.Sprintf(`meta[property="%s"]`, key)).Attr("content"); ok {
		return norm(v)
	}
	if v, ok := doc.Find(fmt.Sprintf(`meta[name="%s"]`, key)).Attr("content"); ok {
		return norm(v)
	}
	return ""
}

// normalizeLine folds unicode fractions and collapses whitespace.
func normalizeLine(s string) string {
	return norm(utils.NormalizeFractions(s))
}
