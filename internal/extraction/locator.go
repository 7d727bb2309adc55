package extraction

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
)

// Corpus is the condensed set of candidate ingredient lines handed to the
// parsers.
type Corpus struct {
	Method    entities.ExtractionMethod
	Lines     []string
	Truncated bool
}

// Text joins the corpus lines, ending with TruncationMarker when cut.
func (c Corpus) Text() string {
	text := strings.Join(c.Lines, "\n")
	if c.Truncated {
		text += "\n" + TruncationMarker
	}
	return text
}

// Strategy is one way of locating ingredient lines in a page.
type Strategy struct {
	Method entities.ExtractionMethod
	Locate func(page *Page) []string
}

// LocatorOptions tunes the heuristic locator.
type LocatorOptions struct {
	MinLines int // lines a strategy must yield to win
	MaxGap   int // consecutive non-matching lines that close a section
	MaxChars int // corpus character budget
}

// DefaultLocatorOptions mirrors the pipeline defaults in config.
func DefaultLocatorOptions() LocatorOptions {
	return LocatorOptions{MinLines: 2, MaxGap: 40, MaxChars: 50000}
}

// Locator runs strategies in priority order and returns the first corpus with
// enough lines.
type Locator struct {
	opts       LocatorOptions
	strategies []Strategy
}

// NewLocator builds a locator with the StructuralList, PositionalSection and
// AggressiveScan strategies, in that order.
func NewLocator(opts LocatorOptions) *Locator {
	if opts.MinLines <= 0 {
		opts.MinLines = 2
	}
	if opts.MaxGap <= 0 {
		opts.MaxGap = 40
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = 50000
	}
	return &Locator{
		opts: opts,
		strategies: []Strategy{
			{Method: entities.MethodStructuralList, Locate: StructuralList},
			{Method: entities.MethodPositionalSection, Locate: func(p *Page) []string { return PositionalSection(p, opts.MaxGap) }},
			{Method: entities.MethodAggressiveScan, Locate: AggressiveScan},
		},
	}
}

// Strategies returns the strategy list in priority order.
func (l *Locator) Strategies() []Strategy {
	return l.strategies
}

// Locate returns the corpus of the first strategy yielding at least MinLines
// lines, or false when none does.
func (l *Locator) Locate(page *Page) (Corpus, bool) {
	for _, s := range l.strategies {
		lines := s.Locate(page)
		if len(lines) < l.opts.MinLines {
			continue
		}
		return truncate(Corpus{Method: s.Method, Lines: lines}, l.opts.MaxChars), true
	}
	return Corpus{}, false
}

func truncate(c Corpus, maxChars int) Corpus {
	total := 0
	for i, line := range c.Lines {
		total += len(line) + 1
		if total > maxChars {
			if i == 0 {
				c.Lines = []string{strings.ToValidUTF8(line[:maxChars], "")}
			} else {
				c.Lines = c.Lines[:i]
			}
			c.Truncated = true
			return c
		}
	}
	return c
}

// StructuralList prefers markup lists. Lists where at least half the items
// carry a measurement are taken whole, in document order; otherwise the list
// with the most measurement items wins.
func StructuralList(page *Page) []string {
	if page.Doc == nil {
		return nil
	}

	type list struct {
		items    []string
		measured int
	}
	var lists []list

	page.Doc.Find("ul, ol").Each(func(_ int, sel *goquery.Selection) {
		var l list
		sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			text := normalizeLine(li.Clone().Find("ul, ol").Remove().End().Text())
			if text == "" || IsNoise(text) {
				return
			}
			l.items = append(l.items, text)
			if len(text) <= maxLineChars && HasMeasurement(text) {
				l.measured++
			}
		})
		if l.measured > 0 {
			lists = append(lists, l)
		}
	})

	if len(lists) == 0 {
		return nil
	}

	var out []string
	for _, l := range lists {
		if l.measured*2 >= len(l.items) {
			out = append(out, l.items...)
		}
	}
	if len(out) > 0 {
		return out
	}

	best := lists[0]
	for _, l := range lists[1:] {
		if l.measured > best.measured {
			best = l
		}
	}
	return best.items
}

// PositionalSection scans lines for an ingredient section opened by a marker
// and closed by an exit marker or by maxGap consecutive non-matching lines.
// Several sections ("For the dough:", "For the filling:") are concatenated.
func PositionalSection(page *Page, maxGap int) []string {
	var out []string
	inSection := false
	gap := 0

	for _, line := range page.Lines {
		text := normalizeLine(line.Text)
		if IsNoise(text) {
			if inSection {
				gap++
				if gap >= maxGap {
					inSection = false
				}
			}
			continue
		}

		if isSectionEntry(line.Raw, text) {
			inSection = true
			gap = 0
			// "Ingredients: 2 cups flour" carries a line of its own.
			if i := strings.Index(text, ":"); i >= 0 {
				if rest := strings.TrimSpace(text[i+1:]); LooksLikeIngredient(rest) {
					out = append(out, rest)
				}
			}
			continue
		}

		if !inSection {
			continue
		}

		if isSectionExit(text) {
			inSection = false
			continue
		}

		if LooksLikeIngredient(text) {
			out = append(out, text)
			gap = 0
			continue
		}

		gap++
		if gap >= maxGap {
			inSection = false
		}
	}
	return out
}

// AggressiveScan keeps every line of the page that looks like an ingredient.
func AggressiveScan(page *Page) []string {
	var out []string
	for _, line := range page.Lines {
		if text := normalizeLine(line.Text); LooksLikeIngredient(text) {
			out = append(out, text)
		}
	}
	return out
}
