package extraction

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/pkg/utils"
)

const amountPattern = `\d+\s+\d+/\d+|\d+/\d+|\d*\.\d+|\d+`

var (
	ingredientLineRe = regexp.MustCompile(`(?i)^(?:(` + amountPattern + `)(?:\s*(?:-|–|—|to|or)\s*(` + amountPattern + `))?\s*)?` +
		`(?:\(([^)]*)\)\s*)?` +
		`(?:(` + unitAlternation + `)\.?(?:\s+|$))?` +
		`(.*)$`)
	bulletPrefixRe = regexp.MustCompile(`^[\s•·▪◦‣●○■□✓✔*+–—-]+`)
	numberingRe    = regexp.MustCompile(`^\d+[.)]\s+`)
	ofPrefixRe     = regexp.MustCompile(`(?i)^of\s+`)
)

// Parser splits ingredient lines into amount, unit and name without any
// external calls.
type Parser struct {
	minIngredients int
}

// NewParser returns a parser that needs at least minIngredients recognized
// lines for a corpus to count as parsed.
func NewParser(minIngredients int) *Parser {
	if minIngredients <= 0 {
		minIngredients = 3
	}
	return &Parser{minIngredients: minIngredients}
}

// Parse parses every line of corpus and returns the recognized ingredients,
// or false when fewer than the minimum were recognized.
func (p *Parser) Parse(corpus string) ([]entities.Ingredient, bool) {
	ingredients := p.ParseLines(strings.Split(corpus, "\n"))
	if len(ingredients) < p.minIngredients {
		return nil, false
	}
	return ingredients, true
}

// ParseLines parses each line independently and drops unrecognized ones.
func (p *Parser) ParseLines(lines []string) []entities.Ingredient {
	var out []entities.Ingredient
	for _, line := range lines {
		if ing, ok := p.ParseLine(line); ok {
			out = append(out, ing)
		}
	}
	return out
}

// ParseLine splits one line into an Ingredient. Ranges take the upper bound,
// a missing amount defaults to 1 and a missing unit is left empty.
func (p *Parser) ParseLine(line string) (entities.Ingredient, bool) {
	s := normalizeLine(line)
	if s == "" || s == TruncationMarker || len(s) > maxLineChars || IsNoise(s) {
		return entities.Ingredient{}, false
	}

	s = bulletPrefixRe.ReplaceAllString(s, "")
	if loc := numberingRe.FindStringIndex(s); loc != nil && startsWithNumeral(s[loc[1]:]) {
		// "1. 2 cups flour"
		s = s[loc[1]:]
	}

	m := ingredientLineRe.FindStringSubmatch(s)
	if m == nil {
		return entities.Ingredient{}, false
	}
	amountText, upperText, unit, name := m[1], m[2], strings.TrimSpace(m[4]), strings.TrimSpace(m[5])

	if amountText == "" && unit != "" && !ofPrefixRe.MatchString(name) {
		// Without an amount a leading unit word is part of the name
		// ("large eggs", "whole milk") unless it reads "pinch of salt".
		name = strings.TrimSpace(unit + " " + name)
		unit = ""
	}

	name = ofPrefixRe.ReplaceAllString(name, "")
	if i := strings.Index(name, ","); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	name = strings.Trim(name, " .:;-")

	if unit == "" && amountText != "" {
		// "2 garlic cloves" names the unit after the ingredient.
		if words := strings.Fields(name); len(words) > 1 && trailingUnits[strings.ToLower(words[len(words)-1])] {
			unit = words[len(words)-1]
			name = strings.Join(words[:len(words)-1], " ")
		}
	}

	if !hasLetter(name) {
		return entities.Ingredient{}, false
	}
	if amountText == "" && unit == "" && !HasIngredientWord(name) {
		return entities.Ingredient{}, false
	}

	amount := 1.0
	if amountText != "" {
		amount = utils.ParseAmountOrDefault(amountText, 1)
	}
	if upperText != "" {
		amount = utils.ParseAmountOrDefault(upperText, amount)
	}

	return entities.Ingredient{
		Name:   name,
		Amount: amount,
		Unit:   strings.ToLower(unit),
	}, true
}

func startsWithNumeral(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
