package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/pkg/utils"
)

// proximityWindow is how many characters on either side of a name occurrence
// are searched for a numeral.
const proximityWindow = 30

var (
	digitRe       = regexp.MustCompile(`\d`)
	sourceSpaceRe = regexp.MustCompile(`\s+`)
)

var asciiFractions = []struct {
	value float64
	text  string
}{
	{1.0 / 8, "1/8"}, {1.0 / 4, "1/4"}, {1.0 / 3, "1/3"}, {3.0 / 8, "3/8"},
	{1.0 / 2, "1/2"}, {5.0 / 8, "5/8"}, {2.0 / 3, "2/3"}, {3.0 / 4, "3/4"},
	{7.0 / 8, "7/8"},
}

// Verifier checks that parsed ingredients actually appear in the page they
// were extracted from.
type Verifier struct {
	normalizer *utils.IngredientNormalizer
}

// NewVerifier creates a verifier. The normalizer supplies unit spellings; nil
// uses the built-in vocabulary.
func NewVerifier(normalizer *utils.IngredientNormalizer) *Verifier {
	if normalizer == nil {
		normalizer = utils.NewIngredientNormalizer(nil)
	}
	return &Verifier{normalizer: normalizer}
}

// Verify matches each ingredient against source, trying an exact phrase,
// then the name near a numeral, then a fuzzy word match.
func (v *Verifier) Verify(ings []entities.Ingredient, source string) entities.VerificationOutcome {
	text := prepareSource(source)

	out := entities.VerificationOutcome{
		VerifiedIngredients:   []entities.Ingredient{},
		UnverifiedIngredients: []entities.Ingredient{},
	}
	for _, ing := range ings {
		if v.matches(ing, text) {
			out.VerifiedIngredients = append(out.VerifiedIngredients, ing)
			continue
		}
		out.UnverifiedIngredients = append(out.UnverifiedIngredients, ing)
		out.Notes = append(out.Notes, fmt.Sprintf("%q not found in source", ing.Name))
	}

	out.VerificationScore = VerificationScore(len(out.VerifiedIngredients), len(ings))
	return out
}

// VerificationScore is verified*100/total with integer division, 0 when
// total is 0.
func VerificationScore(verified, total int) int {
	if total == 0 {
		return 0
	}
	return verified * 100 / total
}

func (v *Verifier) matches(ing entities.Ingredient, text string) bool {
	name := strings.ToLower(strings.TrimSpace(ing.Name))
	if name == "" {
		return false
	}
	return v.exactMatch(ing, name, text) || proximityMatch(name, text) || fuzzyMatch(name, text)
}

func (v *Verifier) exactMatch(ing entities.Ingredient, name, text string) bool {
	units := []string{""}
	if ing.Unit != "" {
		units = v.unitSpellings(ing.Unit)
	}

	for _, amount := range amountSpellings(ing.Amount) {
		for _, unit := range units {
			for _, phrase := range orderings(amount, unit, name) {
				if strings.Contains(text, phrase) {
					return true
				}
			}
		}
	}
	return false
}

func (v *Verifier) unitSpellings(unit string) []string {
	canonical := v.normalizer.NormalizeUnit(unit)
	spells := v.normalizer.UnitVariants(canonical)
	if singular := v.normalizer.DisplayUnit(canonical, 1); singular != "" {
		spells = append(spells, singular)
	}
	if u := strings.ToLower(unit); u != canonical {
		spells = append(spells, u)
	}
	return spells
}

func orderings(amount, unit, name string) []string {
	if unit == "" {
		return []string{
			amount + " " + name,
			name + " " + amount,
			name + ", " + amount,
		}
	}
	return []string{
		amount + " " + unit + " " + name,
		amount + " " + unit + " of " + name,
		amount + " " + unit + ". " + name,
		amount + unit + " " + name,
		name + " " + amount + " " + unit,
		name + ", " + amount + " " + unit,
		name + ": " + amount + " " + unit,
	}
}

// amountSpellings returns the ways an amount is commonly written in a page
// once unicode fractions are folded to ASCII.
func amountSpellings(amount float64) []string {
	spells := []string{strconv.FormatFloat(amount, 'f', -1, 64)}

	whole, frac := math.Modf(amount)
	for _, f := range asciiFractions {
		if math.Abs(frac-f.value) > 0.02 {
			continue
		}
		if whole == 0 {
			spells = append(spells, f.text)
		} else {
			w := strconv.Itoa(int(whole))
			spells = append(spells, w+" "+f.text, w+"-"+f.text)
		}
		break
	}
	return spells
}

func proximityMatch(name, text string) bool {
	for start := 0; start < len(text); {
		i := strings.Index(text[start:], name)
		if i < 0 {
			return false
		}
		i += start

		lo := max(0, i-proximityWindow)
		hi := min(len(text), i+len(name)+proximityWindow)
		if digitRe.MatchString(text[lo:i]) || digitRe.MatchString(text[i+len(name):hi]) {
			return true
		}
		start = i + len(name)
	}
	return false
}

func fuzzyMatch(name, text string) bool {
	var significant, found int
	for _, word := range strings.Fields(name) {
		word = strings.Trim(word, ",.;:()")
		if len([]rune(word)) <= 2 {
			continue
		}
		significant++
		if strings.Contains(text, word) {
			found++
		}
	}
	return significant > 0 && found*2 >= significant
}

func prepareSource(source string) string {
	s := strings.ToLower(utils.NormalizeFractions(source))
	return sourceSpaceRe.ReplaceAllString(s, " ")
}
