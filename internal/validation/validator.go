package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
)

const (
	minNameLength = 2
	maxAmount     = 1000.0
)

var (
	nonIngredientRe = regexp.MustCompile(`(?i)\b(?:ingredients?|recipes?|steps?|directions?|instructions?|servings?|serves|yields?|prep time|cook time|total time|minutes?|nutrition|calories|print|comments?|reviews?|advertisement|jump to)\b`)
	stapleRe        = regexp.MustCompile(`(?i)\b(?:salt|pepper|oil|flour|sugar|eggs?|milk|butter)\b`)

	// Substrings of every unit the normalizer can produce.
	unitWhitelist = []string{
		"cup", "tablespoon", "teaspoon", "ounce", "pound", "gram", "liter",
		"quart", "pint", "gallon", "clove", "slice", "can", "jar", "bottle",
		"package", "bag", "bunch", "head", "stick", "pinch", "dash", "sprig",
		"stalk", "leaf", "leaves", "fillet", "box", "container", "loaf",
		"loaves", "sheet", "handful",
	}
)

// Rejection pairs an ingredient with the reason it failed validation.
type Rejection struct {
	Ingredient entities.Ingredient
	Reason     string
}

// Assessment is the validator's verdict on a parsed ingredient list.
type Assessment struct {
	Valid      []entities.Ingredient
	Rejected   []Rejection
	Confidence int
}

// Validator rejects malformed ingredients and scores the plausibility of a
// whole list.
type Validator struct{}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks a single ingredient.
func (v *Validator) Validate(ing entities.Ingredient) entities.ValidationOutcome {
	name := strings.TrimSpace(ing.Name)
	switch {
	case len([]rune(name)) < minNameLength:
		return entities.ValidationOutcome{Reason: fmt.Sprintf("name %q is too short", name)}
	case nonIngredientRe.MatchString(name):
		return entities.ValidationOutcome{Reason: fmt.Sprintf("name %q is not an ingredient", name)}
	case ing.Amount <= 0:
		return entities.ValidationOutcome{Reason: fmt.Sprintf("amount %v is not positive", ing.Amount)}
	case ing.Amount > maxAmount:
		return entities.ValidationOutcome{Reason: fmt.Sprintf("amount %v exceeds %v", ing.Amount, maxAmount)}
	case !knownUnit(ing.Unit):
		return entities.ValidationOutcome{Reason: fmt.Sprintf("unit %q is not recognized", ing.Unit)}
	}
	return entities.ValidationOutcome{IsValid: true}
}

// Assess validates every ingredient and computes the confidence score:
// 100, minus 10 per invalid ingredient, minus 20 under 3 ingredients, minus
// 30 over 50, plus 10 for 5 to 20, plus 5 when two or more staples appear,
// clamped to [0, 100]. Count rules use the submitted count.
func (v *Validator) Assess(ings []entities.Ingredient) Assessment {
	var a Assessment
	for _, ing := range ings {
		outcome := v.Validate(ing)
		if outcome.IsValid {
			a.Valid = append(a.Valid, ing)
			continue
		}
		a.Rejected = append(a.Rejected, Rejection{Ingredient: ing, Reason: outcome.Reason})
	}

	score := 100 - 10*len(a.Rejected)

	count := len(ings)
	switch {
	case count < 3:
		score -= 20
	case count > 50:
		score -= 30
	}
	if count >= 5 && count <= 20 {
		score += 10
	}
	if countStaples(a.Valid) >= 2 {
		score += 5
	}

	a.Confidence = clamp(score, 0, 100)
	return a
}

func knownUnit(unit string) bool {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		return true
	}
	for _, w := range unitWhitelist {
		if strings.Contains(u, w) {
			return true
		}
	}
	return false
}

func countStaples(ings []entities.Ingredient) int {
	seen := make(map[string]bool)
	for _, ing := range ings {
		for _, m := range stapleRe.FindAllString(ing.Name, -1) {
			seen[strings.TrimSuffix(strings.ToLower(m), "s")] = true
		}
	}
	return len(seen)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
