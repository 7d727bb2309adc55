package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/pkg/utils"
)

// ErrMalformedResponse is returned when an LLM response cannot be decoded
// into the ingredient contract.
var ErrMalformedResponse = errors.New("malformed llm response")

const ingredientSystemPrompt = `You extract grocery ingredients from recipe text. Return ONLY valid JSON, no prose and no markdown, with this schema:
{
  "recipeName": string,
  "ingredients": [
    {"name": string, "amount": number, "unit": string, "category": string}
  ]
}
Rules:
- Extract every ingredient listed in the text. Do not add, merge or substitute ingredients.
- Keep every explicit amount exactly as written, converted to a decimal number (1/2 -> 0.5, 1 1/2 -> 1.5). Use 1 when no amount is given. For a range use the larger number.
- unit must be one of: cups, tablespoons, teaspoons, ounces, fluid ounces, pounds, grams, kilograms, milliliters, liters, quarts, pints, gallons, cloves, slices, cans, jars, bottles, packages, bags, bunches, heads, sticks, pinches, dashes, sprigs, stalks, leaves, or "" for items counted whole. Never use "pieces".
- name is what a shopper buys: remove preparation verbs (chopped, minced, sliced, diced), cooking states (cooked, melted, softened, toasted), processing words (freshly, finely, packed) and generic size words (small, medium, large), but keep modifiers that define the item (all-purpose flour, large eggs, ground beef).
- category must be exactly one of: Produce, Meat & Seafood, Deli, Bakery, Frozen, Pantry, Dairy, Beverages.`

// BuildPrompt renders the completion prompt for corpus. titleHint may be
// empty.
func BuildPrompt(corpus, titleHint string) string {
	var b strings.Builder
	b.WriteString(ingredientSystemPrompt)
	b.WriteString("\n\n")
	if titleHint != "" {
		fmt.Fprintf(&b, "Recipe title: %s\n", titleHint)
	}
	b.WriteString("Recipe text:\n")
	b.WriteString(corpus)
	b.WriteString("\n")
	return b.String()
}

// LLMRecipe is a decoded completion.
type LLMRecipe struct {
	Name        string
	Ingredients []entities.Ingredient
	Notes       []string
}

type llmPayload struct {
	RecipeName  string           `json:"recipeName"`
	Ingredients *[]llmIngredient `json:"ingredients"`
}

// llmIngredient uses pointers so a missing key can be told apart from a
// zero value; every key is required.
type llmIngredient struct {
	Name     *string     `json:"name"`
	Amount   *flexAmount `json:"amount"`
	Unit     *string     `json:"unit"`
	Category *string     `json:"category"`
}

// flexAmount accepts numbers, numeric strings and fraction strings.
type flexAmount float64

func (a *flexAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := utils.ParseAmount(s)
		if err != nil {
			return fmt.Errorf("amount %q is not a number", s)
		}
		*a = flexAmount(v)
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("amount %s: %w", data, err)
	}
	*a = flexAmount(v)
	return nil
}

var (
	codeFenceRe        = regexp.MustCompile("(?s)^\\s*```(?:json|JSON)?\\s*(.*?)\\s*```\\s*$")
	bareFractionAmtRe  = regexp.MustCompile(`("amount"\s*:\s*)(\d+\s+\d+/\d+|\d+/\d+)(\s*[,}])`)
	escapedSequenceRep = strings.NewReplacer(`\n`, "\n", `\"`, `"`, `\t`, "\t")
)

// DecodeResponse turns raw completion text into ingredients. Code fences and
// surrounding prose are removed and bare fractions in amount fields are
// converted. A missing key or an empty ingredient list is malformed; entries
// with an unknown category are dropped with a note.
func DecodeResponse(content string) (*LLMRecipe, error) {
	payload, err := boundJSON(content)
	if err != nil {
		return nil, err
	}

	parsed, err := decodePayload(payload)
	if err != nil {
		// Some providers return the JSON double-escaped.
		unescaped := escapedSequenceRep.Replace(payload)
		if unescaped == payload {
			return nil, err
		}
		var retryErr error
		if parsed, retryErr = decodePayload(unescaped); retryErr != nil {
			return nil, err
		}
	}

	if parsed.Ingredients == nil {
		return nil, fmt.Errorf("%w: missing \"ingredients\"", ErrMalformedResponse)
	}
	if len(*parsed.Ingredients) == 0 {
		return nil, fmt.Errorf("%w: no ingredients", ErrMalformedResponse)
	}

	recipe := &LLMRecipe{Name: strings.TrimSpace(parsed.RecipeName)}
	for i, raw := range *parsed.Ingredients {
		if key := raw.missingKey(); key != "" {
			return nil, fmt.Errorf("%w: ingredient %d missing %q", ErrMalformedResponse, i+1, key)
		}
		name := strings.TrimSpace(*raw.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: ingredient %d has an empty name", ErrMalformedResponse, i+1)
		}

		category, ok := entities.ParseCategory(*raw.Category)
		if !ok {
			recipe.Notes = append(recipe.Notes, fmt.Sprintf("dropped %q: unknown category %q", name, *raw.Category))
			continue
		}

		recipe.Ingredients = append(recipe.Ingredients, entities.Ingredient{
			Name:     name,
			Amount:   float64(*raw.Amount),
			Unit:     strings.TrimSpace(*raw.Unit),
			Category: category,
		})
	}
	return recipe, nil
}

// missingKey names the first absent or null key, or "" when all are set.
func (r llmIngredient) missingKey() string {
	switch {
	case r.Name == nil:
		return "name"
	case r.Amount == nil:
		return "amount"
	case r.Unit == nil:
		return "unit"
	case r.Category == nil:
		return "category"
	}
	return ""
}

// boundJSON strips code fences and returns the text between the first '{'
// and the last '}'.
func boundJSON(content string) (string, error) {
	cleaned := strings.TrimSpace(content)
	if m := codeFenceRe.FindStringSubmatch(cleaned); m != nil {
		cleaned = m[1]
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	return cleaned[start : end+1], nil
}

func decodePayload(payload string) (*llmPayload, error) {
	payload = bareFractionAmtRe.ReplaceAllStringFunc(payload, func(match string) string {
		m := bareFractionAmtRe.FindStringSubmatch(match)
		v, err := utils.ParseAmount(m[2])
		if err != nil {
			return match
		}
		return m[1] + strconv.FormatFloat(v, 'f', -1, 64) + m[3]
	})

	var parsed llmPayload
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &parsed, nil
}
