package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
)

// NormalizationConfig holds the vocabulary used to canonicalize ingredients.
// Any field left empty in a loaded file keeps the built-in value.
type NormalizationConfig struct {
	UnitAliases       map[string]string   `json:"unitAliases"`
	SingularUnits     map[string]string   `json:"singularUnits"`
	CountUnits        []string            `json:"countUnits"`
	SizeWords         []string            `json:"sizeWords"`
	SizeDefiningItems []string            `json:"sizeDefiningItems"`
	PrepWords         []string            `json:"prepWords"`
	PrepPhrases       []string            `json:"prepPhrases"`
	TruncatePhrases   []string            `json:"truncatePhrases"`
	CategoryKeywords  map[string][]string `json:"categoryKeywords"`
}

// IngredientNormalizer canonicalizes ingredient names, units and amounts.
// Normalize is idempotent.
type IngredientNormalizer struct {
	config *NormalizationConfig

	unitAliases  map[string]string
	unitSpells   map[string][]string
	countUnits   map[string]bool
	sizeWords    map[string]bool
	sizeDefining map[string]bool

	prepWordRe    *regexp.Regexp
	prepPhraseRe  *regexp.Regexp
	truncateRe    *regexp.Regexp
	categoryRules []categoryRule
}

type categoryRule struct {
	keyword  string
	category entities.Category
	re       *regexp.Regexp
}

var (
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	connectorRe     = regexp.MustCompile(`^(?:(?:and|or|&|of)\s+)+|(?:\s+(?:and|or|&))+$`)
)

// NewIngredientNormalizer builds a normalizer from cfg. A nil cfg uses the
// built-in vocabulary.
func NewIngredientNormalizer(cfg *NormalizationConfig) *IngredientNormalizer {
	if cfg == nil {
		cfg = DefaultNormalizationConfig()
	}

	n := &IngredientNormalizer{
		config:       cfg,
		unitAliases:  make(map[string]string, len(cfg.UnitAliases)),
		unitSpells:   make(map[string][]string),
		countUnits:   toSet(cfg.CountUnits),
		sizeWords:    toSet(cfg.SizeWords),
		sizeDefining: toSet(cfg.SizeDefiningItems),
	}

	for alias, canonical := range cfg.UnitAliases {
		n.unitAliases[strings.ToLower(alias)] = canonical
		n.unitAliases[strings.ToLower(canonical)] = canonical
	}
	for alias, canonical := range n.unitAliases {
		n.unitSpells[canonical] = append(n.unitSpells[canonical], alias)
	}
	for _, spells := range n.unitSpells {
		sort.Strings(spells)
	}

	n.prepWordRe = wordAlternation(cfg.PrepWords)
	n.prepPhraseRe = wordAlternation(cfg.PrepPhrases)
	if len(cfg.TruncatePhrases) > 0 {
		n.truncateRe = regexp.MustCompile(`(?i)\s*\b(?:` + quoteAll(cfg.TruncatePhrases) + `)\b.*$`)
	}

	for cat, keywords := range cfg.CategoryKeywords {
		category, ok := entities.ParseCategory(cat)
		if !ok {
			continue
		}
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			n.categoryRules = append(n.categoryRules, categoryRule{
				keyword:  kw,
				category: category,
				re:       regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `(?:s|es)?\b`),
			})
		}
	}
	// Longest keyword wins so "peanut butter" beats "butter".
	sort.Slice(n.categoryRules, func(i, j int) bool {
		if len(n.categoryRules[i].keyword) != len(n.categoryRules[j].keyword) {
			return len(n.categoryRules[i].keyword) > len(n.categoryRules[j].keyword)
		}
		return n.categoryRules[i].keyword < n.categoryRules[j].keyword
	})

	return n
}

// NewIngredientNormalizerFromFile loads a JSON vocabulary from configPath and
// layers it over the built-in one.
func NewIngredientNormalizerFromFile(configPath string) (*IngredientNormalizer, error) {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded NormalizationConfig
	if err := json.Unmarshal(configFile, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return NewIngredientNormalizer(mergeConfig(DefaultNormalizationConfig(), &loaded)), nil
}

func mergeConfig(base, over *NormalizationConfig) *NormalizationConfig {
	for k, v := range over.UnitAliases {
		base.UnitAliases[k] = v
	}
	for k, v := range over.SingularUnits {
		base.SingularUnits[k] = v
	}
	for k, v := range over.CategoryKeywords {
		base.CategoryKeywords[k] = append(base.CategoryKeywords[k], v...)
	}
	base.CountUnits = append(base.CountUnits, over.CountUnits...)
	base.SizeWords = append(base.SizeWords, over.SizeWords...)
	base.SizeDefiningItems = append(base.SizeDefiningItems, over.SizeDefiningItems...)
	base.PrepWords = append(base.PrepWords, over.PrepWords...)
	base.PrepPhrases = append(base.PrepPhrases, over.PrepPhrases...)
	base.TruncatePhrases = append(base.TruncatePhrases, over.TruncatePhrases...)
	return base
}

// Normalize canonicalizes unit, name and amount, and fills in a category
// when the ingredient has none.
func (n *IngredientNormalizer) Normalize(ing entities.Ingredient) entities.Ingredient {
	out := ing

	rawUnit := strings.ToLower(strings.TrimSpace(ing.Unit))
	if n.sizeWords[rawUnit] {
		// "3 large eggs" parses with "large" as the unit.
		out.Name = rawUnit + " " + ing.Name
		out.Unit = ""
	} else {
		out.Unit = n.NormalizeUnit(ing.Unit)
	}

	out.Name = n.CleanName(out.Name)

	if out.Amount < 0 {
		out.Amount = 0
	}
	out.Amount = RoundAmount(out.Amount)

	if !out.Category.IsValid() {
		out.Category = n.CategoryFor(out.Name)
	}
	return out
}

// NormalizeAll applies Normalize to every ingredient.
func (n *IngredientNormalizer) NormalizeAll(ings []entities.Ingredient) []entities.Ingredient {
	out := make([]entities.Ingredient, 0, len(ings))
	for _, ing := range ings {
		out = append(out, n.Normalize(ing))
	}
	return out
}

// NormalizeUnit maps a unit alias to its canonical plural form. Count units
// become "". Unknown units are returned lower-cased.
func (n *IngredientNormalizer) NormalizeUnit(unit string) string {
	u := strings.TrimSpace(unit)
	if u == "T" || u == "T." {
		return "tablespoons"
	}
	u = strings.TrimSuffix(strings.ToLower(u), ".")
	if u == "" || n.countUnits[u] {
		return ""
	}
	if canonical, ok := n.unitAliases[u]; ok {
		return canonical
	}
	return u
}

// UnitVariants returns every spelling that normalizes to the canonical unit,
// the unit itself included.
func (n *IngredientNormalizer) UnitVariants(unit string) []string {
	spells, ok := n.unitSpells[unit]
	if !ok {
		return []string{unit}
	}
	return append([]string(nil), spells...)
}

// IsKnownUnit reports whether unit resolves through the alias table.
func (n *IngredientNormalizer) IsKnownUnit(unit string) bool {
	u := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(unit)), ".")
	if unit == "T" || n.countUnits[u] || n.sizeWords[u] {
		return true
	}
	_, ok := n.unitAliases[u]
	return ok
}

// CleanName strips preparation words, parentheticals and trailing clauses
// so the name is what a shopper would look for. Cleaning repeats until the
// name is stable, so CleanName(CleanName(x)) == CleanName(x).
func (n *IngredientNormalizer) CleanName(name string) string {
	s := name
	for i := 0; i < maxCleanPasses; i++ {
		next := n.cleanOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

// maxCleanPasses bounds CleanName; each pass only removes text, so it
// settles within a few passes.
const maxCleanPasses = 8

func (n *IngredientNormalizer) cleanOnce(name string) string {
	s := strings.ToLower(NormalizeFractions(name))
	s = parentheticalRe.ReplaceAllString(s, "")

	if i := strings.IndexAny(s, ",;"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, " - "); i >= 0 {
		s = s[:i]
	}
	if n.truncateRe != nil {
		s = n.truncateRe.ReplaceAllString(s, "")
	}
	if n.prepPhraseRe != nil {
		s = n.prepPhraseRe.ReplaceAllString(s, " ")
	}
	if n.prepWordRe != nil {
		s = n.prepWordRe.ReplaceAllString(s, " ")
	}

	s = strings.Trim(whitespaceRe.ReplaceAllString(s, " "), " .:*-")
	s = strings.TrimSpace(connectorRe.ReplaceAllString(s, ""))
	s = n.dropSizeWord(s)
	return strings.Trim(s, " .:*-")
}

// dropSizeWord removes a leading size adjective unless the head noun is sold
// by size ("large eggs" keeps it, "large onion" does not).
func (n *IngredientNormalizer) dropSizeWord(s string) string {
	words := strings.Fields(s)
	if len(words) < 2 {
		return s
	}
	skip := 0
	if words[0] == "extra" && len(words) > 2 && n.sizeWords["extra "+words[1]] {
		skip = 2
	} else if n.sizeWords[words[0]] {
		skip = 1
	}
	if skip == 0 {
		return s
	}
	head := words[len(words)-1]
	if n.sizeDefining[head] || n.sizeDefining[strings.TrimSuffix(head, "s")] {
		return s
	}
	return strings.Join(words[skip:], " ")
}

// CategoryFor guesses the aisle for name. Unmatched names go to Pantry.
func (n *IngredientNormalizer) CategoryFor(name string) entities.Category {
	lower := strings.ToLower(name)
	for _, rule := range n.categoryRules {
		if rule.re.MatchString(lower) {
			return rule.category
		}
	}
	return entities.CategoryPantry
}

// DisplayUnit returns the singular unit for amounts up to 1, plural otherwise.
func (n *IngredientNormalizer) DisplayUnit(unit string, amount float64) string {
	if amount > 1 {
		return unit
	}
	if singular, ok := n.config.SingularUnits[unit]; ok {
		return singular
	}
	return unit
}

// Format renders an ingredient as a shopping-list line, e.g. "1½ cups flour".
func (n *IngredientNormalizer) Format(ing entities.Ingredient) string {
	parts := make([]string, 0, 3)
	if ing.Amount > 0 {
		parts = append(parts, FormatAmount(ing.Amount))
	}
	if unit := n.DisplayUnit(ing.Unit, ing.Amount); unit != "" {
		parts = append(parts, unit)
	}
	parts = append(parts, ing.Name)
	return strings.Join(parts, " ")
}

// Merge combines ingredients with the same unit whose names are equal or
// within one edit of each other (names of six or more characters), summing
// their amounts. Order of first appearance is kept.
func (n *IngredientNormalizer) Merge(ings []entities.Ingredient) []entities.Ingredient {
	merged := make([]entities.Ingredient, 0, len(ings))
	for _, ing := range ings {
		idx := -1
		for i := range merged {
			if sameItem(merged[i], ing) {
				idx = i
				break
			}
		}
		if idx < 0 {
			merged = append(merged, ing)
			continue
		}
		merged[idx].Amount = RoundAmount(merged[idx].Amount + ing.Amount)
		merged[idx].Checked = merged[idx].Checked && ing.Checked
	}
	return merged
}

func sameItem(a, b entities.Ingredient) bool {
	if a.Unit != b.Unit || a.Removed != b.Removed {
		return false
	}
	if a.Name == b.Name {
		return true
	}
	if len(a.Name) < 6 || len(b.Name) < 6 {
		return false
	}
	return levenshtein.ComputeDistance(a.Name, b.Name) <= 1
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(strings.TrimSpace(item))] = true
	}
	return set
}

func quoteAll(items []string) string {
	// Longest first so multi-word entries match before their prefixes.
	sorted := append([]string(nil), items...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, 0, len(sorted))
	for _, item := range sorted {
		quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(item)))
	}
	return strings.Join(quoted, "|")
}

func wordAlternation(items []string) *regexp.Regexp {
	if len(items) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(?:` + quoteAll(items) + `)\b`)
}
