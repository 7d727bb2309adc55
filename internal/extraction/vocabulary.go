package extraction

import (
	"regexp"
	"sort"
	"strings"
)

// TruncationMarker is appended to a corpus cut at the character budget.
const TruncationMarker = "[... content truncated ...]"

// maxLineChars bounds what a single ingredient line can look like; longer
// lines are prose.
const maxLineChars = 200

// unitWords is the unit vocabulary recognized in ingredient lines, including
// size and count words.
var unitWords = []string{
	"cups", "cup", "c",
	"tablespoons", "tablespoon", "tbsps", "tbsp", "tbs", "tbl",
	"teaspoons", "teaspoon", "tsps", "tsp",
	"fluid ounces", "fluid ounce", "fl. oz", "fl oz",
	"ounces", "ounce", "oz",
	"pounds", "pound", "lbs", "lb",
	"kilograms", "kilogram", "kgs", "kg",
	"milligrams", "milligram", "mg",
	"grams", "gram", "g",
	"milliliters", "milliliter", "millilitres", "millilitre", "ml",
	"liters", "liter", "litres", "litre", "l",
	"quarts", "quart", "qt",
	"pints", "pint", "pt",
	"gallons", "gallon", "gal",
	"cloves", "clove",
	"slices", "slice",
	"pieces", "piece", "pcs",
	"cans", "can", "tins", "tin",
	"jars", "jar",
	"bottles", "bottle",
	"packages", "package", "pkgs", "pkg", "packets", "packet",
	"bags", "bag",
	"bunches", "bunch",
	"heads", "head",
	"sticks", "stick",
	"pinches", "pinch",
	"dashes", "dash",
	"sprigs", "sprig",
	"stalks", "stalk",
	"leaves", "leaf",
	"fillets", "fillet",
	"handfuls", "handful",
	"sheets", "sheet",
	"extra-large", "extra large", "small", "medium", "large", "jumbo", "whole",
}

// trailingUnits are count units that may follow the ingredient name
// ("2 celery stalks"). Leaves is left out so "bay leaves" stays whole.
var trailingUnits = map[string]bool{
	"cloves": true, "clove": true,
	"stalks": true, "stalk": true,
	"sprigs": true, "sprig": true,
	"slices": true, "slice": true,
	"sticks": true, "stick": true,
	"fillets": true, "fillet": true,
	"heads": true, "head": true,
}

// ingredientWords are common ingredients used to recognize lines that carry a
// numeral but no unit ("2 eggs") or no amount at all ("salt and pepper").
var ingredientWords = []string{
	"flour", "sugar", "salt", "pepper", "butter", "oil", "egg", "milk", "cream",
	"cheese", "water", "garlic", "onion", "shallot", "tomato", "potato", "carrot",
	"celery", "lemon", "lime", "orange", "apple", "banana", "chicken", "beef",
	"pork", "bacon", "sausage", "shrimp", "salmon", "fish", "rice", "pasta",
	"noodle", "bread", "yeast", "vanilla", "cinnamon", "cumin", "paprika",
	"oregano", "basil", "parsley", "cilantro", "thyme", "rosemary", "ginger",
	"honey", "vinegar", "soy sauce", "broth", "stock", "wine", "yogurt",
	"mushroom", "spinach", "zucchini", "avocado", "bean", "chickpea", "lentil",
	"corn", "pea", "walnut", "almond", "pecan", "chocolate", "cocoa", "oat",
	"baking soda", "baking powder", "cornstarch", "mustard", "mayonnaise",
	"scallion", "jalapeno", "bell pepper", "tortilla",
}

var (
	// Denylist: markup, styling and script fragments. Checked before any
	// positive signal.
	cssDeclarationRe = regexp.MustCompile(`(?i)\b(?:display|color|background(?:-[a-z]+)?|margin(?:-[a-z]+)?|padding(?:-[a-z]+)?|font(?:-[a-z]+)?|(?:max-|min-)?(?:width|height)|border(?:-[a-z]+)*|position|flex(?:-[a-z]+)?|grid(?:-[a-z]+)*|align-[a-z]+|justify-[a-z]+|text-[a-z]+|line-height|letter-spacing|overflow(?:-[a-z]+)?|opacity|transform|transition|z-index|box-shadow|box-sizing|cursor|float|visibility|white-space|vertical-align|list-style(?:-[a-z]+)?|content|outline|animation)\s*:\s*[^;{}]*;`)
	cssSelectorBlockRe = regexp.MustCompile(`(?:^|[\s,>])(?:[a-zA-Z][\w-]*)?(?:[.#][a-zA-Z_][\w-]*)+(?:\s*[\w.#:>-]+)*\s*\{`)
	cssAtRuleRe        = regexp.MustCompile(`(?i)@(?:media|import|font-face|keyframes|supports|charset)\b`)
	scriptKeywordRe    = regexp.MustCompile(`(?i)(?:\bfunction\s*\(|=>\s*\{|\bvar\s+\w+\s*=|\bconst\s+\w+\s*=|\blet\s+\w+\s*=|\bwindow\.|\bdocument\.|\bgtag\s*\(|\bga\s*\(|googletag|datalayer|adsbygoogle|\bjquery\b|\$\(|webpack|__next_data__|\bwp-(?:block|content|json)\b|!important|\bcookie(?:s)?\s+(?:policy|consent|settings)|\bnewsletter\b|\bsubscribe\b)`)

	sectionMarkerRe = regexp.MustCompile(`(?i)\b(?:ingredients?|ingredient list|you'?ll need|you will need|for the)\b`)
	exitMarkerRe    = regexp.MustCompile(`(?i)\b(?:directions|instructions|method|steps|preparation|nutrition(?:al)?|calories)\b`)
	bulletGlyphRe   = regexp.MustCompile(`[•·▪◦‣●○■□✓✔]|^\s*[-*+]\s`)
	listStartTagRe  = regexp.MustCompile(`(?i)<(?:ul|ol|li)\b`)
	headingTagRe    = regexp.MustCompile(`(?i)<h[1-6]\b`)
	numeralRe       = regexp.MustCompile(`\d|[¼½¾⅐⅑⅒⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞]`)

	unitAlternation = alternation(unitWords)

	measurementRe = regexp.MustCompile(`(?i)(?:\d+(?:[./]\d+)?|[¼½¾⅓⅔⅛⅜⅝⅞])\s*(?:(?:-|–|to)\s*\d+(?:[./]\d+)?\s*)?(?:\([^)]*\)\s*)?(?:` + unitAlternation + `)(?:\b|\s|$)`)
	ingredientRe  = regexp.MustCompile(`(?i)\b(?:` + alternation(ingredientWords) + `)(?:s|es)?\b`)
)

// alternation builds a regexp alternation of words, longest first so multi-word
// entries win over their prefixes.
func alternation(words []string) string {
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

// IsNoise reports whether a line carries markup, styling or script content.
// A noisy line is never recipe content, whatever else it contains.
func IsNoise(line string) bool {
	return cssDeclarationRe.MatchString(line) ||
		cssSelectorBlockRe.MatchString(line) ||
		cssAtRuleRe.MatchString(line) ||
		scriptKeywordRe.MatchString(line)
}

// HasMeasurement reports whether line contains a numeral followed by a unit,
// size or count word.
func HasMeasurement(line string) bool {
	return measurementRe.MatchString(line)
}

// HasIngredientWord reports whether line mentions a known ingredient.
func HasIngredientWord(line string) bool {
	return ingredientRe.MatchString(line)
}

// LooksLikeIngredient reports whether a line should be kept as a candidate
// ingredient line.
func LooksLikeIngredient(line string) bool {
	if line == "" || len(line) > maxLineChars || IsNoise(line) {
		return false
	}
	if HasMeasurement(line) {
		return true
	}
	return HasIngredientWord(line) && numeralRe.MatchString(line)
}

// isSectionEntry reports whether a line opens an ingredient section: a
// section marker together with a colon, bullet glyph, list or heading tag, or
// a line that is little more than the marker itself.
func isSectionEntry(raw, text string) bool {
	if !sectionMarkerRe.MatchString(text) {
		return false
	}
	if strings.Contains(text, ":") || bulletGlyphRe.MatchString(text) {
		return true
	}
	if listStartTagRe.MatchString(raw) || headingTagRe.MatchString(raw) {
		return true
	}
	return len(text) <= 30
}

// isSectionExit reports whether a line closes an ingredient section.
func isSectionExit(text string) bool {
	return exitMarkerRe.MatchString(text) && !HasMeasurement(text)
}
