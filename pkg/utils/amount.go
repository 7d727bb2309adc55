package utils

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrUnparsableAmount is returned when text is not a number, fraction or
// mixed number.
var ErrUnparsableAmount = errors.New("unparsable amount")

var (
	mixedNumberRe    = regexp.MustCompile(`^(\d+)\s+(\d+)\s*/\s*(\d+)$`)
	simpleFractionRe = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)
	decimalRe        = regexp.MustCompile(`^(?:\d+\.?\d*|\.\d+)$`)

	// digit immediately followed by a vulgar fraction, e.g. "1½"
	attachedVulgarRe = regexp.MustCompile(`(\d)([¼½¾⅐⅑⅒⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞])`)
)

// NormalizeFractions rewrites unicode vulgar fractions as ASCII fractions
// ("1½" → "1 1/2", "¾" → "3/4") and applies NFKC folding to the rest of s.
func NormalizeFractions(s string) string {
	if s == "" {
		return s
	}
	s = attachedVulgarRe.ReplaceAllString(s, "$1 $2")
	s = norm.NFKC.String(s)
	return strings.ReplaceAll(s, "⁄", "/")
}

// ParseAmount converts amount text to a decimal. Rules apply in order:
// mixed number "W N/D", simple fraction "N/D", integer or decimal literal.
// Anything else returns ErrUnparsableAmount.
func ParseAmount(text string) (float64, error) {
	s := strings.TrimSpace(NormalizeFractions(text))

	if m := mixedNumberRe.FindStringSubmatch(s); m != nil {
		whole, _ := strconv.Atoi(m[1])
		frac, err := fraction(m[2], m[3])
		if err != nil {
			return 0, fmt.Errorf("%w: %q", err, text)
		}
		return float64(whole) + frac, nil
	}

	if m := simpleFractionRe.FindStringSubmatch(s); m != nil {
		frac, err := fraction(m[1], m[2])
		if err != nil {
			return 0, fmt.Errorf("%w: %q", err, text)
		}
		return frac, nil
	}

	if decimalRe.MatchString(s) {
		v, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return v, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnparsableAmount, text)
}

// ParseAmountOrDefault returns ParseAmount(text), or def when text cannot be
// parsed.
func ParseAmountOrDefault(text string, def float64) float64 {
	v, err := ParseAmount(text)
	if err != nil {
		return def
	}
	return v
}

func fraction(num, den string) (float64, error) {
	n, _ := strconv.Atoi(num)
	d, _ := strconv.Atoi(den)
	if d == 0 {
		return 0, ErrUnparsableAmount
	}
	return float64(n) / float64(d), nil
}

// RoundAmount rounds to two decimal places.
func RoundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}

type displayFraction struct {
	value float64
	glyph string
}

var displayFractions = []displayFraction{
	{1.0 / 8, "⅛"},
	{1.0 / 4, "¼"},
	{1.0 / 3, "⅓"},
	{3.0 / 8, "⅜"},
	{1.0 / 2, "½"},
	{5.0 / 8, "⅝"},
	{2.0 / 3, "⅔"},
	{3.0 / 4, "¾"},
	{7.0 / 8, "⅞"},
}

const fractionTolerance = 0.1

// FormatAmount renders an amount for display: whole numbers as integers,
// common fractions as unicode glyphs ("1½"), anything else with one decimal.
func FormatAmount(v float64) string {
	if math.Abs(v-math.Round(v)) < 0.01 {
		return strconv.Itoa(int(math.Round(v)))
	}

	whole := math.Floor(v)
	frac := v - whole

	best := displayFractions[0]
	bestDiff := math.Abs(frac - best.value)
	for _, f := range displayFractions[1:] {
		if d := math.Abs(frac - f.value); d < bestDiff {
			best, bestDiff = f, d
		}
	}

	if bestDiff > fractionTolerance {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	if whole == 0 {
		return best.glyph
	}
	return strconv.Itoa(int(whole)) + best.glyph
}
