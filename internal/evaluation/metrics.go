package evaluation

import "strings"

// NameMatcher reduces an ingredient name to the form compared during
// matching.
type NameMatcher func(name string) string

// MatchIngredients pairs each expected name with at most one extracted name.
// Names match when equal after clean, or when one is the other with extra
// leading words ("all-purpose flour" matches "flour").
func MatchIngredients(expected, extracted []string, clean NameMatcher) (matched int, missing, unexpected []string) {
	if clean == nil {
		clean = strings.ToLower
	}

	used := make([]bool, len(extracted))
	cleaned := make([]string, len(extracted))
	for i, name := range extracted {
		cleaned[i] = clean(name)
	}

	for _, want := range expected {
		target := clean(want)
		found := -1
		// Exact matches win over suffix matches.
		for i, got := range cleaned {
			if !used[i] && got == target {
				found = i
				break
			}
		}
		if found < 0 {
			for i, got := range cleaned {
				if !used[i] && suffixMatch(got, target) {
					found = i
					break
				}
			}
		}
		if found < 0 {
			missing = append(missing, want)
			continue
		}
		used[found] = true
		matched++
	}

	for i, name := range extracted {
		if !used[i] {
			unexpected = append(unexpected, name)
		}
	}
	return matched, missing, unexpected
}

func suffixMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.HasSuffix(a, " "+b) || strings.HasSuffix(b, " "+a)
}

// Recall is the fraction of expected ingredients that were extracted.
// Returns 0.0 if expected is empty.
func Recall(matched, expected int) float64 {
	if expected == 0 {
		return 0.0
	}
	return float64(matched) / float64(expected)
}

// Precision is the fraction of extracted ingredients that were expected.
// Returns 0.0 if nothing was extracted.
func Precision(matched, extracted int) float64 {
	if extracted == 0 {
		return 0.0
	}
	return float64(matched) / float64(extracted)
}
