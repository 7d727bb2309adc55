package evaluation

import (
	"math"
	"reflect"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

// --- MatchIngredients tests ---

func TestMatchIngredients_AllFound(t *testing.T) {
	expected := []string{"flour", "sugar", "eggs"}
	extracted := []string{"Eggs", "flour", "sugar"}
	matched, missing, unexpected := MatchIngredients(expected, extracted, nil)
	if matched != 3 {
		t.Errorf("expected 3 matches, got %d", matched)
	}
	if len(missing) != 0 || len(unexpected) != 0 {
		t.Errorf("expected no missing or unexpected, got %v / %v", missing, unexpected)
	}
}

func TestMatchIngredients_SuffixMatch(t *testing.T) {
	matched, missing, _ := MatchIngredients([]string{"flour"}, []string{"all-purpose flour"}, nil)
	if matched != 1 || len(missing) != 0 {
		t.Errorf("expected flour to match all-purpose flour, got matched=%d missing=%v", matched, missing)
	}
}

func TestMatchIngredients_NoPartialWordMatch(t *testing.T) {
	// "cornflour" is not "flour" with a leading word.
	matched, missing, unexpected := MatchIngredients([]string{"flour"}, []string{"cornflour"}, nil)
	if matched != 0 {
		t.Errorf("expected no match, got %d", matched)
	}
	if !reflect.DeepEqual(missing, []string{"flour"}) || !reflect.DeepEqual(unexpected, []string{"cornflour"}) {
		t.Errorf("unexpected split: missing=%v unexpected=%v", missing, unexpected)
	}
}

func TestMatchIngredients_EachExtractedUsedOnce(t *testing.T) {
	matched, missing, _ := MatchIngredients([]string{"sugar", "brown sugar"}, []string{"brown sugar"}, nil)
	// One extracted line can satisfy only one expected name.
	if matched != 1 {
		t.Errorf("expected 1 match, got %d", matched)
	}
	if len(missing) != 1 {
		t.Errorf("expected 1 missing, got %v", missing)
	}
}

func TestMatchIngredients_CustomCleaner(t *testing.T) {
	clean := func(name string) string {
		if name == "scallions" {
			return "green onion"
		}
		return name
	}
	matched, _, _ := MatchIngredients([]string{"green onion"}, []string{"scallions"}, clean)
	if matched != 1 {
		t.Errorf("expected cleaner to be applied, got %d matches", matched)
	}
}

// --- Recall and Precision tests ---

func TestRecall(t *testing.T) {
	if got := Recall(2, 4); !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5, got %f", got)
	}
	if got := Recall(0, 0); !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0 for no expected ingredients, got %f", got)
	}
}

func TestPrecision(t *testing.T) {
	if got := Precision(3, 4); !almostEqual(got, 0.75) {
		t.Errorf("expected 0.75, got %f", got)
	}
	if got := Precision(0, 0); !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0 for empty extraction, got %f", got)
	}
}
