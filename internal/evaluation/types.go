package evaluation

import (
	"time"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
)

// Difficulty labels how hard a fixture page is to parse.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"   // JSON-LD or a clean list
	DifficultyMedium Difficulty = "medium" // ingredients in prose blocks
	DifficultyHard   Difficulty = "hard"   // blog chatter around the recipe
)

// IsValid checks if the difficulty is one of the defined constants.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// GoldenRecipe is a saved recipe page with the ingredients a correct
// extraction must produce.
type GoldenRecipe struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	// HTMLFile is relative to the golden file's directory.
	HTMLFile            string                    `json:"html_file"`
	ExpectedIngredients []string                  `json:"expected_ingredients"`
	ExpectedMethod      entities.ExtractionMethod `json:"expected_method,omitempty"`
	// ExpectedError marks a page that must be rejected with this error type.
	ExpectedError string     `json:"expected_error,omitempty"`
	Difficulty    Difficulty `json:"difficulty"`
}

// EvalResult holds the evaluation outcome for a single recipe.
type EvalResult struct {
	RecipeID    string                    `json:"recipe_id"`
	Difficulty  Difficulty                `json:"difficulty"`
	Success     bool                      `json:"success"`
	ErrorType   string                    `json:"error_type,omitempty"`
	Method      entities.ExtractionMethod `json:"method,omitempty"`
	MethodMatch bool                      `json:"method_match"`
	// Correct is true when a success has full recall, or when an expected
	// rejection happened with the expected error type.
	Correct    bool          `json:"correct"`
	Recall     float64       `json:"recall"`
	Precision  float64       `json:"precision"`
	Missing    []string      `json:"missing,omitempty"`
	Unexpected []string      `json:"unexpected,omitempty"`
	Warnings   []string      `json:"warnings,omitempty"`
	Latency    time.Duration `json:"latency"`
}

// EvalSummary holds aggregate metrics across all golden recipes.
type EvalSummary struct {
	TotalRecipes int                               `json:"total_recipes"`
	Correct      int                               `json:"correct"`
	Scored       int                               `json:"scored"` // recipes with expected ingredients
	AvgRecall    float64                           `json:"avg_recall"`
	AvgPrecision float64                           `json:"avg_precision"`
	AvgLatency   time.Duration                     `json:"avg_latency"`
	ByDifficulty map[Difficulty]*DifficultySummary `json:"by_difficulty"`
	ByMethod     map[entities.ExtractionMethod]int `json:"by_method"`
	Results      []EvalResult                      `json:"results"`
}

// DifficultySummary holds metrics grouped by difficulty.
type DifficultySummary struct {
	Count        int     `json:"count"`
	Correct      int     `json:"correct"`
	AvgRecall    float64 `json:"avg_recall"`
	AvgPrecision float64 `json:"avg_precision"`

	scored int
}

// Accuracy returns the share of recipes evaluated as correct.
func (s *EvalSummary) Accuracy() float64 {
	if s.TotalRecipes == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.TotalRecipes)
}
