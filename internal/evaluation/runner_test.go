package evaluation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
)

// fixedExtractor returns a canned result per fixture body.
type fixedExtractor map[string]entities.ParseResult

func (f fixedExtractor) ExtractHTML(_ context.Context, sourceURL string, html []byte) entities.ParseResult {
	result := f[string(html)]
	result.Recipe.SourceURL = sourceURL
	return result
}

func parsed(method entities.ExtractionMethod, names ...string) entities.ParseResult {
	ings := make([]entities.Ingredient, len(names))
	for i, name := range names {
		ings[i] = entities.Ingredient{Name: name}
	}
	return entities.ParseResult{Success: true, Method: method, Recipe: entities.Recipe{Ingredients: ings, Parsed: true}}
}

func fixture(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	recipes := []GoldenRecipe{
		{
			ID: "cake", HTMLFile: fixture(t, dir, "cake.html", "cake"), Difficulty: DifficultyEasy,
			ExpectedIngredients: []string{"flour", "sugar"}, ExpectedMethod: entities.MethodStructuredData,
		},
		{
			ID: "stew", HTMLFile: fixture(t, dir, "stew.html", "stew"), Difficulty: DifficultyHard,
			ExpectedIngredients: []string{"beef", "carrot", "onion", "stock"},
		},
		{
			ID: "blog", HTMLFile: fixture(t, dir, "blog.html", "blog"), Difficulty: DifficultyHard,
			ExpectedError: "NO_CONTENT_FOUND",
		},
	}
	extractor := fixedExtractor{
		"cake": parsed(entities.MethodStructuredData, "all-purpose flour", "Sugar"),
		"stew": parsed(entities.MethodLLM, "beef", "carrot", "salt"),
		"blog": entities.FailedResult("", "NO_CONTENT_FOUND", "no ingredients"),
	}

	summary, err := NewRunner(extractor, nil).Run(context.Background(), recipes)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRecipes)
	assert.Equal(t, 2, summary.Scored)
	assert.Equal(t, 2, summary.Correct)
	assert.InDelta(t, 2.0/3, summary.Accuracy(), 1e-9)
	// (1 + 0.5) / 2 and (1 + 2/3) / 2
	assert.InDelta(t, 0.75, summary.AvgRecall, 1e-9)
	assert.InDelta(t, 5.0/6, summary.AvgPrecision, 1e-9)
	assert.Equal(t, 1, summary.ByMethod[entities.MethodStructuredData])
	assert.Equal(t, 1, summary.ByMethod[entities.MethodLLM])

	require.Len(t, summary.Results, 3)
	cake := summary.Results[0]
	assert.True(t, cake.Correct)
	assert.True(t, cake.MethodMatch)

	stew := summary.Results[1]
	assert.False(t, stew.Correct)
	assert.Equal(t, []string{"onion", "stock"}, stew.Missing)
	assert.Equal(t, []string{"salt"}, stew.Unexpected)

	hard := summary.ByDifficulty[DifficultyHard]
	require.NotNil(t, hard)
	assert.Equal(t, 2, hard.Count)
	assert.Equal(t, 1, hard.Correct)
	assert.InDelta(t, 0.5, hard.AvgRecall, 1e-9)
}

func TestRunner_WrongErrorTypeIsIncorrect(t *testing.T) {
	dir := t.TempDir()
	recipes := []GoldenRecipe{{ID: "blog", HTMLFile: fixture(t, dir, "blog.html", "blog"), ExpectedError: "NO_CONTENT_FOUND", Difficulty: DifficultyHard}}
	extractor := fixedExtractor{"blog": entities.FailedResult("", "PARSE_FAILED", "unparseable")}

	summary, err := NewRunner(extractor, nil).Run(context.Background(), recipes)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Correct)
	assert.Equal(t, 0, summary.Scored)
}

func TestRunner_MissingFixture(t *testing.T) {
	recipes := []GoldenRecipe{{ID: "gone", HTMLFile: filepath.Join(t.TempDir(), "gone.html"), ExpectedIngredients: []string{"flour"}, Difficulty: DifficultyEasy}}

	_, err := NewRunner(fixedExtractor{}, nil).Run(context.Background(), recipes)
	assert.ErrorContains(t, err, `recipe "gone"`)
}

func TestGuardrails_Violations(t *testing.T) {
	summary := &EvalSummary{TotalRecipes: 4, Correct: 2, AvgRecall: 0.9, AvgPrecision: 0.6}

	g := NewGuardrails(GuardrailConfig{MinAccuracy: 0.75, MinRecall: 0.8, MinPrecision: 0.7})
	violations := g.Violations(summary)

	require.Len(t, violations, 2)
	assert.Contains(t, violations[0], "accuracy 0.50")
	assert.Contains(t, violations[1], "precision 0.60")
}

func TestGuardrails_ZeroDisablesChecks(t *testing.T) {
	assert.Empty(t, NewGuardrails(GuardrailConfig{}).Violations(&EvalSummary{}))
}
