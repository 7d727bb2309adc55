package evaluation

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
)

// HTMLExtractor runs the pipeline on a saved page.
type HTMLExtractor interface {
	ExtractHTML(ctx context.Context, sourceURL string, html []byte) entities.ParseResult
}

// Runner runs evaluation across a set of golden recipes.
type Runner struct {
	extractor HTMLExtractor
	clean     NameMatcher
}

// NewRunner creates a runner. clean canonicalizes names before matching;
// nil lower-cases them.
func NewRunner(extractor HTMLExtractor, clean NameMatcher) *Runner {
	return &Runner{extractor: extractor, clean: clean}
}

// Run extracts every golden recipe in order. A fixture that cannot be read
// aborts the run.
func (r *Runner) Run(ctx context.Context, recipes []GoldenRecipe) (*EvalSummary, error) {
	summary := &EvalSummary{
		TotalRecipes: len(recipes),
		ByDifficulty: make(map[Difficulty]*DifficultySummary),
		ByMethod:     make(map[entities.ExtractionMethod]int),
		Results:      make([]EvalResult, 0, len(recipes)),
	}
	logger := observability.LoggerFromContext(ctx)

	for _, gr := range recipes {
		html, err := os.ReadFile(gr.HTMLFile)
		if err != nil {
			return nil, fmt.Errorf("recipe %q: failed to read fixture: %w", gr.ID, err)
		}

		source := gr.URL
		if source == "" {
			source = "file://" + gr.HTMLFile
		}

		start := time.Now()
		parsed := r.extractor.ExtractHTML(ctx, source, html)
		result := r.score(gr, parsed, time.Since(start))

		logger.Debug().
			Str("recipe", gr.ID).
			Bool("correct", result.Correct).
			Float64("recall", result.Recall).
			Float64("precision", result.Precision).
			Msg("golden recipe evaluated")

		r.updateSummary(summary, result, len(gr.ExpectedIngredients) > 0)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

func (r *Runner) score(gr GoldenRecipe, parsed entities.ParseResult, latency time.Duration) EvalResult {
	result := EvalResult{
		RecipeID:   gr.ID,
		Difficulty: gr.Difficulty,
		Success:    parsed.Success,
		ErrorType:  parsed.ErrorType,
		Method:     parsed.Method,
		Warnings:   parsed.Warnings,
		Latency:    latency,
	}
	result.MethodMatch = gr.ExpectedMethod == "" || gr.ExpectedMethod == parsed.Method

	if gr.ExpectedError != "" {
		result.Correct = !parsed.Success && parsed.ErrorType == gr.ExpectedError
		return result
	}
	if !parsed.Success {
		result.Missing = gr.ExpectedIngredients
		return result
	}

	extracted := make([]string, len(parsed.Recipe.Ingredients))
	for i, ing := range parsed.Recipe.Ingredients {
		extracted[i] = ing.Name
	}
	matched, missing, unexpected := MatchIngredients(gr.ExpectedIngredients, extracted, r.clean)

	result.Recall = Recall(matched, len(gr.ExpectedIngredients))
	result.Precision = Precision(matched, len(extracted))
	result.Missing = missing
	result.Unexpected = unexpected
	result.Correct = len(missing) == 0
	return result
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult, scored bool) {
	s.Results = append(s.Results, res)
	s.AvgLatency += res.Latency
	if res.Correct {
		s.Correct++
	}
	if res.Success {
		s.ByMethod[res.Method]++
	}

	if _, ok := s.ByDifficulty[res.Difficulty]; !ok {
		s.ByDifficulty[res.Difficulty] = &DifficultySummary{}
	}
	ds := s.ByDifficulty[res.Difficulty]
	ds.Count++
	if res.Correct {
		ds.Correct++
	}

	if !scored {
		return
	}
	s.Scored++
	s.AvgRecall += res.Recall
	s.AvgPrecision += res.Precision
	ds.scored++
	ds.AvgRecall += res.Recall
	ds.AvgPrecision += res.Precision
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalRecipes > 0 {
		s.AvgLatency /= time.Duration(s.TotalRecipes)
	}
	if s.Scored > 0 {
		n := float64(s.Scored)
		s.AvgRecall /= n
		s.AvgPrecision /= n
	}

	for _, ds := range s.ByDifficulty {
		if ds.scored > 0 {
			n := float64(ds.scored)
			ds.AvgRecall /= n
			ds.AvgPrecision /= n
		}
	}
}
