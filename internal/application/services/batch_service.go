package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/grocerylist/backend/pkg/config"
	"github.com/zatekoja/grocerylist/backend/pkg/utils"
)

// DefaultBatchAcceptRate is the success rate at or above which a batch is
// acceptable.
const DefaultBatchAcceptRate = 0.5

// BatchService extracts several recipes concurrently and merges their
// ingredients into one shopping list.
type BatchService struct {
	extractor      RecipeExtractor
	normalizer     *utils.IngredientNormalizer
	maxConcurrency int
	acceptRate     float64
}

// NewBatchService creates a batch service. maxConcurrency <= 0 runs every URL
// at once; acceptRate <= 0 uses DefaultBatchAcceptRate.
func NewBatchService(extractor RecipeExtractor, normalizer *utils.IngredientNormalizer, maxConcurrency int, acceptRate float64) *BatchService {
	if normalizer == nil {
		normalizer = utils.NewIngredientNormalizer(nil)
	}
	if acceptRate <= 0 {
		acceptRate = DefaultBatchAcceptRate
	}
	return &BatchService{
		extractor:      extractor,
		normalizer:     normalizer,
		maxConcurrency: maxConcurrency,
		acceptRate:     acceptRate,
	}
}

// NewBatchServiceFromConfig reads the concurrency limit and accept rate from
// the pipeline config block.
func NewBatchServiceFromConfig(extractor RecipeExtractor, normalizer *utils.IngredientNormalizer, cfg config.PipelineConfig) *BatchService {
	return NewBatchService(extractor, normalizer, cfg.MaxConcurrency, cfg.BatchAcceptRate)
}

// Process runs every URL through the extractor. A failing URL never cancels
// the others. Items are reported in completion order; Index gives each
// item's position in urls.
func (s *BatchService) Process(ctx context.Context, urls []string) entities.BatchResult {
	return s.ProcessEach(ctx, urls, nil)
}

// ProcessEach is Process with onItem called for every item as it completes.
// Calls are serialized, never concurrent.
func (s *BatchService) ProcessEach(ctx context.Context, urls []string, onItem func(entities.BatchItem)) entities.BatchResult {
	ctx, span := observability.StartSpan(ctx, "batch.process")
	defer span.End()

	start := time.Now()
	result := entities.BatchResult{
		ID:          uuid.NewString(),
		Items:       make([]entities.BatchItem, 0, len(urls)),
		Ingredients: []entities.Ingredient{},
	}
	logger := observability.LoggerFromContext(ctx).With().Str("batch_id", result.ID).Logger()

	items := make(chan entities.BatchItem, len(urls))
	collected := make(chan struct{})

	// The collector is the only writer of result.
	go func() {
		defer close(collected)
		for item := range items {
			if onItem != nil {
				onItem(item)
			}
			result.Items = append(result.Items, item)
			if !item.Result.Success {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", item.URL, item.Result.Error))
				continue
			}
			result.Succeeded++
			result.Ingredients = s.normalizer.Merge(append(result.Ingredients, item.Result.Recipe.Ingredients...))
		}
	}()

	var g errgroup.Group
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}
	for i, u := range urls {
		g.Go(func() error {
			items <- entities.BatchItem{Index: i, URL: u, Result: s.extractor.Extract(ctx, u)}
			return nil
		})
	}
	_ = g.Wait()
	close(items)
	<-collected

	result.SuccessRate = entities.ComputeSuccessRate(result.Succeeded, len(urls))
	result.Acceptable = len(urls) > 0 && result.SuccessRate >= s.acceptRate

	logger.Info().
		Int("urls", len(urls)).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Float64("success_rate", result.SuccessRate).
		Bool("acceptable", result.Acceptable).
		Dur("elapsed", time.Since(start)).
		Msg("batch processed")

	return result
}
