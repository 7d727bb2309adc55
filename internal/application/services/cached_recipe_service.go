package services

import (
	"context"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/internal/domain/providers"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/grocerylist/backend/pkg/utils"
)

// CachedRecipeService wraps a RecipeExtractor with a parse result cache.
// Only successful results are stored.
type CachedRecipeService struct {
	extractor RecipeExtractor
	cache     providers.ParseResultCache
	metrics   *observability.Metrics
}

// NewCachedRecipeService creates the caching decorator.
func NewCachedRecipeService(extractor RecipeExtractor, cache providers.ParseResultCache) *CachedRecipeService {
	return &CachedRecipeService{
		extractor: extractor,
		cache:     cache,
	}
}

// SetMetrics enables cache hit and miss counters.
func (s *CachedRecipeService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

var _ RecipeExtractor = (*CachedRecipeService)(nil)

// Extract returns the cached result for rawURL when present, otherwise runs
// the wrapped extractor and caches a success.
func (s *CachedRecipeService) Extract(ctx context.Context, rawURL string) entities.ParseResult {
	key := utils.CacheKey(rawURL)
	logger := observability.LoggerFromContext(ctx)

	if cached, ok := s.cache.Get(ctx, key); ok {
		observability.RecordCacheHit(ctx, s.metrics)
		logger.Debug().Str("url", rawURL).Str("key", key).Msg("parse cache hit")
		cached.FromCache = true
		return cached
	}
	observability.RecordCacheMiss(ctx, s.metrics)

	result := s.extractor.Extract(ctx, rawURL)
	if result.Success {
		s.cache.Put(ctx, key, result)
	}
	return result
}

// ExtractHTML bypasses the cache; pasted markup has no stable identity.
func (s *CachedRecipeService) ExtractHTML(ctx context.Context, sourceURL string, html []byte) entities.ParseResult {
	return s.extractor.ExtractHTML(ctx, sourceURL, html)
}

// Clear empties the cache.
func (s *CachedRecipeService) Clear(ctx context.Context) {
	s.cache.Clear(ctx)
	observability.LoggerFromContext(ctx).Info().Msg("parse cache cleared")
}
