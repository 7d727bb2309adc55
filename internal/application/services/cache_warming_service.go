package services

import (
	"context"
	"time"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
)

// BatchProcessor runs a list of URLs through the extractor.
type BatchProcessor interface {
	Process(ctx context.Context, urls []string) entities.BatchResult
}

// CacheWarmingService pre-parses popular recipe URLs so their first request
// is served from the parse cache. The batch processor must wrap the cached
// extractor.
type CacheWarmingService struct {
	batch BatchProcessor
	urls  []string
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(batch BatchProcessor, urls []string) *CacheWarmingService {
	return &CacheWarmingService{
		batch: batch,
		urls:  append([]string(nil), urls...),
	}
}

// WarmCache extracts every configured URL once. Failures are logged and
// left uncached.
func (s *CacheWarmingService) WarmCache(ctx context.Context) entities.BatchResult {
	logger := observability.LoggerFromContext(ctx)
	if len(s.urls) == 0 {
		return entities.BatchResult{Items: []entities.BatchItem{}, Ingredients: []entities.Ingredient{}}
	}

	logger.Info().Int("urls", len(s.urls)).Msg("starting cache warming")
	result := s.batch.Process(ctx, s.urls)

	warmed, fromCache := 0, 0
	for _, item := range result.Items {
		if !item.Result.Success {
			logger.Warn().Str("url", item.URL).Str("error_type", item.Result.ErrorType).Msg("failed to warm recipe")
			continue
		}
		if item.Result.FromCache {
			fromCache++
		} else {
			warmed++
		}
	}
	logger.Info().Int("warmed", warmed).Int("already_cached", fromCache).Int("failed", result.Failed).Msg("cache warming completed")
	return result
}

// StartPeriodicWarming warms the cache now and then every interval until ctx
// is done. interval <= 0 warms once. The returned channel closes when the
// background goroutine exits.
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	logger := observability.LoggerFromContext(ctx)

	go func() {
		defer close(done)
		s.WarmCache(ctx)
		if interval <= 0 {
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info().Msg("stopping cache warming service")
				return
			case <-ticker.C:
				s.WarmCache(ctx)
			}
		}
	}()
	logger.Info().Dur("interval", interval).Msg("started cache warming")
	return done
}
