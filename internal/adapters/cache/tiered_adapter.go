package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/internal/domain/providers"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/grocerylist/backend/pkg/utils"
)

// TieredAdapter checks the in-memory tier first, then the shared byte cache,
// and back-fills memory on a shared hit. Shared-tier failures are logged and
// treated as misses.
type TieredAdapter struct {
	memory     *MemoryAdapter
	shared     providers.CacheProvider
	events     providers.EventBus
	ttl        time.Duration
	instanceID string
}

// NewTieredAdapter layers memory over shared. events may be nil, in which case
// Clear only affects this instance's memory tier and the shared store.
func NewTieredAdapter(memory *MemoryAdapter, shared providers.CacheProvider, events providers.EventBus, ttl time.Duration, instanceID string) *TieredAdapter {
	return &TieredAdapter{
		memory:     memory,
		shared:     shared,
		events:     events,
		ttl:        ttl,
		instanceID: instanceID,
	}
}

var _ providers.ParseResultCache = (*TieredAdapter)(nil)

// Get returns the cached result for key from the first tier holding it.
func (t *TieredAdapter) Get(ctx context.Context, key string) (entities.ParseResult, bool) {
	if result, ok := t.memory.Get(ctx, key); ok {
		return result, true
	}

	data, err := t.shared.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("shared cache read failed")
		}
		return entities.ParseResult{}, false
	}

	var result entities.ParseResult
	if err := json.Unmarshal(data, &result); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		_ = t.shared.Delete(ctx, key)
		return entities.ParseResult{}, false
	}

	t.memory.Put(ctx, key, result)
	return result.Clone(), true
}

// Put writes result to both tiers.
func (t *TieredAdapter) Put(ctx context.Context, key string, result entities.ParseResult) {
	t.memory.Put(ctx, key, result)

	data, err := json.Marshal(result)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("failed to encode parse result")
		return
	}
	if err := t.shared.Set(ctx, key, data, int(t.ttl.Seconds())); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("shared cache write failed")
	}
}

// Clear empties both tiers and tells other instances to drop their memory
// tier.
func (t *TieredAdapter) Clear(ctx context.Context) {
	t.memory.Clear(ctx)

	logger := observability.LoggerFromContext(ctx)
	if err := t.shared.DeletePattern(ctx, utils.CacheKeyPrefix+"*"); err != nil {
		logger.Warn().Err(err).Msg("failed to clear shared cache")
	}

	if t.events == nil {
		return
	}
	event := &entities.CacheEvent{
		ID:         uuid.NewString(),
		Type:       entities.CacheEventCleared,
		InstanceID: t.instanceID,
		Timestamp:  time.Now().UTC(),
	}
	if err := t.events.Publish(ctx, providers.EventChannelRecipeCache, event); err != nil {
		logger.Warn().Err(err).Msg("failed to publish cache cleared event")
	}
}

// Memory exposes the in-process tier.
func (t *TieredAdapter) Memory() *MemoryAdapter {
	return t.memory
}

// InstanceID identifies this process on the event bus.
func (t *TieredAdapter) InstanceID() string {
	return t.instanceID
}
