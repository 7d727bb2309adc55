package providers

import (
	"context"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
)

// EventChannelRecipeCache is the channel carrying parse cache events.
const EventChannelRecipeCache = "recipe:cache:events"

// EventBus fans cache events out to every instance sharing the cache.
type EventBus interface {
	Publish(ctx context.Context, channel string, event *entities.CacheEvent) error
	// Subscribe delivers events until ctx is done or the bus is closed; the
	// returned channel is closed then.
	Subscribe(ctx context.Context, channel string) (<-chan *entities.CacheEvent, error)
	Close() error
}
