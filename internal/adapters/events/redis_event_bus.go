package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/internal/domain/providers"
	redisclient "github.com/zatekoja/grocerylist/backend/internal/infrastructure/clients/redis"
)

const subscriberBuffer = 16

// RedisEventBus carries cache events over Redis pub/sub. Each Subscribe call
// owns one PubSub connection.
type RedisEventBus struct {
	client *redisclient.Client

	mu     sync.Mutex
	subs   map[*redis.PubSub]struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewRedisEventBus returns an event bus on client.
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	return &RedisEventBus{
		client: client,
		subs:   make(map[*redis.PubSub]struct{}),
	}
}

func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.CacheEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode cache event: %w", err)
	}
	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish cache event on %s: %w", channel, err)
	}
	log.Debug().Str("channel", channel).Str("event_id", event.ID).Str("type", string(event.Type)).Msg("published cache event")
	return nil
}

func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.CacheEvent, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, errors.New("event bus closed")
	}
	pubsub := b.client.Client().Subscribe(ctx, channel)
	b.subs[pubsub] = struct{}{}
	b.wg.Add(1)
	b.mu.Unlock()

	// Wait for the subscription to be confirmed so no event published after
	// Subscribe returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		b.release(pubsub)
		b.wg.Done()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	out := make(chan *entities.CacheEvent, subscriberBuffer)
	go b.forward(ctx, channel, pubsub, out)
	log.Info().Str("channel", channel).Msg("subscribed to cache events")
	return out, nil
}

func (b *RedisEventBus) forward(ctx context.Context, channel string, pubsub *redis.PubSub, out chan<- *entities.CacheEvent) {
	defer b.wg.Done()
	defer close(out)
	defer b.release(pubsub)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event entities.CacheEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Str("channel", channel).Msg("dropping undecodable cache event")
				continue
			}
			select {
			case out <- &event:
			default:
				log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("subscriber full, dropping cache event")
			}
		}
	}
}

// release closes pubsub once; closing it also ends its message channel.
func (b *RedisEventBus) release(pubsub *redis.PubSub) {
	b.mu.Lock()
	_, owned := b.subs[pubsub]
	delete(b.subs, pubsub)
	b.mu.Unlock()
	if owned {
		if err := pubsub.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close cache event subscription")
		}
	}
}

// Close ends every subscription and waits for their goroutines.
func (b *RedisEventBus) Close() error {
	b.mu.Lock()
	b.closed = true
	subs := make([]*redis.PubSub, 0, len(b.subs))
	for pubsub := range b.subs {
		subs = append(subs, pubsub)
	}
	b.mu.Unlock()

	for _, pubsub := range subs {
		b.release(pubsub)
	}
	b.wg.Wait()
	return nil
}
