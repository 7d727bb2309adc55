package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/internal/domain/providers"
)

// LocalCache is the in-process tier purged on remote cache events.
type LocalCache interface {
	Clear(ctx context.Context)
	Remove(key string)
}

// CacheInvalidationService keeps this instance's memory cache consistent with
// cache clears made by other instances.
type CacheInvalidationService struct {
	local      LocalCache
	eventBus   providers.EventBus
	instanceID string
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(local LocalCache, eventBus providers.EventBus, instanceID string) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		local:      local,
		eventBus:   eventBus,
		instanceID: instanceID,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// Start begins listening for cache events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelRecipeCache)
	if err != nil {
		close(s.done)
		return fmt.Errorf("failed to subscribe to cache events: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Str("instance_id", s.instanceID).Msg("cache invalidation service started")
	return nil
}

// Stop stops listening and waits for the event loop to exit.
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	<-s.done
	log.Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.CacheEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.CacheEvent) {
	if event.InstanceID == s.instanceID {
		return
	}

	logger := log.With().Str("event_id", event.ID).Str("origin", event.InstanceID).Logger()
	switch event.Type {
	case entities.CacheEventCleared:
		s.local.Clear(s.ctx)
		logger.Info().Msg("cleared local parse cache")
	case entities.CacheEventInvalidated:
		if event.Key != "" {
			s.local.Remove(event.Key)
			logger.Debug().Str("key", event.Key).Msg("invalidated local parse cache entry")
		}
	default:
		logger.Warn().Str("type", string(event.Type)).Msg("ignoring unknown cache event")
	}
}
