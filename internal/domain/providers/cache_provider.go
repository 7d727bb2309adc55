package providers

import (
	"context"
	"errors"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
)

// ErrCacheMiss is returned by CacheProvider.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider defines the interface for byte-level caching operations
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// DeletePattern removes every key matching a glob pattern
	DeletePattern(ctx context.Context, pattern string) error
}

// ParseResultCache stores successful pipeline results keyed by source URL.
// Implementations must be safe for concurrent use.
type ParseResultCache interface {
	Get(ctx context.Context, key string) (entities.ParseResult, bool)
	Put(ctx context.Context, key string, result entities.ParseResult)
	Clear(ctx context.Context)
}
