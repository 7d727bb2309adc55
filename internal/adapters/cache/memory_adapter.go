package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/internal/domain/providers"
)

// DefaultCapacity is the number of parse results kept in memory.
const DefaultCapacity = 50

// MemoryAdapter is a fixed-capacity in-process ParseResultCache. Reads do not
// refresh an entry, so the oldest insertion is evicted first.
type MemoryAdapter struct {
	entries *lru.Cache[string, entities.ParseResult]
}

// NewMemoryAdapter creates a memory cache holding up to capacity results.
// A non-positive capacity uses DefaultCapacity.
func NewMemoryAdapter(capacity int) *MemoryAdapter {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	// lru.New only fails for a non-positive size.
	entries, _ := lru.New[string, entities.ParseResult](capacity)
	return &MemoryAdapter{entries: entries}
}

var _ providers.ParseResultCache = (*MemoryAdapter)(nil)

// Get returns a copy of the cached result for key.
func (m *MemoryAdapter) Get(_ context.Context, key string) (entities.ParseResult, bool) {
	result, ok := m.entries.Peek(key)
	if !ok {
		return entities.ParseResult{}, false
	}
	return result.Clone(), true
}

// Put stores result under key, evicting the oldest entry when full.
func (m *MemoryAdapter) Put(_ context.Context, key string, result entities.ParseResult) {
	m.entries.Add(key, result.Clone())
}

// Clear empties the cache.
func (m *MemoryAdapter) Clear(_ context.Context) {
	m.entries.Purge()
}

// Remove drops a single key.
func (m *MemoryAdapter) Remove(key string) {
	m.entries.Remove(key)
}

// Len returns the number of cached results.
func (m *MemoryAdapter) Len() int {
	return m.entries.Len()
}
