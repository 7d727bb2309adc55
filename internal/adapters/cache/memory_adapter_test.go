package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
)

func sampleResult(url string) entities.ParseResult {
	return entities.ParseResult{
		Recipe: entities.Recipe{
			SourceURL: url,
			Name:      "Cake",
			Ingredients: []entities.Ingredient{
				{Name: "flour", Amount: 2, Unit: "cups", Category: entities.CategoryPantry},
			},
			Parsed: true,
		},
		Success: true,
		Method:  entities.MethodStructuredData,
	}
}

func TestMemoryAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter(5)

	_, ok := m.Get(ctx, "a")
	assert.False(t, ok)

	m.Put(ctx, "a", sampleResult("https://example.com/a"))
	got, ok := m.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, sampleResult("https://example.com/a"), got)
}

func TestMemoryAdapter_EvictsOldestInsertion(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter(2)

	m.Put(ctx, "a", sampleResult("a"))
	m.Put(ctx, "b", sampleResult("b"))

	// Reading "a" must not protect it from eviction.
	_, ok := m.Get(ctx, "a")
	require.True(t, ok)

	m.Put(ctx, "c", sampleResult("c"))

	_, ok = m.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "b")
	assert.True(t, ok)
	_, ok = m.Get(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, 2, m.Len())
}

func TestMemoryAdapter_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter(2)
	m.Put(ctx, "a", sampleResult("a"))

	got, _ := m.Get(ctx, "a")
	got.Recipe.Ingredients[0].Name = "sugar"

	again, _ := m.Get(ctx, "a")
	assert.Equal(t, "flour", again.Recipe.Ingredients[0].Name)
}

func TestMemoryAdapter_ClearAndRemove(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter(0)

	for i := 0; i < 3; i++ {
		m.Put(ctx, fmt.Sprint(i), sampleResult(fmt.Sprint(i)))
	}
	m.Remove("0")
	assert.Equal(t, 2, m.Len())

	m.Clear(ctx)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryAdapter_DefaultCapacity(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter(-1)

	for i := 0; i < DefaultCapacity+10; i++ {
		m.Put(ctx, fmt.Sprint(i), sampleResult(fmt.Sprint(i)))
	}
	assert.Equal(t, DefaultCapacity, m.Len())
}

func TestMemoryAdapter_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAdapter(10)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprint(i % 15)
			m.Put(ctx, key, sampleResult(key))
			m.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, m.Len(), 10)
}
