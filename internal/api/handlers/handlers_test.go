package handlers_test

import (
	"context"
	"errors"
	"sync"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/internal/domain/providers"
)

type stubRecipeService struct {
	mu        sync.Mutex
	results   map[string]entities.ParseResult
	extracted []string
	htmlCalls int
}

func (s *stubRecipeService) Extract(_ context.Context, rawURL string) entities.ParseResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extracted = append(s.extracted, rawURL)
	if result, ok := s.results[rawURL]; ok {
		return result
	}
	return entities.FailedResult(rawURL, "INVALID_URL", "invalid recipe url")
}

func (s *stubRecipeService) ExtractHTML(_ context.Context, sourceURL string, _ []byte) entities.ParseResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.htmlCalls++
	return okResult(sourceURL)
}

type stubBatchService struct {
	urls []string
}

func (s *stubBatchService) Process(ctx context.Context, urls []string) entities.BatchResult {
	return s.ProcessEach(ctx, urls, nil)
}

func (s *stubBatchService) ProcessEach(_ context.Context, urls []string, onItem func(entities.BatchItem)) entities.BatchResult {
	s.urls = urls
	result := entities.BatchResult{ID: "batch-1", Ingredients: []entities.Ingredient{}}
	for i, u := range urls {
		item := entities.BatchItem{Index: i, URL: u, Result: okResult(u)}
		if onItem != nil {
			onItem(item)
		}
		result.Items = append(result.Items, item)
		result.Succeeded++
	}
	result.SuccessRate = entities.ComputeSuccessRate(result.Succeeded, len(urls))
	result.Acceptable = result.SuccessRate >= 0.5
	return result
}

type stubCache struct {
	cleared int
}

func (c *stubCache) Clear(context.Context) {
	c.cleared++
}

type stubCompletion struct {
	content string
	err     error
	prompts []string
}

func (c *stubCompletion) Complete(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.content, c.err
}

// mapCache is an in-memory providers.CacheProvider.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func (c *mapCache) DeletePattern(context.Context, string) error {
	return errors.New("not supported")
}

func okResult(url string) entities.ParseResult {
	return entities.ParseResult{
		Recipe: entities.Recipe{
			SourceURL:   url,
			Ingredients: []entities.Ingredient{{Name: "flour", Amount: 2, Unit: "cups", Category: entities.CategoryPantry}},
			Parsed:      true,
		},
		Success:           true,
		Method:            entities.MethodStructuredData,
		Confidence:        95,
		VerificationScore: 100,
	}
}
