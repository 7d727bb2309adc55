package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
)

type MockPageFetcher struct {
	mock.Mock
}

func (m *MockPageFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	args := m.Called(ctx, pageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockCompletionProvider struct {
	mock.Mock
}

func (m *MockCompletionProvider) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockRecipeExtractor struct {
	mock.Mock
}

func (m *MockRecipeExtractor) Extract(ctx context.Context, rawURL string) entities.ParseResult {
	args := m.Called(ctx, rawURL)
	return args.Get(0).(entities.ParseResult)
}

func (m *MockRecipeExtractor) ExtractHTML(ctx context.Context, sourceURL string, html []byte) entities.ParseResult {
	args := m.Called(ctx, sourceURL, html)
	return args.Get(0).(entities.ParseResult)
}
