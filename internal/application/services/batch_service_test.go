package services_test

import (
	"context"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zatekoja/grocerylist/backend/internal/application/services"
	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/grocerylist/backend/pkg/errors"
)

// slowExtractor records the highest number of concurrent Extract calls.
type slowExtractor struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (e *slowExtractor) Extract(_ context.Context, rawURL string) entities.ParseResult {
	n := e.inFlight.Add(1)
	defer e.inFlight.Add(-1)
	for {
		peak := e.peak.Load()
		if n <= peak || e.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return successResult(rawURL)
}

func (e *slowExtractor) ExtractHTML(_ context.Context, sourceURL string, _ []byte) entities.ParseResult {
	return successResult(sourceURL)
}

func TestBatchService_HalfSucceededIsAcceptable(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	urls := []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
		"https://example.com/d",
	}

	inner := new(MockRecipeExtractor)
	inner.On("Extract", mock.Anything, urls[0]).Return(successResult(urls[0]))
	inner.On("Extract", mock.Anything, urls[1]).Return(entities.FailedResult(urls[1], string(apperrors.ErrorTypeFetchFailed), "status 404"))
	inner.On("Extract", mock.Anything, urls[2]).Return(successResult(urls[2]))
	inner.On("Extract", mock.Anything, urls[3]).Return(entities.FailedResult(urls[3], string(apperrors.ErrorTypeNoContentFound), "no ingredients"))

	result := services.NewBatchService(inner, nil, 0, 0).Process(ctx, urls)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 4, result.Total())
	assert.InDelta(t, 0.5, result.SuccessRate, 1e-9)
	assert.True(t, result.Acceptable)
	assert.Len(t, result.Errors, 2)

	require.Len(t, result.Items, 4)
	indexes := make([]int, 0, 4)
	for _, item := range result.Items {
		assert.Equal(t, urls[item.Index], item.URL)
		indexes = append(indexes, item.Index)
	}
	sort.Ints(indexes)
	assert.Equal(t, []int{0, 1, 2, 3}, indexes)

	// flour from both successes merges into one line.
	require.Len(t, result.Ingredients, 1)
	assert.Equal(t, "flour", result.Ingredients[0].Name)
	assert.Equal(t, 4.0, result.Ingredients[0].Amount)

	inner.AssertExpectations(t)
}

func TestBatchService_BelowAcceptRate(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	urls := []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"}

	inner := new(MockRecipeExtractor)
	inner.On("Extract", mock.Anything, urls[0]).Return(successResult(urls[0]))
	for _, u := range urls[1:] {
		inner.On("Extract", mock.Anything, u).Return(entities.FailedResult(u, string(apperrors.ErrorTypeParseFailed), "unparseable"))
	}

	result := services.NewBatchService(inner, nil, 2, 0).Process(ctx, urls)

	assert.Equal(t, 1, result.Succeeded)
	assert.InDelta(t, 1.0/3, result.SuccessRate, 1e-9)
	assert.False(t, result.Acceptable)
}

func TestBatchService_Empty(t *testing.T) {
	defer goleak.VerifyNone(t)

	result := services.NewBatchService(new(MockRecipeExtractor), nil, 0, 0).Process(context.Background(), nil)

	assert.Equal(t, 0, result.Total())
	assert.Equal(t, 0.0, result.SuccessRate)
	assert.False(t, result.Acceptable)
	assert.Empty(t, result.Items)
	assert.NotNil(t, result.Ingredients)
}

func TestBatchService_RespectsConcurrencyLimit(t *testing.T) {
	defer goleak.VerifyNone(t)

	extractor := &slowExtractor{}
	urls := []string{
		"https://example.com/1", "https://example.com/2", "https://example.com/3",
		"https://example.com/4", "https://example.com/5", "https://example.com/6",
	}

	result := services.NewBatchService(extractor, nil, 2, 0).Process(context.Background(), urls)

	assert.Equal(t, 6, result.Succeeded)
	assert.LessOrEqual(t, extractor.peak.Load(), int32(2))
}

func TestBatchService_UnboundedRunsAllAtOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	extractor := &slowExtractor{}
	urls := []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"}

	services.NewBatchService(extractor, nil, 0, 0).Process(context.Background(), urls)

	assert.Equal(t, int32(3), extractor.peak.Load())
}

func TestBatchService_ProcessEachReportsEveryItem(t *testing.T) {
	defer goleak.VerifyNone(t)

	urls := []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"}
	var seen []int

	result := services.NewBatchService(&slowExtractor{}, nil, 0, 0).ProcessEach(context.Background(), urls, func(item entities.BatchItem) {
		seen = append(seen, item.Index)
	})

	sort.Ints(seen)
	assert.Equal(t, []int{0, 1, 2}, seen)
	assert.Equal(t, 3, result.Succeeded)
}
