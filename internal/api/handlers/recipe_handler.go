package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
)

// DefaultMaxBatchURLs caps the URLs accepted by one batch request.
const DefaultMaxBatchURLs = 20

// RecipeService runs the extraction pipeline.
type RecipeService interface {
	Extract(ctx context.Context, rawURL string) entities.ParseResult
	ExtractHTML(ctx context.Context, sourceURL string, html []byte) entities.ParseResult
}

// BatchService extracts several recipes at once.
type BatchService interface {
	Process(ctx context.Context, urls []string) entities.BatchResult
	ProcessEach(ctx context.Context, urls []string, onItem func(entities.BatchItem)) entities.BatchResult
}

// CacheClearer empties the parse result cache.
type CacheClearer interface {
	Clear(ctx context.Context)
}

// RecipeHandler handles recipe extraction requests.
type RecipeHandler struct {
	recipes      RecipeService
	batch        BatchService
	cache        CacheClearer
	maxBatchURLs int
}

// NewRecipeHandler creates a recipe handler. cache may be nil when caching
// is disabled; maxBatchURLs <= 0 uses DefaultMaxBatchURLs.
func NewRecipeHandler(recipes RecipeService, batch BatchService, cache CacheClearer, maxBatchURLs int) *RecipeHandler {
	if maxBatchURLs <= 0 {
		maxBatchURLs = DefaultMaxBatchURLs
	}
	return &RecipeHandler{
		recipes:      recipes,
		batch:        batch,
		cache:        cache,
		maxBatchURLs: maxBatchURLs,
	}
}

type extractRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html,omitempty"`
}

type batchRequest struct {
	URLs []string `json:"urls"`
}

// Extract handles POST /api/recipes/extract. When html is supplied the page
// is not fetched and url is only recorded.
func (h *RecipeHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var result entities.ParseResult
	if strings.TrimSpace(req.HTML) != "" {
		result = h.recipes.ExtractHTML(r.Context(), req.URL, []byte(req.HTML))
	} else {
		result = h.recipes.Extract(r.Context(), strings.TrimSpace(req.URL))
	}

	status := http.StatusOK
	if !result.Success {
		status = statusForErrorType(result.ErrorType)
	}
	respondWithJSON(w, status, result)
}

// Batch handles POST /api/recipes/batch.
func (h *RecipeHandler) Batch(w http.ResponseWriter, r *http.Request) {
	urls, ok := h.batchURLs(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, h.batch.Process(r.Context(), urls))
}

// ClearCache handles DELETE /api/recipes/cache.
func (h *RecipeHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		h.cache.Clear(r.Context())
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecipeHandler) batchURLs(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var req batchRequest
	if !decodeJSON(w, r, &req) {
		return nil, false
	}

	urls := make([]string, 0, len(req.URLs))
	for _, u := range req.URLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		respondWithError(w, http.StatusBadRequest, "at least one url is required")
		return nil, false
	}
	if len(urls) > h.maxBatchURLs {
		respondWithError(w, http.StatusBadRequest, "too many urls in one batch")
		return nil, false
	}
	return urls, true
}
