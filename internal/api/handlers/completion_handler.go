package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/grocerylist/backend/internal/domain/providers"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/clients/llmproxy"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/clients/openai"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
)

const maxPromptChars = 100000

// CompletionHandler serves the completion proxy endpoint the pipeline's
// llmproxy client posts to.
type CompletionHandler struct {
	provider providers.CompletionProvider
	limiter  *rateLimiter
}

// NewCompletionHandler creates a completion handler. requestsPerMinute <= 0
// disables per-client limiting; cache may be nil.
func NewCompletionHandler(provider providers.CompletionProvider, cache providers.CacheProvider, requestsPerMinute int) *CompletionHandler {
	return &CompletionHandler{
		provider: provider,
		limiter:  newRateLimiter(cache, requestsPerMinute, time.Minute),
	}
}

// Complete handles POST /api/llm/complete.
func (h *CompletionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req llmproxy.Request
	if !decodeJSON(w, r, &req) {
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		respondWithJSON(w, http.StatusBadRequest, llmproxy.Response{Error: "prompt is required"})
		return
	}
	if len(prompt) > maxPromptChars {
		respondWithJSON(w, http.StatusBadRequest, llmproxy.Response{Error: "prompt is too long"})
		return
	}

	allowed, retryAfter := h.limiter.allow(r.Context(), "llm:rate:"+clientIP(r))
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		respondWithJSON(w, http.StatusTooManyRequests, llmproxy.Response{Error: "rate limit exceeded"})
		return
	}

	content, err := h.provider.Complete(r.Context(), prompt)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("completion failed")
		status := http.StatusBadGateway
		if errors.Is(err, openai.ErrUnauthorized) {
			status = http.StatusServiceUnavailable
		}
		respondWithJSON(w, status, llmproxy.Response{Error: "completion failed"})
		return
	}

	respondWithJSON(w, http.StatusOK, llmproxy.Response{Success: true, Content: content})
}
