package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zatekoja/grocerylist/backend/internal/domain/entities"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
)

// StreamBatch handles POST /api/recipes/batch/stream. Each finished URL is
// sent as an "item" event, followed by one "summary" event carrying the
// merged result.
func (h *RecipeHandler) StreamBatch(w http.ResponseWriter, r *http.Request) {
	urls, ok := h.batchURLs(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sendEvent(w, "started", map[string]int{"total": len(urls)})
	flusher.Flush()

	result := h.batch.ProcessEach(r.Context(), urls, func(item entities.BatchItem) {
		if r.Context().Err() != nil {
			return
		}
		sendEvent(w, "item", item)
		flusher.Flush()
	})

	if r.Context().Err() != nil {
		observability.LoggerFromContext(r.Context()).Info().Str("batch_id", result.ID).Msg("client left batch stream")
		return
	}
	sendEvent(w, "summary", result)
	flusher.Flush()
}

func sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		observability.GetLogger().Warn().Err(err).Str("event", eventType).Msg("failed to marshal event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
