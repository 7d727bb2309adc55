package routes

import (
	"net/http"

	"github.com/zatekoja/grocerylist/backend/internal/api/handlers"
	"github.com/zatekoja/grocerylist/backend/internal/api/middleware"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	recipeHandler     *handlers.RecipeHandler
	completionHandler *handlers.CompletionHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router. completionHandler may be nil when this
// instance does not serve the completion proxy.
func NewRouter(
	recipeHandler *handlers.RecipeHandler,
	completionHandler *handlers.CompletionHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		recipeHandler:     recipeHandler,
		completionHandler: completionHandler,
		allowedOrigins:    allowedOrigins,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Recipe endpoints
	r.mux.HandleFunc("POST /api/recipes/extract", r.recipeHandler.Extract)
	r.mux.HandleFunc("POST /api/recipes/batch", r.recipeHandler.Batch)
	r.mux.HandleFunc("POST /api/recipes/batch/stream", r.recipeHandler.StreamBatch)
	r.mux.HandleFunc("DELETE /api/recipes/cache", r.recipeHandler.ClearCache)

	// Completion proxy
	if r.completionHandler != nil {
		r.mux.HandleFunc("POST /api/llm/complete", r.completionHandler.Complete)
	}

	// Last wrapper runs first.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Compression(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
