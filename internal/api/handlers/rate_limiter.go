package handlers

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zatekoja/grocerylist/backend/internal/domain/providers"
)

// rateLimiter counts requests per key in fixed windows. With a shared cache
// the count is kept there so every instance sees it; otherwise it is kept in
// process.
type rateLimiter struct {
	cache  providers.CacheProvider
	limit  int
	window time.Duration

	mu     sync.Mutex
	states map[string]*localRateState
}

type localRateState struct {
	count   int
	resetAt time.Time
}

type rateLimitState struct {
	Count int `json:"count"`
}

func newRateLimiter(cache providers.CacheProvider, limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		cache:  cache,
		limit:  limit,
		window: window,
		states: make(map[string]*localRateState),
	}
}

// allow reports whether another request for key fits the window, and how
// long to wait otherwise. A non-positive limit disables limiting.
func (l *rateLimiter) allow(ctx context.Context, key string) (bool, time.Duration) {
	if l.limit <= 0 {
		return true, 0
	}
	if l.cache == nil {
		return l.allowLocal(key)
	}

	state := rateLimitState{}
	if data, err := l.cache.Get(ctx, key); err == nil {
		_ = json.Unmarshal(data, &state)
	}
	if state.Count >= l.limit {
		return false, l.window
	}

	state.Count++
	data, _ := json.Marshal(state)
	_ = l.cache.Set(ctx, key, data, int(l.window.Seconds()))
	return true, 0
}

func (l *rateLimiter) allowLocal(key string) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.states[key]
	if !ok || now.After(state.resetAt) {
		state = &localRateState{resetAt: now.Add(l.window)}
		l.states[key] = state
	}

	if state.count >= l.limit {
		retryAfter := time.Until(state.resetAt)
		if retryAfter < 0 {
			retryAfter = l.window
		}
		return false, retryAfter
	}

	state.count++
	return true, 0
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
