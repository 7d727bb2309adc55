package llmproxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/grocerylist/backend/pkg/config"
)

func newProxy(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.LLMProxyConfig{Endpoint: server.URL + "/api/llm/complete"})
	require.NoError(t, err)
	return client
}

func TestClient_Complete(t *testing.T) {
	client := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/llm/complete", r.URL.Path)

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "extract please", req.Prompt)

		_ = json.NewEncoder(w).Encode(Response{Success: true, Content: `{"ingredients":[]}`})
	})

	content, err := client.Complete(context.Background(), "extract please")
	require.NoError(t, err)
	assert.Equal(t, `{"ingredients":[]}`, content)
}

func TestClient_Complete_Failures(t *testing.T) {
	testCases := map[string]http.HandlerFunc{
		"non-2xx": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
		"success false": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":false,"error":"quota exceeded"}`))
		},
		"success missing": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"content":"hello"}`))
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		},
	}

	for name, handler := range testCases {
		t.Run(name, func(t *testing.T) {
			content, err := newProxy(t, handler).Complete(context.Background(), "prompt")
			require.Error(t, err)
			assert.Empty(t, content)
		})
	}
}

func TestClient_Complete_UnsuccessfulCarriesReason(t *testing.T) {
	client := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"quota exceeded"}`))
	})

	_, err := client.Complete(context.Background(), "prompt")
	assert.True(t, errors.Is(err, ErrUnsuccessful))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	_, err := NewClient(&config.LLMProxyConfig{})
	assert.Error(t, err)
}
