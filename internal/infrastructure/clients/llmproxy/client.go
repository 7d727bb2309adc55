package llmproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/grocerylist/backend/internal/domain/providers"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/grocerylist/backend/pkg/config"
)

const (
	defaultTimeout = 45 * time.Second
	maxEnvelope    = 1 << 20
)

// ErrUnsuccessful is returned when the proxy answers without success=true.
var ErrUnsuccessful = errors.New("completion proxy reported failure")

// Request is the body posted to the completion proxy.
type Request struct {
	Prompt string `json:"prompt"`
}

// Response is the completion proxy's envelope.
type Response struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// Client posts prompts to a completion proxy endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a proxy client for cfg.Endpoint.
func NewClient(cfg *config.LLMProxyConfig) (*Client, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, errors.New("llm proxy endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

var _ providers.CompletionProvider = (*Client)(nil)

// Complete posts prompt and returns the envelope content. Transport errors,
// non-2xx statuses and envelopes without success=true are all errors.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := observability.StartSpan(ctx, "llmproxy.complete")
	defer span.End()

	body, err := json.Marshal(Request{Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.RecordError(span, err)
		return "", fmt.Errorf("completion proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err := fmt.Errorf("completion proxy returned status %d", resp.StatusCode)
		observability.RecordError(span, err)
		return "", err
	}

	var envelope Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxEnvelope)).Decode(&envelope); err != nil {
		return "", fmt.Errorf("failed to decode completion proxy response: %w", err)
	}
	if !envelope.Success {
		if envelope.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrUnsuccessful, envelope.Error)
		}
		return "", ErrUnsuccessful
	}
	return envelope.Content, nil
}
