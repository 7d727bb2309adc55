package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/grocerylist/backend/internal/domain/providers"
	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
	"github.com/zatekoja/grocerylist/backend/pkg/config"
	apperrors "github.com/zatekoja/grocerylist/backend/pkg/errors"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxBodyBytes = 5 << 20
	errorSnippetBytes   = 512
)

// HTTPFetcher downloads recipe pages with a plain GET.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

// NewHTTPFetcher creates a fetcher from the fetch config.
func NewHTTPFetcher(cfg config.FetchConfig) *HTTPFetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	return &HTTPFetcher{
		client:       &http.Client{Timeout: timeout},
		userAgent:    cfg.UserAgent,
		maxBodyBytes: maxBody,
	}
}

var _ providers.PageFetcher = (*HTTPFetcher)(nil)

// Fetch returns the page body. Network errors and non-2xx responses are
// FetchFailed errors. Bodies beyond the size limit are cut off.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	ctx, span := observability.StartSpan(ctx, "fetch.page")
	defer span.End()
	span.SetAttributes(attribute.String("http.url", pageURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, apperrors.NewFetchFailedError("failed to build request", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewFetchFailedError(fmt.Sprintf("failed to fetch %s", pageURL), err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorSnippetBytes))
		err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		observability.RecordError(span, err)
		return nil, apperrors.NewFetchFailedError(fmt.Sprintf("failed to fetch %s", pageURL), err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewFetchFailedError(fmt.Sprintf("failed to read %s", pageURL), err)
	}
	return body, nil
}
