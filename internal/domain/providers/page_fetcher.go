package providers

import "context"

// PageFetcher retrieves the raw HTML of a recipe page.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}
