package utils

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// CacheKeyPrefix namespaces parse result keys in shared stores.
const CacheKeyPrefix = "recipe:"

// ErrInvalidURL is returned for input that is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid recipe url")

// ParseRecipeURL accepts only absolute http and https URLs with a host.
func ParseRecipeURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrInvalidURL
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// NormalizeURL returns the canonical form used for cache keys: lower-cased
// scheme and host, no fragment, no trailing slash on the path. Input that does
// not parse is returned trimmed.
func NormalizeURL(raw string) string {
	u, err := ParseRecipeURL(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String()
}

// CacheKey derives the parse cache key for a recipe URL.
func CacheKey(rawURL string) string {
	return CacheKeyPrefix + strconv.FormatUint(xxhash.Sum64String(NormalizeURL(rawURL)), 16)
}
