package cache

import (
	"net/http"
	"time"
)

// CacheEntry represents a cached upstream response.
type CacheEntry struct {
	// Data is the response body
	Data []byte `json:"data"`

	// ETag for conditional requests (If-None-Match)
	ETag string `json:"etag,omitempty"`

	// Expires is when the entry becomes stale
	Expires time.Time `json:"expires"`

	// LastModified from the upstream Last-Modified header
	LastModified time.Time `json:"last_modified,omitempty"`

	// StatusCode of the cached response
	StatusCode int `json:"status_code"`

	// Headers are the response headers
	Headers http.Header `json:"headers,omitempty"`

	// CachedAt is when the response was stored
	CachedAt time.Time `json:"cached_at"`
}

// IsExpired returns true if the cache entry has expired.
func (e *CacheEntry) IsExpired() bool {
	return !time.Now().Before(e.Expires)
}

// TTL returns the time until expiration, or 0 if already expired.
func (e *CacheEntry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// Age returns how long ago the entry was stored.
func (e *CacheEntry) Age() time.Duration {
	return time.Since(e.CachedAt)
}
