package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// KeyPrefix namespaces every key the manager writes.
const KeyPrefix = "pokeapi"

// CacheKey identifies a cached upstream response.
type CacheKey struct {
	// Endpoint is the request path (e.g. "/api/v2/pokemon/25/").
	Endpoint string

	// QueryParams are the query parameters (e.g. offset/limit on list pages).
	QueryParams url.Values
}

// String generates a deterministic cache key string.
//
// Example:
//
//	pokeapi:api/v2/pokemon:limit=100:offset=0
func (k CacheKey) String() string {
	parts := []string{KeyPrefix}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			values := append([]string(nil), k.QueryParams[key]...)
			sort.Strings(values)
			parts = append(parts, fmt.Sprintf("%s=%s", key, strings.Join(values, ",")))
		}
	}

	return strings.Join(parts, ":")
}

// KeyFromURL builds the cache key for an upstream request URL.
func KeyFromURL(u *url.URL) CacheKey {
	return CacheKey{
		Endpoint:    u.Path,
		QueryParams: u.Query(),
	}
}
