// Package cache provides an optional Redis-backed HTTP response cache for
// upstream catalog requests.
//
// The cache sits below the aggregators, at the transport layer: it stores raw
// upstream responses keyed by path and query, honors the upstream freshness
// headers, and revalidates with conditional requests. It never stores
// aggregated view state; every catalog session and detail page still builds
// its own view model from scratch.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(redisClient)
//
//	key := cache.CacheKey{
//		Endpoint:    "/api/v2/pokemon",
//		QueryParams: url.Values{"offset": {"0"}, "limit": {"100"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch upstream, then cache.ResponseToEntry + manager.Set
//	}
//
// # Freshness
//
// ResponseToEntry derives the expiry from Cache-Control max-age first, then
// the Expires header, then DefaultTTL. Responses marked no-store are never
// cached. When an entry carries an ETag or Last-Modified value the client
// sends If-None-Match / If-Modified-Since and serves the cached body on 304.
//
// # Metrics
//
//   - pokeapi_cache_hits_total{layer="redis"}
//   - pokeapi_cache_misses_total
//   - pokeapi_cache_size_bytes{layer="redis"}
//   - pokeapi_304_responses_total
//   - pokeapi_conditional_requests_total
//   - pokeapi_cache_errors_total{operation}
package cache
