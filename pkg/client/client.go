// Package client provides the HTTP core for the PokeAPI catalog service:
// request gating, optional response caching, error classification and JSON
// decoding. It never retries; a failed call is reported to the caller as is.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/pokedex-client/pkg/cache"
	"github.com/Sternrassler/pokedex-client/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public PokeAPI root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Prometheus metrics for upstream requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeapi_requests_total",
		Help: "Total upstream requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pokeapi_request_duration_seconds",
		Help:    "Upstream request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeapi_errors_total",
		Help: "Total upstream errors by class",
	}, []string{"class"})
)

// Client is the upstream catalog client.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	limiter    *ratelimit.Limiter
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root, e.g. https://pokeapi.co/api/v2
	BaseURL string

	// UserAgent header sent with every request (REQUIRED)
	UserAgent string

	// Timeout per HTTP request
	Timeout time.Duration

	// CacheEnabled turns on the Redis response cache; requires Redis.
	CacheEnabled bool

	// Redis client backing the response cache
	Redis *redis.Client

	// RateLimit bounds request rate and concurrency
	RateLimit ratelimit.Config
}

// DefaultConfig returns a safe default configuration with caching disabled.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		Timeout:   15 * time.Second,
		RateLimit: ratelimit.DefaultConfig(),
	}
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be absolute http(s) (got %q)", cfg.BaseURL)
	}

	if cfg.CacheEnabled && cfg.Redis == nil {
		return nil, fmt.Errorf("redis client is required when caching is enabled")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	logger := log.With().Str("component", "pokeapi-client").Logger()

	limiter, err := ratelimit.NewLimiter(cfg.RateLimit, logger)
	if err != nil {
		return nil, fmt.Errorf("rate limit config: %w", err)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		limiter:    limiter,
		config:     cfg,
		logger:     logger,
	}
	if cfg.CacheEnabled {
		c.cache = cache.NewManager(cfg.Redis)
	}

	return c, nil
}

// Do performs an HTTP request through the limiter and, when enabled, the
// response cache. Responses with status >= 400 are returned to the caller
// unchanged; only transport failures produce an error.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := c.endpointLabel(req.URL)

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Fresh cache hit short-circuits the network
	var cacheKey cache.CacheKey
	var cached *cache.CacheEntry
	if c.cache != nil {
		cacheKey = cache.KeyFromURL(req.URL)
		entry, err := c.cache.Lookup(ctx, cacheKey)
		switch {
		case err == nil && !entry.IsExpired():
			cache.CacheHits.WithLabelValues("redis").Inc()
			requestsTotal.WithLabelValues(endpoint, "cache_hit").Inc()
			c.logger.Debug().Str("endpoint", req.URL.Path).Msg("Serving fresh cache entry")
			return cache.EntryToResponse(entry, req), nil
		case err == nil:
			cached = entry
		case !errors.Is(err, cache.ErrCacheMiss):
			c.logger.Warn().Err(err).Str("endpoint", req.URL.Path).Msg("Cache lookup error")
		}
	}

	// Step 2: Revalidate a stale entry
	if cache.ShouldMakeConditionalRequest(cached) {
		cache.AddConditionalHeaders(req, cached)
		cache.ConditionalRequestsSent.Inc()
		c.logger.Debug().
			Str("endpoint", req.URL.Path).
			Str("etag", cached.ETag).
			Msg("Making conditional request")
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	// Step 3: Wait for a slot. It is held until the body is closed.
	release, err := c.limiter.Acquire(ctx)
	if err != nil {
		requestsTotal.WithLabelValues(endpoint, "cancelled").Inc()
		return nil, err
	}

	// Step 4: Execute
	c.logger.Debug().
		Str("endpoint", req.URL.Path).
		Str("method", req.Method).
		Msg("Executing upstream request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		release()
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Warn().Err(err).Str("endpoint", req.URL.Path).Msg("Upstream request failed")
		return nil, &UpstreamError{
			ErrorClass: ErrorClassNetwork,
			Endpoint:   req.URL.Path,
			Message:    "request failed",
			Err:        err,
		}
	}
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	// Step 5: 304 Not Modified serves the revalidated entry
	if resp.StatusCode == http.StatusNotModified && cached != nil {
		resp.Body.Close()
		release()
		cache.NotModifiedResponses.Inc()

		if err := c.cache.UpdateTTL(ctx, cacheKey, cache.FreshUntil(resp.Header)); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update cache TTL")
		}

		c.logger.Debug().Str("endpoint", req.URL.Path).Msg("304 Not Modified - using cache")
		return cache.EntryToResponse(cached, req), nil
	}

	if resp.StatusCode >= 400 {
		class := classifyStatus(resp.StatusCode)
		errorsTotal.WithLabelValues(string(class)).Inc()

		event := c.logger.Warn()
		if resp.StatusCode == http.StatusNotFound {
			event = c.logger.Debug()
		}
		event.
			Str("endpoint", req.URL.Path).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Upstream request error")
		resp.Body = &releasingBody{ReadCloser: resp.Body, release: release}
		return resp, nil
	}

	// Step 6: Store successful responses
	if c.cache != nil && resp.StatusCode == http.StatusOK && cache.Cacheable(resp.Header) {
		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to create cache entry")
		} else if entry.TTL() > 0 {
			if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to cache response")
			} else {
				c.logger.Debug().
					Str("endpoint", req.URL.Path).
					Dur("ttl", entry.TTL()).
					Msg("Cached response")
			}
		}
	}

	resp.Body = &releasingBody{ReadCloser: resp.Body, release: release}
	return resp, nil
}

// releasingBody returns the limiter slot when the response body is closed.
type releasingBody struct {
	io.ReadCloser
	release func()
}

func (b *releasingBody) Close() error {
	err := b.ReadCloser.Close()
	b.release()
	return err
}

// Get performs a GET request. ref is either an absolute upstream URL (as
// found in resource references) or a path relative to the base URL.
func (c *Client) Get(ctx context.Context, ref string) (*http.Response, error) {
	u, err := c.Resolve(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return c.Do(req)
}

// GetJSON fetches ref and decodes the JSON body into out. A 404 yields an
// error matching ErrNotFound; other error statuses yield *UpstreamError.
func (c *Client) GetJSON(ctx context.Context, ref string, out any) error {
	resp, err := c.Get(ctx, ref)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	path := resp.Request.URL.Path
	if resp.StatusCode >= 400 {
		return statusError(path, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}

	return nil
}

// Resolve turns a reference into an absolute request URL.
func (c *Client) Resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("parse reference %q: %w", ref, err)
	}
	if u.IsAbs() {
		return u, nil
	}

	resolved := *c.baseURL
	resolved.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(u.Path, "/")
	resolved.RawQuery = u.RawQuery
	return &resolved, nil
}

// endpointLabel reduces a request path to a low-cardinality metric label:
// the path below the API root with numeric segments replaced by ":id".
func (c *Client) endpointLabel(u *url.URL) string {
	path := strings.TrimPrefix(u.Path, strings.TrimRight(c.baseURL.Path, "/"))
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if _, err := strconv.Atoi(seg); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

// Limiter exposes the request limiter for inspection.
func (c *Client) Limiter() *ratelimit.Limiter {
	return c.limiter
}

// Close releases resources held by the client. The Redis client is owned by
// the caller and is not closed.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// GetCache returns the cache manager, nil when caching is disabled.
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}
