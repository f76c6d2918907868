// Package testutil provides a mock PokeAPI server for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// APIPrefix is the path prefix the mock serves under, mirroring /api/v2.
const APIPrefix = "/api/v2"

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockPokeAPI is a configurable mock upstream server.
type MockPokeAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	hits     map[string]int

	requestCount      int
	conditionalCount  int
	lastRequestHeader http.Header
}

// NewMockPokeAPI starts a new mock server.
func NewMockPokeAPI() *MockPokeAPI {
	mock := &MockPokeAPI{
		handlers: make(map[string]http.HandlerFunc),
		hits:     make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := normalize(strings.TrimPrefix(r.URL.Path, APIPrefix))

		mock.mu.Lock()
		mock.requestCount++
		mock.hits[path]++
		mock.lastRequestHeader = r.Header.Clone()
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.conditionalCount++
		}
		handler, exists := mock.handlers[path]
		mock.mu.Unlock()

		if !exists {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Not Found"))
			return
		}
		handler(w, r)
	}))

	return mock
}

// URL returns the server root.
func (m *MockPokeAPI) URL() string {
	return m.server.URL
}

// BaseURL returns the API root to configure clients with.
func (m *MockPokeAPI) BaseURL() string {
	return m.server.URL + APIPrefix
}

// Ref returns the absolute resource URL the real API would embed, e.g.
// Ref("pokemon-species", 25) = <base>/pokemon-species/25/.
func (m *MockPokeAPI) Ref(kind string, id any) string {
	return fmt.Sprintf("%s/%s/%v/", m.BaseURL(), kind, id)
}

// Close shuts down the mock server.
func (m *MockPokeAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockPokeAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.conditionalCount = 0
	m.lastRequestHeader = nil
	m.hits = make(map[string]int)
}

// SetHandler sets a custom handler for a path below the API root.
func (m *MockPokeAPI) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[normalize(path)] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockPokeAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetJSON serves v encoded as JSON with status 200.
func (m *MockPokeAPI) SetJSON(path string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal fixture for %s: %v", path, err))
	}
	m.SetResponse(path, NewJSONResponse(string(body)))
}

// RequestCount returns the number of requests served.
func (m *MockPokeAPI) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// ConditionalCount returns the number of conditional requests served.
func (m *MockPokeAPI) ConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conditionalCount
}

// LastRequestHeader returns the headers of the most recent request.
func (m *MockPokeAPI) LastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRequestHeader
}

// Hits returns how many times path was requested.
func (m *MockPokeAPI) Hits(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits[normalize(path)]
}

func normalize(path string) string {
	return "/" + strings.Trim(path, "/")
}

// NewJSONResponse creates a 200 OK JSON response with cache validators.
func NewJSONResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type":  "application/json; charset=utf-8",
			"Cache-Control": "public, max-age=86400",
			"ETag":          `"fixture"`,
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Rate limit exceeded"}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8", "Retry-After": "30"},
	}
}

// NewConditionalHandler responds 304 when If-None-Match equals etag.
func NewConditionalHandler(etag, body string, maxAge int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}
