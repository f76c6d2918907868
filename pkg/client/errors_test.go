package client

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorClass
	}{
		{200, ""},
		{304, ""},
		{400, ErrorClassClient},
		{404, ErrorClassClient},
		{429, ErrorClassRateLimit},
		{500, ErrorClassServer},
		{503, ErrorClassServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			if got := classifyStatus(tt.status); got != tt.want {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestUpstreamError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *UpstreamError
		expected string
	}{
		{
			name: "error with wrapped error",
			err: &UpstreamError{
				StatusCode: 500,
				ErrorClass: ErrorClassServer,
				Endpoint:   "/api/v2/pokemon/25",
				Message:    "internal server error",
				Err:        errors.New("connection reset"),
			},
			expected: "pokeapi server error (status 500) on /api/v2/pokemon/25: internal server error: connection reset",
		},
		{
			name: "error without wrapped error",
			err: &UpstreamError{
				StatusCode: 400,
				ErrorClass: ErrorClassClient,
				Endpoint:   "/api/v2/pokemon",
				Message:    "400 Bad Request",
			},
			expected: "pokeapi client error (status 400) on /api/v2/pokemon: 400 Bad Request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUpstreamError_Unwrap(t *testing.T) {
	wrapped := errors.New("wrapped error")
	err := &UpstreamError{StatusCode: 500, ErrorClass: ErrorClassServer, Err: wrapped}

	if err.Unwrap() != wrapped {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), wrapped)
	}
	if !errors.Is(err, wrapped) {
		t.Error("errors.Is should work with wrapped error")
	}

	if (&UpstreamError{}).Unwrap() != nil {
		t.Error("Unwrap() of empty error should be nil")
	}
}

func TestStatusError(t *testing.T) {
	notFound := statusError("/api/v2/pokemon/0", &http.Response{StatusCode: 404, Status: "404 Not Found"})
	if !IsNotFound(notFound) {
		t.Error("404 should match ErrNotFound")
	}
	if notFound.ErrorClass != ErrorClassClient {
		t.Errorf("404 class = %q", notFound.ErrorClass)
	}

	server := statusError("/api/v2/pokemon/1", &http.Response{StatusCode: 502, Status: "502 Bad Gateway"})
	if IsNotFound(server) {
		t.Error("502 should not match ErrNotFound")
	}
	if server.ErrorClass != ErrorClassServer {
		t.Errorf("502 class = %q", server.ErrorClass)
	}
}

func TestClassOf(t *testing.T) {
	wrapped := fmt.Errorf("get pokemon 25: %w", &UpstreamError{ErrorClass: ErrorClassRateLimit})
	if ClassOf(wrapped) != ErrorClassRateLimit {
		t.Errorf("ClassOf = %q, want rate_limit", ClassOf(wrapped))
	}
	if ClassOf(errors.New("plain")) != "" {
		t.Error("ClassOf of plain error should be empty")
	}
}
