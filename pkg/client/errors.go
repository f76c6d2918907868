package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrNotFound is returned when the upstream service has no record for
	// the requested resource (HTTP 404).
	ErrNotFound = errors.New("resource not found")

	// ErrMalformedResponse is returned when a response body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// ErrorClass represents a classification of upstream failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 Too Many Requests.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// UpstreamError is a failed upstream call with its classification.
type UpstreamError struct {
	StatusCode int
	ErrorClass ErrorClass
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pokeapi %s error (status %d) on %s: %s: %v",
			e.ErrorClass, e.StatusCode, e.Endpoint, e.Message, e.Err)
	}
	return fmt.Sprintf("pokeapi %s error (status %d) on %s: %s",
		e.ErrorClass, e.StatusCode, e.Endpoint, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the upstream had no such record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ClassOf returns the ErrorClass carried by err, or "" if it carries none.
func ClassOf(err error) ErrorClass {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.ErrorClass
	}
	return ""
}

// classifyStatus categorizes an HTTP status code. Statuses below 400 have no class.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// statusError builds the UpstreamError for a non-success response.
func statusError(endpoint string, resp *http.Response) *UpstreamError {
	e := &UpstreamError{
		StatusCode: resp.StatusCode,
		ErrorClass: classifyStatus(resp.StatusCode),
		Endpoint:   endpoint,
		Message:    resp.Status,
	}
	if resp.StatusCode == http.StatusNotFound {
		e.Err = ErrNotFound
	}
	return e
}
