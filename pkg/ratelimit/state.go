// Package ratelimit bounds how hard the aggregators hit the upstream catalog
// service: a token bucket caps the request rate and a weighted semaphore caps
// the number of requests in flight. Both ceilings are explicit and tunable;
// a zero value disables the corresponding limit.
package ratelimit

// Defaults applied by DefaultConfig.
const (
	// DefaultRequestsPerSecond keeps a full catalog page fan-out well inside
	// the upstream fair-use policy.
	DefaultRequestsPerSecond = 20

	// DefaultBurst is the token bucket size.
	DefaultBurst = 10

	// DefaultMaxInFlight is the number of concurrent upstream requests.
	DefaultMaxInFlight = 16
)

// State is a point-in-time snapshot of a Limiter.
type State struct {
	// InFlight is the number of acquired, unreleased slots.
	InFlight int64 `json:"in_flight"`

	// MaxInFlight is the configured concurrency ceiling (0 = unlimited).
	MaxInFlight int64 `json:"max_in_flight"`

	// RequestsPerSecond is the configured rate (0 = unlimited).
	RequestsPerSecond float64 `json:"requests_per_second"`

	// Burst is the token bucket size.
	Burst int `json:"burst"`

	// Tokens is the number of tokens currently available in the bucket.
	Tokens float64 `json:"tokens"`
}

// Saturated returns true if every in-flight slot is taken.
func (s State) Saturated() bool {
	return s.MaxInFlight > 0 && s.InFlight >= s.MaxInFlight
}

// Unlimited returns true if neither ceiling is configured.
func (s State) Unlimited() bool {
	return s.MaxInFlight <= 0 && s.RequestsPerSecond <= 0
}
