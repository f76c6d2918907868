package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Prometheus metrics for limiter decisions.
var (
	waitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pokeapi_rate_limit_wait_seconds",
		Help:    "Time spent waiting for an upstream request slot",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	inFlightGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pokeapi_requests_in_flight",
		Help: "Number of upstream requests currently in flight",
	})

	cancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokeapi_rate_limit_cancelled_total",
		Help: "Total number of slot waits abandoned because the context ended",
	})
)

// Config holds limiter configuration.
type Config struct {
	// RequestsPerSecond is the sustained request rate (0 = unlimited).
	RequestsPerSecond float64

	// Burst is the token bucket size. Values below 1 are raised to 1 when a
	// rate is configured.
	Burst int

	// MaxInFlight caps concurrent requests (0 = unlimited).
	MaxInFlight int64
}

// DefaultConfig returns the default limiter configuration.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: DefaultRequestsPerSecond,
		Burst:             DefaultBurst,
		MaxInFlight:       DefaultMaxInFlight,
	}
}

// Validate checks the configuration for negative values.
func (c Config) Validate() error {
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must be >= 0 (got %g)", c.RequestsPerSecond)
	}
	if c.Burst < 0 {
		return fmt.Errorf("burst must be >= 0 (got %d)", c.Burst)
	}
	if c.MaxInFlight < 0 {
		return fmt.Errorf("max_in_flight must be >= 0 (got %d)", c.MaxInFlight)
	}
	return nil
}

// Limiter gates upstream requests.
type Limiter struct {
	config   Config
	bucket   *rate.Limiter
	slots    *semaphore.Weighted
	inFlight atomic.Int64
	logger   zerolog.Logger
}

// NewLimiter creates a limiter from cfg.
func NewLimiter(cfg Config, logger zerolog.Logger) (*Limiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	limit := rate.Inf
	burst := cfg.Burst
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	l := &Limiter{
		config: cfg,
		bucket: rate.NewLimiter(limit, burst),
		logger: logger,
	}
	if cfg.MaxInFlight > 0 {
		l.slots = semaphore.NewWeighted(cfg.MaxInFlight)
	}

	state := l.State()
	logger.Debug().
		Bool("unlimited", state.Unlimited()).
		Float64("requests_per_second", state.RequestsPerSecond).
		Int("burst", state.Burst).
		Int64("max_in_flight", state.MaxInFlight).
		Msg("Limiter configured")

	return l, nil
}

// Acquire blocks until both a concurrency slot and a rate token are
// available, or ctx ends. The returned release func must be called exactly
// once when the request completes.
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	start := time.Now()

	if l.slots != nil {
		if err := l.slots.Acquire(ctx, 1); err != nil {
			cancelledTotal.Inc()
			return nil, fmt.Errorf("acquire request slot: %w", err)
		}
	}

	if err := l.bucket.Wait(ctx); err != nil {
		if l.slots != nil {
			l.slots.Release(1)
		}
		cancelledTotal.Inc()
		return nil, fmt.Errorf("wait for rate token: %w", err)
	}

	waited := time.Since(start)
	waitSeconds.Observe(waited.Seconds())
	if waited > 250*time.Millisecond {
		state := l.State()
		l.logger.Debug().
			Dur("waited", waited).
			Int64("in_flight", state.InFlight).
			Bool("saturated", state.Saturated()).
			Msg("Request delayed by limiter")
	}

	l.inFlight.Add(1)
	inFlightGauge.Inc()

	var released atomic.Bool
	return func() {
		if !released.CompareAndSwap(false, true) {
			return
		}
		l.inFlight.Add(-1)
		inFlightGauge.Dec()
		if l.slots != nil {
			l.slots.Release(1)
		}
	}, nil
}

// State returns a snapshot of the limiter.
func (l *Limiter) State() State {
	return State{
		InFlight:          l.inFlight.Load(),
		MaxInFlight:       l.config.MaxInFlight,
		RequestsPerSecond: l.config.RequestsPerSecond,
		Burst:             l.bucket.Burst(),
		Tokens:            l.bucket.Tokens(),
	}
}
