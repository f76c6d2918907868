package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Prometheus metrics for fan-out joins.
var (
	fanoutSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pokeapi_fanout_size",
		Help:    "Number of lookups joined per fan-out",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
	})

	fanoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pokeapi_fanout_duration_seconds",
		Help:    "Duration of a complete fan-out join in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})

	fanoutFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokeapi_fanout_failures_total",
		Help: "Total number of fan-out joins that failed as a whole",
	})

	// StaleCompletions counts results dropped because the page or entry they
	// were requested for had been superseded. Labelled by pipeline.
	StaleCompletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeapi_stale_completions_total",
		Help: "Total number of aggregation results dropped as stale",
	}, []string{"pipeline"})
)

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel lookups (0 = unbounded)
	MaxConcurrency int
	// BatchSize splits a fan-out into sequential batches (0 = single batch)
	BatchSize int
	// Timeout per lookup (0 = none beyond the caller's context)
	Timeout time.Duration
}

// DefaultConfig returns safe default configuration for the public API
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 10,
		BatchSize:      0,
		Timeout:        15 * time.Second,
	}
}

// BatchFetcher joins concurrent lookups under a concurrency ceiling
type BatchFetcher struct {
	config Config
	logger zerolog.Logger
}

// NewBatchFetcher creates a new batch fetcher. Negative values are treated as 0.
func NewBatchFetcher(config Config) *BatchFetcher {
	if config.MaxConcurrency < 0 {
		config.MaxConcurrency = 0
	}
	if config.BatchSize < 0 {
		config.BatchSize = 0
	}
	if config.Timeout < 0 {
		config.Timeout = 0
	}

	return &BatchFetcher{
		config: config,
		logger: log.With().Str("component", "pagination").Logger(),
	}
}

// Config returns the effective configuration.
func (bf *BatchFetcher) Config() Config {
	return bf.config
}

// FetchAll runs fetch for every item and returns the results in input order.
// The join is atomic: the first error cancels the remaining lookups and is
// returned with no partial results. A nil bf uses DefaultConfig.
func FetchAll[T, R any](ctx context.Context, bf *BatchFetcher, items []T, fetch func(context.Context, T) (R, error)) ([]R, error) {
	if bf == nil {
		bf = NewBatchFetcher(DefaultConfig())
	}

	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	start := time.Now()
	fanoutSize.Observe(float64(len(items)))

	batch := bf.config.BatchSize
	if batch <= 0 || batch > len(items) {
		batch = len(items)
	}

	for lo := 0; lo < len(items); lo += batch {
		hi := min(lo+batch, len(items))
		if err := runBatch(ctx, bf.config, items[lo:hi], results[lo:hi], fetch); err != nil {
			fanoutFailures.Inc()
			bf.logger.Debug().
				Err(err).
				Int("items", len(items)).
				Int("batch_start", lo).
				Msg("Fan-out failed")
			return nil, err
		}
	}

	fanoutDuration.Observe(time.Since(start).Seconds())
	bf.logger.Debug().
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Fan-out complete")

	return results, nil
}

// runBatch fills results[i] with fetch(items[i]) for one batch.
func runBatch[T, R any](ctx context.Context, cfg Config, items []T, results []R, fetch func(context.Context, T) (R, error)) error {
	g, gctx := errgroup.WithContext(ctx)
	if cfg.MaxConcurrency > 0 {
		g.SetLimit(cfg.MaxConcurrency)
	}

	for i := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fetchCtx := gctx
			if cfg.Timeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(gctx, cfg.Timeout)
				defer cancel()
			}

			r, err := fetch(fetchCtx, items[i])
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("fan-out cancelled: %w", err)
	}
	return nil
}
