// Package metrics documents the Prometheus metrics exported by the client and
// the aggregators, and dumps them in text exposition format.
//
// Metrics are defined in the package that owns them (client, cache, ratelimit,
// pagination) and registered via promauto on the default
// registerer.
package metrics

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Registry is the default Prometheus registry used by every package.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer WriteText reads from.
var Gatherer prometheus.Gatherer = prometheus.DefaultGatherer

// WriteText writes every gathered metric family to w in the Prometheus text
// exposition format. Families whose name does not start with prefix are
// skipped; an empty prefix writes everything.
func WriteText(w io.Writer, prefix string) error {
	families, err := Gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, mf := range families {
		if prefix != "" && !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}

	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - pokeapi_requests_total{endpoint, status} (Counter)
//   - pokeapi_request_duration_seconds{endpoint} (Histogram)
//   - pokeapi_errors_total{class} (Counter): client, server, rate_limit, network
//
// Cache Metrics (pkg/cache, only when the Redis cache is enabled):
//   - pokeapi_cache_hits_total{layer="redis"} (Counter)
//   - pokeapi_cache_misses_total (Counter)
//   - pokeapi_cache_size_bytes{layer="redis"} (Gauge)
//   - pokeapi_304_responses_total (Counter)
//   - pokeapi_conditional_requests_total (Counter)
//   - pokeapi_cache_errors_total{operation} (Counter)
//
// Limiter Metrics (pkg/ratelimit):
//   - pokeapi_rate_limit_wait_seconds (Histogram): time spent waiting for a slot
//   - pokeapi_requests_in_flight (Gauge)
//   - pokeapi_rate_limit_cancelled_total (Counter): waits abandoned by context
//
// Fan-out Metrics (pkg/pagination):
//   - pokeapi_fanout_size (Histogram): lookups joined per FetchAll call
//   - pokeapi_fanout_duration_seconds (Histogram)
//   - pokeapi_fanout_failures_total (Counter)
//   - pokeapi_stale_completions_total{pipeline} (Counter): catalog pages or
//     detail loads dropped because they were superseded
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(pokeapi_cache_hits_total[5m])) /
//   (sum(rate(pokeapi_cache_hits_total[5m])) + sum(rate(pokeapi_cache_misses_total[5m])))
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(pokeapi_request_duration_seconds_bucket[5m]))
