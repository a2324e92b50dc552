// Package metrics exposes the Prometheus registry used by the Câmara client.
// Metrics are defined in their own packages (cache, client, ratelimit) and
// registered there via promauto, which keeps those packages free of a
// dependency on this one.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer every package's promauto metrics land in.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the matching gatherer for Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the registered metrics in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - camara_cache_hits_total (Counter): Fresh entries served
//   - camara_cache_misses_total (Counter): Lookups that found nothing fresh
//   - camara_cache_evictions_total{reason} (Counter): Removals by "lazy" read or "sweep"
//   - camara_cache_entries (Gauge): Entries currently held
//
// Request Metrics (pkg/client):
//   - camara_requests_total{endpoint, status} (Counter): Upstream requests by endpoint template and status
//   - camara_request_duration_seconds{endpoint} (Histogram): Upstream request duration
//   - camara_errors_total{kind} (Counter): Failures by error kind
//
// Request Gate Metrics (pkg/ratelimit):
//   - camara_rate_limit_wait_seconds (Histogram): Time spent waiting for a token
//   - camara_rate_limit_blocks_total (Counter): Requests rejected during a 429 cooldown
//   - camara_rate_limit_throttled_total (Counter): 429 responses received
//
// Proxy Metrics (internal/server):
//   - camara_http_requests_total{route, code} (Counter): Proxy responses by route
//   - camara_http_request_duration_seconds{route} (Histogram): Proxy handler duration
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(camara_cache_hits_total[5m])) /
//   (sum(rate(camara_cache_hits_total[5m])) + sum(rate(camara_cache_misses_total[5m])))
//
//   # Upstream Timeouts
//   rate(camara_errors_total{kind="timeout"}[5m])
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(camara_request_duration_seconds_bucket[5m]))
