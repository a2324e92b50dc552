package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Prometheus metrics for upstream request gating.
var (
	upstreamWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "camara_rate_limit_wait_seconds",
		Help:    "Time spent waiting for a request token",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	upstreamCooldownBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camara_rate_limit_blocks_total",
		Help: "Total number of requests rejected during an upstream cooldown",
	})

	upstreamThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camara_rate_limit_throttled_total",
		Help: "Total number of 429 responses received from the upstream",
	})
)

var (
	// ErrCooldown is returned while the upstream's Retry-After window is open.
	ErrCooldown = errors.New("upstream cooldown active")

	// ErrWaitAborted is returned when the context ends before a token is available.
	ErrWaitAborted = errors.New("rate limit wait aborted")
)

// Config holds tracker configuration.
type Config struct {
	// RequestsPerSecond is the sustained request rate toward the upstream.
	// Zero or negative disables the token bucket.
	RequestsPerSecond float64

	// Burst is the token bucket size.
	Burst int
}

// DefaultConfig returns a conservative configuration for the public API.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		Burst:             5,
	}
}

// Tracker gates outbound requests. It is safe for concurrent use.
type Tracker struct {
	limiter *rate.Limiter
	logger  zerolog.Logger
	now     func() time.Time

	mu    sync.Mutex
	state State
}

// NewTracker creates a new tracker.
func NewTracker(cfg Config, logger zerolog.Logger) *Tracker {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Tracker{
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
		now:     time.Now,
	}
}

// GetState returns a snapshot of the current throttling state.
func (t *Tracker) GetState() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Wait blocks until a request may be dispatched.
// It fails fast with ErrCooldown while a Retry-After window is open, and with
// ErrWaitAborted when ctx ends (or would end) before a token is available.
func (t *Tracker) Wait(ctx context.Context) error {
	state := t.GetState()
	now := t.now()

	if state.InCooldown(now) {
		remaining := state.TimeUntilReset(now)
		t.logger.Warn().
			Dur("wait_duration", remaining).
			Msg("Upstream cooldown active - rejecting request")
		upstreamCooldownBlocksTotal.Inc()
		return fmt.Errorf("%w: retry in %s", ErrCooldown, remaining.Round(time.Second))
	}

	start := time.Now()
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrWaitAborted, err)
	}
	upstreamWaitSeconds.Observe(time.Since(start).Seconds())

	return nil
}

// UpdateFromResponse records the outcome of an upstream response.
// Only 429 responses change state.
func (t *Tracker) UpdateFromResponse(statusCode int, headers http.Header) {
	if statusCode != http.StatusTooManyRequests {
		return
	}

	now := t.now()
	cooldown := parseRetryAfter(headers.Get("Retry-After"), now)

	t.mu.Lock()
	t.state.LastThrottled = now
	t.state.CooldownUntil = now.Add(cooldown)
	t.state.ThrottledTotal++
	total := t.state.ThrottledTotal
	t.mu.Unlock()

	upstreamThrottledTotal.Inc()

	t.logger.Warn().
		Dur("cooldown", cooldown).
		Int("throttled_total", total).
		Msg("Upstream returned 429 - entering cooldown")
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
// Falls back to DefaultCooldown when the header is absent or unusable.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultCooldown
	}

	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return DefaultCooldown
		}
		return time.Duration(secs) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}

	return DefaultCooldown
}
