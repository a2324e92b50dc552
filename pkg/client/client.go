// Package client provides the HTTP client for the Câmara dos Deputados
// open-data API with request gating, response caching and error classification.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/politicosbr/camara-client/pkg/cache"
	"github.com/politicosbr/camara-client/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Prometheus metrics for upstream requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "camara_requests_total",
		Help: "Total upstream requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "camara_request_duration_seconds",
		Help:    "Upstream request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "camara_errors_total",
		Help: "Total upstream errors by kind",
	}, []string{"kind"})
)

const (
	// DefaultBaseURL is the public Câmara open-data API root.
	DefaultBaseURL = "https://dadosabertos.camara.leg.br/api/v2"

	// DefaultUserAgent identifies this client to the upstream.
	DefaultUserAgent = "camara-client/1.0 (+https://github.com/politicosbr/camara-client)"

	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 10 * time.Second

	// DefaultTTL is used for cached calls that do not set their own TTL.
	DefaultTTL = 5 * time.Minute
)

var tracer = otel.Tracer("github.com/politicosbr/camara-client/pkg/client")

// Client issues single-attempt requests to the upstream API.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	store      *cache.Store[any]
	limiter    *ratelimit.Tracker
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root, e.g. DefaultBaseURL.
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout bounds each request including body read.
	Timeout time.Duration

	// DefaultTTL applies to cached calls whose CacheOptions.TTL is zero.
	DefaultTTL time.Duration

	// RateLimit configures the outbound request gate.
	RateLimit ratelimit.Config

	// HTTPClient overrides the transport. Optional.
	HTTPClient *http.Client
}

// DefaultConfig returns a configuration for the public API.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		UserAgent:  DefaultUserAgent,
		Timeout:    DefaultTimeout,
		DefaultTTL: DefaultTTL,
		RateLimit:  ratelimit.DefaultConfig(),
	}
}

// New creates a client that reads and populates store.
// The caller owns store and its sweeper.
func New(cfg Config, store *cache.Store[any]) (*Client, error) {
	if store == nil {
		return nil, fmt.Errorf("cache store is required")
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive (got %s)", cfg.Timeout)
	}

	if cfg.DefaultTTL <= 0 {
		return nil, fmt.Errorf("default ttl must be positive (got %s)", cfg.DefaultTTL)
	}

	logger := log.With().Str("component", "camara-client").Logger()

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		store:      store,
		limiter:    ratelimit.NewTracker(cfg.RateLimit, logger),
		config:     cfg,
		logger:     logger,
	}, nil
}

// Params are outbound query parameters.
// Nil values and nil pointers are omitted rather than encoded as empty strings.
type Params map[string]any

// Values encodes p as url.Values.
func (p Params) Values() url.Values {
	values := url.Values{}
	for k, v := range p {
		if s, ok := formatParam(v); ok {
			values.Set(k, s)
		}
	}
	return values
}

func formatParam(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		return formatParam(rv.Elem().Interface())
	}
	return fmt.Sprint(v), true
}

// CacheOptions controls caching for a single call.
type CacheOptions struct {
	Enabled bool
	// TTL of the stored response. Zero uses Config.DefaultTTL.
	TTL time.Duration
}

// NoCache disables caching for a call.
var NoCache = CacheOptions{}

// CacheFor enables caching with ttl.
func CacheFor(ttl time.Duration) CacheOptions {
	return CacheOptions{Enabled: true, TTL: ttl}
}

// GetJSON fetches path with params and decodes the body into T.
// A fresh cached value for the same fingerprint is returned without dispatching.
// The call is attempted once; failures are returned as *Error.
func GetJSON[T any](ctx context.Context, c *Client, path string, params Params, opts CacheOptions) (T, error) {
	var zero T

	query := params.Values()
	key := cache.Key{Endpoint: path, QueryParams: query}.String()

	if opts.Enabled {
		if v, ok := c.store.Get(key); ok {
			if typed, ok := v.(T); ok {
				c.logger.Debug().
					Str("endpoint", path).
					Bool("cache_hit", true).
					Msg("Serving cached response")
				return typed, nil
			}
		}
	}

	body, err := c.fetch(ctx, path, query)
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, c.record(path, Malformed(path, err))
	}

	if opts.Enabled {
		ttl := opts.TTL
		if ttl <= 0 {
			ttl = c.config.DefaultTTL
		}
		c.store.Set(key, out, ttl)
		c.logger.Debug().
			Str("endpoint", path).
			Bool("cache_hit", false).
			Dur("ttl", ttl).
			Msg("Cached upstream response")
	}

	return out, nil
}

// fetch performs one GET and returns the raw 2xx body.
func (c *Client) fetch(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := endpointLabel(path)

	ctx, span := tracer.Start(ctx, "camara.client.get", trace.WithAttributes(
		attribute.String("camara.endpoint", endpoint),
		attribute.String("camara.path", path),
	))
	defer span.End()

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		if cerr := callerCanceled(ctx, path); cerr != nil {
			return nil, cerr
		}
		return nil, c.fail(span, path, classifyWait(path, err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path, query), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if cerr := callerCanceled(ctx, path); cerr != nil {
			return nil, cerr
		}
		requestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, c.fail(span, path, classifyTransport(ctx, path, err))
	}
	defer resp.Body.Close()

	c.limiter.UpdateFromResponse(resp.StatusCode, resp.Header)
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, c.fail(span, path, &Error{
			Kind:       KindUpstreamStatus,
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Message:    http.StatusText(resp.StatusCode),
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(span, path, classifyTransport(ctx, path, err))
	}

	c.logger.Debug().
		Str("endpoint", path).
		Int("status_code", resp.StatusCode).
		Dur("duration", time.Since(startTime)).
		Msg("Upstream request completed")

	return body, nil
}

func (c *Client) fail(span trace.Span, path string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(KindOf(err)))
	return c.record(path, err)
}

func (c *Client) record(path string, err error) error {
	kind := KindOf(err)
	errorsTotal.WithLabelValues(string(kind)).Inc()
	c.logger.Warn().
		Err(err).
		Str("endpoint", path).
		Str("error_kind", string(kind)).
		Int("status_code", StatusCode(err)).
		Msg("Upstream request failed")
	return err
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// ClearCache empties the response cache.
func (c *Client) ClearCache() {
	c.store.Clear()
	c.logger.Info().Msg("Response cache cleared")
}

// RateLimitState returns the current upstream throttling state.
func (c *Client) RateLimitState() ratelimit.State {
	return c.limiter.GetState()
}

// callerCanceled reports a request abandoned by its caller. It is returned
// unclassified: the upstream did nothing wrong.
func callerCanceled(ctx context.Context, path string) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("camara request %s: %w", path, context.Canceled)
	}
	return nil
}

// classifyWait maps a request-gate failure onto the error taxonomy.
func classifyWait(path string, err error) error {
	if errors.Is(err, ratelimit.ErrCooldown) {
		return &Error{
			Kind:       KindUpstreamStatus,
			StatusCode: http.StatusTooManyRequests,
			Endpoint:   path,
			Message:    "upstream cooldown",
			Err:        err,
		}
	}
	return &Error{Kind: KindTimeout, Endpoint: path, Err: err}
}

// classifyTransport separates timeouts from other connection-level failures.
func classifyTransport(ctx context.Context, path string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Endpoint: path, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Endpoint: path, Err: err}
	}

	return &Error{Kind: KindNetworkUnavailable, Endpoint: path, Err: err}
}

// endpointLabel replaces numeric path segments so metric cardinality stays bounded.
func endpointLabel(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		if s == "" {
			continue
		}
		if _, err := strconv.Atoi(s); err == nil {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}
