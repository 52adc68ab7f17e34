package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"finitefield.org/pokedex-web/internal/observability"
	"finitefield.org/pokedex-web/internal/requestctx"
)

//go:generate mockgen -destination=mock/transport.go -package=pokeapimock . Transport

const (
	instrumentationName = "finitefield.org/pokedex-web/internal/pokeapi"
	defaultTimeout      = 10 * time.Second
	defaultUserAgent    = "pokedex-web/1.0"
	maxBodyBytes        = 8 << 20
	maxErrorBodyBytes   = 256
	maxDrainBytes       = 64 << 10

	// MaxIdleConnsPerHost covers one list page fanning out a detail fetch per
	// entry against the same host.
	MaxIdleConnsPerHost = 128
)

// Transport performs a single read-only GET and returns the raw JSON body.
// Implementations must honour ctx cancellation.
type Transport interface {
	Get(ctx context.Context, url string) (json.RawMessage, error)
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("pokeapi: GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("pokeapi: GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// HTTPTransport is the net/http backed Transport with tracing and latency metrics.
type HTTPTransport struct {
	http      *http.Client
	userAgent string
	logger    *zap.Logger
	tracer    trace.Tracer

	latency        metric.Float64Histogram
	latencyEnabled bool
	failures       metric.Int64Counter
	failuresOK     bool
}

type transportConfig struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	logger    *zap.Logger
	meter     metric.Meter
}

// Option customises HTTPTransport construction.
type Option func(*transportConfig)

// WithHTTPClient replaces the underlying HTTP client (tests use httptest clients).
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *transportConfig) {
		cfg.client = client
	}
}

// WithTimeout bounds each GET when the default client is used.
func WithTimeout(d time.Duration) Option {
	return func(cfg *transportConfig) {
		cfg.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(cfg *transportConfig) {
		cfg.userAgent = strings.TrimSpace(ua)
	}
}

// WithLogger sets the logger used when no request-scoped logger is present.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *transportConfig) {
		cfg.logger = logger
	}
}

// WithMeter injects a custom OpenTelemetry meter.
func WithMeter(m metric.Meter) Option {
	return func(cfg *transportConfig) {
		cfg.meter = m
	}
}

// NewHTTPTransport builds an HTTPTransport.
func NewHTTPTransport(opts ...Option) *HTTPTransport {
	cfg := transportConfig{
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.client == nil {
		if cfg.timeout <= 0 {
			cfg.timeout = defaultTimeout
		}
		cfg.client = &http.Client{Timeout: cfg.timeout, Transport: newPooledTransport()}
	}
	if cfg.userAgent == "" {
		cfg.userAgent = defaultUserAgent
	}

	meter := cfg.meter
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(instrumentationName)
	}
	latency, latencyErr := meter.Float64Histogram(
		"pokeapi.fetch.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Latency in milliseconds for PokeAPI GET requests"),
	)
	if latencyErr != nil {
		cfg.logger.Warn("pokeapi: unable to register latency metric", zap.Error(latencyErr))
	}
	failures, failuresErr := meter.Int64Counter(
		"pokeapi.fetch.errors",
		metric.WithDescription("Count of failed PokeAPI GET requests"),
	)
	if failuresErr != nil {
		cfg.logger.Warn("pokeapi: unable to register error metric", zap.Error(failuresErr))
	}

	return &HTTPTransport{
		http:           cfg.client,
		userAgent:      cfg.userAgent,
		logger:         cfg.logger,
		tracer:         otel.Tracer(instrumentationName),
		latency:        latency,
		latencyEnabled: latencyErr == nil,
		failures:       failures,
		failuresOK:     failuresErr == nil,
	}
}

// Get issues a GET against rawURL and returns the body of a 2xx response.
func (t *HTTPTransport) Get(ctx context.Context, rawURL string) (json.RawMessage, error) {
	endpoint := endpointOf(rawURL)
	ctx, span := t.tracer.Start(ctx, "pokeapi.get "+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", http.MethodGet),
		attribute.String("url.full", rawURL),
		attribute.String("pokeapi.endpoint", endpoint),
	)

	start := time.Now()
	body, status, err := t.do(ctx, rawURL)
	t.record(ctx, time.Since(start), endpoint, status, err)

	logger := t.loggerFor(ctx).With(
		zap.String("url", rawURL),
		zap.String("endpoint", endpoint),
		zap.Int("status", status),
		zap.Duration("latency", time.Since(start)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debug("pokeapi fetch failed", zap.Error(err))
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	logger.Debug("pokeapi fetch completed")
	return body, nil
}

func (t *HTTPTransport) do(ctx context.Context, rawURL string) (json.RawMessage, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("pokeapi: build request for %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent)
	observability.InjectOutgoing(req)

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("pokeapi: GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, &StatusError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Body:       drainError(resp.Body),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("pokeapi: read %s: %w", rawURL, err)
	}
	if !json.Valid(body) {
		return nil, resp.StatusCode, fmt.Errorf("pokeapi: GET %s: response is not valid JSON", rawURL)
	}
	return json.RawMessage(body), resp.StatusCode, nil
}

func (t *HTTPTransport) record(ctx context.Context, d time.Duration, endpoint string, status int, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, context.Canceled):
		outcome = "canceled"
	case err != nil:
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status", strconv.Itoa(status)),
		attribute.String("outcome", outcome),
	)
	if t.latencyEnabled {
		t.latency.Record(ctx, float64(d)/float64(time.Millisecond), attrs)
	}
	if err != nil && t.failuresOK {
		t.failures.Add(ctx, 1, attrs)
	}
}

func (t *HTTPTransport) loggerFor(ctx context.Context) *zap.Logger {
	if logger := requestctx.Logger(ctx); logger != requestctx.NoopLogger() {
		return logger
	}
	return t.logger
}

// endpointOf maps a URL onto a low-cardinality label for metrics and span names.
func endpointOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	n := len(segments)
	switch {
	case n >= 1 && segments[n-1] == "pokemon":
		return "pokemon.list"
	case n >= 2 && segments[n-2] == "pokemon":
		return "pokemon.detail"
	case n >= 2 && segments[n-2] == "ability":
		return "ability.detail"
	default:
		return "other"
	}
}

func newPooledTransport() *http.Transport {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.MaxIdleConns = MaxIdleConnsPerHost
	base.MaxIdleConnsPerHost = MaxIdleConnsPerHost
	return base
}

// drainError returns the head of an error body and discards a bounded
// remainder so the connection can go back to the pool.
func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxDrainBytes))
	return strings.TrimSpace(string(b))
}
