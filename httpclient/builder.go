package httpclient

import (
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/gaborage/noclist/httpclient/internal/tracking"
	"github.com/gaborage/noclist/logger"
	"github.com/gaborage/noclist/trace"
)

const (
	// DefaultBaseURL is the BADSEC server address used when none is configured
	DefaultBaseURL = "http://localhost:8888/"

	// DefaultTimeout bounds a single attempt
	DefaultTimeout = 30 * time.Second
)

// Builder provides a fluent interface for configuring the executor
type Builder struct {
	config         *Config
	logger         logger.Logger
	doer           Doer
	tracerProvider oteltrace.TracerProvider
	meterProvider  metric.MeterProvider
}

// NewBuilder creates a new executor builder with the default schedule
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		config: &Config{
			BaseURL:         DefaultBaseURL,
			Timeout:         DefaultTimeout,
			Retry:           DefaultRetryPolicy(),
			DefaultHeaders:  make(map[string]string),
			RequestIDHeader: trace.HeaderXRequestID,
		},
		logger: log,
	}
}

// NewExecutor creates an executor for baseURL with default configuration
func NewExecutor(log logger.Logger, baseURL string) (Executor, error) {
	return NewBuilder(log).WithBaseURL(baseURL).Build()
}

// WithBaseURL sets the URL request paths are resolved against
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.BaseURL = baseURL
	return b
}

// WithTimeout sets the per-attempt timeout
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithRetryPolicy replaces the attempt budget and delay schedule
func (b *Builder) WithRetryPolicy(policy RetryPolicy) *Builder {
	delays := make([]time.Duration, len(policy.Delays))
	copy(delays, policy.Delays)
	b.config.Retry = RetryPolicy{MaxAttempts: policy.MaxAttempts, Delays: delays}
	return b
}

// WithHTTPClient sets the transport used for sends
func (b *Builder) WithHTTPClient(doer Doer) *Builder {
	b.doer = doer
	return b
}

// WithDefaultHeader adds a header sent with every attempt
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.config.DefaultHeaders[key] = value
	return b
}

// WithRequestIDHeader overrides the request ID header name
func (b *Builder) WithRequestIDHeader(header string) *Builder {
	b.config.RequestIDHeader = header
	return b
}

// WithTracerProvider sets the provider for per-call spans (default: global)
func (b *Builder) WithTracerProvider(tp oteltrace.TracerProvider) *Builder {
	b.tracerProvider = tp
	return b
}

// WithMeterProvider sets the provider for attempt metrics (default: global)
func (b *Builder) WithMeterProvider(mp metric.MeterProvider) *Builder {
	b.meterProvider = mp
	return b
}

// WithPayloadLogging enables debug logging of response bodies up to maxBytes
func (b *Builder) WithPayloadLogging(maxBytes int) *Builder {
	b.config.LogPayloads = true
	b.config.MaxPayloadLogBytes = maxBytes
	return b
}

// Build creates the executor. It fails if the base URL is not absolute.
func (b *Builder) Build() (Executor, error) {
	baseURL, err := parseBaseURL(b.config.BaseURL)
	if err != nil {
		return nil, err
	}

	log := b.logger
	if log == nil {
		log = logger.Nop()
	}

	doer := b.doer
	if doer == nil {
		doer = &nethttp.Client{}
	}

	tp := b.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	cfg := *b.config
	return &executor{
		doer:    doer,
		baseURL: baseURL,
		logger:  log,
		config:  &cfg,
		tracer:  tp.Tracer(tracerName),
		metrics: tracking.NewRecorder(b.meterProvider),
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, NewValidationError("base URL cannot be empty", "base_url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, NewValidationError("invalid base URL: "+err.Error(), "base_url")
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, NewValidationError("base URL must be absolute: "+raw, "base_url")
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}
