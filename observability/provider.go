package observability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/gaborage/noclist/logger"
)

// Provider hands the executor its tracer and meter providers and flushes
// them when the command exits.
type Provider interface {
	TracerProvider() trace.TracerProvider
	MeterProvider() metric.MeterProvider

	// Shutdown flushes pending telemetry and releases exporters.
	Shutdown(ctx context.Context) error
	ForceFlush(ctx context.Context) error
}

// NewProvider validates cfg (after applying defaults to a copy) and builds
// the SDK providers. A disabled config yields a provider whose tracer and
// meter discard everything.
//
// An enabled provider is installed as the otel global together with the
// W3C trace context and baggage propagators.
func NewProvider(cfg *Config, log logger.Logger) (Provider, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if log == nil {
		log = logger.Nop()
	}

	resolved := *cfg
	resolved.ApplyDefaults()
	if err := resolved.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	if !resolved.Enabled {
		log.Debug().Msg("Telemetry disabled")
		return disabledProvider{}, nil
	}

	p, err := newSDKProvider(context.Background(), &resolved)
	if err != nil {
		return nil, err
	}
	p.install()

	log.Debug().
		Str("service", resolved.Service.Name).
		Str("protocol", resolved.Trace.Protocol).
		Str("trace_endpoint", resolved.Trace.Endpoint).
		Str("metrics_endpoint", resolved.Metrics.Endpoint).
		Msg("Telemetry enabled")

	return p, nil
}

// sdkProvider owns the SDK providers. Both are safe for concurrent use.
type sdkProvider struct {
	traces  *sdktrace.TracerProvider
	metrics *sdkmetric.MeterProvider
}

func newSDKProvider(ctx context.Context, cfg *Config) (*sdkProvider, error) {
	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	spans, err := newSpanExporter(ctx, cfg.spanTarget())
	if err != nil {
		return nil, fmt.Errorf("failed to create span exporter: %w", err)
	}

	metrics, err := newMetricExporter(ctx, cfg.metricTarget())
	if err != nil {
		_ = spans.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Trace.SampleRate))

	return &sdkProvider{
		traces: sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sampler),
			sdktrace.WithBatcher(spans,
				sdktrace.WithBatchTimeout(cfg.Trace.BatchTimeout),
				sdktrace.WithExportTimeout(cfg.Trace.ExportTimeout),
			),
		),
		metrics: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metrics,
				sdkmetric.WithInterval(cfg.Metrics.Interval),
				sdkmetric.WithTimeout(cfg.Metrics.ExportTimeout),
			)),
		),
	}, nil
}

func newResource(ctx context.Context, cfg *Config) (*resource.Resource, error) {
	own, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.Service.Name),
		semconv.ServiceVersion(cfg.Service.Version),
		semconv.DeploymentEnvironmentName(cfg.Environment),
	))
	if err != nil {
		return nil, err
	}
	return resource.Merge(resource.Default(), own)
}

func (p *sdkProvider) install() {
	otel.SetTracerProvider(p.traces)
	otel.SetMeterProvider(p.metrics)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

func (p *sdkProvider) TracerProvider() trace.TracerProvider { return p.traces }

func (p *sdkProvider) MeterProvider() metric.MeterProvider { return p.metrics }

// Shutdown stops both providers, reporting every failure.
func (p *sdkProvider) Shutdown(ctx context.Context) error {
	return errors.Join(
		annotate("trace provider shutdown", p.traces.Shutdown(ctx)),
		annotate("meter provider shutdown", p.metrics.Shutdown(ctx)),
	)
}

// ForceFlush exports everything buffered so far.
func (p *sdkProvider) ForceFlush(ctx context.Context) error {
	return errors.Join(
		annotate("trace provider flush", p.traces.ForceFlush(ctx)),
		annotate("meter provider flush", p.metrics.ForceFlush(ctx)),
	)
}

func annotate(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// disabledProvider discards all telemetry.
type disabledProvider struct{}

func (disabledProvider) TracerProvider() trace.TracerProvider { return tracenoop.NewTracerProvider() }

func (disabledProvider) MeterProvider() metric.MeterProvider { return metricnoop.NewMeterProvider() }

func (disabledProvider) Shutdown(context.Context) error { return nil }

func (disabledProvider) ForceFlush(context.Context) error { return nil }
