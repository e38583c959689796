package observability

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials/insecure"
)

// exportTarget is where one signal goes. Spans and metrics share the
// protocol, TLS and header settings; only the endpoint differs.
type exportTarget struct {
	endpoint string
	protocol string
	insecure bool
	headers  map[string]string
	writer   io.Writer
}

func (c *Config) spanTarget() exportTarget {
	return exportTarget{
		endpoint: c.Trace.Endpoint,
		protocol: c.Trace.Protocol,
		insecure: c.Trace.Insecure,
		headers:  c.Trace.Headers,
		writer:   c.Writer,
	}
}

func (c *Config) metricTarget() exportTarget {
	t := c.spanTarget()
	t.endpoint = c.Metrics.Endpoint
	return t
}

func (t exportTarget) stdout() bool {
	return t.endpoint == EndpointStdout
}

func newSpanExporter(ctx context.Context, t exportTarget) (sdktrace.SpanExporter, error) {
	if t.stdout() {
		return stdouttrace.New(stdouttrace.WithWriter(t.writer), stdouttrace.WithPrettyPrint())
	}

	switch t.protocol {
	case ProtocolGRPC:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(t.endpoint)}
		if t.insecure {
			opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
		}
		if len(t.headers) > 0 {
			opts = append(opts, otlptracegrpc.WithHeaders(t.headers))
		}
		return otlptracegrpc.New(ctx, opts...)

	case ProtocolHTTP:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(t.endpoint)}
		if hasScheme(t.endpoint) {
			opts = []otlptracehttp.Option{otlptracehttp.WithEndpointURL(t.endpoint)}
		}
		if t.insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(t.headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(t.headers))
		}
		return otlptracehttp.New(ctx, opts...)
	}

	return nil, fmt.Errorf("span exporter %q: %w", t.protocol, ErrInvalidProtocol)
}

func newMetricExporter(ctx context.Context, t exportTarget) (sdkmetric.Exporter, error) {
	if t.stdout() {
		return stdoutmetric.New(stdoutmetric.WithWriter(t.writer), stdoutmetric.WithPrettyPrint())
	}

	switch t.protocol {
	case ProtocolGRPC:
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(t.endpoint)}
		if t.insecure {
			opts = append(opts, otlpmetricgrpc.WithTLSCredentials(insecure.NewCredentials()))
		}
		if len(t.headers) > 0 {
			opts = append(opts, otlpmetricgrpc.WithHeaders(t.headers))
		}
		return otlpmetricgrpc.New(ctx, opts...)

	case ProtocolHTTP:
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(t.endpoint)}
		if hasScheme(t.endpoint) {
			opts = []otlpmetrichttp.Option{otlpmetrichttp.WithEndpointURL(t.endpoint)}
		}
		if t.insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		if len(t.headers) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(t.headers))
		}
		return otlpmetrichttp.New(ctx, opts...)
	}

	return nil, fmt.Errorf("metric exporter %q: %w", t.protocol, ErrInvalidProtocol)
}
