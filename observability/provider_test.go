package observability

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/gaborage/noclist/logger"
	testconsts "github.com/gaborage/noclist/testing"
)

// syncBuffer guards a bytes.Buffer shared with exporter goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func restoreGlobals(t *testing.T) {
	t.Helper()
	tp := otel.GetTracerProvider()
	mp := otel.GetMeterProvider()
	prop := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetMeterProvider(mp)
		otel.SetTextMapPropagator(prop)
	})
}

func TestNewProviderNilConfig(t *testing.T) {
	p, err := NewProvider(nil, logger.Nop())
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrNilConfig)
}

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(&Config{}, nil)
	require.NoError(t, err)

	assert.IsType(t, disabledProvider{}, p)
	assert.NotNil(t, p.TracerProvider())
	assert.NotNil(t, p.MeterProvider())
	assert.NoError(t, p.ForceFlush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProviderInvalidConfig(t *testing.T) {
	_, err := NewProvider(&Config{Enabled: true}, logger.Nop())
	assert.ErrorIs(t, err, ErrMissingServiceName)
}

func TestNewProviderStdoutExportsToWriter(t *testing.T) {
	restoreGlobals(t)
	out := &syncBuffer{}

	p, err := NewProvider(&Config{
		Enabled: true,
		Service: ServiceConfig{Name: testconsts.TestServiceName, Version: testconsts.TestVersion},
		Writer:  out,
	}, logger.Nop())
	require.NoError(t, err)

	assert.IsType(t, &sdktrace.TracerProvider{}, p.TracerProvider())
	assert.IsType(t, &sdkmetric.MeterProvider{}, p.MeterProvider())
	assert.Same(t, p.TracerProvider(), otel.GetTracerProvider(), "provider is installed globally")
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")

	_, span := p.TracerProvider().Tracer("test").Start(context.Background(), "GET /auth")
	span.End()

	counter, err := p.MeterProvider().Meter("test").Int64Counter("badsec.client.attempts")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	require.NoError(t, p.ForceFlush(context.Background()))
	require.NoError(t, Shutdown(p, time.Second))

	assert.Contains(t, out.String(), "GET /auth")
	assert.Contains(t, out.String(), "badsec.client.attempts")
}

func TestNewProviderOTLPExporters(t *testing.T) {
	for _, protocol := range []string{ProtocolHTTP, ProtocolGRPC} {
		t.Run(protocol, func(t *testing.T) {
			restoreGlobals(t)
			// Exporters connect lazily, so construction succeeds without a collector.
			p, err := NewProvider(&Config{
				Enabled: true,
				Service: ServiceConfig{Name: "noclist"},
				Trace: TraceConfig{
					Endpoint: "127.0.0.1:4317",
					Protocol: protocol,
					Insecure: true,
					Headers:  map[string]string{"x-api-key": "k"},
				},
				Metrics: MetricsConfig{Endpoint: "127.0.0.1:4317"},
			}, logger.Nop())
			require.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			_ = p.Shutdown(ctx)
		})
	}
}

func TestShutdownNilProvider(t *testing.T) {
	assert.NoError(t, Shutdown(nil, time.Second))
}

type failingProvider struct{ disabledProvider }

func (failingProvider) Shutdown(context.Context) error { return assert.AnError }

func TestShutdownWrapsError(t *testing.T) {
	err := Shutdown(&failingProvider{}, 0)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "observability shutdown failed")
}
