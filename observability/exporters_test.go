package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricTargetSharesTransportSettings(t *testing.T) {
	var w bytes.Buffer
	cfg := Config{
		Trace: TraceConfig{
			Endpoint: "collector:4317",
			Protocol: ProtocolGRPC,
			Insecure: true,
			Headers:  map[string]string{"x-tenant": "blue"},
		},
		Metrics: MetricsConfig{Endpoint: "metrics:4317"},
		Writer:  &w,
	}

	spans := cfg.spanTarget()
	metrics := cfg.metricTarget()

	assert.Equal(t, "collector:4317", spans.endpoint)
	assert.Equal(t, "metrics:4317", metrics.endpoint)
	assert.Equal(t, spans.protocol, metrics.protocol)
	assert.Equal(t, spans.insecure, metrics.insecure)
	assert.Equal(t, spans.headers, metrics.headers)
	assert.Same(t, &w, metrics.writer)
}

func TestStdoutExportersUseWriter(t *testing.T) {
	var w bytes.Buffer
	target := exportTarget{endpoint: EndpointStdout, writer: &w}

	spans, err := newSpanExporter(context.Background(), target)
	require.NoError(t, err)
	require.NoError(t, spans.Shutdown(context.Background()))

	metrics, err := newMetricExporter(context.Background(), target)
	require.NoError(t, err)
	require.NoError(t, metrics.Shutdown(context.Background()))
}

func TestExportersRejectUnknownProtocol(t *testing.T) {
	target := exportTarget{endpoint: "collector:4317", protocol: "thrift"}

	_, err := newSpanExporter(context.Background(), target)
	assert.ErrorIs(t, err, ErrInvalidProtocol)

	_, err = newMetricExporter(context.Background(), target)
	assert.ErrorIs(t, err, ErrInvalidProtocol)
}

func TestHTTPExporterAcceptsFullURL(t *testing.T) {
	target := exportTarget{endpoint: "http://127.0.0.1:4318/v1/traces", protocol: ProtocolHTTP, insecure: true}

	spans, err := newSpanExporter(context.Background(), target)
	require.NoError(t, err)
	_ = spans.Shutdown(context.Background())
}
