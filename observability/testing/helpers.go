// Package testing provides in-memory OpenTelemetry providers and assertion
// helpers for the executor's spans and metrics.
//
// Usage:
//
//	tp := NewTestTraceProvider()
//	mp := NewTestMeterProvider()
//	exec, _ := httpclient.NewBuilder(log).
//		WithTracerProvider(tp).
//		WithMeterProvider(mp).
//		Build()
//
//	// ... execute requests ...
//
//	NewSpanCollector(t, tp.Exporter).WithName("GET /auth").AssertCount(1)
//	assert.Equal(t, int64(3), SumInt64(mp.Collect(t), "badsec.client.attempts"))
package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestTraceProvider wraps the SDK TracerProvider and in-memory exporter for testing.
type TestTraceProvider struct {
	*sdktrace.TracerProvider
	Exporter *tracetest.InMemoryExporter
}

// NewTestTraceProvider creates a TracerProvider that exports spans
// synchronously to memory.
func NewTestTraceProvider() *TestTraceProvider {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	return &TestTraceProvider{
		TracerProvider: provider,
		Exporter:       exporter,
	}
}

// TestMeterProvider wraps the SDK MeterProvider and manual reader for testing.
type TestMeterProvider struct {
	*sdkmetric.MeterProvider
	Reader *sdkmetric.ManualReader
}

// NewTestMeterProvider creates a MeterProvider with a manual reader, so
// metrics are only collected when Collect is called.
func NewTestMeterProvider() *TestMeterProvider {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
	)

	return &TestMeterProvider{
		MeterProvider: provider,
		Reader:        reader,
	}
}

// Collect reads all metrics from the provider and returns them as ResourceMetrics.
func (tmp *TestMeterProvider) Collect(t *testing.T) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	err := tmp.Reader.Collect(context.Background(), &rm)
	require.NoError(t, err, "failed to collect metrics")
	return rm
}

// SpanCollector filters the spans captured by an in-memory exporter.
type SpanCollector struct {
	t     *testing.T
	spans tracetest.SpanStubs
}

// NewSpanCollector snapshots the spans exported so far.
func NewSpanCollector(t *testing.T, exporter *tracetest.InMemoryExporter) *SpanCollector {
	t.Helper()
	return &SpanCollector{t: t, spans: exporter.GetSpans()}
}

// Where keeps the spans matching keep.
func (sc *SpanCollector) Where(keep func(tracetest.SpanStub) bool) *SpanCollector {
	var out tracetest.SpanStubs
	for _, span := range sc.spans {
		if keep(span) {
			out = append(out, span)
		}
	}
	return &SpanCollector{t: sc.t, spans: out}
}

// WithName keeps the spans called name ("GET /auth", "GET /users").
func (sc *SpanCollector) WithName(name string) *SpanCollector {
	return sc.Where(func(s tracetest.SpanStub) bool { return s.Name == name })
}

// First returns the first span, failing the test when there is none.
func (sc *SpanCollector) First() tracetest.SpanStub {
	sc.t.Helper()
	require.NotEmpty(sc.t, sc.spans, "no spans in collection")
	return sc.spans[0]
}

// AssertCount asserts the number of collected spans.
func (sc *SpanCollector) AssertCount(expected int) *SpanCollector {
	sc.t.Helper()
	assert.Len(sc.t, sc.spans, expected, "unexpected number of spans")
	return sc
}

// SpanAttribute looks up key on span.
func SpanAttribute(span *tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

// AssertSpanAttribute asserts that span carries key with value expected.
// Go ints are compared against the int64 the SDK stores.
func AssertSpanAttribute(t *testing.T, span *tracetest.SpanStub, key string, expected any) {
	t.Helper()
	value, ok := SpanAttribute(span, key)
	if !ok {
		t.Errorf("attribute %s not found in span %q", key, span.Name)
		return
	}
	if n, isInt := expected.(int); isInt {
		expected = int64(n)
	}
	assert.Equal(t, expected, value.AsInterface(), "attribute %s value mismatch", key)
}

// AssertSpanStatus asserts the status code of span.
func AssertSpanStatus(t *testing.T, span *tracetest.SpanStub, expectedCode codes.Code) {
	t.Helper()
	assert.Equal(t, expectedCode, span.Status.Code, "span status code mismatch")
}

// CountEvents returns how many events called name were added to span.
func CountEvents(span *tracetest.SpanStub, name string) int {
	n := 0
	for _, ev := range span.Events {
		if ev.Name == name {
			n++
		}
	}
	return n
}

// FindMetric returns the metric called name, or nil.
func FindMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == name {
				return &scope.Metrics[i]
			}
		}
	}
	return nil
}

// SumInt64 totals every data point of an int64 counter. Missing or
// differently typed metrics count as zero.
func SumInt64(rm metricdata.ResourceMetrics, name string) int64 {
	m := FindMetric(rm, name)
	if m == nil {
		return 0
	}
	data, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		return 0
	}
	var total int64
	for _, dp := range data.DataPoints {
		total += dp.Value
	}
	return total
}

// HistogramCount totals the recorded count across every data point of a
// float64 histogram.
func HistogramCount(rm metricdata.ResourceMetrics, name string) uint64 {
	m := FindMetric(rm, name)
	if m == nil {
		return 0
	}
	data, ok := m.Data.(metricdata.Histogram[float64])
	if !ok {
		return 0
	}
	var total uint64
	for _, dp := range data.DataPoints {
		total += dp.Count
	}
	return total
}
