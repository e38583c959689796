// Package tracking records OpenTelemetry metrics for executor attempts.
package tracking

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	meterName = "noclist/httpclient"

	// MetricAttempts counts every send, labelled by outcome
	MetricAttempts = "badsec.client.attempts"
	// MetricAttemptDuration follows the OTel HTTP client duration convention (seconds)
	MetricAttemptDuration = "http.client.request.duration"
	// MetricCallsExhausted counts logical calls that ended without any response
	MetricCallsExhausted = "badsec.client.exhausted"

	attrPath       = "url.path"
	attrOutcome    = "badsec.attempt.outcome"
	attrStatusCode = "http.response.status_code"
	attrErrorType  = "error.type"
)

// Attempt outcomes
const (
	OutcomeOK        = "ok"
	OutcomeStatus    = "status"
	OutcomeTransport = "transport"
	OutcomeCancelled = "cancelled"
	OutcomeInvalid   = "invalid"
)

// Recorder owns the executor's metric instruments.
type Recorder struct {
	attempts  metric.Int64Counter
	duration  metric.Float64Histogram
	exhausted metric.Int64Counter
}

// logMetricError logs a metric initialization error to stderr.
func logMetricError(metricName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to initialize httpclient metric %s: %v\n", metricName, err)
	}
}

// NewRecorder builds instruments from mp, falling back to the global provider.
// Instruments that fail to initialize are replaced with no-ops.
func NewRecorder(mp metric.MeterProvider) *Recorder {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)
	fallback := noop.NewMeterProvider().Meter(meterName)

	r := &Recorder{}
	var err error

	r.attempts, err = meter.Int64Counter(
		MetricAttempts,
		metric.WithDescription("Number of BADSEC request attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		logMetricError(MetricAttempts, err)
		r.attempts, _ = fallback.Int64Counter(MetricAttempts)
	}

	r.duration, err = meter.Float64Histogram(
		MetricAttemptDuration,
		metric.WithDescription("Duration of individual BADSEC request attempts"),
		metric.WithUnit("s"),
	)
	if err != nil {
		logMetricError(MetricAttemptDuration, err)
		r.duration, _ = fallback.Float64Histogram(MetricAttemptDuration)
	}

	r.exhausted, err = meter.Int64Counter(
		MetricCallsExhausted,
		metric.WithDescription("Number of logical calls where every attempt failed at the transport level"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		logMetricError(MetricCallsExhausted, err)
		r.exhausted, _ = fallback.Int64Counter(MetricCallsExhausted)
	}

	return r
}

// RecordAttempt records one send. statusCode is ignored when errType is set.
func (r *Recorder) RecordAttempt(ctx context.Context, path, outcome string, statusCode int, errType string, elapsed time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String(attrPath, path),
		attribute.String(attrOutcome, outcome),
	}
	if errType != "" {
		attrs = append(attrs, attribute.String(attrErrorType, errType))
	} else {
		attrs = append(attrs, attribute.Int(attrStatusCode, statusCode))
		if statusCode >= 400 {
			attrs = append(attrs, attribute.String(attrErrorType, strconv.Itoa(statusCode)))
		}
	}

	set := metric.WithAttributes(attrs...)
	r.attempts.Add(ctx, 1, set)
	r.duration.Record(ctx, elapsed.Seconds(), set)
}

// RecordExhausted records a logical call that produced no response.
func (r *Recorder) RecordExhausted(ctx context.Context, path string) {
	r.exhausted.Add(ctx, 1, metric.WithAttributes(attribute.String(attrPath, path)))
}
