package httpclient

import (
	"context"
	"errors"
	"io"
	"net"
	nethttp "net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/gaborage/noclist/httpclient/internal/tracking"
	"github.com/gaborage/noclist/logger"
	"github.com/gaborage/noclist/trace"
)

const (
	tracerName = "noclist/httpclient"

	// maxDrainBytes bounds how much of an unread body is discarded before
	// closing, so small bodies still let the connection be reused.
	maxDrainBytes = 4 << 10
)

// executor implements the Executor interface
type executor struct {
	doer      Doer
	baseURL   *url.URL
	logger    logger.Logger
	config    *Config
	tracer    oteltrace.Tracer
	metrics   *tracking.Recorder
	callCount int64
}

// attemptOutcome is the tagged result of a single send: exactly one of resp
// and err is set.
type attemptOutcome struct {
	resp    *Response
	err     ClientError
	elapsed time.Duration
}

// Execute runs the retry loop for one logical GET.
//
// The loop stops on the first 200. Non-200 responses are remembered but not
// treated as errors; the last one is returned once the budget is spent.
// Transport failures are collected and only surface, as an *AggregateError,
// when no response was obtained at all. Cancellation of ctx aborts at once.
func (e *executor) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := e.validateRequest(req); err != nil {
		return nil, err
	}

	target := e.resolve(req.Path)
	ctx, requestID := trace.EnsureRequestID(ctx)
	ctx, span := e.tracer.Start(ctx, "GET "+req.Path,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("http.request.method", nethttp.MethodGet),
			attribute.String("url.full", target),
			attribute.String("badsec.read_policy", req.ReadPolicy.String()),
		),
	)
	defer span.End()

	start := time.Now()
	callCount := atomic.AddInt64(&e.callCount, 1)
	maxAttempts := e.config.Retry.Attempts()

	var (
		last     *Response
		failures []error
	)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := e.config.Retry.Wait(ctx, attempt); err != nil {
			cancelErr := NewCancellationError("retry wait interrupted", attempt, err)
			e.metrics.RecordAttempt(ctx, req.Path, tracking.OutcomeCancelled, 0, string(CancellationError), 0)
			e.endSpan(span, attempt, 0, cancelErr)
			e.logFailure(req.Path, requestID, attempt, cancelErr)
			return nil, cancelErr
		}

		e.logAttempt(target, req, requestID, attempt)
		outcome := e.send(ctx, target, req, requestID, attempt)

		switch {
		case outcome.err != nil && !IsTransportError(outcome.err):
			e.metrics.RecordAttempt(ctx, req.Path, outcomeLabel(outcome.err), 0, string(outcome.err.Type()), outcome.elapsed)
			e.endSpan(span, attempt+1, 0, outcome.err)
			e.logFailure(req.Path, requestID, attempt, outcome.err)
			return nil, outcome.err

		case outcome.err != nil:
			e.metrics.RecordAttempt(ctx, req.Path, tracking.OutcomeTransport, 0, string(outcome.err.Type()), outcome.elapsed)
			span.AddEvent("attempt failed", oteltrace.WithAttributes(
				attribute.Int("badsec.attempt", attempt+1),
				attribute.String("error.type", string(outcome.err.Type())),
			))
			e.logFailure(req.Path, requestID, attempt, outcome.err)
			failures = append(failures, outcome.err)

		default:
			outcome.resp.Stats = Stats{
				ElapsedTime: time.Since(start),
				Attempts:    attempt + 1,
				CallCount:   callCount,
			}
			last = outcome.resp

			if IsOK(last.StatusCode) {
				e.metrics.RecordAttempt(ctx, req.Path, tracking.OutcomeOK, last.StatusCode, "", outcome.elapsed)
				e.endSpan(span, attempt+1, last.StatusCode, nil)
				e.logResponse(req.Path, last, requestID)
				return last, nil
			}

			e.metrics.RecordAttempt(ctx, req.Path, tracking.OutcomeStatus, last.StatusCode, "", outcome.elapsed)
			span.AddEvent("attempt rejected", oteltrace.WithAttributes(
				attribute.Int("badsec.attempt", attempt+1),
				attribute.Int("http.response.status_code", last.StatusCode),
			))
			e.logRejected(req.Path, requestID, attempt, last.StatusCode)
		}
	}

	if last == nil && len(failures) > 0 {
		aggErr := &AggregateError{Errors: failures}
		e.metrics.RecordExhausted(ctx, req.Path)
		e.endSpan(span, maxAttempts, 0, aggErr)
		e.logExhausted(req.Path, requestID, aggErr)
		return nil, aggErr
	}

	e.endSpan(span, last.Stats.Attempts, last.StatusCode, nil)
	e.logResponse(req.Path, last, requestID)
	return last, nil
}

// send performs a single attempt and classifies its result.
func (e *executor) send(ctx context.Context, target string, req *Request, requestID string, attempt int) attemptOutcome {
	started := time.Now()

	attemptCtx := ctx
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	httpReq, err := nethttp.NewRequestWithContext(attemptCtx, nethttp.MethodGet, target, nethttp.NoBody)
	if err != nil {
		return attemptOutcome{err: NewValidationError("failed to create HTTP request: "+err.Error(), "path"), elapsed: time.Since(started)}
	}
	e.applyHeaders(ctx, httpReq, req, requestID)

	httpResp, err := e.doer.Do(httpReq)
	if err != nil {
		return attemptOutcome{err: e.classify(ctx, "request execution failed", attempt, err), elapsed: time.Since(started)}
	}

	resp, clientErr := e.buildResponse(ctx, httpResp, req.ReadPolicy, attempt)
	if clientErr != nil {
		return attemptOutcome{err: clientErr, elapsed: time.Since(started)}
	}
	return attemptOutcome{resp: resp, elapsed: time.Since(started)}
}

// buildResponse reads as much of the body as the read policy requires and
// always closes it.
func (e *executor) buildResponse(ctx context.Context, httpResp *nethttp.Response, policy ReadPolicy, attempt int) (*Response, ClientError) {
	defer httpResp.Body.Close()

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
	}

	if policy != ReadFullBody {
		_, _ = io.CopyN(io.Discard, httpResp.Body, maxDrainBytes)
		return resp, nil
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, e.classify(ctx, "failed to read response body", attempt, err)
	}
	resp.Body = body
	return resp, nil
}

// classify maps a transport failure to a cancellation, timeout or network error.
// The caller's context is checked first so that its deadline is never mistaken
// for a per-attempt timeout.
func (e *executor) classify(ctx context.Context, message string, attempt int, err error) ClientError {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return NewCancellationError(message, attempt, ctxErr)
	}
	if isTimeout(err) {
		return NewTimeoutError(message, attempt, e.config.Timeout, err)
	}
	return NewNetworkError(message, attempt, err)
}

func outcomeLabel(err ClientError) string {
	if err.Type() == CancellationError {
		return tracking.OutcomeCancelled
	}
	return tracking.OutcomeInvalid
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// validateRequest validates the request before sending
func (e *executor) validateRequest(req *Request) error {
	if req == nil {
		return NewValidationError("request cannot be nil", "request")
	}
	if strings.TrimSpace(req.Path) == "" {
		return NewValidationError("path cannot be empty", "path")
	}
	return nil
}

// resolve joins path onto the base URL. A leading slash is ignored so that
// base URLs with a path prefix keep it.
func (e *executor) resolve(path string) string {
	ref := &url.URL{Path: strings.TrimPrefix(path, "/")}
	return e.baseURL.ResolveReference(ref).String()
}

// applyHeaders applies default headers, request headers, the request ID and
// the OTel propagation headers, in that order of precedence.
func (e *executor) applyHeaders(ctx context.Context, httpReq *nethttp.Request, req *Request, requestID string) {
	for key, value := range e.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	trace.SetHeader(httpReq.Header, e.config.RequestIDHeader, requestID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))
}

func (e *executor) endSpan(span oteltrace.Span, attempts, statusCode int, err error) {
	span.SetAttributes(attribute.Int("badsec.attempts", attempts))
	if statusCode != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	}
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case statusCode >= 400:
		span.SetStatus(codes.Error, nethttp.StatusText(statusCode))
	}
}
