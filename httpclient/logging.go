package httpclient

const (
	// DefaultMaxPayloadLogBytes is used when payload logging is enabled without a cap
	DefaultMaxPayloadLogBytes = 1024

	truncatedSuffix = "...(truncated)"
)

// logAttempt logs an outgoing send at debug level
func (e *executor) logAttempt(target string, req *Request, requestID string, attempt int) {
	logEvent := e.logger.Debug().
		Str("direction", "outbound").
		Str("url", target).
		Str("request_id", requestID).
		Int("attempt", attempt+1).
		Int("max_attempts", e.config.Retry.Attempts()).
		Str("read_policy", req.ReadPolicy.String())

	if len(req.Headers) > 0 {
		logEvent.Interface("headers", req.Headers)
	}

	logEvent.Msg("BADSEC request attempt")
}

// logFailure logs an attempt that produced no response
func (e *executor) logFailure(path, requestID string, attempt int, err ClientError) {
	e.logger.Warn().
		Err(err).
		Str("path", path).
		Str("request_id", requestID).
		Int("attempt", attempt+1).
		Str("error_type", string(err.Type())).
		Msg("BADSEC request attempt failed")
}

// logRejected logs an attempt whose response was not a 200
func (e *executor) logRejected(path, requestID string, attempt, statusCode int) {
	e.logger.Warn().
		Str("path", path).
		Str("request_id", requestID).
		Int("attempt", attempt+1).
		Int("status", statusCode).
		Msg("BADSEC request attempt rejected")
}

// logExhausted logs a logical call where no attempt produced a response
func (e *executor) logExhausted(path, requestID string, err *AggregateError) {
	e.logger.Error().
		Err(err).
		Str("path", path).
		Str("request_id", requestID).
		Int("failures", len(err.Errors)).
		Msg("BADSEC request exhausted retries")
}

// logResponse logs the response returned to the caller
func (e *executor) logResponse(path string, resp *Response, requestID string) {
	logEvent := e.logger.Info().
		Str("direction", "inbound").
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Int("attempts", resp.Stats.Attempts).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int64("call_count", resp.Stats.CallCount)

	logEvent.Msg("BADSEC response")

	if e.config.LogPayloads && len(resp.Body) > 0 {
		e.logger.Debug().
			Str("path", path).
			Str("request_id", requestID).
			Str("body_preview", truncatePayload(resp.Body, e.config.MaxPayloadLogBytes)).
			Int("body_size", len(resp.Body)).
			Msg("BADSEC response payload")
	}
}

func truncatePayload(body []byte, limit int) string {
	if limit <= 0 {
		limit = DefaultMaxPayloadLogBytes
	}
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + truncatedSuffix
}
