// Package trace carries the per-call request identifier that the BADSEC
// client attaches to every outbound attempt.
package trace

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey is the type for context keys to avoid collisions
type contextKey string

const (
	// requestIDKey is the context key for request ID values
	requestIDKey contextKey = "request_id"
	// HeaderXRequestID is the standard header name for request tracing
	HeaderXRequestID = "X-Request-ID"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// IDFromContext returns a request ID from context if present
func IDFromContext(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return id, true
	}
	return "", false
}

// NewID generates a fresh request ID.
func NewID() string {
	return uuid.New().String()
}

// EnsureRequestID returns the context's request ID, generating one when absent.
// The returned context always carries the ID so retries of one logical call share it.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := IDFromContext(ctx); ok {
		return ctx, id
	}
	id := NewID()
	return WithRequestID(ctx, id), id
}

// SetHeader writes the request ID into header unless a value is already present.
// An empty header name falls back to X-Request-ID.
func SetHeader(h http.Header, header, requestID string) {
	if header == "" {
		header = HeaderXRequestID
	}
	if h.Get(header) == "" && requestID != "" {
		h.Set(header, requestID)
	}
}
