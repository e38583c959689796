package httpclient

import (
	"context"
	nethttp "net/http"
	"time"
)

// Executor issues one logical GET with a bounded retry schedule.
type Executor interface {
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// Doer is the transport capability the executor sends through.
// *http.Client satisfies it.
type Doer interface {
	Do(req *nethttp.Request) (*nethttp.Response, error)
}

// DoerFunc adapts a function to the Doer interface.
type DoerFunc func(req *nethttp.Request) (*nethttp.Response, error)

// Do calls f(req).
func (f DoerFunc) Do(req *nethttp.Request) (*nethttp.Response, error) {
	return f(req)
}

// ReadPolicy controls how much of the response must be available before an
// attempt is considered complete.
type ReadPolicy int

const (
	// ReadHeaders completes once status and headers arrive; the body is discarded.
	ReadHeaders ReadPolicy = iota
	// ReadFullBody completes once the whole body has been read into Response.Body.
	ReadFullBody
)

func (p ReadPolicy) String() string {
	switch p {
	case ReadHeaders:
		return "headers"
	case ReadFullBody:
		return "body"
	default:
		return "unknown"
	}
}

// Request describes one logical GET relative to the executor's base URL.
type Request struct {
	Path       string
	Headers    map[string]string
	ReadPolicy ReadPolicy
}

// Response is the last response observed for a logical call.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
	Stats      Stats
}

// Stats contains request execution statistics
type Stats struct {
	// ElapsedTime covers the whole logical call, including backoff waits
	ElapsedTime time.Duration
	// Attempts is the number of sends made, including the one that produced this response
	Attempts int
	// CallCount is the executor-wide sequence number of this logical call
	CallCount int64
}

// Config holds the executor configuration
type Config struct {
	BaseURL string
	// Timeout bounds a single attempt; zero disables the per-attempt deadline
	Timeout        time.Duration
	Retry          RetryPolicy
	DefaultHeaders map[string]string
	// RequestIDHeader names the header carrying the per-call request ID (default: X-Request-ID)
	RequestIDHeader string
	// LogPayloads enables debug-level logging of response body previews
	LogPayloads bool
	// MaxPayloadLogBytes caps the number of body bytes logged when LogPayloads is enabled
	MaxPayloadLogBytes int
}
