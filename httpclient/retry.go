package httpclient

import (
	"context"
	"time"
)

const (
	// DefaultMaxAttempts is the number of sends allowed per logical call
	DefaultMaxAttempts = 3
)

// DefaultDelays is the pre-attempt wait schedule indexed by attempt.
var DefaultDelays = []time.Duration{0, 3 * time.Second, 7 * time.Second}

// RetryPolicy is a fixed, index-based backoff schedule.
type RetryPolicy struct {
	// MaxAttempts caps the number of sends. Values below 1 mean a single attempt.
	MaxAttempts int
	// Delays[i] is waited before attempt i. Attempts past the end reuse the last entry.
	Delays []time.Duration
}

// DefaultRetryPolicy returns the {3, [0s, 3s, 7s]} schedule.
func DefaultRetryPolicy() RetryPolicy {
	delays := make([]time.Duration, len(DefaultDelays))
	copy(delays, DefaultDelays)
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Delays:      delays,
	}
}

// Attempts returns the effective attempt budget.
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Delay returns the wait before the given 0-based attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if len(p.Delays) == 0 || attempt < 0 {
		return 0
	}
	if attempt >= len(p.Delays) {
		attempt = len(p.Delays) - 1
	}
	if d := p.Delays[attempt]; d > 0 {
		return d
	}
	return 0
}

// Wait blocks for Delay(attempt) or until ctx is done, whichever comes first.
// A context that is already done is reported even when the delay is zero.
func (p RetryPolicy) Wait(ctx context.Context, attempt int) error {
	delay := p.Delay(attempt)
	if delay == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
