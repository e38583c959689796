package httpclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()

	assert.Equal(t, 3, policy.MaxAttempts)
	assert.Equal(t, []time.Duration{0, 3 * time.Second, 7 * time.Second}, policy.Delays)

	policy.Delays[0] = time.Hour
	assert.Equal(t, time.Duration(0), DefaultDelays[0], "policy must not alias the package schedule")
}

func TestRetryPolicyAttempts(t *testing.T) {
	assert.Equal(t, 1, RetryPolicy{}.Attempts())
	assert.Equal(t, 1, RetryPolicy{MaxAttempts: -4}.Attempts())
	assert.Equal(t, 5, RetryPolicy{MaxAttempts: 5}.Attempts())
}

func TestRetryPolicyDelay(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, Delays: []time.Duration{0, time.Second, 2 * time.Second}}

	tests := []struct {
		name    string
		attempt int
		want    time.Duration
	}{
		{"first attempt", 0, 0},
		{"second attempt", 1, time.Second},
		{"third attempt", 2, 2 * time.Second},
		{"past schedule reuses last", 4, 2 * time.Second},
		{"negative attempt", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Delay(tt.attempt))
		})
	}

	assert.Equal(t, time.Duration(0), RetryPolicy{MaxAttempts: 3}.Delay(2))
	assert.Equal(t, time.Duration(0), RetryPolicy{Delays: []time.Duration{-time.Second}}.Delay(0))
}

func TestRetryPolicyWait(t *testing.T) {
	t.Run("zero delay returns immediately", func(t *testing.T) {
		policy := RetryPolicy{MaxAttempts: 1, Delays: []time.Duration{0}}
		assert.NoError(t, policy.Wait(context.Background(), 0))
	})

	t.Run("zero delay reports cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		policy := RetryPolicy{MaxAttempts: 1, Delays: []time.Duration{0}}
		assert.ErrorIs(t, policy.Wait(ctx, 0), context.Canceled)
	})

	t.Run("waits for the scheduled delay", func(t *testing.T) {
		policy := RetryPolicy{MaxAttempts: 2, Delays: []time.Duration{0, 20 * time.Millisecond}}

		start := time.Now()
		require.NoError(t, policy.Wait(context.Background(), 1))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("cancellation interrupts a long delay", func(t *testing.T) {
		policy := RetryPolicy{MaxAttempts: 2, Delays: []time.Duration{0, time.Hour}}
		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		err := policy.Wait(ctx, 1)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}
