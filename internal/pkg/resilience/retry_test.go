package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), RetryConfig{MaxRetries: 3, BaseBackoff: time.Millisecond}, func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesTransientUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), RetryConfig{MaxRetries: 3, BaseBackoff: time.Millisecond, MaxJitter: time.Millisecond}, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return NewTransientError(errors.New("upstream 503"), 503)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_FatalErrorStopsImmediately(t *testing.T) {
	calls := 0
	err := Do(context.Background(), RetryConfig{MaxRetries: 5, BaseBackoff: time.Millisecond}, func(ctx context.Context) error {
		calls++
		return errors.New("401 unauthorized")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_AttemptsBoundedByMaxRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), RetryConfig{MaxRetries: 2, BaseBackoff: time.Millisecond, MaxJitter: 0}, func(ctx context.Context) error {
		calls++
		return NewTransientError(errors.New("429"), 429)
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls) // maxRetries + 1
}

func TestDo_ContextCancellationStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, RetryConfig{MaxRetries: 10, BaseBackoff: 50 * time.Millisecond}, func(ctx context.Context) error {
		calls++
		cancel()
		return NewTransientError(errors.New("flaky"), 500)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestBackoff_GrowsExponentiallyAndCaps(t *testing.T) {
	cfg := RetryConfig{BaseBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, MaxJitter: 0}
	assert.Equal(t, 100*time.Millisecond, cfg.Backoff(0))
	assert.Equal(t, 200*time.Millisecond, cfg.Backoff(1))
	assert.Equal(t, 400*time.Millisecond, cfg.Backoff(2))
	assert.Equal(t, time.Second, cfg.Backoff(5))
}

func TestBackoff_JitterBounded(t *testing.T) {
	cfg := RetryConfig{BaseBackoff: 10 * time.Millisecond, MaxBackoff: time.Second, MaxJitter: 500 * time.Millisecond}
	for i := 0; i < 50; i++ {
		d := cfg.Backoff(0)
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.LessOrEqual(t, d, 510*time.Millisecond)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"explicit transient", NewTransientError(errors.New("x"), 502), true},
		{"wrapped transient", fmt.Errorf("call failed: %w", NewTransientError(errors.New("x"), 429)), true},
		{"connection refused", syscall.ECONNREFUSED, true},
		{"timeout message", errors.New("read tcp: i/o timeout"), true},
		{"plain error", errors.New("malformed payload"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsTransient_NetTimeout(t *testing.T) {
	var err error = &net.DNSError{Err: "lookup timeout", IsTimeout: true}
	assert.True(t, IsTransient(err))
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), "status %d", code)
	}
}
