package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig controls exponential backoff with jitter.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	// Total attempts = MaxRetries + 1.
	MaxRetries int

	// BaseBackoff is the delay before the first retry.
	BaseBackoff time.Duration

	// MaxBackoff caps the computed delay.
	MaxBackoff time.Duration

	// MaxJitter is the upper bound of the random jitter added to every
	// backoff sleep.
	MaxJitter time.Duration
}

// DefaultRetryConfig returns the configuration used for upstream API calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		BaseBackoff: time.Second,
		MaxBackoff:  30 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = time.Second
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 30 * time.Second
	}
	if c.MaxJitter < 0 {
		c.MaxJitter = 0
	}
	return c
}

// Backoff returns the sleep before retry number attempt (0-based):
// base * 2^attempt, capped, plus random jitter.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	c = c.withDefaults()
	delay := float64(c.BaseBackoff) * math.Pow(2, float64(attempt))
	if delay > float64(c.MaxBackoff) {
		delay = float64(c.MaxBackoff)
	}
	if c.MaxJitter > 0 {
		delay += rand.Float64() * float64(c.MaxJitter)
	}
	return time.Duration(delay)
}

// Do runs fn up to MaxRetries+1 times, retrying only transient failures.
// Fatal errors and context cancellation stop immediately.
func Do(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	cfg = cfg.withDefaults()

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if ctx.Err() != nil {
			return lastErr
		}

		if !IsTransient(lastErr) {
			return lastErr
		}

		if attempt == cfg.MaxRetries {
			break
		}

		timer := time.NewTimer(cfg.Backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}

	return lastErr
}
