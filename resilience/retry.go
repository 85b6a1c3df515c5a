package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// ErrAttemptsExhausted is wrapped into the final error when every
// attempt failed.
var ErrAttemptsExhausted = errors.New("retry attempts exhausted")

// RetryPolicy bounds how often and how eagerly a failed call is retried.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// Backoff is the delay before the first retry.
	Backoff time.Duration
	// MaxBackoff caps the exponentially growing delay.
	MaxBackoff time.Duration
	// Multiplier grows the delay between consecutive retries.
	Multiplier float64
	// Jitter randomizes each delay by the given fraction (0..1).
	Jitter float64
	// ShouldRetry filters retryable errors. Nil retries everything
	// except context cancellation.
	ShouldRetry func(error) bool
	// OnRetry observes each retry before its backoff sleep.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultRetryPolicy retries three times with exponential backoff from
// 100ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:   3,
		Backoff:    100 * time.Millisecond,
		MaxBackoff: 10 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.1,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = 3
	}
	if p.Backoff <= 0 {
		p.Backoff = 100 * time.Millisecond
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = 10 * time.Second
	}
	if p.Multiplier <= 1 {
		p.Multiplier = 2.0
	}
	if p.ShouldRetry == nil {
		p.ShouldRetry = func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}
	}
	return p
}

// Do runs fn until it succeeds, the policy is exhausted, or the context
// ends.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	_, err := RetryValue(ctx, p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// RetryValue is Do for functions that produce a value.
func RetryValue[T any](ctx context.Context, p RetryPolicy, fn func() (T, error)) (T, error) {
	var zero T
	p = p.normalized()

	var lastErr error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !p.ShouldRetry(err) || attempt == p.Attempts {
			break
		}
		delay := p.delayFor(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, delay)
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, errors.Join(ErrAttemptsExhausted, lastErr)
}

func (p RetryPolicy) delayFor(attempt int) time.Duration {
	delay := float64(p.Backoff) * math.Pow(p.Multiplier, float64(attempt-1))
	if capped := float64(p.MaxBackoff); delay > capped {
		delay = capped
	}
	if p.Jitter > 0 {
		delay += delay * p.Jitter * (2*rand.Float64() - 1)
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}
