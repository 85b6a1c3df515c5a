package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrRateLimited rejects calls that exceed the configured rate.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitPolicy configures a token-bucket limiter.
type RateLimitPolicy struct {
	// Rate is the sustained calls per second.
	Rate float64
	// Burst is the bucket capacity.
	Burst int
}

// DefaultRateLimitPolicy allows 100 calls per second with a burst of
// 100.
func DefaultRateLimitPolicy() RateLimitPolicy {
	return RateLimitPolicy{Rate: 100, Burst: 100}
}

// RateLimiter is a token bucket. Allow consumes a token when one is
// available; Wait blocks until one is.
type RateLimiter struct {
	policy RateLimitPolicy

	mu     sync.Mutex
	tokens float64
	last   time.Time
	now    func() time.Time
}

// NewRateLimiter builds a full bucket.
func NewRateLimiter(policy RateLimitPolicy) *RateLimiter {
	if policy.Rate <= 0 {
		policy.Rate = 100
	}
	if policy.Burst <= 0 {
		policy.Burst = int(policy.Rate)
		if policy.Burst < 1 {
			policy.Burst = 1
		}
	}
	rl := &RateLimiter{policy: policy, now: time.Now}
	rl.tokens = float64(policy.Burst)
	rl.last = rl.now()
	return rl
}

// Allow consumes one token if available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or the context ends.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		rl.refillLocked()
		if rl.tokens >= 1 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}
		deficit := 1 - rl.tokens
		rl.mu.Unlock()

		delay := time.Duration(deficit / rl.policy.Rate * float64(time.Second))
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// Execute runs fn if a token is available, otherwise fails with
// ErrRateLimited.
func (rl *RateLimiter) Execute(fn func() error) error {
	if !rl.Allow() {
		return ErrRateLimited
	}
	return fn()
}

// Tokens reports the current token count.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

func (rl *RateLimiter) refillLocked() {
	now := rl.now()
	elapsed := now.Sub(rl.last).Seconds()
	rl.last = now
	rl.tokens += elapsed * rl.policy.Rate
	if burst := float64(rl.policy.Burst); rl.tokens > burst {
		rl.tokens = burst
	}
}
