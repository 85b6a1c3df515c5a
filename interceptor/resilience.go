package interceptor

import (
	"github.com/kbukum/aopkit/advice"
	"github.com/kbukum/aopkit/resilience"
)

// Retry re-runs the remaining chain on failure, one clone per attempt,
// according to its policy.
type Retry struct {
	policy resilience.RetryPolicy
}

// NewRetry builds a retry interceptor.
func NewRetry(policy resilience.RetryPolicy) *Retry {
	return &Retry{policy: policy}
}

func (r *Retry) Invoke(inv advice.Invocation) ([]any, error) {
	return resilience.RetryValue(callContext(inv), r.policy, func() ([]any, error) {
		return inv.Clone().Proceed()
	})
}

// CircuitBreaker fails calls fast while the underlying method keeps
// failing. One breaker instance guards all methods it is attached to;
// use separate advisors for per-method breakers.
type CircuitBreaker struct {
	breaker *resilience.CircuitBreaker
}

// NewCircuitBreaker builds a breaker interceptor.
func NewCircuitBreaker(policy resilience.BreakerPolicy) *CircuitBreaker {
	return &CircuitBreaker{breaker: resilience.NewCircuitBreaker(policy)}
}

// State exposes the breaker position for health reporting.
func (c *CircuitBreaker) State() resilience.BreakerState {
	return c.breaker.State()
}

func (c *CircuitBreaker) Invoke(inv advice.Invocation) ([]any, error) {
	var results []any
	err := c.breaker.Execute(func() error {
		var perr error
		results, perr = inv.Proceed()
		return perr
	})
	return results, err
}

// Throttle bounds how many intercepted calls run concurrently.
type Throttle struct {
	bulkhead *resilience.Bulkhead
}

// NewThrottle builds a concurrency-limiting interceptor.
func NewThrottle(policy resilience.BulkheadPolicy) *Throttle {
	return &Throttle{bulkhead: resilience.NewBulkhead(policy)}
}

func (t *Throttle) Invoke(inv advice.Invocation) ([]any, error) {
	var results []any
	err := t.bulkhead.Execute(callContext(inv), func() error {
		var perr error
		results, perr = inv.Proceed()
		return perr
	})
	return results, err
}

// RateLimit rejects calls beyond the configured rate. With Wait set it
// blocks for a token instead of rejecting.
type RateLimit struct {
	limiter *resilience.RateLimiter
	wait    bool
}

// NewRateLimit builds a rejecting rate limiter interceptor.
func NewRateLimit(policy resilience.RateLimitPolicy) *RateLimit {
	return &RateLimit{limiter: resilience.NewRateLimiter(policy)}
}

// NewRateLimitWait builds a blocking rate limiter interceptor.
func NewRateLimitWait(policy resilience.RateLimitPolicy) *RateLimit {
	return &RateLimit{limiter: resilience.NewRateLimiter(policy), wait: true}
}

func (r *RateLimit) Invoke(inv advice.Invocation) ([]any, error) {
	if r.wait {
		if err := r.limiter.Wait(callContext(inv)); err != nil {
			return nil, err
		}
		return inv.Proceed()
	}
	var results []any
	err := r.limiter.Execute(func() error {
		var perr error
		results, perr = inv.Proceed()
		return perr
	})
	return results, err
}
