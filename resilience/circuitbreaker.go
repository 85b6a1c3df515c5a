package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen rejects calls while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker open")

// BreakerState is the circuit breaker's position.
type BreakerState int

const (
	// Closed passes calls through and counts failures.
	Closed BreakerState = iota
	// Open rejects calls until the recovery timeout elapses.
	Open
	// HalfOpen lets probe calls through to test recovery.
	HalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerPolicy configures a CircuitBreaker.
type BreakerPolicy struct {
	// FailureThreshold is the consecutive failures that open the
	// breaker.
	FailureThreshold int
	// RecoveryTimeout is how long the breaker stays open before
	// probing.
	RecoveryTimeout time.Duration
	// HalfOpenProbes is the successful probes required to close again.
	HalfOpenProbes int
	// OnStateChange observes transitions.
	OnStateChange func(from, to BreakerState)
}

// DefaultBreakerPolicy opens after 5 consecutive failures and probes
// after 30 seconds.
func DefaultBreakerPolicy() BreakerPolicy {
	return BreakerPolicy{
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		HalfOpenProbes:   1,
	}
}

// CircuitBreaker fails calls fast once the protected operation keeps
// failing, giving it room to recover.
type CircuitBreaker struct {
	policy BreakerPolicy

	mu        sync.Mutex
	state     BreakerState
	failures  int
	successes int
	openedAt  time.Time
	now       func() time.Time
}

// NewCircuitBreaker builds a closed breaker.
func NewCircuitBreaker(policy BreakerPolicy) *CircuitBreaker {
	if policy.FailureThreshold <= 0 {
		policy.FailureThreshold = 5
	}
	if policy.RecoveryTimeout <= 0 {
		policy.RecoveryTimeout = 30 * time.Second
	}
	if policy.HalfOpenProbes <= 0 {
		policy.HalfOpenProbes = 1
	}
	return &CircuitBreaker{policy: policy, now: time.Now}
}

// Execute runs fn unless the breaker is open, recording the outcome.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}
	err := fn()
	cb.record(err)
	return err
}

// State reports the current position, accounting for recovery timeouts.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.refreshLocked()
	return cb.state
}

// Reset forces the breaker closed and clears its counters.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.transitionLocked(Closed)
}

// Failures returns the consecutive failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.refreshLocked()
	return cb.state != Open
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err == nil {
		cb.onSuccessLocked()
	} else {
		cb.onFailureLocked()
	}
}

// refreshLocked moves an expired open breaker to half-open.
func (cb *CircuitBreaker) refreshLocked() {
	if cb.state == Open && cb.now().Sub(cb.openedAt) >= cb.policy.RecoveryTimeout {
		cb.transitionLocked(HalfOpen)
	}
}

func (cb *CircuitBreaker) onSuccessLocked() {
	switch cb.state {
	case HalfOpen:
		cb.successes++
		if cb.successes >= cb.policy.HalfOpenProbes {
			cb.transitionLocked(Closed)
		}
	default:
		cb.failures = 0
	}
}

func (cb *CircuitBreaker) onFailureLocked() {
	switch cb.state {
	case HalfOpen:
		cb.transitionLocked(Open)
	default:
		cb.failures++
		if cb.failures >= cb.policy.FailureThreshold {
			cb.transitionLocked(Open)
		}
	}
}

func (cb *CircuitBreaker) transitionLocked(to BreakerState) {
	from := cb.state
	cb.state = to
	cb.failures = 0
	cb.successes = 0
	if to == Open {
		cb.openedAt = cb.now()
	}
	if from != to && cb.policy.OnStateChange != nil {
		cb.policy.OnStateChange(from, to)
	}
}
