package resilience

import (
	"context"
	"errors"
	"time"
)

// ErrBulkheadFull rejects calls when no slot frees up within the
// configured wait.
var ErrBulkheadFull = errors.New("bulkhead full")

// BulkheadPolicy bounds concurrent executions of a protected operation.
type BulkheadPolicy struct {
	// MaxConcurrent is the number of simultaneous calls allowed.
	MaxConcurrent int
	// MaxWait is how long a call waits for a slot. Zero rejects
	// immediately when full.
	MaxWait time.Duration
}

// DefaultBulkheadPolicy allows 10 concurrent calls with no queueing.
func DefaultBulkheadPolicy() BulkheadPolicy {
	return BulkheadPolicy{MaxConcurrent: 10}
}

// Bulkhead is a slot-based concurrency limiter.
type Bulkhead struct {
	policy BulkheadPolicy
	slots  chan struct{}
}

// NewBulkhead builds a bulkhead with the policy's slot count.
func NewBulkhead(policy BulkheadPolicy) *Bulkhead {
	if policy.MaxConcurrent <= 0 {
		policy.MaxConcurrent = 10
	}
	return &Bulkhead{
		policy: policy,
		slots:  make(chan struct{}, policy.MaxConcurrent),
	}
}

// Execute runs fn inside a slot, or fails with ErrBulkheadFull when no
// slot becomes available in time.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.acquire(ctx); err != nil {
		return err
	}
	defer b.release()
	return fn()
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		return nil
	default:
	}
	if b.policy.MaxWait <= 0 {
		return ErrBulkheadFull
	}
	timer := time.NewTimer(b.policy.MaxWait)
	defer timer.Stop()
	select {
	case b.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBulkheadFull
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bulkhead) release() { <-b.slots }

// InUse reports the occupied slot count.
func (b *Bulkhead) InUse() int { return len(b.slots) }

// Available reports the free slot count.
func (b *Bulkhead) Available() int { return cap(b.slots) - len(b.slots) }
