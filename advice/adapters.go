package advice

import (
	"fmt"
	"sync"
)

// Adapter recognizes one advice kind and wraps it as an Interceptor.
type Adapter interface {
	Supports(a Advice) bool
	Wrap(a Advice) Interceptor
}

// AdapterRegistry converts arbitrary advice into interceptors. An advice
// value implementing several advice interfaces yields one interceptor per
// matching adapter, in registration order.
type AdapterRegistry struct {
	mu       sync.RWMutex
	adapters []Adapter
}

// NewAdapterRegistry returns a registry preloaded with the built-in
// Before, AfterReturning, and Throws adapters.
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{
		adapters: []Adapter{beforeAdapter{}, afterReturningAdapter{}, throwsAdapter{}},
	}
}

// Register appends a custom adapter.
func (r *AdapterRegistry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = append(r.adapters, a)
}

// Interceptors returns every interceptor form of the given advice. An
// Interceptor passes through unchanged (and still picks up adapter
// wrappings for any additional advice interfaces it implements).
func (r *AdapterRegistry) Interceptors(a Advice) ([]Interceptor, error) {
	var out []Interceptor
	if ic, ok := a.(Interceptor); ok {
		out = append(out, ic)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, adapter := range r.adapters {
		if adapter.Supports(a) {
			out = append(out, adapter.Wrap(a))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("advice type %T is neither an interceptor nor a supported advice kind", a)
	}
	return out, nil
}

// DefaultAdapterRegistry is the registry used when none is configured.
var DefaultAdapterRegistry = NewAdapterRegistry()

// --- built-in adapters ---

type beforeAdapter struct{}

func (beforeAdapter) Supports(a Advice) bool {
	_, ok := a.(Before)
	return ok
}

func (beforeAdapter) Wrap(a Advice) Interceptor {
	return &beforeInterceptor{advice: a.(Before)}
}

type beforeInterceptor struct {
	advice Before
}

func (b *beforeInterceptor) Invoke(inv Invocation) ([]any, error) {
	if err := b.advice.Before(inv.Method(), inv.Args(), inv.Target()); err != nil {
		return nil, err
	}
	return inv.Proceed()
}

type afterReturningAdapter struct{}

func (afterReturningAdapter) Supports(a Advice) bool {
	_, ok := a.(AfterReturning)
	return ok
}

func (afterReturningAdapter) Wrap(a Advice) Interceptor {
	return &afterReturningInterceptor{advice: a.(AfterReturning)}
}

type afterReturningInterceptor struct {
	advice AfterReturning
}

func (a *afterReturningInterceptor) Invoke(inv Invocation) ([]any, error) {
	results, err := inv.Proceed()
	if err != nil {
		return results, err
	}
	if err := a.advice.AfterReturning(results, inv.Method(), inv.Args(), inv.Target()); err != nil {
		return nil, err
	}
	return results, nil
}

type throwsAdapter struct{}

func (throwsAdapter) Supports(a Advice) bool {
	_, ok := a.(Throws)
	return ok
}

func (throwsAdapter) Wrap(a Advice) Interceptor {
	return &throwsInterceptor{advice: a.(Throws)}
}

type throwsInterceptor struct {
	advice Throws
}

func (t *throwsInterceptor) Invoke(inv Invocation) ([]any, error) {
	results, err := inv.Proceed()
	if err != nil {
		t.advice.AfterThrowing(inv.Method(), inv.Args(), inv.Target(), err)
	}
	return results, err
}
