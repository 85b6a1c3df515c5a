package proxy

import (
	"reflect"

	"github.com/kbukum/aopkit/errors"
)

// TargetSource supplies the real object a proxy delegates to.
type TargetSource interface {
	// TargetType returns the static type of supplied targets.
	TargetType() reflect.Type
	// IsStatic reports whether Acquire always returns the same instance.
	// Static sources never need Release.
	IsStatic() bool
	// Acquire obtains a target instance for one call.
	Acquire() (any, error)
	// Release returns an instance obtained from Acquire. For a dynamic
	// source every Acquire must be paired with exactly one Release.
	Release(target any) error
}

// StaticTargetSource holds one fixed target instance.
type StaticTargetSource struct {
	target any
}

// NewStaticTargetSource wraps a fixed instance.
func NewStaticTargetSource(target any) *StaticTargetSource {
	return &StaticTargetSource{target: target}
}

func (s *StaticTargetSource) TargetType() reflect.Type {
	if s.target == nil {
		return nil
	}
	return reflect.TypeOf(s.target)
}

func (s *StaticTargetSource) IsStatic() bool        { return true }
func (s *StaticTargetSource) Acquire() (any, error) { return s.target, nil }
func (s *StaticTargetSource) Release(any) error     { return nil }

// PooledTargetSource supplies targets from a bounded pool, creating them
// with a factory function when the pool is empty. Each Acquire must be
// balanced by a Release, which returns the instance to the pool or drops
// it when the pool is full.
type PooledTargetSource struct {
	targetType reflect.Type
	factory    func() (any, error)
	pool       chan any
}

// NewPooledTargetSource builds a dynamic source. targetType describes the
// instances the factory produces; size bounds the idle pool.
func NewPooledTargetSource(targetType reflect.Type, size int, factory func() (any, error)) *PooledTargetSource {
	if size < 1 {
		size = 1
	}
	return &PooledTargetSource{
		targetType: targetType,
		factory:    factory,
		pool:       make(chan any, size),
	}
}

func (p *PooledTargetSource) TargetType() reflect.Type { return p.targetType }
func (p *PooledTargetSource) IsStatic() bool           { return false }

func (p *PooledTargetSource) Acquire() (any, error) {
	select {
	case target := <-p.pool:
		return target, nil
	default:
	}
	target, err := p.factory()
	if err != nil {
		return nil, errors.TargetUnavailable("target factory failed").WithCause(err)
	}
	if target == nil {
		return nil, errors.TargetUnavailable("target factory returned nil")
	}
	return target, nil
}

func (p *PooledTargetSource) Release(target any) error {
	if target == nil {
		return nil
	}
	select {
	case p.pool <- target:
	default:
		// Pool full; drop the instance.
	}
	return nil
}

// emptyTargetSource is the nothing-to-proxy placeholder used before a
// target is configured.
type emptyTargetSource struct{}

func (emptyTargetSource) TargetType() reflect.Type { return nil }
func (emptyTargetSource) IsStatic() bool           { return true }
func (emptyTargetSource) Acquire() (any, error)    { return nil, nil }
func (emptyTargetSource) Release(any) error        { return nil }

// EmptyTargetSource is the canonical placeholder target source.
var EmptyTargetSource TargetSource = emptyTargetSource{}
