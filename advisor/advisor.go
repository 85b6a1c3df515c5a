package advisor

import (
	"reflect"

	"github.com/kbukum/aopkit/advice"
	"github.com/kbukum/aopkit/pointcut"
)

// Ordered is implemented by advice that declares its own priority.
// Lower values run earlier.
type Ordered interface {
	Order() int
}

// Advisor pairs a pointcut with advice and an optional priority.
// Immutable after construction.
type Advisor struct {
	pc         pointcut.Pointcut
	adv        advice.Advice
	name       string
	order      int
	ordered    bool
	introduced []reflect.Type
}

// Option configures an Advisor at construction.
type Option func(*Advisor)

// WithOrder assigns an explicit priority. Lower values run earlier.
func WithOrder(order int) Option {
	return func(a *Advisor) {
		a.order = order
		a.ordered = true
	}
}

// WithName assigns a diagnostic name.
func WithName(name string) Option {
	return func(a *Advisor) { a.name = name }
}

// WithIntroducedInterfaces declares interface types the advisor introduces
// onto the proxy surface. Each type must be an interface type.
func WithIntroducedInterfaces(ifaces ...reflect.Type) Option {
	return func(a *Advisor) {
		for _, t := range ifaces {
			if t.Kind() != reflect.Interface {
				panic("advisor: introduced type " + t.String() + " is not an interface")
			}
		}
		a.introduced = append(a.introduced, ifaces...)
	}
}

// New builds an advisor. A nil pointcut matches everything.
func New(pc pointcut.Pointcut, adv advice.Advice, opts ...Option) *Advisor {
	if pc == nil {
		pc = pointcut.True
	}
	a := &Advisor{pc: pc, adv: adv}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Pointcut returns the advisor's pointcut.
func (a *Advisor) Pointcut() pointcut.Pointcut { return a.pc }

// Advice returns the advisor's advice.
func (a *Advisor) Advice() advice.Advice { return a.adv }

// Name returns the diagnostic name, which may be empty.
func (a *Advisor) Name() string { return a.name }

// Order returns the advisor's priority. The boolean reports whether one
// was declared, either explicitly or by the advice implementing Ordered.
func (a *Advisor) Order() (int, bool) {
	if a.ordered {
		return a.order, true
	}
	if o, ok := a.adv.(Ordered); ok {
		return o.Order(), true
	}
	return 0, false
}

// IsIntroduction reports whether the advisor introduces interfaces.
func (a *Advisor) IsIntroduction() bool { return len(a.introduced) > 0 }

// IntroducedInterfaces returns the interfaces the advisor introduces.
func (a *Advisor) IntroducedInterfaces() []reflect.Type {
	out := make([]reflect.Type, len(a.introduced))
	copy(out, a.introduced)
	return out
}
