package advice

import "reflect"

// Advice is a marker for any interception logic. Concrete advice
// implements Interceptor, Before, AfterReturning, or Throws.
type Advice interface{}

// Invocation is a single method call flowing through an interceptor chain.
type Invocation interface {
	// Method is the method being invoked.
	Method() reflect.Method
	// Args returns the call arguments. Mutating the returned slice changes
	// the arguments seen by later interceptors and the target method.
	Args() []any
	// Target returns the raw object the call will be dispatched to.
	Target() any
	// TargetType returns the static type of the target.
	TargetType() reflect.Type
	// Proxy returns the proxy the call came in through.
	Proxy() any
	// Proceed runs the rest of the chain and finally the real method.
	// The returned slice holds the method's results; a trailing non-nil
	// error result is promoted to the error return instead.
	Proceed() ([]any, error)
	// Clone returns an independent invocation whose Proceed can be called
	// once, regardless of how far this invocation has proceeded. An
	// optional argument slice replaces the call arguments.
	Clone(args ...[]any) Invocation
}

// Interceptor is around advice: it receives the invocation and decides
// whether, how, and how often to call Proceed.
type Interceptor interface {
	Invoke(inv Invocation) ([]any, error)
}

// Before advice runs ahead of the join point. Returning an error aborts
// the call before the target method runs.
type Before interface {
	Before(m reflect.Method, args []any, target any) error
}

// AfterReturning advice runs after the join point returned successfully.
// Returning an error replaces the successful result.
type AfterReturning interface {
	AfterReturning(results []any, m reflect.Method, args []any, target any) error
}

// Throws advice observes errors from the join point. It cannot swallow
// them; the original error still propagates.
type Throws interface {
	AfterThrowing(m reflect.Method, args []any, target any, err error)
}

// InterceptorFunc adapts a function to the Interceptor interface.
type InterceptorFunc func(inv Invocation) ([]any, error)

// Invoke calls f.
func (f InterceptorFunc) Invoke(inv Invocation) ([]any, error) { return f(inv) }
