package interceptor

import (
	"context"

	"github.com/kbukum/aopkit/advice"
	"github.com/kbukum/aopkit/observability"
)

// Tracing records one span per intercepted call on the global tracer
// provider.
type Tracing struct{}

// NewTracing builds a tracing interceptor.
func NewTracing() *Tracing { return &Tracing{} }

func (t *Tracing) Invoke(inv advice.Invocation) ([]any, error) {
	ctx, span := observability.StartCallSpan(callContext(inv), targetTypeName(inv), inv.Method().Name)
	// Thread the span context through to the target when the call
	// carries one.
	if args := inv.Args(); len(args) > 0 {
		if _, ok := args[0].(context.Context); ok {
			args[0] = ctx
		}
	}
	results, err := inv.Proceed()
	observability.EndCallSpan(span, err)
	return results, err
}
