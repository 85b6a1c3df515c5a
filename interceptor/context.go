package interceptor

import (
	"context"
	"reflect"

	"github.com/kbukum/aopkit/advice"
)

// callContext extracts the context of the intercepted call from its
// first argument, when the target method follows the usual Go
// convention of taking one.
func callContext(inv advice.Invocation) context.Context {
	args := inv.Args()
	if len(args) > 0 {
		if ctx, ok := args[0].(context.Context); ok && ctx != nil {
			return ctx
		}
	}
	return context.Background()
}

// targetTypeName names the target type for log fields and telemetry
// attributes.
func targetTypeName(inv advice.Invocation) string {
	if t := inv.TargetType(); t != nil {
		return t.String()
	}
	if target := inv.Target(); target != nil {
		return reflect.TypeOf(target).String()
	}
	return "unknown"
}
