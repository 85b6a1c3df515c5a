package advisor

import (
	"reflect"

	"github.com/kbukum/aopkit/gls"
)

// matchingTarget holds the name of the target currently being matched on
// this goroutine. Filters triggered re-entrantly during matching (for
// example a pointcut that resolves another advised object) can read it.
var matchingTarget = gls.NewSlot()

// CurrentTargetName returns the name of the target currently being
// matched on this goroutine, if matching is in progress.
func CurrentTargetName() (string, bool) {
	v, ok := matchingTarget.Get()
	if !ok {
		return "", false
	}
	return v.(string), true
}

// FindApplicable filters candidates down to the advisors whose pointcuts
// can apply to targetType. The result preserves declaration order and the
// call is idempotent. While filters run, the target name is published via
// CurrentTargetName; the previous value is restored on return, including
// panic exits.
func FindApplicable(candidates []*Advisor, targetType reflect.Type, targetName string) []*Advisor {
	restore := matchingTarget.Push(targetName)
	defer restore()

	var methods []reflect.Method
	out := make([]*Advisor, 0, len(candidates))
	for _, candidate := range candidates {
		if !candidate.Pointcut().TypeFilter().Matches(targetType) {
			continue
		}
		if candidate.IsIntroduction() {
			// Introductions apply on a type-filter match alone.
			out = append(out, candidate)
			continue
		}
		mm := candidate.Pointcut().MethodMatcher()
		if mm.IsRuntime() {
			// The final decision needs call arguments; defer to call time.
			out = append(out, candidate)
			continue
		}
		if methods == nil {
			methods = exportedMethods(targetType)
		}
		for _, m := range methods {
			if mm.Matches(m, targetType) {
				out = append(out, candidate)
				break
			}
		}
	}
	return out
}

// exportedMethods returns the callable method set of a type: all methods
// for an interface type, exported methods otherwise.
func exportedMethods(t reflect.Type) []reflect.Method {
	n := t.NumMethod()
	methods := make([]reflect.Method, 0, n)
	for i := 0; i < n; i++ {
		m := t.Method(i)
		if t.Kind() == reflect.Interface || m.IsExported() {
			methods = append(methods, m)
		}
	}
	return methods
}
