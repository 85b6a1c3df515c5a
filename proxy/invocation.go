package proxy

import (
	"fmt"
	"reflect"

	"github.com/kbukum/aopkit/advice"
	"github.com/kbukum/aopkit/errors"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// reflectiveInvocation walks an interceptor chain with a single cursor
// and reflectively calls the target method when the chain is exhausted.
// Each Proceed consumes one chain position; an interceptor that needs to
// run the rest of the chain more than once must work on clones.
type reflectiveInvocation struct {
	method     reflect.Method
	args       []any
	target     any
	targetType reflect.Type
	proxy      any
	chain      []advice.Interceptor
	cursor     int
}

func newInvocation(method reflect.Method, args []any, target any, targetType reflect.Type, proxy any, chain []advice.Interceptor) *reflectiveInvocation {
	return &reflectiveInvocation{
		method:     method,
		args:       args,
		target:     target,
		targetType: targetType,
		proxy:      proxy,
		chain:      chain,
	}
}

func (inv *reflectiveInvocation) Method() reflect.Method   { return inv.method }
func (inv *reflectiveInvocation) Args() []any              { return inv.args }
func (inv *reflectiveInvocation) Target() any              { return inv.target }
func (inv *reflectiveInvocation) TargetType() reflect.Type { return inv.targetType }
func (inv *reflectiveInvocation) Proxy() any               { return inv.proxy }

// Proceed runs the next interceptor, or the target method once the chain
// is exhausted.
func (inv *reflectiveInvocation) Proceed() ([]any, error) {
	if inv.cursor >= len(inv.chain) {
		return inv.invokeJoinPoint()
	}
	next := inv.chain[inv.cursor]
	inv.cursor++
	return next.Invoke(inv)
}

// Clone returns an independent invocation sharing the chain but with its
// own cursor, positioned where this one currently is. Passing args
// replaces the argument list on the clone.
func (inv *reflectiveInvocation) Clone(args ...[]any) advice.Invocation {
	cloneArgs := inv.args
	if len(args) > 0 {
		cloneArgs = args[0]
	}
	copied := make([]any, len(cloneArgs))
	copy(copied, cloneArgs)
	dup := *inv
	dup.args = copied
	return &dup
}

func (inv *reflectiveInvocation) invokeJoinPoint() ([]any, error) {
	return callTargetMethod(inv.target, inv.method.Name, inv.args)
}

// callTargetMethod reflectively invokes the named method on target and
// splits a trailing error return out of the result values.
func callTargetMethod(target any, name string, args []any) ([]any, error) {
	if target == nil {
		return nil, errors.TargetUnavailable("no target instance for method " + name)
	}
	rv := reflect.ValueOf(target)
	m := rv.MethodByName(name)
	if !m.IsValid() {
		return nil, errors.UnknownMethod(name, rv.Type().String())
	}
	in, err := convertArgs(m.Type(), name, args)
	if err != nil {
		return nil, err
	}
	return splitResults(m.Type(), m.Call(in))
}

// convertArgs maps loosely typed call arguments onto the method's
// parameter types, flattening variadic tails and turning nil into the
// parameter's zero value.
func convertArgs(mt reflect.Type, name string, args []any) ([]reflect.Value, error) {
	fixed := mt.NumIn()
	if mt.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, errors.Invocation(name, fmt.Sprintf("got %d arguments, need at least %d", len(args), fixed))
		}
	} else if len(args) != fixed {
		return nil, errors.Invocation(name, fmt.Sprintf("got %d arguments, want %d", len(args), fixed))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var paramType reflect.Type
		if i < fixed {
			paramType = mt.In(i)
		} else {
			paramType = mt.In(mt.NumIn() - 1).Elem()
		}
		v, err := convertArg(paramType, name, i, arg)
		if err != nil {
			return nil, err
		}
		in[i] = v
	}
	return in, nil
}

func convertArg(paramType reflect.Type, name string, index int, arg any) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(paramType), nil
	}
	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(paramType) {
		if v.Type().ConvertibleTo(paramType) && v.Kind() != reflect.String && paramType.Kind() != reflect.String {
			return v.Convert(paramType), nil
		}
		return reflect.Value{}, errors.Invocation(name,
			fmt.Sprintf("argument %d has type %s, want %s", index, v.Type(), paramType))
	}
	return v, nil
}

// splitResults promotes a trailing error return value onto the error
// path and hands the remaining values back as the result slice.
func splitResults(mt reflect.Type, outs []reflect.Value) ([]any, error) {
	n := len(outs)
	var callErr error
	if n > 0 && mt.Out(n-1) == errType {
		if e := outs[n-1].Interface(); e != nil {
			callErr = e.(error)
		}
		outs = outs[:n-1]
	}
	results := make([]any, len(outs))
	for i, out := range outs {
		results[i] = out.Interface()
	}
	return results, callErr
}

// resultWidth is the number of result values a chain must deliver for a
// method: all declared returns except a trailing error.
func resultWidth(mt reflect.Type) int {
	n := mt.NumOut()
	if n > 0 && mt.Out(n-1) == errType {
		n--
	}
	return n
}

// postProcess applies the result contract after a chain completes:
// a result identical to the raw target is replaced by the proxy (unless
// the method's declaring type opts into raw target access), and a nil
// result in a position whose declared type cannot hold nil is rejected.
func postProcess(results []any, err error, method reflect.Method, declaredOn reflect.Type, target, proxy any) ([]any, error) {
	if err != nil {
		return results, err
	}
	ft := methodFuncType(method.Type, declaredOn)
	width := resultWidth(ft)
	if len(results) != width {
		return nil, errors.Invocation(method.Name,
			fmt.Sprintf("chain produced %d results, want %d", len(results), width))
	}
	rawAccess := declaredOn != nil && declaredOn.Kind() == reflect.Interface && declaredOn.Implements(rawTargetAccessType)
	for i, res := range results {
		outType := ft.Out(i)
		if res == nil {
			if !nilable(outType) {
				return nil, errors.Invocation(method.Name,
					fmt.Sprintf("nil result for non-nilable return %d (%s)", i, outType))
			}
			continue
		}
		if !rawAccess && target != nil && identical(res, target) {
			results[i] = proxy
		}
	}
	return results, nil
}

var rawTargetAccessType = reflect.TypeOf((*RawTargetAccess)(nil)).Elem()

// methodFuncType returns the callable signature of a method without a
// leading receiver parameter, regardless of whether it came from an
// interface or a concrete type.
func methodFuncType(mt reflect.Type, declaredOn reflect.Type) reflect.Type {
	if declaredOn != nil && declaredOn.Kind() != reflect.Interface && mt.NumIn() > 0 {
		ins := make([]reflect.Type, 0, mt.NumIn()-1)
		for i := 1; i < mt.NumIn(); i++ {
			ins = append(ins, mt.In(i))
		}
		outs := make([]reflect.Type, mt.NumOut())
		for i := range outs {
			outs[i] = mt.Out(i)
		}
		return reflect.FuncOf(ins, outs, mt.IsVariadic())
	}
	return mt
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// identical reports whether two values are the same instance. Only
// comparable representations are considered; values that would panic
// under == are never identical.
func identical(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil || !ta.Comparable() {
		return false
	}
	return a == b
}
