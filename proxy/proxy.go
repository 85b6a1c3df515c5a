package proxy

import (
	"fmt"
	"reflect"

	"github.com/kbukum/aopkit/advice"
	"github.com/kbukum/aopkit/advisor"
	"github.com/kbukum/aopkit/errors"
	"github.com/kbukum/aopkit/logger"
)

// Proxy is an interception handle over a target. Calls go through
// Invoke, which looks up the method's dispatch strategy and runs the
// applicable interceptor chain around the target method. Bind projects
// the same dispatch onto a typed struct of function fields for callers
// that want compile-time signatures.
type Proxy struct {
	cfg       *AdvisedSupport
	baseType  reflect.Type
	callsites map[string]*callsite
	log       *logger.Logger
}

// Invoke calls a proxied method by name. Results carry every declared
// return value except a trailing error, which comes back on the error
// path.
func (p *Proxy) Invoke(method string, args ...any) ([]any, error) {
	cs, ok := p.callsites[method]
	if !ok {
		base := "<none>"
		if p.baseType != nil {
			base = p.baseType.String()
		}
		return nil, errors.UnknownMethod(method, base)
	}
	switch cs.kind {
	case csNoOverride:
		return nil, errors.Invocation(method, "method is excluded from interception")
	case csAdvised:
		return p.invokeAdvised(cs, args)
	case csEquals:
		if len(args) != 1 {
			return nil, errors.Invocation(method, "want exactly one argument")
		}
		return []any{p.Equals(args[0])}, nil
	case csHashCode:
		return []any{p.HashCode()}, nil
	case csPassthrough:
		target, release, err := p.acquireTarget()
		if err != nil {
			return nil, err
		}
		defer release()
		return callTargetMethod(target, method, args)
	case csDirect, csDirectGuarded:
		return p.invokeDirect(cs, args)
	case csFixedChain:
		return p.invokeChain(cs, cs.chain, args, false)
	default: // csFullChain
		chain, err := p.cfg.ChainFor(cs.method, p.baseType)
		if err != nil {
			return nil, err
		}
		return p.invokeChain(cs, chain, args, p.cfg.IsExposeProxy())
	}
}

// invokeChain runs the interceptor chain and post-processes the result.
func (p *Proxy) invokeChain(cs *callsite, chain []advice.Interceptor, args []any, expose bool) ([]any, error) {
	target, release, err := p.acquireTarget()
	if err != nil {
		return nil, err
	}
	defer release()
	if expose {
		restore := currentProxy.Push(p)
		defer restore()
	}
	var results []any
	if len(chain) == 0 {
		results, err = callTargetMethod(target, cs.method.Name, args)
	} else {
		inv := newInvocation(cs.method, args, target, p.baseType, p, chain)
		results, err = inv.Proceed()
	}
	return postProcess(results, err, cs.method, cs.declaredOn, target, p)
}

// invokeDirect bypasses chain machinery for adviceless frozen
// configurations, still honoring expose-proxy, dynamic target release
// and result post-processing.
func (p *Proxy) invokeDirect(cs *callsite, args []any) ([]any, error) {
	target, release, err := p.acquireTarget()
	if err != nil {
		return nil, err
	}
	defer release()
	if cs.kind == csDirectGuarded && p.cfg.IsExposeProxy() {
		restore := currentProxy.Push(p)
		defer restore()
	}
	results, err := callTargetMethod(target, cs.method.Name, args)
	return postProcess(results, err, cs.method, cs.declaredOn, target, p)
}

// invokeAdvised routes a control-surface call to the configuration.
func (p *Proxy) invokeAdvised(cs *callsite, args []any) ([]any, error) {
	m := reflect.ValueOf(p.cfg).MethodByName(cs.method.Name)
	if !m.IsValid() {
		return nil, errors.UnknownMethod(cs.method.Name, "proxy configuration")
	}
	in, err := convertArgs(m.Type(), cs.method.Name, args)
	if err != nil {
		return nil, err
	}
	return splitResults(m.Type(), m.Call(in))
}

func (p *Proxy) acquireTarget() (any, func(), error) {
	ts := p.cfg.TargetSource()
	target, err := ts.Acquire()
	if err != nil {
		return nil, nil, err
	}
	if ts.IsStatic() {
		return target, func() {}, nil
	}
	return target, func() {
		if relErr := ts.Release(target); relErr != nil {
			p.log.Warn("target release failed", logger.ErrorFields("release", relErr))
		}
	}, nil
}

// Equals compares proxy configurations, not targets: two proxies are
// equal when their advisor lists, target type, interfaces and flags
// would produce interchangeable proxies.
func (p *Proxy) Equals(other any) bool {
	switch o := other.(type) {
	case *Proxy:
		return configEqual(p.cfg, o.cfg)
	case *AdvisedSupport:
		return configEqual(p.cfg, o)
	default:
		return false
	}
}

// HashCode folds the advice implementation types and proxying flags into
// a stable 64-bit value consistent with Equals.
func (p *Proxy) HashCode() uint64 {
	return configHash(p.cfg)
}

// TargetType returns the static type of the proxied target.
func (p *Proxy) TargetType() reflect.Type { return p.baseType }

// Bind fills a pointer-to-struct of exported function fields so each
// field calls the proxied method of the same name through Invoke. Field
// signatures must match the proxied method; a mismatch fails here, not
// at call time. A substituted self-return only fits fields whose return
// type can hold the *Proxy handle (any); other fields surface it as an
// invocation error, or panic when the field has no error return.
func (p *Proxy) Bind(facade any) error {
	pv := reflect.ValueOf(facade)
	if !pv.IsValid() || pv.Kind() != reflect.Pointer || pv.Elem().Kind() != reflect.Struct {
		return errors.Config("facade must be a pointer to a struct of function fields")
	}
	sv := pv.Elem()
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if field.PkgPath != "" || field.Type.Kind() != reflect.Func {
			continue
		}
		cs, ok := p.callsites[field.Name]
		if !ok {
			base := "<none>"
			if p.baseType != nil {
				base = p.baseType.String()
			}
			return errors.UnknownMethod(field.Name, base)
		}
		if err := checkBindSignature(field.Type, cs); err != nil {
			return err
		}
		sv.Field(i).Set(p.makeBoundFunc(field.Name, field.Type))
	}
	return nil
}

// checkBindSignature verifies a facade field can carry the proxied
// method: parameters must be assignable into the method, results must be
// assignable out of it.
func checkBindSignature(ft reflect.Type, cs *callsite) error {
	msig := methodFuncType(cs.method.Type, cs.declaredOn)
	name := cs.method.Name
	if ft.NumIn() != msig.NumIn() || ft.IsVariadic() != msig.IsVariadic() {
		return errors.Config(fmt.Sprintf("facade field %s: parameter count mismatch (have %s, want %s)", name, ft, msig))
	}
	for i := 0; i < ft.NumIn(); i++ {
		if !ft.In(i).AssignableTo(msig.In(i)) {
			return errors.Config(fmt.Sprintf("facade field %s: parameter %d has type %s, want %s", name, i, ft.In(i), msig.In(i)))
		}
	}
	if ft.NumOut() != msig.NumOut() {
		return errors.Config(fmt.Sprintf("facade field %s: result count mismatch (have %s, want %s)", name, ft, msig))
	}
	for i := 0; i < ft.NumOut(); i++ {
		if ft.Out(i) == msig.Out(i) || msig.Out(i).AssignableTo(ft.Out(i)) {
			continue
		}
		return errors.Config(fmt.Sprintf("facade field %s: result %d has type %s, want %s", name, i, ft.Out(i), msig.Out(i)))
	}
	return nil
}

func (p *Proxy) makeBoundFunc(name string, ft reflect.Type) reflect.Value {
	hasErrOut := ft.NumOut() > 0 && ft.Out(ft.NumOut()-1) == errType
	return reflect.MakeFunc(ft, func(in []reflect.Value) []reflect.Value {
		args := make([]any, 0, len(in))
		for i, v := range in {
			if ft.IsVariadic() && i == len(in)-1 {
				for j := 0; j < v.Len(); j++ {
					args = append(args, v.Index(j).Interface())
				}
				continue
			}
			args = append(args, v.Interface())
		}
		results, err := p.Invoke(name, args...)
		return p.bindResults(name, ft, hasErrOut, results, err)
	})
}

// bindResults maps Invoke output back onto the facade field's declared
// results.
func (p *Proxy) bindResults(name string, ft reflect.Type, hasErrOut bool, results []any, err error) []reflect.Value {
	numOut := ft.NumOut()
	valueOuts := numOut
	if hasErrOut {
		valueOuts--
	}
	outs := make([]reflect.Value, numOut)
	for i := 0; i < valueOuts; i++ {
		outs[i] = reflect.Zero(ft.Out(i))
		if err != nil || i >= len(results) || results[i] == nil {
			continue
		}
		rv := reflect.ValueOf(results[i])
		if rv.Type().AssignableTo(ft.Out(i)) {
			outs[i] = rv
			continue
		}
		if err == nil {
			err = errors.Invocation(name,
				fmt.Sprintf("result %d of type %s does not fit facade return %s; self-returning methods need an any return or a direct Invoke call", i, rv.Type(), ft.Out(i)))
		}
	}
	if hasErrOut {
		outs[numOut-1] = reflect.Zero(errType)
		if err != nil {
			outs[numOut-1] = reflect.ValueOf(&err).Elem()
		}
		return outs
	}
	if err != nil {
		panic(err)
	}
	return outs
}

// Advised delegation: a *Proxy satisfies Advised by forwarding to its
// configuration. Opaque proxies hide these from name-based dispatch but
// Go callers holding the concrete *Proxy can still introspect.

func (p *Proxy) Advisors() []*advisor.Advisor { return p.cfg.Advisors() }

func (p *Proxy) AddAdvisor(a *advisor.Advisor) error { return p.cfg.AddAdvisor(a) }

func (p *Proxy) AddAdvisorAt(index int, a *advisor.Advisor) error {
	return p.cfg.AddAdvisorAt(index, a)
}

func (p *Proxy) AddAdvice(adv advice.Advice) error { return p.cfg.AddAdvice(adv) }

func (p *Proxy) RemoveAdvisorAt(index int) error { return p.cfg.RemoveAdvisorAt(index) }

func (p *Proxy) ReplaceAdvisor(old, replacement *advisor.Advisor) (bool, error) {
	return p.cfg.ReplaceAdvisor(old, replacement)
}

func (p *Proxy) TargetSource() TargetSource { return p.cfg.TargetSource() }

func (p *Proxy) Interfaces() []reflect.Type { return p.cfg.Interfaces() }

func (p *Proxy) IsFrozen() bool          { return p.cfg.IsFrozen() }
func (p *Proxy) IsExposeProxy() bool     { return p.cfg.IsExposeProxy() }
func (p *Proxy) IsOptimize() bool        { return p.cfg.IsOptimize() }
func (p *Proxy) IsOpaque() bool          { return p.cfg.IsOpaque() }
func (p *Proxy) IsProxyTargetType() bool { return p.cfg.IsProxyTargetType() }
func (p *Proxy) IsPreFiltered() bool     { return p.cfg.IsPreFiltered() }
