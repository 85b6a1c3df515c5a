package proxy

import (
	"reflect"

	"github.com/kbukum/aopkit/advice"
)

// callsiteKind names the dispatch strategy chosen for one proxied
// method.
type callsiteKind uint8

const (
	// csNoOverride marks methods the proxy must never intercept.
	csNoOverride callsiteKind = iota
	// csAdvised routes control-surface methods to the configuration.
	csAdvised
	// csEquals and csHashCode answer identity queries from the
	// configuration without touching the target.
	csEquals
	csHashCode
	// csFullChain resolves the interceptor chain on every call.
	csFullChain
	// csFixedChain replays a chain pre-baked at build time.
	csFixedChain
	// csDirect calls the static target with result post-processing.
	csDirect
	// csDirectGuarded is csDirect plus per-call target acquisition
	// and/or publishing the proxy for CurrentProxy.
	csDirectGuarded
	// csPassthrough calls the target with no post-processing; chosen
	// only when the result provably cannot be the target.
	csPassthrough
)

func (k callsiteKind) String() string {
	switch k {
	case csNoOverride:
		return "no-override"
	case csAdvised:
		return "dispatch-advised"
	case csEquals:
		return "equality"
	case csHashCode:
		return "hash"
	case csFullChain:
		return "full-chain"
	case csFixedChain:
		return "fixed-chain"
	case csDirect:
		return "direct"
	case csDirectGuarded:
		return "direct-guarded"
	case csPassthrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// callsite is the build-time dispatch decision for one method. chain is
// populated only for csFixedChain.
type callsite struct {
	kind       callsiteKind
	method     reflect.Method
	declaredOn reflect.Type
	chain      []advice.Interceptor
}

// advisedType is the control surface matched by csAdvised decisions.
var advisedType = reflect.TypeOf((*Advised)(nil)).Elem()

// decideCallsite picks the dispatch strategy for one method, most
// specific rule first.
func decideCallsite(cfg *AdvisedSupport, method reflect.Method, declaredOn reflect.Type, baseType reflect.Type) (*callsite, error) {
	cs := &callsite{method: method, declaredOn: declaredOn}

	if method.PkgPath != "" {
		cs.kind = csNoOverride
		return cs, nil
	}
	if !cfg.IsOpaque() {
		if _, ok := advisedType.MethodByName(method.Name); ok {
			cs.kind = csAdvised
			return cs, nil
		}
	}
	if isEqualsShape(method, declaredOn) {
		cs.kind = csEquals
		return cs, nil
	}
	if isHashCodeShape(method, declaredOn) {
		cs.kind = csHashCode
		return cs, nil
	}

	ts := cfg.TargetSource()
	chain, err := cfg.ChainFor(method, ts.TargetType())
	if err != nil {
		return nil, err
	}
	hasChain := len(chain) > 0

	if hasChain || !cfg.IsFrozen() {
		if cfg.IsFrozen() && ts.IsStatic() && !cfg.IsExposeProxy() {
			cs.kind = csFixedChain
			cs.chain = chain
			return cs, nil
		}
		cs.kind = csFullChain
		return cs, nil
	}

	// No advice on a frozen configuration: bypass chain machinery.
	if cfg.IsExposeProxy() || !ts.IsStatic() {
		cs.kind = csDirectGuarded
		return cs, nil
	}
	if !couldReturnTarget(method, declaredOn, baseType) {
		cs.kind = csPassthrough
		return cs, nil
	}
	cs.kind = csDirect
	return cs, nil
}

// isEqualsShape matches Equals(any) bool.
func isEqualsShape(m reflect.Method, declaredOn reflect.Type) bool {
	if m.Name != "Equals" {
		return false
	}
	ft := methodFuncType(m.Type, declaredOn)
	return ft.NumIn() == 1 && ft.In(0) == anyType &&
		ft.NumOut() == 1 && ft.Out(0).Kind() == reflect.Bool
}

// isHashCodeShape matches HashCode() uint64.
func isHashCodeShape(m reflect.Method, declaredOn reflect.Type) bool {
	if m.Name != "HashCode" {
		return false
	}
	ft := methodFuncType(m.Type, declaredOn)
	return ft.NumIn() == 0 && ft.NumOut() == 1 && ft.Out(0).Kind() == reflect.Uint64
}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// couldReturnTarget reports whether any declared return position could
// carry the target instance, which would require self-return
// substitution on the result.
func couldReturnTarget(m reflect.Method, declaredOn reflect.Type, baseType reflect.Type) bool {
	if baseType == nil {
		return false
	}
	ft := methodFuncType(m.Type, declaredOn)
	for i := 0; i < ft.NumOut(); i++ {
		out := ft.Out(i)
		if out == errType {
			continue
		}
		if out == anyType || out == baseType {
			return true
		}
		if out.Kind() == reflect.Interface && baseType.Implements(out) {
			return true
		}
		if baseType.AssignableTo(out) {
			return true
		}
	}
	return false
}
