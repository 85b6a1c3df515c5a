package proxy

import (
	"hash/fnv"
	"reflect"

	"github.com/kbukum/aopkit/advisor"
	"github.com/kbukum/aopkit/pointcut"
)

// configEqual reports whether two proxy configurations would produce
// interchangeable proxies: same advisor list (advice implementation
// types and pointcuts, in order), same target type, same declared
// interfaces and same proxying flags.
func configEqual(a, b *AdvisedSupport) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.IsFrozen() != b.IsFrozen() ||
		a.IsExposeProxy() != b.IsExposeProxy() ||
		a.IsOptimize() != b.IsOptimize() ||
		a.IsOpaque() != b.IsOpaque() ||
		a.IsProxyTargetType() != b.IsProxyTargetType() {
		return false
	}
	if !sameType(targetTypeOf(a), targetTypeOf(b)) {
		return false
	}
	ai, bi := a.Interfaces(), b.Interfaces()
	if len(ai) != len(bi) {
		return false
	}
	for i := range ai {
		if ai[i] != bi[i] {
			return false
		}
	}
	return advisorsEqual(a.Advisors(), b.Advisors())
}

// advisorsEqual is order-sensitive: the same advice in a different order
// is a different configuration.
func advisorsEqual(a, b []*advisor.Advisor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if reflect.TypeOf(a[i].Advice()) != reflect.TypeOf(b[i].Advice()) {
			return false
		}
		if !pointcut.Equal(a[i].Pointcut(), b[i].Pointcut()) {
			return false
		}
	}
	return true
}

// configHash folds the advice implementation type names and the proxying
// flags into a 64-bit hash. Configurations that compare equal hash
// equal; the hash never depends on advice instance identity, so
// logically equivalent configurations built from fresh advice instances
// still collide deliberately.
func configHash(a *AdvisedSupport) uint64 {
	h := fnv.New64a()
	for _, adv := range a.Advisors() {
		h.Write([]byte(reflect.TypeOf(adv.Advice()).String()))
	}
	sum := h.Sum64()
	sum = sum*13 + flagBit(a.IsFrozen())
	sum = sum*13 + flagBit(a.IsExposeProxy())
	sum = sum*13 + flagBit(a.IsOptimize())
	sum = sum*13 + flagBit(a.IsOpaque())
	sum = sum*13 + flagBit(a.IsProxyTargetType())
	if t := targetTypeOf(a); t != nil {
		th := fnv.New64a()
		th.Write([]byte(t.String()))
		sum = sum*13 + th.Sum64()
	}
	return sum
}

func flagBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func targetTypeOf(a *AdvisedSupport) reflect.Type {
	ts := a.TargetSource()
	if ts == nil {
		return nil
	}
	return ts.TargetType()
}

func sameType(a, b reflect.Type) bool { return a == b }
