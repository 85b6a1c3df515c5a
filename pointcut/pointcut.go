package pointcut

import "reflect"

// TypeFilter decides whether advice applies to a type at all.
type TypeFilter interface {
	Matches(t reflect.Type) bool
}

// MethodMatcher decides whether advice applies to a method of a type.
type MethodMatcher interface {
	// Matches answers the static question from the method signature alone.
	Matches(m reflect.Method, t reflect.Type) bool
	// IsRuntime reports whether the matcher must also see call arguments.
	IsRuntime() bool
	// MatchesArgs answers the per-call question for runtime matchers.
	// Static matchers panic: the chain never consults them per call.
	MatchesArgs(m reflect.Method, t reflect.Type, args []any) bool
}

// Pointcut pairs a type filter with a method matcher.
type Pointcut interface {
	TypeFilter() TypeFilter
	MethodMatcher() MethodMatcher
}

// TypeFilterFunc adapts a function to TypeFilter.
type TypeFilterFunc func(t reflect.Type) bool

// Matches calls f.
func (f TypeFilterFunc) Matches(t reflect.Type) bool { return f(t) }

// StaticMatcher is the embeddable base for signature-only matchers.
type StaticMatcher struct{}

// IsRuntime always reports false.
func (StaticMatcher) IsRuntime() bool { return false }

// MatchesArgs panics: static matchers are never consulted per call.
func (StaticMatcher) MatchesArgs(m reflect.Method, t reflect.Type, args []any) bool {
	panic("pointcut: MatchesArgs called on a static method matcher")
}

// MethodMatcherFunc adapts a function to a static MethodMatcher.
type MethodMatcherFunc func(m reflect.Method, t reflect.Type) bool

// Matches calls f.
func (f MethodMatcherFunc) Matches(m reflect.Method, t reflect.Type) bool { return f(m, t) }

// IsRuntime always reports false.
func (MethodMatcherFunc) IsRuntime() bool { return false }

// MatchesArgs panics: static matchers are never consulted per call.
func (MethodMatcherFunc) MatchesArgs(m reflect.Method, t reflect.Type, args []any) bool {
	panic("pointcut: MatchesArgs called on a static method matcher")
}

// basic is the plain TypeFilter+MethodMatcher pair.
type basic struct {
	tf TypeFilter
	mm MethodMatcher
}

// New builds a pointcut from a type filter and a method matcher. A nil
// filter or matcher defaults to match-everything.
func New(tf TypeFilter, mm MethodMatcher) Pointcut {
	if tf == nil {
		tf = TrueTypeFilter
	}
	if mm == nil {
		mm = TrueMethodMatcher
	}
	return &basic{tf: tf, mm: mm}
}

func (b *basic) TypeFilter() TypeFilter       { return b.tf }
func (b *basic) MethodMatcher() MethodMatcher { return b.mm }

// --- True pointcut ---

type trueTypeFilter struct{}

func (trueTypeFilter) Matches(reflect.Type) bool { return true }

type trueMethodMatcher struct{ StaticMatcher }

func (trueMethodMatcher) Matches(reflect.Method, reflect.Type) bool { return true }

// TrueTypeFilter matches every type.
var TrueTypeFilter TypeFilter = trueTypeFilter{}

// TrueMethodMatcher matches every method.
var TrueMethodMatcher MethodMatcher = trueMethodMatcher{}

type truePointcut struct{}

func (truePointcut) TypeFilter() TypeFilter       { return TrueTypeFilter }
func (truePointcut) MethodMatcher() MethodMatcher { return TrueMethodMatcher }

func (truePointcut) Equals(other Pointcut) bool {
	_, ok := other.(truePointcut)
	return ok
}

// True matches every method of every type.
var True Pointcut = truePointcut{}

// --- equality ---

// equaler is implemented by pointcuts that define their own equality.
type equaler interface {
	Equals(other Pointcut) bool
}

// Equal compares two pointcuts. Pointcuts defining their own equality are
// asked directly; anything else falls back to deep equality.
func Equal(a, b Pointcut) bool {
	if a == nil || b == nil {
		return a == b
	}
	if eq, ok := a.(equaler); ok {
		return eq.Equals(b)
	}
	if eq, ok := b.(equaler); ok {
		return eq.Equals(a)
	}
	return reflect.DeepEqual(a, b)
}
