package pointcut

import "reflect"

// UnionTypeFilter matches when any member matches.
func UnionTypeFilter(filters ...TypeFilter) TypeFilter {
	return unionFilter(filters)
}

// IntersectionTypeFilter matches when every member matches.
func IntersectionTypeFilter(filters ...TypeFilter) TypeFilter {
	return intersectionFilter(filters)
}

type unionFilter []TypeFilter

func (u unionFilter) Matches(t reflect.Type) bool {
	for _, f := range u {
		if f.Matches(t) {
			return true
		}
	}
	return false
}

type intersectionFilter []TypeFilter

func (i intersectionFilter) Matches(t reflect.Type) bool {
	for _, f := range i {
		if !f.Matches(t) {
			return false
		}
	}
	return true
}

// UnionMethodMatcher matches when any member matches. The union is a
// runtime matcher if any member is.
func UnionMethodMatcher(matchers ...MethodMatcher) MethodMatcher {
	return unionMatcher(matchers)
}

// IntersectionMethodMatcher matches when every member matches.
func IntersectionMethodMatcher(matchers ...MethodMatcher) MethodMatcher {
	return intersectionMatcher(matchers)
}

type unionMatcher []MethodMatcher

func (u unionMatcher) Matches(m reflect.Method, t reflect.Type) bool {
	for _, mm := range u {
		if mm.Matches(m, t) {
			return true
		}
	}
	return false
}

func (u unionMatcher) IsRuntime() bool {
	for _, mm := range u {
		if mm.IsRuntime() {
			return true
		}
	}
	return false
}

func (u unionMatcher) MatchesArgs(m reflect.Method, t reflect.Type, args []any) bool {
	for _, mm := range u {
		if mm.IsRuntime() {
			if mm.MatchesArgs(m, t, args) {
				return true
			}
		} else if mm.Matches(m, t) {
			return true
		}
	}
	return false
}

type intersectionMatcher []MethodMatcher

func (i intersectionMatcher) Matches(m reflect.Method, t reflect.Type) bool {
	for _, mm := range i {
		if !mm.Matches(m, t) {
			return false
		}
	}
	return true
}

func (i intersectionMatcher) IsRuntime() bool {
	for _, mm := range i {
		if mm.IsRuntime() {
			return true
		}
	}
	return false
}

func (i intersectionMatcher) MatchesArgs(m reflect.Method, t reflect.Type, args []any) bool {
	for _, mm := range i {
		if mm.IsRuntime() {
			if !mm.MatchesArgs(m, t, args) {
				return false
			}
		} else if !mm.Matches(m, t) {
			return false
		}
	}
	return true
}

// Union matches where either pointcut matches.
func Union(a, b Pointcut) Pointcut {
	return New(
		UnionTypeFilter(a.TypeFilter(), b.TypeFilter()),
		UnionMethodMatcher(a.MethodMatcher(), b.MethodMatcher()),
	)
}

// Intersection matches only where both pointcuts match.
func Intersection(a, b Pointcut) Pointcut {
	return New(
		IntersectionTypeFilter(a.TypeFilter(), b.TypeFilter()),
		IntersectionMethodMatcher(a.MethodMatcher(), b.MethodMatcher()),
	)
}
