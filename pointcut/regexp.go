package pointcut

import (
	"fmt"
	"reflect"
	"regexp"
)

// Regexp matches methods whose qualified name (TypeName.MethodName)
// matches any of its patterns.
type Regexp struct {
	StaticMatcher
	sources  []string
	patterns []*regexp.Regexp
}

// NewRegexp compiles the given patterns into a pointcut. Compilation
// errors surface here, not at match time.
func NewRegexp(patterns ...string) (*Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("pointcut: invalid pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	sources := make([]string, len(patterns))
	copy(sources, patterns)
	return &Regexp{sources: sources, patterns: compiled}, nil
}

// TypeFilter matches every type; the method matcher carries the patterns.
func (r *Regexp) TypeFilter() TypeFilter { return TrueTypeFilter }

// MethodMatcher returns the regexp matcher itself.
func (r *Regexp) MethodMatcher() MethodMatcher { return r }

// Patterns returns the pattern sources.
func (r *Regexp) Patterns() []string {
	out := make([]string, len(r.sources))
	copy(out, r.sources)
	return out
}

// Matches tests TypeName.MethodName against every pattern.
func (r *Regexp) Matches(m reflect.Method, t reflect.Type) bool {
	qualified := t.String() + "." + m.Name
	for _, re := range r.patterns {
		if re.MatchString(qualified) {
			return true
		}
	}
	return false
}

// Equals compares pattern sources in order.
func (r *Regexp) Equals(other Pointcut) bool {
	o, ok := other.(*Regexp)
	if !ok || len(r.sources) != len(o.sources) {
		return false
	}
	for i := range r.sources {
		if r.sources[i] != o.sources[i] {
			return false
		}
	}
	return true
}
