package pointcut

import (
	"reflect"
	"sort"
	"strings"
)

// NameMatch matches methods by name against a list of mapped names.
// A mapped name is either an exact method name or a simple pattern with
// a single leading or trailing * wildcard ("Get*", "*Name", "*").
type NameMatch struct {
	StaticMatcher
	names []string
}

// NewNameMatch builds a name-match pointcut. It serves as both its own
// type filter (any type) and method matcher.
func NewNameMatch(names ...string) *NameMatch {
	copied := make([]string, len(names))
	copy(copied, names)
	return &NameMatch{names: copied}
}

// TypeFilter matches every type.
func (n *NameMatch) TypeFilter() TypeFilter { return TrueTypeFilter }

// MethodMatcher returns the name matcher itself.
func (n *NameMatch) MethodMatcher() MethodMatcher { return n }

// Names returns the mapped names.
func (n *NameMatch) Names() []string {
	out := make([]string, len(n.names))
	copy(out, n.names)
	return out
}

// Matches reports whether the method name matches any mapped name.
func (n *NameMatch) Matches(m reflect.Method, t reflect.Type) bool {
	for _, mapped := range n.names {
		if mapped == m.Name || isPatternMatch(m.Name, mapped) {
			return true
		}
	}
	return false
}

// Equals compares mapped-name sets regardless of order.
func (n *NameMatch) Equals(other Pointcut) bool {
	o, ok := other.(*NameMatch)
	if !ok {
		return false
	}
	a := n.Names()
	b := o.Names()
	if len(a) != len(b) {
		return false
	}
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// isPatternMatch handles "xxx*", "*xxx", and "*xxx*" patterns.
func isPatternMatch(name, pattern string) bool {
	leading := strings.HasPrefix(pattern, "*")
	trailing := strings.HasSuffix(pattern, "*")
	core := strings.TrimSuffix(strings.TrimPrefix(pattern, "*"), "*")
	switch {
	case leading && trailing:
		return strings.Contains(name, core)
	case leading:
		return strings.HasSuffix(name, core)
	case trailing:
		return strings.HasPrefix(name, core)
	default:
		return false
	}
}
