// Package pointcut provides the matching predicates that decide where
// advice applies.
//
// A Pointcut pairs a TypeFilter ("does this advice apply to type T at
// all?") with a MethodMatcher ("does it apply to method M of T?").
// Matchers are static by default; a runtime matcher additionally inspects
// the actual call arguments and is consulted on every call.
//
// Built-in pointcuts: True (matches everything), NameMatch (method-name
// lists with * wildcards), Regexp (patterns over qualified method names),
// and Expression (an expr-lang predicate over method metadata). Filters
// and matchers compose with Union and Intersection.
package pointcut
