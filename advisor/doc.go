// Package advisor pairs matching predicates with advice.
//
// An Advisor bundles a pointcut, a piece of advice, and an optional
// ordering priority; it is immutable once constructed. FindApplicable
// filters a candidate list down to the advisors whose pointcuts can match
// a target type, and Sort applies declared priorities (lower value runs
// first, unordered advisors after all ordered ones in discovery order).
package advisor
