// Package container provides a named advisor pool for aopkit.
//
// Advisors register by name, either as prebuilt instances or as lazy
// constructors resolved on first use. The pool tracks names currently
// under construction so that an advisor whose constructor depends on the
// very object being advised is skipped instead of recursing forever.
//
// FindEligibleAdvisors is the retrieval entry point used by proxy
// builders: it resolves candidates, filters them with the advisor
// matching engine, runs the post-filter extension hook, and sorts by
// declared priority.
package container
