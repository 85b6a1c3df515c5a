// Package advice defines the interception contracts for aopkit.
//
// An Advice is any piece of cross-cutting logic. The chain executor only
// runs Interceptors; Before, AfterReturning, and Throws advice are wrapped
// by the adapter registry so all advice kinds share one execution model.
//
// An Invocation represents a single method call flowing through a chain.
// Proceed advances to the next interceptor and eventually the real method;
// Clone produces an independently proceed-able copy for advice that needs
// to invoke the join point more than once (retries, fallbacks).
package advice
