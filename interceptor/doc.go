// Package interceptor ships ready-made around advice for common
// cross-cutting concerns: structured call logging, tracing, metrics,
// retry, circuit breaking, concurrency throttling, rate limiting, panic
// recovery and argument validation.
//
// Each interceptor is an advice.Interceptor and is registered through an
// advisor like any other advice:
//
//	cfg.AddAdvisor(advisor.New(pointcut.NewNameMatch("Fetch*"),
//	    interceptor.NewRetry(resilience.DefaultRetryPolicy())))
//
// Interceptors that need a context take it from the call's first
// argument when that argument is a context.Context, and fall back to
// context.Background otherwise.
package interceptor
