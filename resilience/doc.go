// Package resilience provides the call-hardening policies the builtin
// interceptors wrap around proxied methods: bounded retry with
// exponential backoff, a three-state circuit breaker, a concurrency
// bulkhead and a token-bucket rate limiter.
//
// The policies are independent of the proxy machinery and can be used
// directly around any function.
package resilience
