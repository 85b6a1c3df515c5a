// Package errors provides unified error handling for aopkit.
// It implements structured error types with machine-readable codes covering
// proxy configuration, proxy generation, and call-time contract violations.
package errors
