package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the unified aopkit error type.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// --- Common Error Constructors ---

// Config creates an error for a structurally invalid proxy configuration.
func Config(reason string) *Error {
	return &Error{Code: ErrCodeConfig, Message: reason}
}

// Frozen creates an error for a mutation attempted on a frozen configuration.
func Frozen(operation string) *Error {
	return &Error{
		Code:    ErrCodeFrozen,
		Message: fmt.Sprintf("cannot %s: configuration is frozen", operation),
		Details: map[string]any{"operation": operation},
	}
}

// ProxyGeneration creates an error for a base type that cannot be proxied.
// The message enumerates the common root causes so callers can self-diagnose.
func ProxyGeneration(baseType string, reason string) *Error {
	return &Error{
		Code: ErrCodeProxyGeneration,
		Message: fmt.Sprintf(
			"cannot generate proxy for %s: %s. "+
				"Common causes: the base type declares no exported methods, "+
				"the target does not implement a declared interface, "+
				"or the bound facade is not a pointer to a struct of exported func fields",
			baseType, reason),
		Details: map[string]any{"base_type": baseType},
	}
}

// Invocation creates an error for an advice chain that violated the
// method's return contract.
func Invocation(method string, reason string) *Error {
	return &Error{
		Code:    ErrCodeInvocation,
		Message: fmt.Sprintf("invocation of %s: %s", method, reason),
		Details: map[string]any{"method": method},
	}
}

// UnknownMethod creates an error for a dispatch to an unexposed method.
func UnknownMethod(method string, baseType string) *Error {
	return &Error{
		Code:    ErrCodeUnknownMethod,
		Message: fmt.Sprintf("method %s is not exposed by the proxy for %s", method, baseType),
		Details: map[string]any{"method": method, "base_type": baseType},
	}
}

// TargetUnavailable creates an error for a target source that could not
// supply an instance.
func TargetUnavailable(reason string) *Error {
	return &Error{Code: ErrCodeTargetUnavailable, Message: reason}
}

// InCreation creates an error for an advisor requested while it is still
// being constructed.
func InCreation(name string) *Error {
	return &Error{
		Code:    ErrCodeInCreation,
		Message: fmt.Sprintf("advisor %q is currently in creation", name),
		Details: map[string]any{"advisor": name},
	}
}

// NotRegistered creates an error for an advisor name unknown to the pool.
func NotRegistered(name string) *Error {
	return &Error{
		Code:    ErrCodeNotRegistered,
		Message: fmt.Sprintf("advisor %q is not registered", name),
		Details: map[string]any{"advisor": name},
	}
}

// Validation creates an error for an argument that failed validation.
func Validation(message string) *Error {
	return &Error{Code: ErrCodeInvalidInput, Message: message}
}

// --- Inspection helpers ---

// IsCode reports whether err is (or wraps) an aopkit Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// AsError extracts an aopkit Error from err, or nil.
func AsError(err error) *Error {
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return nil
}
