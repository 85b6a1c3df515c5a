package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Build-time errors, surfaced synchronously when a proxy is assembled.
const (
	// ErrCodeConfig indicates a structurally invalid proxy configuration.
	ErrCodeConfig ErrorCode = "CONFIG_INVALID"
	// ErrCodeFrozen indicates a mutation was attempted on a frozen configuration.
	ErrCodeFrozen ErrorCode = "CONFIG_FROZEN"
	// ErrCodeProxyGeneration indicates the base type cannot be proxied.
	ErrCodeProxyGeneration ErrorCode = "PROXY_GENERATION_FAILED"
)

// Call-time errors.
const (
	// ErrCodeInvocation indicates an advice chain violated the method's
	// return contract.
	ErrCodeInvocation ErrorCode = "INVOCATION_CONTRACT_VIOLATION"
	// ErrCodeUnknownMethod indicates a dispatch to a method the proxy does
	// not expose.
	ErrCodeUnknownMethod ErrorCode = "UNKNOWN_METHOD"
	// ErrCodeTargetUnavailable indicates the target source could not supply
	// an instance.
	ErrCodeTargetUnavailable ErrorCode = "TARGET_UNAVAILABLE"
)

// Advisor pool errors.
const (
	// ErrCodeInCreation indicates an advisor was requested while it is still
	// being constructed (a dependency cycle through the pool).
	ErrCodeInCreation ErrorCode = "ADVISOR_IN_CREATION"
	// ErrCodeNotRegistered indicates the named advisor is unknown to the pool.
	ErrCodeNotRegistered ErrorCode = "ADVISOR_NOT_REGISTERED"
)

// Validation errors.
const (
	// ErrCodeInvalidInput indicates an argument failed validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)
