package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resolution errors
const (
	// ErrCodeUnresolvedKey indicates that no resolver in the lookup chain has a wiring for the key.
	ErrCodeUnresolvedKey ErrorCode = "UNRESOLVED_KEY"
	// ErrCodeInvalidConfigTarget indicates a payload configuration on a value or view wiring.
	ErrCodeInvalidConfigTarget ErrorCode = "INVALID_CONFIG_TARGET"
	// ErrCodeNotInstantiable indicates an instantiation request for a wiring that has no constructor.
	ErrCodeNotInstantiable ErrorCode = "NOT_INSTANTIABLE"
	// ErrCodeInjectionFailed indicates a resolved dependency could not be assigned onto its target.
	ErrCodeInjectionFailed ErrorCode = "INJECTION_FAILED"
	// ErrCodeConstructionFailed indicates an instance's own initialization returned an error.
	ErrCodeConstructionFailed ErrorCode = "CONSTRUCTION_FAILED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeNotFound indicates the requested resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeServiceUnavailable indicates a component is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Resolution failures are never retryable: the registry does not change on its own.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
