// Package errors provides unified error handling for wirekit.
// It implements structured error types with error codes, HTTP status mapping
// for the inspection surface, and code-based matching via the standard
// errors.Is.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Sentinels for errors.Is matching. Any AppError with the same code matches.
var (
	ErrUnresolvedKey       = &AppError{Code: ErrCodeUnresolvedKey}
	ErrInvalidConfigTarget = &AppError{Code: ErrCodeInvalidConfigTarget}
	ErrNotInstantiable     = &AppError{Code: ErrCodeNotInstantiable}
	ErrInjectionFailed     = &AppError{Code: ErrCodeInjectionFailed}
	ErrConstructionFailed  = &AppError{Code: ErrCodeConstructionFailed}
)

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Resolution Error Constructors ---

// UnresolvedKey creates an AppError for a key missing from every registry in the lookup chain.
func UnresolvedKey(key string) *AppError {
	return &AppError{
		Code: ErrCodeUnresolvedKey, Message: fmt.Sprintf("no mapping found for key: %s", key),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"key": key},
	}
}

// InvalidConfigTarget creates an AppError for a payload configuration on a
// wiring whose strategy does not accept one.
func InvalidConfigTarget(key, strategy string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidConfigTarget,
		Message:    fmt.Sprintf("configuration is only possible for wirings of type singleton or class (key %q is %s)", key, strategy),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"key": key, "strategy": strategy},
	}
}

// NotInstantiable creates an AppError for an instantiation request on a wiring without a constructor.
func NotInstantiable(key, strategy string) *AppError {
	return &AppError{
		Code:       ErrCodeNotInstantiable,
		Message:    fmt.Sprintf("instantiation is only possible for wirings of type singleton, class or view (key %q is %s)", key, strategy),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"key": key, "strategy": strategy},
	}
}

// InjectionFailed creates an AppError for a dependency that could not be assigned onto its target.
func InjectionFailed(property, key string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeInjectionFailed,
		Message:    fmt.Sprintf("cannot inject %q into property %q", key, property),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"property": property, "key": key},
		Cause:   cause,
	}
}

// ConstructionFailed creates an AppError for an instance whose initialization failed.
func ConstructionFailed(key string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeConstructionFailed,
		Message:    fmt.Sprintf("failed to construct instance for key: %s", key),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"key": key},
		Cause:   cause,
	}
}

// --- Common Error Constructors ---

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// NotFound creates an AppError for a missing resource, such as an unknown context ID.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found: %s", resource, id),
		HTTPStatus: http.StatusNotFound, Retryable: false,
	}
}

// ServiceUnavailable creates a new AppError for a component that is not ready.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// Wrap converts any error into an AppError. AppErrors anywhere in the chain
// are returned as-is; anything else becomes an internal error.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
