package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a specific error type surfaced to API callers.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidDate indicates a civil date that is not YYYY-MM-DD or not a real day.
	ErrCodeInvalidDate ErrorCode = "INVALID_DATE"
	// ErrCodeInvalidTime indicates a civil time that is not HH:mm or out of range.
	ErrCodeInvalidTime ErrorCode = "INVALID_TIME"
	// ErrCodeInvalidTimezone indicates an unknown or missing timezone.
	ErrCodeInvalidTimezone ErrorCode = "INVALID_TIMEZONE"
	// ErrCodeNotFound indicates the requested resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeInternal indicates an unexpected server-side failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// AppError represents a structured error with a stable code.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetCode returns the error code.
func (e *AppError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *AppError {
	return &AppError{Code: ErrCodeInvalidArgument, Message: msg}
}

// InvalidDate creates an invalid date error for the given input.
func InvalidDate(input string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidDate,
		Message: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", input),
		Cause:   cause,
	}
}

// InvalidTime creates an invalid time error for the given input.
func InvalidTime(input string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidTime,
		Message: fmt.Sprintf("invalid time %q, expected HH:mm", input),
		Cause:   cause,
	}
}

// InvalidTimezone creates an invalid timezone error.
func InvalidTimezone(tz string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidTimezone,
		Message: fmt.Sprintf("invalid timezone %q", tz),
		Cause:   cause,
	}
}

// NotFound creates a not found error.
func NotFound(msg string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *AppError {
	return &AppError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *AppError {
	return &AppError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error, or any error it wraps, has a specific code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not an AppError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return defaultCode
}

// HTTPStatus maps an error code to the HTTP status callers should see.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidArgument, ErrCodeInvalidDate, ErrCodeInvalidTime, ErrCodeInvalidTimezone:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body returned for a failed API call.
type ErrorResponse struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ToResponse converts any error into an HTTP status and response body.
// Errors without a code are reported as INTERNAL without leaking their text.
func ToResponse(err error) (int, ErrorResponse) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError, ErrorResponse{
			Code:    ErrCodeInternal,
			Message: "internal error",
		}
	}
	return HTTPStatus(appErr.Code), ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Context,
	}
}
