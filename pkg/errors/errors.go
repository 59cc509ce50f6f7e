package errors

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Manifest errors
	ErrManifestParse ErrorCode = "MANIFEST_PARSE"

	// Filesystem errors
	ErrIO           ErrorCode = "IO"
	ErrPlatformLink ErrorCode = "PLATFORM_LINK"
)

// RunfilesError represents a structured error with code and details
type RunfilesError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RunfilesError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RunfilesError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RunfilesError) Is(target error) bool {
	var targetErr *RunfilesError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RunfilesError with the given code and message
func New(code ErrorCode, message string) *RunfilesError {
	return &RunfilesError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RunfilesError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RunfilesError {
	return &RunfilesError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RunfilesError
func Wrap(err error, code ErrorCode, message string) *RunfilesError {
	if err == nil {
		return nil
	}
	return &RunfilesError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RunfilesError {
	if err == nil {
		return nil
	}
	return &RunfilesError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WrapIO wraps a failed filesystem call. The message names the operation
// and the path the way diagnostics print them: "<op> '<path>'".
func WrapIO(err error, op, path string) *RunfilesError {
	if err == nil {
		return nil
	}
	return Wrapf(err, ErrIO, "%s '%s'", op, path).
		WithDetail("op", op).
		WithDetail("path", path)
}

// WithDetail adds a detail to the error
func (e *RunfilesError) WithDetail(key string, value interface{}) *RunfilesError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *RunfilesError) WithDetails(details map[string]interface{}) *RunfilesError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var runfilesErr *RunfilesError
	if errors.As(err, &runfilesErr) {
		return runfilesErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RunfilesError
func GetErrorCode(err error) ErrorCode {
	var runfilesErr *RunfilesError
	if errors.As(err, &runfilesErr) {
		return runfilesErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RunfilesError
func GetErrorDetails(err error) map[string]interface{} {
	var runfilesErr *RunfilesError
	if errors.As(err, &runfilesErr) {
		return runfilesErr.Details
	}
	return nil
}

// Errno returns the OS error number buried in err, if any.
func Errno(err error) (syscall.Errno, bool) {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno, true
	}
	return 0, false
}

// Is is errors.Is, re-exported so callers need a single errors import
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As
func As(err error, target any) bool {
	return errors.As(err, target)
}
