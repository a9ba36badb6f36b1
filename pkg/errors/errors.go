package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Manifest errors (validation happens before the core runs)
	ErrManifestRead    ErrorCode = "MANIFEST_READ"
	ErrManifestParse   ErrorCode = "MANIFEST_PARSE"
	ErrManifestInvalid ErrorCode = "MANIFEST_INVALID"

	// Environment errors
	ErrEnvDetect   ErrorCode = "ENV_DETECT"
	ErrEnvSnapshot ErrorCode = "ENV_SNAPSHOT"

	// Planning errors
	ErrNoCompatibleMode ErrorCode = "NO_COMPATIBLE_MODE"

	// Execution errors
	ErrExecution          ErrorCode = "EXECUTION"
	ErrStepFailed         ErrorCode = "STEP_FAILED"
	ErrUnsafeArchiveEntry ErrorCode = "UNSAFE_ARCHIVE_ENTRY"
	ErrRuntimeEnv         ErrorCode = "RUNTIME_ENV"

	// History errors
	ErrHistoryRead  ErrorCode = "HISTORY_READ"
	ErrHistoryParse ErrorCode = "HISTORY_PARSE"
	ErrHistoryWrite ErrorCode = "HISTORY_WRITE"
	ErrHistoryLock  ErrorCode = "HISTORY_LOCK"

	// FileSystem errors
	ErrFileWrite   ErrorCode = "FILE_WRITE"
	ErrDirCreate   ErrorCode = "DIR_CREATE"
	ErrLockTimeout ErrorCode = "LOCK_TIMEOUT"
)

// EnzymeError represents a structured error with code and details
type EnzymeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *EnzymeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *EnzymeError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *EnzymeError) Is(target error) bool {
	var targetErr *EnzymeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new EnzymeError with the given code and message
func New(code ErrorCode, message string) *EnzymeError {
	return &EnzymeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new EnzymeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *EnzymeError {
	return &EnzymeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an EnzymeError
func Wrap(err error, code ErrorCode, message string) *EnzymeError {
	if err == nil {
		return nil
	}
	return &EnzymeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *EnzymeError {
	if err == nil {
		return nil
	}
	return &EnzymeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *EnzymeError) WithDetail(key string, value interface{}) *EnzymeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *EnzymeError) WithDetails(details map[string]interface{}) *EnzymeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode reports whether any EnzymeError in err's chain carries code.
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var enzymeErr *EnzymeError
		if !errors.As(err, &enzymeErr) {
			return false
		}
		if enzymeErr.Code == code {
			return true
		}
		err = enzymeErr.Wrapped
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an EnzymeError
func GetErrorCode(err error) ErrorCode {
	var enzymeErr *EnzymeError
	if errors.As(err, &enzymeErr) {
		return enzymeErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an EnzymeError
func GetErrorDetails(err error) map[string]interface{} {
	var enzymeErr *EnzymeError
	if errors.As(err, &enzymeErr) {
		return enzymeErr.Details
	}
	return nil
}

// ExitCode maps an error to the process exit status used by the CLI.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsErrorCode(err, ErrNoCompatibleMode):
		return 2
	case IsErrorCode(err, ErrStepFailed):
		return 3
	case IsErrorCode(err, ErrManifestInvalid), IsErrorCode(err, ErrManifestParse):
		return 4
	default:
		return 1
	}
}
