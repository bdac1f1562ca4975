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

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Classification errors
	ErrClassificationConflict ErrorCode = "CLASSIFICATION_CONFLICT"
	ErrNoActionFound          ErrorCode = "NO_ACTION_FOUND"

	// Action validation errors
	ErrMissingSource       ErrorCode = "MISSING_SOURCE"
	ErrDestinationConflict ErrorCode = "DESTINATION_CONFLICT"
	ErrDestinationIsLink   ErrorCode = "DESTINATION_IS_LINK"
	ErrBrokenLink          ErrorCode = "BROKEN_LINK"

	// Script resolution errors
	ErrScriptResolution ErrorCode = "SCRIPT_RESOLUTION"
	ErrTemplateRender   ErrorCode = "TEMPLATE_RENDER"

	// Filesystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
)

// ConfmanError represents a structured error with code and details
type ConfmanError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Hint    string
	Wrapped error
}

// Error implements the error interface
func (e *ConfmanError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ConfmanError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ConfmanError) Is(target error) bool {
	var targetErr *ConfmanError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ConfmanError with the given code and message
func New(code ErrorCode, message string) *ConfmanError {
	return &ConfmanError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ConfmanError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ConfmanError {
	return &ConfmanError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ConfmanError
func Wrap(err error, code ErrorCode, message string) *ConfmanError {
	if err == nil {
		return nil
	}
	return &ConfmanError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ConfmanError {
	if err == nil {
		return nil
	}
	return &ConfmanError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ConfmanError) WithDetail(key string, value interface{}) *ConfmanError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithHint attaches a human remediation hint, e.g. the diff/rm commands
// to resolve a destination conflict by hand
func (e *ConfmanError) WithHint(format string, args ...interface{}) *ConfmanError {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var cErr *ConfmanError
	if errors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ConfmanError
func GetErrorCode(err error) ErrorCode {
	var cErr *ConfmanError
	if errors.As(err, &cErr) {
		return cErr.Code
	}
	return ErrUnknown
}

// GetHint returns the remediation hint from an error, or "" if none
func GetHint(err error) string {
	var cErr *ConfmanError
	if errors.As(err, &cErr) {
		return cErr.Hint
	}
	return ""
}
