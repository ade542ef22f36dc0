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
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Device errors
	ErrDeviceNotFound  ErrorCode = "DEVICE_NOT_FOUND"
	ErrDeviceExists    ErrorCode = "DEVICE_EXISTS"
	ErrDeviceInvalid   ErrorCode = "DEVICE_INVALID"
	ErrDeviceAmbiguous ErrorCode = "DEVICE_AMBIGUOUS"
	ErrDeviceNoType    ErrorCode = "DEVICE_NO_TYPE"
	ErrDeviceNoParent  ErrorCode = "DEVICE_NO_PARENT"

	// Callout errors
	ErrCalloutNoMatch ErrorCode = "CALLOUT_NO_MATCH"
	ErrCalloutFailure ErrorCode = "CALLOUT_FAILURE"
	ErrCalloutJSON    ErrorCode = "CALLOUT_JSON"
	ErrCalloutSpawn   ErrorCode = "CALLOUT_SPAWN"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// MdevError represents a structured error with code and details
type MdevError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *MdevError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *MdevError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *MdevError) Is(target error) bool {
	var targetErr *MdevError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new MdevError with the given code and message
func New(code ErrorCode, message string) *MdevError {
	return &MdevError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new MdevError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *MdevError {
	return &MdevError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a MdevError
func Wrap(err error, code ErrorCode, message string) *MdevError {
	if err == nil {
		return nil
	}
	return &MdevError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *MdevError {
	if err == nil {
		return nil
	}
	return &MdevError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *MdevError) WithDetail(key string, value interface{}) *MdevError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var mdevErr *MdevError
	if errors.As(err, &mdevErr) {
		return mdevErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a MdevError
func GetErrorCode(err error) ErrorCode {
	var mdevErr *MdevError
	if errors.As(err, &mdevErr) {
		return mdevErr.Code
	}
	return ErrUnknown
}
