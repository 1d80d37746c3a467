package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Solver errors
	ErrCodeSolverUnavailable ErrorCode = "SOLVER_UNAVAILABLE"
	ErrCodeSolverExecution   ErrorCode = "SOLVER_EXECUTION"
	ErrCodeUnsupportedSolver ErrorCode = "UNSUPPORTED_SOLVER"
	ErrCodeExhausted         ErrorCode = "EXHAUSTED"
	ErrCodeSessionClosed     ErrorCode = "SESSION_CLOSED"

	// Navigation errors
	ErrCodeIllegalTransition ErrorCode = "ILLEGAL_TRANSITION"
	ErrCodeNavigationBusy    ErrorCode = "NAVIGATION_BUSY"

	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// TouistError represents a structured error with context
type TouistError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

// Error implements the error interface
func (e *TouistError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TouistError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *TouistError) WithDetail(key string, value any) *TouistError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *TouistError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new TouistError
func New(code ErrorCode, message string) *TouistError {
	return &TouistError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a TouistError
func Wrap(err error, code ErrorCode, message string) *TouistError {
	return &TouistError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error, or any error it wraps, carries the given code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	touistErr, ok := err.(*TouistError)
	if ok && touistErr.Code == code {
		return true
	}

	if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
		return Is(unwrapper.Unwrap(), code)
	}
	return false
}

// GetCode extracts the outermost error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	touistErr, ok := err.(*TouistError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return touistErr.Code
}
