package errors

import (
	"fmt"
	"os/exec"
)

// Exhausted creates the error a solver session returns once it has no more models
func Exhausted() *TouistError {
	return New(ErrCodeExhausted, "no more models")
}

// SessionClosed creates an error for a request on a released solver session
func SessionClosed() *TouistError {
	return New(ErrCodeSessionClosed, "solver session is closed")
}

// SolverUnavailable creates the error reported when not even a first model could be produced
func SolverUnavailable(cause error) *TouistError {
	return Wrap(cause, ErrCodeSolverUnavailable, "no model could be produced")
}

// SolverExecution creates a solver execution failure error
func SolverExecution(solver string, err error, stderr string) *TouistError {
	touistErr := Wrap(err, ErrCodeSolverExecution, fmt.Sprintf("an error occurred during %s execution", solver)).
		WithDetail("solver", solver)

	if stderr != "" {
		touistErr = touistErr.WithDetail("stderr", stderr)
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		touistErr = touistErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return touistErr
}

// UnsupportedSolver creates an error for a solver or backend that cannot be used
func UnsupportedSolver(name string) *TouistError {
	return New(ErrCodeUnsupportedSolver, fmt.Sprintf("solver '%s' is not supported", name)).
		WithDetail("solver", name)
}

// IllegalTransition creates an error for a navigation step the current state forbids
func IllegalTransition(operation string, state fmt.Stringer) *TouistError {
	return New(ErrCodeIllegalTransition, fmt.Sprintf("%s is not permitted in state %s", operation, state)).
		WithDetail("operation", operation).
		WithDetail("state", state.String())
}

// NavigationBusy creates an error for a transition requested while another is outstanding
func NavigationBusy(operation string) *TouistError {
	return New(ErrCodeNavigationBusy, fmt.Sprintf("%s requested while another navigation is in progress", operation)).
		WithDetail("operation", operation)
}

// InvalidInput creates an invalid input error
func InvalidInput(reason string, cause error) *TouistError {
	return Wrap(cause, ErrCodeInvalidInput, fmt.Sprintf("invalid input: %s", reason))
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *TouistError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *TouistError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}
