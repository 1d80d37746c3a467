package main

import (
	"fmt"
	"io"

	"github.com/limaJavier/touist/pkg/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	out     io.Writer
}

func NewErrorHandler(verbose bool, out io.Writer) *ErrorHandler {
	return &ErrorHandler{Verbose: verbose, out: out}
}

// Handle prints a message for err based on its code
func (h *ErrorHandler) Handle(err error) error {
	touistErr := outermost(err)
	if touistErr == nil {
		fmt.Fprintf(h.out, "Error: %v\n", err)
		return err
	}

	switch touistErr.Code {
	case errors.ErrCodeUnsupportedSolver:
		fmt.Fprintf(h.out, "Error: %s\n", touistErr.Message)
		fmt.Fprintf(h.out, "Run 'touist solvers' to see the available solvers and backends.\n")

	case errors.ErrCodeInvalidInput:
		fmt.Fprintf(h.out, "Error: %s\n", touistErr.Message)
		if touistErr.Cause != nil {
			fmt.Fprintf(h.out, "  %v\n", touistErr.Cause)
		}

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(h.out, "Error: %s\n", touistErr.Message)
		if backends, ok := touistErr.Details["backends"]; ok {
			fmt.Fprintf(h.out, "Valid backends: %v\n", backends)
		}
		if logics, ok := touistErr.Details["logics"]; ok {
			fmt.Fprintf(h.out, "Valid logics: %v\n", logics)
		}

	case errors.ErrCodeSolverExecution:
		fmt.Fprintf(h.out, "Error: the solver %v failed\n", touistErr.Details["solver"])
		if stderr, ok := touistErr.Details["stderr"]; ok {
			fmt.Fprintf(h.out, "%v\n", stderr)
		}

	default:
		fmt.Fprintf(h.out, "Error: %v\n", err)
	}

	if h.Verbose {
		fmt.Fprintf(h.out, "\nError details:\n%s\n", touistErr.ToJSON())
	}
	return err
}

func outermost(err error) *errors.TouistError {
	for err != nil {
		if touistErr, ok := err.(*errors.TouistError); ok {
			return touistErr
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil
		}
		err = unwrapper.Unwrap()
	}
	return nil
}
