package cli

import (
	"errors"
	"fmt"
)

// ExitError represents a command failure with a specific exit code.
//
// Cobra RunE functions return it instead of calling os.Exit, so the exit code
// of a failed tool travels up to [RunWithConfig], where [IsExitError] extracts
// it for the [ExecuteResult]. Tests assert on the code without the process
// terminating; [Execute] makes the actual os.Exit call.
type ExitError struct {
	// Code is the exit code to return to the shell.
	// 0 = success, 127 = tool not found, 130 = interrupted, other values come
	// from the invoked tool.
	Code int
}

// Error returns "exit status N", the format os/exec uses for a failed process.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an [ExitError] with the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// IsExitError reports whether err is or wraps an [ExitError] and returns its
// code. It returns (0, false) for nil and for any other error.
func IsExitError(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// exitStatus converts a workflow exit code into a RunE result: nil for 0,
// an [ExitError] otherwise.
func exitStatus(code int) error {
	if code == 0 {
		return nil
	}
	return NewExitError(code)
}
