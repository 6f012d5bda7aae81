package cli

import (
	"errors"

	"github.com/tyemirov/pyx/internal/execshell"
	"github.com/tyemirov/pyx/internal/runner"
)

const (
	successExitCodeConstant         = 0
	internalFailureExitCodeConstant = 1
	unknownTargetExitCodeConstant   = 2
)

// ExitCode maps an execution error onto the process exit status. A wrapped
// tool's non-zero exit code passes through verbatim, unknown target names
// report a distinct status, and every other failure is an internal error.
func ExitCode(executionError error) int {
	if executionError == nil {
		return successExitCodeConstant
	}

	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		if commandFailure.Result.ExitCode > 0 {
			return commandFailure.Result.ExitCode
		}
		return internalFailureExitCodeConstant
	}

	var unknownTarget runner.UnknownTargetError
	if errors.As(executionError, &unknownTarget) {
		return unknownTargetExitCodeConstant
	}

	return internalFailureExitCodeConstant
}

// IsCommandFailure reports whether the error originated from a wrapped tool
// exiting non-zero. Such failures already wrote their own diagnostics to the
// terminal, so callers suppress additional messaging.
func IsCommandFailure(executionError error) bool {
	var commandFailure execshell.CommandFailedError
	return errors.As(executionError, &commandFailure)
}
