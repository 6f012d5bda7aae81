package runner

import (
	"errors"
	"fmt"
)

const (
	unknownTargetMessageTemplateConstant       = "unknown target %q"
	stepExecutionMessageTemplateConstant       = "target %q step %d failed: %v"
	commandExecutorMissingMessageConstant      = "target runner command executor not configured"
	rootDirectoryMissingMessageConstant        = "target runner root directory not provided"
	stepArgumentsEmptyMessageConstant          = "step arguments rendered to no values"
	unsupportedStepKindMessageTemplateConstant = "unsupported step kind %q"
)

var (
	// ErrCommandExecutorNotConfigured indicates a run step was reached without a subprocess executor.
	ErrCommandExecutorNotConfigured = errors.New(commandExecutorMissingMessageConstant)
	// ErrRootDirectoryMissing indicates run options omitted the workspace root.
	ErrRootDirectoryMissing = errors.New(rootDirectoryMissingMessageConstant)
)

// UnknownTargetError reports a request for a target the declaration does not contain.
type UnknownTargetError struct {
	Name string
}

// Error names the undeclared target.
func (unknownError UnknownTargetError) Error() string {
	return fmt.Sprintf(unknownTargetMessageTemplateConstant, unknownError.Name)
}

// StepExecutionError wraps the failure that aborted a target.
type StepExecutionError struct {
	TargetName string
	StepIndex  int
	Cause      error
}

// Error describes the failing step including the underlying cause.
func (stepError StepExecutionError) Error() string {
	return fmt.Sprintf(stepExecutionMessageTemplateConstant, stepError.TargetName, stepError.StepIndex, stepError.Cause)
}

// Unwrap exposes the underlying step failure.
func (stepError StepExecutionError) Unwrap() error {
	return stepError.Cause
}
