package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const environmentEntryTemplateConstant = "%s=%s"

// OSCommandRunner executes shell commands against the operating system.
type OSCommandRunner struct {
	standardOutputWriter io.Writer
	standardErrorWriter  io.Writer
}

// NewOSCommandRunner builds a runner that only captures command output.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// NewStreamingOSCommandRunner builds a runner that mirrors command output to the provided writers while capturing it.
func NewStreamingOSCommandRunner(standardOutputWriter io.Writer, standardErrorWriter io.Writer) *OSCommandRunner {
	return &OSCommandRunner{
		standardOutputWriter: standardOutputWriter,
		standardErrorWriter:  standardErrorWriter,
	}
}

// Run executes the command, capturing output and translating non-zero exits into results.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	executableName := strings.TrimSpace(string(command.Name))
	if len(executableName) == 0 {
		return ExecutionResult{}, ErrCommandNameMissing
	}

	osCommand := exec.CommandContext(executionContext, executableName, command.Details.Arguments...)
	osCommand.Dir = command.Details.WorkingDirectory
	osCommand.Env = buildCommandEnvironment(command.Details.EnvironmentVariables)

	if len(command.Details.StandardInput) > 0 {
		osCommand.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	standardOutputBuffer := &bytes.Buffer{}
	standardErrorBuffer := &bytes.Buffer{}
	osCommand.Stdout = runner.combineWriters(standardOutputBuffer, runner.standardOutputWriter)
	osCommand.Stderr = runner.combineWriters(standardErrorBuffer, runner.standardErrorWriter)

	runError := osCommand.Run()

	executionResult := ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
	}

	if runError != nil {
		if contextError := executionContext.Err(); contextError != nil {
			return executionResult, contextError
		}

		var exitError *exec.ExitError
		if errors.As(runError, &exitError) && exitError.ExitCode() >= 0 {
			executionResult.ExitCode = exitError.ExitCode()
			return executionResult, nil
		}

		return executionResult, runError
	}

	return executionResult, nil
}

func (runner *OSCommandRunner) combineWriters(captureBuffer *bytes.Buffer, passthroughWriter io.Writer) io.Writer {
	if passthroughWriter == nil {
		return captureBuffer
	}
	return io.MultiWriter(captureBuffer, passthroughWriter)
}

func buildCommandEnvironment(environmentOverrides map[string]string) []string {
	environmentEntries := os.Environ()
	for variableName, variableValue := range environmentOverrides {
		environmentEntries = append(environmentEntries, fmt.Sprintf(environmentEntryTemplateConstant, variableName, variableValue))
	}
	return environmentEntries
}
