package execshell

import (
	"fmt"
	"strings"
)

const (
	startedMessageTemplateConstant          = "Running %s"
	successMessageTemplateConstant          = "Completed %s"
	failureMessageTemplateConstant          = "%s failed with exit code %d"
	failureDetailMessageTemplateConstant    = "%s failed with exit code %d: %s"
	executionFailureMessageTemplateConstant = "%s failed: %v"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
)

// CommandMessageFormatter renders human readable command lifecycle messages.
type CommandMessageFormatter struct{}

// BuildStartedMessage describes a command that is about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return fmt.Sprintf(startedMessageTemplateConstant, formatter.describeCommand(command))
}

// BuildSuccessMessage describes a command that completed with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return fmt.Sprintf(successMessageTemplateConstant, formatter.describeCommand(command))
}

// BuildFailureMessage describes a command that exited with a non-zero code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	detail := strings.TrimSpace(result.StandardError)
	if len(detail) == 0 {
		detail = strings.TrimSpace(result.StandardOutput)
	}
	if len(detail) == 0 {
		return fmt.Sprintf(failureMessageTemplateConstant, formatter.describeCommand(command), result.ExitCode)
	}
	return fmt.Sprintf(failureDetailMessageTemplateConstant, formatter.describeCommand(command), result.ExitCode, detail)
}

// BuildExecutionFailureMessage describes a command the runner could not execute.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, executionError error) string {
	return fmt.Sprintf(executionFailureMessageTemplateConstant, formatter.describeCommand(command), executionError)
}

func (formatter CommandMessageFormatter) describeCommand(command ShellCommand) string {
	descriptionBuilder := strings.Builder{}
	descriptionBuilder.WriteString(string(command.Name))
	if len(command.Details.Arguments) > 0 {
		descriptionBuilder.WriteString(" ")
		descriptionBuilder.WriteString(strings.Join(command.Details.Arguments, " "))
	}
	if len(strings.TrimSpace(command.Details.WorkingDirectory)) > 0 {
		descriptionBuilder.WriteString(fmt.Sprintf(workingDirectorySuffixTemplateConstant, command.Details.WorkingDirectory))
	}
	return descriptionBuilder.String()
}
