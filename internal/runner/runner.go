// Package runner executes compiled taskfile targets sequentially with
// fail-fast semantics.
package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tyemirov/pyx/internal/cleanup"
	"github.com/tyemirov/pyx/internal/execshell"
	"github.com/tyemirov/pyx/internal/taskfile"
)

const (
	targetStartMessageConstant    = "target execution starting"
	targetFinishedMessageConstant = "target execution completed"
	stepStartMessageConstant      = "step execution starting"
	stepFinishedMessageConstant   = "step execution completed"
	targetFieldNameConstant       = "target"
	stepIndexFieldNameConstant    = "step"
	stepKindFieldNameConstant     = "kind"
	descriptionFieldNameConstant  = "description"
	durationFieldNameConstant     = "duration"
	stepCountFieldNameConstant    = "steps"
	failedStepsFieldNameConstant  = "failed_steps"
	dryRunFieldNameConstant       = "dry_run"
	stepDescriptorSeparator       = " "
)

// CommandExecutor runs subprocess steps.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
	ExecuteInterpreter(executionContext context.Context, interpreter string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// DirectoryPruner removes directories by name wherever they appear under the root.
type DirectoryPruner interface {
	Prune(executionContext context.Context, rootDirectory string, directoryNames []string) ([]string, error)
}

// PathRemover removes root-relative paths.
type PathRemover interface {
	Remove(rootDirectory string, relativePaths []string) ([]string, error)
}

// Dependencies carries the engine's collaborators.
type Dependencies struct {
	Logger          *zap.Logger
	CommandExecutor CommandExecutor
	DirectoryPruner DirectoryPruner
	PathRemover     PathRemover
}

// RunOptions adjusts a single target invocation.
type RunOptions struct {
	RootDirectory    string
	Interpreter      string
	PackageDirectory string
	TestsDirectory   string
	DryRun           bool
}

// Target is the engine-side compiled form of a target declaration.
type Target struct {
	Name        string
	Description string
	Steps       []Step
}

// Step carries one executable unit of a compiled target.
type Step struct {
	Kind             taskfile.StepKind
	Arguments        []string
	WorkingDirectory string
}

// CompileTarget converts a declaration into the engine's executable form.
func CompileTarget(definition taskfile.TargetDefinition) Target {
	compiledSteps := make([]Step, 0, len(definition.Steps))
	for stepIndex := range definition.Steps {
		compiledSteps = append(compiledSteps, Step{
			Kind:             definition.Steps[stepIndex].Kind,
			Arguments:        append([]string(nil), definition.Steps[stepIndex].Arguments...),
			WorkingDirectory: definition.Steps[stepIndex].WorkingDirectory,
		})
	}
	return Target{Name: definition.Name, Description: definition.Description, Steps: compiledSteps}
}

// TargetRunner executes compiled targets step by step. The first failing
// step aborts the remainder; there is no retry or rollback.
type TargetRunner struct {
	dependencies Dependencies
}

// NewTargetRunner constructs a TargetRunner, defaulting the logger and
// cleanup collaborators when absent.
func NewTargetRunner(dependencies Dependencies) *TargetRunner {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.DirectoryPruner == nil {
		dependencies.DirectoryPruner = cleanup.NewDirectoryPruner()
	}
	if dependencies.PathRemover == nil {
		dependencies.PathRemover = cleanup.NewPathRemover()
	}
	return &TargetRunner{dependencies: dependencies}
}

// RunNamed locates the named target in the declaration and executes it.
// Template variables missing from the options fall back to the declaration.
func (targetRunner *TargetRunner) RunNamed(executionContext context.Context, declaration taskfile.Taskfile, targetName string, options RunOptions) (ExecutionOutcome, error) {
	definition, targetFound := declaration.FindTarget(targetName)
	if !targetFound {
		return ExecutionOutcome{TargetName: targetName}, UnknownTargetError{Name: targetName}
	}

	if len(strings.TrimSpace(options.PackageDirectory)) == 0 {
		options.PackageDirectory = declaration.PackageDirectory
	}
	if len(strings.TrimSpace(options.TestsDirectory)) == 0 {
		options.TestsDirectory = declaration.TestsDirectory
	}

	return targetRunner.Run(executionContext, CompileTarget(definition), options)
}

// Run executes the compiled target's steps strictly in declaration order.
func (targetRunner *TargetRunner) Run(executionContext context.Context, target Target, options RunOptions) (ExecutionOutcome, error) {
	outcome := ExecutionOutcome{
		TargetName:   target.Name,
		StartTime:    time.Now(),
		StepOutcomes: make([]StepOutcome, 0, len(target.Steps)),
	}

	if len(strings.TrimSpace(options.RootDirectory)) == 0 {
		outcome.EndTime = outcome.StartTime
		return outcome, ErrRootDirectoryMissing
	}

	templateData := TemplateData{
		Interpreter: options.Interpreter,
		Root:        options.RootDirectory,
		Package:     options.PackageDirectory,
		Tests:       options.TestsDirectory,
		Target:      target.Name,
	}

	targetRunner.dependencies.Logger.Debug(targetStartMessageConstant,
		zap.String(targetFieldNameConstant, target.Name),
		zap.Int(stepCountFieldNameConstant, len(target.Steps)),
		zap.Bool(dryRunFieldNameConstant, options.DryRun),
	)

	var runError error
	for stepIndex := range target.Steps {
		if contextError := executionContext.Err(); contextError != nil {
			runError = contextError
			break
		}

		stepOutcome, stepError := targetRunner.executeStep(executionContext, target, stepIndex, templateData, options)
		outcome.StepOutcomes = append(outcome.StepOutcomes, stepOutcome)
		if stepError != nil {
			failure := StepExecutionError{TargetName: target.Name, StepIndex: stepIndex + 1, Cause: stepError}
			outcome.Failure = &StepFailure{StepIndex: stepIndex + 1, Message: failure.Error(), Err: stepError}
			runError = failure
			break
		}
	}

	outcome.EndTime = time.Now()
	outcome.Duration = outcome.EndTime.Sub(outcome.StartTime)

	targetRunner.dependencies.Logger.Debug(targetFinishedMessageConstant,
		zap.String(targetFieldNameConstant, target.Name),
		zap.Duration(durationFieldNameConstant, outcome.Duration),
		zap.Int(failedStepsFieldNameConstant, outcome.FailedSteps()),
	)

	return outcome, runError
}

func (targetRunner *TargetRunner) executeStep(executionContext context.Context, target Target, stepIndex int, templateData TemplateData, options RunOptions) (StepOutcome, error) {
	step := target.Steps[stepIndex]
	stepStart := time.Now()
	stepOutcome := StepOutcome{Index: stepIndex + 1, Kind: step.Kind}

	renderedArguments, renderError := renderArguments(step.Arguments, templateData)
	if renderError == nil && len(renderedArguments) == 0 {
		renderError = errors.New(stepArgumentsEmptyMessageConstant)
	}
	if renderError != nil {
		stepOutcome.Failed = true
		stepOutcome.Duration = time.Since(stepStart)
		return stepOutcome, renderError
	}

	stepOutcome.Description = describeStep(step.Kind, renderedArguments)

	targetRunner.dependencies.Logger.Debug(stepStartMessageConstant,
		zap.String(targetFieldNameConstant, target.Name),
		zap.Int(stepIndexFieldNameConstant, stepOutcome.Index),
		zap.String(stepKindFieldNameConstant, string(step.Kind)),
		zap.String(descriptionFieldNameConstant, stepOutcome.Description),
	)

	if options.DryRun {
		stepOutcome.Duration = time.Since(stepStart)
		return stepOutcome, nil
	}

	var stepError error
	switch step.Kind {
	case taskfile.StepKindRun:
		stepError = targetRunner.executeRunStep(executionContext, renderedArguments, step.WorkingDirectory, templateData, options)
	case taskfile.StepKindPrune:
		prunedPaths, pruneError := targetRunner.dependencies.DirectoryPruner.Prune(executionContext, options.RootDirectory, renderedArguments)
		stepOutcome.RemovedPaths = prunedPaths
		stepError = pruneError
	case taskfile.StepKindRemove:
		removedPaths, removeError := targetRunner.dependencies.PathRemover.Remove(options.RootDirectory, renderedArguments)
		stepOutcome.RemovedPaths = removedPaths
		stepError = removeError
	default:
		stepError = fmt.Errorf(unsupportedStepKindMessageTemplateConstant, string(step.Kind))
	}

	stepOutcome.Duration = time.Since(stepStart)
	if stepError != nil {
		stepOutcome.Failed = true
		return stepOutcome, stepError
	}

	targetRunner.dependencies.Logger.Debug(stepFinishedMessageConstant,
		zap.String(targetFieldNameConstant, target.Name),
		zap.Int(stepIndexFieldNameConstant, stepOutcome.Index),
		zap.Duration(durationFieldNameConstant, stepOutcome.Duration),
	)

	return stepOutcome, nil
}

func (targetRunner *TargetRunner) executeRunStep(executionContext context.Context, arguments []string, workingDirectory string, templateData TemplateData, options RunOptions) error {
	if targetRunner.dependencies.CommandExecutor == nil {
		return ErrCommandExecutorNotConfigured
	}

	resolvedWorkingDirectory, workingDirectoryError := resolveWorkingDirectory(workingDirectory, templateData, options.RootDirectory)
	if workingDirectoryError != nil {
		return workingDirectoryError
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        arguments[1:],
		WorkingDirectory: resolvedWorkingDirectory,
	}

	interpreterCommand := strings.TrimSpace(options.Interpreter)
	if len(interpreterCommand) > 0 && arguments[0] == interpreterCommand {
		_, executionError := targetRunner.dependencies.CommandExecutor.ExecuteInterpreter(executionContext, interpreterCommand, commandDetails)
		return executionError
	}

	_, executionError := targetRunner.dependencies.CommandExecutor.Execute(executionContext, execshell.ShellCommand{
		Name:    execshell.CommandName(arguments[0]),
		Details: commandDetails,
	})
	return executionError
}

func resolveWorkingDirectory(rawWorkingDirectory string, templateData TemplateData, rootDirectory string) (string, error) {
	renderedDirectory, renderError := renderTemplateValue(rawWorkingDirectory, templateData)
	if renderError != nil {
		return "", renderError
	}

	trimmedDirectory := strings.TrimSpace(renderedDirectory)
	if len(trimmedDirectory) == 0 {
		return rootDirectory, nil
	}
	if filepath.IsAbs(trimmedDirectory) {
		return trimmedDirectory, nil
	}
	return filepath.Join(rootDirectory, trimmedDirectory), nil
}

func describeStep(stepKind taskfile.StepKind, arguments []string) string {
	joinedArguments := strings.Join(arguments, stepDescriptorSeparator)
	if stepKind == taskfile.StepKindRun {
		return joinedArguments
	}
	return string(stepKind) + stepDescriptorSeparator + joinedArguments
}
