// Package targets assembles the cobra commands that execute and list
// taskfile targets.
package targets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/pyx/internal/interpreter"
	"github.com/tyemirov/pyx/internal/runner"
	"github.com/tyemirov/pyx/internal/taskfile"
	"github.com/tyemirov/pyx/internal/utils"
	flagutils "github.com/tyemirov/pyx/internal/utils/flags"
	rootutils "github.com/tyemirov/pyx/internal/utils/roots"
	"github.com/tyemirov/pyx/pkg/taskrunner"
)

const (
	listCommandUseConstant                        = "targets"
	listCommandShortDescriptionConstant           = "List declared targets"
	listCommandLongDescriptionConstant            = "targets prints every target declared by the active taskfile in declaration order."
	targetListLineTemplateConstant                = "%s\t%s\n"
	targetNameRequiredMessageConstant             = "target name is required"
	targetCommandShortDescriptionTemplateConstant = "Run the %s target"
	dryRunStepMessageTemplateConstant             = "DRY-RUN %d: %s\n"
	taskfileStatErrorTemplateConstant             = "failed to inspect taskfile %s: %w"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the target listing and execution commands.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	CommandExecutor              runner.CommandExecutor
	DirectoryPruner              runner.DirectoryPruner
	PathRemover                  runner.PathRemover
	ExecutorFactory              taskrunner.Factory
	WorkingDirectoryResolver     func() (string, error)
	EnvironmentLookup            interpreter.LookupFunc
}

// Build constructs the targets listing command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   listCommandUseConstant,
		Short: listCommandShortDescriptionConstant,
		Long:  listCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runList,
	}
	return command, nil
}

// BuildTargetCommands constructs one runnable subcommand per target declared
// by the taskfile visible at build time. Each command resolves its
// declaration again when it runs so flag and configuration overrides still
// apply.
func (builder *CommandBuilder) BuildTargetCommands() ([]*cobra.Command, error) {
	configuration := builder.resolveConfiguration()
	declaration, _, declarationError := builder.resolveDeclaration(nil, configuration, builder.resolveTaskfileName(configuration))
	if declarationError != nil {
		return nil, declarationError
	}

	targetCommands := make([]*cobra.Command, 0, len(declaration.Targets))
	for targetIndex := range declaration.Targets {
		targetName := declaration.Targets[targetIndex].Name
		shortDescription := strings.TrimSpace(declaration.Targets[targetIndex].Description)
		if len(shortDescription) == 0 {
			shortDescription = fmt.Sprintf(targetCommandShortDescriptionTemplateConstant, targetName)
		}

		targetCommands = append(targetCommands, &cobra.Command{
			Use:   targetName,
			Short: shortDescription,
			Args:  cobra.NoArgs,
			RunE: func(command *cobra.Command, _ []string) error {
				return builder.RunTarget(command, targetName)
			},
		})
	}
	return targetCommands, nil
}

// RunTarget resolves the active declaration and executes the named target.
// Execution errors from the engine propagate unchanged so callers can map
// them onto process exit codes.
func (builder *CommandBuilder) RunTarget(command *cobra.Command, targetName string) error {
	trimmedTargetName := strings.TrimSpace(targetName)
	if len(trimmedTargetName) == 0 {
		return errors.New(targetNameRequiredMessageConstant)
	}

	configuration := builder.resolveConfiguration()

	taskfileName, taskfileNameError := builder.resolveTaskfileNameWithFlags(command, configuration)
	if taskfileNameError != nil {
		return taskfileNameError
	}

	declaration, rootDirectory, declarationError := builder.resolveDeclaration(command, configuration, taskfileName)
	if declarationError != nil {
		return declarationError
	}

	packageDirectory, testsDirectory, variablesError := builder.resolveTemplateVariables(command, configuration)
	if variablesError != nil {
		return variablesError
	}

	resolution := interpreter.Resolve(builder.resolveEnvironmentLookup(), configuration.InterpreterDefault)

	dryRun := configuration.DryRun
	if executionFlags, executionFlagsAvailable := flagutils.ResolveExecutionFlags(command); executionFlagsAvailable && executionFlags.DryRunSet {
		dryRun = executionFlags.DryRun
	}

	dependencies, dependenciesError := taskrunner.BuildDependencies(
		taskrunner.DependenciesConfig{
			LoggerProvider:               builder.LoggerProvider,
			HumanReadableLoggingProvider: builder.HumanReadableLoggingProvider,
			CommandExecutor:              builder.CommandExecutor,
			DirectoryPruner:              builder.DirectoryPruner,
			PathRemover:                  builder.PathRemover,
		},
		taskrunner.DependenciesOptions{Command: command, DisableSummary: configuration.DisableSummary},
	)
	if dependenciesError != nil {
		return dependenciesError
	}

	executor := taskrunner.Resolve(builder.ExecutorFactory, dependencies)

	runOptions := runner.RunOptions{
		RootDirectory:    rootDirectory,
		Interpreter:      resolution.Command,
		PackageDirectory: packageDirectory,
		TestsDirectory:   testsDirectory,
		DryRun:           dryRun,
	}

	outcome, runError := executor.Run(command.Context(), declaration, trimmedTargetName, runOptions)
	if runError != nil {
		return runError
	}

	if dryRun {
		return builder.printDryRunPlan(command, outcome)
	}
	return nil
}

func (builder *CommandBuilder) runList(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()

	taskfileName, taskfileNameError := builder.resolveTaskfileNameWithFlags(command, configuration)
	if taskfileNameError != nil {
		return taskfileNameError
	}

	declaration, _, declarationError := builder.resolveDeclaration(command, configuration, taskfileName)
	if declarationError != nil {
		return declarationError
	}

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	for targetIndex := range declaration.Targets {
		target := declaration.Targets[targetIndex]
		if len(target.Description) > 0 {
			if _, writeError := fmt.Fprintf(outputWriter, targetListLineTemplateConstant, target.Name, target.Description); writeError != nil {
				return writeError
			}
			continue
		}
		if _, writeError := fmt.Fprintln(outputWriter, target.Name); writeError != nil {
			return writeError
		}
	}
	return nil
}

// resolveDeclaration loads the taskfile governing the invocation. An explicit
// root (flag or configuration) pins the search to that directory; otherwise
// the declaration is located upward from the working directory. When no file
// exists the embedded default declaration applies.
func (builder *CommandBuilder) resolveDeclaration(command *cobra.Command, configuration CommandConfiguration, taskfileName string) (taskfile.Taskfile, string, error) {
	explicitRoot, rootFlagError := rootutils.FlagValue(command)
	if rootFlagError != nil {
		return taskfile.Taskfile{}, "", rootFlagError
	}
	if len(explicitRoot) == 0 {
		explicitRoot = rootutils.SanitizeConfigured(configuration.RootDirectory)
	}

	if len(explicitRoot) > 0 {
		candidatePath := filepath.Join(explicitRoot, taskfileName)
		candidateInfo, statError := os.Stat(candidatePath)
		switch {
		case statError == nil && !candidateInfo.IsDir():
			declaration, loadError := taskfile.Load(candidatePath)
			if loadError != nil {
				return taskfile.Taskfile{}, "", loadError
			}
			return declaration, explicitRoot, nil
		case statError != nil && !os.IsNotExist(statError):
			return taskfile.Taskfile{}, "", fmt.Errorf(taskfileStatErrorTemplateConstant, candidatePath, statError)
		}

		declaration, embeddedError := taskfile.Default()
		if embeddedError != nil {
			return taskfile.Taskfile{}, "", embeddedError
		}
		return declaration, explicitRoot, nil
	}

	workingDirectory, workingDirectoryError := builder.resolveWorkingDirectory()
	if workingDirectoryError != nil {
		return taskfile.Taskfile{}, "", workingDirectoryError
	}

	location, locateError := taskfile.Locate(workingDirectory, taskfileName)
	if locateError != nil {
		return taskfile.Taskfile{}, "", locateError
	}

	if location.Embedded {
		declaration, embeddedError := taskfile.Default()
		if embeddedError != nil {
			return taskfile.Taskfile{}, "", embeddedError
		}
		return declaration, location.RootDirectory, nil
	}

	declaration, loadError := taskfile.Load(location.FilePath)
	if loadError != nil {
		return taskfile.Taskfile{}, "", loadError
	}
	return declaration, location.RootDirectory, nil
}

func (builder *CommandBuilder) resolveTemplateVariables(command *cobra.Command, configuration CommandConfiguration) (string, string, error) {
	packageDirectory := configuration.PackageDirectory
	testsDirectory := configuration.TestsDirectory
	if command == nil {
		return packageDirectory, testsDirectory, nil
	}

	assignments, _, flagError := flagutils.StringArrayFlag(command, flagutils.VariablesFlagName)
	if flagError != nil {
		if errors.Is(flagError, flagutils.ErrFlagNotDefined) {
			return packageDirectory, testsDirectory, nil
		}
		return "", "", flagError
	}

	parsedAssignments, parseError := parseVariableAssignments(assignments)
	if parseError != nil {
		return "", "", parseError
	}
	if value, exists := parsedAssignments[packageVariableNameConstant]; exists {
		packageDirectory = value
	}
	if value, exists := parsedAssignments[testsVariableNameConstant]; exists {
		testsDirectory = value
	}
	return packageDirectory, testsDirectory, nil
}

func (builder *CommandBuilder) resolveTaskfileNameWithFlags(command *cobra.Command, configuration CommandConfiguration) (string, error) {
	taskfileName := builder.resolveTaskfileName(configuration)
	if command == nil {
		return taskfileName, nil
	}

	flagValue, flagChanged, flagError := flagutils.StringFlag(command, flagutils.TaskfileFlagName)
	if flagError != nil {
		if errors.Is(flagError, flagutils.ErrFlagNotDefined) {
			return taskfileName, nil
		}
		return "", flagError
	}
	if flagChanged {
		if trimmedValue := strings.TrimSpace(flagValue); len(trimmedValue) > 0 {
			taskfileName = trimmedValue
		}
	}
	return taskfileName, nil
}

func (builder *CommandBuilder) resolveTaskfileName(configuration CommandConfiguration) string {
	if len(configuration.TaskfileName) > 0 {
		return configuration.TaskfileName
	}
	return taskfile.DefaultFileName
}

func (builder *CommandBuilder) printDryRunPlan(command *cobra.Command, outcome runner.ExecutionOutcome) error {
	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	for stepIndex := range outcome.StepOutcomes {
		stepOutcome := outcome.StepOutcomes[stepIndex]
		if _, writeError := fmt.Fprintf(outputWriter, dryRunStepMessageTemplateConstant, stepOutcome.Index, stepOutcome.Description); writeError != nil {
			return writeError
		}
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveWorkingDirectory() (string, error) {
	if builder.WorkingDirectoryResolver != nil {
		return builder.WorkingDirectoryResolver()
	}
	return os.Getwd()
}

func (builder *CommandBuilder) resolveEnvironmentLookup() interpreter.LookupFunc {
	if builder.EnvironmentLookup != nil {
		return builder.EnvironmentLookup
	}
	return os.LookupEnv
}
