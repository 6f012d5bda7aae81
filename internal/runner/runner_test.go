package runner_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyemirov/pyx/internal/execshell"
	"github.com/tyemirov/pyx/internal/runner"
	"github.com/tyemirov/pyx/internal/taskfile"
)

const (
	testRootDirectoryConstant          = "/workspace/project"
	testInterpreterCommandConstant     = "python3.11"
	testPackageDirectoryConstant       = "c4psycopg"
	testTestsDirectoryConstant         = "tests"
	testTargetNameConstant             = "test"
	testUnknownTargetNameConstant      = "deploy"
	testStepOrderingCaseNameConstant   = "steps_execute_in_declared_order"
	testInterpreterCaseNameConstant    = "interpreter_tokens_substituted"
	testForeignCommandCaseNameConstant = "non_interpreter_command_uses_execute"
	testPruneRemovedPathConstant       = "/workspace/project/pkg/__pycache__"
	testRemoveRemovedPathConstant      = "/workspace/project/htmlcov"
)

type recordedInvocation struct {
	Interpreter      string
	CommandName      string
	Arguments        []string
	WorkingDirectory string
}

type fakeCommandExecutor struct {
	invocations  []recordedInvocation
	failAtCall   int
	failureError error
}

func (executor *fakeCommandExecutor) Execute(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	executor.invocations = append(executor.invocations, recordedInvocation{
		CommandName:      string(command.Name),
		Arguments:        command.Details.Arguments,
		WorkingDirectory: command.Details.WorkingDirectory,
	})
	return executor.result()
}

func (executor *fakeCommandExecutor) ExecuteInterpreter(_ context.Context, interpreter string, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.invocations = append(executor.invocations, recordedInvocation{
		Interpreter:      interpreter,
		CommandName:      interpreter,
		Arguments:        details.Arguments,
		WorkingDirectory: details.WorkingDirectory,
	})
	return executor.result()
}

func (executor *fakeCommandExecutor) result() (execshell.ExecutionResult, error) {
	if executor.failAtCall > 0 && len(executor.invocations) == executor.failAtCall {
		return execshell.ExecutionResult{}, executor.failureError
	}
	return execshell.ExecutionResult{}, nil
}

type fakeDirectoryPruner struct {
	recordedRoot  string
	recordedNames []string
	removedPaths  []string
	pruneError    error
}

func (pruner *fakeDirectoryPruner) Prune(_ context.Context, rootDirectory string, directoryNames []string) ([]string, error) {
	pruner.recordedRoot = rootDirectory
	pruner.recordedNames = directoryNames
	return pruner.removedPaths, pruner.pruneError
}

type fakePathRemover struct {
	recordedRoot  string
	recordedPaths []string
	removedPaths  []string
	removeError   error
}

func (remover *fakePathRemover) Remove(rootDirectory string, relativePaths []string) ([]string, error) {
	remover.recordedRoot = rootDirectory
	remover.recordedPaths = relativePaths
	return remover.removedPaths, remover.removeError
}

func defaultRunOptions() runner.RunOptions {
	return runner.RunOptions{
		RootDirectory:    testRootDirectoryConstant,
		Interpreter:      testInterpreterCommandConstant,
		PackageDirectory: testPackageDirectoryConstant,
		TestsDirectory:   testTestsDirectoryConstant,
	}
}

func runTargetDefinition(steps ...taskfile.StepDefinition) taskfile.TargetDefinition {
	return taskfile.TargetDefinition{Name: testTargetNameConstant, Steps: steps}
}

func TestTargetRunnerExecutesStepsInOrder(testInstance *testing.T) {
	testCases := []struct {
		name                string
		steps               []taskfile.StepDefinition
		expectedInvocations []recordedInvocation
	}{
		{
			name: testStepOrderingCaseNameConstant,
			steps: []taskfile.StepDefinition{
				{Kind: taskfile.StepKindRun, Arguments: []string{"{{.Interpreter}}", "-m", "black", "{{.Package}}", "{{.Tests}}"}},
				{Kind: taskfile.StepKindRun, Arguments: []string{"{{.Interpreter}}", "-m", "isort", "."}},
			},
			expectedInvocations: []recordedInvocation{
				{
					Interpreter:      testInterpreterCommandConstant,
					CommandName:      testInterpreterCommandConstant,
					Arguments:        []string{"-m", "black", testPackageDirectoryConstant, testTestsDirectoryConstant},
					WorkingDirectory: testRootDirectoryConstant,
				},
				{
					Interpreter:      testInterpreterCommandConstant,
					CommandName:      testInterpreterCommandConstant,
					Arguments:        []string{"-m", "isort", "."},
					WorkingDirectory: testRootDirectoryConstant,
				},
			},
		},
		{
			name: testInterpreterCaseNameConstant,
			steps: []taskfile.StepDefinition{
				{Kind: taskfile.StepKindRun, Arguments: []string{"{{.Interpreter}}", "-m", "pytest"}},
			},
			expectedInvocations: []recordedInvocation{
				{
					Interpreter:      testInterpreterCommandConstant,
					CommandName:      testInterpreterCommandConstant,
					Arguments:        []string{"-m", "pytest"},
					WorkingDirectory: testRootDirectoryConstant,
				},
			},
		},
		{
			name: testForeignCommandCaseNameConstant,
			steps: []taskfile.StepDefinition{
				{Kind: taskfile.StepKindRun, Arguments: []string{"ruff", "check", "{{.Package}}"}},
			},
			expectedInvocations: []recordedInvocation{
				{
					CommandName:      "ruff",
					Arguments:        []string{"check", testPackageDirectoryConstant},
					WorkingDirectory: testRootDirectoryConstant,
				},
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			commandExecutor := &fakeCommandExecutor{}
			targetRunner := runner.NewTargetRunner(runner.Dependencies{CommandExecutor: commandExecutor})

			compiledTarget := runner.CompileTarget(runTargetDefinition(testCase.steps...))
			outcome, runError := targetRunner.Run(context.Background(), compiledTarget, defaultRunOptions())

			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.expectedInvocations, commandExecutor.invocations)
			require.Len(testInstance, outcome.StepOutcomes, len(testCase.steps))
			require.Nil(testInstance, outcome.Failure)
			for stepIndex := range outcome.StepOutcomes {
				require.False(testInstance, outcome.StepOutcomes[stepIndex].Failed)
				require.Equal(testInstance, stepIndex+1, outcome.StepOutcomes[stepIndex].Index)
			}
		})
	}
}

func TestTargetRunnerRunNamedRejectsUnknownTarget(testInstance *testing.T) {
	commandExecutor := &fakeCommandExecutor{}
	targetRunner := runner.NewTargetRunner(runner.Dependencies{CommandExecutor: commandExecutor})

	declaration := taskfile.Taskfile{Targets: []taskfile.TargetDefinition{
		runTargetDefinition(taskfile.StepDefinition{Kind: taskfile.StepKindRun, Arguments: []string{"{{.Interpreter}}", "-m", "pytest"}}),
	}}

	outcome, runError := targetRunner.RunNamed(context.Background(), declaration, testUnknownTargetNameConstant, defaultRunOptions())

	require.Error(testInstance, runError)
	var unknownTarget runner.UnknownTargetError
	require.ErrorAs(testInstance, runError, &unknownTarget)
	require.Equal(testInstance, testUnknownTargetNameConstant, unknownTarget.Name)
	require.Empty(testInstance, commandExecutor.invocations)
	require.Empty(testInstance, outcome.StepOutcomes)
}

func TestTargetRunnerStopsAfterFirstFailure(testInstance *testing.T) {
	failingResult := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandName(testInterpreterCommandConstant)},
		Result:  execshell.ExecutionResult{ExitCode: 3},
	}
	commandExecutor := &fakeCommandExecutor{failAtCall: 1, failureError: failingResult}
	targetRunner := runner.NewTargetRunner(runner.Dependencies{CommandExecutor: commandExecutor})

	compiledTarget := runner.CompileTarget(runTargetDefinition(
		taskfile.StepDefinition{Kind: taskfile.StepKindRun, Arguments: []string{"{{.Interpreter}}", "-m", "pylint"}},
		taskfile.StepDefinition{Kind: taskfile.StepKindRun, Arguments: []string{"{{.Interpreter}}", "-m", "pytest"}},
	))

	outcome, runError := targetRunner.Run(context.Background(), compiledTarget, defaultRunOptions())

	require.Error(testInstance, runError)
	require.Len(testInstance, commandExecutor.invocations, 1)
	require.Len(testInstance, outcome.StepOutcomes, 1)
	require.True(testInstance, outcome.StepOutcomes[0].Failed)
	require.NotNil(testInstance, outcome.Failure)
	require.Equal(testInstance, 1, outcome.Failure.StepIndex)

	var stepFailure runner.StepExecutionError
	require.ErrorAs(testInstance, runError, &stepFailure)
	require.Equal(testInstance, testTargetNameConstant, stepFailure.TargetName)

	var commandFailure execshell.CommandFailedError
	require.ErrorAs(testInstance, runError, &commandFailure)
	require.Equal(testInstance, 3, commandFailure.Result.ExitCode)
}

func TestTargetRunnerDryRunSkipsSideEffects(testInstance *testing.T) {
	commandExecutor := &fakeCommandExecutor{}
	directoryPruner := &fakeDirectoryPruner{}
	pathRemover := &fakePathRemover{}
	targetRunner := runner.NewTargetRunner(runner.Dependencies{
		CommandExecutor: commandExecutor,
		DirectoryPruner: directoryPruner,
		PathRemover:     pathRemover,
	})

	compiledTarget := runner.CompileTarget(runTargetDefinition(
		taskfile.StepDefinition{Kind: taskfile.StepKindPrune, Arguments: []string{"__pycache__"}},
		taskfile.StepDefinition{Kind: taskfile.StepKindRemove, Arguments: []string{"htmlcov"}},
		taskfile.StepDefinition{Kind: taskfile.StepKindRun, Arguments: []string{"{{.Interpreter}}", "-m", "pytest"}},
	))

	options := defaultRunOptions()
	options.DryRun = true
	outcome, runError := targetRunner.Run(context.Background(), compiledTarget, options)

	require.NoError(testInstance, runError)
	require.Empty(testInstance, commandExecutor.invocations)
	require.Empty(testInstance, directoryPruner.recordedNames)
	require.Empty(testInstance, pathRemover.recordedPaths)
	require.Len(testInstance, outcome.StepOutcomes, 3)
	require.Equal(testInstance, "prune __pycache__", outcome.StepOutcomes[0].Description)
	require.Equal(testInstance, "remove htmlcov", outcome.StepOutcomes[1].Description)
	require.Equal(testInstance, testInterpreterCommandConstant+" -m pytest", outcome.StepOutcomes[2].Description)
}

func TestTargetRunnerExecutesCleanupSteps(testInstance *testing.T) {
	directoryPruner := &fakeDirectoryPruner{removedPaths: []string{testPruneRemovedPathConstant}}
	pathRemover := &fakePathRemover{removedPaths: []string{testRemoveRemovedPathConstant}}
	targetRunner := runner.NewTargetRunner(runner.Dependencies{
		CommandExecutor: &fakeCommandExecutor{},
		DirectoryPruner: directoryPruner,
		PathRemover:     pathRemover,
	})

	compiledTarget := runner.CompileTarget(runTargetDefinition(
		taskfile.StepDefinition{Kind: taskfile.StepKindPrune, Arguments: []string{"__pycache__"}},
		taskfile.StepDefinition{Kind: taskfile.StepKindRemove, Arguments: []string{"htmlcov", ".coverage", ".pytest_cache"}},
	))

	outcome, runError := targetRunner.Run(context.Background(), compiledTarget, defaultRunOptions())

	require.NoError(testInstance, runError)
	require.Equal(testInstance, testRootDirectoryConstant, directoryPruner.recordedRoot)
	require.Equal(testInstance, []string{"__pycache__"}, directoryPruner.recordedNames)
	require.Equal(testInstance, testRootDirectoryConstant, pathRemover.recordedRoot)
	require.Equal(testInstance, []string{"htmlcov", ".coverage", ".pytest_cache"}, pathRemover.recordedPaths)
	require.Equal(testInstance, []string{testPruneRemovedPathConstant}, outcome.StepOutcomes[0].RemovedPaths)
	require.Equal(testInstance, []string{testRemoveRemovedPathConstant}, outcome.StepOutcomes[1].RemovedPaths)
}

func TestTargetRunnerResolvesStepWorkingDirectories(testInstance *testing.T) {
	testCases := []struct {
		name                     string
		workingDirectory         string
		expectedWorkingDirectory string
	}{
		{
			name:                     "defaults_to_root",
			workingDirectory:         "",
			expectedWorkingDirectory: testRootDirectoryConstant,
		},
		{
			name:                     "joins_relative_directory",
			workingDirectory:         "docs",
			expectedWorkingDirectory: filepath.Join(testRootDirectoryConstant, "docs"),
		},
		{
			name:                     "keeps_absolute_directory",
			workingDirectory:         "/srv/builds",
			expectedWorkingDirectory: "/srv/builds",
		},
		{
			name:                     "renders_templated_directory",
			workingDirectory:         "{{.Tests}}",
			expectedWorkingDirectory: filepath.Join(testRootDirectoryConstant, testTestsDirectoryConstant),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			commandExecutor := &fakeCommandExecutor{}
			targetRunner := runner.NewTargetRunner(runner.Dependencies{CommandExecutor: commandExecutor})

			compiledTarget := runner.CompileTarget(runTargetDefinition(taskfile.StepDefinition{
				Kind:             taskfile.StepKindRun,
				Arguments:        []string{"{{.Interpreter}}", "-m", "pytest"},
				WorkingDirectory: testCase.workingDirectory,
			}))

			_, runError := targetRunner.Run(context.Background(), compiledTarget, defaultRunOptions())
			require.NoError(testInstance, runError)
			require.Len(testInstance, commandExecutor.invocations, 1)
			require.Equal(testInstance, testCase.expectedWorkingDirectory, commandExecutor.invocations[0].WorkingDirectory)
		})
	}
}

func TestTargetRunnerReportsTemplateFailuresWithoutExecuting(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "malformed_template", arguments: []string{"{{.Interpreter}", "-m", "pytest"}},
		{name: "unknown_template_key", arguments: []string{"{{.Interpreter}}", "-m", "pytest", "{{.Flavor}}"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			commandExecutor := &fakeCommandExecutor{}
			targetRunner := runner.NewTargetRunner(runner.Dependencies{CommandExecutor: commandExecutor})

			compiledTarget := runner.CompileTarget(runTargetDefinition(taskfile.StepDefinition{
				Kind:      taskfile.StepKindRun,
				Arguments: testCase.arguments,
			}))

			outcome, runError := targetRunner.Run(context.Background(), compiledTarget, defaultRunOptions())

			require.Error(testInstance, runError)
			require.Empty(testInstance, commandExecutor.invocations)
			require.Len(testInstance, outcome.StepOutcomes, 1)
			require.True(testInstance, outcome.StepOutcomes[0].Failed)
		})
	}
}

func TestTargetRunnerDropsArgumentsRenderedEmpty(testInstance *testing.T) {
	commandExecutor := &fakeCommandExecutor{}
	targetRunner := runner.NewTargetRunner(runner.Dependencies{CommandExecutor: commandExecutor})

	compiledTarget := runner.CompileTarget(runTargetDefinition(taskfile.StepDefinition{
		Kind:      taskfile.StepKindRun,
		Arguments: []string{"ruff", "check", "{{.Package}}"},
	}))

	options := defaultRunOptions()
	options.PackageDirectory = ""
	_, runError := targetRunner.Run(context.Background(), compiledTarget, options)

	require.NoError(testInstance, runError)
	require.Len(testInstance, commandExecutor.invocations, 1)
	require.Equal(testInstance, []string{"check"}, commandExecutor.invocations[0].Arguments)
}

func TestTargetRunnerRequiresRootDirectory(testInstance *testing.T) {
	targetRunner := runner.NewTargetRunner(runner.Dependencies{CommandExecutor: &fakeCommandExecutor{}})

	compiledTarget := runner.CompileTarget(runTargetDefinition(taskfile.StepDefinition{
		Kind:      taskfile.StepKindRun,
		Arguments: []string{"{{.Interpreter}}", "-m", "pytest"},
	}))

	options := defaultRunOptions()
	options.RootDirectory = "   "
	_, runError := targetRunner.Run(context.Background(), compiledTarget, options)
	require.ErrorIs(testInstance, runError, runner.ErrRootDirectoryMissing)
}

func TestTargetRunnerHonorsContextCancellation(testInstance *testing.T) {
	commandExecutor := &fakeCommandExecutor{}
	targetRunner := runner.NewTargetRunner(runner.Dependencies{CommandExecutor: commandExecutor})

	cancelledContext, cancelFunction := context.WithCancel(context.Background())
	cancelFunction()

	compiledTarget := runner.CompileTarget(runTargetDefinition(taskfile.StepDefinition{
		Kind:      taskfile.StepKindRun,
		Arguments: []string{"{{.Interpreter}}", "-m", "pytest"},
	}))

	_, runError := targetRunner.Run(cancelledContext, compiledTarget, defaultRunOptions())
	require.ErrorIs(testInstance, runError, context.Canceled)
	require.Empty(testInstance, commandExecutor.invocations)
}

func TestTargetRunnerRunNamedFallsBackToDeclarationVariables(testInstance *testing.T) {
	commandExecutor := &fakeCommandExecutor{}
	targetRunner := runner.NewTargetRunner(runner.Dependencies{CommandExecutor: commandExecutor})

	declaration := taskfile.Taskfile{
		PackageDirectory: "e4psycopg",
		TestsDirectory:   "spec",
		Targets: []taskfile.TargetDefinition{
			runTargetDefinition(taskfile.StepDefinition{
				Kind:      taskfile.StepKindRun,
				Arguments: []string{"{{.Interpreter}}", "-m", "black", "{{.Package}}", "{{.Tests}}"},
			}),
		},
	}

	options := defaultRunOptions()
	options.PackageDirectory = ""
	options.TestsDirectory = ""
	_, runError := targetRunner.RunNamed(context.Background(), declaration, testTargetNameConstant, options)

	require.NoError(testInstance, runError)
	require.Len(testInstance, commandExecutor.invocations, 1)
	require.Equal(testInstance, []string{"-m", "black", "e4psycopg", "spec"}, commandExecutor.invocations[0].Arguments)
}

func TestStepExecutionErrorExposesCause(testInstance *testing.T) {
	rootCause := errors.New("interpreter missing")
	stepError := runner.StepExecutionError{TargetName: testTargetNameConstant, StepIndex: 2, Cause: rootCause}

	require.ErrorIs(testInstance, stepError, rootCause)
	require.Contains(testInstance, stepError.Error(), "step 2")
	require.Contains(testInstance, stepError.Error(), rootCause.Error())
}
