package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tyemirov/pyx/internal/taskfile"
	"github.com/tyemirov/pyx/internal/utils"
	flagutils "github.com/tyemirov/pyx/internal/utils/flags"
)

const internalTestVersionConstant = "1.2.3"

func TestNormalizeInitializationScopeArguments(testInstance *testing.T) {
	testCases := []struct {
		name              string
		arguments         []string
		expectedArguments []string
	}{
		{
			name:              "NoArguments",
			arguments:         nil,
			expectedArguments: nil,
		},
		{
			name:              "ImplicitLocalValue",
			arguments:         []string{"--init"},
			expectedArguments: []string{"--init=local"},
		},
		{
			name:              "ImplicitLocalWithFollowingFlag",
			arguments:         []string{"--init", "--force"},
			expectedArguments: []string{"--init=local", "--force"},
		},
		{
			name:              "ExplicitLocalValue",
			arguments:         []string{"--init", "local"},
			expectedArguments: []string{"--init", "local"},
		},
		{
			name:              "ExplicitUserValue",
			arguments:         []string{"--init=user"},
			expectedArguments: []string{"--init=user"},
		},
		{
			name:              "EmptyAssignmentDefaultsToLocal",
			arguments:         []string{"--init="},
			expectedArguments: []string{"--init=local"},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(t *testing.T) {
			normalizedArguments := normalizeInitializationScopeArguments(testCase.arguments)
			require.Equal(t, testCase.expectedArguments, normalizedArguments)
		})
	}
}

func TestRootCommandToggleHelpFormatting(testInstance *testing.T) {
	application := NewApplication()
	usageText := application.rootCommand.PersistentFlags().FlagUsages()

	require.Contains(testInstance, usageText, "--dry-run <yes|NO>")
	require.Contains(testInstance, usageText, "--init <LOCAL|user>")
	require.NotContains(testInstance, usageText, "--init string")
	require.NotContains(testInstance, usageText, "[=\"local\"]")
	require.NotContains(testInstance, usageText, "toggle[")
}

func TestTargetsCommandConfigurationUsesDefaults(testInstance *testing.T) {
	application := &Application{logger: zap.NewNop()}

	configuration := application.targetsCommandConfiguration()
	require.Equal(testInstance, taskfile.DefaultFileName, configuration.TaskfileName)
	require.Empty(testInstance, configuration.InterpreterDefault)
	require.Empty(testInstance, configuration.PackageDirectory)
	require.Empty(testInstance, configuration.TestsDirectory)
	require.False(testInstance, configuration.DryRun)
	require.True(testInstance, configuration.DisableSummary)
}

func TestTargetsCommandConfigurationAppliesConfiguredValues(testInstance *testing.T) {
	application := &Application{
		logger: zap.NewNop(),
		configuration: ApplicationConfiguration{
			Common:      ApplicationCommonConfiguration{LogLevel: string(utils.LogLevelInfo), DryRun: true},
			Interpreter: ApplicationInterpreterConfiguration{Default: "  python3.12  "},
			Taskfile:    ApplicationTaskfileConfiguration{Name: "tasks.yaml"},
			Variables:   map[string]any{"package": "widgets", "tests": "checks"},
		},
	}

	configuration := application.targetsCommandConfiguration()
	require.Equal(testInstance, "tasks.yaml", configuration.TaskfileName)
	require.Equal(testInstance, "python3.12", configuration.InterpreterDefault)
	require.Equal(testInstance, "widgets", configuration.PackageDirectory)
	require.Equal(testInstance, "checks", configuration.TestsDirectory)
	require.True(testInstance, configuration.DryRun)
	require.False(testInstance, configuration.DisableSummary)
}

func TestSummaryEnabledTracksLogLevel(testInstance *testing.T) {
	testCases := []struct {
		name            string
		logLevel        string
		expectedEnabled bool
	}{
		{name: "DebugEnablesSummary", logLevel: string(utils.LogLevelDebug), expectedEnabled: true},
		{name: "InfoEnablesSummary", logLevel: string(utils.LogLevelInfo), expectedEnabled: true},
		{name: "UppercaseInfoEnablesSummary", logLevel: "INFO", expectedEnabled: true},
		{name: "WarnDisablesSummary", logLevel: string(utils.LogLevelWarn), expectedEnabled: false},
		{name: "ErrorDisablesSummary", logLevel: string(utils.LogLevelError), expectedEnabled: false},
		{name: "EmptyDisablesSummary", logLevel: "", expectedEnabled: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(t *testing.T) {
			application := &Application{
				logger:        zap.NewNop(),
				configuration: ApplicationConfiguration{Common: ApplicationCommonConfiguration{LogLevel: testCase.logLevel}},
			}
			require.Equal(t, testCase.expectedEnabled, application.summaryEnabled())
		})
	}
}

func TestVariablesConfigurationDecoding(testInstance *testing.T) {
	testCases := []struct {
		name            string
		variables       map[string]any
		expectedPackage string
		expectedTests   string
	}{
		{
			name:            "MissingVariablesProduceEmptyValues",
			variables:       nil,
			expectedPackage: "",
			expectedTests:   "",
		},
		{
			name:            "StringValuesDecodeDirectly",
			variables:       map[string]any{"package": "widgets", "tests": "checks"},
			expectedPackage: "widgets",
			expectedTests:   "checks",
		},
		{
			name:            "NumericValuesDecodeWeakly",
			variables:       map[string]any{"package": 123},
			expectedPackage: "123",
			expectedTests:   "",
		},
		{
			name:            "MalformedValuesFallBackToEmpty",
			variables:       map[string]any{"package": map[string]any{"nested": true}},
			expectedPackage: "",
			expectedTests:   "",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(t *testing.T) {
			application := &Application{
				logger:        zap.NewNop(),
				configuration: ApplicationConfiguration{Variables: testCase.variables},
			}

			variables := application.variablesConfiguration()
			require.Equal(t, testCase.expectedPackage, variables.Package)
			require.Equal(t, testCase.expectedTests, variables.Tests)
		})
	}
}

func TestInitializeConfigurationAttachesExecutionContext(testInstance *testing.T) {
	testInstance.Setenv(configurationSearchPathEnvironmentVariableConstant, testInstance.TempDir())

	application := NewApplication()
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())

	require.NoError(testInstance, rootCommand.PersistentFlags().Set(flagutils.DryRunFlagName, "yes"))

	require.NoError(testInstance, application.initializeConfiguration(rootCommand))

	executionFlags, executionFlagsAvailable := application.commandContextAccessor.ExecutionFlags(rootCommand.Context())
	require.True(testInstance, executionFlagsAvailable)
	require.True(testInstance, executionFlags.DryRun)
	require.True(testInstance, executionFlags.DryRunSet)

	logLevelValue, logLevelAvailable := application.commandContextAccessor.LogLevel(rootCommand.Context())
	require.True(testInstance, logLevelAvailable)
	require.Equal(testInstance, string(utils.LogLevelError), logLevelValue)

	configurationFilePath, configurationFilePathAvailable := application.commandContextAccessor.ConfigurationFilePath(rootCommand.Context())
	require.True(testInstance, configurationFilePathAvailable)
	require.Empty(testInstance, configurationFilePath)
}

func TestVersionFlagPrintsVersionAndRequestsExit(testInstance *testing.T) {
	testInstance.Setenv(configurationSearchPathEnvironmentVariableConstant, testInstance.TempDir())

	application := NewApplication()

	var recordedExitCodes []int
	application.exitFunction = func(exitCode int) {
		recordedExitCodes = append(recordedExitCodes, exitCode)
	}
	application.versionResolver = func(context.Context) string {
		return internalTestVersionConstant
	}

	rootCommand := application.rootCommand
	rootCommand.SetArgs([]string{"--version"})
	rootCommand.SetOut(&bytes.Buffer{})
	rootCommand.SetErr(&bytes.Buffer{})

	stdoutReader, stdoutWriter, pipeError := os.Pipe()
	require.NoError(testInstance, pipeError)
	originalStdout := os.Stdout
	os.Stdout = stdoutWriter

	executionError := rootCommand.Execute()

	os.Stdout = originalStdout
	require.NoError(testInstance, stdoutWriter.Close())

	capturedBytes, readError := io.ReadAll(stdoutReader)
	require.NoError(testInstance, readError)
	require.NoError(testInstance, stdoutReader.Close())

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, fmt.Sprintf(versionOutputTemplateConstant, internalTestVersionConstant), string(capturedBytes))
	require.Equal(testInstance, []int{0}, recordedExitCodes)
}

func TestApplicationCommandHierarchy(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	originalWorkingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)
	require.NoError(testInstance, os.Chdir(workingDirectory))
	testInstance.Cleanup(func() {
		require.NoError(testInstance, os.Chdir(originalWorkingDirectory))
	})

	application := NewApplication()
	rootCommand := application.rootCommand

	for _, commandName := range []string{"targets", "version", "clean", "coverage", "format", "lint", "test"} {
		foundCommand, _, findError := rootCommand.Find([]string{commandName})
		require.NoError(testInstance, findError)
		require.Equal(testInstance, commandName, foundCommand.Name())
		require.NotNil(testInstance, foundCommand.Parent())
		require.Equal(testInstance, applicationNameConstant, foundCommand.Parent().Name())
	}

	unmatchedCommand, _, unmatchedError := rootCommand.Find([]string{"deploy"})
	require.NoError(testInstance, unmatchedError)
	require.Equal(testInstance, applicationNameConstant, unmatchedCommand.Name())
}
