package interpreter_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyemirov/pyx/internal/interpreter"
)

const (
	testCaseEnvironmentValueConstant        = "environment_value_wins"
	testCaseEnvironmentWhitespaceConstant   = "environment_whitespace_ignored"
	testCaseEnvironmentUnsetConstant        = "environment_unset_uses_configuration"
	testCaseConfigurationBlankConstant      = "configuration_blank_uses_default"
	testCaseNilLookupConstant               = "nil_lookup_uses_default"
	testEnvironmentInterpreterValueConstant = "python3.11"
	testConfiguredInterpreterValueConstant  = "python3"
	testWhitespaceValueConstant             = "   "
)

func TestResolveSelectsInterpreterCommand(testInstance *testing.T) {
	testCases := []struct {
		name               string
		lookup             interpreter.LookupFunc
		configuredDefault  string
		expectedCommand    string
		expectedSourceName interpreter.Source
	}{
		{
			name: testCaseEnvironmentValueConstant,
			lookup: func(string) (string, bool) {
				return testEnvironmentInterpreterValueConstant, true
			},
			configuredDefault:  testConfiguredInterpreterValueConstant,
			expectedCommand:    testEnvironmentInterpreterValueConstant,
			expectedSourceName: interpreter.SourceEnvironment,
		},
		{
			name: testCaseEnvironmentWhitespaceConstant,
			lookup: func(string) (string, bool) {
				return testWhitespaceValueConstant, true
			},
			configuredDefault:  testConfiguredInterpreterValueConstant,
			expectedCommand:    testConfiguredInterpreterValueConstant,
			expectedSourceName: interpreter.SourceConfiguration,
		},
		{
			name: testCaseEnvironmentUnsetConstant,
			lookup: func(string) (string, bool) {
				return "", false
			},
			configuredDefault:  testConfiguredInterpreterValueConstant,
			expectedCommand:    testConfiguredInterpreterValueConstant,
			expectedSourceName: interpreter.SourceConfiguration,
		},
		{
			name: testCaseConfigurationBlankConstant,
			lookup: func(string) (string, bool) {
				return "", false
			},
			configuredDefault:  testWhitespaceValueConstant,
			expectedCommand:    interpreter.DefaultCommand(),
			expectedSourceName: interpreter.SourceDefault,
		},
		{
			name:               testCaseNilLookupConstant,
			lookup:             nil,
			configuredDefault:  "",
			expectedCommand:    interpreter.DefaultCommand(),
			expectedSourceName: interpreter.SourceDefault,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolution := interpreter.Resolve(testCase.lookup, testCase.configuredDefault)
			require.Equal(testInstance, testCase.expectedCommand, resolution.Command)
			require.Equal(testInstance, testCase.expectedSourceName, resolution.Source)
		})
	}
}

func TestResolveReadsProcessEnvironment(testInstance *testing.T) {
	testInstance.Setenv(interpreter.EnvInterpreterPath, testEnvironmentInterpreterValueConstant)

	resolution := interpreter.Resolve(os.LookupEnv, "")
	require.Equal(testInstance, testEnvironmentInterpreterValueConstant, resolution.Command)
	require.Equal(testInstance, interpreter.SourceEnvironment, resolution.Source)
}

func TestResolveIgnoresBlankProcessVariable(testInstance *testing.T) {
	testInstance.Setenv(interpreter.EnvInterpreterPath, "")

	resolution := interpreter.Resolve(os.LookupEnv, "")
	require.Equal(testInstance, interpreter.DefaultCommand(), resolution.Command)
	require.Equal(testInstance, interpreter.SourceDefault, resolution.Source)
}
