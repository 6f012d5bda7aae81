package roots_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	flagutils "github.com/tyemirov/pyx/internal/utils/flags"
	rootutils "github.com/tyemirov/pyx/internal/utils/roots"
)

func TestFlagValueSelectionScenarios(testInstance *testing.T) {
	homeDirectory, homeDirectoryError := os.UserHomeDir()
	require.NoError(testInstance, homeDirectoryError)

	tildeInput := "~/integration"
	expectedTilde := filepath.Join(homeDirectory, "integration")

	testCases := []struct {
		name          string
		flagArguments []string
		expectedRoot  string
	}{
		{
			name:          "returns_sanitized_flag_root",
			flagArguments: []string{"--" + flagutils.DefaultRootFlagName, "  " + tildeInput + "  "},
			expectedRoot:  expectedTilde,
		},
		{
			name:          "returns_empty_when_flag_unset",
			flagArguments: nil,
			expectedRoot:  "",
		},
		{
			name:          "ignores_boolean_literal_flag_value",
			flagArguments: []string{"--" + flagutils.DefaultRootFlagName, "true"},
			expectedRoot:  "",
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			command := &cobra.Command{Use: "root-test"}
			flagutils.BindRootFlags(command, flagutils.RootFlagValues{}, flagutils.RootFlagDefinition{Name: flagutils.DefaultRootFlagName, Enabled: true})

			if len(testCase.flagArguments) > 0 {
				parseError := command.ParseFlags(testCase.flagArguments)
				require.NoError(subtest, parseError)
			}

			resolvedRoot, resolveError := rootutils.FlagValue(command)
			require.NoError(subtest, resolveError)
			require.Equal(subtest, testCase.expectedRoot, resolvedRoot)
		})
	}
}

func TestFlagValueToleratesMissingFlag(testInstance *testing.T) {
	command := &cobra.Command{Use: "bare"}

	resolvedRoot, resolveError := rootutils.FlagValue(command)
	require.NoError(testInstance, resolveError)
	require.Empty(testInstance, resolvedRoot)

	nilRoot, nilError := rootutils.FlagValue(nil)
	require.NoError(testInstance, nilError)
	require.Empty(testInstance, nilRoot)
}

func TestSanitizeConfiguredNormalizesValue(testInstance *testing.T) {
	homeDirectory, homeDirectoryError := os.UserHomeDir()
	require.NoError(testInstance, homeDirectoryError)

	require.Equal(testInstance, filepath.Join(homeDirectory, "configured"), rootutils.SanitizeConfigured("  ~/configured  "))
	require.Empty(testInstance, rootutils.SanitizeConfigured("   "))
}
