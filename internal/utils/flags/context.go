package flags

import (
	"github.com/spf13/cobra"
)

const (
	// DefaultRootFlagName exposes the shared project root flag name.
	DefaultRootFlagName = "root"
	// DefaultRootFlagUsage describes the shared project root flag purpose.
	DefaultRootFlagUsage = "Directory where taskfile discovery starts (defaults to the working directory)"
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Print the commands that would run without executing them"
	// TaskfileFlagName exposes the shared taskfile name flag.
	TaskfileFlagName = "taskfile"
	// TaskfileFlagUsage describes the shared taskfile name flag purpose.
	TaskfileFlagUsage = "Taskfile name searched for upward from the working directory"
	// VariablesFlagName exposes the shared template variable override flag.
	VariablesFlagName = "var"
	// VariablesFlagUsage describes the shared template variable override flag purpose.
	VariablesFlagUsage = "Template variable override in key=value form (repeatable; keys: package, tests)"
)

// RootFlagDefinition captures configuration for the project root flag.
type RootFlagDefinition struct {
	Name       string
	Usage      string
	Enabled    bool
	Persistent bool
}

// RootFlagValues stores the project root flag value.
type RootFlagValues struct {
	Root string
}

// BindRootFlags attaches the standard project root flag to the provided command.
func BindRootFlags(command *cobra.Command, defaults RootFlagValues, definition RootFlagDefinition) *RootFlagValues {
	values := RootFlagValues{Root: defaults.Root}
	if command == nil {
		return &values
	}
	if !definition.Enabled {
		return &values
	}
	flagName := definition.Name
	if len(flagName) == 0 {
		flagName = DefaultRootFlagName
	}
	flagUsage := definition.Usage
	if len(flagUsage) == 0 {
		flagUsage = DefaultRootFlagUsage
	}

	targetSet := command.PersistentFlags()
	if !definition.Persistent {
		targetSet = command.Flags()
	}

	if targetSet.Lookup(flagName) == nil {
		targetSet.StringVar(&values.Root, flagName, values.Root, flagUsage)
	}

	if definition.Persistent {
		if command.Flags().Lookup(flagName) == nil {
			if persistentFlag := targetSet.Lookup(flagName); persistentFlag != nil {
				command.Flags().AddFlag(persistentFlag)
			}
		}
	}
	return &values
}
