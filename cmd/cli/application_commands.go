package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/pyx/cmd/cli/targets"
)

func (application *Application) registerCommands(cobraCommand *cobra.Command) {
	versionCommand := &cobra.Command{
		Use:           versionCommandUseNameConstant,
		Short:         versionCommandShortDescriptionConstant,
		Long:          versionCommandLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			application.printVersion(command.Context())
			return nil
		},
	}
	cobraCommand.AddCommand(versionCommand)

	targetsBuilder := &targets.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider:        application.targetsCommandConfiguration,
	}
	application.targetsBuilder = targetsBuilder

	listCommand, listBuildError := targetsBuilder.Build()
	if listBuildError == nil {
		cobraCommand.AddCommand(listCommand)
	}

	// Registration tolerates unreadable taskfiles so --init and version stay
	// available; target name resolution happens again at run time.
	targetCommands, targetCommandsError := targetsBuilder.BuildTargetCommands()
	if targetCommandsError == nil {
		for _, targetCommand := range targetCommands {
			cobraCommand.AddCommand(targetCommand)
		}
	}
}
