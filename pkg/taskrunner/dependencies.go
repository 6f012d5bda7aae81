package taskrunner

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/pyx/internal/cleanup"
	"github.com/tyemirov/pyx/internal/execshell"
	"github.com/tyemirov/pyx/internal/runner"
	"github.com/tyemirov/pyx/internal/utils"
)

// Dependencies carries the resolved collaborators used to execute taskfile targets.
type Dependencies struct {
	Logger          *zap.Logger
	CommandExecutor runner.CommandExecutor
	DirectoryPruner runner.DirectoryPruner
	PathRemover     runner.PathRemover
	Output          io.Writer
	Errors          io.Writer
	DisableSummary  bool
}

// DependenciesConfig captures providers required to build execution dependencies.
type DependenciesConfig struct {
	LoggerProvider               func() *zap.Logger
	HumanReadableLoggingProvider func() bool
	CommandExecutor              runner.CommandExecutor
	DirectoryPruner              runner.DirectoryPruner
	PathRemover                  runner.PathRemover
}

// DependenciesOptions allows per-command overrides when resolving execution dependencies.
type DependenciesOptions struct {
	Command        *cobra.Command
	Output         io.Writer
	Errors         io.Writer
	DisableSummary bool
}

// BuildDependencies resolves the subprocess executor and cleanup collaborators for target execution.
func BuildDependencies(config DependenciesConfig, options DependenciesOptions) (Dependencies, error) {
	logger := resolveLogger(config.LoggerProvider)
	humanReadable := false
	if config.HumanReadableLoggingProvider != nil {
		humanReadable = config.HumanReadableLoggingProvider()
	}

	outputWriter := resolveWriter(options.Output, options.Command, true)
	errorsWriter := resolveWriter(options.Errors, options.Command, false)

	commandExecutor := config.CommandExecutor
	if commandExecutor == nil {
		// Wrapped tool output streams through to the invoker while the
		// executor captures it for exit-code handling.
		commandRunner := execshell.NewStreamingOSCommandRunner(
			utils.NewFlushingWriter(outputWriter),
			utils.NewFlushingWriter(errorsWriter),
		)
		shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner, humanReadable)
		if executorError != nil {
			return Dependencies{}, fmt.Errorf("taskrunner.dependencies.command_executor: %w", executorError)
		}
		commandExecutor = shellExecutor
	}

	directoryPruner := config.DirectoryPruner
	if directoryPruner == nil {
		directoryPruner = cleanup.NewDirectoryPruner()
	}

	pathRemover := config.PathRemover
	if pathRemover == nil {
		pathRemover = cleanup.NewPathRemover()
	}

	return Dependencies{
		Logger:          logger,
		CommandExecutor: commandExecutor,
		DirectoryPruner: directoryPruner,
		PathRemover:     pathRemover,
		Output:          outputWriter,
		Errors:          errorsWriter,
		DisableSummary:  options.DisableSummary,
	}, nil
}

func resolveLogger(provider func() *zap.Logger) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveWriter(provided io.Writer, command *cobra.Command, useStdout bool) io.Writer {
	if provided != nil {
		return provided
	}
	if command != nil {
		if useStdout {
			if writer := command.OutOrStdout(); writer != nil && writer != io.Discard {
				return writer
			}
		} else {
			if writer := command.ErrOrStderr(); writer != nil && writer != io.Discard {
				return writer
			}
		}
	}
	if useStdout {
		return os.Stdout
	}
	return os.Stderr
}
