// Package cli wires the pyx command hierarchy, configuration loading, and
// logging lifecycle.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tyemirov/pyx/cmd/cli/targets"
	"github.com/tyemirov/pyx/internal/execshell"
	"github.com/tyemirov/pyx/internal/taskfile"
	"github.com/tyemirov/pyx/internal/utils"
	flagutils "github.com/tyemirov/pyx/internal/utils/flags"
	"github.com/tyemirov/pyx/internal/version"
)

const (
	applicationNameConstant                                     = "pyx"
	applicationShortDescriptionConstant                         = "Declarative task runner for Python repositories"
	applicationLongDescriptionConstant                          = "pyx runs the targets declared by a pyx.yaml taskfile, wrapping the Python toolchain (pytest, black, isort, pylint) behind short, reproducible commands."
	configFileFlagNameConstant                                  = "config"
	configFileFlagUsageConstant                                 = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                                    = "log-level"
	logLevelFlagUsageConstant                                   = "Override the configured log level."
	logFormatFlagNameConstant                                   = "log-format"
	logFormatFlagUsageConstant                                  = "Override the configured log format (structured or console)."
	taskfileInitializationFlagNameConstant                      = "init"
	taskfileInitializationFlagUsageConstant                     = "Write the embedded default taskfile to LOCAL (./pyx.yaml) or user ($HOME/pyx.yaml)."
	taskfileInitializationDefaultScopeConstant                  = "local"
	taskfileInitializationForceFlagNameConstant                 = "force"
	taskfileInitializationForceFlagUsageConstant                = "Overwrite an existing taskfile when initializing."
	taskfileInitializationScopeLocalConstant                    = "local"
	taskfileInitializationScopeUserConstant                     = "user"
	taskfileInitializationUnsupportedScopeTemplateConstant      = "unsupported initialization scope %q"
	taskfileInitializationWorkingDirectoryErrorTemplateConstant = "unable to determine working directory: %w"
	taskfileInitializationWorkingDirectoryEmptyErrorConstant    = "working directory is empty"
	taskfileInitializationHomeDirectoryErrorTemplateConstant    = "unable to determine user home directory: %w"
	taskfileInitializationHomeDirectoryEmptyErrorConstant       = "user home directory is empty"
	taskfileInitializationContentUnavailableErrorConstant       = "embedded taskfile content is unavailable"
	taskfileInitializationDirectoryErrorTemplateConstant        = "unable to ensure taskfile directory %s: %w"
	taskfileInitializationExistingFileTemplateConstant          = "taskfile already exists at %s (use --force to overwrite)"
	taskfileInitializationExistingDirectoryTemplateConstant     = "taskfile path %s is a directory"
	taskfileInitializationDirectoryConflictTemplateConstant     = "taskfile directory path %s is not a directory"
	taskfileInitializationWriteErrorTemplateConstant            = "unable to write taskfile %s: %w"
	taskfileInitializationSuccessMessageConstant                = "taskfile created"
	commonConfigurationKeyConstant                              = "common"
	commonLogLevelConfigKeyConstant                             = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant                            = commonConfigurationKeyConstant + ".log_format"
	commonDryRunConfigKeyConstant                               = commonConfigurationKeyConstant + ".dry_run"
	environmentPrefixConstant                                   = "PYX"
	configurationNameConstant                                   = "config"
	configurationTypeConstant                                   = "yaml"
	taskfileDirectoryPermissionConstant                         = 0o755
	taskfileFilePermissionConstant                              = 0o600
	configurationInitializedMessageConstant                     = "configuration initialized"
	configurationLogLevelFieldConstant                          = "log_level"
	configurationLogFormatFieldConstant                         = "log_format"
	configurationFileFieldConstant                              = "config_file"
	taskfileFileFieldConstant                                   = "taskfile"
	xdgConfigHomeEnvironmentVariableConstant                    = "XDG_CONFIG_HOME"
	configurationLoadErrorTemplateConstant                      = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant                         = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant                             = "unable to flush logger: %w"
	configurationInitializedConsoleTemplateConstant             = "%s | log level=%s | log format=%s | config file=%s"
	rootCommandInfoMessageConstant                              = "pyx CLI executed"
	rootCommandDebugMessageConstant                             = "pyx CLI diagnostics"
	logFieldCommandNameConstant                                 = "command_name"
	logFieldArgumentCountConstant                               = "argument_count"
	logFieldArgumentsConstant                                   = "arguments"
	loggerNotInitializedMessageConstant                         = "logger not initialized"
	defaultConfigurationSearchPathConstant                      = "."
	userConfigurationDirectoryNameConstant                      = ".pyx"
	configurationSearchPathEnvironmentVariableConstant          = "PYX_CONFIG_SEARCH_PATH"
	rootCommandTooManyTargetsMessageConstant                    = "accepts at most one target name per invocation"
	versionFlagNameConstant                                     = "version"
	versionFlagUsageConstant                                    = "Print the application version and exit"
	versionOutputTemplateConstant                               = "pyx version: %s\n"
	versionCommandUseNameConstant                               = "version"
	versionCommandShortDescriptionConstant                      = "Print the pyx version"
	versionCommandLongDescriptionConstant                       = "version prints the current pyx release identifier."
)

type loggerOutputsFactory interface {
	CreateLoggerOutputs(utils.LogLevel, utils.LogFormat) (utils.LoggerOutputs, error)
}

type taskfileInitializationPlan struct {
	DirectoryPath string
	FilePath      string
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand                   *cobra.Command
	configurationLoader           *utils.ConfigurationLoader
	loggerFactory                 loggerOutputsFactory
	logger                        *zap.Logger
	consoleLogger                 *zap.Logger
	configuration                 ApplicationConfiguration
	configurationMetadata         utils.LoadedConfiguration
	configurationFilePath         string
	logLevelFlagValue             string
	logFormatFlagValue            string
	commandContextAccessor        utils.CommandContextAccessor
	rootFlagValues                *flagutils.RootFlagValues
	targetsBuilder                *targets.CommandBuilder
	taskfileInitializationScope   string
	taskfileInitializationForced  bool
	versionFlag                   bool
	versionResolver               func(context.Context) string
	exitFunction                  func(int)
	taskfileInitializationContent func() []byte
	workingDirectoryResolver      func() (string, error)
	homeDirectoryResolver         func() (string, error)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	application := &Application{
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		consoleLogger:          zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}
	application.versionResolver = application.resolveVersion
	application.exitFunction = os.Exit
	application.taskfileInitializationContent = taskfile.DefaultContent
	application.workingDirectoryResolver = os.Getwd
	application.homeDirectoryResolver = os.UserHomeDir

	application.configurationLoader = utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		application.resolveConfigurationSearchPaths(),
	)

	embeddedConfigurationData, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	application.configurationLoader.SetEmbeddedConfiguration(embeddedConfigurationData, embeddedConfigurationType)

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if initializationError := application.initializeConfiguration(command); initializationError != nil {
				return initializationError
			}

			versionRequested := application.versionFlag
			if command != nil {
				if flagValue, flagChanged, flagError := flagutils.BoolFlag(command, versionFlagNameConstant); flagError == nil && flagChanged {
					versionRequested = flagValue
				}
			}

			if versionRequested {
				application.printVersion(command.Context())
				application.exitFunction(0)
			}

			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(
		&application.taskfileInitializationScope,
		taskfileInitializationFlagNameConstant,
		taskfileInitializationDefaultScopeConstant,
		taskfileInitializationFlagUsageConstant,
	)
	initializationFlag := cobraCommand.PersistentFlags().Lookup(taskfileInitializationFlagNameConstant)
	if initializationFlag != nil {
		initializationFlag.Usage = flagutils.FormatChoiceUsage(
			taskfileInitializationDefaultScopeConstant,
			[]string{
				taskfileInitializationScopeLocalConstant,
				taskfileInitializationScopeUserConstant,
			},
			taskfileInitializationFlagUsageConstant,
		)
	}
	cobraCommand.PersistentFlags().BoolVar(
		&application.taskfileInitializationForced,
		taskfileInitializationForceFlagNameConstant,
		false,
		taskfileInitializationForceFlagUsageConstant,
	)

	cobraCommand.PersistentFlags().String(flagutils.TaskfileFlagName, "", flagutils.TaskfileFlagUsage)
	cobraCommand.PersistentFlags().StringArray(flagutils.VariablesFlagName, nil, flagutils.VariablesFlagUsage)

	application.rootFlagValues = flagutils.BindRootFlags(
		cobraCommand,
		flagutils.RootFlagValues{},
		flagutils.RootFlagDefinition{Name: flagutils.DefaultRootFlagName, Usage: flagutils.DefaultRootFlagUsage, Enabled: true, Persistent: true},
	)

	flagutils.BindExecutionFlags(
		cobraCommand,
		flagutils.ExecutionDefaults{},
		flagutils.ExecutionFlagDefinitions{
			DryRun: flagutils.ExecutionFlagDefinition{Name: flagutils.DryRunFlagName, Usage: flagutils.DryRunFlagUsage, Enabled: true},
		},
	)

	cobraCommand.PersistentFlags().BoolVar(&application.versionFlag, versionFlagNameConstant, false, versionFlagUsageConstant)

	application.registerCommands(cobraCommand)

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	return application.ExecuteContext(context.Background())
}

// ExecuteContext runs the command hierarchy with the provided context so
// callers can propagate cancellation to running subprocesses.
func (application *Application) ExecuteContext(executionContext context.Context) error {
	normalizedArguments := flagutils.NormalizeToggleArguments(os.Args[1:])
	normalizedArguments = normalizeInitializationScopeArguments(normalizedArguments)
	application.rootCommand.SetArgs(normalizedArguments)

	executionError := application.rootCommand.ExecuteContext(executionContext)
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

// ExecuteContext builds a fresh application instance and executes it with the provided context.
func ExecuteContext(executionContext context.Context) error {
	return NewApplication().ExecuteContext(executionContext)
}

func normalizeInitializationScopeArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalizedArguments := make([]string, 0, len(arguments))
	flagPrefix := "--" + taskfileInitializationFlagNameConstant

	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]

		if strings.HasPrefix(currentArgument, flagPrefix+"=") {
			value := strings.TrimSpace(strings.TrimPrefix(currentArgument, flagPrefix+"="))
			if len(value) == 0 {
				normalizedArguments = append(
					normalizedArguments,
					fmt.Sprintf("%s=%s", flagPrefix, taskfileInitializationDefaultScopeConstant),
				)
				continue
			}
			normalizedArguments = append(normalizedArguments, currentArgument)
			continue
		}

		if currentArgument == flagPrefix {
			nextIndex := index + 1
			if nextIndex >= len(arguments) || strings.HasPrefix(arguments[nextIndex], "-") {
				normalizedArguments = append(
					normalizedArguments,
					fmt.Sprintf("%s=%s", flagPrefix, taskfileInitializationDefaultScopeConstant),
				)
				continue
			}
		}

		normalizedArguments = append(normalizedArguments, currentArgument)
	}

	return normalizedArguments
}

func (application *Application) resolveConfigurationSearchPaths() []string {
	overrideValue := strings.TrimSpace(os.Getenv(configurationSearchPathEnvironmentVariableConstant))
	if len(overrideValue) == 0 {
		defaultSearchPaths := []string{defaultConfigurationSearchPathConstant}
		userConfigurationDirectoryPaths := application.resolveUserConfigurationDirectoryPaths()
		if len(userConfigurationDirectoryPaths) > 0 {
			defaultSearchPaths = append(defaultSearchPaths, userConfigurationDirectoryPaths...)
		}

		return defaultSearchPaths
	}

	overridePaths := strings.FieldsFunc(overrideValue, func(candidate rune) bool {
		return candidate == os.PathListSeparator
	})

	cleanedPaths := make([]string, 0, len(overridePaths))
	for _, pathCandidate := range overridePaths {
		trimmedCandidate := strings.TrimSpace(pathCandidate)
		if len(trimmedCandidate) == 0 {
			continue
		}
		cleanedPaths = append(cleanedPaths, trimmedCandidate)
	}

	if len(cleanedPaths) == 0 {
		return []string{defaultConfigurationSearchPathConstant}
	}

	return cleanedPaths
}

func (application *Application) resolveUserConfigurationDirectoryPaths() []string {
	userConfigurationDirectoryPaths := make([]string, 0, 3)

	appendConfigurationDirectory := func(baseDirectoryPath string) {
		trimmedBaseDirectoryPath := strings.TrimSpace(baseDirectoryPath)
		if len(trimmedBaseDirectoryPath) == 0 {
			return
		}

		candidateDirectoryPath := filepath.Join(trimmedBaseDirectoryPath, userConfigurationDirectoryNameConstant)
		for _, existingDirectoryPath := range userConfigurationDirectoryPaths {
			if existingDirectoryPath == candidateDirectoryPath {
				return
			}
		}

		userConfigurationDirectoryPaths = append(userConfigurationDirectoryPaths, candidateDirectoryPath)
	}

	appendConfigurationDirectory(os.Getenv(xdgConfigHomeEnvironmentVariableConstant))

	userConfigurationBaseDirectoryPath, userConfigurationDirectoryError := os.UserConfigDir()
	if userConfigurationDirectoryError == nil {
		appendConfigurationDirectory(userConfigurationBaseDirectoryPath)
	}

	userHomeDirectoryPath, userHomeDirectoryError := os.UserHomeDir()
	if userHomeDirectoryError == nil {
		appendConfigurationDirectory(userHomeDirectoryPath)
	}

	return userConfigurationDirectoryPaths
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelError),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
		commonDryRunConfigKeyConstant:    false,
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	if application.logger == nil {
		application.logger = zap.NewNop()
	}

	application.consoleLogger = loggerOutputs.ConsoleLogger
	if application.consoleLogger == nil {
		application.consoleLogger = zap.NewNop()
	}

	application.logConfigurationInitialization()

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)

		executionFlags := flagutils.CollectExecutionFlags(command)
		updatedContext = application.commandContextAccessor.WithExecutionFlags(updatedContext, executionFlags)
		updatedContext = application.commandContextAccessor.WithLogLevel(updatedContext, application.configuration.Common.LogLevel)

		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

// InitializeForCommand prepares application state for the provided command name without executing command logic.
func (application *Application) InitializeForCommand(commandUse string) error {
	command := &cobra.Command{Use: commandUse}
	return application.initializeConfiguration(command)
}

// ConfigFileUsed returns the configuration file path used during initialization.
func (application *Application) ConfigFileUsed() string {
	return application.configurationMetadata.ConfigFileUsed
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) summaryEnabled() bool {
	logLevelValue := strings.TrimSpace(application.configuration.Common.LogLevel)
	return strings.EqualFold(logLevelValue, string(utils.LogLevelInfo)) ||
		strings.EqualFold(logLevelValue, string(utils.LogLevelDebug))
}

func (application *Application) logConfigurationInitialization() {
	if !strings.EqualFold(strings.TrimSpace(application.configuration.Common.LogLevel), string(utils.LogLevelDebug)) {
		return
	}

	if application.humanReadableLoggingEnabled() {
		bannerMessage := fmt.Sprintf(
			configurationInitializedConsoleTemplateConstant,
			configurationInitializedMessageConstant,
			application.configuration.Common.LogLevel,
			application.configuration.Common.LogFormat,
			application.configurationMetadata.ConfigFileUsed,
		)
		application.logger.Debug(bannerMessage)
		return
	}

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)
}

func (application *Application) resolveVersion(executionContext context.Context) string {
	options := version.Options{}
	gitExecutor, executorError := execshell.NewShellExecutor(application.logger, execshell.NewOSCommandRunner(), application.humanReadableLoggingEnabled())
	if executorError == nil {
		options.GitExecutor = gitExecutor
	}

	resolved := version.Resolve(executionContext, options)
	trimmed := strings.TrimSpace(resolved)
	if len(trimmed) == 0 {
		return resolved
	}
	return trimmed
}

func (application *Application) printVersion(executionContext context.Context) {
	versionString := application.versionResolver(executionContext)
	fmt.Printf(versionOutputTemplateConstant, versionString)
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	initializationHandled, initializationError := application.handleTaskfileInitialization(command)
	if initializationError != nil {
		return initializationError
	}
	if initializationHandled {
		return nil
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if len(arguments) == 0 {
		return command.Help()
	}
	if len(arguments) > 1 {
		return errors.New(rootCommandTooManyTargetsMessageConstant)
	}

	// Target names absent from the build-time declaration reach the root
	// command unmatched; running them here keeps unknown-target reporting
	// in one place.
	return application.targetsBuilder.RunTarget(command, arguments[0])
}

func (application *Application) handleTaskfileInitialization(command *cobra.Command) (bool, error) {
	if !application.taskfileInitializationRequested(command) {
		return false, nil
	}

	initializationScope := strings.TrimSpace(application.taskfileInitializationScope)
	if len(initializationScope) == 0 {
		initializationScope = taskfileInitializationDefaultScopeConstant
	}

	initializationPlan, planError := application.resolveTaskfileInitializationPlan(initializationScope)
	if planError != nil {
		return true, planError
	}

	taskfileContent := application.taskfileInitializationContent()
	if len(taskfileContent) == 0 {
		return true, errors.New(taskfileInitializationContentUnavailableErrorConstant)
	}

	if writeError := application.writeTaskfile(initializationPlan, taskfileContent); writeError != nil {
		return true, writeError
	}

	application.logger.Info(
		taskfileInitializationSuccessMessageConstant,
		zap.String(taskfileFileFieldConstant, initializationPlan.FilePath),
	)

	return true, nil
}

func (application *Application) taskfileInitializationRequested(command *cobra.Command) bool {
	return application.persistentFlagChanged(command, taskfileInitializationFlagNameConstant)
}

func (application *Application) activeTaskfileName() string {
	configuredName := strings.TrimSpace(application.configuration.Taskfile.Name)
	if len(configuredName) > 0 {
		return configuredName
	}
	return taskfile.DefaultFileName
}

func (application *Application) resolveTaskfileInitializationPlan(initializationScope string) (taskfileInitializationPlan, error) {
	taskfileName := application.activeTaskfileName()

	normalizedScope := strings.ToLower(strings.TrimSpace(initializationScope))
	switch normalizedScope {
	case "", taskfileInitializationScopeLocalConstant:
		workingDirectoryPath, workingDirectoryError := application.workingDirectoryResolver()
		if workingDirectoryError != nil {
			return taskfileInitializationPlan{}, fmt.Errorf(taskfileInitializationWorkingDirectoryErrorTemplateConstant, workingDirectoryError)
		}

		trimmedWorkingDirectoryPath := strings.TrimSpace(workingDirectoryPath)
		if len(trimmedWorkingDirectoryPath) == 0 {
			return taskfileInitializationPlan{}, fmt.Errorf(
				taskfileInitializationWorkingDirectoryErrorTemplateConstant,
				errors.New(taskfileInitializationWorkingDirectoryEmptyErrorConstant),
			)
		}

		return taskfileInitializationPlan{
			DirectoryPath: trimmedWorkingDirectoryPath,
			FilePath:      filepath.Join(trimmedWorkingDirectoryPath, taskfileName),
		}, nil
	case taskfileInitializationScopeUserConstant:
		userHomeDirectoryPath, userHomeDirectoryError := application.homeDirectoryResolver()
		if userHomeDirectoryError != nil {
			return taskfileInitializationPlan{}, fmt.Errorf(taskfileInitializationHomeDirectoryErrorTemplateConstant, userHomeDirectoryError)
		}

		trimmedHomeDirectoryPath := strings.TrimSpace(userHomeDirectoryPath)
		if len(trimmedHomeDirectoryPath) == 0 {
			return taskfileInitializationPlan{}, fmt.Errorf(
				taskfileInitializationHomeDirectoryErrorTemplateConstant,
				errors.New(taskfileInitializationHomeDirectoryEmptyErrorConstant),
			)
		}

		// The user-scope taskfile sits directly in the home directory so the
		// upward search finds it from any project underneath.
		return taskfileInitializationPlan{
			DirectoryPath: trimmedHomeDirectoryPath,
			FilePath:      filepath.Join(trimmedHomeDirectoryPath, taskfileName),
		}, nil
	default:
		trimmedScope := strings.TrimSpace(initializationScope)
		if len(trimmedScope) == 0 {
			trimmedScope = initializationScope
		}
		return taskfileInitializationPlan{}, fmt.Errorf(taskfileInitializationUnsupportedScopeTemplateConstant, trimmedScope)
	}
}

func (application *Application) writeTaskfile(initializationPlan taskfileInitializationPlan, taskfileContent []byte) error {
	if len(taskfileContent) == 0 {
		return errors.New(taskfileInitializationContentUnavailableErrorConstant)
	}

	directoryPath := strings.TrimSpace(initializationPlan.DirectoryPath)
	if len(directoryPath) == 0 {
		return fmt.Errorf(
			taskfileInitializationDirectoryErrorTemplateConstant,
			initializationPlan.DirectoryPath,
			errors.New(taskfileInitializationWorkingDirectoryEmptyErrorConstant),
		)
	}

	directoryInfo, directoryStatError := os.Stat(directoryPath)
	switch {
	case directoryStatError == nil:
		if !directoryInfo.IsDir() {
			return fmt.Errorf(taskfileInitializationDirectoryConflictTemplateConstant, directoryPath)
		}
	case errors.Is(directoryStatError, os.ErrNotExist):
		if createError := os.MkdirAll(directoryPath, taskfileDirectoryPermissionConstant); createError != nil {
			return fmt.Errorf(taskfileInitializationDirectoryErrorTemplateConstant, directoryPath, createError)
		}
	default:
		return fmt.Errorf(taskfileInitializationDirectoryErrorTemplateConstant, directoryPath, directoryStatError)
	}

	fileInfo, fileStatError := os.Stat(initializationPlan.FilePath)
	switch {
	case fileStatError == nil:
		if fileInfo.IsDir() {
			return fmt.Errorf(taskfileInitializationExistingDirectoryTemplateConstant, initializationPlan.FilePath)
		}
		if !application.taskfileInitializationForced {
			return fmt.Errorf(taskfileInitializationExistingFileTemplateConstant, initializationPlan.FilePath)
		}
	case errors.Is(fileStatError, os.ErrNotExist):
	default:
		return fmt.Errorf(taskfileInitializationWriteErrorTemplateConstant, initializationPlan.FilePath, fileStatError)
	}

	writeError := os.WriteFile(initializationPlan.FilePath, taskfileContent, taskfileFilePermissionConstant)
	if writeError != nil {
		return fmt.Errorf(taskfileInitializationWriteErrorTemplateConstant, initializationPlan.FilePath, writeError)
	}

	return nil
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}

	if syncError := application.syncLoggerInstance(application.consoleLogger); syncError != nil {
		return syncError
	}

	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.EBADF):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
