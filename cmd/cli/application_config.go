package cli

import (
	mapstructure "github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	"github.com/tyemirov/pyx/cmd/cli/targets"
)

const variablesDecodeWarningMessageConstant = "ignoring malformed variables configuration"

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common      ApplicationCommonConfiguration      `mapstructure:"common"`
	Interpreter ApplicationInterpreterConfiguration `mapstructure:"interpreter"`
	Taskfile    ApplicationTaskfileConfiguration    `mapstructure:"taskfile"`
	Variables   map[string]any                      `mapstructure:"variables"`
}

// ApplicationCommonConfiguration stores logging and execution defaults shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	DryRun    bool   `mapstructure:"dry_run"`
}

// ApplicationInterpreterConfiguration stores the Python interpreter fallback used when PYTHON is unset.
type ApplicationInterpreterConfiguration struct {
	Default string `mapstructure:"default"`
}

// ApplicationTaskfileConfiguration stores taskfile discovery settings.
type ApplicationTaskfileConfiguration struct {
	Name string `mapstructure:"name"`
}

type templateVariablesConfiguration struct {
	Package string `mapstructure:"package"`
	Tests   string `mapstructure:"tests"`
}

func (application *Application) variablesConfiguration() templateVariablesConfiguration {
	variables := templateVariablesConfiguration{}
	if len(application.configuration.Variables) == 0 {
		return variables
	}

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           &variables,
		WeaklyTypedInput: true,
	})
	if decoderError != nil {
		application.logger.Warn(variablesDecodeWarningMessageConstant, zap.Error(decoderError))
		return templateVariablesConfiguration{}
	}

	if decodeError := decoder.Decode(application.configuration.Variables); decodeError != nil {
		application.logger.Warn(variablesDecodeWarningMessageConstant, zap.Error(decodeError))
		return templateVariablesConfiguration{}
	}

	return variables
}

func (application *Application) targetsCommandConfiguration() targets.CommandConfiguration {
	configuration := targets.DefaultCommandConfiguration()
	configuration.TaskfileName = application.activeTaskfileName()
	configuration.InterpreterDefault = application.configuration.Interpreter.Default
	configuration.DryRun = application.configuration.Common.DryRun
	configuration.DisableSummary = !application.summaryEnabled()

	variables := application.variablesConfiguration()
	configuration.PackageDirectory = variables.Package
	configuration.TestsDirectory = variables.Tests

	return configuration.Sanitize()
}
