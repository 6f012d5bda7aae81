package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorConstant              = "_"
	configurationReadErrorTemplateConstant       = "unable to read configuration: %w"
	embeddedConfigurationErrorTemplateConstant   = "unable to read embedded configuration: %w"
	configurationUnmarshalErrorTemplateConstant  = "unable to decode configuration: %w"
	explicitConfigurationErrorTemplateConstant   = "unable to read configuration file %s: %w"
	configurationDefaultsInvalidMessageConstant  = "configuration target must not be nil"
	configurationLoaderMissingMessageConstant    = "configuration loader is not initialized"
	configurationEnvironmentDotReplacerConstant  = "."
	configurationEnvironmentDashReplacerConstant = "-"
)

// LoadedConfiguration reports where configuration values were sourced from.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// ConfigurationLoader layers defaults, embedded configuration, configuration
// files, and environment variables into a typed configuration structure.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	embeddedConfiguration     []byte
	embeddedConfigurationType string
}

// NewConfigurationLoader builds a loader for the named configuration file.
// Search paths are consulted in order when no explicit file path is supplied.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName: configurationName,
		configurationType: configurationType,
		environmentPrefix: environmentPrefix,
		searchPaths:       append([]string(nil), searchPaths...),
	}
}

// SetEmbeddedConfiguration registers configuration bytes that seed the loader
// before any configuration file or environment variables are applied.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}
	loader.embeddedConfiguration = append([]byte(nil), configurationData...)
	loader.embeddedConfigurationType = configurationType
}

// LoadConfiguration merges defaults, embedded configuration, an optional
// configuration file, and environment variables into target. Later sources
// override earlier ones. The explicit file path wins over the search paths.
func (loader *ConfigurationLoader) LoadConfiguration(explicitConfigurationFilePath string, defaultValues map[string]any, target any) (LoadedConfiguration, error) {
	if loader == nil {
		return LoadedConfiguration{}, errors.New(configurationLoaderMissingMessageConstant)
	}
	if target == nil {
		return LoadedConfiguration{}, errors.New(configurationDefaultsInvalidMessageConstant)
	}

	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(loader.embeddedConfiguration) > 0 {
		embeddedType := loader.embeddedConfigurationType
		if len(embeddedType) == 0 {
			embeddedType = loader.configurationType
		}
		viperInstance.SetConfigType(embeddedType)
		if embeddedReadError := viperInstance.ReadConfig(bytes.NewReader(loader.embeddedConfiguration)); embeddedReadError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationErrorTemplateConstant, embeddedReadError)
		}
		viperInstance.SetConfigType(loader.configurationType)
	}

	if len(strings.TrimSpace(explicitConfigurationFilePath)) > 0 {
		viperInstance.SetConfigFile(explicitConfigurationFilePath)
		if mergeError := viperInstance.MergeInConfig(); mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(explicitConfigurationErrorTemplateConstant, explicitConfigurationFilePath, mergeError)
		}
	} else if len(loader.searchPaths) > 0 {
		for _, searchPath := range loader.searchPaths {
			viperInstance.AddConfigPath(searchPath)
		}
		if mergeError := viperInstance.MergeInConfig(); mergeError != nil {
			var configurationNotFound viper.ConfigFileNotFoundError
			if !errors.As(mergeError, &configurationNotFound) {
				return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, mergeError)
			}
		}
	}

	if len(strings.TrimSpace(loader.environmentPrefix)) > 0 {
		viperInstance.SetEnvPrefix(loader.environmentPrefix)
	}
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(
		configurationEnvironmentDotReplacerConstant, environmentKeySeparatorConstant,
		configurationEnvironmentDashReplacerConstant, environmentKeySeparatorConstant,
	))
	viperInstance.AutomaticEnv()

	if unmarshalError := viperInstance.Unmarshal(target); unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}
