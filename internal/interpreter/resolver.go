// Package interpreter resolves the Python interpreter command used for
// subprocess invocations.
package interpreter

import (
	"strings"
)

const (
	interpreterEnvironmentVariableNameConstant = "PYTHON"
	defaultInterpreterCommandConstant          = "python"
)

// EnvInterpreterPath names the environment variable consulted for the interpreter executable.
const EnvInterpreterPath = interpreterEnvironmentVariableNameConstant

// Source identifies where a resolved interpreter command came from.
type Source string

// Supported resolution sources.
const (
	SourceEnvironment   Source = "environment"
	SourceConfiguration Source = "configuration"
	SourceDefault       Source = "default"
)

// Resolution describes the interpreter command selected for a single invocation.
type Resolution struct {
	Command string
	Source  Source
}

// LookupFunc reads an environment variable, mirroring os.LookupEnv.
type LookupFunc func(string) (string, bool)

// DefaultCommand returns the literal fallback interpreter command.
func DefaultCommand() string {
	return defaultInterpreterCommandConstant
}

// Resolve selects the interpreter command for one invocation. The PYTHON
// environment variable wins, then the configured default, then the literal
// fallback. Blank values are treated as unset.
func Resolve(lookup LookupFunc, configuredDefault string) Resolution {
	if lookup != nil {
		if rawValue, exists := lookup(interpreterEnvironmentVariableNameConstant); exists {
			trimmedValue := strings.TrimSpace(rawValue)
			if len(trimmedValue) > 0 {
				return Resolution{Command: trimmedValue, Source: SourceEnvironment}
			}
		}
	}

	trimmedConfigured := strings.TrimSpace(configuredDefault)
	if len(trimmedConfigured) > 0 {
		return Resolution{Command: trimmedConfigured, Source: SourceConfiguration}
	}

	return Resolution{Command: defaultInterpreterCommandConstant, Source: SourceDefault}
}
