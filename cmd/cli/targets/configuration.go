package targets

import (
	"strings"

	"github.com/tyemirov/pyx/internal/taskfile"
	rootutils "github.com/tyemirov/pyx/internal/utils/roots"
)

// CommandConfiguration captures configuration values shared by target execution commands.
type CommandConfiguration struct {
	TaskfileName       string
	RootDirectory      string
	InterpreterDefault string
	PackageDirectory   string
	TestsDirectory     string
	DryRun             bool
	DisableSummary     bool
}

// DefaultCommandConfiguration returns the built-in defaults for target execution.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{TaskfileName: taskfile.DefaultFileName, DisableSummary: true}
}

// Sanitize trims textual configuration values and normalizes the root directory.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.TaskfileName = strings.TrimSpace(configuration.TaskfileName)
	sanitized.RootDirectory = rootutils.SanitizeConfigured(configuration.RootDirectory)
	sanitized.InterpreterDefault = strings.TrimSpace(configuration.InterpreterDefault)
	sanitized.PackageDirectory = strings.TrimSpace(configuration.PackageDirectory)
	sanitized.TestsDirectory = strings.TrimSpace(configuration.TestsDirectory)
	return sanitized
}
