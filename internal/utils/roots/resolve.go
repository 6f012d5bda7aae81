// Package roots resolves the directory where taskfile discovery starts.
package roots

import (
	"errors"

	"github.com/spf13/cobra"

	flagutils "github.com/tyemirov/pyx/internal/utils/flags"
	pathutils "github.com/tyemirov/pyx/internal/utils/path"
)

var sanitizer = pathutils.NewProjectPathSanitizerWithConfiguration(nil, pathutils.ProjectPathSanitizerConfiguration{ExcludeBooleanLiteralCandidates: true})

// FlagValue returns the sanitized root flag value from the command flag set.
func FlagValue(command *cobra.Command) (string, error) {
	if command == nil {
		return "", nil
	}
	value, _, flagError := flagutils.StringFlag(command, flagutils.DefaultRootFlagName)
	if flagError != nil {
		if errors.Is(flagError, flagutils.ErrFlagNotDefined) {
			return "", nil
		}
		return "", flagError
	}

	return sanitizer.Sanitize(value), nil
}

// SanitizeConfigured normalizes a configured root value.
func SanitizeConfigured(configured string) string {
	return sanitizer.Sanitize(configured)
}
