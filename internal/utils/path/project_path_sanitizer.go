// Package pathutils normalizes filesystem path inputs supplied via flags or configuration.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	tildePathPrefixConstant     = "~"
	booleanLiteralTrueConstant  = "true"
	booleanLiteralFalseConstant = "false"
)

// HomeDirectoryResolver returns the user's home directory.
type HomeDirectoryResolver func() (string, error)

// ProjectPathSanitizerConfiguration controls optional sanitization behavior.
type ProjectPathSanitizerConfiguration struct {
	ExcludeBooleanLiteralCandidates bool
}

// ProjectPathSanitizer trims and expands directory values supplied by users.
type ProjectPathSanitizer struct {
	homeDirectoryResolver HomeDirectoryResolver
	configuration         ProjectPathSanitizerConfiguration
}

// NewProjectPathSanitizerWithConfiguration builds a sanitizer using the
// provided home directory resolver. A nil resolver falls back to the
// operating system account home.
func NewProjectPathSanitizerWithConfiguration(homeDirectoryResolver HomeDirectoryResolver, configuration ProjectPathSanitizerConfiguration) *ProjectPathSanitizer {
	resolver := homeDirectoryResolver
	if resolver == nil {
		resolver = os.UserHomeDir
	}
	return &ProjectPathSanitizer{homeDirectoryResolver: resolver, configuration: configuration}
}

// Sanitize normalizes a single path candidate. Surrounding whitespace is
// removed and a leading tilde expands to the user's home directory. Blank
// and filtered candidates collapse to the empty string.
func (sanitizer *ProjectPathSanitizer) Sanitize(candidate string) string {
	trimmedCandidate := strings.TrimSpace(candidate)
	if len(trimmedCandidate) == 0 {
		return ""
	}
	if sanitizer.configuration.ExcludeBooleanLiteralCandidates && isBooleanLiteralCandidate(trimmedCandidate) {
		return ""
	}
	return sanitizer.expandHomePath(trimmedCandidate)
}

func isBooleanLiteralCandidate(candidate string) bool {
	switch strings.ToLower(candidate) {
	case booleanLiteralTrueConstant, booleanLiteralFalseConstant:
		return true
	default:
		return false
	}
}

func (sanitizer *ProjectPathSanitizer) expandHomePath(candidate string) string {
	if candidate != tildePathPrefixConstant && !strings.HasPrefix(candidate, tildePathPrefixConstant+string(os.PathSeparator)) {
		return candidate
	}

	homeDirectory, homeDirectoryError := sanitizer.homeDirectoryResolver()
	if homeDirectoryError != nil || len(homeDirectory) == 0 {
		return candidate
	}

	if candidate == tildePathPrefixConstant {
		return homeDirectory
	}
	return filepath.Join(homeDirectory, candidate[len(tildePathPrefixConstant)+1:])
}
