package taskfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	locateStartDirectoryRequiredMessageConstant = "taskfile search start directory must be provided"
	locateResolveErrorTemplateConstant          = "failed to resolve taskfile search directory: %w"
	locateStatErrorTemplateConstant             = "failed to inspect taskfile candidate %s: %w"
)

// Location identifies the taskfile governing an invocation and the workspace root derived from it.
type Location struct {
	FilePath      string
	RootDirectory string
	Embedded      bool
}

// Locate searches upward from the start directory for the named taskfile.
// The directory containing the file becomes the workspace root regardless of
// the invocation directory. When no file exists on any ancestor the embedded
// declaration applies and the start directory is the root.
func Locate(startDirectory string, taskfileName string) (Location, error) {
	trimmedStart := strings.TrimSpace(startDirectory)
	if len(trimmedStart) == 0 {
		return Location{}, errors.New(locateStartDirectoryRequiredMessageConstant)
	}

	resolvedStart, resolveError := filepath.Abs(trimmedStart)
	if resolveError != nil {
		return Location{}, fmt.Errorf(locateResolveErrorTemplateConstant, resolveError)
	}

	candidateName := strings.TrimSpace(taskfileName)
	if len(candidateName) == 0 {
		candidateName = DefaultFileName
	}

	currentDirectory := resolvedStart
	for {
		candidatePath := filepath.Join(currentDirectory, candidateName)
		candidateInfo, statError := os.Stat(candidatePath)
		switch {
		case statError == nil && !candidateInfo.IsDir():
			return Location{FilePath: candidatePath, RootDirectory: currentDirectory}, nil
		case statError != nil && !os.IsNotExist(statError):
			return Location{}, fmt.Errorf(locateStatErrorTemplateConstant, candidatePath, statError)
		}

		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}

	return Location{RootDirectory: resolvedStart, Embedded: true}, nil
}
