// Package cleanup removes build and test artifacts from a workspace tree.
package cleanup

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const prunerRootRequiredMessageConstant = "prune root directory must be provided"

// DirectoryPruner removes directories matched by base name anywhere under a root.
type DirectoryPruner struct{}

// NewDirectoryPruner constructs a DirectoryPruner instance.
func NewDirectoryPruner() DirectoryPruner {
	return DirectoryPruner{}
}

// Prune walks the tree rooted at rootDirectory and removes every directory
// whose base name matches one of directoryNames. Matching directories are
// removed recursively and never descended into; files sharing a matched name
// are left untouched. The removed paths are returned in walk order.
func (pruner DirectoryPruner) Prune(executionContext context.Context, rootDirectory string, directoryNames []string) ([]string, error) {
	trimmedRoot := strings.TrimSpace(rootDirectory)
	if len(trimmedRoot) == 0 {
		return nil, &InvalidRootError{Message: prunerRootRequiredMessageConstant}
	}

	matchTargets := make(map[string]struct{}, len(directoryNames))
	for _, directoryName := range directoryNames {
		trimmedName := strings.TrimSpace(directoryName)
		if len(trimmedName) == 0 {
			continue
		}
		matchTargets[trimmedName] = struct{}{}
	}
	if len(matchTargets) == 0 {
		return nil, nil
	}

	removedPaths := make([]string, 0)
	walkError := filepath.WalkDir(trimmedRoot, func(candidatePath string, entry fs.DirEntry, entryError error) error {
		if executionContext != nil {
			if contextError := executionContext.Err(); contextError != nil {
				return contextError
			}
		}
		if entryError != nil {
			if os.IsNotExist(entryError) {
				return nil
			}
			return entryError
		}
		if !entry.IsDir() {
			return nil
		}
		if candidatePath == trimmedRoot {
			return nil
		}
		if _, matched := matchTargets[entry.Name()]; !matched {
			return nil
		}
		if removeError := os.RemoveAll(candidatePath); removeError != nil {
			return removeError
		}
		removedPaths = append(removedPaths, candidatePath)
		return filepath.SkipDir
	})
	if walkError != nil {
		return removedPaths, walkError
	}

	return removedPaths, nil
}
