package cleanup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	removerRootRequiredMessageConstant     = "removal root directory must be provided"
	pathEscapesRootMessageTemplateConstant = "path %q escapes the workspace root"
	parentDirectoryTraversalConstant       = ".."
)

// InvalidRootError indicates a cleanup call received an unusable root directory.
type InvalidRootError struct {
	Message string
}

// Error implements the error interface.
func (errorDetails *InvalidRootError) Error() string {
	return errorDetails.Message
}

// PathEscapesRootError indicates a removal path resolved outside the workspace root.
type PathEscapesRootError struct {
	Path string
}

// Error implements the error interface.
func (errorDetails *PathEscapesRootError) Error() string {
	return fmt.Sprintf(pathEscapesRootMessageTemplateConstant, errorDetails.Path)
}

// PathRemover deletes root-relative files and directories.
type PathRemover struct{}

// NewPathRemover constructs a PathRemover instance.
func NewPathRemover() PathRemover {
	return PathRemover{}
}

// Remove deletes each root-relative path in declaration order. Paths that do
// not exist are skipped without error; paths resolving outside the root are
// rejected before anything is deleted. The removed paths are returned.
func (remover PathRemover) Remove(rootDirectory string, relativePaths []string) ([]string, error) {
	trimmedRoot := strings.TrimSpace(rootDirectory)
	if len(trimmedRoot) == 0 {
		return nil, &InvalidRootError{Message: removerRootRequiredMessageConstant}
	}

	resolvedPaths := make([]string, 0, len(relativePaths))
	for _, relativePath := range relativePaths {
		trimmedPath := strings.TrimSpace(relativePath)
		if len(trimmedPath) == 0 {
			continue
		}
		resolvedPath, resolveError := resolveWithinRoot(trimmedRoot, trimmedPath)
		if resolveError != nil {
			return nil, resolveError
		}
		resolvedPaths = append(resolvedPaths, resolvedPath)
	}

	removedPaths := make([]string, 0, len(resolvedPaths))
	for _, resolvedPath := range resolvedPaths {
		if _, statError := os.Lstat(resolvedPath); statError != nil {
			if os.IsNotExist(statError) {
				continue
			}
			return removedPaths, statError
		}
		if removeError := os.RemoveAll(resolvedPath); removeError != nil {
			return removedPaths, removeError
		}
		removedPaths = append(removedPaths, resolvedPath)
	}

	return removedPaths, nil
}

func resolveWithinRoot(rootDirectory string, relativePath string) (string, error) {
	if filepath.IsAbs(relativePath) {
		return "", &PathEscapesRootError{Path: relativePath}
	}

	joinedPath := filepath.Join(rootDirectory, relativePath)
	relativeToRoot, relativeError := filepath.Rel(rootDirectory, joinedPath)
	if relativeError != nil {
		return "", &PathEscapesRootError{Path: relativePath}
	}
	if relativeToRoot == parentDirectoryTraversalConstant || strings.HasPrefix(relativeToRoot, parentDirectoryTraversalConstant+string(filepath.Separator)) {
		return "", &PathEscapesRootError{Path: relativePath}
	}

	return joinedPath, nil
}
