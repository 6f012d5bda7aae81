package tests

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	cleanIntegrationTimeout    = 10 * time.Second
	cleanIntegrationTargetName = "clean"
	cleanIntegrationTaskfile   = `package: widgets
tests: tests
targets:
  - target:
      name: clean
      description: Remove build artifacts.
      steps:
        - prune: ["__pycache__"]
        - remove: ["htmlcov", ".coverage"]
`
)

func TestCleanTargetRemovesDeclaredArtifacts(testInstance *testing.T) {
	repositoryRoot := integrationRepositoryRoot(testInstance)
	binaryPath := buildIntegrationBinary(testInstance, repositoryRoot)

	projectDirectory := testInstance.TempDir()
	writeIntegrationFile(testInstance, filepath.Join(projectDirectory, integrationTaskfileNameConstant), cleanIntegrationTaskfile)

	packageCacheDirectory := filepath.Join(projectDirectory, "widgets", "__pycache__")
	nestedCacheDirectory := filepath.Join(projectDirectory, "tests", "unit", "__pycache__")
	require.NoError(testInstance, os.MkdirAll(packageCacheDirectory, 0o755))
	require.NoError(testInstance, os.MkdirAll(nestedCacheDirectory, 0o755))
	writeIntegrationFile(testInstance, filepath.Join(packageCacheDirectory, "module.pyc"), "compiled")
	writeIntegrationFile(testInstance, filepath.Join(nestedCacheDirectory, "cache.pyc"), "compiled")

	coverageReportDirectory := filepath.Join(projectDirectory, "htmlcov")
	require.NoError(testInstance, os.MkdirAll(coverageReportDirectory, 0o755))
	writeIntegrationFile(testInstance, filepath.Join(coverageReportDirectory, "index.html"), "<html></html>")
	writeIntegrationFile(testInstance, filepath.Join(projectDirectory, ".coverage"), "data")
	writeIntegrationFile(testInstance, filepath.Join(projectDirectory, "keep.txt"), "retained")

	runIntegrationCommand(
		testInstance,
		binaryPath,
		projectDirectory,
		integrationCommandOptions{},
		cleanIntegrationTimeout,
		[]string{cleanIntegrationTargetName},
	)

	removedPaths := []string{
		packageCacheDirectory,
		nestedCacheDirectory,
		coverageReportDirectory,
		filepath.Join(projectDirectory, ".coverage"),
	}
	for _, removedPath := range removedPaths {
		_, statError := os.Stat(removedPath)
		require.True(testInstance, os.IsNotExist(statError), removedPath)
	}

	retainedPaths := []string{
		filepath.Join(projectDirectory, "widgets"),
		filepath.Join(projectDirectory, "tests", "unit"),
		filepath.Join(projectDirectory, "keep.txt"),
	}
	for _, retainedPath := range retainedPaths {
		_, statError := os.Stat(retainedPath)
		require.NoError(testInstance, statError, retainedPath)
	}
}

func TestCleanTargetSucceedsWithoutArtifacts(testInstance *testing.T) {
	repositoryRoot := integrationRepositoryRoot(testInstance)
	binaryPath := buildIntegrationBinary(testInstance, repositoryRoot)

	projectDirectory := testInstance.TempDir()
	writeIntegrationFile(testInstance, filepath.Join(projectDirectory, integrationTaskfileNameConstant), cleanIntegrationTaskfile)
	writeIntegrationFile(testInstance, filepath.Join(projectDirectory, "keep.txt"), "retained")
	sourceFilePath := filepath.Join(projectDirectory, "widgets", "module.py")
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(sourceFilePath), 0o755))
	writeIntegrationFile(testInstance, sourceFilePath, "VERSION = 1\n")

	entriesBefore := listDirectoryNames(testInstance, projectDirectory)

	runIntegrationCommand(
		testInstance,
		binaryPath,
		projectDirectory,
		integrationCommandOptions{},
		cleanIntegrationTimeout,
		[]string{cleanIntegrationTargetName},
	)

	require.Equal(testInstance, entriesBefore, listDirectoryNames(testInstance, projectDirectory))
	require.FileExists(testInstance, sourceFilePath)
	require.FileExists(testInstance, filepath.Join(projectDirectory, "keep.txt"))
}

func listDirectoryNames(testInstance *testing.T, directoryPath string) []string {
	testInstance.Helper()
	directoryEntries, readError := os.ReadDir(directoryPath)
	require.NoError(testInstance, readError)
	entryNames := make([]string, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entryNames = append(entryNames, directoryEntry.Name())
	}
	return entryNames
}
