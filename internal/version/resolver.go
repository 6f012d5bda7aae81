// Package version reports the pyx build version. Binaries installed through
// the module proxy carry the version stamped by the Go toolchain; source
// builds fall back to describing the enclosing git checkout.
package version

import (
	"context"
	"os"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/pyx/internal/execshell"
)

const (
	unknownVersionConstant            = "unknown"
	develModuleVersionConstant        = "devel"
	gitRevParseSubcommandConstant     = "rev-parse"
	gitShowTopLevelFlagConstant       = "--show-toplevel"
	gitDescribeSubcommandConstant     = "describe"
	gitTagsFlagConstant               = "--tags"
	gitExactMatchFlagConstant         = "--exact-match"
	gitLongFlagConstant               = "--long"
	gitDirtyFlagConstant              = "--dirty"
	gitTerminalPromptVariableConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledConstant = "0"
)

// BuildInfoReader yields the module metadata embedded in the running binary.
type BuildInfoReader func() (*debug.BuildInfo, bool)

// GitExecutor runs git commands while describing a checkout.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Options configures version resolution. Zero values select the runtime
// build metadata, a quiet shell executor, and the working directory.
type Options struct {
	BuildInfoReader  BuildInfoReader
	GitExecutor      GitExecutor
	WorkingDirectory string
}

// Resolver determines the version string reported by the version command and
// the --version flag.
type Resolver struct {
	readBuildInfo    BuildInfoReader
	gitExecutor      GitExecutor
	workingDirectory string
}

// NewResolver constructs a Resolver, substituting defaults for unset options.
func NewResolver(options Options) *Resolver {
	readBuildInfo := options.BuildInfoReader
	if readBuildInfo == nil {
		readBuildInfo = debug.ReadBuildInfo
	}

	gitExecutor := options.GitExecutor
	if gitExecutor == nil {
		gitExecutor = quietGitExecutor()
	}

	workingDirectory := strings.TrimSpace(options.WorkingDirectory)
	if len(workingDirectory) == 0 {
		if currentDirectory, workingDirectoryError := os.Getwd(); workingDirectoryError == nil {
			workingDirectory = currentDirectory
		}
	}

	return &Resolver{
		readBuildInfo:    readBuildInfo,
		gitExecutor:      gitExecutor,
		workingDirectory: workingDirectory,
	}
}

// Resolve reports the version visible from the supplied options.
func Resolve(executionContext context.Context, options Options) string {
	return NewResolver(options).Version(executionContext)
}

// Version returns the stamped module version when present, otherwise the
// checkout description. Exact tag matches win over long descriptions, and
// "unknown" covers binaries built outside both.
func (resolver *Resolver) Version(executionContext context.Context) string {
	if resolver == nil {
		return unknownVersionConstant
	}

	if stampedVersion := resolver.stampedModuleVersion(); len(stampedVersion) > 0 {
		return stampedVersion
	}

	repositoryRoot := resolver.repositoryRoot(executionContext)
	describeAttempts := [][]string{
		{gitDescribeSubcommandConstant, gitTagsFlagConstant, gitExactMatchFlagConstant},
		{gitDescribeSubcommandConstant, gitTagsFlagConstant, gitLongFlagConstant, gitDirtyFlagConstant},
	}
	for _, describeArguments := range describeAttempts {
		if describedVersion := resolver.runGit(executionContext, repositoryRoot, describeArguments); len(describedVersion) > 0 {
			return describedVersion
		}
	}

	return unknownVersionConstant
}

func (resolver *Resolver) stampedModuleVersion() string {
	if resolver.readBuildInfo == nil {
		return ""
	}

	buildInfo, available := resolver.readBuildInfo()
	if !available || buildInfo == nil {
		return ""
	}

	stampedVersion := strings.TrimSpace(buildInfo.Main.Version)
	if strings.EqualFold(stampedVersion, develModuleVersionConstant) {
		// Source builds stamp "devel"; the checkout knows better.
		return ""
	}
	return stampedVersion
}

// repositoryRoot resolves the top level of the enclosing checkout so tag
// description works from nested directories. Failures fall back to the
// working directory itself.
func (resolver *Resolver) repositoryRoot(executionContext context.Context) string {
	if len(resolver.workingDirectory) == 0 {
		return ""
	}

	revParseArguments := []string{gitRevParseSubcommandConstant, gitShowTopLevelFlagConstant}
	if topLevel := resolver.runGit(executionContext, resolver.workingDirectory, revParseArguments); len(topLevel) > 0 {
		return topLevel
	}
	return resolver.workingDirectory
}

func (resolver *Resolver) runGit(executionContext context.Context, workingDirectory string, arguments []string) string {
	if resolver.gitExecutor == nil {
		return ""
	}

	details := execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: workingDirectory,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptVariableConstant: gitTerminalPromptDisabledConstant,
		},
	}

	executionResult, executionError := resolver.gitExecutor.ExecuteGit(executionContext, details)
	if executionError != nil {
		return ""
	}
	return strings.TrimSpace(executionResult.StandardOutput)
}

func quietGitExecutor() GitExecutor {
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner(), false)
	if creationError != nil {
		return nil
	}
	return shellExecutor
}
