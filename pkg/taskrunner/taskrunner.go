package taskrunner

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tyemirov/pyx/internal/runner"
	"github.com/tyemirov/pyx/internal/taskfile"
)

// Executor runs taskfile targets against a resolved interpreter and root.
type Executor interface {
	Run(ctx context.Context, declaration taskfile.Taskfile, targetName string, options runner.RunOptions) (runner.ExecutionOutcome, error)
}

// Factory constructs an Executor given execution dependencies.
type Factory func(Dependencies) Executor

type targetRunnerAdapter struct {
	runner *runner.TargetRunner
}

func (adapter targetRunnerAdapter) Run(ctx context.Context, declaration taskfile.Taskfile, targetName string, options runner.RunOptions) (runner.ExecutionOutcome, error) {
	return adapter.runner.RunNamed(ctx, declaration, targetName, options)
}

// Resolve returns either the provided factory result or the default target runner.
func Resolve(factory Factory, dependencies Dependencies) Executor {
	var base Executor
	if factory != nil {
		base = factory(dependencies)
	}
	if base == nil {
		base = targetRunnerAdapter{runner: runner.NewTargetRunner(runner.Dependencies{
			Logger:          dependencies.Logger,
			CommandExecutor: dependencies.CommandExecutor,
			DirectoryPruner: dependencies.DirectoryPruner,
			PathRemover:     dependencies.PathRemover,
		})}
	}
	return summaryExecutor{
		delegate:     base,
		dependencies: dependencies,
	}
}

type summaryExecutor struct {
	delegate     Executor
	dependencies Dependencies
}

func (executor summaryExecutor) Run(ctx context.Context, declaration taskfile.Taskfile, targetName string, options runner.RunOptions) (runner.ExecutionOutcome, error) {
	outcome, runError := executor.delegate.Run(ctx, declaration, targetName, options)
	executor.printSummary(outcome)
	return outcome, runError
}

func (executor summaryExecutor) printSummary(outcome runner.ExecutionOutcome) {
	if executor.dependencies.DisableSummary {
		return
	}
	writer := executor.summaryWriter()
	if writer == nil {
		return
	}

	summary := RenderSummaryLine(outcome)
	if len(strings.TrimSpace(summary)) == 0 {
		return
	}
	fmt.Fprintln(writer, summary)
}

func (executor summaryExecutor) summaryWriter() io.Writer {
	if executor.dependencies.Errors != nil {
		return executor.dependencies.Errors
	}
	if executor.dependencies.Output != nil {
		return executor.dependencies.Output
	}
	return nil
}
