package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tyemirov/pyx/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the pyx command-line application. Wrapped tool failures keep
// their own terminal output and exit code; pyx adds no messaging for them.
func main() {
	executionContext, cancelExecution := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	executionError := cli.ExecuteContext(executionContext)
	cancelExecution()

	if executionError != nil && !cli.IsCommandFailure(executionError) {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(cli.ExitCode(executionError))
}
