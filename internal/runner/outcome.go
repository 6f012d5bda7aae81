package runner

import (
	"time"

	"github.com/tyemirov/pyx/internal/taskfile"
)

// ExecutionOutcome captures aggregated target execution metrics.
type ExecutionOutcome struct {
	TargetName   string
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	StepOutcomes []StepOutcome
	Failure      *StepFailure
}

// StepOutcome reports the execution status for a single step.
type StepOutcome struct {
	Index        int
	Kind         taskfile.StepKind
	Description  string
	Duration     time.Duration
	Failed       bool
	RemovedPaths []string
}

// StepFailure captures a formatted failure for user-facing reporting.
type StepFailure struct {
	StepIndex int
	Message   string
	Err       error
}

// FailedSteps counts the steps that terminated with an error.
func (outcome ExecutionOutcome) FailedSteps() int {
	failedCount := 0
	for stepIndex := range outcome.StepOutcomes {
		if outcome.StepOutcomes[stepIndex].Failed {
			failedCount++
		}
	}
	return failedCount
}
