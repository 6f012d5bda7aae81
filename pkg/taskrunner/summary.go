package taskrunner

import (
	"fmt"
	"strings"
	"time"

	"github.com/tyemirov/pyx/internal/runner"
)

// RenderSummaryLine returns the summary line printed after a target run.
// Runs that never reached a step produce no summary.
func RenderSummaryLine(outcome runner.ExecutionOutcome) string {
	if len(outcome.StepOutcomes) == 0 && outcome.Failure == nil {
		return ""
	}

	parts := []string{
		fmt.Sprintf("Summary: target=%s", outcome.TargetName),
		fmt.Sprintf("steps=%d", len(outcome.StepOutcomes)),
		fmt.Sprintf("failed=%d", outcome.FailedSteps()),
	}

	removedCount := 0
	for stepIndex := range outcome.StepOutcomes {
		removedCount += len(outcome.StepOutcomes[stepIndex].RemovedPaths)
	}
	if removedCount > 0 {
		parts = append(parts, fmt.Sprintf("removed=%d", removedCount))
	}

	durationHuman := strings.TrimSpace(outcome.Duration.Round(time.Millisecond).String())
	if len(durationHuman) == 0 {
		durationHuman = "0s"
	}

	parts = append(parts, fmt.Sprintf("duration_human=%s", durationHuman))
	parts = append(parts, fmt.Sprintf("duration_ms=%d", outcome.Duration.Milliseconds()))

	return strings.Join(parts, " ")
}
