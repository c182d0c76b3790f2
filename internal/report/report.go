// Package report formats state machine reports into human-readable log lines.
package report

import (
	"fmt"
	"time"

	"github.com/sweeney/focus-timer/internal/logic"
)

// Line formats a single report. Elapsed values are shown in whole seconds.
func Line(r logic.Report) string {
	secs := Seconds(r.Elapsed)
	switch r.Kind {
	case logic.ReportFocusOn:
		return "Focus Mode on"
	case logic.ReportProgress:
		if r.Phase == logic.PhaseBreak {
			return fmt.Sprintf("In Break State Break Timer: %d Seconds", secs)
		}
		return fmt.Sprintf("Focus Timer: %d Seconds", secs)
	case logic.ReportFocusCompleted:
		return "Focus Finished: Timer completed"
	case logic.ReportBreakStarted:
		return "Break started"
	case logic.ReportFocusSummary:
		return fmt.Sprintf("In Focus state: You focused for %d Seconds, switching to break mode.", secs)
	case logic.ReportBreakFinished:
		return "Break Finished"
	case logic.ReportBreakSummary:
		return fmt.Sprintf("You took a break for %d Seconds", secs)
	case logic.ReportFocusStarted:
		return "Focus started"
	case logic.ReportSession:
		return fmt.Sprintf("In Finished State You focused for %d Seconds", secs)
	case logic.ReportBreakCount:
		return fmt.Sprintf("You took %d breaks", r.BreaksTaken)
	case logic.ReportDone:
		return "You are done for the day"
	}
	return fmt.Sprintf("%s: phase=%s elapsed=%ds breaks=%d", r.Kind, r.Phase, secs, r.BreaksTaken)
}

// Seconds truncates d to whole seconds.
func Seconds(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
