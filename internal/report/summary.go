package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/sentinel/internal/models"
)

// Summarize builds the run summary from the counts gathered during a run.
func Summarize(checked int, stopped []models.Instance, outcomes []models.Outcome) models.RunSummary {
	return models.RunSummary{
		TotalChecked: checked,
		TotalStopped: len(stopped),
		Stopped:      stopped,
		Outcomes:     outcomes,
	}
}

// PrintSummary writes the final report.
func PrintSummary(w io.Writer, s models.RunSummary) {
	st := NewStyles(w)

	fmt.Fprintf(w, "\nSummary: %d instances checked, %d stopped\n", s.TotalChecked, s.TotalStopped)

	if len(s.Outcomes) > 0 {
		fmt.Fprintf(w, "Remediation: %d attempted, %d succeeded\n", s.Attempted(), s.Succeeded())
		for _, o := range s.Outcomes {
			fmt.Fprintln(w, outcomeLine(st, o))
		}
	}

	fmt.Fprintln(w)
	if s.TotalStopped == 0 {
		fmt.Fprintln(w, st.OK.Render("✅ All instances are running normally!"))
		return
	}
	fmt.Fprintln(w, st.Warn.Render(fmt.Sprintf("⚠️  Found %d stopped instance(s) requiring attention.", s.TotalStopped)))
}

func outcomeLine(st Styles, o models.Outcome) string {
	id := SanitizeTerminal(o.InstanceID)
	switch {
	case o.Succeeded != nil && *o.Succeeded:
		return st.OK.Render(fmt.Sprintf("  ✔ %s: approved, executed, succeeded", id))
	case o.Executed:
		return st.Fail.Render(fmt.Sprintf("  ✘ %s: approved, executed, failed: %s", id, oneLine(o.Error)))
	case o.Approved:
		return st.Fail.Render(fmt.Sprintf("  ✘ %s: approved, not executed: %s", id, oneLine(o.Error)))
	case o.Command == "" && o.Error != "":
		return st.Warn.Render(fmt.Sprintf("  ! %s: no suggestion: %s", id, oneLine(o.Error)))
	default:
		return st.Muted.Render(fmt.Sprintf("  - %s: declined, skipped", id))
	}
}

func oneLine(s string) string {
	return SanitizeTerminal(strings.Join(strings.Fields(s), " "))
}
