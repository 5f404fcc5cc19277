package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ppiankov/sentinel/internal/models"
)

// PrintHeader writes the run banner.
func PrintHeader(w io.Writer, region string, mock bool) {
	st := NewStyles(w)
	fmt.Fprintln(w, st.Title.Render("🛡️  Sentinel Watcher - EC2 Monitoring"))
	fmt.Fprintln(w, strings.Repeat("=", 50))
	if mock {
		fmt.Fprintln(w, st.Warn.Render("Running in mock mode: no AWS calls or commands will be executed"))
	}
	fmt.Fprintf(w, "Checking EC2 instances in %s...\n", region)
}

// ReportAlerts writes one alert line per stopped instance and returns the
// stopped subset in input order. Instances in any other state, including
// stopping and pending, produce no output.
func ReportAlerts(w io.Writer, instances []models.Instance) []models.Instance {
	st := NewStyles(w)
	var stopped []models.Instance
	for _, inst := range instances {
		if !inst.IsStopped() {
			continue
		}
		stopped = append(stopped, inst)
		fmt.Fprintln(w, st.Alert.Render(alertLine(inst)))
	}
	return stopped
}

func alertLine(inst models.Instance) string {
	line := fmt.Sprintf("🚨 ALERT: Instance %s is STOPPED!", SanitizeTerminal(inst.ID))

	var details []string
	if inst.Name != "" {
		details = append(details, SanitizeTerminal(inst.Name))
	}
	if inst.Type != "" {
		details = append(details, inst.Type)
	}
	if inst.StoppedAt != nil {
		details = append(details, "stopped "+humanize.Time(*inst.StoppedAt))
	}
	if len(details) > 0 {
		line += " (" + strings.Join(details, ", ") + ")"
	}
	return line
}
