package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used for operator-facing output.
// Colors are dropped automatically when the writer is not a terminal.
type Styles struct {
	Alert   lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Command lipgloss.Style
	OK      lipgloss.Style
	Warn    lipgloss.Style
	Fail    lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds styles bound to the color profile of w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Alert:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Label:   r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Command: r.NewStyle().Foreground(lipgloss.Color("6")),
		OK:      r.NewStyle().Foreground(lipgloss.Color("2")),
		Warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		Fail:    r.NewStyle().Foreground(lipgloss.Color("1")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
