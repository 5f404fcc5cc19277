// Package watch runs the single-pass check: list instances, alert on stopped
// ones, walk each through suggestion, approval and execution, then summarize.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ppiankov/sentinel/internal/models"
	"github.com/ppiankov/sentinel/internal/remediate"
	"github.com/ppiankov/sentinel/internal/report"
)

// Lister returns the current instance snapshot for one region.
type Lister interface {
	ListInstances(ctx context.Context) ([]models.Instance, error)
}

// Executor runs an approved suggestion. It must not fail the run.
type Executor interface {
	Execute(ctx context.Context, s models.Suggestion) models.Outcome
}

// Options wires the collaborators of a Watcher.
type Options struct {
	Region   string
	Mock     bool
	Lister   Lister
	Advisor  remediate.Advisor
	Approver remediate.Approver
	Executor Executor
	Out      io.Writer
}

// Watcher runs one monitoring pass. Remediation is disabled when
// Advisor is nil.
type Watcher struct {
	opts Options
}

// New creates a Watcher.
func New(opts Options) *Watcher {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Watcher{opts: opts}
}

// Run performs the pass and prints the summary. A returned error is fatal
// (ConfigError or ProviderError); per-instance failures end up in the summary.
func (w *Watcher) Run(ctx context.Context) (models.RunSummary, error) {
	out := w.opts.Out
	report.PrintHeader(out, w.opts.Region, w.opts.Mock)

	instances, err := w.opts.Lister.ListInstances(ctx)
	if err != nil {
		return models.RunSummary{}, err
	}
	slog.Info("Listed instances", "region", w.opts.Region, "count", len(instances))

	stopped := report.ReportAlerts(out, instances)

	var outcomes []models.Outcome
	if w.opts.Advisor != nil {
		for _, inst := range stopped {
			outcomes = append(outcomes, w.remediate(ctx, inst))
		}
	} else if len(stopped) > 0 {
		slog.Info("Remediation disabled", "stopped", len(stopped))
	}

	summary := report.Summarize(len(instances), stopped, outcomes)
	summary.Region = w.opts.Region
	summary.Mock = w.opts.Mock
	report.PrintSummary(out, summary)
	return summary, nil
}

func (w *Watcher) remediate(ctx context.Context, inst models.Instance) models.Outcome {
	st := report.NewStyles(w.opts.Out)

	s, err := w.opts.Advisor.Suggest(ctx, inst.ID)
	if err != nil {
		slog.Warn("No remediation suggestion", "instance", inst.ID, "error", err)
		fmt.Fprintln(w.opts.Out, st.Warn.Render(fmt.Sprintf("[HEALING] No suggestion for %s: %s", report.SanitizeTerminal(inst.ID), report.SanitizeTerminal(err.Error()))))
		return models.Outcome{InstanceID: inst.ID, Error: err.Error()}
	}

	if !w.opts.Approver.Confirm(ctx, s) {
		fmt.Fprintln(w.opts.Out, st.Muted.Render(fmt.Sprintf("[HEALING] Skipped %s: %s", report.SanitizeTerminal(inst.ID), report.SanitizeTerminal(s.Command))))
		return models.Declined(s)
	}

	outcome := w.opts.Executor.Execute(ctx, s)
	if outcome.Succeeded != nil && *outcome.Succeeded {
		fmt.Fprintln(w.opts.Out, st.OK.Render(fmt.Sprintf("[HEALING] Started %s", report.SanitizeTerminal(inst.ID))))
	} else {
		fmt.Fprintln(w.opts.Out, st.Fail.Render(fmt.Sprintf("[HEALING] Failed to remediate %s", report.SanitizeTerminal(inst.ID))))
	}
	return outcome
}
