package remediate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/ppiankov/sentinel/internal/models"
	"github.com/ppiankov/sentinel/internal/report"
)

// Approver decides whether a suggested command may run.
type Approver interface {
	Confirm(ctx context.Context, s models.Suggestion) bool
}

// PromptApprover shows the command and blocks on the operator's answer.
// There is no timeout.
type PromptApprover struct {
	in      *bufio.Reader
	out     io.Writer
	useForm bool
}

// NewPromptApprover reads answers from in and writes prompts to out.
func NewPromptApprover(in io.Reader, out io.Writer) *PromptApprover {
	return &PromptApprover{in: bufio.NewReader(in), out: out}
}

// WithForm switches to a huh confirm form; only useful when in is a terminal.
func (p *PromptApprover) WithForm(enabled bool) *PromptApprover {
	p.useForm = enabled
	return p
}

// Confirm returns true only for an explicit yes.
func (p *PromptApprover) Confirm(ctx context.Context, s models.Suggestion) bool {
	st := report.NewStyles(p.out)
	fmt.Fprintf(p.out, "\n%s %s\n", st.Label.Render("Suggested fix for"), report.SanitizeTerminal(s.InstanceID))
	fmt.Fprintf(p.out, "  %s\n", st.Command.Render(report.SanitizeTerminal(s.Command)))

	if p.useForm {
		return p.confirmForm(ctx)
	}

	fmt.Fprint(p.out, "Execute this command? [y/N]: ")
	answer, err := p.readLine(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		if ctx.Err() == nil {
			slog.Warn("Failed to read approval answer", "error", err)
		}
		fmt.Fprintln(p.out)
		return false
	}
	if errors.Is(err, io.EOF) && answer == "" {
		fmt.Fprintln(p.out)
	}
	return IsAffirmative(answer)
}

type lineResult struct {
	line string
	err  error
}

// readLine reads one answer, giving up when ctx is done. A read abandoned
// on cancellation keeps its goroutine until the reader returns, so the
// approver must not be reused after ctx ends.
func (p *PromptApprover) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ch := make(chan lineResult, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}

func (p *PromptApprover) confirmForm(ctx context.Context) bool {
	approved := false
	confirm := huh.NewConfirm().
		Title("Execute this command?").
		Affirmative("Yes").
		Negative("No").
		Value(&approved)

	if err := huh.NewForm(huh.NewGroup(confirm)).RunWithContext(ctx); err != nil {
		if !errors.Is(err, huh.ErrUserAborted) {
			slog.Warn("Approval prompt failed", "error", err)
		}
		return false
	}
	return approved
}

// IsAffirmative reports whether answer is "y" or "yes", ignoring case and surrounding space.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// StaticApprover gives the same answer to every suggestion.
type StaticApprover bool

// Confirm returns the fixed decision.
func (a StaticApprover) Confirm(_ context.Context, s models.Suggestion) bool {
	slog.Debug("Static approval decision", "instance", s.InstanceID, "approved", bool(a))
	return bool(a)
}

// PolicyApprover delegates the decision to a callback.
type PolicyApprover func(models.Suggestion) bool

// Confirm calls the policy.
func (f PolicyApprover) Confirm(_ context.Context, s models.Suggestion) bool {
	return f(s)
}
