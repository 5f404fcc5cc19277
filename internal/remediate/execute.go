package remediate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/ppiankov/sentinel/internal/models"
)

// DefaultExecTimeout bounds a single remediation command.
const DefaultExecTimeout = 2 * time.Minute

const (
	// exitCodeTimeout mirrors coreutils timeout(1).
	exitCodeTimeout = 124
	// waitDelay caps how long we wait on pipes held open by orphaned children after a kill.
	waitDelay = time.Second
)

// Runner runs a shell command and returns its combined output.
// A non-nil error means the command did not complete with status zero.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// ShellRunner runs commands through `sh -c`.
type ShellRunner struct {
	Shell   string
	Timeout time.Duration
}

// Run executes command and returns an *models.ExecutionError on any failure.
func (r *ShellRunner) Run(ctx context.Context, command string) (string, error) {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultExecTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.WaitDelay = waitDelay
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	slog.Debug("Remediation command finished", "command", command, "duration", time.Since(start), "error", err)

	if ctx.Err() == context.DeadlineExceeded {
		return output, &models.ExecutionError{
			Command:  command,
			ExitCode: exitCodeTimeout,
			Output:   output,
			Err:      fmt.Errorf("command timed out after %v", timeout),
		}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, &models.ExecutionError{Command: command, ExitCode: exitErr.ExitCode(), Output: output}
		}
		return output, &models.ExecutionError{Command: command, ExitCode: -1, Err: fmt.Errorf("launch command: %w", err)}
	}
	return output, nil
}

// MockRunner records commands instead of running them.
type MockRunner struct {
	Commands []string
}

// Run records command and reports success.
func (m *MockRunner) Run(_ context.Context, command string) (string, error) {
	m.Commands = append(m.Commands, command)
	return "mock: command not executed", nil
}

// Executor runs approved suggestions and turns every result into an Outcome.
type Executor struct {
	runner  Runner
	allowed []string
}

// NewExecutor creates an executor. A non-empty allowed list restricts
// commands to those prefixes and forbids shell chaining.
func NewExecutor(runner Runner, allowed []string) *Executor {
	return &Executor{runner: runner, allowed: allowed}
}

// Execute runs the suggestion. It never returns an error; failures are
// recorded in the outcome so the run can continue.
func (e *Executor) Execute(ctx context.Context, s models.Suggestion) models.Outcome {
	outcome := models.Outcome{InstanceID: s.InstanceID, Command: s.Command, Approved: true}

	if err := ValidateCommand(s.Command, e.allowed); err != nil {
		slog.Warn("Refusing remediation command", "instance", s.InstanceID, "error", err)
		outcome.Succeeded = models.Bool(false)
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Executed = true
	output, err := e.runner.Run(ctx, s.Command)
	if err != nil {
		slog.Warn("Remediation command failed", "instance", s.InstanceID, "error", err)
		outcome.Succeeded = models.Bool(false)
		outcome.Error = err.Error()
		return outcome
	}

	slog.Info("Remediation command succeeded", "instance", s.InstanceID, "output", output)
	outcome.Succeeded = models.Bool(true)
	return outcome
}

var chainTokens = []string{";", "&", "|", "`", "$(", ">", "<", "\n"}

// ValidateCommand checks command against the allowed prefixes.
func ValidateCommand(command string, allowed []string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return errors.New("empty command")
	}
	if len(allowed) == 0 {
		return nil
	}

	for _, tok := range chainTokens {
		if strings.Contains(command, tok) {
			return fmt.Errorf("command contains %q; chained commands are not allowed", tok)
		}
	}
	for _, prefix := range allowed {
		if command == prefix || strings.HasPrefix(command, prefix+" ") {
			return nil
		}
	}
	return fmt.Errorf("command not in allowed list: %s", strings.Fields(command)[0])
}
