package remediate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/sentinel/internal/models"
)

// Advisor proposes a command that would start a stopped instance.
// It never executes the command.
type Advisor interface {
	Suggest(ctx context.Context, instanceID string) (models.Suggestion, error)
}

// TemplateAdvisor builds the AWS CLI start command locally.
type TemplateAdvisor struct {
	Region string
}

// Suggest returns a deterministic start-instances command for the instance.
func (a TemplateAdvisor) Suggest(_ context.Context, instanceID string) (models.Suggestion, error) {
	return models.Suggestion{
		InstanceID: instanceID,
		Command:    StartCommand(instanceID, a.Region),
	}, nil
}

// StartCommand returns the AWS CLI invocation that starts instanceID in region.
func StartCommand(instanceID, region string) string {
	return fmt.Sprintf("aws ec2 start-instances --instance-ids %s --region %s", instanceID, region)
}

// CommandSuggester turns a natural-language prompt into a single shell command.
type CommandSuggester interface {
	SuggestCommand(ctx context.Context, prompt string) (string, error)
}

// SuggesterAdvisor asks an external CommandSuggester for the remediation command.
type SuggesterAdvisor struct {
	suggester CommandSuggester
	region    string
}

// NewSuggesterAdvisor creates an advisor backed by the given suggester.
func NewSuggesterAdvisor(s CommandSuggester, region string) *SuggesterAdvisor {
	return &SuggesterAdvisor{suggester: s, region: region}
}

// Suggest prompts the suggester and wraps any failure in a SuggestionError.
func (a *SuggesterAdvisor) Suggest(ctx context.Context, instanceID string) (models.Suggestion, error) {
	prompt := Prompt(instanceID, a.region)
	slog.Debug("Requesting remediation suggestion", "instance", instanceID, "prompt", prompt)

	cmd, err := a.suggester.SuggestCommand(ctx, prompt)
	if err != nil {
		return models.Suggestion{}, &models.SuggestionError{InstanceID: instanceID, Err: err}
	}
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return models.Suggestion{}, &models.SuggestionError{InstanceID: instanceID, Err: ErrNoCommand}
	}
	return models.Suggestion{InstanceID: instanceID, Command: cmd}, nil
}

// Prompt describes the stopped instance for a suggestion provider.
func Prompt(instanceID, region string) string {
	return fmt.Sprintf("Start the stopped EC2 instance %s in region %s using a single AWS CLI command", instanceID, region)
}

// ErrNoCommand is returned when the suggestion provider output contains no command.
var ErrNoCommand = errors.New("no usable command in suggestion output")

// ExternalSuggester runs a suggestion CLI with the prompt as its last argument,
// for example `gh copilot suggest -t shell <prompt>`.
type ExternalSuggester struct {
	Argv    []string
	Timeout time.Duration
}

// SuggestCommand runs the tool and extracts the first command from its stdout.
func (s *ExternalSuggester) SuggestCommand(ctx context.Context, prompt string) (string, error) {
	if len(s.Argv) == 0 {
		return "", errors.New("no suggestion command configured")
	}
	path, err := exec.LookPath(s.Argv[0])
	if err != nil {
		return "", fmt.Errorf("suggestion tool %q not found: %w", s.Argv[0], err)
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, s.Argv[1:]...), prompt)
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.WaitDelay = waitDelay
	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("suggestion tool timed out after %v", s.Timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("suggestion tool failed: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("suggestion tool failed: %w", err)
	}

	suggestion := ExtractCommand(string(out))
	if suggestion == "" {
		return "", ErrNoCommand
	}
	return suggestion, nil
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

// ExtractCommand picks the suggested command out of free-form tool output.
// It looks, in order, for the first line of a fenced code block, the line
// following a "Suggestion:" header, a "$ " prompt line, and an "aws " line.
func ExtractCommand(output string) string {
	output = ansiPattern.ReplaceAllString(output, "")

	var lines []string
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}

	inFence := false
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "```"):
			inFence = !inFence
		case inFence && line != "":
			return strings.TrimPrefix(line, "$ ")
		}
	}
	for i, line := range lines {
		if strings.HasSuffix(strings.ToLower(line), "suggestion:") {
			if next := nextNonEmpty(lines[i+1:]); next != "" {
				return strings.TrimPrefix(next, "$ ")
			}
		}
	}
	for _, line := range lines {
		if strings.HasPrefix(line, "$ ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "$ "))
		}
	}
	for _, line := range lines {
		if strings.HasPrefix(line, "aws ") {
			return line
		}
	}
	return ""
}

func nextNonEmpty(lines []string) string {
	for _, l := range lines {
		if l != "" {
			return l
		}
	}
	return ""
}
