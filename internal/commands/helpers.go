package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/sentinel/internal/models"
)

// Exit codes. Stopped instances and fatal error kinds are distinguishable.
const (
	exitOK       = 0
	exitStopped  = 1
	exitConfig   = 2
	exitProvider = 3
	exitOther    = 4
)

// ExitError carries a non-error exit status, such as stopped instances found.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	if e.Code == exitStopped {
		return "stopped instances found"
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an Execute error onto the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var exitErr *ExitError
	var configErr *models.ConfigError
	var provErr *models.ProviderError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.As(err, &configErr):
		return exitConfig
	case errors.As(err, &provErr):
		return exitProvider
	default:
		return exitOther
	}
}

// HandleError prints fatal errors to w and returns the exit status.
// ExitError is reported only through the status; its summary is already printed.
func HandleError(w io.Writer, err error) int {
	code := ExitCode(err)
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(w, "ERROR: %v\n", err)
	}
	return code
}

// enhanceError wraps an error with context and suggestions for common AWS issues.
func enhanceError(action string, err error) error {
	msg := err.Error()

	var hint string
	switch {
	case strings.Contains(msg, "NoCredentialProviders") || strings.Contains(msg, "credentials not found"):
		hint = "Configure AWS credentials: set AWS_PROFILE, AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY, run 'aws configure', or try --mock"
	case strings.Contains(msg, "ExpiredToken"):
		hint = "AWS session token expired. Refresh credentials or run 'aws sso login'"
	case strings.Contains(msg, "UnauthorizedOperation") || strings.Contains(msg, "AccessDenied"):
		hint = "Insufficient permissions. Apply the IAM policy from 'sentinel init' to your role/user"
	case strings.Contains(msg, "RequestExpired"):
		hint = "Request expired. Check system clock synchronization"
	case strings.Contains(msg, "Throttling"):
		hint = "AWS API rate limit hit. Retry later"
	}

	if hint != "" {
		return fmt.Errorf("%s: %w\n  hint: %s", action, err, hint)
	}
	return fmt.Errorf("%s: %w", action, err)
}
