package commands

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ppiankov/sentinel/internal/models"
)

func TestEnhanceError_NoCredentials(t *testing.T) {
	err := enhanceError("test", fmt.Errorf("NoCredentialProviders: no valid providers"))
	if !strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected hint for NoCredentialProviders")
	}
	if !strings.Contains(err.Error(), "AWS_PROFILE") {
		t.Fatal("expected hint to mention AWS_PROFILE")
	}
}

func TestEnhanceError_ConfigErrorKeepsType(t *testing.T) {
	cause := &models.ConfigError{Msg: "AWS credentials not found. Please configure AWS CLI or set environment variables"}
	err := enhanceError("initialize AWS client", cause)
	if !strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected hint for missing credentials")
	}
	var cerr *models.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatal("expected ConfigError to survive wrapping")
	}
}

func TestEnhanceError_ExpiredToken(t *testing.T) {
	err := enhanceError("test", fmt.Errorf("ExpiredToken: token has expired"))
	if !strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected hint for ExpiredToken")
	}
}

func TestEnhanceError_Unauthorized(t *testing.T) {
	err := enhanceError("test", fmt.Errorf("api error UnauthorizedOperation: You are not authorized"))
	if !strings.Contains(err.Error(), "sentinel init") {
		t.Fatal("expected hint pointing at the IAM policy")
	}
}

func TestEnhanceError_Throttling(t *testing.T) {
	err := enhanceError("test", fmt.Errorf("Throttling: rate exceeded"))
	if !strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected hint for Throttling")
	}
}

func TestEnhanceError_GenericError(t *testing.T) {
	err := enhanceError("do something", fmt.Errorf("random error"))
	if strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected no hint for generic error")
	}
	if !strings.Contains(err.Error(), "do something") {
		t.Fatal("expected action in error message")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"stopped", &ExitError{Code: 1}, 1},
		{"config", enhanceError("init", &models.ConfigError{Msg: "no creds"}), 2},
		{"provider", enhanceError("list", &models.ProviderError{Op: "describe instances", Region: "us-east-1", Err: fmt.Errorf("boom")}), 3},
		{"other", fmt.Errorf("unknown flag: --bogus"), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHandleError(t *testing.T) {
	var buf bytes.Buffer
	if code := HandleError(&buf, &ExitError{Code: 1}); code != 1 {
		t.Fatalf("expected 1, got %d", code)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for ExitError, got %q", buf.String())
	}

	code := HandleError(&buf, &models.ConfigError{Msg: "AWS credentials not found"})
	if code != 2 {
		t.Fatalf("expected 2, got %d", code)
	}
	if !strings.HasPrefix(buf.String(), "ERROR: ") {
		t.Fatalf("expected ERROR prefix, got %q", buf.String())
	}

	buf.Reset()
	if code := HandleError(&buf, nil); code != 0 || buf.Len() != 0 {
		t.Fatalf("expected silent success, got %d %q", code, buf.String())
	}
}
