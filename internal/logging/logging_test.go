package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_QuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)
	logger.Info("Listed instances", "count", 3)
	logger.Warn("Remediation command failed", "instance", "i-1")

	out := buf.String()
	if strings.Contains(out, "Listed instances") {
		t.Fatal("expected info to be suppressed without verbose")
	}
	if !strings.Contains(out, "instance=i-1") {
		t.Fatalf("expected warning with attributes, got %q", out)
	}
}

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("Resolved AWS credentials", "source", "env")
	if !strings.Contains(buf.String(), "source=env") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
}
