package models

import "fmt"

// ConfigError reports missing or invalid credentials or settings. Fatal.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ProviderError reports a failed call to the cloud provider. Fatal.
type ProviderError struct {
	Op     string
	Region string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s in %s: %v", e.Op, e.Region, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// SuggestionError reports that no usable remediation command could be obtained.
type SuggestionError struct {
	InstanceID string
	Err        error
}

func (e *SuggestionError) Error() string {
	return fmt.Sprintf("suggest remediation for %s: %v", e.InstanceID, e.Err)
}

func (e *SuggestionError) Unwrap() error { return e.Err }

// ExecutionError reports that a remediation command failed to run or exited non-zero.
type ExecutionError struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("command exited with status %d", e.ExitCode)
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Output != "" {
		return msg + ": " + e.Output
	}
	return msg
}

func (e *ExecutionError) Unwrap() error { return e.Err }
