package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultRegion is the region checked when neither flag nor config names one.
const DefaultRegion = "us-east-1"

// Approval modes.
const (
	ApprovePrompt = "prompt"
	ApproveAlways = "always"
	ApproveNever  = "never"
)

// Suggester kinds.
const (
	SuggesterTemplate = "template"
	SuggesterCLI      = "cli"
)

// DefaultSuggestCommand is the external suggestion tool invoked in cli mode.
var DefaultSuggestCommand = []string{"gh", "copilot", "suggest", "-t", "shell"}

// DefaultAllowedCommands restricts remediation to starting instances.
var DefaultAllowedCommands = []string{"aws ec2 start-instances"}

// Config holds sentinel configuration loaded from .sentinel.yaml.
type Config struct {
	Profile         string   `yaml:"profile"`
	Region          string   `yaml:"region"`
	Remediate       *bool    `yaml:"remediate"`
	Approve         string   `yaml:"approve"`
	Suggester       string   `yaml:"suggester"`
	SuggestCommand  []string `yaml:"suggest_command"`
	SuggestTimeout  string   `yaml:"suggest_timeout"`
	AllowedCommands []string `yaml:"allowed_commands"`
	ExecTimeout     string   `yaml:"exec_timeout"`
	Timeout         string   `yaml:"timeout"`
}

// RemediationEnabled reports whether stopped instances go through remediation.
// Defaults to true.
func (c Config) RemediationEnabled() bool {
	return c.Remediate == nil || *c.Remediate
}

// TimeoutDuration parses the provider call timeout.
func (c Config) TimeoutDuration() time.Duration {
	return parseDuration(c.Timeout)
}

// ExecTimeoutDuration parses the per-command execution timeout.
func (c Config) ExecTimeoutDuration() time.Duration {
	return parseDuration(c.ExecTimeout)
}

// SuggestTimeoutDuration parses the suggestion tool timeout.
func (c Config) SuggestTimeoutDuration() time.Duration {
	return parseDuration(c.SuggestTimeout)
}

// Validate checks enumerated fields and durations.
func (c Config) Validate() error {
	switch c.Approve {
	case "", ApprovePrompt, ApproveAlways, ApproveNever:
	default:
		return fmt.Errorf("invalid approve mode %q (use prompt, always, or never)", c.Approve)
	}
	switch c.Suggester {
	case "", SuggesterTemplate, SuggesterCLI:
	default:
		return fmt.Errorf("invalid suggester %q (use template or cli)", c.Suggester)
	}
	for _, d := range []struct{ key, val string }{
		{"timeout", c.Timeout},
		{"exec_timeout", c.ExecTimeout},
		{"suggest_timeout", c.SuggestTimeout},
	} {
		if d.val == "" {
			continue
		}
		v, err := time.ParseDuration(d.val)
		if err != nil {
			return fmt.Errorf("invalid %s %q (use a duration such as 30s or 2m)", d.key, d.val)
		}
		if v < 0 {
			return fmt.Errorf("invalid %s %q (must not be negative)", d.key, d.val)
		}
	}
	return nil
}

func parseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, _ := time.ParseDuration(s)
	return d
}

// Load searches for .sentinel.yaml or .sentinel.yml in the given directory
// and returns the parsed config. Returns an empty Config if no file is found.
func Load(dir string) (Config, error) {
	candidates := []string{
		filepath.Join(dir, ".sentinel.yaml"),
		filepath.Join(dir, ".sentinel.yml"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}

		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if err := cfg.Validate(); err != nil {
			return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
		}
		return cfg, nil
	}

	return Config{}, nil
}
