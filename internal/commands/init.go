package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initFlags struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate sample config and IAM policy",
	Long:  `Creates a sample .sentinel.yaml config file and an IAM policy JSON file granting the permissions sentinel needs.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite existing files")
}

func runInit(cmd *cobra.Command, _ []string) error {
	configPath := ".sentinel.yaml"
	policyPath := "sentinel-policy.json"
	out := cmd.OutOrStdout()

	wrote := 0
	for _, f := range []struct{ path, content string }{
		{configPath, sampleConfig},
		{policyPath, sampleIAMPolicy},
	} {
		ok, err := writeIfNotExists(f.path, f.content, initFlags.force)
		if err != nil {
			return err
		}
		if ok {
			wrote++
		} else {
			fmt.Fprintf(out, "Skipping %s (already exists, use --force to overwrite)\n", f.path)
		}
	}

	if wrote > 0 {
		fmt.Fprintf(out, "Created %s and %s\n", configPath, policyPath)
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "  1. Edit .sentinel.yaml to choose the region and approval mode")
		fmt.Fprintln(out, "  2. Apply sentinel-policy.json to your AWS IAM role/user")
		fmt.Fprintln(out, "  3. Run: sentinel --mock, then sentinel")
	}
	return nil
}

func writeIfNotExists(path, content string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

const sampleConfig = `# sentinel configuration

# AWS profile (or set AWS_PROFILE env var)
# profile: default

# Region to check (one region per run)
region: us-east-1

# Set to false to only alert on stopped instances
remediate: true

# Approval mode: prompt, always, or never
approve: prompt

# Suggestion source: template (built-in start-instances command) or cli
suggester: template

# External suggestion tool for suggester: cli; the prompt is appended as the last argument
# suggest_command:
#   - gh
#   - copilot
#   - suggest
#   - -t
#   - shell
# suggest_timeout: 60s

# Remediation commands must start with one of these prefixes
allowed_commands:
  - aws ec2 start-instances

# Per-command execution timeout
exec_timeout: 2m

# Timeout for the describe-instances call
timeout: 2m
`

const sampleIAMPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Sid": "SentinelWatch",
      "Effect": "Allow",
      "Action": [
        "ec2:DescribeInstances",
        "sts:GetCallerIdentity"
      ],
      "Resource": "*"
    },
    {
      "Sid": "SentinelHeal",
      "Effect": "Allow",
      "Action": [
        "ec2:StartInstances"
      ],
      "Resource": "*"
    }
  ]
}
`
