package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/ppiankov/sentinel/internal/config"
	"github.com/ppiankov/sentinel/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	profile string
	version string
	commit  string
	date    string
	cfg     config.Config

	// cfgErr is reported by commands that depend on the config file.
	cfgErr error
)

var rootFlags struct {
	mock       bool
	region     string
	yes        bool
	dryRun     bool
	noHeal     bool
	suggester  string
	noProgress bool
	timeout    time.Duration
}

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Alert on stopped EC2 instances and offer to start them",
	Long: `sentinel checks the EC2 instances in one region, alerts on every instance
in the stopped state, and offers to start each one. Every suggested command is
shown and only runs after you approve it.

Exit status is 0 when no instance is stopped, 1 when at least one is, 2 for
configuration or credential problems and 3 when the AWS API call fails.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
		cfg, cfgErr = config.Load(".")
		if cfgErr != nil {
			slog.Debug("Failed to load config file", "error", cfgErr)
		}
	},
	Args:          cobra.NoArgs,
	RunE:          runWatch,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with injected build info.
func Execute(ctx context.Context, v, c, d string) error {
	version = v
	commit = c
	date = d
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "AWS profile name")

	rootCmd.Flags().BoolVar(&rootFlags.mock, "mock", false, "Use a fixed stopped instance and never call AWS or run commands")
	rootCmd.Flags().StringVar(&rootFlags.region, "region", "", "Region to check (default: us-east-1)")
	rootCmd.Flags().BoolVarP(&rootFlags.yes, "yes", "y", false, "Approve every suggested command without prompting")
	rootCmd.Flags().BoolVar(&rootFlags.dryRun, "dry-run", false, "Show suggested commands but decline all of them")
	rootCmd.Flags().BoolVar(&rootFlags.noHeal, "no-heal", false, "Only alert; skip remediation entirely")
	rootCmd.Flags().StringVar(&rootFlags.suggester, "suggester", "", "Suggestion source: template or cli (default: template)")
	rootCmd.Flags().BoolVar(&rootFlags.noProgress, "no-progress", false, "Disable progress output")
	rootCmd.Flags().DurationVar(&rootFlags.timeout, "timeout", 0, "Timeout for the AWS describe call (default: 2m)")
	rootCmd.MarkFlagsMutuallyExclusive("yes", "dry-run")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
