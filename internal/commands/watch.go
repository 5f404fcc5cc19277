package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ppiankov/sentinel/internal/aws"
	"github.com/ppiankov/sentinel/internal/config"
	"github.com/ppiankov/sentinel/internal/remediate"
	"github.com/ppiankov/sentinel/internal/watch"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	defaultTimeout        = 2 * time.Minute
	defaultSuggestTimeout = time.Minute
)

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if cfgErr != nil {
		return cfgErr
	}
	applyConfigDefaults()
	if err := (config.Config{Suggester: rootFlags.suggester}).Validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	region := rootFlags.region

	lister, err := buildLister(ctx, region)
	if err != nil {
		return enhanceError("initialize AWS client", err)
	}

	opts := watch.Options{
		Region: region,
		Mock:   rootFlags.mock,
		Lister: &providerLister{
			inner:    lister,
			timeout:  rootFlags.timeout,
			progress: showProgress(),
			w:        os.Stderr,
		},
		Out: out,
	}
	if !rootFlags.noHeal && cfg.RemediationEnabled() {
		opts.Advisor = buildAdvisor(region)
		opts.Approver = buildApprover(cmd.InOrStdin(), out)
		opts.Executor = buildExecutor()
	}

	summary, err := watch.New(opts).Run(ctx)
	if err != nil {
		return enhanceError("check EC2 instances", err)
	}

	if code := summary.ExitCode(); code != exitOK {
		return &ExitError{Code: code}
	}
	return nil
}

func buildLister(ctx context.Context, region string) (watch.Lister, error) {
	if rootFlags.mock {
		return aws.NewMockLister(region), nil
	}

	prof := profile
	if prof == "" {
		prof = cfg.Profile
	}

	ctx, cancel := withTimeout(ctx, rootFlags.timeout)
	defer cancel()

	client, err := aws.NewClient(ctx, prof, region)
	if err != nil {
		return nil, err
	}
	if err := verifyIdentity(ctx, client, region); err != nil {
		return nil, err
	}
	return client.InstanceLister(), nil
}

// identityChecker is the credential side of *aws.Client.
type identityChecker interface {
	CheckCredentials(ctx context.Context) error
	CallerIdentity(ctx context.Context) (string, error)
}

// verifyIdentity fails when no credentials resolve. An unknown caller
// identity is only logged.
func verifyIdentity(ctx context.Context, c identityChecker, region string) error {
	if err := c.CheckCredentials(ctx); err != nil {
		return err
	}
	if arn, err := c.CallerIdentity(ctx); err != nil {
		slog.Warn("Could not determine caller identity", "error", err)
	} else {
		slog.Debug("Using AWS identity", "arn", arn, "region", region)
	}
	return nil
}

func buildAdvisor(region string) remediate.Advisor {
	if rootFlags.mock || rootFlags.suggester != config.SuggesterCLI {
		return remediate.TemplateAdvisor{Region: region}
	}

	argv := cfg.SuggestCommand
	if len(argv) == 0 {
		argv = config.DefaultSuggestCommand
	}
	timeout := cfg.SuggestTimeoutDuration()
	if timeout <= 0 {
		timeout = defaultSuggestTimeout
	}
	return remediate.NewSuggesterAdvisor(&remediate.ExternalSuggester{Argv: argv, Timeout: timeout}, region)
}

func buildApprover(in io.Reader, out io.Writer) remediate.Approver {
	switch {
	case rootFlags.dryRun || (!rootFlags.yes && cfg.Approve == config.ApproveNever):
		return remediate.StaticApprover(false)
	case rootFlags.yes || cfg.Approve == config.ApproveAlways:
		return remediate.StaticApprover(true)
	}

	useForm := false
	if f, ok := in.(*os.File); ok && f == os.Stdin {
		useForm = term.IsTerminal(int(f.Fd()))
	}
	return remediate.NewPromptApprover(in, out).WithForm(useForm)
}

func buildExecutor() *remediate.Executor {
	allowed := cfg.AllowedCommands
	if len(allowed) == 0 {
		allowed = config.DefaultAllowedCommands
	}
	if rootFlags.mock {
		return remediate.NewExecutor(&remediate.MockRunner{}, allowed)
	}
	return remediate.NewExecutor(&remediate.ShellRunner{Timeout: cfg.ExecTimeoutDuration()}, allowed)
}

func showProgress() bool {
	return !rootFlags.noProgress && !rootFlags.mock && term.IsTerminal(int(os.Stderr.Fd()))
}

func applyConfigDefaults() {
	if rootFlags.region == "" {
		rootFlags.region = cfg.Region
	}
	if rootFlags.region == "" {
		rootFlags.region = config.DefaultRegion
	}
	if rootFlags.suggester == "" {
		rootFlags.suggester = cfg.Suggester
	}
	if rootFlags.suggester == "" {
		rootFlags.suggester = config.SuggesterTemplate
	}
	if rootFlags.timeout == 0 {
		rootFlags.timeout = cfg.TimeoutDuration()
	}
	if rootFlags.timeout == 0 {
		rootFlags.timeout = defaultTimeout
	}
}
