package aws

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/ppiankov/sentinel/internal/models"
)

// Client wraps an explicitly loaded AWS configuration for one region.
type Client struct {
	cfg aws.Config
}

// NewClient loads AWS configuration for the given profile and region.
// If profile is empty, the default credential chain is used.
func NewClient(ctx context.Context, profile, region string) (*Client, error) {
	if region == "" {
		return nil, &models.ConfigError{Msg: "no region specified; use --region or set region in .sentinel.yaml"}
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, &models.ConfigError{Msg: "load AWS config", Err: err}
	}

	return &Client{cfg: cfg}, nil
}

// NewClientFromConfig wraps an already constructed config.
func NewClientFromConfig(cfg aws.Config) *Client {
	return &Client{cfg: cfg}
}

// Config returns the underlying AWS config.
func (c *Client) Config() aws.Config {
	return c.cfg
}

// Region returns the region the client is bound to.
func (c *Client) Region() string {
	return c.cfg.Region
}

// CheckCredentials resolves credentials from the configured provider chain.
// A missing or failing provider is reported as a ConfigError.
func (c *Client) CheckCredentials(ctx context.Context) error {
	if c.cfg.Credentials == nil {
		return &models.ConfigError{Msg: "AWS credentials not found. Please configure AWS CLI or set environment variables"}
	}
	creds, err := c.cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return &models.ConfigError{Msg: "AWS credentials not found. Please configure AWS CLI or set environment variables", Err: err}
	}
	if !creds.HasKeys() {
		return &models.ConfigError{Msg: "AWS credentials are empty"}
	}
	slog.Debug("Resolved AWS credentials", "source", creds.Source)
	return nil
}

// CallerIdentity returns the ARN of the principal the credentials belong to.
func (c *Client) CallerIdentity(ctx context.Context) (string, error) {
	out, err := sts.NewFromConfig(c.cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("get caller identity: %w", err)
	}
	return aws.ToString(out.Arn), nil
}

// InstanceLister returns a lister backed by the EC2 API for the client's region.
func (c *Client) InstanceLister() *InstanceLister {
	return NewInstanceLister(ec2.NewFromConfig(c.cfg), c.cfg.Region)
}
