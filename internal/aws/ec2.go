package aws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/ppiankov/sentinel/internal/models"
)

// EC2API is the minimal interface for EC2 instance operations.
type EC2API interface {
	DescribeInstances(ctx context.Context, input *ec2.DescribeInstancesInput, opts ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
}

// InstanceLister fetches the state of every instance in one region.
type InstanceLister struct {
	client EC2API
	region string
}

// NewInstanceLister creates a lister for the given region.
func NewInstanceLister(client EC2API, region string) *InstanceLister {
	return &InstanceLister{client: client, region: region}
}

// Region returns the region being listed.
func (l *InstanceLister) Region() string {
	return l.region
}

// ListInstances returns every instance in the region, in provider order.
func (l *InstanceLister) ListInstances(ctx context.Context) ([]models.Instance, error) {
	var instances []models.Instance
	paginator := ec2.NewDescribeInstancesPaginator(l.client, &ec2.DescribeInstancesInput{})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, l.classifyError(err)
		}
		for _, res := range page.Reservations {
			for _, inst := range res.Instances {
				instances = append(instances, toInstance(inst))
			}
		}
	}

	slog.Debug("Described EC2 instances", "region", l.region, "count", len(instances))
	return instances, nil
}

func (l *InstanceLister) classifyError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "failed to retrieve credentials") || strings.Contains(msg, "NoCredentialProviders") {
		return &models.ConfigError{Msg: "AWS credentials not found. Please configure AWS CLI or set environment variables", Err: err}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "UnauthorizedOperation" {
		return &models.ProviderError{
			Op:     "describe instances",
			Region: l.region,
			Err:    fmt.Errorf("not authorized to describe EC2 instances: %w", err),
		}
	}
	return &models.ProviderError{Op: "describe instances", Region: l.region, Err: err}
}

func toInstance(inst ec2types.Instance) models.Instance {
	out := models.Instance{
		ID:    awssdk.ToString(inst.InstanceId),
		Name:  instanceName(inst),
		Type:  string(inst.InstanceType),
		State: models.StateOther,
	}
	if inst.State != nil {
		out.State = models.ParseInstanceState(string(inst.State.Name))
	}
	if out.State == models.StateStopped {
		out.StoppedAt = parseStateTransitionTime(awssdk.ToString(inst.StateTransitionReason))
	}
	return out
}

func instanceName(inst ec2types.Instance) string {
	for _, tag := range inst.Tags {
		if awssdk.ToString(tag.Key) == "Name" {
			return awssdk.ToString(tag.Value)
		}
	}
	return ""
}

// parseStateTransitionTime extracts the timestamp from a reason such as
// "User initiated (2024-01-02 03:04:05 GMT)".
func parseStateTransitionTime(reason string) *time.Time {
	open := strings.LastIndex(reason, "(")
	end := strings.LastIndex(reason, ")")
	if open < 0 || end <= open {
		return nil
	}

	t, err := time.Parse("2006-01-02 15:04:05 MST", strings.TrimSpace(reason[open+1:end]))
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
