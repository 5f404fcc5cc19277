package aws

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/ppiankov/sentinel/internal/models"
)

type mockEC2Client struct {
	pages [][]ec2types.Reservation
	err   error
	calls int
}

func (m *mockEC2Client) DescribeInstances(_ context.Context, input *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.pages) == 0 {
		return &ec2.DescribeInstancesOutput{}, nil
	}

	idx := 0
	if input.NextToken != nil {
		fmt.Sscanf(*input.NextToken, "page-%d", &idx)
	}
	out := &ec2.DescribeInstancesOutput{Reservations: m.pages[idx]}
	if idx+1 < len(m.pages) {
		out.NextToken = awssdk.String(fmt.Sprintf("page-%d", idx+1))
	}
	return out, nil
}

func instance(id string, state ec2types.InstanceStateName) ec2types.Instance {
	return ec2types.Instance{
		InstanceId:   awssdk.String(id),
		InstanceType: ec2types.InstanceTypeT3Micro,
		State:        &ec2types.InstanceState{Name: state},
	}
}

func TestInstanceLister_MapsStates(t *testing.T) {
	mock := &mockEC2Client{
		pages: [][]ec2types.Reservation{
			{
				{Instances: []ec2types.Instance{
					instance("i-run", ec2types.InstanceStateNameRunning),
					instance("i-stop", ec2types.InstanceStateNameStopped),
				}},
				{Instances: []ec2types.Instance{
					instance("i-stopping", ec2types.InstanceStateNameStopping),
					instance("i-pending", ec2types.InstanceStateNamePending),
					instance("i-term", ec2types.InstanceStateNameTerminated),
					instance("i-down", ec2types.InstanceStateNameShuttingDown),
				}},
			},
		},
	}

	lister := NewInstanceLister(mock, "us-east-1")
	got, err := lister.ListInstances(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("expected 6 instances, got %d", len(got))
	}

	want := []models.InstanceState{
		models.StateRunning, models.StateStopped, models.StateStopping,
		models.StatePending, models.StateTerminated, models.StateShuttingDown,
	}
	for i, w := range want {
		if got[i].State != w {
			t.Fatalf("instance %s: expected state %s, got %s", got[i].ID, w, got[i].State)
		}
	}
	if n := models.CountStopped(got); n != 1 {
		t.Fatalf("expected exactly 1 stopped instance, got %d", n)
	}
}

func TestInstanceLister_Pagination(t *testing.T) {
	mock := &mockEC2Client{
		pages: [][]ec2types.Reservation{
			{{Instances: []ec2types.Instance{instance("i-1", ec2types.InstanceStateNameRunning)}}},
			{{Instances: []ec2types.Instance{instance("i-2", ec2types.InstanceStateNameStopped)}}},
			{{Instances: []ec2types.Instance{instance("i-3", ec2types.InstanceStateNameRunning)}}},
		},
	}

	got, err := NewInstanceLister(mock, "us-east-1").ListInstances(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.calls != 3 {
		t.Fatalf("expected 3 API calls, got %d", mock.calls)
	}
	if len(got) != 3 || got[0].ID != "i-1" || got[2].ID != "i-3" {
		t.Fatalf("unexpected instances: %+v", got)
	}
}

func TestInstanceLister_NameAndStoppedAt(t *testing.T) {
	inst := instance("i-old", ec2types.InstanceStateNameStopped)
	inst.Tags = []ec2types.Tag{{Key: awssdk.String("Name"), Value: awssdk.String("old-server")}}
	inst.StateTransitionReason = awssdk.String("User initiated (2024-03-01 10:20:30 GMT)")

	mock := &mockEC2Client{pages: [][]ec2types.Reservation{{{Instances: []ec2types.Instance{inst}}}}}
	got, err := NewInstanceLister(mock, "us-east-1").ListInstances(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got[0].Name != "old-server" {
		t.Fatalf("expected name old-server, got %q", got[0].Name)
	}
	if got[0].Type != "t3.micro" {
		t.Fatalf("expected type t3.micro, got %q", got[0].Type)
	}
	if got[0].StoppedAt == nil {
		t.Fatal("expected StoppedAt to be parsed")
	}
	want := time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)
	if !got[0].StoppedAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, *got[0].StoppedAt)
	}
}

func TestInstanceLister_MissingStateIsOther(t *testing.T) {
	mock := &mockEC2Client{pages: [][]ec2types.Reservation{{{Instances: []ec2types.Instance{
		{InstanceId: awssdk.String("i-nostate")},
	}}}}}

	got, err := NewInstanceLister(mock, "us-east-1").ListInstances(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].State != models.StateOther {
		t.Fatalf("expected other, got %s", got[0].State)
	}
}

func TestInstanceLister_NoInstances(t *testing.T) {
	got, err := NewInstanceLister(&mockEC2Client{}, "us-east-1").ListInstances(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected 0 instances, got %d", len(got))
	}
}

func TestInstanceLister_Unauthorized(t *testing.T) {
	mock := &mockEC2Client{err: &smithy.GenericAPIError{Code: "UnauthorizedOperation", Message: "You are not authorized"}}

	_, err := NewInstanceLister(mock, "us-east-1").ListInstances(context.Background())
	var perr *models.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}
	if perr.Region != "us-east-1" {
		t.Fatalf("expected region us-east-1, got %s", perr.Region)
	}
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) || apiErr.ErrorCode() != "UnauthorizedOperation" {
		t.Fatal("expected the API error to remain reachable through the chain")
	}
}

func TestInstanceLister_GenericFailure(t *testing.T) {
	mock := &mockEC2Client{err: fmt.Errorf("dial tcp: connection refused")}

	_, err := NewInstanceLister(mock, "us-east-1").ListInstances(context.Background())
	var perr *models.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
}

func TestInstanceLister_CredentialFailure(t *testing.T) {
	mock := &mockEC2Client{err: fmt.Errorf("operation error EC2: DescribeInstances, failed to retrieve credentials: no EC2 IMDS role found")}

	_, err := NewInstanceLister(mock, "us-east-1").ListInstances(context.Background())
	var cerr *models.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
}

func TestParseStateTransitionTime(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		ok     bool
	}{
		{"user initiated", "User initiated (2023-04-01 12:34:56 GMT)", true},
		{"empty", "", false},
		{"no parens", "Server.InternalError", false},
		{"garbage date", "User initiated (yesterday)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseStateTransitionTime(tt.reason)
			if (got != nil) != tt.ok {
				t.Fatalf("parseStateTransitionTime(%q) = %v, want ok=%v", tt.reason, got, tt.ok)
			}
		})
	}
}

func TestMockLister(t *testing.T) {
	lister := NewMockLister("us-east-1")
	got, err := lister.ListInstances(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(got))
	}
	if got[0].ID != MockInstanceID || !got[0].IsStopped() {
		t.Fatalf("unexpected fixture %+v", got[0])
	}
	if lister.Region() != "us-east-1" {
		t.Fatalf("expected region us-east-1, got %s", lister.Region())
	}
}
