package aws

import (
	"context"
	"log/slog"

	"github.com/ppiankov/sentinel/internal/models"
)

// MockInstanceID is the identifier of the fixture instance returned in mock mode.
const MockInstanceID = "sentinel-test-vm"

// MockLister returns a fixed single stopped instance without touching the network.
type MockLister struct {
	region string
}

// NewMockLister creates a fixture lister reporting the given region.
func NewMockLister(region string) *MockLister {
	return &MockLister{region: region}
}

// Region returns the region the fixture pretends to list.
func (l *MockLister) Region() string {
	return l.region
}

// ListInstances returns the fixture instance.
func (l *MockLister) ListInstances(_ context.Context) ([]models.Instance, error) {
	slog.Debug("Using mock instance list", "region", l.region)
	return []models.Instance{
		{ID: MockInstanceID, State: models.StateStopped},
	}, nil
}
