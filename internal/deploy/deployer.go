package deploy

import (
	"context"
	"fmt"

	"github.com/pyritecloud/pyrite/internal/api"
	"github.com/pyritecloud/pyrite/pkg/logging"
)

// Upserter is the API call a deployment needs.
type Upserter interface {
	UpsertService(ctx context.Context, req *api.UpsertServiceRequest) (*api.Service, error)
}

// Deployer pushes manifest services to the API.
type Deployer struct {
	client Upserter
}

// NewDeployer creates a Deployer.
func NewDeployer(client Upserter) *Deployer {
	return &Deployer{client: client}
}

// Deploy upserts every service of m in manifest order and returns the stored
// services. It stops at the first failure; services deployed before it stay
// deployed and are returned alongside the error.
func (d *Deployer) Deploy(ctx context.Context, m *Manifest) ([]*api.Service, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	deployed := make([]*api.Service, 0, len(m.Services))
	for _, spec := range m.Services {
		logging.Debug("Deploy", "Upserting service %s (image %s) in project %s", spec.Name, spec.Image, m.ProjectID)

		svc, err := d.client.UpsertService(ctx, spec.UpsertRequest(m.ProjectID))
		if err != nil {
			return deployed, fmt.Errorf("failed to deploy service %s: %w", spec.Name, err)
		}
		deployed = append(deployed, svc)
	}
	return deployed, nil
}
