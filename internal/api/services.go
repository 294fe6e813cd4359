package api

import "context"

const servicesService = "pyrite.v1.services.v1.ServicesService"

// FindAllServices lists services by project or by team. When both ids are
// set the project id is used; when neither is set all visible services are
// returned.
func (c *Client) FindAllServices(ctx context.Context, teamID, projectID string) ([]Service, error) {
	req := servicesByTeamOrProject{}
	if projectID != "" {
		req.ProjectID = projectID
	} else {
		req.TeamID = teamID
	}

	var resp servicesResponse
	if err := c.call(ctx, servicesService, "FindAllServices", req, &resp); err != nil {
		return nil, err
	}
	return resp.Services, nil
}

// FindOneService returns a single service including its meta references.
func (c *Client) FindOneService(ctx context.Context, id string) (*Service, error) {
	var service Service
	if err := c.call(ctx, servicesService, "FindOneService", byID{ID: id, WithMeta: boolPtr(true)}, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

// UpsertService creates the service, or updates it when one with the same
// name exists in the project, and returns the stored service.
func (c *Client) UpsertService(ctx context.Context, req *UpsertServiceRequest) (*Service, error) {
	var service Service
	if err := c.call(ctx, servicesService, "UpsertService", req, &service); err != nil {
		return nil, err
	}
	return &service, nil
}
