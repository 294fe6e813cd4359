package api

import "context"

const serviceEnvironmentService = "pyrite.v1.services.v1.ServiceEnvironmentService"

// FindAllServiceEnvironments lists the environments of a service.
func (c *Client) FindAllServiceEnvironments(ctx context.Context, serviceID string) ([]ServiceEnvironment, error) {
	req := environmentsByParent{ServiceID: serviceID, WithMeta: boolPtr(true)}

	var resp environmentsResponse
	if err := c.call(ctx, serviceEnvironmentService, "FindAllServiceEnvironments", req, &resp); err != nil {
		return nil, err
	}
	return resp.ServiceEnvironments, nil
}

// FindOneServiceEnvironment returns a single environment.
func (c *Client) FindOneServiceEnvironment(ctx context.Context, id string) (*ServiceEnvironment, error) {
	var env ServiceEnvironment
	if err := c.call(ctx, serviceEnvironmentService, "FindOneServiceEnvironment", byID{ID: id, WithMeta: boolPtr(true)}, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
