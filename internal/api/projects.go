package api

import "context"

const projectService = "pyrite.v1.projects.v1.ProjectService"

// FindAllProjects lists projects, restricted to teamID when it is not empty.
func (c *Client) FindAllProjects(ctx context.Context, teamID string) ([]Project, error) {
	var resp projectsResponse
	if err := c.call(ctx, projectService, "FindAllProjects", projectsByTeamID{TeamID: teamID}, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

// FindOneProject returns a single project including its meta references.
func (c *Client) FindOneProject(ctx context.Context, id string) (*Project, error) {
	var project Project
	if err := c.call(ctx, projectService, "FindOneProject", byID{ID: id, WithMeta: boolPtr(true)}, &project); err != nil {
		return nil, err
	}
	return &project, nil
}
