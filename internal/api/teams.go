package api

import "context"

const teamService = "pyrite.v1.teams.v1.TeamService"

// FindAllTeams lists the teams the user belongs to.
func (c *Client) FindAllTeams(ctx context.Context) ([]Team, error) {
	var resp teamsResponse
	if err := c.call(ctx, teamService, "FindAllTeams", empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Teams, nil
}

// FindOneTeam returns a single team.
func (c *Client) FindOneTeam(ctx context.Context, id string) (*Team, error) {
	var team Team
	if err := c.call(ctx, teamService, "FindOneTeam", byID{ID: id}, &team); err != nil {
		return nil, err
	}
	return &team, nil
}
