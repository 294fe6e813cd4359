package cmd

import (
	"context"
	"errors"

	"github.com/pyritecloud/pyrite/internal/api"
	"github.com/pyritecloud/pyrite/internal/cli"
)

// allOption is the picker value that means "do not filter".
const allOption = ""

// pickTeam asks the user to choose a team. withAll adds an "All teams" entry
// returning the empty id. Without a terminal it returns the empty id.
func pickTeam(ctx context.Context, a *app, withAll bool) (string, error) {
	if !a.interactive() {
		return allOption, nil
	}

	teams, err := call(ctx, a, "Loading teams", "Teams loaded", "Failed to load teams", a.client.FindAllTeams)
	if err != nil {
		return "", err
	}
	if len(teams) == 0 {
		return allOption, nil
	}

	var items []cli.SelectItem
	if withAll {
		items = append(items, cli.SelectItem{Value: allOption, Label: "All teams"})
	}
	for _, t := range teams {
		items = append(items, cli.SelectItem{Value: t.ID, Label: t.Name, Hint: t.ID})
	}
	return cli.Select("Select a team", items)
}

// pickProject asks the user to choose a project of teamID, or any project
// when teamID is empty.
func pickProject(ctx context.Context, a *app, teamID string, withAll bool) (string, error) {
	if !a.interactive() {
		return allOption, nil
	}

	projects, err := call(ctx, a, "Loading projects", "Projects loaded", "Failed to load projects",
		func(ctx context.Context) ([]api.Project, error) {
			return a.client.FindAllProjects(ctx, teamID)
		})
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		return allOption, nil
	}

	var items []cli.SelectItem
	if withAll {
		items = append(items, cli.SelectItem{Value: allOption, Label: "All projects"})
	}
	for _, p := range projects {
		items = append(items, cli.SelectItem{Value: p.ID, Label: p.Name, Hint: p.ID})
	}
	return cli.Select("Select a project", items)
}

// requireFlag returns an error naming flag when value is empty.
func requireFlag(value, flag string) error {
	if value == "" {
		return errors.New("--" + flag + " is required")
	}
	return nil
}
