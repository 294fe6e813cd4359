package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pyritecloud/pyrite/internal/api"
	"github.com/pyritecloud/pyrite/internal/cli"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "List and inspect projects",
	}

	var teamID string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Long: `List projects, optionally restricted to one team.

Without --team-id an interactive terminal asks for a team first.

Examples:
  pyrite projects list                  # Choose a team, then list
  pyrite projects list --team-id <id>   # List the projects of a team`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectsList(cmd, teamID)
		},
	}
	list.Flags().StringVar(&teamID, "team-id", "", "Only list projects of this team")

	var projectID string
	get := &cobra.Command{
		Use:     "get",
		Aliases: []string{"g"},
		Short:   "Show one project",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectsGet(cmd, projectID)
		},
	}
	get.Flags().StringVar(&projectID, "project-id", "", "Project ID")

	cmd.AddCommand(list, get)
	return cmd
}

func runProjectsList(cmd *cobra.Command, teamID string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	if teamID == "" {
		if teamID, err = pickTeam(cmd.Context(), a, true); err != nil {
			return err
		}
	}

	projects, err := call(cmd.Context(), a, "Loading projects", "Projects loaded", "Failed to load projects",
		func(ctx context.Context) ([]api.Project, error) {
			return a.client.FindAllProjects(ctx, teamID)
		})
	if err != nil {
		return err
	}
	return a.printer.Print(projects, cli.ProjectsTable(projects))
}

func runProjectsGet(cmd *cobra.Command, projectID string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	if projectID == "" {
		if projectID, err = pickProject(cmd.Context(), a, "", false); err != nil {
			return err
		}
	}
	if err := requireFlag(projectID, "project-id"); err != nil {
		return err
	}

	project, err := call(cmd.Context(), a, "Loading project", "Project loaded", "Failed to load project",
		func(ctx context.Context) (*api.Project, error) {
			return a.client.FindOneProject(ctx, projectID)
		})
	if err != nil {
		return err
	}
	return a.printer.Print(project, cli.ProjectsTable([]api.Project{*project}))
}

func init() {
	rootCmd.AddCommand(newProjectsCmd())
}
