package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pyritecloud/pyrite/internal/api"
	"github.com/pyritecloud/pyrite/internal/cli"
)

func newServicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"service", "s"},
		Short:   "List and inspect services",
	}

	var teamID, projectID string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List services",
		Long: `List services of a project or a team.

--project-id wins over --team-id. With neither flag an interactive
terminal asks for a team and then a project.

Examples:
  pyrite services list                     # Choose team and project
  pyrite services list -p <project-id>     # List the services of a project
  pyrite services list --team-id <id>      # List the services of a team`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServicesList(cmd, teamID, projectID)
		},
	}
	list.Flags().StringVar(&teamID, "team-id", "", "Only list services of this team")
	list.Flags().StringVarP(&projectID, "project-id", "p", "", "Only list services of this project")

	var serviceID string
	get := &cobra.Command{
		Use:     "get",
		Aliases: []string{"g"},
		Short:   "Show one service",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServicesGet(cmd, serviceID)
		},
	}
	get.Flags().StringVar(&serviceID, "service-id", "", "Service ID")
	_ = get.MarkFlagRequired("service-id")

	cmd.AddCommand(list, get)
	return cmd
}

func runServicesList(cmd *cobra.Command, teamID, projectID string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if projectID == "" {
		if teamID == "" {
			if teamID, err = pickTeam(ctx, a, true); err != nil {
				return err
			}
		}
		if projectID, err = pickProject(ctx, a, teamID, true); err != nil {
			return err
		}
	}

	services, err := call(ctx, a, "Loading services", "Services loaded", "Failed to load services",
		func(ctx context.Context) ([]api.Service, error) {
			return a.client.FindAllServices(ctx, teamID, projectID)
		})
	if err != nil {
		return err
	}
	return a.printer.Print(services, cli.ServicesTable(services))
}

func runServicesGet(cmd *cobra.Command, serviceID string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	service, err := call(cmd.Context(), a, "Loading service", "Service loaded", "Failed to load service",
		func(ctx context.Context) (*api.Service, error) {
			return a.client.FindOneService(ctx, serviceID)
		})
	if err != nil {
		return err
	}
	return a.printer.Print(service, cli.ServicesTable([]api.Service{*service}))
}

func init() {
	rootCmd.AddCommand(newServicesCmd())
}
