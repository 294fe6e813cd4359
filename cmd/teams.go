package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pyritecloud/pyrite/internal/api"
	"github.com/pyritecloud/pyrite/internal/cli"
)

func newTeamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "teams",
		Aliases: []string{"team", "t"},
		Short:   "List and inspect teams",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the teams you belong to",
		Args:    cobra.NoArgs,
		RunE:    runTeamsList,
	}

	var teamID string
	get := &cobra.Command{
		Use:     "get",
		Aliases: []string{"g"},
		Short:   "Show one team",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTeamsGet(cmd, teamID)
		},
	}
	get.Flags().StringVar(&teamID, "team-id", "", "Team ID")

	cmd.AddCommand(list, get)
	return cmd
}

func runTeamsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	teams, err := call(cmd.Context(), a, "Loading teams", "Teams loaded", "Failed to load teams", a.client.FindAllTeams)
	if err != nil {
		return err
	}
	return a.printer.Print(teams, cli.TeamsTable(teams))
}

func runTeamsGet(cmd *cobra.Command, teamID string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	if teamID == "" {
		if teamID, err = pickTeam(cmd.Context(), a, false); err != nil {
			return err
		}
	}
	if err := requireFlag(teamID, "team-id"); err != nil {
		return err
	}

	team, err := call(cmd.Context(), a, "Loading team", "Team loaded", "Failed to load team",
		func(ctx context.Context) (*api.Team, error) {
			return a.client.FindOneTeam(ctx, teamID)
		})
	if err != nil {
		return err
	}
	return a.printer.Print(team, cli.TeamsTable([]api.Team{*team}))
}

func init() {
	rootCmd.AddCommand(newTeamsCmd())
}
