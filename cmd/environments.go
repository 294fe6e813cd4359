package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pyritecloud/pyrite/internal/api"
	"github.com/pyritecloud/pyrite/internal/cli"
)

func newEnvironmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "environments",
		Aliases: []string{"envs", "e"},
		Short:   "List and inspect service environments",
	}

	var serviceID string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the environments of a service",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvironmentsList(cmd, serviceID)
		},
	}
	list.Flags().StringVar(&serviceID, "service-id", "", "Service ID")
	_ = list.MarkFlagRequired("service-id")

	var environmentID string
	get := &cobra.Command{
		Use:     "get",
		Aliases: []string{"g"},
		Short:   "Show one service environment",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvironmentsGet(cmd, environmentID)
		},
	}
	get.Flags().StringVar(&environmentID, "environment-id", "", "Service environment ID")
	get.Flags().StringVar(&environmentID, "env-id", "", "Alias for --environment-id")
	_ = get.Flags().MarkHidden("env-id")

	cmd.AddCommand(list, get)
	return cmd
}

func runEnvironmentsList(cmd *cobra.Command, serviceID string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	envs, err := call(cmd.Context(), a, "Loading environments", "Environments loaded", "Failed to load environments",
		func(ctx context.Context) ([]api.ServiceEnvironment, error) {
			return a.client.FindAllServiceEnvironments(ctx, serviceID)
		})
	if err != nil {
		return err
	}
	return a.printer.Print(envs, cli.ServiceEnvironmentsTable(envs))
}

func runEnvironmentsGet(cmd *cobra.Command, environmentID string) error {
	if err := requireFlag(environmentID, "environment-id"); err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	env, err := call(cmd.Context(), a, "Loading environment", "Environment loaded", "Failed to load environment",
		func(ctx context.Context) (*api.ServiceEnvironment, error) {
			return a.client.FindOneServiceEnvironment(ctx, environmentID)
		})
	if err != nil {
		return err
	}
	return a.printer.Print(env, cli.ServiceEnvironmentsTable([]api.ServiceEnvironment{*env}))
}

func init() {
	rootCmd.AddCommand(newEnvironmentsCmd())
}
