package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/pyritecloud/pyrite/internal/api"
	"github.com/pyritecloud/pyrite/internal/cli"
	"github.com/pyritecloud/pyrite/internal/deploy"
)

func newDeployCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the services described in pyrite.toml",
		Long: `Create or update the services described in a manifest.

The manifest is pyrite.toml, or pyrite.json when no pyrite.toml exists in
the current directory. Services are deployed in manifest order; deployment
stops at the first failure.

Examples:
  pyrite deploy                       # Use ./pyrite.toml or ./pyrite.json
  pyrite deploy -f staging.toml       # Use another manifest
  pyrite deploy -o json               # Print the stored services as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Manifest file (default pyrite.toml, then pyrite.json)")
	return cmd
}

func runDeploy(cmd *cobra.Command, file string) error {
	if file == "" {
		found, err := deploy.Find(".")
		if err != nil {
			return err
		}
		file = found
	}

	manifest, err := deploy.Load(file)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// Resolve the session up front so a login prompt never interrupts a
	// half-finished deployment.
	if _, err := call(ctx, a, "Checking session", "Session valid", "Session check failed", a.manager.CurrentSession); err != nil {
		return err
	}

	deployed, deployErr := cli.WithProgress(a.quiet,
		fmt.Sprintf("Deploying %d service(s) to project %s", len(manifest.Services), manifest.ProjectID),
		"Deployment finished", "Deployment failed",
		func() ([]*api.Service, error) {
			return deploy.NewDeployer(a.client).Deploy(ctx, manifest)
		})

	if a.printer.Format == cli.OutputFormatJSON || a.printer.Format == cli.OutputFormatYAML {
		if err := a.printer.Print(deployed, nil); err != nil {
			return err
		}
	} else {
		for _, svc := range deployed {
			fmt.Fprintf(a.out, "%s Service deployed: %s (%s)\n", text.FgGreen.Sprint("✓"), svc.Name, svc.ID)
		}
	}

	if deployErr != nil {
		return a.explain(deployErr)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newDeployCmd())
}
