package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pyritecloud/pyrite/internal/cli"
	"github.com/pyritecloud/pyrite/internal/templates"
)

// dockerInitOptions are the flags of `docker init`.
type dockerInitOptions struct {
	template string
	name     string
	outFile  string
	force    bool
}

func newDockerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docker",
		Short: "Docker helpers",
	}

	var opts dockerInitOptions
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a Dockerfile from a template",
		Long: `Generate a Dockerfile from one of the built-in templates.

The Dockerfile is written to stdout unless --out is given. Without
--template an interactive terminal asks for one.

Examples:
  pyrite docker init --template dart > Dockerfile
  pyrite docker init --template dart --name server --out Dockerfile`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDockerInit(cmd, opts)
		},
	}
	initCmd.Flags().StringVarP(&opts.template, "template", "t", "", "Template name ("+strings.Join(templates.Names(), ", ")+")")
	initCmd.Flags().StringVar(&opts.name, "name", "", "Application name passed to the template (default \"app\")")
	initCmd.Flags().StringVar(&opts.outFile, "out", "", "Write to this file instead of stdout")
	initCmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite --out if it exists")

	cmd.AddCommand(initCmd)
	return cmd
}

func runDockerInit(cmd *cobra.Command, opts dockerInitOptions) error {
	name := opts.template
	if name == "" {
		if rootOpts.nonInteractive || !cli.IsInteractive() {
			return fmt.Errorf("--template is required (available: %s)", strings.Join(templates.Names(), ", "))
		}

		var items []cli.SelectItem
		for _, t := range templates.List() {
			items = append(items, cli.SelectItem{Value: t.Name, Label: t.Label, Hint: t.Name})
		}
		picked, err := cli.Select("Select a template", items)
		if err != nil {
			return err
		}
		name = picked
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		return err
	}

	vars := map[string]string{}
	if opts.name != "" {
		vars["NAME"] = opts.name
	}
	out, err := renderer.Render(name, vars)
	if err != nil {
		return err
	}

	if opts.outFile == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !opts.force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(opts.outFile, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s already exists (use --force to overwrite)", opts.outFile)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.outFile, err)
	}
	if _, err := f.WriteString(out); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", opts.outFile, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", opts.outFile)
	return nil
}

func init() {
	rootCmd.AddCommand(newDockerCmd())
}
