package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyritecloud/pyrite/internal/auth"
	"github.com/pyritecloud/pyrite/internal/cli"
	"github.com/pyritecloud/pyrite/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates no usable session: none stored, or it
	// could not be refreshed.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the browser login failed.
	ExitCodeAuthFailed = 3
	// ExitCodeNetwork indicates the API or the auth provider was unreachable.
	ExitCodeNetwork = 4
	// ExitCodeStorage indicates the local session file could not be used.
	ExitCodeStorage = 5
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath     string
	environment    string
	apiURL         string
	debug          bool
	quiet          bool
	nonInteractive bool
	output         string
	noHeaders      bool
}

var rootOpts rootOptions

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pyrite",
	Short: "Manage teams, projects and services on Pyrite",
	Long: `pyrite is the command-line client for the Pyrite cloud platform.

Log in once with your browser, then list and inspect teams, projects,
services and environments, or deploy services described in pyrite.toml.

Examples:
  pyrite login                         # Authenticate in the browser
  pyrite projects list                 # Pick a team and list its projects
  pyrite services list -p <project>    # List services of a project
  pyrite deploy                        # Deploy services from pyrite.toml`,
	// SilenceUsage keeps usage text out of runtime errors.
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelWarn
		if rootOpts.debug {
			level = logging.LevelDebug
		}
		logging.InitForCLI(level, os.Stderr)
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.SetVersionTemplate(`{{printf "pyrite version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err == nil {
		return ExitCodeSuccess
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return getExitCode(err)
}

// getExitCode maps an error to a semantic exit code for scripting.
func getExitCode(err error) int {
	switch auth.KindOf(err) {
	case auth.KindNotAuthenticated, auth.KindRefreshFailed:
		return ExitCodeAuthRequired
	case auth.KindExchangeFailed, auth.KindMissingCode:
		return ExitCodeAuthFailed
	case auth.KindNetwork:
		return ExitCodeNetwork
	case auth.KindStorage:
		return ExitCodeStorage
	}

	var authRequired *cli.AuthRequiredError
	if errors.As(err, &authRequired) {
		return ExitCodeAuthRequired
	}

	var authExpired *cli.AuthExpiredError
	if errors.As(err, &authExpired) {
		return ExitCodeAuthRequired
	}

	var authFailed *cli.AuthFailedError
	if errors.As(err, &authFailed) {
		return ExitCodeAuthFailed
	}

	var connErr *cli.ConnectionError
	if errors.As(err, &connErr) {
		return ExitCodeNetwork
	}

	return ExitCodeError
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootOpts.configPath, "config", "", "Config file (default ~/.pyrite/config.yaml)")
	pf.StringVar(&rootOpts.environment, "env", "", "Backend environment: prod or local (env: PYRITE_ENV)")
	pf.StringVar(&rootOpts.apiURL, "api-url", "", "Override the API base URL (env: PYRITE_API_URL)")
	pf.BoolVar(&rootOpts.debug, "debug", false, "Enable debug logging")
	pf.BoolVarP(&rootOpts.quiet, "quiet", "q", false, "Suppress spinners and non-essential output")
	pf.BoolVar(&rootOpts.nonInteractive, "non-interactive", false, "Never prompt or open a browser login automatically")
	pf.StringVarP(&rootOpts.output, "output", "o", "table", "Output format (table, plain, json, yaml)")
	pf.BoolVar(&rootOpts.noHeaders, "no-headers", false, "Suppress the header row in plain output")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
