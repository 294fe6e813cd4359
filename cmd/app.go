package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/pyritecloud/pyrite/internal/api"
	"github.com/pyritecloud/pyrite/internal/auth"
	"github.com/pyritecloud/pyrite/internal/cli"
	"github.com/pyritecloud/pyrite/internal/config"
	"github.com/pyritecloud/pyrite/pkg/logging"
	"github.com/pyritecloud/pyrite/pkg/oauth"
)

// app holds everything a command needs for one invocation.
type app struct {
	cfg     *config.Config
	store   *auth.FileSessionStore
	manager *auth.Manager
	client  *api.Client
	printer *cli.Printer

	// out receives command output, errOut receives prompts and hints.
	out    io.Writer
	errOut io.Writer

	quiet          bool
	nonInteractive bool
	noBrowser      bool
}

// newApp loads the configuration from the root flags and wires the session
// manager and API client.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigPath:  rootOpts.configPath,
		Environment: rootOpts.environment,
		APIURL:      rootOpts.apiURL,
	})
	if err != nil {
		return nil, err
	}

	if !rootOpts.debug {
		if level, err := logging.ParseLevel(cfg.LogLevel); err == nil {
			logging.InitForCLI(level, os.Stderr)
		}
	}

	format, err := cli.ParseOutputFormat(rootOpts.output)
	if err != nil {
		return nil, err
	}

	a, err := buildApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	a.printer = cli.NewPrinter(format, rootOpts.noHeaders)
	a.printer.Out = a.out
	a.quiet = rootOpts.quiet
	a.nonInteractive = rootOpts.nonInteractive
	return a, nil
}

func buildApp(cfg *config.Config, out, errOut io.Writer) (*app, error) {
	store, err := auth.NewDefaultSessionStore()
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	oauthClient := oauth.NewClient(cfg.AuthURL, cfg.AnonKey,
		oauth.WithHTTPClient(httpClient),
		oauth.WithLogger(logging.Logger()),
	)
	provider := auth.NewGoTrueProvider(oauthClient)

	callback := auth.NewCallbackServer(auth.CallbackServerConfig{
		Host:               cfg.CallbackHost,
		Port:               cfg.CallbackPort,
		Provider:           provider,
		Store:              store,
		SuccessRedirectURL: cfg.SuccessRedirectURL,
	})

	a := &app{
		cfg:       cfg,
		store:     store,
		out:       out,
		errOut:    errOut,
		noBrowser: cfg.NoBrowser,
	}

	a.manager = auth.NewManager(auth.ManagerConfig{
		Store:     store,
		Provider:  provider,
		Initiator: auth.NewInitiator(oauthClient, cfg.Provider, callback.RedirectURL()),
		Callback:  callback,
		OnAuthURL: a.showAuthURL,
	})

	a.client = api.NewClient(cfg.APIURL, a.manager, auth.NewCredentialInjector(cfg.ProjectRef),
		api.WithHTTPClient(httpClient),
		api.WithUserAgent("pyrite-cli/"+versionOrDev()),
	)
	return a, nil
}

// showAuthURL prints the authorization URL and opens it unless disabled.
func (a *app) showAuthURL(authURL string) {
	if a.noBrowser {
		fmt.Fprintf(a.errOut, "Open this URL in your browser to log in:\n\n  %s\n\n", authURL)
		fmt.Fprintln(a.errOut, "Waiting for authentication...")
		return
	}

	fmt.Fprintln(a.errOut, "Opening browser for authentication...")
	if err := auth.OpenBrowser(authURL); err != nil {
		logging.Debug("CLI", "Failed to open browser: %v", err)
		fmt.Fprintf(a.errOut, "%s\n\n  %s\n\n",
			text.FgYellow.Sprint("Could not open a browser. Open this URL manually:"), authURL)
	}
	fmt.Fprintln(a.errOut, "Waiting for authentication...")
}

// login runs the browser login bounded by the configured login timeout.
func (a *app) login(ctx context.Context) (*auth.Session, error) {
	if err := a.cfg.RequireAnonKey(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.LoginTimeout)
	defer cancel()

	return a.manager.Login(ctx)
}

// interactive reports whether prompts and automatic logins are allowed.
func (a *app) interactive() bool {
	return !a.nonInteractive && cli.IsInteractive()
}

// explain turns an error into the user-facing form with hints.
func (a *app) explain(err error) error {
	return cli.Explain(err, a.cfg.APIURL, a.cfg.AuthURL)
}

// call runs fn behind a spinner. When the session is missing and the terminal
// is interactive, the user is logged in once and fn is retried.
func call[T any](ctx context.Context, a *app, msg, success, failed string, fn func(context.Context) (T, error)) (T, error) {
	run := func() (T, error) {
		return cli.WithProgress(a.quiet, msg, success, failed, func() (T, error) {
			return fn(ctx)
		})
	}

	result, err := run()
	if err == nil || !auth.IsNotAuthenticated(err) || !a.interactive() || a.cfg.AnonKey == "" {
		if err != nil {
			var zero T
			return zero, a.explain(err)
		}
		return result, nil
	}

	fmt.Fprintln(a.errOut, text.FgYellow.Sprint("You are not logged in."))
	if _, err := a.login(ctx); err != nil {
		var zero T
		return zero, a.explain(err)
	}

	result, err = run()
	if err != nil {
		var zero T
		return zero, a.explain(err)
	}
	return result, nil
}

func versionOrDev() string {
	if v := GetVersion(); v != "" {
		return v
	}
	return "dev"
}
