package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/pyritecloud/pyrite/internal/auth"
	"github.com/pyritecloud/pyrite/internal/cli"
)

// loginOptions are the flags of the login command.
type loginOptions struct {
	noBrowser bool
	timeout   time.Duration
}

func newLoginCmd() *cobra.Command {
	var opts loginOptions

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to Pyrite in your browser",
		Long: `Log in to Pyrite using your browser.

A stored session that is still valid is reused. An expired one is refreshed
first; only when that fails is the browser opened. The session is stored in
~/.pyrite/session.json.

Examples:
  pyrite login                   # Open the browser and wait for the callback
  pyrite login --no-browser      # Print the URL instead of opening it
  pyrite login --timeout 2m      # Give up after two minutes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "Print the login URL instead of opening a browser")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "How long to wait for the browser callback (default from config, 10m)")
	return cmd
}

func runLogin(cmd *cobra.Command, opts loginOptions) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if opts.noBrowser {
		a.noBrowser = true
	}
	if opts.timeout > 0 {
		a.cfg.LoginTimeout = opts.timeout
	}

	session, err := a.login(cmd.Context())
	if err != nil {
		return a.explain(err)
	}

	fmt.Fprintf(a.out, "%s Logged in as %s\n", text.FgGreen.Sprint("✓"), displayUser(session))
	return nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Long: `Remove the stored session from ~/.pyrite/session.json.

Logging out when no session exists is not an error.`,
		Args: cobra.NoArgs,
		RunE: runLogout,
	}
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	state, _, stateErr := a.manager.State()
	if err := a.manager.Logout(); err != nil {
		return a.explain(err)
	}

	if state == auth.SessionStateNone && stateErr == nil {
		fmt.Fprintln(a.out, "No session found")
		return nil
	}
	fmt.Fprintf(a.out, "%s Logged out\n", text.FgGreen.Sprint("✓"))
	return nil
}

// authStatus is the machine-readable form of `pyrite auth status`.
type authStatus struct {
	APIURL      string `json:"apiUrl"`
	SessionPath string `json:"sessionPath"`
	State       string `json:"state"`
	UserID      string `json:"userId,omitempty"`
	Email       string `json:"email,omitempty"`
	ExpiresAt   string `json:"expiresAt,omitempty"`
	Error       string `json:"error,omitempty"`
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session state",
		Long: `Show whether a session is stored and when it expires.

This command reads the local session only; it never contacts the
identity provider or refreshes the session.`,
		Args: cobra.NoArgs,
		RunE: runAuthStatus,
	}
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	status := authStatus{APIURL: a.cfg.APIURL, SessionPath: a.store.Path()}
	state, session, err := a.manager.State()
	switch {
	case err != nil:
		status.State = "unreadable"
		status.Error = err.Error()
	default:
		status.State = state.String()
	}
	if session != nil {
		status.UserID = session.User.ID
		status.Email = session.User.Email
		status.ExpiresAt = session.ExpiresAtTime().UTC().Format(time.RFC3339)
	}

	if a.printer.Format == cli.OutputFormatJSON || a.printer.Format == cli.OutputFormatYAML {
		return a.printer.Print(status, nil)
	}

	w := a.out
	fmt.Fprintln(w, "Pyrite")
	fmt.Fprintf(w, "  API:       %s\n", status.APIURL)
	fmt.Fprintf(w, "  Session:   %s\n", status.SessionPath)

	if err != nil {
		fmt.Fprintf(w, "  Status:    %s\n", text.FgRed.Sprint("Unreadable"))
		fmt.Fprintf(w, "             %v\n", err)
		fmt.Fprintln(w, "             Run: pyrite login")
		return nil
	}

	switch state {
	case auth.SessionStateNone:
		fmt.Fprintf(w, "  Status:    %s\n", text.FgYellow.Sprint("Not logged in"))
		fmt.Fprintln(w, "             Run: pyrite login")
		return nil
	case auth.SessionStateExpired:
		fmt.Fprintf(w, "  Status:    %s\n", text.FgYellow.Sprint("Expired"))
	default:
		fmt.Fprintf(w, "  Status:    %s\n", text.FgGreen.Sprint("Authenticated"))
	}

	fmt.Fprintf(w, "  User:      %s\n", displayUser(session))
	fmt.Fprintf(w, "  Expires:   %s\n", formatExpiryWithDirection(session.ExpiresAtTime()))
	if session.RefreshToken != "" {
		fmt.Fprintf(w, "  Refresh:   %s\n", text.FgGreen.Sprint("Available"))
	} else {
		fmt.Fprintf(w, "  Refresh:   %s\n", text.FgYellow.Sprint("Not available"))
	}
	return nil
}

// identity is the decoded access token shown by whoami.
type identity struct {
	UserID    string `json:"userId"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	Issuer    string `json:"issuer,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	TokenType string `json:"tokenType"`
	ExpiresAt string `json:"expiresAt"`
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity of the current session",
		Long: `Show who you are logged in as, read from the access token.

An expired session is refreshed first.`,
		Args: cobra.NoArgs,
		RunE: runWhoami,
	}
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	session, err := call(cmd.Context(), a, "Checking session", "Session valid", "Session check failed", a.manager.CurrentSession)
	if err != nil {
		return err
	}

	id, err := identityFromSession(session)
	if err != nil {
		return err
	}

	if a.printer.Format == cli.OutputFormatJSON || a.printer.Format == cli.OutputFormatYAML {
		return a.printer.Print(id, nil)
	}

	w := a.out
	fmt.Fprintf(w, "User ID:     %s\n", id.UserID)
	if id.Email != "" {
		fmt.Fprintf(w, "Email:       %s\n", id.Email)
	}
	if id.Role != "" {
		fmt.Fprintf(w, "Role:        %s\n", id.Role)
	}
	if id.Issuer != "" {
		fmt.Fprintf(w, "Issuer:      %s\n", id.Issuer)
	}
	if id.SessionID != "" {
		fmt.Fprintf(w, "Session ID:  %s\n", id.SessionID)
	}
	fmt.Fprintf(w, "Token:       %s, expires %s\n", id.TokenType, formatExpiryWithDirection(session.ExpiresAtTime()))
	return nil
}

// identityFromSession reads the access token claims without verifying the
// signature. Values missing from the token fall back to the stored user.
func identityFromSession(session *auth.Session) (*identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(session.AccessToken, claims); err != nil {
		return nil, fmt.Errorf("failed to decode access token: %w", err)
	}

	id := &identity{
		UserID:    session.User.ID,
		Email:     session.User.Email,
		Role:      session.User.Role,
		TokenType: session.Token().Type(),
		ExpiresAt: session.ExpiresAtTime().UTC().Format(time.RFC3339),
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		id.UserID = sub
	}
	if iss, err := claims.GetIssuer(); err == nil {
		id.Issuer = iss
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.UTC().Format(time.RFC3339)
	}
	if v, ok := claims["email"].(string); ok && v != "" {
		id.Email = v
	}
	if v, ok := claims["role"].(string); ok && v != "" {
		id.Role = v
	}
	if v, ok := claims["session_id"].(string); ok {
		id.SessionID = v
	}

	if id.UserID == "" {
		return nil, errors.New("access token carries no subject")
	}
	return id, nil
}

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the login session",
		Long: `Manage the login session used to call the Pyrite API.

Examples:
  pyrite auth login      # Same as pyrite login
  pyrite auth status     # Show the stored session
  pyrite auth whoami     # Show the identity in the access token
  pyrite auth logout     # Same as pyrite logout`,
	}

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newWhoamiCmd())
	return cmd
}

// displayUser returns the email of the session user, or its id.
func displayUser(session *auth.Session) string {
	if session.User.Email != "" {
		return session.User.Email
	}
	return session.User.ID
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "expired"
	}
	if d < time.Minute {
		return "< 1 minute"
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	days := int(d.Hours() / 24)
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// formatExpiryWithDirection formats a time as "in X" or "expired X ago".
func formatExpiryWithDirection(expiresAt time.Time) string {
	remaining := time.Until(expiresAt)
	if remaining > 0 {
		return "in " + formatDuration(remaining)
	}
	return text.FgYellow.Sprintf("expired %s ago", formatDuration(-remaining))
}

func init() {
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newAuthCmd())
}
