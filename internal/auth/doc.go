// Package auth implements the CLI login session lifecycle.
//
// A login starts with an Initiator, which generates a PKCE pair and builds the
// provider authorization URL. The user completes the login in a browser and
// the provider redirects to a CallbackServer bound on 127.0.0.1:3456. The
// server handles exactly one callback: it exchanges the code together with the
// verifier, writes the session through a SessionStore and shuts itself down.
//
// Manager is the entry point for the rest of the CLI:
//
//	session, err := manager.CurrentSession(ctx)
//	if auth.IsNotAuthenticated(err) {
//	    session, err = manager.Login(ctx)
//	}
//	creds, err := injector.Attach(session)
//	creds.Apply(req.Header)
//
// CurrentSession never touches the network while the stored access token is
// valid. Once it has expired (expires_at <= now) the refresh token is
// exchanged and the new session replaces the old one on disk. A rejected
// refresh leaves the stale session in place.
//
// Every failure is an *Error carrying an ErrorKind, with sentinels such as
// ErrNotAuthenticated and ErrRefreshFailed for errors.Is checks.
package auth
