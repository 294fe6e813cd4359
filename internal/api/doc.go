// Package api provides typed wrappers for the Pyrite API.
//
// Calls use the Connect protocol's unary JSON encoding: each RPC is a POST to
// {api_url}/{package.Service}/{Method} with a JSON body and the
// Connect-Protocol-Version header. Failures come back as an Error carrying the
// server's code and message.
//
// Every call first asks its SessionSource (normally *auth.Manager) for a
// valid session and attaches the resulting credential header. If no session
// can be resolved the call is not sent and the auth error is returned as-is,
// so callers can decide whether to start an interactive login.
//
//	client := api.NewClient(cfg.APIURL, manager, auth.NewCredentialInjector(cfg.ProjectRef))
//	teams, err := client.FindAllTeams(ctx)
package api
