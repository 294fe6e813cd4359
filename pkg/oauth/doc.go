// Package oauth implements the client side of the Pyrite identity provider
// protocol (a Supabase GoTrue deployment).
//
// The package knows how to talk to the provider and nothing else: it builds
// authorization URLs, generates PKCE pairs, exchanges authorization codes and
// refreshes sessions. Session persistence and the login lifecycle live in
// internal/auth, which wraps this client.
//
// # Core Components
//
//   - PKCEChallenge: Proof Key for Code Exchange generation (RFC 7636)
//   - AuthorizeParams: query parameters of the provider authorize endpoint
//   - Client: code exchange (grant_type=pkce) and refresh (grant_type=refresh_token)
//   - TokenResponse: the session document returned by the token endpoint
//   - ProtocolError: a non-2xx answer from the provider
//
// # Usage
//
//	client := oauth.NewClient(authURL, anonKey)
//
//	pkce, err := oauth.GeneratePKCE()
//	authURL, err := client.BuildAuthorizationURL(oauth.AuthorizeParams{
//	    Provider:    "github",
//	    RedirectTo:  "http://127.0.0.1:3456/auth/callback",
//	    SkipBrowser: true,
//	    PKCE:        pkce,
//	})
//
//	token, err := client.ExchangeCode(ctx, code, pkce.CodeVerifier)
//	token, err = client.RefreshToken(ctx, token.RefreshToken)
package oauth
