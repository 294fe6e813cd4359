package auth

import (
	"fmt"

	"github.com/pyritecloud/pyrite/pkg/oauth"
)

// AuthorizeURLBuilder builds provider authorization URLs.
type AuthorizeURLBuilder interface {
	BuildAuthorizationURL(params oauth.AuthorizeParams) (string, error)
}

// LoginAttempt is one browser login in progress. The verifier lives only in
// process memory and must be handed to the callback server that receives the
// code for this attempt.
type LoginAttempt struct {
	URL      string
	Verifier string
}

// Initiator starts browser-delegated logins.
type Initiator struct {
	builder     AuthorizeURLBuilder
	provider    string
	redirectURL string
}

// NewInitiator creates an Initiator that asks identityProvider (e.g. "github")
// to send the browser back to redirectURL.
func NewInitiator(builder AuthorizeURLBuilder, identityProvider, redirectURL string) *Initiator {
	return &Initiator{
		builder:     builder,
		provider:    identityProvider,
		redirectURL: redirectURL,
	}
}

// BeginLogin generates a fresh PKCE pair and builds the authorization URL.
// It performs no network I/O.
func (i *Initiator) BeginLogin() (*LoginAttempt, error) {
	pkce, err := oauth.GeneratePKCE()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PKCE challenge: %w", err)
	}

	authURL, err := i.builder.BuildAuthorizationURL(oauth.AuthorizeParams{
		Provider:    i.provider,
		RedirectTo:  i.redirectURL,
		SkipBrowser: true,
		PKCE:        pkce,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build authorization URL: %w", err)
	}

	return &LoginAttempt{URL: authURL, Verifier: pkce.CodeVerifier}, nil
}
