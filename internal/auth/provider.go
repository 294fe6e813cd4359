package auth

import (
	"context"
	"errors"

	"github.com/pyritecloud/pyrite/pkg/oauth"
)

// Provider is the remote identity provider.
type Provider interface {
	// ExchangeCode redeems an authorization code and its PKCE verifier.
	ExchangeCode(ctx context.Context, code, verifier string) (*Session, error)
	// Refresh mints a new session from a refresh token.
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
}

// GoTrueProvider talks to the hosted auth service through an oauth.Client and
// maps its failures onto ErrorKind.
type GoTrueProvider struct {
	client *oauth.Client
}

// NewGoTrueProvider creates a Provider backed by client.
func NewGoTrueProvider(client *oauth.Client) *GoTrueProvider {
	return &GoTrueProvider{client: client}
}

// ExchangeCode implements Provider.
func (p *GoTrueProvider) ExchangeCode(ctx context.Context, code, verifier string) (*Session, error) {
	token, err := p.client.ExchangeCode(ctx, code, verifier)
	if err != nil {
		return nil, classifyProviderError(err, KindExchangeFailed)
	}
	return sessionFromToken(token), nil
}

// Refresh implements Provider.
func (p *GoTrueProvider) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	token, err := p.client.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, classifyProviderError(err, KindRefreshFailed)
	}
	return sessionFromToken(token), nil
}

// classifyProviderError separates answers from the provider (rejected) from
// failures to reach it at all.
func classifyProviderError(err error, rejected ErrorKind) error {
	if oauth.IsProviderRejection(err) {
		return newError(rejected, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return newError(KindNetwork, err)
}
