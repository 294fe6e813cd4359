package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	authorizePath = "/auth/v1/authorize"
	tokenPath     = "/auth/v1/token"

	grantTypePKCE    = "pkce"
	grantTypeRefresh = "refresh_token"
)

// Client handles the provider protocol operations: authorization URL
// construction, code exchange and refresh.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// ClientOption configures the OAuth client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock overrides the clock used to derive absolute expiry timestamps.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new OAuth client for the provider at baseURL.
// apiKey is the public (anon) key sent in the apikey header.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		logger:     slog.Default(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AuthorizeParams are the query parameters of the authorize endpoint.
type AuthorizeParams struct {
	// Provider is the upstream identity provider, e.g. "github".
	Provider string
	// RedirectTo is where the provider sends the browser with ?code=.
	RedirectTo string
	// SkipBrowser asks the provider to return the URL instead of redirecting.
	SkipBrowser bool
	// PKCE is the challenge pair; only the challenge is placed in the URL.
	PKCE *PKCEChallenge
}

// BuildAuthorizationURL constructs the provider authorization URL.
func (c *Client) BuildAuthorizationURL(params AuthorizeParams) (string, error) {
	if params.PKCE == nil || params.PKCE.CodeChallenge == "" {
		return "", fmt.Errorf("a PKCE challenge is required")
	}

	authURL, err := url.Parse(c.baseURL + authorizePath)
	if err != nil {
		return "", fmt.Errorf("invalid authorization endpoint: %w", err)
	}

	query := authURL.Query()
	query.Set("provider", params.Provider)
	query.Set("response_type", "code")
	query.Set("code_challenge", params.PKCE.CodeChallenge)
	query.Set("code_challenge_method", params.PKCE.CodeChallengeMethod)
	query.Set("redirect_to", params.RedirectTo)
	if params.SkipBrowser {
		query.Set("skip_browser_redirect", "true")
	}

	authURL.RawQuery = query.Encode()
	return authURL.String(), nil
}

// ExchangeCode exchanges an authorization code and its PKCE verifier for a session.
func (c *Client) ExchangeCode(ctx context.Context, code, codeVerifier string) (*TokenResponse, error) {
	body := map[string]string{
		"auth_code":     code,
		"code_verifier": codeVerifier,
	}
	return c.doTokenRequest(ctx, grantTypePKCE, body)
}

// RefreshToken obtains a new session using a refresh token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	body := map[string]string{
		"refresh_token": refreshToken,
	}
	return c.doTokenRequest(ctx, grantTypeRefresh, body)
}

// doTokenRequest performs a token endpoint request.
func (c *Client) doTokenRequest(ctx context.Context, grantType string, payload map[string]string) (*TokenResponse, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token request: %w", err)
	}

	endpoint := c.baseURL + tokenPath + "?grant_type=" + url.QueryEscape(grantType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		protoErr := parseProtocolError(resp.StatusCode, body)
		c.logger.Debug("Token request failed",
			"grant_type", grantType,
			"status", resp.StatusCode,
			"error_code", protoErr.Code)
		return nil, protoErr
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if token.AccessToken == "" || token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: missing access or refresh token", ErrMalformedResponse)
	}

	token.SetExpiresAtFromExpiresIn(c.now())
	if token.ExpiresAt == 0 {
		return nil, fmt.Errorf("%w: missing expiry", ErrMalformedResponse)
	}

	return &token, nil
}

// parseProtocolError extracts the provider's error code and message. The
// provider is not consistent about field names across endpoints and versions.
func parseProtocolError(status int, body []byte) *ProtocolError {
	protoErr := &ProtocolError{StatusCode: status}
	if !gjson.ValidBytes(body) {
		protoErr.Description = strings.TrimSpace(string(body))
		return protoErr
	}

	result := gjson.ParseBytes(body)
	protoErr.Code = firstString(result, "error_code", "error", "code")
	protoErr.Description = firstString(result, "error_description", "msg", "message")
	return protoErr
}

func firstString(result gjson.Result, paths ...string) string {
	for _, path := range paths {
		if v := result.Get(path); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
