package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pyritecloud/pyrite/internal/auth"
	"github.com/pyritecloud/pyrite/pkg/logging"
)

const (
	// DefaultTimeout is the default timeout for a single call.
	DefaultTimeout = 30 * time.Second

	connectProtocolVersion = "1"
	maxErrorBodyBytes      = 64 << 10
)

// SessionSource yields a valid session for each call.
type SessionSource interface {
	CurrentSession(ctx context.Context) (*auth.Session, error)
}

// CredentialEncoder turns a session into the credential header.
type CredentialEncoder interface {
	Attach(session *auth.Session) (auth.Credentials, error)
}

// Client issues authenticated unary calls to the Pyrite API using the
// Connect protocol's JSON encoding.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   SessionSource
	injector   CredentialEncoder
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for calls.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient creates an API client. Every call resolves a session from
// sessions and attaches it through injector; no request is sent without one.
func NewClient(baseURL string, sessions SessionSource, injector CredentialEncoder, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		sessions:   sessions,
		injector:   injector,
		userAgent:  "pyrite-cli",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call performs one unary RPC: POST {base}/{service}/{method} with a JSON body.
func (c *Client) call(ctx context.Context, service, method string, req, resp interface{}) error {
	procedure := service + "/" + method

	session, err := c.sessions.CurrentSession(ctx)
	if err != nil {
		return err
	}
	creds, err := c.injector.Attach(session)
	if err != nil {
		return fmt.Errorf("failed to attach credentials: %w", err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", procedure, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+procedure, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", procedure, err)
	}

	requestID := uuid.New().String()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Connect-Protocol-Version", connectProtocolVersion)
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-Id", requestID)
	creds.Apply(httpReq.Header)

	logging.Debug("API", "Calling %s (request %s)", procedure, requestID)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", c.baseURL, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBodyBytes))
		apiErr := parseError(procedure, httpResp.StatusCode, body)
		logging.Debug("API", "%s failed with %d %s (request %s)", procedure, httpResp.StatusCode, apiErr.Code, requestID)
		return apiErr
	}

	if resp == nil {
		return nil
	}
	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", procedure, err)
	}
	return nil
}
