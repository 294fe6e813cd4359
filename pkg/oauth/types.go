package oauth

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMalformedResponse is returned when the provider answered 2xx with a body
// that is not a usable session document.
var ErrMalformedResponse = errors.New("malformed token response")

// UserIdentity is the user record embedded in a provider session.
type UserIdentity struct {
	ID           string                 `json:"id"`
	Aud          string                 `json:"aud,omitempty"`
	Role         string                 `json:"role,omitempty"`
	Email        string                 `json:"email"`
	AppMetadata  map[string]interface{} `json:"app_metadata,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	CreatedAt    string                 `json:"created_at,omitempty"`
	UpdatedAt    string                 `json:"updated_at,omitempty"`
}

// TokenResponse is the session document returned by the token endpoint for
// both the pkce and refresh_token grants.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	RefreshToken string       `json:"refresh_token"`
	User         UserIdentity `json:"user"`
}

// SetExpiresAtFromExpiresIn fills ExpiresAt (UNIX seconds) from ExpiresIn when
// the provider did not send an absolute expiry.
func (t *TokenResponse) SetExpiresAtFromExpiresIn(now time.Time) {
	if t.ExpiresAt != 0 || t.ExpiresIn <= 0 {
		return
	}
	base := now.Unix()
	if t.ExpiresIn > math.MaxInt64-base {
		t.ExpiresAt = math.MaxInt64
		return
	}
	t.ExpiresAt = base + t.ExpiresIn
}

// ProtocolError is a non-2xx answer from the provider.
type ProtocolError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Code is the machine-readable error code, if the provider sent one.
	Code string
	// Description is the human-readable message, if the provider sent one.
	Description string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	switch {
	case e.Code != "" && e.Description != "":
		return fmt.Sprintf("provider returned %d %s: %s", e.StatusCode, e.Code, e.Description)
	case e.Description != "":
		return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Description)
	case e.Code != "":
		return fmt.Sprintf("provider returned %d %s", e.StatusCode, e.Code)
	default:
		return fmt.Sprintf("provider returned status %d", e.StatusCode)
	}
}

// IsProviderRejection reports whether err means the provider answered but
// refused the request (as opposed to being unreachable).
func IsProviderRejection(err error) bool {
	var protoErr *ProtocolError
	return errors.As(err, &protoErr) || errors.Is(err, ErrMalformedResponse)
}
