package auth

import (
	"time"

	"golang.org/x/oauth2"

	"github.com/pyritecloud/pyrite/pkg/oauth"
)

// User is the identity record attached to a session. It is informational only.
type User = oauth.UserIdentity

// Session is the persisted login: tokens, absolute expiry and user identity.
// It is always replaced as a whole, never patched field by field.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Complete reports whether every field a usable session needs is populated.
func (s *Session) Complete() bool {
	return s != nil &&
		s.AccessToken != "" &&
		s.RefreshToken != "" &&
		s.ExpiresAt > 0 &&
		(s.User.ID != "" || s.User.Email != "")
}

// Expired reports whether the access token must no longer be used.
// A session whose expiry equals now is expired.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt <= now.Unix()
}

// ExpiresAtTime returns the expiry as a time.Time.
func (s *Session) ExpiresAtTime() time.Time {
	return time.Unix(s.ExpiresAt, 0)
}

// Token returns the session as an oauth2.Token.
func (s *Session) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		RefreshToken: s.RefreshToken,
		Expiry:       s.ExpiresAtTime(),
	}
}

func sessionFromToken(t *oauth.TokenResponse) *Session {
	return &Session{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
		ExpiresAt:    t.ExpiresAt,
		RefreshToken: t.RefreshToken,
		User:         t.User,
	}
}
