package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const credentialPrefix = "base64-"

// Credentials is a single header attached to authenticated calls.
type Credentials struct {
	Header string
	Value  string
}

// Apply sets the credential header on h.
func (c Credentials) Apply(h http.Header) {
	h.Set(c.Header, c.Value)
}

// CredentialInjector encodes sessions into the auth cookie header the API
// gateway expects: sb-<project-ref>-auth-token carrying the session JSON.
type CredentialInjector struct {
	header string
}

// NewCredentialInjector creates an injector for the given project reference.
func NewCredentialInjector(projectRef string) *CredentialInjector {
	return &CredentialInjector{header: CredentialHeader(projectRef)}
}

// CredentialHeader returns the header name used for projectRef.
func CredentialHeader(projectRef string) string {
	return "sb-" + projectRef + "-auth-token"
}

// Attach encodes session. The result depends only on the session content.
func (i *CredentialInjector) Attach(session *Session) (Credentials, error) {
	if !session.Complete() {
		return Credentials{}, errors.New("cannot attach credentials for an incomplete session")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to encode session: %w", err)
	}

	return Credentials{
		Header: i.header,
		Value:  credentialPrefix + base64.RawStdEncoding.EncodeToString(data),
	}, nil
}

// DecodeCredentialValue reverses Attach's encoding.
func DecodeCredentialValue(value string) (*Session, error) {
	encoded, ok := strings.CutPrefix(value, credentialPrefix)
	if !ok {
		return nil, fmt.Errorf("credential value is missing the %q prefix", credentialPrefix)
	}
	data, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode credential value: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse credential value: %w", err)
	}
	return &session, nil
}
