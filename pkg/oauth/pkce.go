package oauth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/oauth2"
)

// CodeChallengeMethodS256 is the only challenge method the CLI sends.
const CodeChallengeMethodS256 = "S256"

// PKCEChallenge represents a PKCE (Proof Key for Code Exchange) challenge.
type PKCEChallenge struct {
	// CodeVerifier is the high-entropy secret kept in process memory.
	// It is never transmitted to the browser.
	CodeVerifier string

	// CodeChallenge is the base64url-encoded SHA256 hash of the verifier.
	// This is sent in the authorization request.
	CodeChallenge string

	// CodeChallengeMethod is always "S256".
	CodeChallengeMethod string
}

// GeneratePKCE generates a new PKCE code verifier and challenge.
// The verifier is 32 random bytes base64url-encoded (43 characters) and the
// challenge is its S256 hash, also 43 characters.
func GeneratePKCE() (*PKCEChallenge, error) {
	verifier, challenge := GeneratePKCERaw()

	if len(verifier) < 43 {
		return nil, fmt.Errorf("generated PKCE verifier is too short: %d characters", len(verifier))
	}

	return &PKCEChallenge{
		CodeVerifier:        verifier,
		CodeChallenge:       challenge,
		CodeChallengeMethod: CodeChallengeMethodS256,
	}, nil
}

// GeneratePKCERaw generates a PKCE code verifier and its S256 challenge as raw strings.
func GeneratePKCERaw() (verifier, challenge string) {
	verifier = oauth2.GenerateVerifier()
	challenge = oauth2.S256ChallengeFromVerifier(verifier)
	return verifier, challenge
}

// VerifyPKCE reports whether verifier is the preimage of an S256 challenge.
func VerifyPKCE(verifier, challenge string) bool {
	if verifier == "" || challenge == "" {
		return false
	}
	expected := oauth2.S256ChallengeFromVerifier(verifier)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(challenge)) == 1
}
