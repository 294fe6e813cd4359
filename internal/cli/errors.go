package cli

import (
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/pyritecloud/pyrite/internal/api"
	"github.com/pyritecloud/pyrite/internal/auth"
)

// ConnectionErrorType categorizes the type of connection error.
type ConnectionErrorType int

const (
	// ConnectionErrorUnknown indicates an unclassified connection error.
	ConnectionErrorUnknown ConnectionErrorType = iota
	// ConnectionErrorTLS indicates a TLS/certificate verification error.
	ConnectionErrorTLS
	// ConnectionErrorNetwork indicates a network connectivity error (e.g., refused, unreachable).
	ConnectionErrorNetwork
	// ConnectionErrorTimeout indicates a connection timeout.
	ConnectionErrorTimeout
	// ConnectionErrorDNS indicates a DNS resolution failure.
	ConnectionErrorDNS
)

// String returns a human-readable name for the connection error type.
func (t ConnectionErrorType) String() string {
	switch t {
	case ConnectionErrorTLS:
		return "TLS certificate error"
	case ConnectionErrorNetwork:
		return "Network error"
	case ConnectionErrorTimeout:
		return "Connection timeout"
	case ConnectionErrorDNS:
		return "DNS resolution error"
	default:
		return "Connection error"
	}
}

// ConnectionError indicates a connection failure to an endpoint.
// It wraps the underlying error and provides categorization for better user feedback.
type ConnectionError struct {
	// Endpoint is the URL that could not be reached.
	Endpoint string
	// Type categorizes the connection error.
	Type ConnectionErrorType
	// Reason is the underlying error.
	Reason error
}

// Error returns the category, the endpoint and the cause.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: could not reach %s: %v", e.Type, e.Endpoint, e.Reason)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Reason
}

// ClassifyConnectionError analyzes an error and returns a ConnectionError with the appropriate type.
// If the error is nil, returns nil.
func ClassifyConnectionError(err error, endpoint string) *ConnectionError {
	if err == nil {
		return nil
	}

	if isTLSError(err) {
		return &ConnectionError{Endpoint: endpoint, Type: ConnectionErrorTLS, Reason: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &ConnectionError{Endpoint: endpoint, Type: ConnectionErrorDNS, Reason: err}
	}

	if isTimeoutError(err) {
		return &ConnectionError{Endpoint: endpoint, Type: ConnectionErrorTimeout, Reason: err}
	}

	if isNetworkError(err.Error()) {
		return &ConnectionError{Endpoint: endpoint, Type: ConnectionErrorNetwork, Reason: err}
	}

	return &ConnectionError{Endpoint: endpoint, Type: ConnectionErrorUnknown, Reason: err}
}

// isTLSError checks if the error is related to TLS/certificate issues.
func isTLSError(err error) bool {
	if err == nil {
		return false
	}

	var certErr *x509.CertificateInvalidError
	var hostErr *x509.HostnameError
	var unknownAuthErr *x509.UnknownAuthorityError
	var systemRootsErr *x509.SystemRootsError

	if errors.As(err, &certErr) || errors.As(err, &hostErr) ||
		errors.As(err, &unknownAuthErr) || errors.As(err, &systemRootsErr) {
		return true
	}

	// "certificate" is matched broadly as it covers most TLS error messages
	errStr := err.Error()
	tlsKeywords := []string{
		"x509:",
		"certificate",
		"tls:",
		"TLS handshake",
	}

	for _, keyword := range tlsKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}

	return false
}

// isTimeoutError checks if the error is a timeout.
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	// net.Error is an interface, so unwrap manually
	for e := err; e != nil; {
		if ne, ok := e.(net.Error); ok && ne.Timeout() {
			return true
		}
		if u, ok := e.(interface{ Unwrap() error }); ok {
			e = u.Unwrap()
		} else {
			break
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

// isNetworkError checks if the error string indicates a network connectivity issue.
func isNetworkError(errStr string) bool {
	networkKeywords := []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no route to host",
		"dial tcp",
		"connect:",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// AuthRequiredError indicates no session exists and a login is needed.
type AuthRequiredError struct {
	// Endpoint is the API the command tried to call.
	Endpoint string
	// Reason is the underlying error.
	Reason error
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf(`Authentication required for %s

To authenticate, run:
  pyrite login

To check current authentication status:
  pyrite auth status`, e.Endpoint)
}

// Unwrap returns the underlying error.
func (e *AuthRequiredError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthRequiredError) Is(target error) bool {
	_, ok := target.(*AuthRequiredError)
	return ok
}

// AuthExpiredError indicates the session could not be refreshed, or the API
// rejected its credentials.
type AuthExpiredError struct {
	// Endpoint is the API the command tried to call.
	Endpoint string
	// Reason is the underlying error.
	Reason error
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthExpiredError) Error() string {
	return fmt.Sprintf(`Session expired, re-login required for %s

To re-authenticate, run:
  pyrite login`, e.Endpoint)
}

// Unwrap returns the underlying error.
func (e *AuthExpiredError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthExpiredError) Is(target error) bool {
	_, ok := target.(*AuthExpiredError)
	return ok
}

// AuthFailedError indicates a login attempt failed.
type AuthFailedError struct {
	// Endpoint is the auth provider URL.
	Endpoint string
	// Reason is the underlying error.
	Reason error
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthFailedError) Error() string {
	return fmt.Sprintf(`Authentication failed for %s: %v

To retry authentication, run:
  pyrite login`, e.Endpoint, e.Reason)
}

// Unwrap returns the underlying error.
func (e *AuthFailedError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthFailedError) Is(target error) bool {
	_, ok := target.(*AuthFailedError)
	return ok
}

// Explain wraps err with guidance for the user. apiURL and authURL name the
// endpoints shown in the messages. The returned error still unwraps to err,
// so auth error kinds remain visible to errors.Is.
func Explain(err error, apiURL, authURL string) error {
	if err == nil {
		return nil
	}

	switch auth.KindOf(err) {
	case auth.KindNotAuthenticated:
		return &AuthRequiredError{Endpoint: apiURL, Reason: err}
	case auth.KindRefreshFailed:
		return &AuthExpiredError{Endpoint: apiURL, Reason: err}
	case auth.KindExchangeFailed, auth.KindMissingCode:
		return &AuthFailedError{Endpoint: authURL, Reason: err}
	case auth.KindNetwork:
		return ClassifyConnectionError(err, authURL)
	}

	if api.IsUnauthenticated(err) {
		return &AuthExpiredError{Endpoint: apiURL, Reason: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ClassifyConnectionError(err, apiURL)
	}

	return err
}
