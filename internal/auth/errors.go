package auth

import (
	"errors"
	"fmt"
)

// ErrorKind classifies authentication failures so callers can react to each
// one differently (for example, auto-login on KindNotAuthenticated only).
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotAuthenticated
	KindRefreshFailed
	KindExchangeFailed
	KindMissingCode
	KindNetwork
	KindStorage
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindNotAuthenticated:
		return "NotAuthenticated"
	case KindRefreshFailed:
		return "RefreshFailed"
	case KindExchangeFailed:
		return "ExchangeFailed"
	case KindMissingCode:
		return "MissingCode"
	case KindNetwork:
		return "Network"
	case KindStorage:
		return "Storage"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) message() string {
	switch k {
	case KindNotAuthenticated:
		return "no session found, run `pyrite login`"
	case KindRefreshFailed:
		return "session expired, re-login required"
	case KindExchangeFailed:
		return "login failed: the auth provider rejected the authorization code"
	case KindMissingCode:
		return "login failed: the callback did not carry an authorization code"
	case KindNetwork:
		return "could not reach auth provider"
	case KindStorage:
		return "could not access the local session file"
	default:
		return "authentication error"
	}
}

// Error is the error type returned by every operation in this package.
type Error struct {
	Kind ErrorKind
	// Detail is optional extra context shown after the kind message.
	Detail string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.message()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrRefreshFailed)
// works regardless of detail and cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrNotAuthenticated = &Error{Kind: KindNotAuthenticated}
	ErrRefreshFailed    = &Error{Kind: KindRefreshFailed}
	ErrExchangeFailed   = &Error{Kind: KindExchangeFailed}
	ErrMissingCode      = &Error{Kind: KindMissingCode}
	ErrNetwork          = &Error{Kind: KindNetwork}
	ErrStorage          = &Error{Kind: KindStorage}
)

// ErrCorruptSession is wrapped by storage errors when the session file exists
// but does not hold a parseable session document.
var ErrCorruptSession = errors.New("session file is not valid JSON")

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func newErrorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return KindUnknown
}

// IsNotAuthenticated reports whether err means no local session exists.
func IsNotAuthenticated(err error) bool {
	return errors.Is(err, ErrNotAuthenticated)
}

// NeedsLogin reports whether the failure can be resolved by an interactive
// login: the session is missing or could not be refreshed.
func NeedsLogin(err error) bool {
	kind := KindOf(err)
	return kind == KindNotAuthenticated || kind == KindRefreshFailed
}
