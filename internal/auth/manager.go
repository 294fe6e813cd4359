package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pyritecloud/pyrite/pkg/logging"
)

// SessionState describes the stored session without contacting the provider.
type SessionState int

const (
	// SessionStateNone means no session is stored.
	SessionStateNone SessionState = iota

	// SessionStateValid means the stored access token has not expired.
	SessionStateValid

	// SessionStateExpired means the access token expired and needs a refresh.
	SessionStateExpired
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case SessionStateValid:
		return "valid"
	case SessionStateExpired:
		return "expired"
	default:
		return "none"
	}
}

const refreshKey = "refresh"

// ManagerConfig wires a Manager.
type ManagerConfig struct {
	Store     SessionStore
	Provider  Provider
	Initiator *Initiator
	Callback  CallbackReceiver

	// OnAuthURL is called with the authorization URL once the callback
	// listener is bound. The CLI prints it and optionally opens a browser.
	OnAuthURL func(authURL string)

	// Clock overrides time.Now.
	Clock func() time.Time
}

// Manager owns the current session for one CLI invocation: it returns a valid
// session, refreshing on demand, and orchestrates login and logout.
type Manager struct {
	store     SessionStore
	provider  Provider
	initiator *Initiator
	callback  CallbackReceiver
	onAuthURL func(string)
	now       func() time.Time

	refreshGroup singleflight.Group
}

// NewManager creates a Manager.
func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		store:     cfg.Store,
		provider:  cfg.Provider,
		initiator: cfg.Initiator,
		callback:  cfg.Callback,
		onAuthURL: cfg.OnAuthURL,
		now:       cfg.Clock,
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.onAuthURL == nil {
		m.onAuthURL = func(string) {}
	}
	return m
}

// CurrentSession returns a session whose access token is valid now.
// A stored, unexpired session is returned without any network call. An
// expired one is refreshed and the result persisted; on refresh failure the
// stale session stays on disk and a RefreshFailed error is returned.
func (m *Manager) CurrentSession(ctx context.Context) (*Session, error) {
	session, err := m.store.Read()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, newError(KindNotAuthenticated, nil)
	}

	if !session.Expired(m.now()) {
		return session, nil
	}

	logging.Debug("SessionManager", "Session expired at %d, refreshing", session.ExpiresAt)
	return m.refresh(ctx, session)
}

// refresh exchanges the refresh token. Concurrent callers share one request.
func (m *Manager) refresh(ctx context.Context, stale *Session) (*Session, error) {
	v, err, _ := m.refreshGroup.Do(refreshKey, func() (interface{}, error) {
		fresh, err := m.provider.Refresh(ctx, stale.RefreshToken)
		if err != nil {
			if KindOf(err) == KindUnknown {
				err = newError(KindRefreshFailed, err)
			}
			logging.Audit("session_refresh_failed", false, "Session refresh failed",
				slog.String("kind", KindOf(err).String()))
			return nil, err
		}

		if fresh.User.ID == "" && fresh.User.Email == "" {
			fresh.User = stale.User
		}
		if !fresh.Complete() {
			return nil, newErrorf(KindRefreshFailed, "provider returned an incomplete session")
		}

		if err := m.store.Write(fresh); err != nil {
			return nil, err
		}

		logging.Audit("session_refreshed", true, "Session refreshed",
			slog.Int64("expires_at", fresh.ExpiresAt))
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Login returns the stored session if it is still valid. Otherwise it tries a
// refresh when one is possible, and falls back to the browser flow when the
// refresh is rejected or the provider is unreachable: bind the
// callback listener, surface the authorization URL, wait for the callback and
// return the session it persisted.
func (m *Manager) Login(ctx context.Context) (*Session, error) {
	session, err := m.store.Read()
	if err != nil {
		if !errors.Is(err, ErrCorruptSession) {
			return nil, err
		}
		logging.Warn("SessionManager", "Stored session is unreadable and will be replaced: %v", err)
		session = nil
	}

	if session != nil {
		if !session.Expired(m.now()) {
			logging.Debug("SessionManager", "Valid session already present, skipping login")
			return session, nil
		}

		fresh, err := m.refresh(ctx, session)
		if err == nil {
			return fresh, nil
		}
		switch KindOf(err) {
		case KindRefreshFailed:
			logging.Info("SessionManager", "Refresh rejected, starting browser login")
		case KindNetwork:
			logging.Warn("SessionManager", "Refresh failed, starting browser login: %v", err)
		default:
			return nil, err
		}
	}

	return m.interactiveLogin(ctx)
}

func (m *Manager) interactiveLogin(ctx context.Context) (*Session, error) {
	if m.initiator == nil || m.callback == nil {
		return nil, errors.New("interactive login is not configured")
	}

	if err := m.callback.Listen(); err != nil {
		return nil, err
	}

	attempt, err := m.initiator.BeginLogin()
	if err != nil {
		return nil, err
	}
	m.onAuthURL(attempt.URL)

	if err := m.callback.Run(ctx, attempt.Verifier); err != nil {
		return nil, err
	}

	session, err := m.store.Read()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &Error{Kind: KindStorage, Err: fmt.Errorf("session missing after successful login")}
	}
	return session, nil
}

// Logout deletes the stored session. It succeeds when none exists.
func (m *Manager) Logout() error {
	return m.store.Delete()
}

// State reports the stored session state without contacting the provider.
func (m *Manager) State() (SessionState, *Session, error) {
	session, err := m.store.Read()
	if err != nil {
		return SessionStateNone, nil, err
	}
	if session == nil {
		return SessionStateNone, nil, nil
	}
	if session.Expired(m.now()) {
		return SessionStateExpired, session, nil
	}
	return SessionStateValid, session, nil
}
