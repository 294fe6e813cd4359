package auth

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var testNow = time.Unix(1700000000, 0)

func fixedClock() time.Time { return testNow }

func validSession(expiresAt int64) *Session {
	return &Session{
		AccessToken:  fmt.Sprintf("access-%d", expiresAt),
		TokenType:    "bearer",
		ExpiresIn:    3600,
		ExpiresAt:    expiresAt,
		RefreshToken: "refresh-token",
		User:         User{ID: "user-1", Email: "dev@example.com"},
	}
}

// memoryStore is an in-memory SessionStore that counts calls.
type memoryStore struct {
	mu      sync.Mutex
	session *Session
	readErr error

	reads   int
	writes  int
	deletes int
}

func (s *memoryStore) Read() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.readErr != nil {
		return nil, s.readErr
	}
	if s.session == nil {
		return nil, nil
	}
	copied := *s.session
	return &copied, nil
}

func (s *memoryStore) Write(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.readErr = nil
	copied := *session
	s.session = &copied
	return nil
}

func (s *memoryStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	s.session = nil
	return nil
}

func (s *memoryStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// fakeProvider records calls and returns canned results.
type fakeProvider struct {
	exchangeFn func(code, verifier string) (*Session, error)
	refreshFn  func(refreshToken string) (*Session, error)

	exchanges atomic.Int32
	refreshes atomic.Int32
}

func (p *fakeProvider) ExchangeCode(_ context.Context, code, verifier string) (*Session, error) {
	p.exchanges.Add(1)
	if p.exchangeFn == nil {
		return validSession(testNow.Unix() + 3600), nil
	}
	return p.exchangeFn(code, verifier)
}

func (p *fakeProvider) Refresh(_ context.Context, refreshToken string) (*Session, error) {
	p.refreshes.Add(1)
	if p.refreshFn == nil {
		return validSession(testNow.Unix() + 3600), nil
	}
	return p.refreshFn(refreshToken)
}

func (p *fakeProvider) networkCalls() int {
	return int(p.exchanges.Load() + p.refreshes.Load())
}

// fakeCallback simulates the browser redirect by exchanging and persisting
// directly when Run is called.
type fakeCallback struct {
	provider *fakeProvider
	store    SessionStore
	code     string

	listens int
	runs    int
	err     error
}

func (c *fakeCallback) Listen() error { c.listens++; return nil }

func (c *fakeCallback) RedirectURL() string {
	return "http://127.0.0.1:3456" + CallbackPath
}

func (c *fakeCallback) Run(ctx context.Context, verifier string) error {
	c.runs++
	if c.err != nil {
		return c.err
	}
	session, err := c.provider.ExchangeCode(ctx, c.code, verifier)
	if err != nil {
		return err
	}
	return c.store.Write(session)
}
