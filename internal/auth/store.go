package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pyritecloud/pyrite/pkg/logging"
)

const (
	sessionDirName  = ".pyrite"
	sessionFileName = "session.json"
)

// SessionStore persists the single session record.
type SessionStore interface {
	// Read returns the stored session, or nil if none exists.
	Read() (*Session, error)
	// Write atomically replaces the stored session.
	Write(session *Session) error
	// Delete removes the stored session. A missing session is not an error.
	Delete() error
}

// DefaultSessionPath returns ~/.pyrite/session.json for the invoking user.
func DefaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, sessionDirName, sessionFileName), nil
}

// FileSessionStore stores the session as a JSON document on local disk.
type FileSessionStore struct {
	path string
}

// NewFileSessionStore creates a store backed by the file at path.
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// NewDefaultSessionStore creates a store at DefaultSessionPath.
func NewDefaultSessionStore() (*FileSessionStore, error) {
	path, err := DefaultSessionPath()
	if err != nil {
		return nil, newError(KindStorage, err)
	}
	return NewFileSessionStore(path), nil
}

// Path returns the session file location.
func (s *FileSessionStore) Path() string {
	return s.path
}

// Read loads the session. A missing file yields (nil, nil). A file that is
// not valid JSON yields a storage error wrapping ErrCorruptSession. A valid
// document with missing fields is treated as absent.
func (s *FileSessionStore) Read() (*Session, error) {
	// #nosec G304 -- path is fixed per user, not user input
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, newError(KindStorage, fmt.Errorf("failed to read %s: %w", s.path, err))
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, newError(KindStorage, fmt.Errorf("%w: %s: %v", ErrCorruptSession, s.path, err))
	}

	if !session.Complete() {
		logging.Debug("SessionStore", "Ignoring incomplete session record at %s", s.path)
		return nil, nil
	}

	return &session, nil
}

// Write serializes the session to a temp file in the same directory and
// renames it over the previous record, so readers see the old or the new
// session and never a partial one.
func (s *FileSessionStore) Write(session *Session) error {
	if err := s.write(session); err != nil {
		logging.Audit("session_store_failed", false, "Session storage failed",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return newError(KindStorage, err)
	}

	logging.Audit("session_stored", true, "Session stored",
		slog.String("path", s.path),
		slog.Int64("expires_at", session.ExpiresAt),
		slog.Bool("has_refresh_token", session.RefreshToken != ""))
	return nil
}

func (s *FileSessionStore) write(session *Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+sessionFileName+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to restrict session file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close session file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	committed = true
	return nil
}

// Delete removes the session file.
func (s *FileSessionStore) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Audit("session_delete_failed", false, "Session deletion failed",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return newError(KindStorage, fmt.Errorf("failed to delete %s: %w", s.path, err))
	}

	logging.Audit("session_deleted", true, "Session deleted", slog.String("path", s.path))
	return nil
}
