// internal/state/session.go
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/user/mindwell/internal/types"
)

// SessionStore is a JSON-file-backed session store.
// It stores session index data in sessions/sessions.json and creates
// per-session directories at sessions/<sessionID>/.
//
// A session key can accumulate several index entries over time; at most
// one of them is active, the rest are archived.
type SessionStore struct {
	root string
	mu   sync.RWMutex
}

// NewSessionStore creates a new file-backed SessionStore rooted at the given directory.
func NewSessionStore(root string) *SessionStore {
	return &SessionStore{root: root}
}

func (s *SessionStore) indexPath() string {
	return filepath.Join(s.root, "sessions", "sessions.json")
}

func (s *SessionStore) sessionsDir() string {
	return filepath.Join(s.root, "sessions")
}

func (s *SessionStore) sessionDir(id types.SessionID) string {
	return filepath.Join(s.root, "sessions", string(id))
}

// loadIndex reads sessions.json. Returns an empty slice if the file doesn't exist.
func (s *SessionStore) loadIndex() ([]*types.SessionIndex, error) {
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session index: %w", err)
	}

	var sessions []*types.SessionIndex
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("unmarshal session index: %w", err)
	}
	return sessions, nil
}

// saveIndex marshals with indentation and writes atomically.
func (s *SessionStore) saveIndex(sessions []*types.SessionIndex) error {
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session index: %w", err)
	}

	dir := s.sessionsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sessions dir: %w", err)
	}

	// Atomic write: write to temp file then rename
	tmp := s.indexPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp index: %w", err)
	}
	if err := os.Rename(tmp, s.indexPath()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp index: %w", err)
	}
	return nil
}

// findActive returns the active session for the given key, or nil.
// Caller must hold the lock.
func findActive(sessions []*types.SessionIndex, key types.SessionKey) *types.SessionIndex {
	for _, sess := range sessions {
		if sess.SessionKey == key && sess.Status == "active" {
			return sess
		}
	}
	return nil
}

// ResolveOrCreate returns the active SessionID for the given key, creating a
// new session if there is none.
func (s *SessionStore) ResolveOrCreate(_ context.Context, key types.SessionKey) (types.SessionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadIndex()
	if err != nil {
		return "", err
	}

	if existing := findActive(sessions, key); existing != nil {
		return existing.SessionID, nil
	}

	now := time.Now()
	id := types.NewSessionID()
	session := &types.SessionIndex{
		SessionID:  id,
		SessionKey: key,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	sessions = append(sessions, session)

	if err := s.saveIndex(sessions); err != nil {
		return "", err
	}

	// Create session directory on demand
	if err := os.MkdirAll(s.sessionDir(id), 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}

	return id, nil
}

// Get returns the session with the given ID.
func (s *SessionStore) Get(_ context.Context, id types.SessionID) (*types.SessionIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions, err := s.loadIndex()
	if err != nil {
		return nil, err
	}

	for _, sess := range sessions {
		if sess.SessionID == id {
			return sess, nil
		}
	}
	return nil, fmt.Errorf("session not found: %s", id)
}

// List returns all sessions, archived ones included.
func (s *SessionStore) List(_ context.Context) ([]*types.SessionIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		return []*types.SessionIndex{}, nil
	}
	return sessions, nil
}

// Update persists changes to the given session, setting UpdatedAt to now.
func (s *SessionStore) Update(_ context.Context, session *types.SessionIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadIndex()
	if err != nil {
		return err
	}

	for i, sess := range sessions {
		if sess.SessionID == session.SessionID {
			session.UpdatedAt = time.Now()
			sessions[i] = session
			return s.saveIndex(sessions)
		}
	}
	return fmt.Errorf("session not found: %s", session.SessionID)
}

// Archive marks the active session for the key as archived, so the next
// ResolveOrCreate for that key starts a fresh session. Archiving a key with
// no active session is a no-op.
func (s *SessionStore) Archive(_ context.Context, key types.SessionKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.loadIndex()
	if err != nil {
		return err
	}

	active := findActive(sessions, key)
	if active == nil {
		return nil
	}

	active.Status = "archived"
	active.UpdatedAt = time.Now()
	return s.saveIndex(sessions)
}
