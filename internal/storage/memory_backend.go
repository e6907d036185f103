package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/joeycumines/super-document/internal/document"
)

// InMemoryBackend keeps sessions in a process-wide map. Sessions survive
// Close, so a later backend for the same id sees them.
type InMemoryBackend struct {
	sessionID string
}

var memorySessions = struct {
	sync.RWMutex
	sessions map[string][]byte
}{
	sessions: make(map[string][]byte),
}

// NewInMemoryBackend returns an in-memory backend for sessionID.
func NewInMemoryBackend(sessionID string) (*InMemoryBackend, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID cannot be empty")
	}
	return &InMemoryBackend{sessionID: sessionID}, nil
}

// LoadSession returns a copy of the stored session, or (nil, nil).
func (b *InMemoryBackend) LoadSession(sessionID string) (*Session, error) {
	if sessionID != b.sessionID {
		return nil, fmt.Errorf("session ID mismatch: backend is for %q, requested %q", b.sessionID, sessionID)
	}

	memorySessions.RLock()
	data, ok := memorySessions.sessions[sessionID]
	memorySessions.RUnlock()
	if !ok {
		return nil, nil
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if session.Documents == nil {
		session.Documents = []document.Document{}
	}
	return &session, nil
}

// SaveSession stores a copy of session.
func (b *InMemoryBackend) SaveSession(session *Session) error {
	if session.ID != b.sessionID {
		return fmt.Errorf("session ID mismatch: backend is for %q, session has %q", b.sessionID, session.ID)
	}

	session.Version = CurrentSchemaVersion
	session.UpdatedAt = time.Now()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	memorySessions.Lock()
	memorySessions.sessions[session.ID] = data
	memorySessions.Unlock()
	return nil
}

// Close is a no-op.
func (b *InMemoryBackend) Close() error { return nil }

// ClearAllInMemorySessions drops every in-memory session. Tests only.
func ClearAllInMemorySessions() {
	memorySessions.Lock()
	memorySessions.sessions = make(map[string][]byte)
	memorySessions.Unlock()
}

var _ Backend = (*InMemoryBackend)(nil)
