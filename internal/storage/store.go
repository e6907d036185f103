package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joeycumines/super-document/internal/document"
)

// Store is the document collection of one session, persisted through a
// Backend. Each call reads the latest saved state, so two Stores sharing a
// database observe each other's writes.
type Store struct {
	mu        sync.Mutex
	backend   Backend
	sessionID string
}

// NewStore wraps an open backend.
func NewStore(backend Backend, sessionID string) *Store {
	return &Store{backend: backend, sessionID: sessionID}
}

// Open creates the named backend for sessionID and wraps it in a Store.
func Open(backendName, sessionID string) (*Store, error) {
	b, err := GetBackend(backendName, sessionID)
	if err != nil {
		return nil, err
	}
	return NewStore(b, sessionID), nil
}

// SessionID returns the id the store persists under.
func (s *Store) SessionID() string { return s.sessionID }

func (s *Store) load() (*Session, error) {
	if s.backend == nil {
		return nil, errors.New("store is closed")
	}
	session, err := s.backend.LoadSession(s.sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = NewSession(s.sessionID)
	}
	if session.Documents == nil {
		session.Documents = []document.Document{}
	}
	return session, nil
}

func (s *Store) update(fn func(*Session)) error {
	session, err := s.load()
	if err != nil {
		return err
	}
	fn(session)
	if err := s.backend.SaveSession(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// All returns a copy of the collection in display order.
func (s *Store) All() ([]document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.load()
	if err != nil {
		return nil, err
	}
	return document.Clone(session.Documents), nil
}

// SetAll replaces the collection.
func (s *Store) SetAll(docs []document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(session *Session) {
		session.Documents = document.Clone(docs)
		session.NextID = max(session.NextID, document.MaxID(docs))
	})
}

// NextID allocates a fresh id. The counter is persisted, so ids are not
// reused after documents are removed.
func (s *Store) NextID() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var id int
	err := s.update(func(session *Session) {
		id = max(session.NextID, document.MaxID(session.Documents)) + 1
		session.NextID = id
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SelectedIndex returns the persisted list selection, -1 for none.
func (s *Store) SelectedIndex() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.load()
	if err != nil {
		return -1, err
	}
	return session.SelectedIndex, nil
}

// SetSelectedIndex persists the list selection.
func (s *Store) SetSelectedIndex(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.load()
	if err != nil {
		return err
	}
	if session.SelectedIndex == i {
		return nil
	}
	session.SelectedIndex = i
	if err := s.backend.SaveSession(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Close releases the backend. The store is unusable afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return nil
	}
	err := s.backend.Close()
	s.backend = nil
	return err
}
