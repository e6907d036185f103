package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeycumines/super-document/internal/document"
)

// FileSystemBackend keeps one JSON file per session, guarded by an
// exclusive lock held for the backend's lifetime.
type FileSystemBackend struct {
	sessionID string
	lockFile  *os.File
}

// NewFileSystemBackend locks sessionID and returns its backend. A session
// locked by another process yields an error wrapping ErrWouldBlock.
func NewFileSystemBackend(sessionID string) (*FileSystemBackend, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID cannot be empty")
	}

	dir, err := sessionDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get session directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	lockPath, err := sessionLockFilePath(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lock file path: %w", err)
	}
	lockFile, err := acquireFileLock(lockPath)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}

	return &FileSystemBackend{sessionID: sessionID, lockFile: lockFile}, nil
}

// LoadSession reads the session file, returning (nil, nil) if absent.
func (b *FileSystemBackend) LoadSession(sessionID string) (*Session, error) {
	if sessionID != b.sessionID {
		return nil, fmt.Errorf("session ID mismatch: backend is locked for %q, requested %q", b.sessionID, sessionID)
	}

	path, err := sessionFilePath(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session file path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
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

// SaveSession writes the session file atomically.
func (b *FileSystemBackend) SaveSession(session *Session) error {
	if session.ID != b.sessionID {
		return fmt.Errorf("session ID mismatch: backend is locked for %q, session has %q", b.sessionID, session.ID)
	}
	if b.lockFile == nil {
		return errors.New("backend is closed")
	}

	path, err := sessionFilePath(session.ID)
	if err != nil {
		return fmt.Errorf("failed to get session file path: %w", err)
	}

	session.Version = CurrentSchemaVersion
	session.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Close releases the session lock.
func (b *FileSystemBackend) Close() error {
	if b.lockFile == nil {
		return nil
	}
	if err := releaseFileLock(b.lockFile); err != nil {
		return fmt.Errorf("failed to release session lock: %w", err)
	}
	b.lockFile = nil
	return nil
}

var _ Backend = (*FileSystemBackend)(nil)
