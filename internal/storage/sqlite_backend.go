package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joeycumines/super-document/internal/document"

	_ "modernc.org/sqlite"
)

// SQLiteBackend keeps every session in one shared sqlite database. Unlike
// the file system backend it takes no session lock; concurrent writers are
// serialized by sqlite.
type SQLiteBackend struct {
	sessionID string
	db        *sql.DB
}

// NewSQLiteBackend opens (creating if needed) the database at DatabasePath.
func NewSQLiteBackend(sessionID string) (*SQLiteBackend, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID cannot be empty")
	}
	dir, err := dataDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := openSQLite(filepath.Join(dir, DatabaseFileName))
	if err != nil {
		return nil, err
	}
	return &SQLiteBackend{sessionID: sessionID, db: db}, nil
}

func openSQLite(path string) (*sql.DB, error) {
	// modernc.org/sqlite registers as "sqlite"
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to configure database: %w", err)
		}
	}
	if err := migrateSQLite(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			version TEXT NOT NULL,
			next_id INTEGER NOT NULL,
			selected_index INTEGER NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS documents (
			session_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			id INTEGER NOT NULL,
			label TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (session_id, position)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return nil
}

// LoadSession reads the session's row and documents, or returns (nil, nil).
func (b *SQLiteBackend) LoadSession(sessionID string) (*Session, error) {
	if sessionID != b.sessionID {
		return nil, fmt.Errorf("session ID mismatch: backend is for %q, requested %q", b.sessionID, sessionID)
	}

	s := Session{ID: sessionID}
	var created, updated int64
	err := b.db.QueryRow(
		`SELECT version, next_id, selected_index, created_at_unixms, updated_at_unixms FROM sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&s.Version, &s.NextID, &s.SelectedIndex, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	s.CreatedAt = time.UnixMilli(created)
	s.UpdatedAt = time.UnixMilli(updated)

	rows, err := b.db.Query(
		`SELECT id, label, content FROM documents WHERE session_id = ? ORDER BY position`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	defer rows.Close()

	s.Documents = []document.Document{}
	for rows.Next() {
		var d document.Document
		if err := rows.Scan(&d.ID, &d.Label, &d.Content); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		s.Documents = append(s.Documents, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	return &s, nil
}

// SaveSession replaces the session's row and documents in one transaction.
func (b *SQLiteBackend) SaveSession(session *Session) error {
	if session.ID != b.sessionID {
		return fmt.Errorf("session ID mismatch: backend is for %q, session has %q", b.sessionID, session.ID)
	}

	session.Version = CurrentSchemaVersion
	session.UpdatedAt = time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO sessions(session_id, version, next_id, selected_index, created_at_unixms, updated_at_unixms)
		VALUES(?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			version = excluded.version,
			next_id = excluded.next_id,
			selected_index = excluded.selected_index,
			updated_at_unixms = excluded.updated_at_unixms`,
		session.ID, session.Version, session.NextID, session.SelectedIndex,
		session.CreatedAt.UnixMilli(), session.UpdatedAt.UnixMilli(),
	); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM documents WHERE session_id = ?`, session.ID); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	for i, d := range session.Documents {
		if _, err := tx.Exec(
			`INSERT INTO documents(session_id, position, id, label, content) VALUES(?, ?, ?, ?, ?)`,
			session.ID, i, d.ID, d.Label, d.Content,
		); err != nil {
			return fmt.Errorf("failed to save document %d: %w", d.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

var _ Backend = (*SQLiteBackend)(nil)
