package storage

import (
	"time"

	"github.com/joeycumines/super-document/internal/document"
)

// CurrentSchemaVersion is stamped on every saved session.
const CurrentSchemaVersion = "1.0.0"

// Session is the persisted state of one document collection. It is the
// top-level object serialized by the file system backend.
type Session struct {
	Version   string    `json:"version"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// Documents is the ordered collection.
	Documents []document.Document `json:"documents"`
	// NextID is the last id handed out. Ids are never reused, even after the
	// collection is cleared.
	NextID int `json:"next_id"`
	// SelectedIndex is the list selection, -1 for none.
	SelectedIndex int `json:"selected_index"`
}

// NewSession returns an empty session.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		Version:       CurrentSchemaVersion,
		ID:            id,
		CreatedAt:     now,
		UpdatedAt:     now,
		Documents:     []document.Document{},
		SelectedIndex: -1,
	}
}
