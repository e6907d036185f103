// Package document defines the document value type and the pure operations
// applied to an ordered document collection.
//
// The collection itself is owned by a storage backend; everything here works
// on copies and never retains the slices passed in.
package document

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

const (
	// DefaultPreviewChars is the display-width budget of a document preview.
	DefaultPreviewChars = 50

	// Ellipsis is appended to a truncated preview.
	Ellipsis = "..."

	// ActionCaption is the fixed action line rendered in every document box.
	ActionCaption = "[X] Remove"
)

// Document is a single text document in the collection.
type Document struct {
	ID      int    `json:"id"`
	Label   string `json:"label,omitempty"`
	Content string `json:"content"`
}

// Header returns the one-line header shown at the top of the document's box,
// "#id [label]", or "#id" for an unlabelled document.
func (d Document) Header() string {
	if d.Label == "" {
		return fmt.Sprintf("#%d", d.ID)
	}
	return fmt.Sprintf("#%d [%s]", d.ID, d.Label)
}

// Preview collapses line breaks and tabs in content to single spaces and cuts
// the result to maxChars display cells, appending Ellipsis when anything was
// dropped. A non-positive maxChars uses DefaultPreviewChars.
func Preview(content string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultPreviewChars
	}
	flat := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(content)
	if uniseg.StringWidth(flat) <= maxChars {
		return flat
	}
	return Truncate(flat, maxChars) + Ellipsis
}

// Truncate returns the longest prefix of s, cut on grapheme cluster
// boundaries, whose display width does not exceed maxWidth.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= maxWidth {
		return s
	}
	var (
		sb    strings.Builder
		width int
		state = -1
	)
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if width+w > maxWidth {
			break
		}
		sb.WriteString(cluster)
		width += w
	}
	return sb.String()
}

// Clone returns an independent copy of docs. A nil input yields an empty,
// non-nil slice.
func Clone(docs []Document) []Document {
	out := make([]Document, len(docs))
	copy(out, docs)
	return out
}

// IndexOf returns the position of the document with the given id, or -1.
func IndexOf(docs []Document, id int) int {
	for i, d := range docs {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// MaxID returns the largest id present in docs, or 0 when empty.
func MaxID(docs []Document) int {
	var max int
	for _, d := range docs {
		if d.ID > max {
			max = d.ID
		}
	}
	return max
}

// Replace returns a copy of docs with the document sharing d's id replaced by
// d. The boolean is false (and the copy unchanged) if no such document exists.
func Replace(docs []Document, d Document) ([]Document, bool) {
	out := Clone(docs)
	i := IndexOf(out, d.ID)
	if i < 0 {
		return out, false
	}
	out[i] = d
	return out, true
}

// Remove returns a copy of docs without the document with the given id, and
// the index it occupied (-1 if absent).
func Remove(docs []Document, id int) ([]Document, int) {
	i := IndexOf(docs, id)
	if i < 0 {
		return Clone(docs), -1
	}
	out := make([]Document, 0, len(docs)-1)
	out = append(out, docs[:i]...)
	out = append(out, docs[i+1:]...)
	return out, i
}

// ClampIndex constrains a selection index to [-1, n).
func ClampIndex(i, n int) int {
	switch {
	case n <= 0, i < -1:
		return -1
	case i >= n:
		return n - 1
	default:
		return i
	}
}

// SelectionAfterRemove returns the selection index to use once the document
// at index removed has been dropped from a collection that now holds n
// documents. Removing an earlier document keeps the same document selected;
// removing the selected document selects its successor, or the new last
// document when it was at the end.
func SelectionAfterRemove(selected, removed, n int) int {
	if removed >= 0 && removed < selected {
		selected--
	}
	return ClampIndex(selected, n)
}
