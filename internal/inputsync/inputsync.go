// Package inputsync keeps the cursor of a multi-line text field visible
// inside the scroll container that holds the field.
//
// Ownership of the container's offset alternates between the cursor and the
// user: an edit locks the view to the cursor, an explicit scroll gesture
// unlocks it until the next edit or focus re-entry.
package inputsync

import "github.com/joeycumines/super-document/internal/scroll"

// Synchronizer arbitrates between cursor-follow and manual scrolling.
// The zero value is locked (follows the cursor).
type Synchronizer struct {
	unlocked bool
}

// Unlocked reports whether manual scrolling currently owns the offset.
func (s Synchronizer) Unlocked() bool { return s.unlocked }

// Enter resets the synchronizer on focus entry.
func (s *Synchronizer) Enter() { s.unlocked = false }

// Edited records an insertion or deletion in the buffer, re-anchoring the
// view to the cursor.
func (s *Synchronizer) Edited() { s.unlocked = false }

// Scrolled records an explicit scroll gesture (wheel, page key, drag, jump).
func (s *Synchronizer) Scrolled() { s.unlocked = true }

// CursorRow is the cursor's absolute row in the container's content:
// the fixed-height content above the field plus the cursor's visual line
// within it.
func CursorRow(preContentHeight, cursorVisualLine int) int {
	return preContentHeight + max(cursorVisualLine, 0)
}

// Sync applies cursor-follow to vp when locked, making the one-line range
// at row visible. It reports whether the offset changed.
func (s Synchronizer) Sync(vp *scroll.Viewport, row int) bool {
	if s.unlocked {
		return false
	}
	before := vp.Offset()
	vp.EnsureRangeVisible(row, 1)
	return vp.Offset() != before
}
