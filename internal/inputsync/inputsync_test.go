package inputsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/super-document/internal/scroll"
)

func TestSync_FollowsCursorWhenLocked(t *testing.T) {
	t.Parallel()
	var s Synchronizer
	vp := scroll.New(10, 100)

	require.False(t, s.Unlocked())
	changed := s.Sync(&vp, CursorRow(0, 40))
	assert.True(t, changed)
	assert.Equal(t, 40-10+1, vp.Offset())

	// typing re-anchors and keeps the lock
	s.Edited()
	assert.False(t, s.Unlocked())
	assert.False(t, s.Sync(&vp, CursorRow(0, 40)))
	assert.Equal(t, 31, vp.Offset())
}

func TestSync_ManualScrollWins(t *testing.T) {
	t.Parallel()
	var s Synchronizer
	vp := scroll.New(10, 100)
	s.Sync(&vp, 40)

	vp.ScrollBy(-20)
	s.Scrolled()
	require.True(t, s.Unlocked())
	assert.False(t, s.Sync(&vp, 41), "cursor movement must not override a manual scroll")
	assert.Equal(t, 11, vp.Offset())

	s.Edited()
	assert.True(t, s.Sync(&vp, 41))
	assert.Equal(t, 32, vp.Offset())
}

func TestSync_FocusEntryResets(t *testing.T) {
	t.Parallel()
	var s Synchronizer
	s.Scrolled()
	s.Enter()
	assert.False(t, s.Unlocked())
}

func TestCursorRow(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 7, CursorRow(7, 0))
	assert.Equal(t, 12, CursorRow(7, 5))
	assert.Equal(t, 7, CursorRow(7, -2))
}
