// Package scrollbar renders a one-column proportional scrollbar.
package scrollbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Default glyphs.
const (
	ThumbChar = "█"
	TrackChar = "░"
)

// Model is a scrollbar for a window of ViewportHeight rows onto
// ContentHeight rows, scrolled to YOffset.
type Model struct {
	ContentHeight  int
	ViewportHeight int
	YOffset        int

	ThumbStyle lipgloss.Style
	TrackStyle lipgloss.Style
	ThumbChar  string
	TrackChar  string
}

// Option configures New.
type Option func(*Model)

// New returns a scrollbar with the default glyphs and unstyled cells.
func New(opts ...Option) Model {
	m := Model{
		ThumbChar:  ThumbChar,
		TrackChar:  TrackChar,
		ThumbStyle: lipgloss.NewStyle(),
		TrackStyle: lipgloss.NewStyle(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithStyles sets the thumb and track styles.
func WithStyles(thumb, track lipgloss.Style) Option {
	return func(m *Model) {
		m.ThumbStyle = thumb
		m.TrackStyle = track
	}
}

// WithChars sets the thumb and track glyphs.
func WithChars(thumb, track string) Option {
	return func(m *Model) {
		m.ThumbChar = thumb
		m.TrackChar = track
	}
}

// Thumb returns the first row and the height of the thumb. Content that
// fits gets a full-height thumb. The thumb is at least one row, and sits
// on the last row exactly when offset is at its maximum.
func Thumb(content, viewport, offset int) (top, height int) {
	if viewport <= 0 {
		return 0, 0
	}
	if content <= viewport {
		return 0, viewport
	}
	height = min(max(viewport*viewport/content, 1), viewport)

	maxOffset := content - viewport
	offset = min(max(offset, 0), maxOffset)
	return offset * (viewport - height) / maxOffset, height
}

// View renders exactly ViewportHeight rows.
func (m Model) View() string {
	if m.ViewportHeight <= 0 {
		return ""
	}
	top, height := Thumb(m.ContentHeight, m.ViewportHeight, m.YOffset)

	// a plain space would lose its background
	thumb, track := nbsp(m.ThumbChar), nbsp(m.TrackChar)

	rows := make([]string, m.ViewportHeight)
	for i := range rows {
		if i >= top && i < top+height {
			rows[i] = m.ThumbStyle.Render(thumb)
		} else {
			rows[i] = m.TrackStyle.Render(track)
		}
	}
	return strings.Join(rows, "\n")
}

func nbsp(s string) string {
	if s == " " {
		return "\u00a0"
	}
	return s
}
