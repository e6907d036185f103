package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Measurer reports the height of text word-wrapped the way document boxes
// render it.
type Measurer struct{}

// Height implements layout.Measurer.
func (Measurer) Height(text string, width int) int {
	return lipgloss.Height(wrap(text, width))
}

func wrap(text string, width int) string {
	return lipgloss.NewStyle().Width(max(width, 1)).Render(text)
}

// fitLine cuts or pads s to exactly width cells.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// fitBlock returns exactly height lines of exactly width cells.
func fitBlock(lines []string, width, height int) []string {
	out := make([]string, height)
	for i := range out {
		if i < len(lines) {
			out[i] = fitLine(lines[i], width)
		} else {
			out[i] = strings.Repeat(" ", max(width, 0))
		}
	}
	return out
}

// tail keeps the last cells of s that fit width.
func tail(s string, width int) string {
	if w := ansi.StringWidth(s); w > width {
		return ansi.TruncateLeft(s, w-width, "")
	}
	return s
}
