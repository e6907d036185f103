package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/joeycumines/super-document/internal/editor"
)

// textBuffer adapts a bubbles textarea to editor.TextBuffer.
//
// The textarea is sized to its content so the form's viewport owns
// scrolling. Past maxLines (when positive) the textarea scrolls itself;
// offset mirrors that internal scroll so clicks map to the right line.
type textBuffer struct {
	ta       textarea.Model
	maxLines int
	height   int
	offset   int
}

var _ editor.TextBuffer = (*textBuffer)(nil)

func newTextBuffer(maxLines int) *textBuffer {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.Placeholder = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.MaxWidth = 0
	ta.EndOfBufferCharacter = ' '
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	// blink messages never reach the textarea
	_ = ta.Cursor.SetMode(cursor.CursorStatic)
	b := &textBuffer{ta: ta, maxLines: maxLines}
	b.fit()
	return b
}

func (b *textBuffer) Value() string { return b.ta.Value() }

func (b *textBuffer) SetValue(s string) {
	b.ta.SetValue(s)
	b.offset = 0
	b.sync()
	b.fit()
}

func (b *textBuffer) LineCount() int { return b.ta.LineCount() }

func (b *textBuffer) VisualLineCount() int {
	n := 0
	for _, line := range b.lines() {
		n += len(wrapRunes(line, b.ta.Width()))
	}
	return max(n, 1)
}

func (b *textBuffer) CursorRow() int { return b.ta.Line() }

func (b *textBuffer) CursorVisualLine() int {
	lines := b.lines()
	row := min(b.ta.Line(), len(lines)-1)
	n := 0
	for _, line := range lines[:row] {
		n += len(wrapRunes(line, b.ta.Width()))
	}
	return n + b.ta.LineInfo().RowOffset
}

func (b *textBuffer) SetCursorPosition(row, col int) {
	row = min(max(row, 0), b.ta.LineCount()-1)
	// CursorUp and CursorDown step through wrapped lines
	for limit := b.VisualLineCount(); b.ta.Line() > row && limit > 0; limit-- {
		b.ta.CursorUp()
	}
	for limit := b.VisualLineCount(); b.ta.Line() < row && limit > 0; limit-- {
		b.ta.CursorDown()
	}
	b.ta.SetCursor(max(col, 0))
	b.reposition()
}

func (b *textBuffer) VisualToLogical(line, col int) (int, int) {
	line += b.offset
	lines := b.lines()
	for row, runes := range lines {
		segs := wrapRunes(runes, b.ta.Width())
		if line >= len(segs) {
			line -= len(segs)
			continue
		}
		start := 0
		for _, s := range segs[:line] {
			start += len(s)
		}
		return row, min(start+runesInCells(segs[line], col), len(runes))
	}
	last := len(lines) - 1
	return last, len(lines[last])
}

func (b *textBuffer) HandleKey(ev editor.KeyEvent) {
	msg, ok := ev.Raw.(tea.KeyMsg)
	if !ok {
		msg = keyMsg(ev)
	}
	b.ta, _ = b.ta.Update(msg)
	b.reposition()
	b.fit()
}

func (b *textBuffer) SetWidth(w int) {
	if w == b.ta.Width() {
		return
	}
	b.ta.SetWidth(w)
	b.height = 0
	b.fit()
}

func (b *textBuffer) Focus() {
	_ = b.ta.Focus()
	b.sync()
}

func (b *textBuffer) Blur() { b.ta.Blur() }

// View renders the visible text rows.
func (b *textBuffer) View() string { return b.ta.View() }

func (b *textBuffer) lines() [][]rune {
	parts := strings.Split(b.ta.Value(), "\n")
	out := make([][]rune, len(parts))
	for i, p := range parts {
		out[i] = []rune(p)
	}
	return out
}

func (b *textBuffer) cursor() (row, col int) {
	li := b.ta.LineInfo()
	return b.ta.Line(), li.StartColumn + li.ColumnOffset
}

func (b *textBuffer) visibleHeight() int {
	h := max(b.VisualLineCount(), editor.MinTextLines)
	if b.maxLines > 0 {
		h = min(h, max(b.maxLines, editor.MinTextLines))
	}
	return h
}

// fit resizes the textarea to its content. A textarea never scrolls back
// up when it grows, so a resize rewinds its scroll and restores the cursor.
func (b *textBuffer) fit() {
	h := b.visibleHeight()
	if h == b.height {
		return
	}
	b.height = h
	b.ta.SetHeight(h)

	row, col := b.cursor()
	b.ta.SetValue(b.ta.Value())
	b.offset = 0
	b.SetCursorPosition(row, col)
	b.sync()
}

// sync lets a focused textarea scroll its cursor into view.
func (b *textBuffer) sync() {
	if !b.ta.Focused() {
		return
	}
	b.ta, _ = b.ta.Update(nil)
	b.reposition()
}

// reposition mirrors the textarea's own cursor-following scroll.
func (b *textBuffer) reposition() {
	if b.height <= 0 {
		return
	}
	switch cur := b.CursorVisualLine(); {
	case cur < b.offset:
		b.offset = cur
	case cur > b.offset+b.height-1:
		b.offset = cur - b.height + 1
	}
}

// wrapRunes soft-wraps one logical line the way the textarea does: words
// move to the next row when they do not fit, over-long words are split, and
// every row carries room for a trailing cursor cell.
func wrapRunes(runes []rune, width int) [][]rune {
	width = max(width, 1)
	var (
		lines  = [][]rune{{}}
		word   []rune
		row    int
		spaces int
	)
	cells := func(rs []rune) int { return uniseg.StringWidth(string(rs)) }
	for _, r := range runes {
		if unicode.IsSpace(r) {
			spaces++
		} else {
			word = append(word, r)
		}

		if spaces > 0 {
			if cells(lines[row])+cells(word)+spaces > width {
				row++
				lines = append(lines, []rune{})
			}
			lines[row] = append(lines[row], word...)
			lines[row] = append(lines[row], []rune(strings.Repeat(" ", spaces))...)
			spaces = 0
			word = nil
		} else if len(word) > 0 {
			last := uniseg.StringWidth(string(word[len(word)-1]))
			if cells(word)+last > width {
				if len(lines[row]) > 0 {
					row++
					lines = append(lines, []rune{})
				}
				lines[row] = append(lines[row], word...)
				word = nil
			}
		}
	}

	if cells(lines[row])+cells(word)+spaces >= width {
		lines = append(lines, []rune{})
		lines[row+1] = append(lines[row+1], word...)
		lines[row+1] = append(lines[row+1], []rune(strings.Repeat(" ", spaces+1))...)
	} else {
		lines[row] = append(lines[row], word...)
		lines[row] = append(lines[row], []rune(strings.Repeat(" ", spaces+1))...)
	}
	return lines
}

// runesInCells counts the runes of seg that start before display column col.
func runesInCells(seg []rune, col int) int {
	w := 0
	for i, r := range seg {
		if w >= col {
			return i
		}
		w += uniseg.StringWidth(string(r))
	}
	return len(seg)
}

// keyTypes maps key names back to bubbletea key types.
var keyTypes = func() map[string]tea.KeyType {
	m := make(map[string]tea.KeyType)
	for k := tea.KeyType(-128); k < 128; k++ {
		if s := k.String(); s != "" && k != tea.KeyRunes {
			m[s] = k
		}
	}
	return m
}()

// keyMsg rebuilds a bubbletea key message for events without one.
func keyMsg(ev editor.KeyEvent) tea.KeyMsg {
	name, alt := strings.CutPrefix(ev.Key, "alt+")
	if t, ok := keyTypes[name]; ok && len(ev.Runes) == 0 {
		return tea.KeyMsg{Type: t, Alt: alt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: ev.Runes, Paste: ev.Paste, Alt: alt && len(ev.Runes) > 0}
}
