package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/joeycumines/super-document/internal/document"
)

type memStore struct {
	docs     []document.Document
	next     int
	selected int
	failSet  error
	sets     int
}

func newMemStore(docs ...document.Document) *memStore {
	return &memStore{docs: docs, next: document.MaxID(docs), selected: -1}
}

func (s *memStore) All() ([]document.Document, error) { return document.Clone(s.docs), nil }

func (s *memStore) SetAll(docs []document.Document) error {
	if s.failSet != nil {
		return s.failSet
	}
	s.sets++
	s.docs = document.Clone(docs)
	return nil
}

func (s *memStore) NextID() (int, error) {
	s.next++
	return s.next, nil
}

func (s *memStore) SelectedIndex() (int, error) { return s.selected, nil }

func (s *memStore) SetSelectedIndex(i int) error {
	s.selected = i
	return nil
}

// byteMeasurer wraps greedily by byte count.
type byteMeasurer struct{}

func (byteMeasurer) Height(text string, width int) int {
	if width <= 0 || len(text) == 0 {
		return 1
	}
	return (len(text) + width - 1) / width
}

// fakeText is a minimal TextBuffer: byte columns, greedy wrapping.
type fakeText struct {
	lines    []string
	row, col int
	width    int
	focused  bool
}

func newFakeText() TextBuffer { return &fakeText{lines: []string{""}, width: 40} }

func (b *fakeText) Value() string { return strings.Join(b.lines, "\n") }

func (b *fakeText) SetValue(s string) {
	b.lines = strings.Split(s, "\n")
	b.row = len(b.lines) - 1
	b.col = len(b.lines[b.row])
}

func (b *fakeText) LineCount() int { return len(b.lines) }

func (b *fakeText) wrapped(line string) int {
	if b.width <= 0 || len(line) == 0 {
		return 1
	}
	return (len(line) + b.width - 1) / b.width
}

func (b *fakeText) VisualLineCount() int {
	n := 0
	for _, l := range b.lines {
		n += b.wrapped(l)
	}
	return n
}

func (b *fakeText) CursorRow() int { return b.row }

func (b *fakeText) CursorVisualLine() int {
	n := 0
	for _, l := range b.lines[:b.row] {
		n += b.wrapped(l)
	}
	if b.width > 0 {
		n += b.col / b.width
	}
	return n
}

func (b *fakeText) SetCursorPosition(row, col int) {
	b.row = min(max(row, 0), len(b.lines)-1)
	b.col = min(max(col, 0), len(b.lines[b.row]))
}

func (b *fakeText) VisualToLogical(line, col int) (int, int) {
	for i, l := range b.lines {
		h := b.wrapped(l)
		if line < h {
			return i, line*b.width + col
		}
		line -= h
	}
	last := len(b.lines) - 1
	return last, len(b.lines[last])
}

func (b *fakeText) HandleKey(ev KeyEvent) {
	line := b.lines[b.row]
	switch ev.Key {
	case "enter":
		b.lines = append(b.lines[:b.row+1], append([]string{line[b.col:]}, b.lines[b.row+1:]...)...)
		b.lines[b.row] = line[:b.col]
		b.row++
		b.col = 0
	case "backspace":
		if b.col > 0 {
			b.lines[b.row] = line[:b.col-1] + line[b.col:]
			b.col--
		}
	case "up":
		b.SetCursorPosition(b.row-1, b.col)
	case "down":
		b.SetCursorPosition(b.row+1, b.col)
	default:
		if len(ev.Runes) > 0 {
			s := string(ev.Runes)
			b.lines[b.row] = line[:b.col] + s + line[b.col:]
			b.col += len(s)
		}
	}
}

func (b *fakeText) SetWidth(w int) { b.width = w }
func (b *fakeText) Focus()         { b.focused = true }
func (b *fakeText) Blur()          { b.focused = false }

type rect struct{ x0, y0, x1, y1 int }

// fakeZones is a region registry populated by tests.
type fakeZones map[string]rect

func (z fakeZones) InBounds(id string, x, y int) bool {
	r, ok := z[id]
	return ok && x >= r.x0 && x <= r.x1 && y >= r.y0 && y <= r.y1
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fakeFiles map[string]string

func (f fakeFiles) ReadFile(path string) ([]byte, error) {
	s, ok := f[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return []byte(s), nil
}

type joinExporter struct{}

func (joinExporter) Export(docs []document.Document) (string, error) {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		parts = append(parts, d.Content)
	}
	return "PROMPT:" + strings.Join(parts, "|"), nil
}

type harness struct {
	t      *testing.T
	store  *memStore
	zones  fakeZones
	clip   *fakeClipboard
	files  fakeFiles
	engine *Engine
	st     State
	eff    Effect
}

func newHarness(t *testing.T, width, height int, docs ...document.Document) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		store: newMemStore(docs...),
		zones: fakeZones{},
		clip:  &fakeClipboard{},
		files: fakeFiles{},
	}
	h.engine = New(Config{
		Store:         h.store,
		Measurer:      byteMeasurer{},
		NewTextBuffer: newFakeText,
		Zones:         h.zones,
		Clipboard:     h.clip,
		Files:         h.files,
		Exporter:      joinExporter{},
	})
	h.st = h.engine.Init(width, height)
	return h
}

func (h *harness) send(ev Event) *harness {
	h.t.Helper()
	h.st, h.eff = h.engine.Handle(h.st, ev)
	return h
}

func (h *harness) key(keys ...string) *harness {
	h.t.Helper()
	for _, k := range keys {
		ev := KeyEvent{Key: k}
		if len([]rune(k)) == 1 {
			ev.Runes = []rune(k)
		}
		h.send(ev)
	}
	return h
}

func (h *harness) typeText(s string) *harness {
	h.t.Helper()
	for _, r := range s {
		h.send(KeyEvent{Key: string(r), Runes: []rune{r}})
	}
	return h
}

func (h *harness) click(x, y int) *harness {
	h.t.Helper()
	return h.send(PressEvent{X: x, Y: y, Button: ButtonLeft})
}

func (h *harness) list() ListScreen {
	h.t.Helper()
	ls, ok := h.st.Screen.(ListScreen)
	if !ok {
		h.t.Fatalf("expected list screen, got %s", h.st.Screen.Mode())
	}
	return ls
}

func (h *harness) form() FormScreen {
	h.t.Helper()
	f, ok := h.st.Screen.(FormScreen)
	if !ok {
		h.t.Fatalf("expected form screen, got %s", h.st.Screen.Mode())
	}
	return f
}

func (h *harness) confirm() ConfirmScreen {
	h.t.Helper()
	c, ok := h.st.Screen.(ConfirmScreen)
	if !ok {
		h.t.Fatalf("expected confirm screen, got %s", h.st.Screen.Mode())
	}
	return c
}

// entryRow is the screen row of line rel of entry i at the current offset.
func (h *harness) entryRow(i, rel int) int {
	g := h.st.ListGeometry()
	return g.ViewportTop + g.LeadingLines + h.st.Layout.Entries[i].Top + rel - h.st.List.Offset()
}

func docs(n int) []document.Document {
	out := make([]document.Document, n)
	for i := range out {
		out[i] = document.Document{ID: i + 1, Label: string(rune('A' + i%26)), Content: "content"}
	}
	return out
}
