package editor

import "github.com/joeycumines/super-document/internal/document"

// Store persists the document collection and the list selection.
type Store interface {
	// All returns the collection in display order.
	All() ([]document.Document, error)
	// SetAll replaces the collection.
	SetAll(docs []document.Document) error
	// NextID allocates a new document id. Ids are never reused.
	NextID() (int, error)
	SelectedIndex() (int, error)
	SetSelectedIndex(i int) error
}

// Zones resolves pointer hits on named, non-virtualized widgets.
type Zones interface {
	// InBounds reports whether the screen cell (x, y) lies within the most
	// recently rendered rectangle registered as id.
	InBounds(id string, x, y int) bool
}

// Clipboard receives exported text.
type Clipboard interface {
	WriteAll(text string) error
}

// FileReader reads files for the load action.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// Exporter assembles the collection into the final prompt text.
type Exporter interface {
	Export(docs []document.Document) (string, error)
}

// TextBuffer is a multi-line editable text field. The engine never edits
// text itself; it forwards keys and reads back geometry.
type TextBuffer interface {
	Value() string
	SetValue(s string)
	// LineCount is the number of logical lines.
	LineCount() int
	// VisualLineCount is the number of lines once soft-wrapped at the
	// current width.
	VisualLineCount() int
	// CursorRow is the cursor's logical line.
	CursorRow() int
	// CursorVisualLine is the cursor's line counted in wrapped lines from
	// the top of the buffer.
	CursorVisualLine() int
	// SetCursorPosition moves the cursor to a logical position, clamped.
	SetCursorPosition(row, col int)
	// VisualToLogical maps a wrapped line and display column to a logical
	// position.
	VisualToLogical(line, col int) (row, c int)
	// HandleKey applies a key event to the buffer.
	HandleKey(ev KeyEvent)
	SetWidth(w int)
	Focus()
	Blur()
}

// ZoneFunc adapts a function to Zones.
type ZoneFunc func(id string, x, y int) bool

// InBounds calls f.
func (f ZoneFunc) InBounds(id string, x, y int) bool { return f(id, x, y) }

type noZones struct{}

func (noZones) InBounds(string, int, int) bool { return false }
