package editor

// Event is an input event delivered to Engine.Handle. It is one of
// KeyEvent, PressEvent, WheelEvent or ResizeEvent.
type Event interface {
	event()
}

// KeyEvent is a key press or a bracketed paste.
type KeyEvent struct {
	// Key is the key's canonical name, e.g. "a", "R", "enter", "shift+tab",
	// "ctrl+s".
	Key string
	// Runes holds the typed or pasted text, if any.
	Runes []rune
	// Paste is set for bracketed paste.
	Paste bool
	// Raw is the originating message from the event source, passed through
	// untouched to text buffers.
	Raw any
}

// String returns Key.
func (e KeyEvent) String() string { return e.Key }

// Text is the literal text carried by the event.
func (e KeyEvent) Text() string { return string(e.Runes) }

// PointerButton identifies the mouse button of a press.
type PointerButton int

const (
	ButtonLeft PointerButton = iota
	ButtonMiddle
	ButtonRight
)

// PressEvent is a pointer button press at absolute screen coordinates.
type PressEvent struct {
	X, Y   int
	Button PointerButton
}

// WheelEvent is a scroll wheel step. Positive Delta scrolls down. Wheel
// events only ever scroll.
type WheelEvent struct {
	X, Y  int
	Delta int
}

// ResizeEvent reports the size of the render surface.
type ResizeEvent struct {
	Width, Height int
}

func (KeyEvent) event()    {}
func (PressEvent) event()  {}
func (WheelEvent) event()  {}
func (ResizeEvent) event() {}
