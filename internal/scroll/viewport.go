// Package scroll implements the scroll/viewport controller: an offset and a
// visible height over a logically taller content buffer.
//
// Every mutation clamps, so 0 <= Offset() <= MaxOffset() always holds.
// Viewport is a plain value; copying it copies its state.
package scroll

// State is a snapshot of a Viewport.
type State struct {
	YOffset    int
	Height     int
	TotalLines int
}

// Viewport is the scroll state of one scrollable region.
// The zero value is an empty viewport of height 0.
type Viewport struct {
	yOffset    int
	height     int
	totalLines int
}

// New returns a viewport of the given height over totalLines of content.
func New(height, totalLines int) Viewport {
	var v Viewport
	v.SetHeight(height)
	v.SetContent(totalLines)
	return v
}

// State returns a snapshot of the viewport.
func (v Viewport) State() State {
	return State{YOffset: v.yOffset, Height: v.height, TotalLines: v.totalLines}
}

// Offset is the first visible content line.
func (v Viewport) Offset() int { return v.yOffset }

// Height is the number of visible lines.
func (v Viewport) Height() int { return v.height }

// TotalLines is the height of the content buffer.
func (v Viewport) TotalLines() int { return v.totalLines }

// MaxOffset is the largest valid offset, max(0, totalLines-height).
func (v Viewport) MaxOffset() int {
	if m := v.totalLines - v.height; m > 0 {
		return m
	}
	return 0
}

// AtTop reports whether the first content line is visible.
func (v Viewport) AtTop() bool { return v.yOffset == 0 }

// AtBottom reports whether the last content line is visible.
func (v Viewport) AtBottom() bool { return v.yOffset >= v.MaxOffset() }

// SetContent updates the content height, re-clamping the offset.
func (v *Viewport) SetContent(totalLines int) {
	v.totalLines = max(totalLines, 0)
	v.clamp()
}

// SetHeight updates the visible height, re-clamping the offset.
func (v *Viewport) SetHeight(h int) {
	v.height = max(h, 0)
	v.clamp()
}

// SetOffset moves the window to y, clamped to [0, MaxOffset()].
func (v *Viewport) SetOffset(y int) {
	v.yOffset = y
	v.clamp()
}

// ScrollBy moves the window by delta lines, clamped.
func (v *Viewport) ScrollBy(delta int) {
	v.SetOffset(v.yOffset + delta)
}

// GotoTop scrolls to the first line.
func (v *Viewport) GotoTop() { v.SetOffset(0) }

// GotoBottom scrolls to the clamped maximum offset.
func (v *Viewport) GotoBottom() { v.SetOffset(v.MaxOffset()) }

// PageUp scrolls up by one visible height.
func (v *Viewport) PageUp() { v.ScrollBy(-max(v.height, 1)) }

// PageDown scrolls down by one visible height.
func (v *Viewport) PageDown() { v.ScrollBy(max(v.height, 1)) }

// EnsureRangeVisible scrolls the minimum distance needed to show the content
// lines [top, top+height). A range above the window snaps the offset to top,
// a range past the bottom snaps the window's bottom edge to the range's end,
// and a visible range leaves the offset alone. Ranges taller than the window
// are aligned to their top.
func (v *Viewport) EnsureRangeVisible(top, height int) {
	if height < 1 {
		height = 1
	}
	switch bottom := top + height; {
	case top < v.yOffset:
		v.SetOffset(top)
	case bottom > v.yOffset+v.height:
		if height > v.height {
			v.SetOffset(top)
		} else {
			v.SetOffset(bottom - v.height)
		}
	}
}

// Visible reports whether content line y is inside the window.
func (v Viewport) Visible(y int) bool {
	return y >= v.yOffset && y < v.yOffset+v.height
}

func (v *Viewport) clamp() {
	if v.yOffset > v.MaxOffset() {
		v.yOffset = v.MaxOffset()
	}
	if v.yOffset < 0 {
		v.yOffset = 0
	}
}
