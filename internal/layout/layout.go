// Package layout builds the layout map of the document list: the wrapped
// height of each document's box and the offsets of its header, preview and
// action regions within the virtual scroll buffer.
//
// A box is drawn as
//
//	╭──────────────╮  top border        (relative line 0)
//	│ #1 [label]   │  header            (HeaderHeight lines)
//	│ preview...   │  preview           (wrapped)
//	│ [X] Remove   │  action caption    (ActionLineOffset)
//	╰──────────────╯  bottom border     (TrailingBorderOffset)
//	                  bottom margin
//
// with every sub-element wrapped independently at the inner width.
package layout

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/joeycumines/super-document/internal/document"
)

const (
	// BoxOverhead is the horizontal space taken by a box's border and padding.
	BoxOverhead = 4

	// MinContentWidth is the narrowest width a layout is computed for. Smaller
	// (including zero and negative) widths are raised to it.
	MinContentWidth = BoxOverhead + 16

	// BorderLines is the number of border lines above and below the content.
	BorderLines = 1

	// MarginLines is the blank space below each box.
	MarginLines = 1
)

// Measurer reports the number of lines text occupies once word-wrapped at
// width cells.
type Measurer interface {
	Height(text string, width int) int
}

// Entry locates one document's box within the list content.
type Entry struct {
	// Top is the line offset of the box's top border.
	Top int
	// Height is the full height of the box including borders and margin.
	Height     int
	DocumentID int
	// HeaderHeight is the wrapped height of the header.
	HeaderHeight int
	// ActionLineOffset is the first line of the action caption, relative to
	// Top.
	ActionLineOffset int
	// TrailingBorderOffset is the bottom border line, relative to Top. It and
	// everything below it belongs to no region.
	TrailingBorderOffset int
}

// Bottom is the first line after the entry.
func (e Entry) Bottom() int { return e.Top + e.Height }

// Map is a built layout.
type Map struct {
	Entries []Entry
	// Width is the (clamped) content width the map was built for.
	Width int
	// TotalHeight is the sum of all entry heights.
	TotalHeight int
}

// ClampWidth raises width to MinContentWidth.
func ClampWidth(width int) int {
	return max(width, MinContentWidth)
}

// InnerWidth is the wrap width of a box's sub-elements for a content width.
func InnerWidth(width int) int {
	return ClampWidth(width) - BoxOverhead
}

// Build computes the layout of docs at width. It is deterministic and keeps
// no state; use a Builder to memoize.
func Build(docs []document.Document, width int, m Measurer, previewChars int) Map {
	width = ClampWidth(width)
	inner := InnerWidth(width)
	out := Map{Width: width, Entries: make([]Entry, 0, len(docs))}
	top := 0
	for _, d := range docs {
		header := measure(m, d.Header(), inner)
		preview := measure(m, document.Preview(d.Content, previewChars), inner)
		action := measure(m, document.ActionCaption, inner)
		e := Entry{
			Top:              top,
			DocumentID:       d.ID,
			HeaderHeight:     header,
			ActionLineOffset: BorderLines + header + preview,
		}
		e.TrailingBorderOffset = e.ActionLineOffset + action
		e.Height = e.TrailingBorderOffset + BorderLines + MarginLines
		out.Entries = append(out.Entries, e)
		top += e.Height
	}
	out.TotalHeight = top
	return out
}

func measure(m Measurer, text string, width int) int {
	return max(m.Height(text, width), 1)
}

// Builder memoizes Build against a fingerprint of the collection and width.
type Builder struct {
	measurer     Measurer
	previewChars int

	valid  bool
	key    uint64
	width  int
	cached Map
}

// NewBuilder returns a memoizing builder.
func NewBuilder(m Measurer, previewChars int) *Builder {
	return &Builder{measurer: m, previewChars: previewChars}
}

// Build returns the layout of docs at width, reusing the previous result
// when neither the fingerprint nor the width changed. The returned map
// must be treated as read-only.
func (b *Builder) Build(docs []document.Document, width int) Map {
	key := Fingerprint(docs, b.previewChars)
	width = ClampWidth(width)
	if b.valid && b.key == key && b.width == width {
		return b.cached
	}
	b.cached = Build(docs, width, b.measurer, b.previewChars)
	b.key, b.width, b.valid = key, width, true
	return b.cached
}

// Invalidate drops the memoized layout.
func (b *Builder) Invalidate() { b.valid = false }

// Fingerprint digests the order, ids and wrapped text (header and preview)
// of docs. Equal fingerprints produce equal layouts for a given width.
func Fingerprint(docs []document.Document, previewChars int) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	put := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = h.Write(buf[:])
	}
	text := func(s string) {
		put(len(s))
		_, _ = h.Write([]byte(s))
	}
	put(len(docs))
	for _, d := range docs {
		put(d.ID)
		text(d.Header())
		text(document.Preview(d.Content, previewChars))
	}
	return h.Sum64()
}
