// Package hittest translates pointer coordinates over the virtualized
// document list into a document index and a region within its box.
//
// Coordinates pass through screen -> viewport content -> layout space:
//
//	contentRow = y - ViewportTop + ScrollOffset
//	layoutRow  = contentRow - LeadingLines
//
// after which the layout map is binary searched. This is the only place the
// list's coordinate translation happens.
package hittest

import (
	"sort"

	"github.com/joeycumines/super-document/internal/layout"
)

// Region is the clickable part of a document box.
type Region int

const (
	// RegionNone is dead space: borders, margins and gaps between boxes.
	RegionNone Region = iota
	// RegionSelect is the top border; it selects without acting.
	RegionSelect
	// RegionRename is the header.
	RegionRename
	// RegionEdit is the preview body.
	RegionEdit
	// RegionDelete is the action caption.
	RegionDelete
)

func (r Region) String() string {
	switch r {
	case RegionSelect:
		return "select"
	case RegionRename:
		return "rename"
	case RegionEdit:
		return "edit"
	case RegionDelete:
		return "delete"
	default:
		return "none"
	}
}

// Geometry places the list viewport on screen.
type Geometry struct {
	// ViewportTop is the screen row of the viewport's first line.
	ViewportTop int
	// ViewportHeight is the number of visible rows.
	ViewportHeight int
	// ScrollOffset is the viewport's current offset.
	ScrollOffset int
	// LeadingLines is the fixed decoration above the first box inside the
	// scrolled content (count line, padding).
	LeadingLines int
	// ScrollbarLeft is the first screen column of the scrollbar and its
	// gutter, or -1. Cells at or right of it never hit an entry.
	ScrollbarLeft int
}

// Hit is a located pointer position.
type Hit struct {
	// Index is the position of the document in the collection.
	Index int
	// RelativeLine is the line within the entry, 0 being its top border.
	RelativeLine int
	Region       Region
}

// Locate resolves the screen cell (x, y). The boolean is false when the cell
// is outside the viewport, on the scrollbar or its gutter, or not inside any
// entry.
func Locate(x, y int, g Geometry, m layout.Map) (Hit, bool) {
	if y < g.ViewportTop || y >= g.ViewportTop+g.ViewportHeight {
		return Hit{}, false
	}
	if g.ScrollbarLeft >= 0 && x >= g.ScrollbarLeft {
		return Hit{}, false
	}
	row := y - g.ViewportTop + g.ScrollOffset - g.LeadingLines
	i, ok := Search(m.Entries, row)
	if !ok {
		return Hit{}, false
	}
	e := m.Entries[i]
	rel := row - e.Top
	return Hit{Index: i, RelativeLine: rel, Region: Classify(e, rel)}, true
}

// Search returns the index of the entry whose [Top, Top+Height) range holds
// row. Entries must be sorted and contiguous.
func Search(entries []layout.Entry, row int) (int, bool) {
	if row < 0 {
		return 0, false
	}
	i := sort.Search(len(entries), func(i int) bool {
		return entries[i].Bottom() > row
	})
	if i >= len(entries) || row < entries[i].Top {
		return 0, false
	}
	return i, true
}

// Classify maps a line relative to an entry's top onto its region.
func Classify(e layout.Entry, rel int) Region {
	switch {
	case rel < 0, rel >= e.TrailingBorderOffset:
		return RegionNone
	case rel == 0:
		return RegionSelect
	case rel <= e.HeaderHeight:
		return RegionRename
	case rel < e.ActionLineOffset:
		return RegionEdit
	default:
		return RegionDelete
	}
}
