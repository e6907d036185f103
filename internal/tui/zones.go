package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/joeycumines/super-document/internal/editor"
)

// zones registers the fixed widgets of each frame with a bubblezone
// manager and answers the engine's hit queries from it.
type zones struct {
	m *zone.Manager
	// marked holds the ids marked since the last scan.
	marked map[string]struct{}
	// live holds the ids found by the last scan.
	live map[string]struct{}
}

var _ editor.Zones = (*zones)(nil)

func newZones(m *zone.Manager) *zones {
	return &zones{
		m:      m,
		marked: make(map[string]struct{}),
		live:   make(map[string]struct{}),
	}
}

// mark wraps s in the markers of id.
func (z *zones) mark(id, s string) string {
	if z.m == nil {
		return s
	}
	z.marked[id] = struct{}{}
	return z.m.Mark(id, s)
}

// markRows marks the rows [top, top+n) of lines as zone id, clipped to the
// window [offset, offset+height). Clipping first keeps both markers inside
// the rendered window, so a partly scrolled-out widget stays clickable.
func (z *zones) markRows(lines []string, id string, top, n, offset, height int) {
	first := max(top, offset)
	last := min(top+n, offset+height, len(lines)) - 1
	if first > last {
		return
	}
	marked := strings.Split(z.mark(id, strings.Join(lines[first:last+1], "\n")), "\n")
	copy(lines[first:], marked)
}

// scan registers the zones of a finished frame and strips their markers.
// Zones absent from the frame are dropped so stale rectangles never match.
func (z *zones) scan(view string) string {
	if z.m == nil {
		return view
	}
	for id := range z.live {
		if _, ok := z.marked[id]; !ok {
			z.m.Clear(id)
		}
	}
	z.live, z.marked = z.marked, make(map[string]struct{})
	return z.m.Scan(view)
}

// InBounds implements editor.Zones.
func (z *zones) InBounds(id string, x, y int) bool {
	if z.m == nil {
		return false
	}
	if _, ok := z.live[id]; !ok {
		return false
	}
	info := z.m.Get(id)
	if info == nil || info.IsZero() {
		return false
	}
	return info.InBounds(tea.MouseMsg{X: x, Y: y})
}
