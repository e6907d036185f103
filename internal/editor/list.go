package editor

import (
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"

	"github.com/joeycumines/super-document/internal/document"
	"github.com/joeycumines/super-document/internal/hittest"
)

func (c *cycle) handleList(ls ListScreen, ev Event) {
	switch ev := ev.(type) {
	case KeyEvent:
		c.listKey(ls, ev)
	case PressEvent:
		c.listPress(ls, ev)
	case WheelEvent:
		c.st.List.ScrollBy(ev.Delta)
	case ResizeEvent:
		c.st.Width, c.st.Height = ev.Width, ev.Height
		c.reveal = revealSelection
	}
}

func (c *cycle) listKey(ls ListScreen, ev KeyEvent) {
	k := listKeys
	switch {
	case key.Matches(ev, k.Up):
		c.moveUp(ls)
	case key.Matches(ev, k.Down):
		c.moveDown(ls)
	case key.Matches(ev, k.Tab):
		c.cycleFocus(ls, 1)
	case key.Matches(ev, k.BackTab):
		c.cycleFocus(ls, -1)
	case key.Matches(ev, k.Left):
		if ls.FocusedButton > 0 {
			c.focusButton(ls.FocusedButton - 1)
		}
	case key.Matches(ev, k.Right):
		if ls.FocusedButton >= 0 && ls.FocusedButton < len(ListButtons)-1 {
			c.focusButton(ls.FocusedButton + 1)
		}
	case key.Matches(ev, k.PageUp):
		c.pageUp(ls)
	case key.Matches(ev, k.PageDown):
		c.pageDown(ls)
	case key.Matches(ev, k.Home):
		if len(c.st.Documents) > 0 {
			c.focusDocument(0)
		} else {
			c.focusNone()
		}
		c.reveal = revealTop
	case key.Matches(ev, k.End):
		if n := len(c.st.Documents); n > 0 {
			c.focusDocument(n - 1)
		} else {
			c.focusButton(0)
		}
	case key.Matches(ev, k.Enter):
		switch {
		case ls.FocusedButton >= 0:
			c.activate(ls.FocusedButton)
		case c.st.Selected >= 0:
			c.openEdit(c.st.Selected)
		}
	case key.Matches(ev, k.Esc):
		c.st.Status = Status{}
	case key.Matches(ev, k.Add):
		c.activate(ButtonAdd)
	case key.Matches(ev, k.Load):
		c.activate(ButtonLoad)
	case key.Matches(ev, k.Edit):
		if c.requireSelection() {
			c.openEdit(c.st.Selected)
		}
	case key.Matches(ev, k.Rename):
		if c.requireSelection() {
			c.openRename(c.st.Selected)
		}
	case key.Matches(ev, k.Delete):
		if c.requireSelection() {
			c.confirmDelete(c.st.Selected)
		}
	case key.Matches(ev, k.Copy):
		c.activate(ButtonCopy)
	case key.Matches(ev, k.Shell):
		c.activate(ButtonShell)
	case key.Matches(ev, k.Reset):
		c.activate(ButtonReset)
	case key.Matches(ev, k.Quit):
		c.activate(ButtonQuit)
	case key.Matches(ev, k.Help):
		c.st.LongHelp = !c.st.LongHelp
	}
}

func (c *cycle) listPress(ls ListScreen, ev PressEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	zones := c.e.cfg.Zones
	switch {
	case zones.InBounds(ZoneJumpTop, ev.X, ev.Y):
		c.st.List.GotoTop()
		return
	case zones.InBounds(ZoneJumpBottom, ev.X, ev.Y):
		c.st.List.GotoBottom()
		return
	}
	for i, b := range ListButtons {
		if zones.InBounds(b.Zone, ev.X, ev.Y) {
			c.focusButton(i)
			c.activate(i)
			return
		}
	}

	g := c.st.ListGeometry()
	hit, ok := hittest.Locate(ev.X, ev.Y, hittest.Geometry{
		ViewportTop:     g.ViewportTop,
		ViewportHeight:  g.ViewportHeight,
		ScrollOffset:    c.st.List.Offset(),
		LeadingLines:    g.LeadingLines,
		ScrollbarLeft:   g.GutterColumn,
	}, c.st.Layout)
	if !ok || hit.Index >= len(c.st.Documents) {
		return
	}
	switch hit.Region {
	case hittest.RegionSelect:
		c.focusDocument(hit.Index)
	case hittest.RegionRename:
		c.focusDocument(hit.Index)
		c.openRename(hit.Index)
	case hittest.RegionEdit:
		c.focusDocument(hit.Index)
		c.openEdit(hit.Index)
	case hittest.RegionDelete:
		c.focusDocument(hit.Index)
		c.confirmDelete(hit.Index)
	}
}

// focusDocument selects document i and drops button focus.
func (c *cycle) focusDocument(i int) {
	c.st.Selected = document.ClampIndex(i, len(c.st.Documents))
	c.st.Screen = ListScreen{FocusedButton: -1}
	c.reveal = revealSelection
}

// focusNone clears the selection and scrolls to the top.
func (c *cycle) focusNone() {
	c.st.Selected = -1
	c.st.Screen = ListScreen{FocusedButton: -1}
	c.reveal = revealTop
}

// focusButton focuses button b. Buttons sit at the end of the content.
func (c *cycle) focusButton(b int) {
	c.st.Selected = -1
	c.st.Screen = ListScreen{FocusedButton: b}
	c.reveal = revealBottom
}

func (c *cycle) moveUp(ls ListScreen) {
	n := len(c.st.Documents)
	switch {
	case ls.FocusedButton >= 0:
		if n > 0 {
			c.focusDocument(n - 1)
		} else {
			c.focusNone()
		}
	case c.st.Selected > 0:
		c.focusDocument(c.st.Selected - 1)
	case c.st.Selected == 0:
		c.focusNone()
	}
}

func (c *cycle) moveDown(ls ListScreen) {
	n := len(c.st.Documents)
	switch {
	case ls.FocusedButton >= 0:
	case c.st.Selected < 0 && n > 0:
		c.focusDocument(0)
	case c.st.Selected < n-1:
		c.focusDocument(c.st.Selected + 1)
	default:
		c.focusButton(0)
	}
}

// cycleFocus steps through documents then buttons, wrapping.
func (c *cycle) cycleFocus(ls ListScreen, dir int) {
	n, b := len(c.st.Documents), len(ListButtons)
	// flatten: documents occupy [0, n), buttons [n, n+b)
	pos := -1
	switch {
	case ls.FocusedButton >= 0:
		pos = n + ls.FocusedButton
	case c.st.Selected >= 0:
		pos = c.st.Selected
	}
	total := n + b
	switch {
	case pos < 0 && dir > 0:
		pos = 0
	case pos < 0:
		pos = total - 1
	default:
		pos = (pos + dir + total) % total
	}
	if pos < n {
		c.focusDocument(pos)
	} else {
		c.focusButton(pos - n)
	}
}

// pageStep estimates how many whole items fit one viewport page.
func (c *cycle) pageStep() int {
	n := len(c.st.Documents)
	if n == 0 || c.st.Layout.TotalHeight == 0 {
		return 1
	}
	avg := max(c.st.Layout.TotalHeight/n, 1)
	return max(c.st.List.Height()/avg, 1)
}

func (c *cycle) pageUp(ls ListScreen) {
	n := len(c.st.Documents)
	switch {
	case ls.FocusedButton >= 0:
		c.moveUp(ls)
	case c.st.Selected == 0:
		c.focusNone()
	case c.st.Selected > 0:
		c.focusDocument(max(c.st.Selected-c.pageStep(), 0))
	case n == 0:
		c.st.List.GotoTop()
	}
}

func (c *cycle) pageDown(ls ListScreen) {
	n := len(c.st.Documents)
	switch {
	case ls.FocusedButton >= 0:
	case c.st.Selected < 0:
		c.moveDown(ls)
	case c.st.Selected >= n-1:
		c.focusButton(0)
	default:
		c.focusDocument(min(c.st.Selected+c.pageStep(), n-1))
	}
}

func (c *cycle) requireSelection() bool {
	if c.st.Selected >= 0 && c.st.Selected < len(c.st.Documents) {
		return true
	}
	c.setError("No document selected", nil)
	return false
}

// activate performs the action of list button b.
func (c *cycle) activate(b int) {
	switch b {
	case ButtonAdd:
		c.openForm(OpAdd, document.Document{})
	case ButtonLoad:
		c.openForm(OpLoad, document.Document{})
	case ButtonCopy:
		c.copyPrompt()
	case ButtonShell:
		c.e.log.Debug("dropping to shell")
		c.eff.Shell = true
		c.quit()
	case ButtonReset:
		c.st.Screen = ConfirmScreen{
			Target: TargetAll,
			Prompt: "Reset: delete ALL documents?",
			Focus:  ChoiceNo,
		}
	case ButtonQuit:
		c.quit()
	}
}

func (c *cycle) confirmDelete(i int) {
	d := c.st.Documents[i]
	c.st.Screen = ConfirmScreen{
		Target: d.ID,
		Prompt: fmt.Sprintf("Delete document #%d?", d.ID),
		Focus:  ChoiceNo,
	}
}

func (c *cycle) copyPrompt() {
	if c.e.cfg.Exporter == nil {
		c.setError("Copy failed", errNoExporter)
		return
	}
	if c.e.cfg.Clipboard == nil {
		c.setError("Copy failed", errNoClipboard)
		return
	}
	text, err := c.e.cfg.Exporter.Export(c.st.Documents)
	if err != nil {
		c.setError("Copy failed", err)
		return
	}
	if err := c.e.cfg.Clipboard.WriteAll(text); err != nil {
		c.setError("Copy failed", err)
		return
	}
	c.e.log.Info("copied prompt", "documents", len(c.st.Documents), "bytes", len(text))
	c.setStatus(fmt.Sprintf("Copied prompt (%d chars)", utf8.RuneCountInString(text)))
}
