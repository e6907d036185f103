package editor

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/joeycumines/super-document/internal/document"
)

func (c *cycle) handleConfirm(s ConfirmScreen, ev Event) {
	switch ev := ev.(type) {
	case KeyEvent:
		k := confirmKeys
		switch {
		case key.Matches(ev, k.Quit):
			c.quit()
		case key.Matches(ev, k.Yes):
			c.affirm(s)
		case key.Matches(ev, k.No):
			c.deny()
		case key.Matches(ev, k.Enter):
			if s.Focus == ChoiceYes {
				c.affirm(s)
			} else {
				c.deny()
			}
		case key.Matches(ev, k.Switch):
			if s.Focus == ChoiceYes {
				s.Focus = ChoiceNo
			} else {
				s.Focus = ChoiceYes
			}
			c.st.Screen = s
		}
	case PressEvent:
		if ev.Button != ButtonLeft {
			return
		}
		switch {
		case c.e.cfg.Zones.InBounds(ZoneConfirmYes, ev.X, ev.Y):
			c.affirm(s)
		case c.e.cfg.Zones.InBounds(ZoneConfirmNo, ev.X, ev.Y):
			c.deny()
		}
	case ResizeEvent:
		c.st.Width, c.st.Height = ev.Width, ev.Height
	}
}

func (c *cycle) deny() {
	c.toList()
	c.setStatus("Cancelled")
	c.reveal = revealSelection
}

// affirm performs the confirmed destructive action. A failed write leaves
// the modal open.
func (c *cycle) affirm(s ConfirmScreen) {
	if s.Target == TargetAll {
		if err := c.save([]document.Document{}); err != nil {
			c.setError("Reset failed", err)
			return
		}
		c.st.Selected = -1
		c.toList()
		c.setStatus("Reset: all documents cleared")
		c.reveal = revealTop
		c.e.log.Info("documents reset")
		return
	}

	docs, removed := document.Remove(c.st.Documents, s.Target)
	if removed < 0 {
		c.toList()
		c.setError(fmt.Sprintf("Document #%d no longer exists", s.Target), nil)
		c.reveal = revealSelection
		return
	}
	selected := document.SelectionAfterRemove(c.st.Selected, removed, len(docs))
	if err := c.save(docs); err != nil {
		c.setError("Delete failed", err)
		return
	}
	c.st.Selected = selected
	c.toList()
	c.setStatus(fmt.Sprintf("Deleted document #%d", s.Target))
	c.reveal = revealSelection
	c.e.log.Info("document deleted", "id", s.Target)
}
