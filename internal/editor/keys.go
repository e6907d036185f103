package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type listKeyMap struct {
	Up, Down, Tab, BackTab, Left, Right     key.Binding
	PageUp, PageDown, Home, End, Enter, Esc key.Binding
	Add, Load, Edit, Rename, Delete, Copy   key.Binding
	Shell, Reset, Quit, Help                key.Binding
}

type formKeyMap struct {
	Next, Prev, Submit, Cancel, Enter key.Binding
	PageUp, PageDown, Home, End       key.Binding
	Quit                              key.Binding
}

type confirmKeyMap struct {
	Yes, No, Switch, Enter, Quit key.Binding
}

var listKeys = listKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "next")),
	BackTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("Shift+Tab", "prev")),
	Left:     key.NewBinding(key.WithKeys("left")),
	Right:    key.NewBinding(key.WithKeys("right")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "page down")),
	Home:     key.NewBinding(key.WithKeys("home"), key.WithHelp("Home", "first")),
	End:      key.NewBinding(key.WithKeys("end"), key.WithHelp("End", "last")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "edit/activate")),
	Esc:      key.NewBinding(key.WithKeys("esc")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Load:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "load")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Rename:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rename")),
	Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "del")),
	Copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
	Shell:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shell")),
	Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

var formKeys = formKeyMap{
	Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab/Shift+Tab", "move")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab")),
	Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("Ctrl+S", "submit")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp/PgDn", "scroll")),
	PageDown: key.NewBinding(key.WithKeys("pgdown")),
	Home:     key.NewBinding(key.WithKeys("home")),
	End:      key.NewBinding(key.WithKeys("end")),
	Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "cancel")),
	Enter:    key.NewBinding(key.WithKeys("enter")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c")),
}

var confirmKeys = confirmKeyMap{
	Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/Esc", "no")),
	Switch: key.NewBinding(key.WithKeys("tab", "shift+tab", "left", "right"), key.WithHelp("Tab", "switch")),
	Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "choose")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
}

// shortHelp renders "k:desc" pairs separated by spaces.
func shortHelp(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+":"+h.Desc)
	}
	return strings.Join(parts, " ")
}

// fullHelp renders "Key: desc" pairs separated by bullets.
func fullHelp(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// Help returns the footer help lines for the active screen.
func (s State) Help() []string {
	switch s.Screen.(type) {
	case FormScreen:
		return []string{fullHelp(formKeys.Next, formKeys.Submit, formKeys.PageUp, formKeys.Cancel)}
	case ConfirmScreen:
		return []string{fullHelp(confirmKeys.Yes, confirmKeys.No, confirmKeys.Switch, confirmKeys.Enter)}
	}
	k := listKeys
	lines := []string{shortHelp(k.Add, k.Load, k.Edit, k.Rename, k.Delete, k.Copy, k.Shell, k.Reset, k.Quit, k.Help)}
	if s.LongHelp {
		lines = append(lines,
			fullHelp(k.Up, k.Down, k.Tab, k.BackTab, k.PageUp, k.PageDown, k.Home, k.End, k.Enter),
			"click header: rename • click body: edit • click [X] Remove: delete • wheel: scroll",
		)
	}
	return lines
}
