// Package editor is the focus/navigation state machine of the document
// collection editor.
//
// Engine.Handle takes the current State and one input Event and returns the
// next State and an Effect for the caller. Each call is one event cycle:
//
//  1. re-read the collection from the Store and clamp the selection
//  2. dispatch to the handler of the active screen
//  3. rebuild the layout map and scroll extents
//  4. apply any pending reveal (selection, buttons, text cursor)
//  5. persist a changed selection
//
// Rendering is left to the caller; State carries everything it needs.
package editor

import (
	"errors"
	"io"
	"log/slog"

	"github.com/joeycumines/super-document/internal/document"
	"github.com/joeycumines/super-document/internal/layout"
)

// Config wires an Engine to its collaborators. Store, Measurer and
// NewTextBuffer are required.
type Config struct {
	Store    Store
	Measurer layout.Measurer
	// NewTextBuffer creates the multi-line buffer for add and edit forms.
	NewTextBuffer func() TextBuffer

	Zones     Zones
	Clipboard Clipboard
	Files     FileReader
	Exporter  Exporter

	// PreviewChars is the preview budget; <= 0 uses the default.
	PreviewChars int
	// MaxTextLines caps the visible height of the content field; 0 is
	// unbounded.
	MaxTextLines int

	Logger *slog.Logger
}

// Engine handles events. It holds the collaborators and the memoized layout;
// all other state lives in State.
type Engine struct {
	cfg    Config
	layout *layout.Builder
	log    *slog.Logger
}

var (
	errNoClipboard = errors.New("no clipboard available")
	errNoFiles     = errors.New("file access unavailable")
	errNoExporter  = errors.New("no exporter configured")
)

// New returns an Engine for cfg.
func New(cfg Config) *Engine {
	if cfg.PreviewChars <= 0 {
		cfg.PreviewChars = document.DefaultPreviewChars
	}
	if cfg.Zones == nil {
		cfg.Zones = noZones{}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		cfg:    cfg,
		layout: layout.NewBuilder(cfg.Measurer, cfg.PreviewChars),
		log:    log,
	}
}

// PreviewChars is the configured preview budget.
func (e *Engine) PreviewChars() int { return e.cfg.PreviewChars }

// MaxTextLines is the configured content field height cap.
func (e *Engine) MaxTextLines() int { return e.cfg.MaxTextLines }

// Init returns the initial state: the list screen at the given size with the
// persisted selection restored.
func (e *Engine) Init(width, height int) State {
	st := State{
		Width:    width,
		Height:   height,
		Selected: -1,
		Screen:   ListScreen{FocusedButton: -1},
	}
	c := cycle{e: e, st: st}
	c.refresh()
	if i, err := e.cfg.Store.SelectedIndex(); err != nil {
		e.log.Warn("failed to read selection", "error", err)
	} else {
		c.st.Selected = document.ClampIndex(i, len(c.st.Documents))
	}
	c.reveal = revealSelection
	c.finish(c.st.Selected)
	return c.st
}

// Handle processes one event.
func (e *Engine) Handle(st State, ev Event) (State, Effect) {
	c := cycle{e: e, st: st}
	selected := st.Selected
	c.refresh()
	c.reflow()

	switch s := c.st.Screen.(type) {
	case ListScreen:
		c.handleList(s, ev)
	case FormScreen:
		c.handleForm(s, ev)
	case ConfirmScreen:
		c.handleConfirm(s, ev)
	default:
		c.st.Screen = ListScreen{FocusedButton: -1}
		c.eff.Repaint = true
	}

	c.finish(selected)
	return c.st, c.eff
}

type reveal int

const (
	revealNone reveal = iota
	revealSelection
	revealTop
	revealBottom
	revealField
)

// cycle is the working set of one Handle call.
type cycle struct {
	e      *Engine
	st     State
	eff    Effect
	reveal reveal
}

func (c *cycle) setStatus(text string) {
	c.st.Status = Status{Text: text}
}

func (c *cycle) setError(text string, err error) {
	if err != nil {
		text += ": " + err.Error()
	}
	c.st.Status = Status{Text: text, Err: true}
	c.e.log.Warn(text)
}

// refresh re-reads the collection. On failure the previous snapshot is kept.
func (c *cycle) refresh() {
	docs, err := c.e.cfg.Store.All()
	if err != nil {
		c.setError("Store read failed", err)
		return
	}
	c.st.Documents = docs
	c.st.Selected = document.ClampIndex(c.st.Selected, len(docs))
}

// save writes docs through and adopts them as the current snapshot.
func (c *cycle) save(docs []document.Document) error {
	if err := c.e.cfg.Store.SetAll(docs); err != nil {
		return err
	}
	c.e.layout.Invalidate()
	c.st.Documents = docs
	c.st.Selected = document.ClampIndex(c.st.Selected, len(docs))
	return nil
}

// reflow recomputes the layout and scroll extents of the active screen.
func (c *cycle) reflow() {
	c.st.Layout = c.e.layout.Build(c.st.Documents, c.st.Width-ScrollbarWidth)
	g := c.st.ListGeometry()
	c.st.List.SetHeight(g.ViewportHeight)
	c.st.List.SetContent(g.TotalLines)

	if f, ok := c.st.Screen.(FormScreen); ok {
		c.st.Screen = c.reflowForm(f)
	}
}

func (c *cycle) reflowForm(f FormScreen) FormScreen {
	if f.Text != nil {
		f.Text.SetWidth(FormFieldWidth(c.st.Width))
	}
	g := c.st.FormGeometry(f, c.e.cfg.MaxTextLines)
	f.View.SetHeight(g.ViewportHeight)
	f.View.SetContent(g.TotalLines)
	return f
}

func (c *cycle) finish(selected int) {
	c.reflow()
	c.applyReveal()
	if c.st.Selected != selected {
		if err := c.e.cfg.Store.SetSelectedIndex(c.st.Selected); err != nil {
			c.e.log.Warn("failed to persist selection", "error", err)
		}
	}
}

func (c *cycle) applyReveal() {
	switch s := c.st.Screen.(type) {
	case ListScreen:
		switch c.reveal {
		case revealTop:
			c.st.List.GotoTop()
		case revealBottom:
			c.st.List.GotoBottom()
		case revealSelection:
			c.revealSelected()
		}
	case FormScreen:
		g := c.st.FormGeometry(s, c.e.cfg.MaxTextLines)
		switch {
		case s.Focus == FieldContent && s.Text != nil:
			s.Sync.Sync(&s.View, g.CursorLine(s))
		case c.reveal == revealField:
			switch s.Focus {
			case FieldLabel:
				s.View.EnsureRangeVisible(g.LabelTop, 1+FieldBorderLines+1)
			default:
				s.View.EnsureRangeVisible(g.ButtonsTop, 1)
			}
		}
		c.st.Screen = s
	}
}

func (c *cycle) revealSelected() {
	i := c.st.Selected
	if i < 0 || i >= len(c.st.Layout.Entries) {
		return
	}
	entry := c.st.Layout.Entries[i]
	c.st.List.EnsureRangeVisible(ListLeadingLines+entry.Top, entry.Height)
}

// toList lands on the list screen, signalling a repaint when arriving from
// another screen.
func (c *cycle) toList() {
	if c.st.Screen == nil || c.st.Screen.Mode() != ModeList {
		c.eff.Repaint = true
	}
	c.st.Screen = ListScreen{FocusedButton: -1}
}

func (c *cycle) quit() {
	c.eff.Quit = true
}
