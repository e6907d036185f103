// Package tui runs the document editor as a bubbletea program. It
// translates terminal messages into editor events, applies the engine's
// effects and renders editor state.
package tui

import (
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/joeycumines/super-document/internal/editor"
)

// wheelLines is the number of lines scrolled per wheel step.
const wheelLines = 3

// Initial size, used until the terminal reports its own.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Options configures a run of the editor.
type Options struct {
	Store    editor.Store
	Exporter editor.Exporter
	// Clipboard defaults to the system clipboard.
	Clipboard editor.Clipboard
	// Files defaults to the local file system.
	Files editor.FileReader

	// Theme defaults to DefaultTheme.
	Theme        Theme
	PreviewChars int
	// MaxTextLines caps the content field height; 0 is unbounded.
	MaxTextLines int

	Mouse     bool
	AltScreen bool

	Logger *slog.Logger

	Input  io.Reader
	Output io.Writer
}

// Result is the outcome of a run, readable once it returns.
type Result struct {
	// DropToShell is set when the user chose the shell over quitting.
	DropToShell bool
}

// Model is the bubbletea model hosting an editor.Engine.
type Model struct {
	engine *editor.Engine
	state  editor.State
	styles styles
	zones  *zones
	result Result
	log    *slog.Logger
}

var _ tea.Model = (*Model)(nil)

// NewModel builds the model. zm may be nil, which disables zone hits.
func NewModel(opts Options, zm *zone.Manager) *Model {
	if opts.Theme == (Theme{}) {
		opts.Theme = DefaultTheme()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard{}
	}
	if opts.Files == nil {
		opts.Files = OSFiles{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Model{
		styles: newStyles(opts.Theme),
		zones:  newZones(zm),
		log:    log,
	}
	maxLines := opts.MaxTextLines
	m.engine = editor.New(editor.Config{
		Store:         opts.Store,
		Measurer:      Measurer{},
		NewTextBuffer: func() editor.TextBuffer { return newTextBuffer(maxLines) },
		Zones:         m.zones,
		Clipboard:     opts.Clipboard,
		Files:         opts.Files,
		Exporter:      opts.Exporter,
		PreviewChars:  opts.PreviewChars,
		MaxTextLines:  maxLines,
		Logger:        log,
	})
	m.state = m.engine.Init(defaultWidth, defaultHeight)
	return m
}

// State returns the current editor state.
func (m *Model) State() editor.State { return m.state }

// Result returns the run result.
func (m *Model) Result() Result { return m.result }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ev, ok := translate(msg)
	if !ok {
		return m, nil
	}
	var eff editor.Effect
	m.state, eff = m.engine.Handle(m.state, ev)
	if eff.Shell {
		m.result.DropToShell = true
	}
	switch {
	case eff.Quit:
		return m, tea.Quit
	case eff.Repaint:
		return m, tea.ClearScreen
	}
	return m, nil
}

// translate converts a bubbletea message into an editor event.
func translate(msg tea.Msg) (editor.Event, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return editor.KeyEvent{
			Key:   msg.String(),
			Runes: msg.Runes,
			Paste: msg.Paste,
			Raw:   msg,
		}, true
	case tea.MouseMsg:
		return translateMouse(msg)
	case tea.WindowSizeMsg:
		return editor.ResizeEvent{Width: msg.Width, Height: msg.Height}, true
	}
	return nil, false
}

// translateMouse keeps presses only. Wheel "presses" become scroll steps
// and never select anything.
func translateMouse(msg tea.MouseMsg) (editor.Event, bool) {
	if msg.Action != tea.MouseActionPress {
		return nil, false
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return editor.WheelEvent{X: msg.X, Y: msg.Y, Delta: -wheelLines}, true
	case tea.MouseButtonWheelDown:
		return editor.WheelEvent{X: msg.X, Y: msg.Y, Delta: wheelLines}, true
	case tea.MouseButtonLeft:
		return editor.PressEvent{X: msg.X, Y: msg.Y, Button: editor.ButtonLeft}, true
	case tea.MouseButtonMiddle:
		return editor.PressEvent{X: msg.X, Y: msg.Y, Button: editor.ButtonMiddle}, true
	case tea.MouseButtonRight:
		return editor.PressEvent{X: msg.X, Y: msg.Y, Button: editor.ButtonRight}, true
	}
	return nil, false
}
