package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/joeycumines/super-document/internal/document"
	"github.com/joeycumines/super-document/internal/editor"
	"github.com/joeycumines/super-document/internal/layout"
	"github.com/joeycumines/super-document/internal/termui/scrollbar"
)

const (
	appTitle    = "Super-Document Builder"
	placeholder = "No documents yet. Press 'a' to add one."
)

// View renders the title bar, the active screen's scroll region, the
// status line and the help lines, top to bottom. Row positions match the
// geometry the engine hit-tests against.
func (m *Model) View() string {
	st := m.state
	width := max(st.Width, 1)

	var (
		title = appTitle
		jump  = true
		body  []string
	)
	switch s := st.Screen.(type) {
	case editor.FormScreen:
		title = formTitle(s)
		body = m.formBody(s)
	case editor.ConfirmScreen:
		jump = false
		body = m.confirmBody(s)
	default:
		body = m.listBody()
	}

	help := st.Help()
	lines := make([]string, 0, editor.TitleLines+len(body)+editor.StatusLines+len(help))
	lines = append(lines, m.titleLine(title, width, jump))
	lines = append(lines, body...)
	lines = append(lines, m.statusLine(width))
	for _, h := range help {
		lines = append(lines, m.styles.help.Render(ansi.Truncate(h, width, "…")))
	}
	return m.zones.scan(strings.Join(lines, "\n"))
}

func (m *Model) titleLine(title string, width int, jump bool) string {
	s := m.styles
	var right string
	if jump {
		right = m.zones.mark(editor.ZoneJumpTop, s.jump.Render("[↑]")) +
			" " +
			m.zones.mark(editor.ZoneJumpBottom, s.jump.Render("[↓]"))
	}
	rw := ansi.StringWidth(right)
	left := s.title.Render(ansi.Truncate(title, max(width-rw-1, 0), "…"))
	gap := max(width-ansi.StringWidth(left)-rw, 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) statusLine(width int) string {
	status := m.state.Status
	if status.Text == "" {
		return ""
	}
	style := m.styles.status
	if status.Err {
		style = m.styles.statusErr
	}
	text := strings.ReplaceAll(status.Text, "\n", " ")
	return style.Render(ansi.Truncate(text, width, "…"))
}

// surface clips content to the scroll window and appends the scrollbar
// column after a one-cell gutter.
func (m *Model) surface(lines []string, width, height, offset, total int) []string {
	vp := viewport.New(width, height)
	vp.SetContent(strings.Join(lines, "\n"))
	vp.SetYOffset(offset)

	bar := scrollbar.New(scrollbar.WithStyles(m.styles.thumb, m.styles.track))
	bar.ContentHeight = total
	bar.ViewportHeight = height
	bar.YOffset = offset

	return strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, vp.View(), " ", bar.View()), "\n")
}

func (m *Model) listBody() []string {
	st := m.state
	s := m.styles
	g := st.ListGeometry()
	offset := st.List.Offset()

	lines := make([]string, 0, g.TotalLines)
	lines = append(lines,
		s.count.Render(fitLine(fmt.Sprintf("Documents: %d", len(st.Documents)), g.ContentWidth)),
		"",
	)
	if len(st.Documents) == 0 {
		lines = append(lines, s.muted.Render(fitLine(placeholder, g.ContentWidth)), "")
	}

	inner := layout.InnerWidth(g.ContentWidth)
	for i, d := range st.Documents {
		box := m.documentBox(d, i == st.Selected, inner)
		if i < len(st.Layout.Entries) {
			// the layout map is what clicks resolve against
			box = fitHeight(box, st.Layout.Entries[i].Height)
		}
		lines = append(lines, box...)
	}

	focused := st.FocusedButton()
	for r, row := range g.ButtonRows {
		top := g.ButtonsTop + r
		visible := top >= offset && top < offset+g.ViewportHeight
		lines = append(lines, m.buttonRow(row, focused, visible))
	}
	return m.surface(lines, g.ContentWidth, g.ViewportHeight, offset, g.TotalLines)
}

// documentBox renders a document's bordered box and its bottom margin.
func (m *Model) documentBox(d document.Document, selected bool, inner int) []string {
	s := m.styles
	box, header := s.box, s.header
	if selected {
		box, header = s.selectedBox, s.selectedHeader
	}
	body := strings.Join([]string{
		header.Width(inner).Render(d.Header()),
		s.preview.Width(inner).Render(document.Preview(d.Content, m.engine.PreviewChars())),
		s.action.Width(inner).Render(document.ActionCaption),
	}, "\n")
	return append(strings.Split(box.Render(body), "\n"), "")
}

func (m *Model) buttonRow(row []int, focused int, visible bool) string {
	s := m.styles
	parts := make([]string, 0, len(row))
	for _, i := range row {
		b := editor.ListButtons[i]
		style := s.button
		if i == focused {
			style = s.focusedButton
		}
		label := style.Render(b.Label)
		if visible {
			label = m.zones.mark(b.Zone, label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, strings.Repeat(" ", editor.ButtonGap))
}

func formTitle(f editor.FormScreen) string {
	switch f.Op {
	case editor.OpEdit:
		return fmt.Sprintf("Edit Document #%d", f.EditingID)
	case editor.OpRename:
		return fmt.Sprintf("Rename Document #%d", f.EditingID)
	case editor.OpLoad:
		return "Load File"
	default:
		return "Add Document"
	}
}

func labelCaption(op editor.Operation) string {
	switch op {
	case editor.OpRename:
		return "New label:"
	case editor.OpLoad:
		return "File path:"
	default:
		return "Label:"
	}
}

func (m *Model) formBody(f editor.FormScreen) []string {
	st := m.state
	s := m.styles
	g := st.FormGeometry(f, m.engine.MaxTextLines())
	offset := f.View.Offset()
	fw := g.FieldWidth
	width := fw + editor.FieldBorderLines

	lines := make([]string, 0, g.TotalLines)
	lines = append(lines, s.caption.Render(fitLine(labelCaption(f.Op), width)))
	top := len(lines)
	lines = append(lines, m.labelBox(f, fw)...)
	m.zones.markRows(lines, editor.ZoneFormLabel, top, len(lines)-top, offset, g.ViewportHeight)
	lines = append(lines, "")

	if f.Text != nil {
		lines = append(lines, s.caption.Render(fitLine("Content (multi-line):", width)))
		top = len(lines)
		lines = append(lines, m.textBox(f, fw, g.TextHeight)...)
		m.zones.markRows(lines, editor.ZoneFormContent, top, len(lines)-top, offset, g.ViewportHeight)
		lines = append(lines, "")
	}

	row := len(lines)
	lines = append(lines, m.formButtons(f, row >= offset && row < offset+g.ViewportHeight))
	return m.surface(lines, width, g.ViewportHeight, offset, g.TotalLines)
}

func (m *Model) labelBox(f editor.FormScreen, fw int) []string {
	s := m.styles
	style, line := s.field, f.Label
	if f.Focus == editor.FieldLabel {
		style = s.focusedField
		line = tail(f.Label, fw-1) + s.cursor.Render(" ")
	}
	return strings.Split(style.Render(fitLine(line, fw)), "\n")
}

func (m *Model) textBox(f editor.FormScreen, fw, height int) []string {
	var rows []string
	if tb, ok := f.Text.(*textBuffer); ok {
		rows = strings.Split(tb.View(), "\n")
	} else {
		rows = strings.Split(f.Text.Value(), "\n")
	}
	style := m.styles.field
	if f.Focus == editor.FieldContent {
		style = m.styles.focusedField
	}
	return strings.Split(style.Render(strings.Join(fitBlock(rows, fw, height), "\n")), "\n")
}

func (m *Model) formButtons(f editor.FormScreen, visible bool) string {
	s := m.styles
	submit, cancel := s.button, s.button
	switch f.Focus {
	case editor.FieldSubmit:
		submit = s.focusedButton
	case editor.FieldCancel:
		cancel = s.focusedButton
	}
	a, b := submit.Render("[Submit]"), cancel.Render("[Cancel]")
	if visible {
		a = m.zones.mark(editor.ZoneFormSubmit, a)
		b = m.zones.mark(editor.ZoneFormCancel, b)
	}
	return a + " " + b
}

// confirmBody centers the modal in the space the list would occupy.
func (m *Model) confirmBody(c editor.ConfirmScreen) []string {
	st := m.state
	s := m.styles
	width := max(st.Width, 1)
	height := st.ViewportHeight()

	yes, no := s.button, s.button
	if c.Focus == editor.ChoiceYes {
		yes = s.danger
	} else {
		no = s.focusedButton
	}
	buttons := m.zones.mark(editor.ZoneConfirmYes, yes.Render("[Y]es")) +
		"  " +
		m.zones.mark(editor.ZoneConfirmNo, no.Render("[N]o"))

	promptWidth := max(min(ansi.StringWidth(c.Prompt), width-8), 1)
	prompt := s.caption.Width(promptWidth).Render(c.Prompt)
	box := s.modal.Render(lipgloss.JoinVertical(lipgloss.Center, prompt, "", buttons))

	placed := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	return fitBlock(strings.Split(placed, "\n"), width, height)
}

// fitHeight cuts or pads lines to exactly n.
func fitHeight(lines []string, n int) []string {
	if len(lines) >= n {
		return lines[:n]
	}
	return append(lines, make([]string, n-len(lines))...)
}
