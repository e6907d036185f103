package editor

import (
	"github.com/rivo/uniseg"

	"github.com/joeycumines/super-document/internal/layout"
)

// Screen chrome shared by the engine and the renderer.
const (
	// TitleLines is the fixed title bar above every scroll region.
	TitleLines = 1
	// StatusLines is the status line below every scroll region.
	StatusLines = 1
	// ScrollbarWidth is the width of the scrollbar column plus its gutter.
	ScrollbarWidth = 2

	// ListLeadingLines is the count line and the blank line after it, at the
	// top of the list content.
	ListLeadingLines = 2
	// ListPlaceholderLines is the empty-list message and its trailing blank.
	ListPlaceholderLines = 2

	// FieldBorderLines is the number of border lines around a form field.
	FieldBorderLines = 2
	// FieldLeft is the column of a field's first text cell, inside its border.
	FieldLeft = 1
	// MinTextLines is the minimum visible height of the content field.
	MinTextLines = 3
)

// Zone ids of the fixed widgets.
const (
	ZoneJumpTop    = "jump-top"
	ZoneJumpBottom = "jump-bottom"

	ZoneFormLabel   = "form-label"
	ZoneFormContent = "form-content"
	ZoneFormSubmit  = "form-submit"
	ZoneFormCancel  = "form-cancel"

	ZoneConfirmYes = "confirm-yes"
	ZoneConfirmNo  = "confirm-no"
)

// ListButton is one of the buttons below the document list.
type ListButton struct {
	Zone  string
	Label string
}

// List buttons, in focus order.
const (
	ButtonAdd = iota
	ButtonLoad
	ButtonCopy
	ButtonShell
	ButtonReset
	ButtonQuit
)

// ListButtons are the buttons rendered after the last document.
var ListButtons = []ListButton{
	ButtonAdd:   {Zone: "btn-add", Label: "[A]dd"},
	ButtonLoad:  {Zone: "btn-load", Label: "[L]oad"},
	ButtonCopy:  {Zone: "btn-copy", Label: "[C]opy"},
	ButtonShell: {Zone: "btn-shell", Label: "[S]hell"},
	ButtonReset: {Zone: "btn-reset", Label: "[R]eset"},
	ButtonQuit:  {Zone: "btn-quit", Label: "[Q]uit"},
}

// ButtonGap is the space between adjacent buttons.
const ButtonGap = 1

// ButtonRows packs the list buttons into rows no wider than width, in
// order. Each row holds indexes into ListButtons.
func ButtonRows(width int) [][]int {
	var (
		rows [][]int
		row  []int
		used int
	)
	for i, b := range ListButtons {
		w := uniseg.StringWidth(b.Label)
		if len(row) > 0 && used+ButtonGap+w > width {
			rows = append(rows, row)
			row, used = nil, 0
		}
		if len(row) > 0 {
			used += ButtonGap
		}
		row = append(row, i)
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// ListGeometry places the list screen.
type ListGeometry struct {
	// ContentWidth is the width available to document boxes.
	ContentWidth int
	// ViewportTop is the screen row of the list viewport.
	ViewportTop    int
	ViewportHeight int
	// ScrollbarColumn is the screen column of the scrollbar.
	ScrollbarColumn int
	// GutterColumn is the blank column left of the scrollbar.
	GutterColumn int
	// LeadingLines is the content above the first box.
	LeadingLines int
	// ButtonsTop is the content row of the first button row.
	ButtonsTop int
	ButtonRows [][]int
	// TotalLines is the content height.
	TotalLines int
}

// ViewportHeight is the height left for the scroll region once the title,
// status and help lines are placed. It is never less than 1.
func (s State) ViewportHeight() int {
	return max(s.Height-TitleLines-StatusLines-len(s.Help()), 1)
}

// ListGeometry computes the list screen's geometry from s.Layout.
func (s State) ListGeometry() ListGeometry {
	g := ListGeometry{
		ContentWidth:    layout.ClampWidth(s.Width - ScrollbarWidth),
		ViewportTop:     TitleLines,
		ViewportHeight:  s.ViewportHeight(),
		ScrollbarColumn: max(s.Width-1, 0),
		GutterColumn:    max(s.Width-ScrollbarWidth, 0),
		LeadingLines:    ListLeadingLines,
	}
	g.ButtonRows = ButtonRows(g.ContentWidth)
	body := s.Layout.TotalHeight
	if len(s.Documents) == 0 {
		body = ListPlaceholderLines
	}
	g.ButtonsTop = g.LeadingLines + body
	g.TotalLines = g.ButtonsTop + len(g.ButtonRows)
	return g
}

// FormGeometry places the input form. Rows are content rows of the form's
// scroll region.
type FormGeometry struct {
	ViewportTop     int
	ViewportHeight  int
	ScrollbarColumn int
	// FieldWidth is the text width inside a field's border.
	FieldWidth int

	// LabelTop is the label caption row; the label box follows it.
	LabelTop int
	// ContentCaptionTop is the content caption row, or -1.
	ContentCaptionTop int
	// TextTop is the first text row of the content field, or -1. It is the
	// fixed-height content preceding the buffer.
	TextTop int
	// TextHeight is the number of visible text rows, 0 without a buffer.
	TextHeight int
	ButtonsTop int
	TotalLines int
}

// FormGeometry computes the geometry of f at the current size. The text
// buffer, when present, must already have its width set.
func (s State) FormGeometry(f FormScreen, maxTextLines int) FormGeometry {
	g := FormGeometry{
		ViewportTop:       TitleLines,
		ViewportHeight:    s.ViewportHeight(),
		ScrollbarColumn:   max(s.Width-1, 0),
		FieldWidth:        FormFieldWidth(s.Width),
		LabelTop:          0,
		ContentCaptionTop: -1,
		TextTop:           -1,
	}
	// caption, boxed single line, blank
	row := 1 + FieldBorderLines + 1 + 1
	if f.Text != nil {
		g.ContentCaptionTop = row
		g.TextTop = row + 1 + 1
		g.TextHeight = max(f.Text.VisualLineCount(), MinTextLines)
		if maxTextLines > 0 {
			g.TextHeight = min(g.TextHeight, max(maxTextLines, MinTextLines))
		}
		row = g.TextTop + g.TextHeight + 1 + 1
	}
	g.ButtonsTop = row
	g.TotalLines = row + 1
	return g
}

// FormFieldWidth is the text width of form fields at a screen width.
func FormFieldWidth(width int) int {
	return max(width-ScrollbarWidth-FieldBorderLines, layout.MinContentWidth-FieldBorderLines)
}

// CursorLine is the content row of the text cursor.
func (g FormGeometry) CursorLine(f FormScreen) int {
	if f.Text == nil || g.TextTop < 0 {
		return g.LabelTop + 2
	}
	line := f.Text.CursorVisualLine()
	if line >= g.TextHeight {
		// the buffer scrolls itself past this height
		line = g.TextHeight - 1
	}
	return g.TextTop + max(line, 0)
}
