package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"

	"github.com/joeycumines/super-document/internal/document"
	"github.com/joeycumines/super-document/internal/termui/keyinput"
)

var errNotText = errors.New("not a UTF-8 text file")

// openForm enters the input form for op, pre-filled from d when editing.
func (c *cycle) openForm(op Operation, d document.Document) {
	f := FormScreen{Op: op, Focus: FieldLabel, EditingID: d.ID}
	switch op {
	case OpAdd, OpEdit:
		f.Label = d.Label
		f.Text = c.e.cfg.NewTextBuffer()
		f.Text.SetWidth(FormFieldWidth(c.st.Width))
		f.Text.SetValue(d.Content)
		f.Text.Blur()
		if op == OpEdit {
			f.Focus = FieldContent
			f.Text.Focus()
		}
	case OpRename:
		f.Label = d.Label
	case OpLoad:
		f.EditingID = 0
	}
	f.Sync.Enter()
	c.st.Screen = f
	c.reveal = revealField
}

func (c *cycle) openEdit(i int) {
	c.openForm(OpEdit, c.st.Documents[i])
}

func (c *cycle) openRename(i int) {
	c.openForm(OpRename, c.st.Documents[i])
}

func (c *cycle) handleForm(f FormScreen, ev Event) {
	switch ev := ev.(type) {
	case KeyEvent:
		c.formKey(f, ev)
	case PressEvent:
		c.formPress(f, ev)
	case WheelEvent:
		f.View.ScrollBy(ev.Delta)
		f.Sync.Scrolled()
		c.st.Screen = f
	case ResizeEvent:
		c.st.Width, c.st.Height = ev.Width, ev.Height
	}
}

// fields lists the focus order of f.
func (f FormScreen) fields() []Field {
	if f.Op.HasContent() {
		return []Field{FieldLabel, FieldContent, FieldSubmit, FieldCancel}
	}
	return []Field{FieldLabel, FieldSubmit, FieldCancel}
}

// moveFocus steps the focus dir places through fields, wrapping.
func (f FormScreen) moveFocus(dir int) Field {
	order := f.fields()
	pos := 0
	for i, fl := range order {
		if fl == f.Focus {
			pos = i
		}
	}
	return order[(pos+dir+len(order))%len(order)]
}

func (c *cycle) setFocus(f *FormScreen, to Field) {
	if to == FieldContent && f.Text == nil {
		to = FieldSubmit
	}
	if f.Text != nil {
		if to == FieldContent {
			f.Text.Focus()
		} else {
			f.Text.Blur()
		}
	}
	if to == FieldContent && f.Focus != FieldContent {
		f.Sync.Enter()
	}
	f.Focus = to
	c.reveal = revealField
}

func (c *cycle) formKey(f FormScreen, ev KeyEvent) {
	k := formKeys
	switch {
	case key.Matches(ev, k.Quit):
		c.quit()
		return
	case key.Matches(ev, k.Cancel):
		c.cancelForm()
		return
	case key.Matches(ev, k.Submit):
		c.submitForm(f)
		return
	case key.Matches(ev, k.Next):
		c.setFocus(&f, f.moveFocus(1))
	case key.Matches(ev, k.Prev):
		c.setFocus(&f, f.moveFocus(-1))
	case key.Matches(ev, k.PageUp):
		f.View.PageUp()
		f.Sync.Scrolled()
	case key.Matches(ev, k.PageDown):
		f.View.PageDown()
		f.Sync.Scrolled()
	default:
		switch f.Focus {
		case FieldLabel:
			if key.Matches(ev, k.Enter) {
				c.setFocus(&f, f.moveFocus(1))
			} else {
				f.Label = editLabel(f.Label, ev)
			}
		case FieldContent:
			c.editText(&f, ev)
		case FieldSubmit, FieldCancel:
			switch {
			case key.Matches(ev, k.Enter) && f.Focus == FieldSubmit:
				c.submitForm(f)
				return
			case key.Matches(ev, k.Enter):
				c.cancelForm()
				return
			case ev.Key == "left" || ev.Key == "up":
				c.setFocus(&f, FieldSubmit)
			case ev.Key == "right" || ev.Key == "down":
				c.setFocus(&f, FieldCancel)
			case key.Matches(ev, k.Home):
				f.View.GotoTop()
				f.Sync.Scrolled()
			case key.Matches(ev, k.End):
				f.View.GotoBottom()
				f.Sync.Scrolled()
			}
		}
	}
	c.st.Screen = f
}

// editText forwards a key to the text buffer after validation. A change in
// the buffer's value re-anchors the view to the cursor.
func (c *cycle) editText(f *FormScreen, ev KeyEvent) {
	if f.Text == nil {
		return
	}
	if r := keyinput.ValidateTextareaInput(ev.Key, ev.Paste); !r.Valid {
		c.e.log.Debug("discarded key", "key", ev.Key, "reason", r.Reason)
		return
	}
	before := f.Text.Value()
	f.Text.HandleKey(ev)
	if f.Text.Value() != before {
		f.Sync.Edited()
	}
}

// editLabel applies a key to a single-line label. Invalid input is dropped.
func editLabel(label string, ev KeyEvent) string {
	if r := keyinput.ValidateLabelInput(ev.Key, ev.Paste); !r.Valid {
		return label
	}
	switch ev.Key {
	case "backspace", "ctrl+h":
		if label == "" {
			return label
		}
		_, size := utf8.DecodeLastRuneInString(label)
		return label[:len(label)-size]
	case "ctrl+u":
		return ""
	case "ctrl+w":
		trimmed := strings.TrimRightFunc(label, unicode.IsSpace)
		if i := strings.LastIndexFunc(trimmed, unicode.IsSpace); i >= 0 {
			return trimmed[:i+1]
		}
		return ""
	}
	var sb strings.Builder
	sb.WriteString(label)
	for _, r := range ev.Runes {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			sb.WriteRune(' ')
		case unicode.IsPrint(r):
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (c *cycle) formPress(f FormScreen, ev PressEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	zones := c.e.cfg.Zones
	g := c.st.FormGeometry(f, c.e.cfg.MaxTextLines)
	switch {
	case zones.InBounds(ZoneJumpTop, ev.X, ev.Y):
		f.View.GotoTop()
		f.Sync.Scrolled()
	case zones.InBounds(ZoneJumpBottom, ev.X, ev.Y):
		f.View.GotoBottom()
		f.Sync.Scrolled()
	case zones.InBounds(ZoneFormSubmit, ev.X, ev.Y):
		c.submitForm(f)
		return
	case zones.InBounds(ZoneFormCancel, ev.X, ev.Y):
		c.cancelForm()
		return
	case zones.InBounds(ZoneFormLabel, ev.X, ev.Y):
		c.setFocus(&f, FieldLabel)
	case f.Text != nil && zones.InBounds(ZoneFormContent, ev.X, ev.Y):
		c.setFocus(&f, FieldContent)
		line := ev.Y - g.ViewportTop + f.View.Offset() - g.TextTop
		if line >= 0 && line < g.TextHeight {
			row, col := f.Text.VisualToLogical(line, ev.X-FieldLeft)
			f.Text.SetCursorPosition(row, col)
		}
	}
	c.st.Screen = f
}

func (c *cycle) cancelForm() {
	c.toList()
	c.setStatus("Cancelled")
	c.reveal = revealSelection
}

func (c *cycle) submitForm(f FormScreen) {
	var err error
	switch f.Op {
	case OpAdd:
		err = c.submitAdd(f)
	case OpEdit, OpRename:
		err = c.submitUpdate(f)
	case OpLoad:
		err = c.submitLoad(f)
	}
	if err != nil {
		// stay on the form; the status carries the error
		c.st.Screen = f
		return
	}
	c.reveal = revealSelection
}

func (c *cycle) submitAdd(f FormScreen) error {
	content := f.Text.Value()
	if strings.TrimSpace(content) == "" {
		err := errors.New("content is required")
		c.setError("Add failed", err)
		return err
	}
	return c.appendDocument(strings.TrimSpace(f.Label), content, "Add")
}

// appendDocument stores a new document at the end of the collection.
// action names the operation in status text ("Add", "Load").
func (c *cycle) appendDocument(label, content, action string) error {
	id, err := c.e.cfg.Store.NextID()
	if err != nil {
		c.setError(action+" failed", err)
		return err
	}
	docs := append(document.Clone(c.st.Documents), document.Document{ID: id, Label: label, Content: content})
	if err := c.save(docs); err != nil {
		c.setError(action+" failed", err)
		return err
	}
	c.st.Selected = len(docs) - 1
	c.toList()
	c.setStatus(fmt.Sprintf("%sed document #%d", action, id))
	c.e.log.Info("document added", "id", id, "via", strings.ToLower(action))
	return nil
}

func (c *cycle) submitUpdate(f FormScreen) error {
	i := document.IndexOf(c.st.Documents, f.EditingID)
	if i < 0 {
		// the target vanished from the store; nothing left to edit
		c.toList()
		c.setError(fmt.Sprintf("Document #%d no longer exists", f.EditingID), nil)
		return nil
	}
	d := c.st.Documents[i]
	d.Label = strings.TrimSpace(f.Label)
	verb := "Renamed"
	if f.Op == OpEdit {
		d.Content = f.Text.Value()
		verb = "Updated"
	}
	docs, _ := document.Replace(c.st.Documents, d)
	if err := c.save(docs); err != nil {
		c.setError(strings.TrimSuffix(verb, "d")+" failed", err)
		return err
	}
	c.st.Selected = i
	c.toList()
	c.setStatus(fmt.Sprintf("%s document #%d", verb, d.ID))
	c.e.log.Info("document changed", "id", d.ID, "op", f.Op.String())
	return nil
}

func (c *cycle) submitLoad(f FormScreen) error {
	path := strings.TrimSpace(f.Label)
	if path == "" {
		err := errors.New("file path is required")
		c.setError("Load failed", err)
		return err
	}
	label, content, err := ReadTextFile(c.e.cfg.Files, path)
	if err != nil {
		c.setError("Load failed", err)
		return err
	}
	return c.appendDocument(label, content, "Load")
}

// ReadTextFile reads a file to be loaded as a document. A leading "~" is
// expanded, the contents must be UTF-8 and label is the file's base name.
func ReadTextFile(files FileReader, path string) (label, content string, err error) {
	if files == nil {
		return "", "", errNoFiles
	}
	path = expandHome(path)
	data, err := files.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	if !utf8.Valid(data) {
		return "", "", fmt.Errorf("%s: %w", path, errNotText)
	}
	return filepath.Base(path), string(data), nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
