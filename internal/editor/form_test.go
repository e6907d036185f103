package editor

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/super-document/internal/document"
)

func TestAddFlow(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20)
	h.key("a")
	f := h.form()
	require.Equal(t, OpAdd, f.Op)
	assert.Equal(t, FieldLabel, f.Focus)
	require.NotNil(t, f.Text)
	assert.False(t, f.ViewportUnlocked())

	h.typeText("Title")
	h.key("tab")
	assert.Equal(t, FieldContent, h.form().Focus)
	h.typeText("hello")
	h.key("enter")
	h.typeText("world")
	h.key("ctrl+s")

	assert.Equal(t, ModeList, h.st.Screen.Mode())
	assert.True(t, h.eff.Repaint)
	assert.Equal(t, Status{Text: "Added document #1"}, h.st.Status)
	require.Len(t, h.store.docs, 1)
	assert.Equal(t, document.Document{ID: 1, Label: "Title", Content: "hello\nworld"}, h.store.docs[0])
	assert.Equal(t, 0, h.st.Selected)
	assert.Equal(t, 0, h.store.selected)
}

func TestAddRequiresContent(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20)
	h.key("a").typeText("label only").key("ctrl+s")

	assert.Equal(t, ModeForm, h.st.Screen.Mode())
	assert.True(t, h.st.Status.Err)
	assert.Equal(t, "Add failed: content is required", h.st.Status.Text)
	assert.Equal(t, "label only", h.form().Label)
	assert.Empty(t, h.store.docs)
}

func TestAddSaveFailureStaysOnForm(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20)
	h.store.failSet = errors.New("disk full")
	h.key("a", "tab").typeText("body").key("ctrl+s")

	assert.Equal(t, ModeForm, h.st.Screen.Mode())
	assert.Equal(t, "Add failed: disk full", h.st.Status.Text)
	assert.Equal(t, "body", h.form().Text.Value())
}

func TestEditPrefill(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20, document.Document{ID: 1, Label: "L", Content: "line1\nline2"})
	h.key("down", "e")

	f := h.form()
	assert.Equal(t, OpEdit, f.Op)
	assert.Equal(t, FieldContent, f.Focus)
	assert.Equal(t, 1, f.EditingID)
	assert.Equal(t, "L", f.Label)
	assert.Equal(t, "line1\nline2", f.Text.Value())

	h.typeText("!")
	h.key("ctrl+s")
	assert.Equal(t, "Updated document #1", h.st.Status.Text)
	assert.Equal(t, "line1\nline2!", h.store.docs[0].Content)
	assert.Equal(t, "L", h.store.docs[0].Label)
	assert.Equal(t, 0, h.st.Selected)
}

func TestEnterEditsSelected(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20, docs(2)...)
	h.key("down", "down", "enter")
	assert.Equal(t, 2, h.form().EditingID)
}

func TestRenameFocusSkipsContent(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20, docs(2)...)
	h.key("down", "down", "R")

	f := h.form()
	require.Equal(t, OpRename, f.Op)
	assert.Nil(t, f.Text)
	assert.Equal(t, "B", f.Label)

	var order []Field
	for i := 0; i < 3; i++ {
		h.key("tab")
		order = append(order, h.form().Focus)
	}
	assert.Equal(t, []Field{FieldSubmit, FieldCancel, FieldLabel}, order)
	h.key("shift+tab")
	assert.Equal(t, FieldCancel, h.form().Focus)
	h.key("left")
	assert.Equal(t, FieldSubmit, h.form().Focus)
	h.key("shift+tab")
	assert.Equal(t, FieldLabel, h.form().Focus)

	h.key("ctrl+u").typeText("New")
	h.key("enter")
	assert.Equal(t, FieldSubmit, h.form().Focus, "enter in the label advances")
	h.key("enter")

	assert.Equal(t, "Renamed document #2", h.st.Status.Text)
	assert.Equal(t, "New", h.store.docs[1].Label)
	assert.Equal(t, "content", h.store.docs[1].Content)
	assert.Equal(t, 1, h.st.Selected)
}

func TestCancelButton(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20, docs(1)...)
	h.key("down", "R", "tab", "right", "enter")
	assert.Equal(t, ModeList, h.st.Screen.Mode())
	assert.Equal(t, "Cancelled", h.st.Status.Text)
	assert.Equal(t, "A", h.store.docs[0].Label)
}

func TestLoad(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20, docs(1)...)
	h.files["/tmp/notes.md"] = "# notes\n"

	h.key("l")
	f := h.form()
	require.Equal(t, OpLoad, f.Op)
	assert.Nil(t, f.Text)

	h.typeText("/tmp/notes.md").key("ctrl+s")
	assert.Equal(t, ModeList, h.st.Screen.Mode())
	assert.Equal(t, "Loaded document #2", h.st.Status.Text)
	require.Len(t, h.store.docs, 2)
	assert.Equal(t, document.Document{ID: 2, Label: "notes.md", Content: "# notes\n"}, h.store.docs[1])
	assert.Equal(t, 1, h.st.Selected)
}

func TestLoadFailuresStayOnForm(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20)
	h.files["/bin/blob"] = "\xff\xfe\x00"

	h.key("l", "ctrl+s")
	assert.Equal(t, ModeForm, h.st.Screen.Mode())
	assert.Equal(t, "Load failed: file path is required", h.st.Status.Text)

	h.typeText("/missing").key("ctrl+s")
	assert.Equal(t, ModeForm, h.st.Screen.Mode())
	assert.Equal(t, "Load failed: no such file", h.st.Status.Text)
	assert.True(t, h.st.Status.Err)

	h.key("ctrl+u").typeText("/bin/blob").key("ctrl+s")
	assert.Equal(t, ModeForm, h.st.Screen.Mode())
	assert.Contains(t, h.st.Status.Text, "not a UTF-8 text file")
	assert.Empty(t, h.store.docs)
}

func TestEditTargetVanished(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20, docs(2)...)
	h.key("down", "e")
	h.store.docs = h.store.docs[1:]
	h.key("ctrl+s")

	assert.Equal(t, ModeList, h.st.Screen.Mode())
	assert.True(t, h.st.Status.Err)
	assert.Equal(t, "Document #1 no longer exists", h.st.Status.Text)
	require.Len(t, h.store.docs, 1)
	assert.Equal(t, 2, h.store.docs[0].ID)
}

func TestContentRejectsFragmentedEscapes(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20)
	h.key("a", "tab").typeText("ok")
	for _, k := range []string{"[<65;33;12M", "5;1H", "\x07"} {
		h.send(KeyEvent{Key: k, Runes: []rune(k)})
	}
	h.send(KeyEvent{Key: "[\x1b[31mred]", Runes: []rune("\x1b[31mred"), Paste: true})
	assert.Equal(t, "ok", h.form().Text.Value())

	h.send(KeyEvent{Key: "[ pasted]", Runes: []rune(" pasted"), Paste: true})
	assert.Equal(t, "ok pasted", h.form().Text.Value())
}

func TestLabelRejectsFragmentedEscapes(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20)
	h.key("l").typeText("a")
	h.send(KeyEvent{Key: "[<0;1;1M", Runes: []rune("[<0;1;1M")})
	assert.Equal(t, "a", h.form().Label)
}

func TestEditLabel(t *testing.T) {
	t.Parallel()
	rk := func(s string) KeyEvent { return KeyEvent{Key: s, Runes: []rune(s)} }
	assert.Equal(t, "ab", editLabel("a", rk("b")))
	assert.Equal(t, "日", editLabel("日本", KeyEvent{Key: "backspace"}))
	assert.Equal(t, "", editLabel("", KeyEvent{Key: "backspace"}))
	assert.Equal(t, "foo ", editLabel("foo bar", KeyEvent{Key: "ctrl+w"}))
	assert.Equal(t, "", editLabel("foo", KeyEvent{Key: "ctrl+w"}))
	assert.Equal(t, "", editLabel("foo bar", KeyEvent{Key: "ctrl+u"}))
	assert.Equal(t, "a b c", editLabel("a", KeyEvent{Key: "[ b\tc]", Runes: []rune(" b\tc"), Paste: true}))
	assert.Equal(t, "a", editLabel("a", KeyEvent{Key: "up"}))
}

func longContent(lines int) string {
	parts := make([]string, lines)
	for i := range parts {
		parts[i] = fmt.Sprintf("l%d", i)
	}
	return strings.Join(parts, "\n")
}

func TestCursorFollowAndManualScroll(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20, document.Document{ID: 1, Content: longContent(41)})
	h.key("down", "e")

	f := h.form()
	g := h.st.FormGeometry(f, 0)
	require.Equal(t, 17, f.View.Height())
	require.Equal(t, 40, f.Text.CursorVisualLine())
	want := g.TextTop + 40 - f.View.Height() + 1
	assert.Equal(t, want, f.View.Offset(), "cursor row sits at the bottom edge")

	h.typeText("x")
	assert.False(t, h.form().ViewportUnlocked())
	assert.Equal(t, want, h.form().View.Offset())

	h.key("pgup")
	assert.True(t, h.form().ViewportUnlocked())
	assert.Equal(t, want-17, h.form().View.Offset())

	h.typeText("y")
	assert.False(t, h.form().ViewportUnlocked(), "typing re-anchors")
	assert.Equal(t, want, h.form().View.Offset())

	h.send(WheelEvent{Delta: -3})
	assert.True(t, h.form().ViewportUnlocked())
	assert.Equal(t, want-3, h.form().View.Offset())

	h.key("up")
	assert.Equal(t, want-3, h.form().View.Offset(), "cursor movement does not override a manual scroll")

	h.key("tab")
	assert.Equal(t, FieldSubmit, h.form().Focus)
	assert.Equal(t, h.form().View.MaxOffset(), h.form().View.Offset())
	h.key("shift+tab")
	assert.Equal(t, FieldContent, h.form().Focus)
	assert.False(t, h.form().ViewportUnlocked(), "focus re-entry locks")
}

func TestFormJumpZonesUnlock(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20, document.Document{ID: 1, Content: longContent(41)})
	h.zones[ZoneJumpTop] = rect{x0: 51, y0: 0, x1: 53, y1: 0}
	h.zones[ZoneJumpBottom] = rect{x0: 55, y0: 0, x1: 57, y1: 0}
	h.key("down", "e")
	require.Positive(t, h.form().View.Offset())

	h.click(52, 0)
	assert.Equal(t, 0, h.form().View.Offset())
	assert.True(t, h.form().ViewportUnlocked())

	h.click(56, 0)
	assert.Equal(t, h.form().View.MaxOffset(), h.form().View.Offset())
}

func TestFormClickPlacesCursor(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20)
	h.key("a", "tab").typeText("abcd").key("shift+tab")
	require.Equal(t, FieldLabel, h.form().Focus)

	// text row 0 is content row 7, screen row 8
	h.zones[ZoneFormContent] = rect{x0: 0, y0: 7, x1: 59, y1: 11}
	h.click(3, 8)
	assert.Equal(t, FieldContent, h.form().Focus)
	h.typeText("X")
	assert.Equal(t, "abXcd", h.form().Text.Value())

	h.zones[ZoneFormLabel] = rect{x0: 0, y0: 2, x1: 59, y1: 4}
	h.click(5, 3)
	assert.Equal(t, FieldLabel, h.form().Focus)

	h.zones[ZoneFormSubmit] = rect{x0: 0, y0: 13, x1: 8, y1: 13}
	h.click(2, 13)
	assert.Equal(t, ModeList, h.st.Screen.Mode())
	assert.Equal(t, "Added document #1", h.st.Status.Text)
}

func TestFormResizeRewrapsText(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20)
	h.key("a")
	h.send(ResizeEvent{Width: 30, Height: 12})
	assert.Equal(t, FormFieldWidth(30), h.form().Text.(*fakeText).width)
	assert.Equal(t, 9, h.form().View.Height())
}

func TestFormQuit(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 60, 20)
	h.key("a", "ctrl+c")
	assert.True(t, h.eff.Quit)
}
