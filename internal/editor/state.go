package editor

import (
	"github.com/joeycumines/super-document/internal/document"
	"github.com/joeycumines/super-document/internal/inputsync"
	"github.com/joeycumines/super-document/internal/layout"
	"github.com/joeycumines/super-document/internal/scroll"
)

// Mode names the active screen.
type Mode int

const (
	ModeList Mode = iota
	ModeForm
	ModeConfirm
)

func (m Mode) String() string {
	switch m {
	case ModeList:
		return "LIST"
	case ModeForm:
		return "INPUT_FORM"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

// Screen is the active screen and its private state. Exactly one of
// ListScreen, FormScreen or ConfirmScreen.
type Screen interface {
	Mode() Mode
}

// ListScreen is the document list.
type ListScreen struct {
	// FocusedButton is the focused list button, or -1. While a button is
	// focused no document is selected.
	FocusedButton int
}

// Operation is what an input form does on submit.
type Operation int

const (
	OpAdd Operation = iota
	OpEdit
	OpLoad
	OpRename
)

func (o Operation) String() string {
	switch o {
	case OpAdd:
		return "ADD"
	case OpEdit:
		return "EDIT"
	case OpLoad:
		return "LOAD"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// HasContent reports whether the operation edits a text buffer.
func (o Operation) HasContent() bool { return o == OpAdd || o == OpEdit }

// Field is a focusable element of the input form.
type Field int

const (
	FieldLabel Field = iota
	FieldContent
	FieldSubmit
	FieldCancel
)

func (f Field) String() string {
	switch f {
	case FieldLabel:
		return "LABEL"
	case FieldContent:
		return "CONTENT"
	case FieldSubmit:
		return "SUBMIT"
	case FieldCancel:
		return "CANCEL"
	default:
		return "UNKNOWN"
	}
}

// FormScreen is the add/edit/load/rename form.
type FormScreen struct {
	Op    Operation
	Focus Field
	// Label is the label field, reused as the path for OpLoad and the new
	// name for OpRename.
	Label string
	// Text is present only for OpAdd and OpEdit.
	Text TextBuffer
	// EditingID is the target document for OpEdit and OpRename, else 0.
	EditingID int
	// View scrolls the form body.
	View scroll.Viewport
	Sync inputsync.Synchronizer
}

// ViewportUnlocked reports whether manual scrolling owns the form's offset.
func (f FormScreen) ViewportUnlocked() bool { return f.Sync.Unlocked() }

// TargetAll is the confirmation target meaning every document.
const TargetAll = -1

// ConfirmChoice is the focused modal button.
type ConfirmChoice int

const (
	ChoiceNo ConfirmChoice = iota
	ChoiceYes
)

// ConfirmScreen is the destructive-action modal.
type ConfirmScreen struct {
	// Target is a document id, or TargetAll.
	Target int
	Prompt string
	Focus  ConfirmChoice
}

func (ListScreen) Mode() Mode    { return ModeList }
func (FormScreen) Mode() Mode    { return ModeForm }
func (ConfirmScreen) Mode() Mode { return ModeConfirm }

// Status is the one-line message shown under the active screen.
type Status struct {
	Text string
	Err  bool
}

// State is the complete, renderable state of the editor. Handlers return a
// new State; the only shared handle inside it is FormScreen.Text.
type State struct {
	Width, Height int

	// Documents is the collection as read at the start of the cycle.
	Documents []document.Document
	// Selected is the selected document index, or -1.
	Selected int

	Screen Screen

	// List scrolls the document list.
	List scroll.Viewport
	// Layout is the list's layout map for the current width.
	Layout layout.Map

	Status   Status
	LongHelp bool
}

// Effect is what the caller must do after a handled event.
type Effect struct {
	// Repaint requests a full-surface repaint.
	Repaint bool
	// Quit ends the run loop.
	Quit bool
	// Shell asks the host to drop to its shell once the loop ends.
	Shell bool
}

// FocusedButton returns the focused list button, or -1 outside the list.
func (s State) FocusedButton() int {
	if ls, ok := s.Screen.(ListScreen); ok {
		return ls.FocusedButton
	}
	return -1
}
