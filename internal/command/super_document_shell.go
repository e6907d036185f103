package command

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joeycumines/go-prompt"
	istrings "github.com/joeycumines/go-prompt/strings"

	"github.com/joeycumines/super-document/internal/document"
	"github.com/joeycumines/super-document/internal/editor"
	"github.com/joeycumines/super-document/internal/logging"
)

const shellPrefix = "(super-document) > "

// shellAction is what the prompt loop does after a line.
type shellAction int

const (
	shellContinue shellAction = iota
	shellExit
	shellTUI
)

type shellCommand struct {
	name, args, help string
}

var shellCommands = []shellCommand{
	{"list", "", "List documents"},
	{"add", "<content>", "Add a document (\\n in content becomes a newline)"},
	{"rm", "<id>", "Remove a document"},
	{"rename", "<id> [label]", "Set or clear a document's label"},
	{"show", "<id>", "Print a document"},
	{"load", "<path>", "Add a document from a file"},
	{"copy", "", "Copy the assembled prompt to the clipboard"},
	{"export", "", "Print the assembled prompt"},
	{"reset", "", "Remove all documents"},
	{"log", "[n]", "Show recent log entries"},
	{"tui", "", "Return to the visual editor"},
	{"help", "", "Show this help"},
	{"exit", "", "Exit (also: quit)"},
}

// documentShell is the line-oriented editor over the same Store as the
// visual one.
type documentShell struct {
	store        editor.Store
	exporter     editor.Exporter
	clipboard    editor.Clipboard
	files        editor.FileReader
	log          *logging.Logger
	previewChars int
	out          io.Writer
	history      []string
}

// execute runs one input line.
func (s *documentShell) execute(line string) shellAction {
	line = strings.TrimSpace(line)
	if line == "" {
		return shellContinue
	}
	s.history = append(s.history, line)
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	var err error
	switch name {
	case "exit", "quit":
		return shellExit
	case "tui":
		return shellTUI
	case "help":
		s.help()
	case "list", "ls":
		err = s.list()
	case "add":
		err = s.add(rest)
	case "rm", "remove", "delete":
		err = s.remove(rest)
	case "rename":
		err = s.rename(rest)
	case "show":
		err = s.show(rest)
	case "load":
		err = s.load(rest)
	case "copy":
		err = s.copy()
	case "export":
		err = s.export()
	case "reset":
		err = s.reset()
	case "log":
		err = s.tail(rest)
	default:
		err = fmt.Errorf("unknown command: %s (type 'help')", name)
	}
	if err != nil {
		_, _ = fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return shellContinue
}

func (s *documentShell) help() {
	_, _ = fmt.Fprintln(s.out, "Commands:")
	for _, c := range shellCommands {
		usage := c.name
		if c.args != "" {
			usage += " " + c.args
		}
		_, _ = fmt.Fprintf(s.out, "  %-20s %s\n", usage, c.help)
	}
}

func (s *documentShell) list() error {
	docs, err := s.store.All()
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		_, _ = fmt.Fprintln(s.out, "No documents.")
		return nil
	}
	for _, d := range docs {
		_, _ = fmt.Fprintf(s.out, "%s: %s\n", d.Header(), document.Preview(d.Content, s.previewChars))
	}
	return nil
}

func (s *documentShell) add(content string) error {
	content = strings.ReplaceAll(content, `\n`, "\n")
	if strings.TrimSpace(content) == "" {
		return errors.New("content is required")
	}
	id, err := s.appendDocument("", content)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "Added document #%d\n", id)
	return nil
}

func (s *documentShell) load(path string) error {
	if path == "" {
		return errors.New("file path is required")
	}
	label, content, err := editor.ReadTextFile(s.files, path)
	if err != nil {
		return err
	}
	id, err := s.appendDocument(label, content)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "Loaded document #%d\n", id)
	return nil
}

// appendDocument stores a new document last and selects it.
func (s *documentShell) appendDocument(label, content string) (int, error) {
	docs, err := s.store.All()
	if err != nil {
		return 0, err
	}
	id, err := s.store.NextID()
	if err != nil {
		return 0, err
	}
	docs = append(docs, document.Document{ID: id, Label: label, Content: content})
	if err := s.store.SetAll(docs); err != nil {
		return 0, err
	}
	if err := s.store.SetSelectedIndex(len(docs) - 1); err != nil {
		return 0, err
	}
	s.log.Info("document added", "id", id, "via", "shell")
	return id, nil
}

// lookup parses an id argument and finds its document.
func (s *documentShell) lookup(arg string) ([]document.Document, int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil {
		return nil, -1, fmt.Errorf("invalid document id: %q", arg)
	}
	docs, err := s.store.All()
	if err != nil {
		return nil, -1, err
	}
	i := document.IndexOf(docs, id)
	if i < 0 {
		return nil, -1, fmt.Errorf("document #%d not found", id)
	}
	return docs, i, nil
}

func (s *documentShell) remove(arg string) error {
	docs, i, err := s.lookup(arg)
	if err != nil {
		return err
	}
	id := docs[i].ID
	selected, err := s.store.SelectedIndex()
	if err != nil {
		return err
	}
	docs, _ = document.Remove(docs, id)
	if err := s.store.SetAll(docs); err != nil {
		return err
	}
	if err := s.store.SetSelectedIndex(document.SelectionAfterRemove(selected, i, len(docs))); err != nil {
		return err
	}
	s.log.Info("document deleted", "id", id, "via", "shell")
	_, _ = fmt.Fprintf(s.out, "Deleted document #%d\n", id)
	return nil
}

func (s *documentShell) rename(rest string) error {
	arg, label, _ := strings.Cut(rest, " ")
	docs, i, err := s.lookup(arg)
	if err != nil {
		return err
	}
	d := docs[i]
	d.Label = strings.TrimSpace(label)
	docs, _ = document.Replace(docs, d)
	if err := s.store.SetAll(docs); err != nil {
		return err
	}
	s.log.Info("document changed", "id", d.ID, "op", "rename", "via", "shell")
	_, _ = fmt.Fprintf(s.out, "Renamed document #%d\n", d.ID)
	return nil
}

func (s *documentShell) show(arg string) error {
	docs, i, err := s.lookup(arg)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "%s\n%s\n", docs[i].Header(), docs[i].Content)
	return nil
}

func (s *documentShell) assemble() (string, error) {
	docs, err := s.store.All()
	if err != nil {
		return "", err
	}
	return s.exporter.Export(docs)
}

func (s *documentShell) copy() error {
	text, err := s.assemble()
	if err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}
	if err := s.clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}
	s.log.Info("copied prompt", "bytes", len(text), "via", "shell")
	_, _ = fmt.Fprintf(s.out, "Copied prompt (%d chars)\n", utf8.RuneCountInString(text))
	return nil
}

func (s *documentShell) export() error {
	text, err := s.assemble()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out, text)
	return nil
}

func (s *documentShell) reset() error {
	if err := s.store.SetAll(nil); err != nil {
		return err
	}
	if err := s.store.SetSelectedIndex(-1); err != nil {
		return err
	}
	s.log.Info("documents reset", "via", "shell")
	_, _ = fmt.Fprintln(s.out, "Reset: all documents cleared")
	return nil
}

func (s *documentShell) tail(arg string) error {
	n := 20
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid count: %q", arg)
		}
		n = v
	}
	for _, e := range s.log.Recent(n) {
		_, _ = fmt.Fprintf(s.out, "%s %-5s %s", e.Time.Format("15:04:05"), e.Level, e.Message)
		for _, k := range sortedKeys(e.Attrs) {
			_, _ = fmt.Fprintf(s.out, " %s=%s", k, e.Attrs[k])
		}
		_, _ = fmt.Fprintln(s.out)
	}
	return nil
}

// complete suggests command names for the first word.
func (s *documentShell) complete(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	before := d.TextBeforeCursor()
	if before == "" {
		before = d.Text
	}
	end := istrings.RuneNumber(utf8.RuneCountInString(before))
	trimmed := strings.TrimLeft(before, " ")
	if strings.Contains(trimmed, " ") {
		return nil, end, end
	}
	var out []prompt.Suggest
	for _, c := range shellCommands {
		if strings.HasPrefix(c.name, trimmed) {
			out = append(out, prompt.Suggest{Text: c.name, Description: c.help})
		}
	}
	return out, end - istrings.RuneNumber(utf8.RuneCountInString(trimmed)), end
}

// run reads lines until exit, tui, or end of input.
func (s *documentShell) run() shellAction {
	_, _ = fmt.Fprintln(s.out, "Super-Document shell. Type 'help' for commands, 'tui' for the visual editor.")
	action := shellContinue
	p := prompt.New(
		func(line string) { action = s.execute(line) },
		prompt.WithPrefix(shellPrefix),
		prompt.WithPrefixTextColor(prompt.Cyan),
		prompt.WithInputTextColor(prompt.Green),
		prompt.WithCompleter(s.complete),
		prompt.WithHistory(slices.Clone(s.history)),
		// consulted after the executor on enter
		prompt.WithExitChecker(func(string, bool) bool { return action != shellContinue }),
	)
	p.Run()
	if action == shellContinue {
		// end of input
		return shellExit
	}
	return action
}
