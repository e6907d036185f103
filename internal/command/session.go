package command

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joeycumines/super-document/internal/config"
	"github.com/joeycumines/super-document/internal/session"
	"github.com/joeycumines/super-document/internal/storage"
)

// SessionCommand manages the file system backend's stored sessions.
type SessionCommand struct {
	*BaseCommand
	cfg *config.Config
	dry bool
	yes bool
	// stdin answers confirmation prompts.
	stdin io.Reader
}

// NewSessionCommand creates the session command.
func NewSessionCommand(cfg *config.Config) *SessionCommand {
	return &SessionCommand{
		BaseCommand: NewBaseCommand(
			"session",
			"Manage persisted sessions",
			"session [list|clean|purge|delete|info|path|id]",
		),
		cfg:   cfg,
		stdin: os.Stdin,
	}
}

func (c *SessionCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.dry, "dry-run", false, "Don't actually delete; show what would be deleted")
	fs.BoolVar(&c.yes, "y", false, "Assume yes to confirmation prompts")
}

// subFlags returns a FlagSet for a subcommand whose usage goes to stderr.
func (c *SessionCommand) subFlags(sub, synopsis, summary string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("session-"+sub, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: superdoc %s %s\n\n%s\n", c.Name(), synopsis, summary)
		var hasFlags bool
		fs.VisitAll(func(*flag.Flag) { hasFlags = true })
		if hasFlags {
			_, _ = fmt.Fprintln(stderr, "\nOptions:")
			fs.SetOutput(stderr)
			fs.PrintDefaults()
			fs.SetOutput(io.Discard)
		}
	}
	return fs
}

// parse runs fs over args. done is true when help was requested.
func parse(fs *flag.FlagSet, args []string) (done bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return true, err
	}
	return false, nil
}

func (c *SessionCommand) Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return c.list(stdout, "text", "default")
	}

	sub, rest := strings.ToLower(args[0]), args[1:]
	switch sub {
	case "id":
		fs := c.subFlags(sub, "id", "Print the session id this terminal resolves to.", stderr)
		explicit := fs.String("session", "", "Session id override (as for super-document)")
		if done, err := parse(fs, rest); done {
			return err
		}
		if *explicit == "" {
			*explicit = config.DefaultSchema().Resolve(c.cfg, "session.id")
		}
		id, source := session.GetSessionID(ctx, *explicit)
		_, _ = fmt.Fprintf(stdout, "%s\t(%s)\n", id, source)
		return nil

	case "list":
		fs := c.subFlags(sub, "list", "Show all stored sessions.", stderr)
		format := fs.String("format", "text", "Output format: text|json")
		sortMode := fs.String("sort", "default", "Sorting: default (newest first) | active (active sessions first)")
		if done, err := parse(fs, rest); done {
			return err
		}
		return c.list(stdout, *format, *sortMode)

	case "clean", "purge":
		summary := "Remove sessions exceeding the [sessions] retention limits."
		if sub == "purge" {
			summary = "Remove every idle session, ignoring retention limits."
		}
		fs := c.subFlags(sub, sub, summary, stderr)
		fs.BoolVar(&c.yes, "y", c.yes, "Assume yes to confirmation prompts")
		fs.BoolVar(&c.dry, "dry-run", c.dry, "Don't actually delete; show what would be deleted")
		if done, err := parse(fs, rest); done {
			return err
		}
		if !c.dry && !c.yes {
			question := "This will permanently remove sessions according to your configured policies. Proceed? (y/N): "
			if sub == "purge" {
				question = "This will permanently purge all idle sessions (ignoring retention). Proceed? (y/N): "
			}
			if ok, err := c.confirm(stdout, question); err != nil || !ok {
				return err
			}
		}
		return c.runCleanup(stdout, sub == "purge")

	case "delete":
		ids, flagArgs := splitTerminator(rest)
		fs := c.subFlags(sub, "delete [-y] [-dry-run] <session-id>... [-- <session-id>...]",
			"Remove specific sessions from storage. This is irreversible.", stderr)
		fs.BoolVar(&c.yes, "y", c.yes, "Assume yes to confirmation prompts")
		fs.BoolVar(&c.dry, "dry-run", c.dry, "Don't actually delete; show what would be deleted")
		// flags may follow ids
		var named []string
		for rest := flagArgs; ; rest = fs.Args()[1:] {
			if done, err := parse(fs, rest); done {
				return err
			}
			if fs.NArg() == 0 {
				break
			}
			named = append(named, fs.Arg(0))
		}
		ids = append(named, ids...)
		if len(ids) == 0 {
			return errors.New("delete requires a session id")
		}
		if !c.dry && !c.yes {
			question := fmt.Sprintf("Are you sure you want to delete session '%s'? This is irreversible. (y/N): ", ids[0])
			if len(ids) > 1 {
				question = fmt.Sprintf("Are you sure you want to delete %d sessions? This is irreversible. (y/N): ", len(ids))
			}
			if ok, err := c.confirm(stdout, question); err != nil || !ok {
				return err
			}
		}
		var failed []string
		for _, id := range ids {
			if err := c.delete(stdout, id); err != nil {
				failed = append(failed, fmt.Sprintf("%s: %v", id, err))
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("failed to delete: %s", strings.Join(failed, "; "))
		}
		return nil

	case "info":
		fs := c.subFlags(sub, "info <session-id>", "Show the stored data of a session.", stderr)
		if done, err := parse(fs, rest); done {
			return err
		}
		if fs.NArg() < 1 {
			return errors.New("info requires a session id")
		}
		return c.info(stdout, fs.Arg(0))

	case "path":
		fs := c.subFlags(sub, "path [session-id]", "Show the sessions directory, or a session's file.", stderr)
		if done, err := parse(fs, rest); done {
			return err
		}
		if fs.NArg() == 0 {
			// derived from a file path so test path overrides apply
			p, err := storage.SessionFilePath("probe")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(stdout, filepath.Dir(p))
			return nil
		}
		p, err := storage.SessionFilePath(fs.Arg(0))
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(stdout, p)
		return nil
	}
	return fmt.Errorf("unknown subcommand: %s", args[0])
}

// splitTerminator separates the ids after a "--" from the arguments
// before it, which may still contain flags.
func splitTerminator(args []string) (ids, rest []string) {
	for i, a := range args {
		if a == "--" {
			return append([]string(nil), args[i+1:]...), args[:i]
		}
	}
	return nil, args
}

func (c *SessionCommand) confirm(w io.Writer, question string) (bool, error) {
	_, _ = fmt.Fprint(w, question)
	answer, err := bufio.NewReader(c.stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes") {
		return true, nil
	}
	_, _ = fmt.Fprintln(w, "aborted")
	return false, nil
}

func (c *SessionCommand) list(w io.Writer, format, sortMode string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %q", format)
	}
	if sortMode != "default" && sortMode != "active" {
		return fmt.Errorf("invalid sort: %q", sortMode)
	}

	infos, err := storage.ScanSessions()
	if err != nil {
		return err
	}
	if sortMode == "active" {
		sort.SliceStable(infos, func(i, j int) bool {
			a, b := infos[i], infos[j]
			if a.Active != b.Active {
				return a.Active
			}
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.After(b.UpdatedAt)
			}
			return a.ID < b.ID
		})
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		_, _ = fmt.Fprintln(w, "No sessions found")
		return nil
	}
	for _, si := range infos {
		state := "idle"
		if si.Active {
			state = "active"
		}
		docs := "?"
		if si.Documents >= 0 {
			docs = fmt.Sprint(si.Documents)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s docs\t%d bytes\t%s\n",
			si.ID, si.UpdatedAt.Format(time.RFC3339), docs, si.Size, state)
	}
	return nil
}

func (c *SessionCommand) runCleanup(w io.Writer, purge bool) error {
	sc := config.NewConfig().Sessions
	if c.cfg != nil {
		sc = c.cfg.Sessions
	}
	cleaner := &storage.Cleaner{
		MaxAgeDays: sc.MaxAgeDays,
		MaxCount:   sc.MaxCount,
		MaxSizeMB:  sc.MaxSizeMB,
		DryRun:     c.dry,
		Purge:      purge,
	}
	report, err := cleaner.ExecuteCleanup("")
	if err != nil {
		return err
	}

	verb := "removed:"
	if purge {
		verb = "purged:"
	}
	if c.dry {
		if purge {
			_, _ = fmt.Fprintln(w, "Dry-run: the following would be purged:")
		} else {
			_, _ = fmt.Fprintln(w, "Dry-run: the following would be removed:")
		}
		for _, id := range report.Removed {
			_, _ = fmt.Fprintln(w, id)
		}
		return nil
	}
	for _, id := range report.Removed {
		_, _ = fmt.Fprintln(w, verb, id)
	}
	for _, id := range report.Skipped {
		_, _ = fmt.Fprintln(w, "skipped:", id)
	}
	return nil
}

// delete removes a session file while holding its lock, refusing sessions
// another process has open. The lock file is removed only once the session
// file is gone.
func (c *SessionCommand) delete(w io.Writer, id string) error {
	if c.dry {
		_, _ = fmt.Fprintf(w, "Dry-run: would delete session %s\n", id)
		return nil
	}
	p, err := storage.SessionFilePath(id)
	if err != nil {
		return err
	}
	lockPath, err := storage.SessionLockFilePath(id)
	if err != nil {
		return err
	}
	f, ok, err := storage.AcquireLockHandle(lockPath)
	if err != nil {
		return fmt.Errorf("failed to check session lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("session %s appears active or locked", id)
	}
	if err := os.Remove(p); err != nil {
		_ = f.Close()
		return err
	}
	if err := storage.ReleaseLockHandle(f); err != nil {
		_, _ = fmt.Fprintf(w, "deleted %s (warning: failed to remove lock: %v)\n", id, err)
		return nil
	}
	_, _ = fmt.Fprintln(w, "deleted", id)
	return nil
}

func (c *SessionCommand) info(w io.Writer, id string) error {
	p, err := storage.SessionFilePath(id)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, strings.TrimRight(string(data), "\n"))
	return nil
}
