package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/joeycumines/super-document/internal/config"
	"github.com/joeycumines/super-document/internal/export"
	"github.com/joeycumines/super-document/internal/session"
	"github.com/joeycumines/super-document/internal/storage"
	"github.com/joeycumines/super-document/internal/tui"
)

// SuperDocumentCommand runs the document editor: the visual TUI, and the
// shell it can drop to.
type SuperDocumentCommand struct {
	*BaseCommand
	config *config.Config

	shellMode   bool
	session     string
	store       string
	logLevel    string
	logFile     string
	logBuffer   int
	noMouse     bool
	noAltScreen bool

	// Replaced in tests.
	runTUI   func(ctx context.Context, opts tui.Options) (tui.Result, error)
	runShell func(sh *documentShell) shellAction
}

// NewSuperDocumentCommand creates the super-document command.
func NewSuperDocumentCommand(cfg *config.Config) *SuperDocumentCommand {
	return &SuperDocumentCommand{
		BaseCommand: NewBaseCommand(
			config.SuperDocumentSection,
			"Assemble documents into a single prompt in a full-screen editor",
			"super-document [options]",
		),
		config:   cfg,
		runTUI:   tui.Run,
		runShell: (*documentShell).run,
	}
}

func (c *SuperDocumentCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.shellMode, "shell", false, "Start in the shell instead of the visual editor")
	fs.StringVar(&c.session, "session", "", "Session id for persistence (overrides auto-discovery)")
	fs.StringVar(&c.store, "store", "", "Storage backend: fs (default), sqlite or memory")
	fs.StringVar(&c.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	fs.StringVar(&c.logFile, "log-file", "", "Write JSON logs to this file")
	fs.IntVar(&c.logBuffer, "log-buffer", 0, "In-memory log entries kept (default from config, else 1000)")
	fs.BoolVar(&c.noMouse, "no-mouse", false, "Disable mouse input")
	fs.BoolVar(&c.noAltScreen, "no-alt-screen", false, "Render inline instead of on the alternate screen")
}

func (c *SuperDocumentCommand) Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return errors.New("unexpected arguments")
	}
	cfg := c.config
	schema := config.DefaultSchema()
	const section = config.SuperDocumentSection

	lc, err := resolveLogConfig(c.logFile, c.logLevel, c.logBuffer, cfg)
	if err != nil {
		return err
	}
	log := lc.newLogger()
	defer func() { _ = log.Close() }()

	explicit := c.session
	if explicit == "" {
		explicit = schema.Resolve(cfg, "session.id")
	}
	sessionID, source := session.GetSessionID(ctx, explicit)

	backend := c.store
	if backend == "" {
		backend = schema.Resolve(cfg, "storage.backend")
	}
	store, err := storage.Open(backend, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrWouldBlock) {
			return fmt.Errorf("session %s is open in another process: %w", sessionID, err)
		}
		return fmt.Errorf("failed to open %s store: %w", backend, err)
	}
	defer func() { _ = store.Close() }()
	log.Info("session opened", "session", sessionID, "source", string(source), "backend", backend)

	// retention only applies to session files
	if backend == "" || backend == storage.DefaultBackend {
		stop := maybeStartCleanupScheduler(ctx, cfg, sessionID, log.Logger)
		defer stop()
	}

	exporter, err := export.Load(schema.ResolveIn(cfg, section, "template"))
	if err != nil {
		return err
	}

	var themeOpts map[string]string
	if cfg != nil {
		themeOpts = cfg.PrefixedOptions(section, "theme.")
	}
	opts := tui.Options{
		Store:        store,
		Exporter:     exporter,
		Clipboard:    tui.SystemClipboard{},
		Files:        tui.OSFiles{},
		Theme:        tui.ThemeFromOptions(themeOpts),
		PreviewChars: schema.ResolveInt(cfg, section, "preview.max-chars"),
		MaxTextLines: schema.ResolveInt(cfg, section, "textarea.max-height"),
		Mouse:        !c.noMouse && schema.ResolveBool(cfg, section, "mouse"),
		AltScreen:    !c.noAltScreen && schema.ResolveBool(cfg, section, "alt-screen"),
		Logger:       log.Logger,
	}
	sh := &documentShell{
		store:        store,
		exporter:     exporter,
		clipboard:    opts.Clipboard,
		files:        opts.Files,
		log:          log,
		previewChars: opts.PreviewChars,
		out:          stdout,
	}

	inShell := c.shellMode
	for {
		if !inShell {
			res, err := c.runTUI(ctx, opts)
			if err != nil {
				return err
			}
			if !res.DropToShell {
				return nil
			}
		}
		if c.runShell(sh) != shellTUI {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		inShell = false
	}
}
