package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/super-document/internal/document"
	"github.com/joeycumines/super-document/internal/storage"
	"github.com/joeycumines/super-document/internal/tui"
)

func TestSuperDocumentAlternatesBetweenTUIAndShell(t *testing.T) {
	clearEnv(t)
	storage.ClearAllInMemorySessions()
	t.Cleanup(storage.ClearAllInMemorySessions)

	cfg := loadConfig(t, "[super-document]\npreview.max-chars 12\nmouse false\ntheme.primary #FF0000\n")
	c := NewSuperDocumentCommand(cfg)

	var tuiRuns, shellRuns int
	var seen []tui.Options
	var reopened []document.Document
	c.runTUI = func(ctx context.Context, opts tui.Options) (tui.Result, error) {
		tuiRuns++
		seen = append(seen, opts)
		if tuiRuns == 2 {
			docs, err := opts.Store.All()
			require.NoError(t, err)
			reopened = docs
		}
		return tui.Result{DropToShell: tuiRuns == 1}, nil
	}
	c.runShell = func(sh *documentShell) shellAction {
		shellRuns++
		assert.Equal(t, shellContinue, sh.execute("add from the shell"))
		assert.NotEmpty(t, sh.log.Search("session opened"))
		return sh.execute("tui")
	}

	_, _, err := execute(t, c, "-store", "memory", "-session", "alternate")
	require.NoError(t, err)
	assert.Equal(t, 2, tuiRuns)
	assert.Equal(t, 1, shellRuns)

	require.Len(t, seen, 2)
	opts := seen[1]
	assert.Equal(t, 12, opts.PreviewChars)
	assert.False(t, opts.Mouse)
	assert.True(t, opts.AltScreen)
	assert.NotNil(t, opts.Logger)
	assert.Same(t, seen[0].Store, opts.Store)

	require.Len(t, reopened, 1)
	assert.Equal(t, "from the shell", reopened[0].Content)

	// the documents outlive the run
	s, err := storage.Open("memory", "ex--alternate")
	require.NoError(t, err)
	docs, err := s.All()
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestSuperDocumentShellMode(t *testing.T) {
	clearEnv(t)
	t.Cleanup(storage.ClearAllInMemorySessions)

	c := NewSuperDocumentCommand(nil)
	c.runTUI = func(context.Context, tui.Options) (tui.Result, error) {
		t.Fatal("tui should not run")
		return tui.Result{}, nil
	}
	var shellRuns int
	c.runShell = func(sh *documentShell) shellAction {
		shellRuns++
		return sh.execute("exit")
	}

	_, _, err := execute(t, c, "-shell", "-store", "memory", "-session", "shell-only", "-no-alt-screen")
	require.NoError(t, err)
	assert.Equal(t, 1, shellRuns)
}

func TestSuperDocumentFlagsOverrideConfig(t *testing.T) {
	clearEnv(t)
	t.Cleanup(storage.ClearAllInMemorySessions)

	c := NewSuperDocumentCommand(loadConfig(t, "storage.backend sqlite\n"))
	var got tui.Options
	c.runTUI = func(_ context.Context, opts tui.Options) (tui.Result, error) {
		got = opts
		return tui.Result{}, nil
	}
	_, _, err := execute(t, c, "-store", "memory", "-session", "flags", "-no-mouse", "-no-alt-screen")
	require.NoError(t, err)
	assert.False(t, got.Mouse)
	assert.False(t, got.AltScreen)
	assert.Equal(t, "ex--flags", got.Store.(*storage.Store).SessionID())
}

func TestSuperDocumentErrors(t *testing.T) {
	clearEnv(t)
	t.Cleanup(storage.ClearAllInMemorySessions)

	_, stderr, err := execute(t, NewSuperDocumentCommand(nil), "extra")
	assert.Error(t, err)
	assert.Contains(t, stderr, "unexpected arguments")

	_, _, err = execute(t, NewSuperDocumentCommand(nil), "-log-level", "loud")
	assert.ErrorContains(t, err, "invalid log level")

	_, _, err = execute(t, NewSuperDocumentCommand(nil), "-store", "floppy", "-session", "x")
	assert.ErrorIs(t, err, storage.ErrUnknownBackend)

	boom := errors.New("boom")
	c := NewSuperDocumentCommand(nil)
	c.runTUI = func(context.Context, tui.Options) (tui.Result, error) { return tui.Result{}, boom }
	_, _, err = execute(t, c, "-store", "memory", "-session", "x")
	assert.ErrorIs(t, err, boom)

	c = NewSuperDocumentCommand(loadConfig(t, "[super-document]\ntemplate /definitely/not/here.tmpl\n"))
	_, _, err = execute(t, c, "-store", "memory", "-session", "x")
	assert.ErrorContains(t, err, "failed to read template")
}

func TestSuperDocumentSessionInUse(t *testing.T) {
	clearEnv(t)
	useTempSessions(t)
	holdSession(t, "ex--busy")

	c := NewSuperDocumentCommand(loadConfig(t, "[sessions]\nautoCleanupEnabled false\n"))
	c.runTUI = func(context.Context, tui.Options) (tui.Result, error) {
		t.Fatal("tui should not run")
		return tui.Result{}, nil
	}
	_, _, err := execute(t, c, "-session", "busy")
	assert.ErrorIs(t, err, storage.ErrWouldBlock)
	assert.ErrorContains(t, err, "session ex--busy is open in another process")
}

func TestSuperDocumentCancelledInShell(t *testing.T) {
	clearEnv(t)
	t.Cleanup(storage.ClearAllInMemorySessions)

	ctx, cancel := context.WithCancel(context.Background())
	c := NewSuperDocumentCommand(nil)
	c.runTUI = func(context.Context, tui.Options) (tui.Result, error) {
		t.Fatal("tui should not run")
		return tui.Result{}, nil
	}
	c.runShell = func(*documentShell) shellAction {
		cancel()
		return shellTUI
	}
	_, _, err := executeContext(t, ctx, c, "-shell", "-store", "memory", "-session", "cancel")
	assert.ErrorIs(t, err, context.Canceled)
}
