package command

import (
	"bytes"
	"context"
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoCommand struct {
	*BaseCommand
	upper bool
	got   []string
}

func newEchoCommand() *echoCommand {
	return &echoCommand{BaseCommand: NewBaseCommand("echo", "Print arguments", "echo [options] [args...]")}
}

func (c *echoCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.upper, "upper", false, "Upper-case the output")
}

func (c *echoCommand) Execute(_ context.Context, args []string, stdout, _ io.Writer) error {
	c.got = args
	for _, a := range args {
		if c.upper {
			a = "<" + a + ">"
		}
		_, _ = io.WriteString(stdout, a+"\n")
	}
	return nil
}

func TestRegistryGet(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	echo := newEchoCommand()
	r.Register(echo)
	r.Alias("say", "echo")
	r.Alias("dangling", "nope")

	cmd, err := r.Get("echo")
	require.NoError(t, err)
	assert.Same(t, echo, cmd)

	cmd, err = r.Get("say")
	require.NoError(t, err)
	assert.Same(t, echo, cmd)

	_, err = r.Get("dangling")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.ErrorContains(t, err, "missing")
}

func TestRegistryList(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.Register(NewVersionCommand("1.0"))
	r.Register(newEchoCommand())
	r.Register(NewHelpCommand(r))
	r.Alias("v", "version")
	assert.Equal(t, []string{"echo", "help", "version"}, r.List())
}

func TestRegistryRun(t *testing.T) {
	t.Parallel()

	t.Run("flags then args", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		echo := newEchoCommand()
		r.Register(echo)
		var stdout, stderr bytes.Buffer
		require.NoError(t, r.Run(context.Background(), []string{"echo", "-upper", "a", "b"}, &stdout, &stderr))
		assert.Equal(t, []string{"a", "b"}, echo.got)
		assert.Equal(t, "<a>\n<b>\n", stdout.String())
		assert.Empty(t, stderr.String())
	})

	t.Run("help flag", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		echo := newEchoCommand()
		r.Register(echo)
		var stdout, stderr bytes.Buffer
		require.NoError(t, r.Run(context.Background(), []string{"echo", "-h"}, &stdout, &stderr))
		assert.Nil(t, echo.got)
		assert.Contains(t, stderr.String(), "Usage: superdoc echo [options] [args...]")
		assert.Contains(t, stderr.String(), "Print arguments")
		assert.Contains(t, stderr.String(), "-upper")
	})

	t.Run("bad flag", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		r.Register(newEchoCommand())
		var stdout, stderr bytes.Buffer
		err := r.Run(context.Background(), []string{"echo", "-nope"}, &stdout, &stderr)
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "flag provided but not defined: -nope")
	})

	t.Run("unknown command", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		var stdout, stderr bytes.Buffer
		err := r.Run(context.Background(), []string{"frobnicate"}, &stdout, &stderr)
		assert.ErrorIs(t, err, ErrUnknownCommand)
		assert.Contains(t, stderr.String(), "Unknown command: frobnicate")
	})

	t.Run("no command", func(t *testing.T) {
		t.Parallel()
		err := NewRegistry().Run(context.Background(), nil, io.Discard, io.Discard)
		assert.Error(t, err)
	})
}

func TestFlagDefaults(t *testing.T) {
	t.Parallel()
	out := flagDefaults(newEchoCommand())
	assert.Contains(t, out, "-upper")
	assert.Contains(t, out, "Upper-case the output")
	assert.Empty(t, flagDefaults(NewVersionCommand("x")))
}
