package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/super-document/internal/command"
)

func runArgs(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	t.Setenv("SUPERDOC_CONFIG", path)
	t.Setenv("SUPERDOC_LOG_LEVEL", "")
	_ = os.Unsetenv("SUPERDOC_LOG_LEVEL")

	t.Run("no command shows help", func(t *testing.T) {
		stdout, _, err := runArgs(t)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Available commands:")
		assert.Contains(t, stdout, "super-document")
		assert.Contains(t, stdout, "session")
	})

	for _, flag := range []string{"-h", "--help"} {
		t.Run("help flag "+flag, func(t *testing.T) {
			stdout, _, err := runArgs(t, flag)
			require.NoError(t, err)
			assert.Contains(t, stdout, "Usage: superdoc <command>")
		})
	}

	t.Run("version", func(t *testing.T) {
		stdout, _, err := runArgs(t, "version")
		require.NoError(t, err)
		assert.Equal(t, "superdoc version "+version+"\n", stdout)
	})

	t.Run("alias", func(t *testing.T) {
		stdout, _, err := runArgs(t, "help", "sd")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Command: super-document")
	})

	t.Run("unknown command", func(t *testing.T) {
		_, stderr, err := runArgs(t, "frobnicate")
		assert.ErrorIs(t, err, command.ErrUnknownCommand)
		assert.Contains(t, stderr, "Unknown command: frobnicate")
	})

	t.Run("init then config", func(t *testing.T) {
		stdout, _, err := runArgs(t, "init")
		require.NoError(t, err)
		assert.Contains(t, stdout, path)
		assert.FileExists(t, path)

		_, _, err = runArgs(t, "config", "-section", "super-document", "preview.max-chars", "64")
		require.NoError(t, err)

		// a fresh run reads the written file
		stdout, _, err = runArgs(t, "config", "-section", "super-document", "preview.max-chars")
		require.NoError(t, err)
		assert.Equal(t, "preview.max-chars: 64\n", stdout)
	})

	t.Run("broken config falls back to defaults", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("[sessions]\nmaxCount lots\n"), 0o644))
		stdout, stderr, err := runArgs(t, "config", "log.level")
		require.NoError(t, err)
		assert.Contains(t, stderr, "Warning: ")
		assert.Equal(t, "log.level: info\n", stdout)
	})
}
