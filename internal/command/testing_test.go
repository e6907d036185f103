package command

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joeycumines/super-document/internal/document"
	"github.com/joeycumines/super-document/internal/storage"
)

// superdocEnv lists the environment variables config resolution consults.
var superdocEnv = []string{
	"SUPERDOC_LOG_LEVEL",
	"SUPERDOC_LOG_FILE",
	"SUPERDOC_SESSION_ID",
	"SUPERDOC_STORE",
}

// clearEnv unsets superdocEnv for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range superdocEnv {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

// useTempSessions points storage at a fresh directory.
func useTempSessions(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	storage.SetTestPaths(dir)
	t.Cleanup(storage.ResetPaths)
	return dir
}

// execute parses args against cmd's flags and runs it.
func execute(t *testing.T, cmd Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return executeContext(t, context.Background(), cmd, args...)
}

func executeContext(t *testing.T, ctx context.Context, cmd Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.SetupFlags(fs)
	require.NoError(t, fs.Parse(args))
	var out, errOut bytes.Buffer
	err = cmd.Execute(ctx, fs.Args(), &out, &errOut)
	return out.String(), errOut.String(), err
}

// writeSession persists a file system session with n documents, last
// modified age ago.
func writeSession(t *testing.T, id string, n int, age time.Duration) {
	t.Helper()
	s, err := storage.Open("fs", id)
	require.NoError(t, err)
	docs := make([]document.Document, 0, n)
	for i := range n {
		docs = append(docs, document.Document{ID: i + 1, Content: fmt.Sprintf("doc %d", i+1)})
	}
	require.NoError(t, s.SetAll(docs))
	require.NoError(t, s.Close())

	p, err := storage.SessionFilePath(id)
	require.NoError(t, err)
	mtime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(p, mtime, mtime))
}

func sessionExists(t *testing.T, id string) bool {
	t.Helper()
	p, err := storage.SessionFilePath(id)
	require.NoError(t, err)
	_, err = os.Stat(p)
	return err == nil
}
