package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/super-document/internal/config"
	"github.com/joeycumines/super-document/internal/storage"
)

func newSessionCommand(cfg *config.Config, stdin string) *SessionCommand {
	c := NewSessionCommand(cfg)
	c.stdin = strings.NewReader(stdin)
	return c
}

// holdSession keeps a session open, and so locked, until the test ends.
func holdSession(t *testing.T, id string) {
	t.Helper()
	s, err := storage.Open("fs", id)
	require.NoError(t, err)
	require.NoError(t, s.SetAll(nil))
	t.Cleanup(func() { _ = s.Close() })
}

func TestSessionListEmpty(t *testing.T) {
	useTempSessions(t)
	stdout, _, err := execute(t, newSessionCommand(nil, ""))
	require.NoError(t, err)
	assert.Equal(t, "No sessions found\n", stdout)

	stdout, _, err = execute(t, newSessionCommand(nil, ""), "list", "-format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", stdout)
}

func TestSessionList(t *testing.T) {
	useTempSessions(t)
	writeSession(t, "older", 3, 2*time.Hour)
	writeSession(t, "newer", 1, time.Hour)
	holdSession(t, "live")
	p, err := storage.SessionFilePath("live")
	require.NoError(t, err)
	past := time.Now().Add(-5 * time.Hour)
	require.NoError(t, os.Chtimes(p, past, past))

	stdout, _, err := execute(t, newSessionCommand(nil, ""), "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "newer\t"), lines[0])
	assert.Contains(t, lines[0], "\t1 docs\t")
	assert.True(t, strings.HasSuffix(lines[0], "\tidle"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "older\t"), lines[1])
	assert.Contains(t, lines[1], "\t3 docs\t")
	assert.True(t, strings.HasPrefix(lines[2], "live\t"), lines[2])
	assert.True(t, strings.HasSuffix(lines[2], "\tactive"), lines[2])

	stdout, _, err = execute(t, newSessionCommand(nil, ""), "list", "-sort", "active")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "live\t"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "newer\t"), lines[1])

	stdout, _, err = execute(t, newSessionCommand(nil, ""), "list", "-format", "json")
	require.NoError(t, err)
	var infos []storage.SessionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	require.Len(t, infos, 3)
	assert.Equal(t, "newer", infos[0].ID)
	assert.Equal(t, 1, infos[0].Documents)
	assert.True(t, infos[2].Active)

	_, _, err = execute(t, newSessionCommand(nil, ""), "list", "-format", "xml")
	assert.ErrorContains(t, err, "invalid format")
	_, _, err = execute(t, newSessionCommand(nil, ""), "list", "-sort", "size")
	assert.ErrorContains(t, err, "invalid sort")
}

func TestSessionDelete(t *testing.T) {
	useTempSessions(t)
	for _, id := range []string{"a", "b", "c", "-dash"} {
		writeSession(t, id, 1, time.Hour)
	}

	stdout, _, err := execute(t, newSessionCommand(nil, ""), "delete", "-y", "a")
	require.NoError(t, err)
	assert.Equal(t, "deleted a\n", stdout)
	assert.False(t, sessionExists(t, "a"))
	lock, err := storage.SessionLockFilePath("a")
	require.NoError(t, err)
	assert.NoFileExists(t, lock)

	// flags may follow ids, and "--" ends flag parsing
	stdout, _, err = execute(t, newSessionCommand(nil, ""), "delete", "b", "-y", "--", "-dash")
	require.NoError(t, err)
	assert.Equal(t, "deleted b\ndeleted -dash\n", stdout)
	assert.False(t, sessionExists(t, "b"))
	assert.False(t, sessionExists(t, "-dash"))

	stdout, _, err = execute(t, newSessionCommand(nil, ""), "delete", "-dry-run", "c")
	require.NoError(t, err)
	assert.Equal(t, "Dry-run: would delete session c\n", stdout)
	assert.True(t, sessionExists(t, "c"))

	stdout, _, err = execute(t, newSessionCommand(nil, "n\n"), "delete", "c")
	require.NoError(t, err)
	assert.Equal(t, "Are you sure you want to delete session 'c'? This is irreversible. (y/N): aborted\n", stdout)
	assert.True(t, sessionExists(t, "c"))

	stdout, _, err = execute(t, newSessionCommand(nil, "yes\n"), "delete", "c")
	require.NoError(t, err)
	assert.Contains(t, stdout, "deleted c\n")
	assert.False(t, sessionExists(t, "c"))

	_, _, err = execute(t, newSessionCommand(nil, ""), "delete", "-y")
	assert.ErrorContains(t, err, "delete requires a session id")
}

func TestSessionDeleteActive(t *testing.T) {
	useTempSessions(t)
	holdSession(t, "live")
	writeSession(t, "idle", 1, time.Hour)

	stdout, _, err := execute(t, newSessionCommand(nil, ""), "delete", "-y", "live", "idle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "live: session live appears active or locked")
	assert.Equal(t, "deleted idle\n", stdout)
	assert.True(t, sessionExists(t, "live"))
}

func TestSessionCleanAndPurge(t *testing.T) {
	useTempSessions(t)
	writeSession(t, "ancient", 1, 40*24*time.Hour)
	writeSession(t, "recent", 1, time.Hour)
	holdSession(t, "live")
	cfg := loadConfig(t, "[sessions]\nmaxAgeDays 30\n")

	stdout, _, err := execute(t, newSessionCommand(cfg, ""), "clean", "-dry-run")
	require.NoError(t, err)
	assert.Equal(t, "Dry-run: the following would be removed:\nancient\n", stdout)
	assert.True(t, sessionExists(t, "ancient"))

	stdout, _, err = execute(t, newSessionCommand(cfg, "n\n"), "clean")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stdout, "aborted\n"), stdout)
	assert.True(t, sessionExists(t, "ancient"))

	stdout, _, err = execute(t, newSessionCommand(cfg, ""), "clean", "-y")
	require.NoError(t, err)
	assert.Contains(t, stdout, "removed: ancient\n")
	assert.Contains(t, stdout, "skipped: live\n")
	assert.False(t, sessionExists(t, "ancient"))
	assert.True(t, sessionExists(t, "recent"))

	stdout, _, err = execute(t, newSessionCommand(cfg, "y\n"), "purge")
	require.NoError(t, err)
	assert.Contains(t, stdout, "purged: recent\n")
	assert.Contains(t, stdout, "skipped: live\n")
	assert.False(t, sessionExists(t, "recent"))
	assert.True(t, sessionExists(t, "live"))
}

func TestSessionInfoAndPath(t *testing.T) {
	dir := useTempSessions(t)
	writeSession(t, "s1", 2, time.Minute)

	stdout, _, err := execute(t, newSessionCommand(nil, ""), "info", "s1")
	require.NoError(t, err)
	var s storage.Session
	require.NoError(t, json.Unmarshal([]byte(stdout), &s))
	assert.Len(t, s.Documents, 2)

	_, _, err = execute(t, newSessionCommand(nil, ""), "info")
	assert.ErrorContains(t, err, "info requires a session id")
	_, _, err = execute(t, newSessionCommand(nil, ""), "info", "missing")
	assert.Error(t, err)

	stdout, _, err = execute(t, newSessionCommand(nil, ""), "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sessions")+"\n", stdout)

	stdout, _, err = execute(t, newSessionCommand(nil, ""), "path", "s1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sessions", "s1"+storage.SessionFileSuffix)+"\n", stdout)
}

func TestSessionID(t *testing.T) {
	clearEnv(t)
	stdout, _, err := execute(t, newSessionCommand(nil, ""), "id", "-session", "work")
	require.NoError(t, err)
	assert.Equal(t, "ex--work\t(explicit)\n", stdout)

	stdout, _, err = execute(t, newSessionCommand(loadConfig(t, "session.id from-config\n"), ""), "id")
	require.NoError(t, err)
	assert.Equal(t, "ex--from-config\t(explicit)\n", stdout)
}

func TestSessionSubcommandHelpAndErrors(t *testing.T) {
	useTempSessions(t)
	stdout, _, err := execute(t, newSessionCommand(nil, ""), "list", "-h")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	_, _, err = execute(t, newSessionCommand(nil, ""), "frob")
	assert.ErrorContains(t, err, "unknown subcommand: frob")
}
