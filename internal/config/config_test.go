package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromReader(t *testing.T) {
	t.Parallel()
	c, err := LoadFromReader(strings.NewReader(`# comment
log.level debug
theme.primary #112233

[super-document]
preview.max-chars 30
theme.primary   #445566
mouse off

[sessions]
maxCount 5
autoCleanupEnabled no
`))
	require.NoError(t, err)
	assert.Empty(t, c.Warnings)

	v, ok := c.GetGlobalOption("log.level")
	assert.True(t, ok)
	assert.Equal(t, "debug", v)

	v, ok = c.GetCommandOption(SuperDocumentSection, "theme.primary")
	assert.True(t, ok)
	assert.Equal(t, "#445566", v)

	// falls back to global
	v, ok = c.GetCommandOption(SuperDocumentSection, "log.level")
	assert.True(t, ok)
	assert.Equal(t, "debug", v)

	_, ok = c.GetCommandOption("nope", "missing")
	assert.False(t, ok)

	assert.Equal(t, 5, c.Sessions.MaxCount)
	assert.False(t, c.Sessions.AutoCleanupEnabled)
	assert.Equal(t, 90, c.Sessions.MaxAgeDays)
	assert.NotContains(t, c.Commands, SessionsSection)
}

func TestLoadWarnings(t *testing.T) {
	t.Parallel()
	c, err := LoadFromReader(strings.NewReader("bogus 1\nlog.buffer-size many\nstorage.backend s3\n[super-document]\nmouse maybe\n"))
	require.NoError(t, err)
	require.True(t, c.HasWarnings())
	joined := strings.Join(c.Warnings, "\n")
	assert.Contains(t, joined, `unknown global option: "bogus"`)
	assert.Contains(t, joined, `expected int, got "many"`)
	assert.Contains(t, joined, `expected one of fs|sqlite|memory, got "s3"`)
	assert.Contains(t, joined, `option "mouse" in [super-document]: expected bool`)
}

func TestSessionOptionErrors(t *testing.T) {
	t.Parallel()
	for _, in := range []string{
		"[sessions]\nmaxAgeDays -1\n",
		"[sessions]\ncleanupIntervalHours 0\n",
		"[sessions]\nmaxCount lots\n",
		"[sessions]\nautoCleanupEnabled perhaps\n",
		"[sessions]\nunknown 1\n",
	} {
		_, err := LoadFromReader(strings.NewReader(in))
		assert.Error(t, err, in)
	}
}

func TestPrefixedOptions(t *testing.T) {
	t.Parallel()
	c := NewConfig()
	c.SetGlobalOption("theme.primary", "#000")
	c.SetGlobalOption("theme.fg", "#111")
	c.SetGlobalOption("theme.", "ignored")
	c.SetCommandOption(SuperDocumentSection, "theme.fg", "#222")
	c.SetGlobalOption("log.level", "info")

	assert.Equal(t, map[string]string{"primary": "#000", "fg": "#222"}, c.PrefixedOptions(SuperDocumentSection, "theme."))
	assert.Equal(t, []string{"log.level", "theme.", "theme.fg", "theme.primary"}, c.Keys())
}

func TestParseBool(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"true", "1", "YES", "on"} {
		b, err := ParseBool(s)
		require.NoError(t, err)
		assert.True(t, b, s)
	}
	for _, s := range []string{"false", "0", "no", "Off"} {
		b, err := ParseBool(s)
		require.NoError(t, err)
		assert.False(t, b, s)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}

func TestLoadFromPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	c, err := LoadFromPath(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, c.Global)

	path := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(path, []byte("log.level warn\n"), 0o644))
	c, err = LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", c.Global["log.level"])

	if runtime.GOOS == "windows" {
		return
	}
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(path, link))
	_, err = LoadFromPath(link)
	assert.ErrorContains(t, err, "symlink not allowed")
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom")
	p, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom", p)

	home := t.TempDir()
	t.Setenv(EnvConfigPath, "")
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	p, err = GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".super-document", "config"), p)

	require.NoError(t, EnsureConfigDir())
	assert.DirExists(t, filepath.Join(home, ".super-document"))
}
