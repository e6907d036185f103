package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetKeyInFile(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name                string
		initial             string
		section, key, value string
		want                string
	}{
		{
			name: "new file global",
			key:  "log.level", value: "debug",
			want: "log.level debug\n",
		},
		{
			name:    "replace global keeps comments",
			initial: "# top\nlog.level info # old\nlog.file x\n",
			key:     "log.level", value: "warn",
			want: "# top\nlog.level warn\nlog.file x\n",
		},
		{
			name:    "insert global before sections",
			initial: "log.level info\n\n[super-document]\nmouse off\n",
			key:     "storage.backend", value: "sqlite",
			want: "log.level info\nstorage.backend sqlite\n\n[super-document]\nmouse off\n",
		},
		{
			name:    "global key in section untouched",
			initial: "[super-document]\ntheme.fg #000\n",
			key:     "theme.fg", value: "#fff",
			want: "theme.fg #fff\n[super-document]\ntheme.fg #000\n",
		},
		{
			name:    "replace in section",
			initial: "log.level info\n[super-document]\nmouse off\n[sessions]\nmaxCount 3\n",
			section: "super-document", key: "mouse", value: "on",
			want: "log.level info\n[super-document]\nmouse on\n[sessions]\nmaxCount 3\n",
		},
		{
			name:    "append to section",
			initial: "[super-document]\nmouse off\n\n[sessions]\nmaxCount 3\n",
			section: "super-document", key: "alt-screen", value: "no",
			want: "[super-document]\nmouse off\nalt-screen no\n\n[sessions]\nmaxCount 3\n",
		},
		{
			name:    "new section",
			initial: "log.level info\n",
			section: "sessions", key: "maxCount", value: "9",
			want: "log.level info\n\n[sessions]\nmaxCount 9\n",
		},
		{
			name:    "empty value",
			initial: "log.file a.log\n",
			key:     "log.file",
			want:    "log.file\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "sub", "config")
			if tc.initial != "" {
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
				require.NoError(t, os.WriteFile(path, []byte(tc.initial), 0o644))
			}
			require.NoError(t, SetKeyInFile(path, tc.section, tc.key, tc.value))
			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestSetKeyInFileRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, SetKeyInFile(path, "", "log.level", "error"))
	require.NoError(t, SetKeyInFile(path, SuperDocumentSection, "preview.max-chars", "12"))

	c, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Empty(t, c.Warnings)
	assert.Equal(t, 12, DefaultSchema().ResolveInt(c, SuperDocumentSection, "preview.max-chars"))
	assert.Equal(t, "error", c.Global["log.level"])
}
