package keyinput

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTextareaInput(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		key   string
		paste bool
		valid bool
	}{
		{key: "a", valid: true},
		{key: "Z", valid: true},
		{key: " ", valid: true},
		{key: "é", valid: true},
		{key: "日", valid: true},
		{key: "enter", valid: true},
		{key: "backspace", valid: true},
		{key: "ctrl+a", valid: true},
		{key: "pgdown", valid: true},
		{key: "shift+tab", valid: true},
		{key: "alt+enter", valid: true},
		{key: "", valid: false},
		{key: "\x07", valid: false},
		{key: "[<65;33;12M", valid: false},
		{key: "5;1H", valid: false},
		{key: "[hello\nworld]", paste: true, valid: true},
		{key: "[\x1b[31m]", paste: true, valid: false},
	} {
		r := ValidateTextareaInput(tc.key, tc.paste)
		assert.Equal(t, tc.valid, r.Valid, "key=%q paste=%v reason=%s", tc.key, tc.paste, r.Reason)
		assert.NotEmpty(t, r.Reason)
	}
}

func TestValidateLabelInput(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		key   string
		paste bool
		valid bool
	}{
		{key: "x", valid: true},
		{key: "backspace", valid: true},
		{key: "ctrl+u", valid: true},
		{key: "enter", valid: false},
		{key: "up", valid: false},
		{key: "tab", valid: false},
		{key: "[<0;1;1M", valid: false},
		{key: "[pasted]", paste: true, valid: true},
	} {
		r := ValidateLabelInput(tc.key, tc.paste)
		assert.Equal(t, tc.valid, r.Valid, "key=%q reason=%s", tc.key, r.Reason)
	}
}

func TestIsNamedKey(t *testing.T) {
	t.Parallel()
	assert.True(t, IsNamedKey("esc"))
	assert.True(t, IsNamedKey("home"))
	assert.False(t, IsNamedKey("a"))
	assert.False(t, IsNamedKey("runes"))
}
