// Package keyinput filters key events before they reach a text field.
//
// Terminals deliver rapid mouse and scroll input as escape sequences which,
// when fragmented, arrive looking like typed text ("[<65;33;12M"). Text
// fields only accept whitelisted input: named keys, single printable
// characters, and clean pastes.
package keyinput

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

// Result is the outcome of validating one key.
type Result struct {
	// Valid indicates whether the input should be accepted.
	Valid bool
	// Reason explains the decision, for debug logging.
	Reason string
}

// namedKeys holds the String() form of every key bubbletea can name,
// with and without the alt modifier.
var namedKeys = func() map[string]struct{} {
	m := make(map[string]struct{})
	for k := tea.KeyType(-128); k < 128; k++ {
		s := k.String()
		if s == "" || k == tea.KeyRunes {
			continue
		}
		m[s] = struct{}{}
		m["alt+"+s] = struct{}{}
	}
	return m
}()

// IsNamedKey reports whether s is a key name known to bubbletea.
func IsNamedKey(s string) bool {
	_, ok := namedKeys[s]
	return ok
}

// labelKeys are the named keys a single-line label accepts.
var labelKeys = map[string]struct{}{
	"backspace": {},
	"ctrl+h":    {},
	"ctrl+u":    {},
	"ctrl+w":    {},
}

// ValidateTextareaInput reports whether keyStr (a tea.KeyMsg String()) may
// be forwarded to a multi-line text buffer. Pastes are accepted unless they
// carry raw escape characters.
func ValidateTextareaInput(keyStr string, isPaste bool) Result {
	if isPaste {
		if strings.ContainsRune(keyStr, '\x1b') {
			return Result{Reason: "paste contains escape sequence"}
		}
		return Result{Valid: true, Reason: "paste event"}
	}
	if keyStr == "" {
		return Result{Reason: "empty input"}
	}
	if IsNamedKey(keyStr) {
		return Result{Valid: true, Reason: "recognized key"}
	}
	return validateSingle(keyStr)
}

// ValidateLabelInput is the stricter single-line variant: single printable
// characters, pastes, and a few editing keys.
func ValidateLabelInput(keyStr string, isPaste bool) Result {
	if isPaste {
		if strings.ContainsRune(keyStr, '\x1b') {
			return Result{Reason: "paste contains escape sequence"}
		}
		return Result{Valid: true, Reason: "paste event"}
	}
	if keyStr == "" {
		return Result{Reason: "empty input"}
	}
	if _, ok := labelKeys[keyStr]; ok {
		return Result{Valid: true, Reason: "editing key"}
	}
	if r := validateSingle(keyStr); r.Valid {
		return r
	}
	return Result{Reason: "not allowed in label"}
}

func validateSingle(keyStr string) Result {
	runes := []rune(keyStr)
	if len(runes) != 1 {
		return Result{Reason: "unrecognized multi-char sequence"}
	}
	switch r := runes[0]; {
	case r >= 0x20 && r <= 0x7E:
		return Result{Valid: true, Reason: "printable ASCII"}
	case r > 0x7F && unicode.IsPrint(r):
		return Result{Valid: true, Reason: "unicode printable"}
	default:
		return Result{Reason: "control character"}
	}
}
