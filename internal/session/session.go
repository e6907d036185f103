// Package session derives a stable id for the terminal the program runs in,
// so that reopening the editor in the same terminal resumes its documents.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ids have the form {namespace}--{payload}, where payload is filename safe
// and the whole id is at most MaxSessionIDLength bytes.
const (
	MaxSessionIDLength = 80
	NamespaceDelimiter = "--"
	// ShortHashLength is the number of hex digits kept from hashed payloads.
	ShortHashLength = 16
)

// Namespaces, one per Source. They must stay distinct.
const (
	NamespaceExplicit = "ex"
	NamespaceTmux     = "tmux"
	NamespaceScreen   = "screen"
	NamespaceSSH      = "ssh"
	NamespaceTerminal = "terminal"
	NamespaceTTY      = "tty"
	NamespaceX11      = "x11"
	NamespaceUUID     = "uuid"
)

// EnvSessionID overrides discovery when set.
const EnvSessionID = "SUPERDOC_SESSION_ID"

// Source names the mechanism an id was derived from.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceEnv      Source = "env"
	SourceTmux     Source = "tmux"
	SourceScreen   Source = "screen"
	SourceSSH      Source = "ssh"
	SourceTerminal Source = "terminal"
	SourceTTY      Source = "tty"
	SourceX11      Source = "x11"
	SourceUUID     Source = "uuid"
)

// Detector resolves session ids. The zero value is not usable; see
// NewDetector.
type Detector struct {
	Getenv func(string) string
	GOOS   string
	// Tmux returns the current pane's "$session:@window:%pane" tuple.
	Tmux func(ctx context.Context) (string, error)
	// TTY identifies the controlling terminal. ok is false when stdin is
	// not a terminal.
	TTY     func() (name string, ok bool)
	NewUUID func() string
}

// NewDetector returns a Detector backed by the real environment.
func NewDetector() *Detector {
	return &Detector{
		Getenv:  os.Getenv,
		GOOS:    runtime.GOOS,
		Tmux:    queryTmux,
		TTY:     controllingTTY,
		NewUUID: uuid.NewString,
	}
}

// GetSessionID resolves an id with NewDetector.
func GetSessionID(ctx context.Context, explicit string) (string, Source) {
	return NewDetector().Resolve(ctx, explicit)
}

// Resolve returns the first id available, in order: explicit, the
// SUPERDOC_SESSION_ID environment variable, tmux pane, GNU screen, SSH
// connection, macOS TERM_SESSION_ID, controlling terminal, X11 WINDOWID,
// then a random UUID.
func (d *Detector) Resolve(ctx context.Context, explicit string) (string, Source) {
	if explicit != "" {
		return formatExplicitID(explicit), SourceExplicit
	}
	if v := d.Getenv(EnvSessionID); v != "" {
		return formatExplicitID(v), SourceEnv
	}
	if d.Getenv("TMUX_PANE") != "" && d.Tmux != nil {
		if raw, err := d.Tmux(ctx); err == nil && raw != "" {
			return formatTmuxID(raw), SourceTmux
		}
	}
	if v := d.Getenv("STY"); v != "" {
		return hashedID(NamespaceScreen, "screen:"+v), SourceScreen
	}
	if v := d.Getenv("SSH_CONNECTION"); v != "" {
		return formatSSHID(v), SourceSSH
	}
	if d.GOOS == "darwin" {
		if v := d.Getenv("TERM_SESSION_ID"); v != "" {
			return hashedID(NamespaceTerminal, "terminal:"+v), SourceTerminal
		}
	}
	if d.TTY != nil {
		if name, ok := d.TTY(); ok {
			return hashedID(NamespaceTTY, "tty:"+name), SourceTTY
		}
	}
	if v := d.Getenv("WINDOWID"); v != "" {
		return formatSessionID(NamespaceX11, v), SourceX11
	}
	return formatSessionID(NamespaceUUID, d.NewUUID()), SourceUUID
}

// formatExplicitID keeps a caller-supplied namespace, sanitized, or adds
// the explicit one.
func formatExplicitID(id string) string {
	if ns, payload, ok := strings.Cut(id, NamespaceDelimiter); ok {
		return formatSessionID(sanitizePayload(ns), payload)
	}
	return formatSessionID(NamespaceExplicit, id)
}

// formatSSHID hashes the SSH_CONNECTION 4-tuple; the client port tells
// concurrent connections apart.
func formatSSHID(conn string) string {
	if parts := strings.Fields(conn); len(parts) == 4 {
		return hashedID(NamespaceSSH, "ssh:"+strings.Join(parts, ":"))
	}
	return hashedID(NamespaceSSH, "ssh:"+conn)
}

func hashedID(namespace, value string) string {
	return formatSessionID(namespace, hashString(value)[:ShortHashLength])
}

// formatSessionID sanitizes payload and, when the id would be too long,
// truncates it with a suffix taken from the hash of the unsanitized payload.
func formatSessionID(namespace, payload string) string {
	sum := hashString(payload)
	payload = sanitizePayload(payload)

	limit := MaxSessionIDLength - len(namespace) - len(NamespaceDelimiter)
	if len(payload) > limit {
		keep := limit - 9 // "_" + 8 hex
		if keep < 8 {
			payload = sum[:limit]
		} else {
			payload = payload[:keep] + "_" + sum[:8]
		}
	}
	return namespace + NamespaceDelimiter + payload
}

var tmuxIDRegex = regexp.MustCompile(`^\$(\w+):@(\w+):%(\w+)$`)

// formatTmuxID maps "$0:@1:%2" to tmux--s0.w1.p2.
func formatTmuxID(raw string) string {
	if m := tmuxIDRegex.FindStringSubmatch(raw); m != nil {
		return formatSessionID(NamespaceTmux, fmt.Sprintf("s%s.w%s.p%s", m[1], m[2], m[3]))
	}
	r := strings.NewReplacer("$", "s", "@", "w", "%", "p", ":", ".")
	return formatSessionID(NamespaceTmux, r.Replace(raw))
}

func queryTmux(ctx context.Context) (string, error) {
	path, err := exec.LookPath("tmux")
	if err != nil {
		return "", fmt.Errorf("tmux not found in PATH: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "display-message", "-p", "#{session_id}:#{window_id}:#{pane_id}").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// sanitizePayload replaces everything except [A-Za-z0-9._-] with '_'.
func sanitizePayload(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
