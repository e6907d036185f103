// Package logging provides the program's slog setup: an in-memory ring of
// recent records, optionally tee'd to a JSON log file.
//
// Nothing here writes to the terminal; a full-screen TUI owns it.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultBufferSize is the ring capacity used when none is given.
const DefaultBufferSize = 1000

// Entry is one retained record.
type Entry struct {
	Time    time.Time         `json:"time"`
	Level   slog.Level        `json:"level"`
	Message string            `json:"message"`
	Attrs   map[string]string `json:"attrs"`
}

// ParseLevel accepts debug, info, warn and error, case-insensitively. An
// empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

// Options configures New.
type Options struct {
	Level      slog.Level
	BufferSize int
	// File, if set, receives every enabled record as a JSON line. It is
	// closed by Logger.Close when it implements io.Closer.
	File io.Writer
}

// Logger couples a *slog.Logger with its ring buffer.
type Logger struct {
	*slog.Logger
	ring *ringStore
	file io.Writer
}

// New builds a Logger.
func New(opts Options) *Logger {
	size := opts.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	ring := &ringStore{max: size}
	var h slog.Handler = &ringHandler{store: ring, level: opts.Level}
	if opts.File != nil {
		h = teeHandler{h, slog.NewJSONHandler(opts.File, &slog.HandlerOptions{Level: opts.Level})}
	}
	return &Logger{Logger: slog.New(h), ring: ring, file: opts.File}
}

// Discard returns a Logger that retains records but has no file.
func Discard() *Logger { return New(Options{}) }

// Entries returns a copy of every retained entry, oldest first.
func (l *Logger) Entries() []Entry { return l.ring.recent(0) }

// Recent returns up to n of the newest entries, oldest first.
func (l *Logger) Recent(n int) []Entry { return l.ring.recent(n) }

// Search returns the entries whose message, attribute key or attribute
// value contains query, ignoring case.
func (l *Logger) Search(query string) []Entry {
	query = strings.ToLower(query)
	var out []Entry
	for _, e := range l.ring.recent(0) {
		if e.matches(query) {
			out = append(out, e)
		}
	}
	return out
}

// Clear drops every retained entry.
func (l *Logger) Clear() { l.ring.clear() }

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if c, ok := l.file.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (e Entry) matches(query string) bool {
	if strings.Contains(strings.ToLower(e.Message), query) {
		return true
	}
	for k, v := range e.Attrs {
		if strings.Contains(strings.ToLower(k), query) || strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	return false
}

type ringStore struct {
	mu      sync.RWMutex
	entries []Entry
	max     int
}

func (s *ringStore) add(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	if over := len(s.entries) - s.max; over > 0 {
		s.entries = append(s.entries[:0], s.entries[over:]...)
	}
}

func (s *ringStore) recent(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]Entry, n)
	copy(out, s.entries[len(s.entries)-n:])
	return out
}

func (s *ringStore) clear() {
	s.mu.Lock()
	s.entries = s.entries[:0]
	s.mu.Unlock()
}

// ringHandler appends records to a ringStore. Groups prefix attribute keys
// with "group.".
type ringHandler struct {
	store  *ringStore
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

func (h *ringHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ringHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]string, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		flatten(attrs, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		flatten(attrs, h.prefix, a)
		return true
	})
	h.store.add(Entry{Time: r.Time, Level: r.Level, Message: r.Message, Attrs: attrs})
	return nil
}

func (h *ringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		c.attrs = append(c.attrs, a)
	}
	return &c
}

func (h *ringHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

func flatten(dst map[string]string, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, g := range a.Value.Group() {
			flatten(dst, p, g)
		}
		return
	}
	if a.Key == "" {
		return
	}
	dst[prefix+a.Key] = a.Value.String()
}

// teeHandler sends each record to every handler that enables it.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
