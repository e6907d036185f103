package storage

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultBackend is used when no backend is named.
const DefaultBackend = "fs"

// ErrUnknownBackend is returned by GetBackend for an unregistered name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// BackendFactory creates a Backend for a session.
type BackendFactory func(sessionID string) (Backend, error)

// BackendRegistry maps backend names to their factories.
var BackendRegistry = map[string]BackendFactory{
	"fs": func(sessionID string) (Backend, error) {
		return NewFileSystemBackend(sessionID)
	},
	"sqlite": func(sessionID string) (Backend, error) {
		return NewSQLiteBackend(sessionID)
	},
	"memory": func(sessionID string) (Backend, error) {
		return NewInMemoryBackend(sessionID)
	},
}

// GetBackend creates the named backend for sessionID. An empty name selects
// DefaultBackend.
func GetBackend(name, sessionID string) (Backend, error) {
	if name == "" {
		name = DefaultBackend
	}
	factory, ok := BackendRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
	return factory(sessionID)
}

// BackendNames lists the registered backends, sorted.
func BackendNames() []string {
	names := make([]string, 0, len(BackendRegistry))
	for name := range BackendRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
