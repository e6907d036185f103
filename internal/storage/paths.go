package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// File naming within the sessions directory.
const (
	SessionFileSuffix = ".documents.json"
	LockFileSuffix    = ".documents.lock"
	// DatabaseFileName is the sqlite backend's database, in DataDirectory.
	DatabaseFileName = "documents.sqlite"
)

// Path functions are variables so tests can redirect them away from the
// user's config directory.
var (
	dataDirectory       = DataDirectory
	sessionDirectory    = SessionDirectory
	sessionFilePath     = SessionFilePath
	sessionLockFilePath = SessionLockFilePath
)

// SetTestPaths points all storage paths at dir. Tests only.
func SetTestPaths(dir string) {
	dataDirectory = func() (string, error) { return dir, nil }
	sessionDirectory = func() (string, error) { return filepath.Join(dir, "sessions"), nil }
	sessionFilePath = func(id string) (string, error) {
		return filepath.Join(dir, "sessions", id+SessionFileSuffix), nil
	}
	sessionLockFilePath = func(id string) (string, error) {
		return filepath.Join(dir, "sessions", id+LockFileSuffix), nil
	}
}

// ResetPaths restores the default path functions. Tests only.
func ResetPaths() {
	dataDirectory = DataDirectory
	sessionDirectory = SessionDirectory
	sessionFilePath = SessionFilePath
	sessionLockFilePath = SessionLockFilePath
}

// DataDirectory is {UserConfigDir}/super-document.
func DataDirectory() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "super-document"), nil
}

// SessionDirectory is where the file system backend keeps session files.
func SessionDirectory() (string, error) {
	dir, err := dataDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions"), nil
}

// SessionFilePath returns the path of a session file:
// {SessionDirectory}/{id}.documents.json
func SessionFilePath(sessionID string) (string, error) {
	dir, err := sessionDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionID+SessionFileSuffix), nil
}

// SessionLockFilePath returns the path of a session's lock file.
func SessionLockFilePath(sessionID string) (string, error) {
	dir, err := sessionDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionID+LockFileSuffix), nil
}

// DatabasePath returns the sqlite database path.
func DatabasePath() (string, error) {
	dir, err := dataDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DatabaseFileName), nil
}
