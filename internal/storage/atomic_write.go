package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// testHookBeforeRename runs between writing the temp file and renaming it.
var testHookBeforeRename func()

// RenameError is returned when the final rename fails. The temp file is
// removed before returning; TempPath reports where it was.
type RenameError struct {
	Err      error
	tempPath string
}

func (e RenameError) Error() string    { return e.Err.Error() }
func (e RenameError) TempPath() string { return e.tempPath }
func (e RenameError) Unwrap() error    { return e.Err }

// AtomicWriteFile writes data to a temp file in the target directory, syncs
// it, then renames it over filename.
func AtomicWriteFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, ".tmp-documents-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	var success bool
	defer func() {
		if success {
			return
		}
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove temporary file", "path", tempPath, "error", err)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file %q: %w", tempPath, err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if testHookBeforeRename != nil {
		testHookBeforeRename()
	}

	if err := replaceFile(tempPath, filename); err != nil {
		return RenameError{Err: err, tempPath: tempPath}
	}
	success = true
	return nil
}
