package storage

import (
	"errors"
	"os"
)

// ErrWouldBlock reports that a lock is held by another process.
var ErrWouldBlock = errors.New("file lock would block")

// AcquireLockHandle tries to take an exclusive lock on path without
// blocking. ok is false, with a nil error, when another process holds it.
// Close the handle to release the lock but keep the lock file, or use
// ReleaseLockHandle to release and remove it.
func AcquireLockHandle(path string) (f *os.File, ok bool, err error) {
	f, err = acquireFileLock(path)
	if err != nil {
		if errors.Is(err, ErrWouldBlock) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return f, true, nil
}

// ReleaseLockHandle releases a lock from AcquireLockHandle and removes the
// lock file.
func ReleaseLockHandle(f *os.File) error { return releaseFileLock(f) }

// removeLockFile deletes path, treating a missing file as success.
func removeLockFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
