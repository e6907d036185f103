//go:build windows

package storage

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// acquireFileLock opens path and takes an exclusive LockFileEx lock,
// failing immediately when it is held elsewhere.
var acquireFileLock = func(path string) (*os.File, error) {
	lockFile, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	var overlapped windows.Overlapped
	err = windows.LockFileEx(
		windows.Handle(lockFile.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0,
		1,
		0,
		&overlapped,
	)
	if err != nil {
		_ = lockFile.Close()
		if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return nil, ErrWouldBlock
		}
		return nil, fmt.Errorf("LockFileEx failed: %w", err)
	}
	return lockFile, nil
}

// releaseFileLock unlocks and closes the handle, then removes the lock file.
func releaseFileLock(lockFile *os.File) error {
	if lockFile == nil {
		return nil
	}
	path := lockFile.Name()
	var overlapped windows.Overlapped
	var errUnlock error
	if err := windows.UnlockFileEx(windows.Handle(lockFile.Fd()), 0, 1, 0, &overlapped); err != nil {
		errUnlock = fmt.Errorf("UnlockFileEx failed: %w", err)
	}
	errClose := lockFile.Close()
	return errors.Join(errUnlock, errClose, removeLockFile(path))
}
