package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultMinOrphanAge is the grace period before a lock file without a
// session file is treated as an orphan.
const DefaultMinOrphanAge = 5 * time.Second

// Cleaner enforces retention of the file system backend's session files.
// Active sessions and the excluded id are never removed.
type Cleaner struct {
	MaxAgeDays int
	MaxCount   int
	MaxSizeMB  int
	// MinOrphanAge defaults to DefaultMinOrphanAge.
	MinOrphanAge time.Duration
	// DryRun reports removals without touching any file.
	DryRun bool
	// Purge removes every idle session regardless of the limits.
	Purge bool
}

// CleanupReport lists the session ids removed and skipped.
type CleanupReport struct {
	Removed []string
	Skipped []string
}

// ExecuteCleanup applies the retention policy. Only one cleaner runs at a
// time across processes.
func (c *Cleaner) ExecuteCleanup(excludeID string) (*CleanupReport, error) {
	dir, err := sessionDirectory()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	globalLock, err := acquireFileLock(filepath.Join(filepath.Dir(dir), "cleanup.lock"))
	if err != nil {
		return nil, fmt.Errorf("failed to acquire global cleanup lock: %w", err)
	}
	defer func() { _ = releaseFileLock(globalLock) }()

	sessions, err := ScanSessions()
	if err != nil {
		return nil, err
	}

	var report CleanupReport
	var candidates []SessionInfo
	for _, s := range sessions {
		if s.ID == excludeID || s.Active {
			report.Skipped = append(report.Skipped, s.ID)
			continue
		}
		candidates = append(candidates, s)
	}

	for _, s := range c.selectRemovals(candidates, time.Now()) {
		if c.DryRun {
			report.Removed = append(report.Removed, s.ID)
			continue
		}
		if removeSession(s) {
			report.Removed = append(report.Removed, s.ID)
		} else {
			report.Skipped = append(report.Skipped, s.ID)
		}
	}

	if err := c.removeOrphanLocks(dir, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// selectRemovals returns the candidates violating any limit, oldest first.
func (c *Cleaner) selectRemovals(candidates []SessionInfo, now time.Time) []SessionInfo {
	// oldest first
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].UpdatedAt.Before(candidates[j].UpdatedAt)
	})

	remove := make(map[string]bool)
	if c.Purge {
		for _, s := range candidates {
			remove[s.ID] = true
		}
	}
	if c.MaxAgeDays > 0 {
		cutoff := now.Add(-time.Duration(c.MaxAgeDays) * 24 * time.Hour)
		for _, s := range candidates {
			if s.UpdatedAt.Before(cutoff) {
				remove[s.ID] = true
			}
		}
	}
	if c.MaxCount > 0 && len(candidates) > c.MaxCount {
		for _, s := range candidates[:len(candidates)-c.MaxCount] {
			remove[s.ID] = true
		}
	}
	if c.MaxSizeMB > 0 {
		var total int64
		for _, s := range candidates {
			total += s.Size
		}
		limit := int64(c.MaxSizeMB) * 1024 * 1024
		for _, s := range candidates {
			if total <= limit {
				break
			}
			total -= s.Size
			remove[s.ID] = true
		}
	}

	var out []SessionInfo
	for _, s := range candidates {
		if remove[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// removeSession deletes the session file while holding its lock.
func removeSession(s SessionInfo) bool {
	f, ok, err := AcquireLockHandle(s.LockPath)
	if err != nil || !ok {
		return false
	}
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		_ = f.Close()
		return false
	}
	_ = ReleaseLockHandle(f)
	return true
}

func (c *Cleaner) removeOrphanLocks(dir string, report *CleanupReport) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read sessions directory %q: %w", dir, err)
	}
	minAge := c.MinOrphanAge
	if minAge == 0 {
		minAge = DefaultMinOrphanAge
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, LockFileSuffix) {
			continue
		}
		id := strings.TrimSuffix(name, LockFileSuffix)
		if _, err := os.Stat(filepath.Join(dir, id+SessionFileSuffix)); !os.IsNotExist(err) {
			// session present, or unknown
			continue
		}
		info, err := e.Info()
		if err != nil || time.Since(info.ModTime()) < minAge {
			report.Skipped = append(report.Skipped, id)
			continue
		}
		if c.DryRun {
			report.Removed = append(report.Removed, id)
			continue
		}
		f, ok, err := AcquireLockHandle(filepath.Join(dir, name))
		if err == nil && ok && ReleaseLockHandle(f) == nil {
			report.Removed = append(report.Removed, id)
		} else {
			report.Skipped = append(report.Skipped, id)
		}
	}
	return nil
}
