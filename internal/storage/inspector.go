package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SessionInfo describes a session file found by ScanSessions.
type SessionInfo struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	LockPath  string    `json:"lockPath"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
	// Active is true while another process holds the session lock.
	Active bool `json:"active"`
	// Documents is the number of documents, or -1 if the file is unreadable.
	Documents int `json:"documents"`
}

// ScanSessions lists the file system backend's sessions, newest first.
func ScanSessions() ([]SessionInfo, error) {
	dir, err := sessionDirectory()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionInfo{}, nil
		}
		return nil, err
	}

	out := []SessionInfo{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, SessionFileSuffix) {
			continue
		}
		id := strings.TrimSuffix(name, SessionFileSuffix)
		path := filepath.Join(dir, name)
		fi, err := os.Stat(path)
		if err != nil {
			continue
		}
		lockPath, _ := sessionLockFilePath(id)

		info := SessionInfo{
			ID:        id,
			Path:      path,
			LockPath:  lockPath,
			Size:      fi.Size(),
			UpdatedAt: fi.ModTime(),
			Documents: countDocuments(path),
		}
		// probing must not remove the lock file of an idle session
		if f, ok, err := AcquireLockHandle(lockPath); err == nil {
			if ok {
				_ = f.Close()
			}
			info.Active = !ok
		}
		out = append(out, info)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func countDocuments(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return -1
	}
	var s struct {
		Documents []json.RawMessage `json:"documents"`
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return -1
	}
	return len(s.Documents)
}
