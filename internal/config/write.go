package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeycumines/super-document/internal/storage"
)

// SetKeyInFile sets key to value in section ("" for global) of the config
// file at path, creating the file or section as needed. An existing line
// for key is replaced in place; otherwise the line is added after the last
// line of the section. Comments and ordering are preserved.
func SetKeyInFile(path, section, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	lines := setKey(splitLines(string(data)), section, key, value)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return storage.AtomicWriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func sectionHeader(line string) (string, bool) {
	if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
		return strings.TrimSpace(line[1 : len(line)-1]), true
	}
	return "", false
}

func setKey(lines []string, section, key, value string) []string {
	entry := strings.TrimSpace(key + " " + value)

	inBlock := section == ""
	found := inBlock
	last := -1 // last non-blank line of the target block
	insert := -1
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if name, ok := sectionHeader(t); ok {
			if inBlock {
				insert = last + 1
				inBlock = false
			}
			if name == section && insert < 0 {
				inBlock, found, last = true, true, i
			}
			continue
		}
		if !inBlock || t == "" {
			continue
		}
		last = i
		if strings.HasPrefix(t, "#") {
			continue
		}
		if name, _, _ := strings.Cut(t, " "); name == key {
			lines[i] = entry
			return lines
		}
	}
	if inBlock {
		insert = last + 1
	}

	if !found {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		return append(lines, "["+section+"]", entry)
	}
	lines = append(lines, "")
	copy(lines[insert+1:], lines[insert:])
	lines[insert] = entry
	return lines
}
