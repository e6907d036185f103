// Package config loads the dnsmasq-style configuration file: one
// "optionName value" per line, '#' comments, and [section] headers scoping
// the following options to a command. The [sessions] section configures
// session file retention.
package config

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Config is a parsed configuration file.
type Config struct {
	Global map[string]string
	// Commands holds per-command sections, keyed by section name.
	Commands map[string]map[string]string
	Sessions SessionConfig
	// Warnings are the schema validation issues found while loading.
	Warnings []string
}

// SessionConfig controls retention of stored sessions.
type SessionConfig struct {
	MaxAgeDays int
	MaxCount   int
	MaxSizeMB  int
	// AutoCleanupEnabled starts background cleanup when the editor opens.
	AutoCleanupEnabled   bool
	CleanupIntervalHours int
}

// NewConfig returns an empty configuration with default session retention.
func NewConfig() *Config {
	return &Config{
		Global:   make(map[string]string),
		Commands: make(map[string]map[string]string),
		Sessions: SessionConfig{
			MaxAgeDays:           90,
			MaxCount:             100,
			MaxSizeMB:            500,
			AutoCleanupEnabled:   true,
			CleanupIntervalHours: 24,
		},
	}
}

// Load reads the file at GetConfigPath.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the file at path. A missing file is an empty config.
// Symlinks are rejected.
func LoadFromPath(path string) (*Config, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlink not allowed in config path: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader parses a configuration from r.
func LoadFromReader(r io.Reader) (*Config, error) {
	c := NewConfig()
	scanner := bufio.NewScanner(r)

	section := ""
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			if section != "" && section != SessionsSection && c.Commands[section] == nil {
				c.Commands[section] = make(map[string]string)
			}
			continue
		}

		name, value, _ := strings.Cut(line, " ")
		value = strings.TrimSpace(value)
		switch section {
		case "":
			c.Global[name] = value
		case SessionsSection:
			if err := c.Sessions.set(name, value); err != nil {
				return nil, fmt.Errorf("line %d: invalid session option %q: %w", lineNo, name, err)
			}
		default:
			c.Commands[section][name] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	for _, issue := range ValidateConfig(c, DefaultSchema()) {
		c.addWarning("%s", issue)
	}
	return c, nil
}

func (c *Config) addWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.Warnings = append(c.Warnings, msg)
	slog.Warn("config: " + msg)
}

// SessionsSection is the section holding SessionConfig.
const SessionsSection = "sessions"

func (sc *SessionConfig) set(name, value string) error {
	if name == "autoCleanupEnabled" {
		b, err := ParseBool(value)
		if err != nil {
			return err
		}
		sc.AutoCleanupEnabled = b
		return nil
	}

	var (
		dst   *int
		floor int
	)
	switch name {
	case "maxAgeDays":
		dst = &sc.MaxAgeDays
	case "maxCount":
		dst = &sc.MaxCount
	case "maxSizeMB":
		dst = &sc.MaxSizeMB
	case "cleanupIntervalHours":
		dst, floor = &sc.CleanupIntervalHours, 1
	default:
		return fmt.Errorf("unknown session option: %s", name)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer value %q", value)
	}
	if n < floor {
		return fmt.Errorf("%s must be at least %d: %d", name, floor, n)
	}
	*dst = n
	return nil
}

// ParseBool accepts true/false, 1/0, yes/no and on/off, case-insensitively.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value: %s", s)
}

// GetGlobalOption returns a global option.
func (c *Config) GetGlobalOption(name string) (string, bool) {
	v, ok := c.Global[name]
	return v, ok
}

// GetCommandOption returns an option from command's section, falling back
// to the global value.
func (c *Config) GetCommandOption(command, name string) (string, bool) {
	if v, ok := c.Commands[command][name]; ok {
		return v, true
	}
	return c.GetGlobalOption(name)
}

// SetGlobalOption sets a global option in memory.
func (c *Config) SetGlobalOption(name, value string) { c.Global[name] = value }

// SetCommandOption sets an option in command's section in memory.
func (c *Config) SetCommandOption(command, name, value string) {
	if c.Commands[command] == nil {
		c.Commands[command] = make(map[string]string)
	}
	c.Commands[command][name] = value
}

// PrefixedOptions collects the options of command whose names start with
// prefix, keyed without it. Section values override global ones.
func (c *Config) PrefixedOptions(command, prefix string) map[string]string {
	out := make(map[string]string)
	collect := func(m map[string]string) {
		for k, v := range m {
			if rest, ok := strings.CutPrefix(k, prefix); ok && rest != "" {
				out[rest] = v
			}
		}
	}
	collect(c.Global)
	collect(c.Commands[command])
	return out
}

// Keys returns the sorted global option names.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.Global))
	for k := range c.Global {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HasWarnings reports whether loading produced warnings.
func (c *Config) HasWarnings() bool { return len(c.Warnings) > 0 }
