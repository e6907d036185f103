package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "SUPERDOC_CONFIG"

// GetConfigPath returns $SUPERDOC_CONFIG, or ~/.super-document/config.
func GetConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".super-document", "config"), nil
}

// EnsureConfigDir creates the directory holding the config file.
func EnsureConfigDir() error {
	p, err := GetConfigPath()
	if err != nil {
		return err
	}
	return os.MkdirAll(filepath.Dir(p), 0755)
}
