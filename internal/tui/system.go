package tui

import (
	"os"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteAll implements editor.Clipboard.
func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// OSFiles reads files from the local file system.
type OSFiles struct{}

// ReadFile implements editor.FileReader.
func (OSFiles) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }
