//go:build linux

package session

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// controllingTTY names stdin's terminal device together with the parent
// process, so two shells on a reused pts get different ids.
func controllingTTY() (string, bool) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", false
	}
	dev, err := os.Readlink("/proc/self/fd/0")
	if err != nil {
		dev = "stdin"
	}
	return fmt.Sprintf("%s:%d", dev, os.Getppid()), true
}
