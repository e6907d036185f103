//go:build !linux

package session

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

func controllingTTY() (string, bool) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", false
	}
	return fmt.Sprintf("ppid:%d", os.Getppid()), true
}
