// Package sys provides system utilities with the same API across OSes.
package sys

import (
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
)

// IsATTY determines whether the given file is a terminal.
func IsATTY(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NotifySignals returns a channel on which signals interesting to an
// interactive program get delivered.
func NotifySignals() chan os.Signal { return notifySignals() }

// SignalName returns the conventional name of a signal, like "SIGINT".
func SignalName(sig os.Signal) string { return signalName(sig) }

// DumpStack returns the stack traces of all goroutines.
func DumpStack() string {
	buf := make([]byte, 8192)
	for {
		n := runtime.Stack(buf, true)
		if n < cap(buf) {
			return string(buf[:n])
		}
		buf = make([]byte, cap(buf)*2)
	}
}
