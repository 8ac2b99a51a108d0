//go:build unix

package sys

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// SIGUSR1 asks an interactive program to dump its goroutine stacks.
const SIGUSR1 = syscall.SIGUSR1

func notifySignals() chan os.Signal {
	sigCh := make(chan os.Signal, 16)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGUSR1)
	return sigCh
}

func signalName(sig os.Signal) string {
	if s, ok := sig.(syscall.Signal); ok {
		if name := unix.SignalName(s); name != "" {
			return name
		}
	}
	return sig.String()
}
