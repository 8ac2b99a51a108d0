//go:build !unix

package sys

import (
	"os"
	"os/signal"
)

// SIGUSR1 does not exist outside UNIX; this value is never delivered.
var SIGUSR1 os.Signal = nil

func notifySignals() chan os.Signal {
	sigCh := make(chan os.Signal, 16)
	signal.Notify(sigCh, os.Interrupt)
	return sigCh
}

func signalName(sig os.Signal) string { return sig.String() }
