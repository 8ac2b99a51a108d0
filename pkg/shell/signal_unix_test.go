//go:build unix

package shell

import (
	"io"
	"strings"
	"syscall"
	"testing"
	"time"

	"src.tomato.sh/pkg/must"
	"src.tomato.sh/pkg/testutil"
)

func TestHandleSignals_USR1DumpsStack(t *testing.T) {
	r, w := must.Pipe()
	defer r.Close()
	_, cleanup := handleSignals(w)

	must.OK(syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

	outCh := make(chan string, 1)
	go func() {
		outCh <- string(must.ReadAllAndClose(r))
	}()
	// Give the handler some time before closing the writer.
	time.Sleep(testutil.Scaled(100 * time.Millisecond))
	cleanup()
	w.Close()

	if out := <-outCh; !strings.Contains(out, "src.tomato.sh/pkg/shell") {
		t.Errorf("got stderr %q, want stack of this package", out)
	}
}

func TestHandleSignals_INTInterrupts(t *testing.T) {
	interrupts, cleanup := handleSignals(io.Discard)
	defer cleanup()

	got := make(chan struct{})
	go func() {
		<-interrupts
		close(got)
	}()
	for i := 0; i < 100; i++ {
		must.OK(syscall.Kill(syscall.Getpid(), syscall.SIGINT))
		select {
		case <-got:
			return
		case <-time.After(testutil.Scaled(10 * time.Millisecond)):
		}
	}
	t.Errorf("SIGINT was not relayed")
}
