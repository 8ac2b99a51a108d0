package sys

import (
	"os"
	"strings"
	"testing"

	"src.tomato.sh/pkg/must"
)

func TestIsATTY_Pipe(t *testing.T) {
	r, w := must.Pipe()
	defer r.Close()
	defer w.Close()
	if IsATTY(r) {
		t.Errorf("IsATTY(pipe) = true")
	}
}

func TestSignalName(t *testing.T) {
	if name := SignalName(os.Interrupt); name != "SIGINT" && name != "interrupt" {
		t.Errorf("SignalName(os.Interrupt) = %q", name)
	}
}

func TestDumpStack(t *testing.T) {
	if s := DumpStack(); !strings.Contains(s, "TestDumpStack") {
		t.Errorf("DumpStack() does not contain the current function")
	}
}
