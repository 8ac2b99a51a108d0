package prog_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	. "src.tomato.sh/pkg/prog"
	"src.tomato.sh/pkg/prog/progtest"
	"src.tomato.sh/pkg/testutil"
)

func TestCommonFlagHandling(t *testing.T) {
	testutil.InTempDir(t)

	progtest.Test(t, testProgram{},
		progtest.ThatTomato("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		progtest.ThatTomato("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		progtest.ThatTomato("-help").
			WritesStdoutContaining("Usage: tomato [flags] [script [args]]"),

		progtest.ThatTomato("-log", "logfile").DoesNothing(),
		progtest.ThatTomato("-log", "/a/bad/path/logfile").
			WritesStderrContaining("Warning: cannot open log file:"),
	)

	if _, err := os.Stat("logfile"); err != nil {
		t.Errorf("log file does not exist: %v", err)
	}
}

func TestJSONFlag(t *testing.T) {
	progtest.Test(t, &jsonProgram{},
		progtest.ThatTomato().WritesStdout("json=false\n"),
		progtest.ThatTomato("-json").WritesStdout("json=true\n"),
	)
}

func TestComposite(t *testing.T) {
	progtest.Test(t,
		Composite(testProgram{nextProgram: true}, testProgram{writeOut: "program 2"}),
		progtest.ThatTomato().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	progtest.Test(t,
		Composite(testProgram{nextProgram: true}, testProgram{nextProgram: true}),
		progtest.ThatTomato().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	progtest.Test(t,
		Composite(
			testProgram{writeOut: "program 1"}, testProgram{writeOut: "program 2"}),
		progtest.ThatTomato().WritesStdout("program 1"),
	)
}

func TestComposite_RunsCleanups(t *testing.T) {
	progtest.Test(t,
		Composite(
			cleanupProgram{"cleanup 1\n"}, cleanupProgram{"cleanup 2\n"},
			testProgram{writeOut: "program\n"}),
		progtest.ThatTomato().WritesStdout("program\ncleanup 2\ncleanup 1\n"),
	)
	progtest.Test(t,
		Composite(cleanupProgram{"cleanup\n"}, testProgram{nextProgram: true}),
		progtest.ThatTomato().
			ExitsWith(2).
			WritesStdout("cleanup\n").
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestBadUsageError(t *testing.T) {
	progtest.Test(t,
		testProgram{returnErr: BadUsage("lorem ipsum")},
		progtest.ThatTomato().ExitsWith(2).WritesStderrContaining("lorem ipsum\nUsage:"),
	)
}

func TestExitError(t *testing.T) {
	progtest.Test(t, testProgram{returnErr: Exit(3)},
		progtest.ThatTomato().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	progtest.Test(t, testProgram{returnErr: Exit(0)},
		progtest.ThatTomato().ExitsWith(0),
	)
}

func TestWrappedExitError(t *testing.T) {
	progtest.Test(t, testProgram{returnErr: fmt.Errorf("wrapped%w", Exit(4))},
		progtest.ThatTomato().ExitsWith(4).WritesStderr("wrapped\n"),
	)
}

func TestOtherError(t *testing.T) {
	progtest.Test(t, testProgram{returnErr: errors.New("some error")},
		progtest.ThatTomato().ExitsWith(2).WritesStderr("some error\n"),
	)
}

type testProgram struct {
	nextProgram bool
	writeOut    string
	returnErr   error
}

func (p testProgram) RegisterFlags(f *FlagSet) {}

func (p testProgram) Run(fds [3]*os.File, args []string) error {
	if p.nextProgram {
		return ErrNextProgram
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}

type jsonProgram struct{ json *bool }

func (p *jsonProgram) RegisterFlags(f *FlagSet) { p.json = f.JSON() }

func (p *jsonProgram) Run(fds [3]*os.File, args []string) error {
	fmt.Fprintf(fds[1], "json=%v\n", *p.json)
	return nil
}

type cleanupProgram struct{ out string }

func (p cleanupProgram) RegisterFlags(f *FlagSet) {}

func (p cleanupProgram) Run(fds [3]*os.File, args []string) error {
	return NextProgram(func(fds [3]*os.File) { fds[1].WriteString(p.out) })
}
