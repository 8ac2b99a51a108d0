// Package progtest contains utilities for testing subprograms.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"src.tomato.sh/pkg/must"
	"src.tomato.sh/pkg/prog"
)

// Case is a test case for Test.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exit   int
	stdout output
	stderr output
}

type output struct {
	content string
	partial bool
}

func (o output) String() string {
	if o.partial {
		return "text containing " + o.content
	}
	return o.content
}

// ThatTomato returns a new Case with the specified CLI arguments. The first
// argument, the program name, is supplied automatically.
//
// The new Case expects the program run to exit with 0 and write nothing to
// stdout or stderr.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "tomato -c hello" writes "hello\n" to
// stdout reads:
//
//	ThatTomato("-c", "hello").WritesStdout("hello\n")
func ThatTomato(args ...string) Case {
	return Case{args: append([]string{"tomato"}, args...)}
}

// WithStdin returns an altered Case that provides the given input to stdin of
// the program.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise
// don't have any expectations, for example:
//
//	ThatTomato("-c", "").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith returns an altered Case that requires the program run to return
// with the given exit status.
func (c Case) ExitsWith(exit int) Case {
	c.want.exit = exit
	return c
}

// WritesStdout returns an altered Case that requires the program run to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.stdout = output{content: s}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program run
// to write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.stdout = output{content: s, partial: true}
	return c
}

// WritesStderr returns an altered Case that requires the program run to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.stderr = output{content: s}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program run
// to write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.stderr = output{content: s, partial: true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		c := c
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			r := Run(p, c.args, c.stdin)
			if r.Exit != c.want.exit {
				t.Errorf("got exit %v, want %v", r.Exit, c.want.exit)
			}
			if !matchOutput(r.Stdout, c.want.stdout) {
				t.Errorf("got stdout %q, want %s", r.Stdout, c.want.stdout)
			}
			if !matchOutput(r.Stderr, c.want.stderr) {
				t.Errorf("got stderr %q, want %s", r.Stderr, c.want.stderr)
			}
		})
	}
}

// Result keeps the outcome of running a Program.
type Result struct {
	Exit           int
	Stdout, Stderr string
}

// Run runs a Program with the given arguments and stdin, capturing its exit
// status and outputs.
func Run(p prog.Program, args []string, stdin string) Result {
	r0, w0 := must.Pipe()
	// Write stdin in a goroutine so that large inputs don't block.
	go func() {
		io.WriteString(w0, stdin)
		w0.Close()
	}()
	r1, w1 := must.Pipe()
	r2, w2 := must.Pipe()

	stdoutCh := readAllAsync(r1)
	stderrCh := readAllAsync(r2)

	exit := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	r0.Close()
	w1.Close()
	w2.Close()

	return Result{exit, <-stdoutCh, <-stderrCh}
}

func readAllAsync(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		ch <- string(must.ReadAllAndClose(r))
	}()
	return ch
}

func matchOutput(got string, want output) bool {
	if want.partial {
		return strings.Contains(got, want.content)
	}
	return got == want.content
}
