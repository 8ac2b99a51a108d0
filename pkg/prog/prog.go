// Package prog supports building testable, composable programs.
//
// The main abstraction of this package is the Program interface, which can be
// combined with Composite and run with Run.
package prog

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"src.tomato.sh/pkg/logutil"
)

// Program represents a subprogram.
type Program interface {
	// RegisterFlags registers the flags the subprogram understands.
	RegisterFlags(fs *FlagSet)
	// Run runs the subprogram. It may return ErrNextProgram to signify that
	// the next subprogram in a Composite should be tried.
	Run(fds [3]*os.File, args []string) error
}

// FlagSet wraps a [flag.FlagSet] and provides access to flags shared by
// several subprograms.
type FlagSet struct {
	*flag.FlagSet
	json *bool
}

// JSON returns a pointer to the value of the -json flag, registering the flag
// the first time it is called.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false, "show output in JSON where supported")
		fs.json = &json
	}
	return fs.json
}

type commonFlags struct {
	log  string
	help bool
}

func newFlagSet(name string, c *commonFlags) *FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	// Error and usage are printed explicitly.
	fs.SetOutput(io.Discard)
	fs.StringVar(&c.log, "log", "", "a file to write debug log to")
	fs.BoolVar(&c.help, "help", false, "show usage help and quit")
	return &FlagSet{FlagSet: fs}
}

func usage(out io.Writer, fs *FlagSet) {
	fmt.Fprintln(out, "Usage: tomato [flags] [script [args]]")
	fmt.Fprintln(out, "Supported flags:")
	fs.SetOutput(out)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
}

// Run parses command-line flags and runs the program. It returns the exit
// status.
func Run(fds [3]*os.File, args []string, p Program) int {
	var c commonFlags
	fs := newFlagSet(args[0], &c)
	p.RegisterFlags(fs)

	err := fs.Parse(args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			// -h is not defined; -help is. Treat -h like any unknown flag.
			fmt.Fprintln(fds[2], "flag provided but not defined: -h")
		} else {
			fmt.Fprintln(fds[2], err)
		}
		usage(fds[2], fs)
		return 2
	}

	if c.log != "" {
		if err := logutil.SetOutputFile(c.log); err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot open log file:", err)
		}
	}

	if c.help {
		usage(fds[1], fs)
		return 0
	}

	err = p.Run(fds, fs.Args())
	if err == nil {
		return 0
	}
	if np, ok := err.(nextProgramError); ok {
		np.runCleanups(fds)
		err = errNoSuitableSubprogram
	} else if err == ErrNextProgram {
		err = errNoSuitableSubprogram
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	var exitErr exitError
	var badUsage badUsageError
	switch {
	case errors.As(err, &badUsage):
		usage(fds[2], fs)
	case errors.As(err, &exitErr):
		return exitErr.exit
	}
	return 2
}

// Composite returns a Program made up from the given subprograms. When run, it
// tries each subprogram in turn, until one returns something other than
// ErrNextProgram.
func Composite(programs ...Program) Program {
	return composite(programs)
}

type composite []Program

func (cp composite) RegisterFlags(fs *FlagSet) {
	for _, p := range cp {
		p.RegisterFlags(fs)
	}
}

func (cp composite) Run(fds [3]*os.File, args []string) error {
	var cleanups []func([3]*os.File)
	for _, p := range cp {
		err := p.Run(fds, args)
		if np, ok := err.(nextProgramError); ok {
			cleanups = append(cleanups, np.cleanups...)
		} else if err != ErrNextProgram {
			nextProgramError{cleanups}.runCleanups(fds)
			return err
		}
	}
	// All subprograms have asked for the next program.
	return NextProgram(cleanups...)
}

// ErrNextProgram is a special error that may be returned by Program.Run when
// it is part of a Composite program, indicating that the next program should
// be tried.
var ErrNextProgram = errors.New("next program")

// NextProgram is like ErrNextProgram, but also carries functions to call
// after the subprogram that eventually runs has finished, in reverse order.
func NextProgram(cleanups ...func([3]*os.File)) error {
	return nextProgramError{cleanups}
}

type nextProgramError struct{ cleanups []func([3]*os.File) }

func (e nextProgramError) Error() string { return ErrNextProgram.Error() }

func (e nextProgramError) runCleanups(fds [3]*os.File) {
	for i := len(e.cleanups) - 1; i >= 0; i-- {
		e.cleanups[i](fds)
	}
}

var errNoSuitableSubprogram = errors.New("internal error: no suitable subprogram")

// BadUsage returns a special error that may be returned by Program.Run. It
// causes the main function to print out a message, the usage information and
// exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by Program.Run. It causes
// the main function to exit with the given code without printing any error
// messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }
