// Package pprof adds profiling support to the tomato program, for finding out
// where time goes when running scripts and suites.
package pprof

import (
	"fmt"
	"os"
	"runtime/pprof"

	"src.tomato.sh/pkg/logutil"
	"src.tomato.sh/pkg/prog"
)

var logger = logutil.GetLogger("[pprof] ")

// Program adds support for the -cpuprofile and -allocsprofile flags. It never
// runs by itself; the profiles are written after the subprogram that does run
// finishes.
type Program struct {
	cpuProfile    string
	allocsProfile string
}

func (p *Program) RegisterFlags(f *prog.FlagSet) {
	f.StringVar(&p.cpuProfile, "cpuprofile", "", "write CPU profile to file")
	f.StringVar(&p.allocsProfile, "allocsprofile", "", "write memory allocation profile to file")
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	var cleanups []func([3]*os.File)
	if f := create(fds, "CPU profile", p.cpuProfile); f != nil {
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot start CPU profile:", err)
			f.Close()
		} else {
			cleanups = append(cleanups, func([3]*os.File) {
				pprof.StopCPUProfile()
				f.Close()
				logger.Println("wrote CPU profile to", p.cpuProfile)
			})
		}
	}
	if f := create(fds, "memory allocation profile", p.allocsProfile); f != nil {
		cleanups = append(cleanups, func(fds [3]*os.File) {
			if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
				fmt.Fprintln(fds[2], "Warning: cannot write memory allocation profile:", err)
			}
			f.Close()
		})
	}
	return prog.NextProgram(cleanups...)
}

// Creates a profile file, or returns nil if path is empty or the file can't
// be created.
func create(fds [3]*os.File, what, path string) *os.File {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(fds[2], "Warning: cannot create %s: %v\n", what, err)
		fmt.Fprintf(fds[2], "Continuing without %s.\n", what)
		return nil
	}
	return f
}
