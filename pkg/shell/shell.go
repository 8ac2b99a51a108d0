// Package shell is the entry point for the JavaScript shell of tomato: it runs
// scripts and the interactive REPL.
package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"src.tomato.sh/pkg/js"
	"src.tomato.sh/pkg/logutil"
	"src.tomato.sh/pkg/prog"
	"src.tomato.sh/pkg/rc"
	"src.tomato.sh/pkg/store"
	"src.tomato.sh/pkg/sys"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram. It is always run if reached.
type Program struct {
	codeInArg   bool
	compileOnly bool
	print       bool
	noRC        bool
	rc          string
	db          string
	json        *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.codeInArg, "c", false,
		"take the first argument as code to execute")
	fs.BoolVar(&p.compileOnly, "compileonly", false,
		"check the syntax of the script without running it")
	fs.BoolVar(&p.print, "print", false,
		"print the completion value of the script as JSON")
	fs.BoolVar(&p.noRC, "norc", false,
		"don't read the rc file")
	fs.StringVar(&p.rc, "rc", "",
		"path to the rc file; defaults to $XDG_CONFIG_HOME/tomato/rc.yaml")
	fs.StringVar(&p.db, "db", "",
		"path to the history database of the REPL; defaults to $XDG_STATE_HOME/tomato/db.bolt")
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if len(args) == 0 {
		switch {
		case p.codeInArg:
			return prog.BadUsage("-c requires an argument")
		case p.compileOnly:
			return prog.BadUsage("-compileonly requires a script")
		}
	}

	interrupts, cleanup := handleSignals(fds[2])
	defer cleanup()

	c := js.NewContext()
	c.SetDebugOutput(fds[1])

	if len(args) > 0 {
		cfg := &scriptCfg{
			Cmd: p.codeInArg, CompileOnly: p.compileOnly,
			JSON: *p.json, Print: p.print}
		if !p.compileOnly {
			p.applyRC(c, fds)
		}
		return prog.Exit(script(c, fds, args, interrupts, cfg))
	}

	p.applyRC(c, fds)
	db := p.db
	if db == "" {
		var err error
		db, err = store.DefaultPath()
		if err != nil {
			fmt.Fprintln(fds[2], "Warning:", err)
		}
	}
	interact(c, fds, interrupts, &interactCfg{DBPath: db})
	return nil
}

func (p *Program) applyRC(c *js.Context, fds [3]*os.File) {
	if p.noRC {
		return
	}
	path := p.rc
	if path == "" {
		var err error
		path, err = rc.DefaultPath()
		if err != nil {
			fmt.Fprintln(fds[2], "Warning:", err)
			return
		}
	}
	cfg, err := rc.LoadIfExists(path)
	if err != nil {
		fmt.Fprintln(fds[2], "Warning:", err)
		return
	}
	if cfg == nil {
		return
	}
	if err := cfg.Apply(c, fds[1], fds[2]); err != nil {
		fmt.Fprintln(fds[2], "Error in rc file:")
		showError(fds[2], err)
	}
}

// Starts relaying signals. SIGUSR1 dumps the stacks of all goroutines to
// stderr, and SIGINT is sent on the returned channel if an evaluation is
// waiting for it.
func handleSignals(stderr io.Writer) (<-chan struct{}, func()) {
	sigCh := sys.NotifySignals()
	interrupts := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for sig := range sigCh {
			logger.Println("signal", sys.SignalName(sig))
			switch sig {
			case os.Interrupt:
				select {
				case interrupts <- struct{}{}:
				default:
				}
			case sys.SIGUSR1:
				fmt.Fprint(stderr, sys.DumpStack())
			}
		}
	}()
	return interrupts, func() {
		signal.Stop(sigCh)
		close(sigCh)
		<-done
	}
}

// Evaluates src, interrupting it when a value is received from interrupts.
func evalInterruptible(c *js.Context, src js.Source, interrupts <-chan struct{}) (any, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-interrupts:
			cancel()
		case <-stop:
		}
	}()
	return c.Eval(src, js.EvalCfg{Interrupt: ctx})
}

func showError(w io.Writer, err error) {
	var exc *js.Exception
	var compileErr *js.CompileError
	switch {
	case errors.As(err, &exc):
		fmt.Fprintln(w, "Exception:", exc.Traceback)
	case errors.As(err, &compileErr):
		fmt.Fprintf(w, "Compilation error in %s: %s\n", compileErr.Name, compileErr.Message)
	default:
		fmt.Fprintln(w, err)
	}
}

func writeJSON(w io.Writer, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Printf("cannot convert %T to JSON: %v", v, err)
		fmt.Fprintln(w, v)
		return
	}
	fmt.Fprintf(w, "%s\n", data)
}
