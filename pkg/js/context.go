// Package js embeds a JavaScript runtime in Go programs.
//
// A Context owns one JavaScript global environment. Go values can be bound
// into it by name, and JavaScript source can be evaluated in it, with the
// completion value converted back to a Go value.
package js

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/dop251/goja"
	"src.tomato.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[js] ")

// DynamicName is the source name used by Run.
const DynamicName = "(dynamic)"

// Source is a piece of JavaScript code with a name. The name appears in
// compilation errors and tracebacks.
type Source struct {
	Name string
	Code string
}

// EvalCfg keeps configuration for (*Context).Eval.
type EvalCfg struct {
	// If not nil, the evaluation is aborted with ErrInterrupted when
	// Interrupt is done.
	Interrupt context.Context
}

// Context is a JavaScript execution context. Its methods are safe to call from
// multiple goroutines, but a sequence of calls, like binding a value and
// then running code that uses it, is not atomic.
type Context struct {
	mu       sync.Mutex
	rt       *goja.Runtime
	debugOut io.Writer
}

// NewContext creates a new Context with the builtin globals of ECMAScript,
// plus the debug function.
func NewContext() *Context {
	rt := goja.New()
	rt.SetFieldNameMapper(fieldNameMapper{})
	c := &Context{rt: rt, debugOut: os.Stdout}
	rt.Set("debug", c.debug)
	return c
}

// SetDebugOutput sets where the debug function writes. The default is
// os.Stdout.
func (c *Context) SetDebugOutput(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debugOut = w
}

// Run evaluates code named DynamicName and returns its completion value.
func (c *Context) Run(code string) (any, error) {
	return c.Eval(Source{Name: DynamicName, Code: code}, EvalCfg{})
}

// Check compiles the source without running it. It returns a *CompileError
// if the source is not valid JavaScript.
func (c *Context) Check(src Source) error {
	_, err := compile(src)
	return err
}

// Eval evaluates a piece of source code and returns the completion value,
// converted with ToHost.
//
// Errors are *CompileError if the code cannot be compiled, *Exception if the
// code throws, or ErrInterrupted if the evaluation was interrupted.
func (c *Context) Eval(src Source, cfg EvalCfg) (any, error) {
	prg, err := compile(src)
	if err != nil {
		logger.Printf("cannot compile %s: %v", src.Name, err)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cfg.Interrupt != nil {
		done := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-cfg.Interrupt.Done():
				logger.Printf("interrupting %s", src.Name)
				c.rt.Interrupt(ErrInterrupted)
			case <-done:
			}
		}()
		defer func() {
			close(done)
			wg.Wait()
			c.rt.ClearInterrupt()
		}()
	}

	logger.Printf("executing %s", src.Name)
	v, err := c.rt.RunProgram(prg)
	if err != nil {
		return nil, c.convertError(err)
	}
	return ToHost(c.rt, v), nil
}

func compile(src Source) (*goja.Program, error) {
	prg, err := goja.Compile(src.Name, src.Code, false)
	if err != nil {
		return nil, &CompileError{Name: src.Name, Message: err.Error()}
	}
	return prg, nil
}

// Bind exposes a Go value as a global variable, replacing any existing
// variable with the same name. It returns a *BindingError if the value, or
// anything reachable from it, cannot be represented in JavaScript.
//
// Go structs expose their exported fields and methods under the field's json
// tag name, or the name with the first letter in lower case.
func (c *Context) Bind(name string, value any) error {
	if err := checkBindable(name, value); err != nil {
		logger.Println(err)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	logger.Printf("binding %s to %T", name, value)
	return c.rt.Set(name, value)
}

// Unbind removes a global variable. It does nothing if the variable doesn't
// exist.
func (c *Context) Unbind(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.rt.GlobalObject().Delete(name); err != nil {
		logger.Printf("cannot unbind %s: %v", name, err)
	}
}

// Get returns the value of a global variable, converted with ToHost.
func (c *Context) Get(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.rt.Get(name)
	if v == nil {
		return nil, false
	}
	return ToHost(c.rt, v), true
}
