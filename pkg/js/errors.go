package js

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/dop251/goja"
)

// ErrInterrupted is returned by Eval when the evaluation is interrupted.
var ErrInterrupted = errors.New("interrupted")

// CompileError is returned when source code is not valid JavaScript.
type CompileError struct {
	Name    string
	Message string
}

func (e *CompileError) Error() string { return e.Message }

// Exception is returned when JavaScript code throws.
type Exception struct {
	// The thrown value, converted with ToHost.
	Value any
	// The string form of the thrown value. For values thrown with a string,
	// this is the string itself.
	Message string
	// The thrown value followed by the JavaScript stack.
	Traceback string
}

func (e *Exception) Error() string { return e.Message }

// BindingError is returned by Bind when a value cannot be represented in
// JavaScript.
type BindingError struct {
	Name string
	Type reflect.Type
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("cannot bind %s: values of type %v cannot be represented in JavaScript",
		e.Name, e.Type)
}

// IsExecutionError returns whether err is a *CompileError or an *Exception,
// the errors that originate from the JavaScript code itself.
func IsExecutionError(err error) bool {
	var compileErr *CompileError
	var exc *Exception
	return errors.As(err, &compileErr) || errors.As(err, &exc)
}

func (c *Context) convertError(err error) error {
	var interrupted *goja.InterruptedError
	var exc *goja.Exception
	switch {
	case errors.As(err, &interrupted):
		return ErrInterrupted
	case errors.As(err, &exc):
		v := exc.Value()
		logger.Printf("exception: %s", safeString(v))
		return &Exception{
			Value:     ToHost(c.rt, v),
			Message:   safeString(v),
			Traceback: exc.String(),
		}
	}
	return err
}
