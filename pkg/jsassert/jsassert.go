// Package jsassert checks that Go values are seen as expected from inside an
// embedded JavaScript runtime.
//
// The expected side of an assertion is written as JavaScript source and the
// comparison is done by the runtime with its loose equality operator, so a Go
// int and a JavaScript number, or a Go nil and JavaScript null, compare equal
// the same way they would in JavaScript.
//
// The expected expression is spliced into a fixed program unescaped. It must
// come from test code, never from untrusted input.
package jsassert

import (
	"errors"
	"strings"

	"src.tomato.sh/pkg/js"
)

// BindingName is the global name the actual value is bound to during an
// assertion. Expected expressions must not use it.
const BindingName = "obj"

// Runtime is the part of an embedded JavaScript runtime needed by Equal.
// *js.Context satisfies it.
type Runtime interface {
	// Bind exposes a Go value as a global variable.
	Bind(name string, value any) error
	// Run evaluates code and returns its completion value.
	Run(code string) (any, error)
}

// Unbinder is implemented by runtimes that can remove a global variable.
// Equal removes its binding afterwards when the runtime implements it.
type Unbinder interface {
	Unbind(name string)
}

const mismatchPrefix = " assertion failed: "

// The comparison runs inside a function so that a and b stay local. The
// message is chosen by the truthiness of a and b so that toString is never
// called on null or undefined.
const (
	programHead = "(function () {\nvar a = "
	programTail = `;
var b = ` + BindingName + `;
if (a != b) {
  if (a && b) { throw "` + mismatchPrefix + `<"+a.toString()+"> is not equal to <"+b.toString()+">"; }
  else if (a) { throw "` + mismatchPrefix + `<"+a.toString()+"> is not equal to <null>"; }
  else if (b) { throw "` + mismatchPrefix + `<null> is not equal to <"+b.toString()+">"; }
  else { throw "` + mismatchPrefix + `<null> is not equal to <null>"; }
}
return true;
})()`
)

// MismatchError is returned by Equal when the two sides are not loosely
// equal.
type MismatchError struct {
	// Message is the message thrown by the comparison, like
	// " assertion failed: <1> is not equal to <2>".
	Message string
}

func (e *MismatchError) Error() string { return e.Message }

// Program returns the JavaScript program Equal runs for the given expected
// expression.
func Program(expected string) string {
	return programHead + expected + "\n" + programTail
}

// Equal binds actual to BindingName in rt, and evaluates a program comparing
// the value of the expected JavaScript expression with it using !=.
//
// It returns nil if they are equal, and a *MismatchError if they are not.
// Errors from binding or running, for example a *js.BindingError or a
// *js.CompileError, are returned unchanged.
func Equal(rt Runtime, expected string, actual any) error {
	if err := rt.Bind(BindingName, actual); err != nil {
		return err
	}
	if u, ok := rt.(Unbinder); ok {
		defer u.Unbind(BindingName)
	}
	_, err := rt.Run(Program(expected))
	var exc *js.Exception
	if errors.As(err, &exc) {
		if msg, ok := exc.Value.(string); ok && strings.HasPrefix(msg, mismatchPrefix) {
			return &MismatchError{Message: msg}
		}
	}
	return err
}

// TestingErrf is the part of testing.TB used by AssertEqual.
type TestingErrf interface {
	Errorf(format string, args ...any)
	Helper()
}

// AssertEqual is like Equal, but reports any error as a test failure whose
// message is the error message. It returns whether the assertion passed.
func AssertEqual(t TestingErrf, rt Runtime, expected string, actual any) bool {
	t.Helper()
	if err := Equal(rt, expected, actual); err != nil {
		t.Errorf("%s", err)
		return false
	}
	return true
}
