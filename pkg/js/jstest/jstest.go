// Package jstest provides a framework for testing JavaScript code evaluated
// in a js.Context.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it.
//
// Example:
//
//	Test(t,
//	    That("1 + 1").Returns(2),
//	    That("debug('x')").Prints(`<"x">`+"\n"),
//	    That("throw 'x'").Throws("x"))
//
// If some setup is needed, use the TestWithSetup function instead.
package jstest

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.tomato.sh/pkg/js"
	"src.tomato.sh/pkg/jsassert"
)

// Case is a test case that can be used in Test.
type Case struct {
	codes  []string
	setup  func(c *js.Context)
	verify func(t *testing.T, c *js.Context)
	want   result
}

type result struct {
	Value      any
	checkValue bool
	Equals     string
	DebugOut   []byte

	CompileError bool
	Exception    any
	checkExc     bool
}

// That returns a new Case with the specified source code. Multiple arguments
// are joined with newlines. To specify multiple pieces of code that are
// executed separately, use the Then method to append code pieces.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "1 + 1" evaluates to 2 reads:
//
//	That("1 + 1").Returns(2)
func That(lines ...string) Case {
	return Case{codes: []string{strings.Join(lines, "\n")}}
}

// Then returns a new Case that executes the given code in addition. Multiple
// arguments are joined with newlines.
func (c Case) Then(lines ...string) Case {
	c.codes = append(c.codes, strings.Join(lines, "\n"))
	return c
}

// WithSetup returns a new Case with the given setup function executed on the
// Context before the code is executed.
func (c Case) WithSetup(f func(*js.Context)) Case {
	c.setup = f
	return c
}

// DoesNothing returns c unchanged. It is useful to mark tests that don't have
// any expectations, for example:
//
//	That("var x = 1").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// Passes returns an altered Case that runs an additional verification function
// on the Context after the code is executed.
func (c Case) Passes(f func(t *testing.T, c *js.Context)) Case {
	c.verify = f
	return c
}

// Returns returns an altered Case that requires the last piece of code to
// evaluate to the given Go value. Integer values are compared as int64.
func (c Case) Returns(v any) Case {
	c.want.Value = normalize(v)
	c.want.checkValue = true
	return c
}

// Equals returns an altered Case that requires the value of the last piece of
// code to be loosely equal to the given JavaScript expression, as checked by
// jsassert.Equal.
func (c Case) Equals(expr string) Case {
	c.want.Equals = expr
	return c
}

// Prints returns an altered Case that requires the code to write the given
// output with the debug function.
func (c Case) Prints(s string) Case {
	c.want.DebugOut = []byte(s)
	return c
}

// Throws returns an altered Case that requires the code to throw a value,
// which is compared with the Value of the *js.Exception after conversion.
func (c Case) Throws(v any) Case {
	c.want.Exception = normalize(v)
	c.want.checkExc = true
	return c
}

// DoesNotCompile returns an altered Case that requires the code to fail
// compilation.
func (c Case) DoesNotCompile() Case {
	c.want.CompileError = true
	return c
}

// Test runs test cases. For each test case, a new Context is created with
// js.NewContext.
func Test(t *testing.T, tests ...Case) {
	t.Helper()
	TestWithSetup(t, func(*js.Context) {}, tests...)
}

// TestWithSetup runs test cases. For each test case, a new Context is created
// with js.NewContext and passed to the setup function.
func TestWithSetup(t *testing.T, setup func(*js.Context), tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		tc := tc
		t.Run(strings.Join(tc.codes, "\n"), func(t *testing.T) {
			t.Helper()
			c := js.NewContext()
			var debugOut bytes.Buffer
			c.SetDebugOutput(&debugOut)
			setup(c)
			if tc.setup != nil {
				tc.setup(c)
			}

			r := evalAll(c, tc.codes)

			if tc.verify != nil {
				tc.verify(t, c)
			}
			if tc.want.checkValue && !cmp.Equal(tc.want.Value, r.value) {
				t.Errorf("got value (-want +got):\n%s", cmp.Diff(tc.want.Value, r.value))
			}
			if tc.want.Equals != "" {
				if err := jsassert.Equal(c, tc.want.Equals, r.value); err != nil {
					t.Errorf("value not equal to %s: %v", tc.want.Equals, err)
				}
			}
			if !bytes.Equal(tc.want.DebugOut, debugOut.Bytes()) {
				t.Errorf("got debug output %q, want %q", debugOut.Bytes(), tc.want.DebugOut)
			}
			if tc.want.CompileError != (r.compileErr != nil) {
				t.Errorf("got compile error %v, want compile error: %v",
					r.compileErr, tc.want.CompileError)
			}
			checkException(t, tc.want, r.err)
		})
	}
}

func checkException(t *testing.T, want result, err error) {
	t.Helper()
	var exc *js.Exception
	isExc := errors.As(err, &exc)
	switch {
	case !want.checkExc && err != nil:
		t.Errorf("unexpected error: %T: %v", err, err)
	case want.checkExc && !isExc:
		t.Errorf("got error %v, want exception %v", err, want.Exception)
	case want.checkExc && !cmp.Equal(want.Exception, exc.Value):
		t.Errorf("got exception value (-want +got):\n%s", cmp.Diff(want.Exception, exc.Value))
		t.Logf("traceback: %s", exc.Traceback)
	}
}

type evalResult struct {
	value      any
	compileErr error
	err        error
}

func evalAll(c *js.Context, codes []string) evalResult {
	var r evalResult
	for i, code := range codes {
		name := fmt.Sprintf("[test %d]", i)
		v, err := c.Eval(js.Source{Name: name, Code: code}, js.EvalCfg{})
		var compileErr *js.CompileError
		switch {
		case errors.As(err, &compileErr):
			// NOTE: Only the last compile error is kept.
			r.compileErr = err
		case err != nil:
			// NOTE: Only the last error is kept.
			r.err = err
		default:
			r.value = v
		}
	}
	return r
}

// Converts integer kinds to int64 and float32 to float64, recursing into
// []any and map[string]any, so that expectations can be written with
// untyped constants.
func normalize(v any) any {
	switch v := v.(type) {
	case []any:
		list := make([]any, len(v))
		for i, elem := range v {
			list[i] = normalize(elem)
		}
		return list
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, elem := range v {
			m[k] = normalize(elem)
		}
		return m
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return int64(rv.Uint())
	case reflect.Float32:
		return rv.Float()
	}
	return v
}
