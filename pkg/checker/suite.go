// Package checker runs suites of cross-runtime equality checks described in
// YAML files.
//
// A suite file looks like this:
//
//	name: numbers
//	setup: |
//	  var two = 2;
//	cases:
//	  - expect: "1"
//	    actual: 1
//	  - expect: two
//	    actual: 3
//	    fail: true
//
// Each case binds actual, decoded from YAML, into a JavaScript context and
// checks it against the JavaScript expression in expect with
// jsassert.Equal. A case with "fail: true" passes only when the two sides
// are not equal.
package checker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	"src.tomato.sh/pkg/js"
	"src.tomato.sh/pkg/jsassert"
	"src.tomato.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[checker] ")

// Suite is a list of equality checks sharing one JavaScript context.
type Suite struct {
	Name  string `yaml:"name"`
	Setup string `yaml:"setup"`
	Cases []Case `yaml:"cases"`

	path string
}

// Case is a single equality check.
type Case struct {
	Expect string `yaml:"expect"`
	Actual any    `yaml:"actual"`
	Fail   bool   `yaml:"fail"`
}

func (c Case) String() string {
	actual, err := json.Marshal(c.Actual)
	if err != nil {
		actual = []byte(fmt.Sprint(c.Actual))
	}
	op := "=="
	if c.Fail {
		op = "!="
	}
	return fmt.Sprintf("%s %s %s", c.Expect, op, actual)
}

// LoadSuite reads a suite from a YAML file. The suite name defaults to the
// path of the file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, c := range s.Cases {
		if c.Expect == "" {
			return nil, fmt.Errorf("parse %s: case %d has no expect", path, i+1)
		}
	}
	if s.Name == "" {
		s.Name = path
	}
	s.path = path
	return &s, nil
}

// Result is the outcome of a Case.
type Result struct {
	Case Case
	// The error returned by jsassert.Equal.
	Err error
}

// Passed returns whether the case passed. A case expecting equality passes
// when there is no error; a case expecting a failure passes only on a
// *jsassert.MismatchError.
func (r Result) Passed() bool {
	if !r.Case.Fail {
		return r.Err == nil
	}
	var mismatch *jsassert.MismatchError
	return errors.As(r.Err, &mismatch)
}

// Report is the outcome of a Suite.
type Report struct {
	Suite    string
	Path     string
	SetupErr error
	Results  []Result
}

// Failed returns the number of failed cases. If the setup failed, all cases
// count as failed.
func (r Report) Failed() int {
	if r.SetupErr != nil {
		return len(r.Results)
	}
	n := 0
	for _, res := range r.Results {
		if !res.Passed() {
			n++
		}
	}
	return n
}

// OK returns whether the setup succeeded and every case passed.
func (r Report) OK() bool {
	return r.SetupErr == nil && r.Failed() == 0
}

// Run runs the setup code and all cases of the suite in a new context. The
// output of the debug function is discarded.
func (s *Suite) Run() Report {
	report := Report{Suite: s.Name, Path: s.path, Results: make([]Result, len(s.Cases))}
	for i, c := range s.Cases {
		report.Results[i].Case = c
	}

	c := js.NewContext()
	c.SetDebugOutput(io.Discard)
	if s.Setup != "" {
		_, err := c.Eval(js.Source{Name: s.path + " (setup)", Code: s.Setup}, js.EvalCfg{})
		if err != nil {
			logger.Printf("setup of %s failed: %v", s.Name, err)
			report.SetupErr = err
			return report
		}
	}
	for i, tc := range s.Cases {
		report.Results[i].Err = jsassert.Equal(c, tc.Expect, tc.Actual)
	}
	return report
}
