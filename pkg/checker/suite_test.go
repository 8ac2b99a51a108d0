package checker_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	. "src.tomato.sh/pkg/checker"
	"src.tomato.sh/pkg/js"
	"src.tomato.sh/pkg/jsassert"
	"src.tomato.sh/pkg/must"
	"src.tomato.sh/pkg/testutil"
)

const passingSuite = `
name: passing
setup: |
  var two = 2;
  function pair(x, y) { return x + "," + y; }
cases:
  - expect: "1"
    actual: 1
  - expect: two
    actual: 2.0
  - expect: "'foo'"
    actual: foo
  - expect: "null"
    actual: null
  - expect: pair(1, 2)
    actual: "1,2"
  - expect: "3"
    actual: 4
    fail: true
`

const failingSuite = `
name: failing
cases:
  - expect: "1"
    actual: 2
  - expect: "1"
    actual: 1
    fail: true
  - expect: "nosuchvar"
    actual: 1
`

func TestLoadSuite(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("pass.yaml", passingSuite)
	must.WriteFile("unnamed.yaml", "cases: [{expect: '1', actual: 1}]")
	must.WriteFile("bad.yaml", "cases: [")
	must.WriteFile("noexpect.yaml", "cases: [{actual: 1}]")

	s, err := LoadSuite("pass.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "passing" || len(s.Cases) != 6 || !s.Cases[5].Fail {
		t.Errorf("LoadSuite -> %+v", s)
	}

	s, err = LoadSuite("unnamed.yaml")
	if err != nil || s.Name != "unnamed.yaml" {
		t.Errorf("LoadSuite of unnamed suite -> (%v, %v), want name unnamed.yaml", s, err)
	}

	if _, err := LoadSuite("bad.yaml"); err == nil {
		t.Errorf("LoadSuite of invalid YAML returns no error")
	}
	_, err = LoadSuite("noexpect.yaml")
	if err == nil || !strings.Contains(err.Error(), "case 1 has no expect") {
		t.Errorf("LoadSuite of case without expect -> %v", err)
	}
	if _, err := LoadSuite("missing.yaml"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadSuite of missing file -> %v, want ErrNotExist", err)
	}
}

func TestSuite_Run(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("pass.yaml", passingSuite)
	must.WriteFile("fail.yaml", failingSuite)

	r := must.OK1(LoadSuite("pass.yaml")).Run()
	if r.Failed() != 0 {
		for _, res := range r.Results {
			t.Logf("%s: %v", res.Case, res.Err)
		}
		t.Errorf("passing suite has %d failures", r.Failed())
	}

	r = must.OK1(LoadSuite("fail.yaml")).Run()
	if r.Failed() != 3 {
		t.Errorf("failing suite has %d failures, want 3", r.Failed())
	}
	var mismatch *jsassert.MismatchError
	if !errors.As(r.Results[0].Err, &mismatch) {
		t.Errorf("got error %v for unequal values, want *MismatchError", r.Results[0].Err)
	}
	if r.Results[1].Err != nil {
		t.Errorf("got error %v for equal values", r.Results[1].Err)
	}
	var exc *js.Exception
	if !errors.As(r.Results[2].Err, &exc) {
		t.Errorf("got error %v for undefined variable, want *js.Exception", r.Results[2].Err)
	}
}

func TestSuite_Run_SetupError(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("setup.yaml", "setup: 'throw 1'\ncases: [{expect: '1', actual: 1}, {expect: '2', actual: 2}]")

	r := must.OK1(LoadSuite("setup.yaml")).Run()
	if r.SetupErr == nil {
		t.Errorf("SetupErr is nil")
	}
	if r.Failed() != 2 {
		t.Errorf("Failed() -> %d, want 2", r.Failed())
	}
	if r.OK() {
		t.Errorf("OK() -> true, want false")
	}

	must.WriteFile("no-cases.yaml", "setup: 'throw 1'")
	r = must.OK1(LoadSuite("no-cases.yaml")).Run()
	if r.Failed() != 0 || r.OK() {
		t.Errorf("Failed(), OK() -> %d, %v, want 0, false", r.Failed(), r.OK())
	}
}

func TestCase_String(t *testing.T) {
	tests := []struct {
		c    Case
		want string
	}{
		{Case{Expect: "1", Actual: 1}, "1 == 1"},
		{Case{Expect: "'a'", Actual: "a", Fail: true}, `'a' != "a"`},
		{Case{Expect: "[1]", Actual: []any{1}}, "[1] == [1]"},
	}
	for _, test := range tests {
		if got := test.c.String(); got != test.want {
			t.Errorf("String() -> %q, want %q", got, test.want)
		}
	}
}

func TestRunFiles(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("pass.yaml", passingSuite)
	must.WriteFile("fail.yaml", failingSuite)

	for _, jobs := range []int{0, 1, 4} {
		reports, err := RunFiles(context.Background(), []string{"fail.yaml", "pass.yaml", "fail.yaml"}, jobs)
		if err != nil {
			t.Fatal(err)
		}
		var names []string
		for _, r := range reports {
			names = append(names, r.Suite)
		}
		if got := strings.Join(names, " "); got != "failing passing failing" {
			t.Errorf("with %d jobs, got suites %q in order", jobs, got)
		}
	}
}

func TestRunFiles_LoadError(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("pass.yaml", passingSuite)

	reports, err := RunFiles(context.Background(), []string{"pass.yaml", "missing.yaml"}, 2)
	if reports != nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("RunFiles -> (%v, %v), want (nil, ErrNotExist)", reports, err)
	}
}

func TestRunFiles_Canceled(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("pass.yaml", passingSuite)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunFiles(ctx, []string{"pass.yaml"}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunFiles with canceled context -> %v", err)
	}
}
