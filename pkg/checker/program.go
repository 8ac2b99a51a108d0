package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"src.tomato.sh/pkg/prog"
)

// Program is the subprogram for running suites, enabled with -check.
type Program struct {
	check bool
	jobs  int
	json  *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.check, "check", false, "run the equality suites in the YAML files given as arguments")
	fs.IntVar(&p.jobs, "j", runtime.NumCPU(), "number of suites to run at the same time with -check")
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if !p.check {
		return prog.ErrNextProgram
	}
	if len(args) == 0 {
		return prog.BadUsage("-check requires at least one suite file")
	}
	reports, err := RunFiles(context.Background(), args, p.jobs)
	if err != nil {
		return err
	}

	if *p.json {
		if err := writeJSON(fds[1], reports); err != nil {
			return err
		}
	} else {
		writeText(fds[1], reports)
	}

	for _, r := range reports {
		if !r.OK() {
			return prog.Exit(1)
		}
	}
	return nil
}

func writeText(out *os.File, reports []Report) {
	passed, failed := 0, 0
	for _, r := range reports {
		if r.SetupErr != nil {
			fmt.Fprintf(out, "FAIL %s: setup: %v\n", r.Suite, r.SetupErr)
			failed += len(r.Results)
			continue
		}
		for _, res := range r.Results {
			if res.Passed() {
				passed++
				fmt.Fprintf(out, "PASS %s: %s\n", r.Suite, res.Case)
				continue
			}
			failed++
			if res.Err == nil {
				fmt.Fprintf(out, "FAIL %s: %s: values are equal\n", r.Suite, res.Case)
			} else {
				fmt.Fprintf(out, "FAIL %s: %s: %v\n", r.Suite, res.Case, res.Err)
			}
		}
	}
	fmt.Fprintf(out, "%d passed, %d failed\n", passed, failed)
}

type jsonResult struct {
	Suite  string `json:"suite"`
	File   string `json:"file"`
	Expect string `json:"expect"`
	Actual any    `json:"actual"`
	Fail   bool   `json:"fail,omitempty"`
	Passed bool   `json:"passed"`
	Error  string `json:"error,omitempty"`
}

func writeJSON(out *os.File, reports []Report) error {
	results := []jsonResult{}
	for _, r := range reports {
		if r.SetupErr != nil && len(r.Results) == 0 {
			results = append(results, jsonResult{
				Suite: r.Suite, File: r.Path, Error: "setup: " + r.SetupErr.Error()})
			continue
		}
		for _, res := range r.Results {
			jr := jsonResult{
				Suite: r.Suite, File: r.Path,
				Expect: res.Case.Expect, Actual: res.Case.Actual, Fail: res.Case.Fail,
				Passed: r.SetupErr == nil && res.Passed(),
			}
			switch {
			case r.SetupErr != nil:
				jr.Error = "setup: " + r.SetupErr.Error()
			case res.Err != nil:
				jr.Error = res.Err.Error()
			}
			results = append(results, jr)
		}
	}
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", data)
	return nil
}
