// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X src.tomato.sh/pkg/buildinfo.Var=value" to "go build".
package buildinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"src.tomato.sh/pkg/js"
	"src.tomato.sh/pkg/prog"
)

// Version identifies the version of tomato. On development commits, it
// identifies the next release.
const Version = "0.4.0"

// VersionSuffix is appended to Version to build the full version string.
var VersionSuffix = "-dev.unknown"

// Reproducible identifies whether the build is reproducible.
var Reproducible = "false"

// Info keeps build information.
type Info struct {
	Version       string `json:"version"`
	GoVersion     string `json:"goversion"`
	EngineVersion string `json:"engineversion"`
	Reproducible  bool   `json:"reproducible"`
}

// Value contains all the build information.
var Value = Info{
	Version:       Version + VersionSuffix,
	GoVersion:     runtime.Version(),
	EngineVersion: js.EngineVersion(),
	Reproducible:  Reproducible == "true",
}

// Program is the buildinfo subprogram.
type Program struct {
	version, buildinfo bool
	json               *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.version, "version", false, "show version and quit")
	fs.BoolVar(&p.buildinfo, "buildinfo", false, "show build info and quit")
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	var v any
	switch {
	case p.buildinfo:
		if !*p.json {
			fmt.Fprintln(fds[1], "Version:", Value.Version)
			fmt.Fprintln(fds[1], "Go version:", Value.GoVersion)
			fmt.Fprintln(fds[1], "JavaScript engine:", Value.EngineVersion)
			fmt.Fprintln(fds[1], "Reproducible build:", Value.Reproducible)
			return nil
		}
		v = Value
	case p.version:
		if !*p.json {
			fmt.Fprintln(fds[1], Value.Version)
			return nil
		}
		v = Value.Version
	default:
		return prog.ErrNextProgram
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprintf(fds[1], "%s\n", data)
	return nil
}
