// Tomato embeds a JavaScript runtime for checking Go values against
// JavaScript expressions. The tomato command runs scripts, an interactive
// REPL, suites of equality checks and a language server.
package main

import (
	"os"

	"src.tomato.sh/pkg/buildinfo"
	"src.tomato.sh/pkg/checker"
	"src.tomato.sh/pkg/lsp"
	"src.tomato.sh/pkg/pprof"
	"src.tomato.sh/pkg/prog"
	"src.tomato.sh/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&pprof.Program{}, &buildinfo.Program{}, &lsp.Program{},
			&checker.Program{}, &shell.Program{})))
}
