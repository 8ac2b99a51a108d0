package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"src.tomato.sh/pkg/js"
)

// Configuration for the script mode.
type scriptCfg struct {
	Cmd         bool
	CompileOnly bool
	JSON        bool
	Print       bool
}

// Executes a script, returning the exit status.
func script(c *js.Context, fds [3]*os.File, args []string, interrupts <-chan struct{}, cfg *scriptCfg) int {
	arg0 := args[0]
	if err := c.Bind("args", args[1:]); err != nil {
		fmt.Fprintln(fds[2], err)
		return 2
	}

	var name, code string
	if cfg.Cmd {
		name = "code from -c"
		code = arg0
	} else {
		var err error
		name, err = filepath.Abs(arg0)
		if err != nil {
			fmt.Fprintf(fds[2],
				"cannot get full path of script %q: %v\n", arg0, err)
			return 2
		}
		code, err = readFileUTF8(name)
		if err != nil {
			fmt.Fprintf(fds[2], "cannot read script %q: %v\n", name, err)
			return 2
		}
	}

	src := js.Source{Name: name, Code: code}
	if cfg.CompileOnly {
		err := c.Check(src)
		if cfg.JSON {
			fmt.Fprintf(fds[1], "%s\n", errorsToJSON(err))
		} else if err != nil {
			showError(fds[2], err)
		}
		if err != nil {
			return 2
		}
		return 0
	}

	v, err := evalInterruptible(c, src, interrupts)
	if err != nil {
		showError(fds[2], err)
		return 2
	}
	if cfg.Print {
		writeJSON(fds[1], v)
	}
	return 0
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}

// An auxiliary struct for converting compilation errors to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Message  string `json:"message"`
}

// Converts a compilation error into JSON.
func errorsToJSON(err error) []byte {
	converted := []errorInJSON{}
	var compileErr *js.CompileError
	if errors.As(err, &compileErr) {
		converted = append(converted,
			errorInJSON{compileErr.Name, compileErr.Message})
	}
	jsonError, errMarshal := json.Marshal(converted)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}
