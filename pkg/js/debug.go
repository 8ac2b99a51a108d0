package js

import (
	"io"
	"strings"

	"github.com/dop251/goja"
)

// Implements the global debug function, which writes the JSON text of each
// argument in angle brackets, separated by ", ", on one line.
func (c *Context) debug(call goja.FunctionCall) goja.Value {
	var sb strings.Builder
	for i, arg := range call.Arguments {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("<" + ToJSON(c.rt, arg) + ">")
	}
	sb.WriteByte('\n')
	io.WriteString(c.debugOut, sb.String())
	return goja.Null()
}
