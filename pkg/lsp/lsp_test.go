package lsp

import (
	"fmt"
	"testing"

	. "src.tomato.sh/pkg/prog/progtest"
)

func lspMessage(body string) string {
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

func TestProgram(t *testing.T) {
	Test(t, &Program{},
		ThatTomato("-lsp").
			WithStdin(lspMessage(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)).
			WritesStdoutContaining(`"capabilities":{"textDocumentSync":{"openClose":true,"change":1}`),
		ThatTomato("-lsp").DoesNothing(),
		ThatTomato().ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}
