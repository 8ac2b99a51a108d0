package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"src.tomato.sh/pkg/js"
	"src.tomato.sh/pkg/store"
	"src.tomato.sh/pkg/sys"
)

// Configuration for the interactive mode.
type interactCfg struct {
	// Path of the history database. If empty or if the database can't be
	// opened, history is not recorded.
	DBPath string
}

const prompt = "tomato> "

// Runs the REPL: reads code line by line until EOF, evaluating each line and
// printing its value as JSON. Errors are reported and don't end the session.
func interact(c *js.Context, fds [3]*os.File, interrupts <-chan struct{}, cfg *interactCfg) {
	st := openHistory(fds[2], cfg.DBPath)
	if st != nil {
		defer st.Close()
	}
	if err := c.Bind("history", &History{st}); err != nil {
		fmt.Fprintln(fds[2], "Warning:", err)
	}

	in := bufio.NewReader(fds[0])
	showPrompt := sys.IsATTY(fds[0])
	for cmdNum := 1; ; cmdNum++ {
		if showPrompt {
			fmt.Fprint(fds[2], prompt)
		}
		line, err := in.ReadString('\n')
		code := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(code) != "" {
			if st != nil {
				if _, err := st.Add(code); err != nil {
					logger.Println("cannot add command to history:", err)
				}
			}
			src := js.Source{Name: fmt.Sprintf("[tty %v]", cmdNum), Code: code}
			v, evalErr := evalInterruptible(c, src, interrupts)
			if evalErr != nil {
				showError(fds[2], evalErr)
			} else if v != nil {
				writeJSON(fds[1], v)
			}
		}
		if err == io.EOF {
			if showPrompt {
				fmt.Fprintln(fds[2])
			}
			return
		} else if err != nil {
			fmt.Fprintln(fds[2], "Cannot read input:", err)
			return
		}
	}
}

func openHistory(stderr io.Writer, path string) store.DBStore {
	if path == "" {
		return nil
	}
	st, err := store.NewStore(path)
	if err != nil {
		fmt.Fprintln(stderr, "Warning: cannot open history database:", err)
		fmt.Fprintln(stderr, "History will not be recorded.")
		return nil
	}
	return st
}
