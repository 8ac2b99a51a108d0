package shell

import (
	"errors"
	"slices"
	"strings"

	"src.tomato.sh/pkg/store/storedefs"
)

// History is bound as the global history in the REPL, with its methods
// available in lower case. Without a store it behaves as an empty history.
type History struct {
	st storedefs.Store
}

// List returns the last n commands that start with prefix, oldest first, or
// all such commands if n is not positive.
func (h *History) List(n int, prefix string) ([]string, error) {
	texts := []string{}
	if h.st == nil {
		return texts, nil
	}
	upto, err := h.st.NextSeq()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		cmds, err := h.st.Range(0, upto)
		if err != nil {
			return nil, err
		}
		for _, cmd := range cmds {
			if strings.HasPrefix(cmd.Text, prefix) {
				texts = append(texts, cmd.Text)
			}
		}
		return texts, nil
	}
	for len(texts) < n {
		cmd, err := h.st.SearchBackward(upto, prefix)
		if errors.Is(err, storedefs.ErrNotFound) {
			break
		} else if err != nil {
			return nil, err
		}
		texts = append(texts, cmd.Text)
		upto = cmd.Seq
	}
	slices.Reverse(texts)
	return texts, nil
}

// Get returns the command with the given sequence number, or null.
func (h *History) Get(seq int) (*storedefs.Cmd, error) {
	if h.st == nil {
		return nil, nil
	}
	text, err := h.st.Get(seq)
	return found(storedefs.Cmd{Text: text, Seq: seq}, err)
}

// Next returns the oldest command from seq on that starts with prefix, or
// null.
func (h *History) Next(from int, prefix string) (*storedefs.Cmd, error) {
	if h.st == nil {
		return nil, nil
	}
	return found(h.st.SearchForward(from, prefix))
}

// Prev returns the newest command before upto that starts with prefix, or
// null. If upto is not positive, the search starts from the newest command.
func (h *History) Prev(upto int, prefix string) (*storedefs.Cmd, error) {
	if h.st == nil {
		return nil, nil
	}
	if upto <= 0 {
		var err error
		if upto, err = h.st.NextSeq(); err != nil {
			return nil, err
		}
	}
	return found(h.st.SearchBackward(upto, prefix))
}

// Delete removes the command with the given sequence number. Deleting a
// command that doesn't exist is a no-op.
func (h *History) Delete(seq int) error {
	if h.st == nil {
		return nil
	}
	return h.st.Delete(seq)
}

func found(cmd storedefs.Cmd, err error) (*storedefs.Cmd, error) {
	if errors.Is(err, storedefs.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &cmd, nil
}
