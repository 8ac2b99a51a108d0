// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.tomato.sh/pkg/store/storedefs"
)

var cmds = []string{
	"debug(1)",
	"var x = 2",
	"debug(x)",
	"x * 3",
}

// TestCmd tests a Store that starts empty.
func TestCmd(t *testing.T, store storedefs.Store) {
	first, err := store.NextSeq()
	if first != 1 || err != nil {
		t.Fatalf("NextSeq() on empty store -> (%v, %v), want (1, nil)", first, err)
	}
	for i, text := range cmds {
		if seq, err := store.Add(text); seq != first+i || err != nil {
			t.Errorf("Add(%q) -> (%v, %v), want (%v, nil)", text, seq, err, first+i)
		}
	}
	end := first + len(cmds)
	if seq, err := store.NextSeq(); seq != end || err != nil {
		t.Errorf("NextSeq() -> (%v, %v), want (%v, nil)", seq, err, end)
	}

	all := make([]storedefs.Cmd, len(cmds))
	for i, text := range cmds {
		all[i] = storedefs.Cmd{Text: text, Seq: first + i}
		if got, err := store.Get(first + i); got != text || err != nil {
			t.Errorf("Get(%v) -> (%q, %v), want (%q, nil)", first+i, got, err, text)
		}
	}
	if _, err := store.Get(end); err != storedefs.ErrNotFound {
		t.Errorf("Get(%v) -> %v, want ErrNotFound", end, err)
	}

	rangeTests := []struct {
		from, upto int
		want       []storedefs.Cmd
	}{
		{first, end, all},
		{0, end + 10, all},
		{first + 1, first + 3, all[1:3]},
		{end, end + 1, nil},
	}
	for _, tt := range rangeTests {
		got, err := store.Range(tt.from, tt.upto)
		if err != nil {
			t.Errorf("Range(%v, %v) -> error %v", tt.from, tt.upto, err)
		} else if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Range(%v, %v) (-want +got):\n%s", tt.from, tt.upto, diff)
		}
	}

	searchTests := []struct {
		backward bool
		seq      int
		prefix   string
		want     storedefs.Cmd
		err      error
	}{
		{false, first, "debug", all[0], nil},
		{false, first + 1, "debug", all[2], nil},
		{false, first, "x", all[3], nil},
		{false, first, "nothing", storedefs.Cmd{}, storedefs.ErrNotFound},
		{true, end, "debug", all[2], nil},
		{true, end + 10, "debug", all[2], nil},
		{true, first + 2, "debug", all[0], nil},
		{true, end, "", all[3], nil},
		{true, first, "", storedefs.Cmd{}, storedefs.ErrNotFound},
	}
	for _, tt := range searchTests {
		search, name := store.SearchForward, "SearchForward"
		if tt.backward {
			search, name = store.SearchBackward, "SearchBackward"
		}
		if got, err := search(tt.seq, tt.prefix); got != tt.want || err != tt.err {
			t.Errorf("%s(%v, %q) -> (%v, %v), want (%v, %v)",
				name, tt.seq, tt.prefix, got, err, tt.want, tt.err)
		}
	}

	// Deleted commands are skipped, and their sequence numbers not reused.
	if err := store.Delete(first + 2); err != nil {
		t.Errorf("Delete(%v) -> %v", first+2, err)
	}
	if _, err := store.Get(first + 2); err != storedefs.ErrNotFound {
		t.Errorf("Get(%v) after Delete -> %v, want ErrNotFound", first+2, err)
	}
	if got, err := store.SearchBackward(end, "debug"); got != all[0] || err != nil {
		t.Errorf("SearchBackward after Delete -> (%v, %v), want (%v, nil)", got, err, all[0])
	}
	if got, _ := store.Range(first, end); len(got) != len(cmds)-1 {
		t.Errorf("Range after Delete -> %v, want %d commands", got, len(cmds)-1)
	}
	if seq, err := store.NextSeq(); seq != end || err != nil {
		t.Errorf("NextSeq() after Delete -> (%v, %v), want (%v, nil)", seq, err, end)
	}
}
