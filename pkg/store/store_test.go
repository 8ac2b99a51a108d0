package store_test

import (
	"path/filepath"
	"testing"

	"src.tomato.sh/pkg/env"
	"src.tomato.sh/pkg/store"
	"src.tomato.sh/pkg/store/storetest"
	"src.tomato.sh/pkg/testutil"
)

func openTempStore(t *testing.T) (store.DBStore, string) {
	path := filepath.Join(testutil.TempDir(t), "sub", "db.bolt")
	s, err := store.NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, path
}

func TestCmd(t *testing.T) {
	s, _ := openTempStore(t)
	defer s.Close()
	storetest.TestCmd(t, s)
}

func TestStore_Persists(t *testing.T) {
	s, path := openTempStore(t)
	if _, err := s.Add("1 + 1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err := store.NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if cmd, err := s.Get(1); cmd != "1 + 1" || err != nil {
		t.Errorf("Get(1) after reopening -> (%q, %v), want (\"1 + 1\", nil)", cmd, err)
	}
	if seq, err := s.NextSeq(); seq != 2 || err != nil {
		t.Errorf("NextSeq() after reopening -> (%v, %v), want (2, nil)", seq, err)
	}
}

func TestDefaultPath(t *testing.T) {
	testutil.Setenv(t, env.XDG_STATE_HOME, "/state")
	path, err := store.DefaultPath()
	if path != "/state/tomato/db.bolt" || err != nil {
		t.Errorf("DefaultPath() -> (%q, %v)", path, err)
	}

	testutil.Setenv(t, env.XDG_STATE_HOME, "")
	testutil.Setenv(t, "HOME", "/home/u")
	path, err = store.DefaultPath()
	if path != "/home/u/.local/state/tomato/db.bolt" || err != nil {
		t.Errorf("DefaultPath() without XDG_STATE_HOME -> (%q, %v)", path, err)
	}
}
