// Package store implements the storage of the REPL command history, backed by
// a bbolt database.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"src.tomato.sh/pkg/env"
	"src.tomato.sh/pkg/logutil"
	"src.tomato.sh/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

const bucketCmd = "cmd"

// DBStore is the permanent storage backend for the history.
type DBStore interface {
	storedefs.Store
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

// NewStore opens the database at the given path, creating it and its parent
// directory if needed.
func NewStore(path string) (DBStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Println("opened", path)
	return &dbStore{db}, nil
}

// Close closes the underlying database.
func (s *dbStore) Close() error {
	return s.db.Close()
}

// DefaultPath returns the default path of the database, in the XDG state
// directory.
func DefaultPath() (string, error) {
	if dir := os.Getenv(env.XDG_STATE_HOME); dir != "" {
		return filepath.Join(dir, "tomato", "db.bolt"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine database path: %w", err)
	}
	return filepath.Join(home, ".local", "state", "tomato", "db.bolt"), nil
}
