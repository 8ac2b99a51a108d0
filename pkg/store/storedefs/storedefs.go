// Package storedefs defines the command history API of the REPL, separately
// from its bbolt implementation in package store.
package storedefs

import "errors"

// ErrNotFound is returned when no command has the requested sequence number
// or matches a search.
var ErrNotFound = errors.New("no matching command")

// Store keeps commands under increasing sequence numbers, starting from 1.
// Sequence numbers of deleted commands are not reused.
type Store interface {
	// NextSeq returns the sequence number the next added command will get.
	NextSeq() (int, error)
	// Add appends a command and returns its sequence number.
	Add(text string) (int, error)
	Delete(seq int) error
	Get(seq int) (string, error)
	// Range returns the commands with from <= seq < upto, oldest first.
	Range(from, upto int) ([]Cmd, error)
	// SearchForward returns the oldest command with seq >= from that starts
	// with prefix.
	SearchForward(from int, prefix string) (Cmd, error)
	// SearchBackward returns the newest command with seq < upto that starts
	// with prefix.
	SearchBackward(upto int, prefix string) (Cmd, error)
}

// Cmd is a command in the history.
type Cmd struct {
	Text string `json:"text"`
	Seq  int    `json:"seq"`
}
