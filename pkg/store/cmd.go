package store

import (
	"encoding/binary"
	"strings"

	bolt "go.etcd.io/bbolt"
	"src.tomato.sh/pkg/store/storedefs"
)

// Commands are keyed by their big-endian sequence number, so cursors visit
// them in the order they were added.
func seqKey(seq int) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(max(seq, 0)))
}

func keySeq(k []byte) int {
	return int(binary.BigEndian.Uint64(k))
}

func cmdBucket(tx *bolt.Tx) *bolt.Bucket {
	return tx.Bucket([]byte(bucketCmd))
}

func (s *dbStore) NextSeq() (seq int, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		seq = int(cmdBucket(tx).Sequence()) + 1
		return nil
	})
	return seq, err
}

func (s *dbStore) Add(text string) (seq int, err error) {
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := cmdBucket(tx)
		next, err := b.NextSequence()
		if err != nil {
			return err
		}
		seq = int(next)
		return b.Put(seqKey(seq), []byte(text))
	})
	return seq, err
}

func (s *dbStore) Delete(seq int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return cmdBucket(tx).Delete(seqKey(seq))
	})
}

func (s *dbStore) Get(seq int) (text string, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		v := cmdBucket(tx).Get(seqKey(seq))
		if v == nil {
			return storedefs.ErrNotFound
		}
		text = string(v)
		return nil
	})
	return text, err
}

func (s *dbStore) Range(from, upto int) ([]storedefs.Cmd, error) {
	var cmds []storedefs.Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		walk(cmdBucket(tx).Cursor(), from, false, func(cmd storedefs.Cmd) bool {
			if cmd.Seq >= upto {
				return false
			}
			cmds = append(cmds, cmd)
			return true
		})
		return nil
	})
	return cmds, err
}

func (s *dbStore) SearchForward(from int, prefix string) (storedefs.Cmd, error) {
	return s.search(from, false, prefix)
}

func (s *dbStore) SearchBackward(upto int, prefix string) (storedefs.Cmd, error) {
	return s.search(upto, true, prefix)
}

func (s *dbStore) search(seq int, backward bool, prefix string) (storedefs.Cmd, error) {
	var found storedefs.Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		err := storedefs.ErrNotFound
		walk(cmdBucket(tx).Cursor(), seq, backward, func(cmd storedefs.Cmd) bool {
			if strings.HasPrefix(cmd.Text, prefix) {
				found, err = cmd, nil
				return false
			}
			return true
		})
		return err
	})
	return found, err
}

// Visits commands with f until it returns false. Walking forward starts at
// seq; walking backward starts at the newest command before seq.
func walk(c *bolt.Cursor, seq int, backward bool, f func(storedefs.Cmd) bool) {
	k, v := c.Seek(seqKey(seq))
	step := c.Next
	if backward {
		step = c.Prev
		if k == nil {
			k, v = c.Last()
		} else {
			k, v = c.Prev()
		}
	}
	for ; k != nil; k, v = step() {
		if !f(storedefs.Cmd{Text: string(v), Seq: keySeq(k)}) {
			return
		}
	}
}
