// Package history persists the synced transaction history, one file per
// index ("<index>.json" under the backup directory). The store's own
// contents are the sync checkpoint: the next index to fetch is always
// derived from what is on disk, so a crashed run can never desynchronize a
// cursor from the data.
package history

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/Psychedelic/xtc-audit/internal/domain"
)

// Store is a durable, append-only, index-keyed record set. Records are
// write-once: the engine never rewrites a stored index with different
// content, and re-putting identical content is harmless.
type Store struct {
	dir string
}

// NewStore opens (creating if needed) the backup directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create backup dir")
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(index uint64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.json", index))
}

// Contains reports whether a record exists at index.
func (s *Store) Contains(index uint64) bool {
	_, err := os.Stat(s.path(index))
	return err == nil
}

// HighestStoredIndex returns the greatest contiguously stored index. The
// second result is false when the store is empty. Records past a hole do
// not count: they are unreachable until the hole is filled.
func (s *Store) HighestStoredIndex() (uint64, bool) {
	var next uint64
	for s.Contains(next) {
		next++
	}
	if next == 0 {
		return 0, false
	}
	return next - 1, true
}

// NextIndex returns the first index not yet stored, which is the
// authoritative resume point for a sync run.
func (s *Store) NextIndex() uint64 {
	highest, ok := s.HighestStoredIndex()
	if !ok {
		return 0
	}
	return highest + 1
}

// Put writes the record at index atomically via a temp file, so a crash
// mid-write can never leave a partial record observable at the next start.
func (s *Store) Put(index uint64, payload []byte) error {
	target := s.path(index)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.Wrapf(err, "write record %d", index)
	}
	if err := os.Rename(tmp, target); err != nil {
		return errors.Wrapf(err, "persist record %d", index)
	}
	return nil
}

// Get reads the record at index.
func (s *Store) Get(index uint64) ([]byte, error) {
	payload, err := os.ReadFile(s.path(index))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(domain.ErrNotFound, "record %d", index)
		}
		return nil, errors.Wrapf(err, "read record %d", index)
	}
	return payload, nil
}

// Walk streams records in ascending index order starting at from, stopping
// at the first unstored index. Stopping at the gap is the contract that
// keeps replay honest: indices past a hole must never be reported as
// available, or the fold would silently skip history. fn errors abort the
// walk and propagate.
func (s *Store) Walk(from uint64, fn func(index uint64, payload []byte) error) error {
	for index := from; s.Contains(index); index++ {
		payload, err := s.Get(index)
		if err != nil {
			return err
		}
		if err := fn(index, payload); err != nil {
			return err
		}
	}
	return nil
}
