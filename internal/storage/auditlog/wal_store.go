// Package auditlog journals verification runs in an append-only WAL, so the
// outcome of every reconcile survives the process that produced it.
package auditlog

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
)

const (
	segmentLimit = 100
	maxSegments  = 100

	runKey = "verify_run"
)

// RunRecord is one verification run outcome.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	Accounts   int       `json:"accounts"`
	Refreshed  int       `json:"refreshed"`
	Mismatches []string  `json:"mismatches,omitempty"`
	Verified   bool      `json:"verified"`
}

// WALStore persists verification run records in a WAL.
type WALStore struct {
	wal *gowal.Wal
}

// NewWALStore initializes the WAL-backed audit log under dir.
func NewWALStore(dir string) (*WALStore, error) {
	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "audit_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init audit WAL")
	}
	return &WALStore{wal: wal}, nil
}

// Append writes the run record to the log.
func (s *WALStore) Append(record RunRecord) error {
	if s == nil || s.wal == nil {
		return errors.New("audit log is not initialized")
	}
	if record.RunID == "" {
		return errors.New("audit record run id is required")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshal audit record")
	}

	return s.wal.Write(s.wal.CurrentIndex()+1, runKey, payload)
}

// Runs returns every recorded verification run in append order.
func (s *WALStore) Runs() ([]RunRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("audit log is not initialized")
	}

	var records []RunRecord
	for m := range s.wal.Iterator() {
		if m.Key != runKey {
			continue
		}
		var record RunRecord
		if err := json.Unmarshal(m.Value, &record); err != nil {
			return nil, errors.Wrap(err, "decode audit record")
		}
		records = append(records, record)
	}
	return records, nil
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return nil
	}
	return s.wal.Close()
}
