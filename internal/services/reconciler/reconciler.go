// Package reconciler compares replayed balances against the live balance
// snapshot and decides which disagreements are real.
package reconciler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Psychedelic/xtc-audit/internal/domain"
	"github.com/Psychedelic/xtc-audit/internal/services/replay"
	"github.com/Psychedelic/xtc-audit/internal/source"
	"github.com/Psychedelic/xtc-audit/internal/storage/auditlog"
	"github.com/Psychedelic/xtc-audit/internal/storage/snapshot"
)

// Report is the outcome of a verification run. A non-verified report is a
// normal result demanding attention, not an error.
type Report struct {
	RunID      string
	StartedAt  time.Time
	Accounts   int
	Refreshed  int
	Mismatches []domain.Identity
	Verified   bool
}

// Reconciler owns the reconcile/refresh/re-reconcile cycle.
type Reconciler struct {
	engine  *replay.Engine
	cache   *snapshot.Cache
	src     source.HistorySource
	journal *auditlog.WALStore
	logger  *zap.Logger
}

func New(engine *replay.Engine, cache *snapshot.Cache, src source.HistorySource, journal *auditlog.WALStore, logger *zap.Logger) *Reconciler {
	return &Reconciler{engine: engine, cache: cache, src: src, journal: journal, logger: logger}
}

// Reconcile compares every ledger account against the snapshot. Accounts
// absent from the snapshot or with a different balance land in the mismatch
// set. Comparison is exact big-int equality; these are discrete token
// counts, so there is no tolerance.
func Reconcile(ledger domain.LedgerState, cache *snapshot.Cache) ([]domain.Identity, error) {
	var mismatches []domain.Identity
	for _, id := range ledger.Accounts() {
		cached, ok, err := cache.Get(id)
		if err != nil {
			return nil, err
		}
		if !ok || cached.Cmp(ledger.Balance(id)) != 0 {
			mismatches = append(mismatches, id)
		}
	}
	return mismatches, nil
}

// Verify replays the stored history, reconciles it against the snapshot,
// refreshes only the disputed accounts from the live source, and reconciles
// once more. One escalation round decides the outcome: a mismatch that
// survives a refresh is reported as a genuine discrepancy, never retried
// silently. The outcome is appended to the audit journal.
func (r *Reconciler) Verify(ctx context.Context) (Report, error) {
	report := Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	ledger, err := r.engine.Replay()
	if err != nil {
		return Report{}, errors.Wrap(err, "replay history")
	}
	report.Accounts = len(ledger)

	mismatches, err := Reconcile(ledger, r.cache)
	if err != nil {
		return Report{}, err
	}

	if len(mismatches) > 0 {
		r.logger.Info("cached balances disagree, pulling latest for non-matching",
			zap.Int("mismatches", len(mismatches)))

		// A refresh that dies on a live fetch is not fatal to the run:
		// whatever was fetched is already persisted, and unrefreshed
		// accounts simply stay in the mismatch set.
		if err := r.cache.Refresh(ctx, r.src, mismatches); err != nil {
			r.logger.Warn("balance refresh incomplete", zap.Error(err))
		}
		report.Refreshed = len(mismatches)

		mismatches, err = Reconcile(ledger, r.cache)
		if err != nil {
			return Report{}, err
		}
	}

	report.Mismatches = mismatches
	report.Verified = len(mismatches) == 0

	if err := r.journal.Append(runRecord(report)); err != nil {
		return Report{}, errors.Wrap(err, "journal verify run")
	}

	if report.Verified {
		r.logger.Info("all balances verified against backup",
			zap.String("run_id", report.RunID),
			zap.Int("accounts", report.Accounts))
	} else {
		r.logger.Warn("balances failed verification, rerun sync and verify",
			zap.String("run_id", report.RunID),
			zap.Int("mismatches", len(report.Mismatches)))
	}
	return report, nil
}

func runRecord(report Report) auditlog.RunRecord {
	record := auditlog.RunRecord{
		RunID:     report.RunID,
		StartedAt: report.StartedAt,
		Accounts:  report.Accounts,
		Refreshed: report.Refreshed,
		Verified:  report.Verified,
	}
	for _, id := range report.Mismatches {
		record.Mismatches = append(record.Mismatches, id.Text())
	}
	return record
}
