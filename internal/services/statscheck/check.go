// Package statscheck runs basic sanity checks over the remote aggregate
// counters before trusting a sync or verify run.
package statscheck

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/Psychedelic/xtc-audit/internal/source"
)

// Result holds the checked counters. Circulating balance exceeding supply
// means cycles exist that supply does not account for; that is flagged as
// suspicious rather than passed over.
type Result struct {
	Balance            *big.Int
	Supply             *big.Int
	BalanceAboveSupply bool
}

// Suspicious reports whether any check tripped.
func (r Result) Suspicious() bool {
	return r.BalanceAboveSupply
}

// Check fetches the remote stats and evaluates them.
func Check(ctx context.Context, src source.HistorySource) (Result, error) {
	stats, err := src.Stats(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "fetch stats")
	}

	return Result{
		Balance:            stats.Balance,
		Supply:             stats.Supply,
		BalanceAboveSupply: stats.Balance.Cmp(stats.Supply) > 0,
	}, nil
}
