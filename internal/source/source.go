// Package source defines the read-only query boundary to the authoritative
// ledger and its HTTP gateway implementation. The engine never mutates
// remote state through this interface.
package source

import (
	"context"
	"math/big"

	"github.com/Psychedelic/xtc-audit/internal/domain"
)

// HistorySource is the narrow query surface of the remote ledger. Every
// method is a single request-response with no implicit retry: a failed call
// propagates to the caller, which decides whether to abort the run or
// record a mismatch.
type HistorySource interface {
	// Stats fetches the aggregate counters, including the history event
	// count used as the sync target.
	Stats(ctx context.Context) (domain.Stats, error)

	// GetTransaction fetches the event at a dense history index. A nil
	// transaction with nil error means the remote has no event there.
	GetTransaction(ctx context.Context, index uint64) (*domain.Transaction, error)

	// Balance fetches the live balance of id, or the gateway's own balance
	// when id is nil.
	Balance(ctx context.Context, id *domain.Identity) (*big.Int, error)
}
