package domain

import "math/big"

// Stats is the aggregate counter snapshot the remote ledger exposes. The
// engine uses HistoryEvents as the sync target and Balance/Supply for the
// sanity check; the remaining counters are carried for reporting.
type Stats struct {
	HistoryEvents  uint64
	Balance        *big.Int
	Supply         *big.Int
	TransfersCount uint64
	MintsCount     uint64
	BurnsCount     uint64
	ProxyCalls     uint64
}
