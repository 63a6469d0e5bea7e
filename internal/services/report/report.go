// Package report derives read-only reports from the stored history: the
// largest accounts by replayed balance and the transaction history of a
// single account.
package report

import (
	"math/big"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Psychedelic/xtc-audit/internal/codec"
	"github.com/Psychedelic/xtc-audit/internal/domain"
	"github.com/Psychedelic/xtc-audit/internal/services/replay"
	"github.com/Psychedelic/xtc-audit/internal/storage/history"
)

// aTrillion scales raw cycles into the unit balances are usually discussed
// in.
var aTrillion = decimal.New(1, 12)

// WhaleEntry is one account in the top-balance report.
type WhaleEntry struct {
	Account   domain.Identity
	Balance   *big.Int
	Trillions decimal.Decimal
}

// Whales returns the top accounts by balance, descending, at most limit
// entries. Ties break on account text so the report is deterministic.
func Whales(ledger domain.LedgerState, limit int) []WhaleEntry {
	entries := make([]WhaleEntry, 0, len(ledger))
	for _, id := range ledger.Accounts() {
		balance := ledger.Balance(id)
		entries = append(entries, WhaleEntry{
			Account:   id,
			Balance:   balance,
			Trillions: decimal.NewFromBigInt(balance, 0).DivRound(aTrillion, 3),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Balance.Cmp(entries[j].Balance) > 0
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// AccountEvent is one stored transaction touching the requested account,
// with the account's running balance after applying it.
type AccountEvent struct {
	Transaction *domain.Transaction
	Balance     *big.Int
}

// AccountHistory streams the stored history and keeps the transactions that
// reference account in any role, folding each into a running balance under
// the given debit policy.
func AccountHistory(store *history.Store, account domain.Identity, policy replay.DebitPolicy) ([]AccountEvent, error) {
	ledger := make(domain.LedgerState)

	var events []AccountEvent
	err := store.Walk(0, func(index uint64, payload []byte) error {
		tx, err := codec.Decode(index, payload)
		if err != nil {
			return err
		}
		if err := replay.Apply(ledger, tx, policy); err != nil {
			return err
		}
		if tx.Kind.References(account) {
			events = append(events, AccountEvent{
				Transaction: tx,
				Balance:     ledger.Balance(account),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}
