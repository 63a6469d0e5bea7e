package domain

import (
	"math/big"
	"sort"
)

// LedgerState maps each account to its replayed balance. It is built fresh
// on every replay and owned by the caller; nothing shares or mutates it
// behind the caller's back. Balances may dip negative transiently when
// replaying synthetic out-of-order data, so entries are plain big integers
// rather than unsigned amounts.
type LedgerState map[Identity]*big.Int

// Balance returns the current balance for id, zero if the account has no
// entry yet. The returned value is a copy.
func (l LedgerState) Balance(id Identity) *big.Int {
	if entry, ok := l[id]; ok {
		return new(big.Int).Set(entry)
	}
	return new(big.Int)
}

// Credit adds amount to id's balance, creating the entry at zero first.
func (l LedgerState) Credit(id Identity, amount *big.Int) {
	entry, ok := l[id]
	if !ok {
		entry = new(big.Int)
		l[id] = entry
	}
	entry.Add(entry, amount)
}

// Debit subtracts amount from id's balance, creating the entry at zero first.
func (l LedgerState) Debit(id Identity, amount *big.Int) {
	entry, ok := l[id]
	if !ok {
		entry = new(big.Int)
		l[id] = entry
	}
	entry.Sub(entry, amount)
}

// Accounts returns all account identities sorted by canonical text, so
// callers iterate deterministically.
func (l LedgerState) Accounts() []Identity {
	ids := make([]Identity, 0, len(l))
	for id := range l {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Text() < ids[j].Text() })
	return ids
}
