// Package replay folds the stored transaction history, in index order, into
// per-account balances. The fold is a pure function of the stored prefix:
// replaying the same records always yields the same ledger state.
package replay

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/Psychedelic/xtc-audit/internal/codec"
	"github.com/Psychedelic/xtc-audit/internal/domain"
	"github.com/Psychedelic/xtc-audit/internal/storage/history"
)

// DebitPolicy selects how the sender side of a debit is computed. Whether
// the recorded fee is already folded into cycles or is charged on top is
// ambiguous in the history format, so the formula is a named, swappable
// policy and reconciliation against live balances is the arbiter.
type DebitPolicy string

const (
	// FeeInclusive debits cycles + fee from the sender.
	FeeInclusive DebitPolicy = "fee-inclusive"
	// FeeExclusive debits only cycles from the sender.
	FeeExclusive DebitPolicy = "fee-exclusive"
)

// ParseDebitPolicy maps config text to a policy.
func ParseDebitPolicy(text string) (DebitPolicy, error) {
	switch DebitPolicy(text) {
	case FeeInclusive, FeeExclusive:
		return DebitPolicy(text), nil
	case "":
		return FeeInclusive, nil
	default:
		return "", errors.Errorf("unknown debit policy %q", text)
	}
}

func (p DebitPolicy) debit(tx *domain.Transaction) *big.Int {
	amount := new(big.Int).Set(tx.Cycles)
	if p == FeeInclusive {
		amount.Add(amount, tx.Fee)
	}
	return amount
}

// Engine replays the stored history into a ledger state.
type Engine struct {
	store  *history.Store
	policy DebitPolicy
}

func NewEngine(store *history.Store, policy DebitPolicy) *Engine {
	return &Engine{store: store, policy: policy}
}

// Replay walks the stored prefix from index zero and returns a fresh ledger
// state owned by the caller. A record that fails to decode aborts the
// replay: balances computed past a dropped transaction would all be wrong.
func (e *Engine) Replay() (domain.LedgerState, error) {
	ledger := make(domain.LedgerState)

	err := e.store.Walk(0, func(index uint64, payload []byte) error {
		tx, err := codec.Decode(index, payload)
		if err != nil {
			return err
		}
		return Apply(ledger, tx, e.policy)
	})
	if err != nil {
		return nil, err
	}
	return ledger, nil
}

// Apply folds a single transaction into the ledger. The kind switch is
// exhaustive over the closed set; anything else is an error.
func Apply(ledger domain.LedgerState, tx *domain.Transaction, policy DebitPolicy) error {
	switch tx.Kind.Tag {
	case domain.KindMint:
		ledger.Credit(tx.Kind.To, tx.Cycles)
	case domain.KindTransfer:
		ledger.Credit(tx.Kind.To, tx.Cycles)
		ledger.Debit(tx.Kind.From, policy.debit(tx))
	case domain.KindBurn, domain.KindCanisterCreated, domain.KindCanisterCalled:
		ledger.Debit(tx.Kind.From, policy.debit(tx))
	case domain.KindApprove, domain.KindTransferFrom:
		// Approval bookkeeping only; no balance effect.
	default:
		return errors.Wrapf(domain.ErrMalformedEvent, "apply tx %d: unknown kind %q", tx.Index, tx.Kind.Tag)
	}
	return nil
}
