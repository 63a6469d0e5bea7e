package domain

import (
	"fmt"
	"math/big"
)

// KindTag names one of the seven transaction kinds the ledger records. The
// set is closed: every consumer switches over it exhaustively and treats an
// unlisted tag as an error, never as a no-op.
type KindTag string

const (
	KindMint            KindTag = "Mint"
	KindBurn            KindTag = "Burn"
	KindTransfer        KindTag = "Transfer"
	KindCanisterCreated KindTag = "CanisterCreated"
	KindCanisterCalled  KindTag = "CanisterCalled"
	KindApprove         KindTag = "Approve"
	KindTransferFrom    KindTag = "TransferFrom"
)

// Kind is the tagged variant of a transaction. Only the identity fields
// belonging to the tag are populated; the rest stay zero.
type Kind struct {
	Tag      KindTag
	To       Identity
	From     Identity
	Caller   Identity
	Canister Identity
}

func MintKind(to Identity) Kind {
	return Kind{Tag: KindMint, To: to}
}

func BurnKind(to, from Identity) Kind {
	return Kind{Tag: KindBurn, To: to, From: from}
}

func TransferKind(to, from Identity) Kind {
	return Kind{Tag: KindTransfer, To: to, From: from}
}

func CanisterCreatedKind(canister, from Identity) Kind {
	return Kind{Tag: KindCanisterCreated, Canister: canister, From: from}
}

func CanisterCalledKind(canister, from Identity) Kind {
	return Kind{Tag: KindCanisterCalled, Canister: canister, From: from}
}

func ApproveKind(to, from Identity) Kind {
	return Kind{Tag: KindApprove, To: to, From: from}
}

func TransferFromKind(to, from, caller Identity) Kind {
	return Kind{Tag: KindTransferFrom, To: to, From: from, Caller: caller}
}

// References reports whether the kind mentions id in any role.
func (k Kind) References(id Identity) bool {
	return k.To == id || k.From == id || k.Caller == id || k.Canister == id
}

// Transaction is one event of the append-only remote history. Once persisted
// at its index it is immutable; the engine never rewrites a stored index.
type Transaction struct {
	Index     uint64
	Fee       *big.Int
	Cycles    *big.Int
	Timestamp *big.Int
	Kind      Kind
}

// Equal compares two transactions by value. Big integers are compared
// numerically, not structurally.
func (t *Transaction) Equal(other *Transaction) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Index == other.Index &&
		t.Fee.Cmp(other.Fee) == 0 &&
		t.Cycles.Cmp(other.Cycles) == 0 &&
		t.Timestamp.Cmp(other.Timestamp) == 0 &&
		t.Kind == other.Kind
}

func (t *Transaction) String() string {
	return fmt.Sprintf("tx#%d %s cycles=%s fee=%s", t.Index, t.Kind.Tag, t.Cycles, t.Fee)
}
