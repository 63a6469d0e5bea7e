package replay

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Psychedelic/xtc-audit/internal/codec"
	"github.com/Psychedelic/xtc-audit/internal/domain"
	"github.com/Psychedelic/xtc-audit/internal/storage/history"
)

var (
	accountA = domain.MustParseIdentity("ryjl3-tyaaa-aaaaa-aaaba-cai")
	accountB = domain.MustParseIdentity("rrkah-fqaaa-aaaaa-aaaaq-cai")
	caller   = domain.MustParseIdentity("rwlgt-iiaaa-aaaaa-aaaaa-cai")
	canister = domain.MustParseIdentity("aanaa-xaaaa-aaaah-aaeiq-cai")
)

func makeTx(index uint64, kind domain.Kind, cycles, fee int64) *domain.Transaction {
	return &domain.Transaction{
		Index:     index,
		Fee:       big.NewInt(fee),
		Cycles:    big.NewInt(cycles),
		Timestamp: big.NewInt(int64(1000 + index)),
		Kind:      kind,
	}
}

func storeWith(t *testing.T, txs ...*domain.Transaction) *history.Store {
	t.Helper()
	store, err := history.NewStore(t.TempDir())
	require.NoError(t, err)
	for _, tx := range txs {
		payload, err := codec.Encode(tx)
		require.NoError(t, err)
		require.NoError(t, store.Put(tx.Index, payload))
	}
	return store
}

func TestReplayMintAndTransfer(t *testing.T) {
	store := storeWith(t,
		makeTx(0, domain.MintKind(accountA), 100, 0),
		makeTx(1, domain.TransferKind(accountB, accountA), 40, 1),
	)

	ledger, err := NewEngine(store, FeeInclusive).Replay()
	require.NoError(t, err)

	assert.Zero(t, ledger.Balance(accountA).Cmp(big.NewInt(59)))
	assert.Zero(t, ledger.Balance(accountB).Cmp(big.NewInt(40)))
}

func TestReplayBurn(t *testing.T) {
	store := storeWith(t,
		makeTx(0, domain.MintKind(accountA), 100, 0),
		makeTx(1, domain.TransferKind(accountB, accountA), 40, 1),
		makeTx(2, domain.BurnKind(canister, accountA), 10, 1),
	)

	ledger, err := NewEngine(store, FeeInclusive).Replay()
	require.NoError(t, err)

	assert.Zero(t, ledger.Balance(accountA).Cmp(big.NewInt(48)))
}

func TestReplayCanisterOps(t *testing.T) {
	store := storeWith(t,
		makeTx(0, domain.MintKind(accountA), 1000, 0),
		makeTx(1, domain.CanisterCreatedKind(canister, accountA), 100, 2),
		makeTx(2, domain.CanisterCalledKind(canister, accountA), 50, 2),
	)

	ledger, err := NewEngine(store, FeeInclusive).Replay()
	require.NoError(t, err)

	assert.Zero(t, ledger.Balance(accountA).Cmp(big.NewInt(846)))
}

func TestReplayApprovalKindsHaveNoBalanceEffect(t *testing.T) {
	store := storeWith(t,
		makeTx(0, domain.MintKind(accountA), 100, 0),
		makeTx(1, domain.ApproveKind(accountB, accountA), 20, 1),
		makeTx(2, domain.TransferFromKind(accountB, accountA, caller), 20, 1),
	)

	ledger, err := NewEngine(store, FeeInclusive).Replay()
	require.NoError(t, err)

	assert.Zero(t, ledger.Balance(accountA).Cmp(big.NewInt(100)))
	assert.Zero(t, ledger.Balance(accountB).Cmp(big.NewInt(0)))
}

func TestReplayDebitPolicies(t *testing.T) {
	txs := []*domain.Transaction{
		makeTx(0, domain.MintKind(accountA), 100, 0),
		makeTx(1, domain.BurnKind(canister, accountA), 10, 3),
	}

	tests := []struct {
		name    string
		policy  DebitPolicy
		balance int64
	}{
		{"fee inclusive charges cycles plus fee", FeeInclusive, 87},
		{"fee exclusive charges cycles only", FeeExclusive, 90},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := storeWith(t, txs...)

			ledger, err := NewEngine(store, tc.policy).Replay()
			require.NoError(t, err)
			assert.Zero(t, ledger.Balance(accountA).Cmp(big.NewInt(tc.balance)))
		})
	}
}

func TestReplayDeterministic(t *testing.T) {
	store := storeWith(t,
		makeTx(0, domain.MintKind(accountA), 100, 0),
		makeTx(1, domain.TransferKind(accountB, accountA), 40, 1),
		makeTx(2, domain.BurnKind(canister, accountB), 5, 1),
	)

	engine := NewEngine(store, FeeInclusive)

	first, err := engine.Replay()
	require.NoError(t, err)
	second, err := engine.Replay()
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for id, balance := range first {
		assert.Zero(t, balance.Cmp(second[id]), "balance drifted for %s", id)
	}
}

func TestReplayEmptyStore(t *testing.T) {
	store, err := history.NewStore(t.TempDir())
	require.NoError(t, err)

	ledger, err := NewEngine(store, FeeInclusive).Replay()
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestReplayStopsAtMalformedRecord(t *testing.T) {
	store, err := history.NewStore(t.TempDir())
	require.NoError(t, err)

	payload, err := codec.Encode(makeTx(0, domain.MintKind(accountA), 100, 0))
	require.NoError(t, err)
	require.NoError(t, store.Put(0, payload))
	require.NoError(t, store.Put(1, []byte(`{"fee":"1n","cycles":"2n","timestamp":"3n","kind":{"Unknown":{}}}`)))

	_, err = NewEngine(store, FeeInclusive).Replay()
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}

func TestApplyRejectsUnknownKind(t *testing.T) {
	ledger := make(domain.LedgerState)
	tx := makeTx(0, domain.Kind{Tag: "Frobnicate"}, 1, 0)

	err := Apply(ledger, tx, FeeInclusive)
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
	assert.Empty(t, ledger)
}

func TestParseDebitPolicy(t *testing.T) {
	policy, err := ParseDebitPolicy("")
	require.NoError(t, err)
	assert.Equal(t, FeeInclusive, policy)

	policy, err = ParseDebitPolicy("fee-exclusive")
	require.NoError(t, err)
	assert.Equal(t, FeeExclusive, policy)

	_, err = ParseDebitPolicy("half-fee")
	assert.Error(t, err)
}
