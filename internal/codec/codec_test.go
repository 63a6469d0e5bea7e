package codec

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Psychedelic/xtc-audit/internal/domain"
)

var (
	alice    = domain.MustParseIdentity("ryjl3-tyaaa-aaaaa-aaaba-cai")
	bob      = domain.MustParseIdentity("rrkah-fqaaa-aaaaa-aaaaq-cai")
	carol    = domain.MustParseIdentity("rwlgt-iiaaa-aaaaa-aaaaa-cai")
	canister = domain.MustParseIdentity("aanaa-xaaaa-aaaah-aaeiq-cai")
)

func makeTx(index uint64, kind domain.Kind) *domain.Transaction {
	return &domain.Transaction{
		Index:     index,
		Fee:       big.NewInt(2000000000),
		Cycles:    big.NewInt(100000000000),
		Timestamp: big.NewInt(1634019046000),
		Kind:      kind,
	}
}

func TestRoundTripAllKinds(t *testing.T) {
	kinds := map[string]domain.Kind{
		"mint":             domain.MintKind(alice),
		"burn":             domain.BurnKind(alice, bob),
		"transfer":         domain.TransferKind(alice, bob),
		"canister_created": domain.CanisterCreatedKind(canister, alice),
		"canister_called":  domain.CanisterCalledKind(canister, bob),
		"approve":          domain.ApproveKind(alice, bob),
		"transfer_from":    domain.TransferFromKind(alice, bob, carol),
	}

	for name, kind := range kinds {
		t.Run(name, func(t *testing.T) {
			tx := makeTx(7, kind)

			payload, err := Encode(tx)
			require.NoError(t, err)

			decoded, err := Decode(7, payload)
			require.NoError(t, err)
			assert.True(t, tx.Equal(decoded), "round trip changed the transaction")
		})
	}
}

func TestRoundTripHugeAmounts(t *testing.T) {
	cycles, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)

	tx := makeTx(0, domain.MintKind(alice))
	tx.Cycles = cycles

	payload, err := Encode(tx)
	require.NoError(t, err)

	decoded, err := Decode(0, payload)
	require.NoError(t, err)
	assert.Zero(t, decoded.Cycles.Cmp(cycles))
}

func TestEncodeRejectsUnknownKind(t *testing.T) {
	tx := makeTx(3, domain.Kind{Tag: "Frobnicate"})

	_, err := Encode(tx)
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	payload := []byte(`{"fee":"0n","cycles":"1n","timestamp":"2n","kind":{"Frobnicate":{"to":"aaaaa-aa"}}}`)

	_, err := Decode(0, payload)
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}

func TestDecodeRejectsMissingKind(t *testing.T) {
	payload := []byte(`{"fee":"0n","cycles":"1n","timestamp":"2n"}`)

	_, err := Decode(0, payload)
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}

func TestDecodeRejectsUntaggedIntegers(t *testing.T) {
	payload := []byte(`{"fee":"0n","cycles":"100","timestamp":"2n","kind":{"Mint":{"to":"aaaaa-aa"}}}`)

	_, err := Decode(0, payload)
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}

func TestDecodeRejectsMalformedPrincipal(t *testing.T) {
	payload := []byte(`{"fee":"0n","cycles":"1n","timestamp":"2n","kind":{"Mint":{"to":"definitely not a principal"}}}`)

	_, err := Decode(0, payload)
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(0, []byte("not json at all"))
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}
