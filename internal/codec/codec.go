// Package codec converts transactions between their in-memory form and the
// durable JSON form kept on disk, one record per history index. The durable
// form is human-inspectable: principals as canonical text, big integers as
// "…n"-tagged decimal strings, and the kind as a single-key object named
// after the variant, e.g.
//
//	{"fee":"100n","cycles":"250n","timestamp":"1634019046n",
//	 "kind":{"Transfer":{"to":"aaaaa-aa","from":"2vxsx-fae"}}}
//
// The index is not part of the payload; the store keys records by it.
package codec

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/Psychedelic/xtc-audit/internal/domain"
)

type storedParty struct {
	To       string `json:"to,omitempty"`
	From     string `json:"from,omitempty"`
	Caller   string `json:"caller,omitempty"`
	Canister string `json:"canister,omitempty"`
}

type storedKind struct {
	Mint            *storedParty `json:"Mint,omitempty"`
	Burn            *storedParty `json:"Burn,omitempty"`
	Transfer        *storedParty `json:"Transfer,omitempty"`
	CanisterCreated *storedParty `json:"CanisterCreated,omitempty"`
	CanisterCalled  *storedParty `json:"CanisterCalled,omitempty"`
	Approve         *storedParty `json:"Approve,omitempty"`
	TransferFrom    *storedParty `json:"TransferFrom,omitempty"`
}

type storedTransaction struct {
	Fee       string     `json:"fee"`
	Cycles    string     `json:"cycles"`
	Timestamp string     `json:"timestamp"`
	Kind      storedKind `json:"kind"`
}

// Encode renders tx in the durable form. Every known kind is handled
// explicitly; a tag outside the closed set is an error so that a new kind
// cannot be persisted with silently dropped fields.
func Encode(tx *domain.Transaction) ([]byte, error) {
	stored := storedTransaction{
		Fee:       domain.FormatAmount(tx.Fee),
		Cycles:    domain.FormatAmount(tx.Cycles),
		Timestamp: domain.FormatAmount(tx.Timestamp),
	}

	switch tx.Kind.Tag {
	case domain.KindMint:
		stored.Kind.Mint = &storedParty{To: tx.Kind.To.Text()}
	case domain.KindBurn:
		stored.Kind.Burn = &storedParty{To: tx.Kind.To.Text(), From: tx.Kind.From.Text()}
	case domain.KindTransfer:
		stored.Kind.Transfer = &storedParty{To: tx.Kind.To.Text(), From: tx.Kind.From.Text()}
	case domain.KindCanisterCreated:
		stored.Kind.CanisterCreated = &storedParty{Canister: tx.Kind.Canister.Text(), From: tx.Kind.From.Text()}
	case domain.KindCanisterCalled:
		stored.Kind.CanisterCalled = &storedParty{Canister: tx.Kind.Canister.Text(), From: tx.Kind.From.Text()}
	case domain.KindApprove:
		stored.Kind.Approve = &storedParty{To: tx.Kind.To.Text(), From: tx.Kind.From.Text()}
	case domain.KindTransferFrom:
		stored.Kind.TransferFrom = &storedParty{To: tx.Kind.To.Text(), From: tx.Kind.From.Text(), Caller: tx.Kind.Caller.Text()}
	default:
		return nil, errors.Wrapf(domain.ErrMalformedEvent, "encode tx %d: unknown kind %q", tx.Index, tx.Kind.Tag)
	}

	payload, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "marshal tx %d", tx.Index)
	}
	return payload, nil
}

// Decode parses a durable payload back into a transaction at the given
// index. Payloads with no recognized kind tag, untagged integer fields, or
// malformed principal text are rejected; skipping a record here would
// corrupt every balance computed after it.
func Decode(index uint64, payload []byte) (*domain.Transaction, error) {
	var raw struct {
		Fee       string                     `json:"fee"`
		Cycles    string                     `json:"cycles"`
		Timestamp string                     `json:"timestamp"`
		Kind      map[string]json.RawMessage `json:"kind"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, errors.Wrapf(domain.ErrMalformedEvent, "tx %d: %v", index, err)
	}
	if len(raw.Kind) == 0 {
		return nil, errors.Wrapf(domain.ErrMalformedEvent, "tx %d: no kind property", index)
	}

	tx := &domain.Transaction{Index: index}

	var err error
	if tx.Fee, err = domain.ParseAmount(raw.Fee); err != nil {
		return nil, errors.Wrapf(err, "tx %d: fee", index)
	}
	if tx.Cycles, err = domain.ParseAmount(raw.Cycles); err != nil {
		return nil, errors.Wrapf(err, "tx %d: cycles", index)
	}
	if tx.Timestamp, err = domain.ParseAmount(raw.Timestamp); err != nil {
		return nil, errors.Wrapf(err, "tx %d: timestamp", index)
	}

	tx.Kind, err = decodeKind(raw.Kind)
	if err != nil {
		return nil, errors.Wrapf(err, "tx %d", index)
	}
	return tx, nil
}

func decodeKind(raw map[string]json.RawMessage) (domain.Kind, error) {
	for _, tag := range []domain.KindTag{
		domain.KindMint,
		domain.KindBurn,
		domain.KindTransfer,
		domain.KindCanisterCreated,
		domain.KindCanisterCalled,
		domain.KindApprove,
		domain.KindTransferFrom,
	} {
		body, ok := raw[string(tag)]
		if !ok {
			continue
		}

		var party storedParty
		if err := json.Unmarshal(body, &party); err != nil {
			return domain.Kind{}, errors.Wrapf(domain.ErrMalformedEvent, "kind %s: %v", tag, err)
		}
		return buildKind(tag, party)
	}

	return domain.Kind{}, errors.Wrapf(domain.ErrMalformedEvent, "unknown transaction kind %v", tagsOf(raw))
}

func buildKind(tag domain.KindTag, party storedParty) (domain.Kind, error) {
	parse := func(role, text string) (domain.Identity, error) {
		id, err := domain.ParseIdentity(text)
		if err != nil {
			return domain.Identity{}, errors.Wrapf(err, "kind %s: %s", tag, role)
		}
		return id, nil
	}

	var kind domain.Kind
	var err error

	switch tag {
	case domain.KindMint:
		var to domain.Identity
		if to, err = parse("to", party.To); err != nil {
			return domain.Kind{}, err
		}
		kind = domain.MintKind(to)
	case domain.KindBurn, domain.KindTransfer, domain.KindApprove:
		var to, from domain.Identity
		if to, err = parse("to", party.To); err != nil {
			return domain.Kind{}, err
		}
		if from, err = parse("from", party.From); err != nil {
			return domain.Kind{}, err
		}
		switch tag {
		case domain.KindBurn:
			kind = domain.BurnKind(to, from)
		case domain.KindTransfer:
			kind = domain.TransferKind(to, from)
		default:
			kind = domain.ApproveKind(to, from)
		}
	case domain.KindCanisterCreated, domain.KindCanisterCalled:
		var canister, from domain.Identity
		if canister, err = parse("canister", party.Canister); err != nil {
			return domain.Kind{}, err
		}
		if from, err = parse("from", party.From); err != nil {
			return domain.Kind{}, err
		}
		if tag == domain.KindCanisterCreated {
			kind = domain.CanisterCreatedKind(canister, from)
		} else {
			kind = domain.CanisterCalledKind(canister, from)
		}
	case domain.KindTransferFrom:
		var to, from, caller domain.Identity
		if to, err = parse("to", party.To); err != nil {
			return domain.Kind{}, err
		}
		if from, err = parse("from", party.From); err != nil {
			return domain.Kind{}, err
		}
		if caller, err = parse("caller", party.Caller); err != nil {
			return domain.Kind{}, err
		}
		kind = domain.TransferFromKind(to, from, caller)
	default:
		return domain.Kind{}, errors.Wrapf(domain.ErrMalformedEvent, "unknown transaction kind %q", tag)
	}

	return kind, nil
}

func tagsOf(raw map[string]json.RawMessage) []string {
	tags := make([]string, 0, len(raw))
	for tag := range raw {
		tags = append(tags, tag)
	}
	return tags
}
