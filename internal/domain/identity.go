package domain

import (
	"github.com/aviate-labs/agent-go/principal"
	"github.com/pkg/errors"
)

// Identity is an opaque account or canister address in canonical principal
// text form. It is an equality-comparable value type and is never mutated,
// so it can key maps directly.
type Identity struct {
	text string
}

// ParseIdentity parses principal text into an Identity. The text is
// re-encoded through the canonical codec so two spellings of the same
// principal always compare equal.
func ParseIdentity(text string) (Identity, error) {
	p, err := principal.Decode(text)
	if err != nil {
		return Identity{}, errors.Wrapf(ErrInvalidIdentity, "parse principal %q: %v", text, err)
	}
	return Identity{text: p.Encode()}, nil
}

// MustParseIdentity is ParseIdentity for known-good fixtures.
func MustParseIdentity(text string) Identity {
	id, err := ParseIdentity(text)
	if err != nil {
		panic(err)
	}
	return id
}

// Text returns the canonical principal text.
func (id Identity) Text() string {
	return id.text
}

func (id Identity) String() string {
	return id.text
}

// IsZero reports whether the identity is the zero value, not a parsed
// principal.
func (id Identity) IsZero() bool {
	return id.text == ""
}
