package domain

import "github.com/pkg/errors"

var (
	// ErrUpstreamUnavailable wraps transport failures talking to the gateway.
	// A run that hits it aborts but keeps all progress made so far.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamGap means the remote reported no transaction at an index
	// below its own stated history count. The remote history is dense, so
	// this indicates corruption or a race and must never be skipped over.
	ErrUpstreamGap = errors.New("upstream history gap")

	// ErrMalformedEvent means a stored or received transaction payload could
	// not be decoded. Dropping such a record would corrupt every balance
	// computed after it, so decoding fails loudly instead.
	ErrMalformedEvent = errors.New("malformed transaction event")

	// ErrInvalidIdentity means a principal text failed canonical parsing.
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrNotFound means a record assumed present was absent.
	ErrNotFound = errors.New("not found")
)
