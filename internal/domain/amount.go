package domain

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// Amounts are cycle quantities. They routinely exceed 64 bits (a single
// trillion-cycle account already needs 40), so all ledger arithmetic runs on
// math/big integers. In durable form an amount is its decimal text with an
// "n" suffix, which keeps it unambiguously distinguishable from a plain
// number in text-based storage.

const bigIntSuffix = "n"

// FormatAmount renders v in the tagged durable text form, e.g. "2500000n".
func FormatAmount(v *big.Int) string {
	return v.String() + bigIntSuffix
}

// ParseAmount parses the tagged durable text form back into a big integer.
// A value without the tag is rejected: it could be a float or a truncated
// number, and guessing here would risk silent precision loss.
func ParseAmount(text string) (*big.Int, error) {
	if !strings.HasSuffix(text, bigIntSuffix) {
		return nil, errors.Wrapf(ErrMalformedEvent, "value %q lacks big-int tag", text)
	}
	digits := strings.TrimSuffix(text, bigIntSuffix)
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, errors.Wrapf(ErrMalformedEvent, "value %q is not a decimal integer", text)
	}
	return v, nil
}
