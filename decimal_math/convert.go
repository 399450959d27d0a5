package decimal_math

import (
	"github.com/go-faster/errors"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// ToDecimal reads v as a fixed-point number with exp decimals.
// ToDecimal(1.5e18, 18) == 1.5
func ToDecimal(v *uint256.Int, exp int32) decimal.Decimal {
	return decimal.NewFromBigInt(v.ToBig(), -exp)
}

// FromDecimal converts d into a fixed-point integer with exp decimals,
// truncating any digits beyond exp.
func FromDecimal(d decimal.Decimal, exp int32) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, errors.Errorf("negative value %s", d)
	}
	v, overflow := uint256.FromBig(d.Shift(exp).Truncate(0).BigInt())
	if overflow {
		return nil, errors.Errorf("%s overflows uint256", d)
	}
	return v, nil
}

// ParseFixed parses a human-readable decimal such as "1834.25" into a
// fixed-point integer with exp decimals.
func ParseFixed(s string, exp int32) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", s)
	}
	return FromDecimal(d, exp)
}
