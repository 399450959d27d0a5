package math

import (
	"github.com/go-faster/errors"
	"github.com/holiman/uint256"
	"github.com/krazyTry/cryptoswap-go/shared"
)

// HalfPow returns 1e18 * 0.5 ** (power / 1e18).
//
// The integer part of the exponent is a shift; the fractional part is
// expanded as the binomial series of (1 - 0.5) ** f until a term drops
// below ExpPrecision.
func HalfPow(power *uint256.Int) (*uint256.Int, error) {
	var c calc
	intpow := c.div(power, e18)
	otherpow := c.sub(power, c.mul(intpow, e18))
	if c.err != nil {
		return nil, errors.Wrap(c.err, "half_pow")
	}
	if intpow.GtUint64(59) {
		return new(uint256.Int), nil
	}
	result := c.div(e18, new(uint256.Int).Lsh(one, uint(intpow.Uint64())))
	if otherpow.IsZero() {
		return result, nil
	}

	term := new(uint256.Int).Set(e18)
	S := new(uint256.Int).Set(e18)
	// coef holds the magnitude of the series factor, neg its sign.
	neg := false
	for i := uint64(1); i < 256; i++ {
		K := c.mul(uint256.NewInt(i), e18)
		coef := c.sub(K, e18)
		if otherpow.Gt(coef) {
			coef = c.sub(otherpow, coef)
			neg = !neg
		} else {
			coef = c.sub(coef, otherpow)
		}
		term = c.div(c.mul(term, c.div(c.mul(coef, halfE18), e18)), K)
		if neg {
			S = c.sub(S, term)
		} else {
			S = c.add(S, term)
		}
		if c.err != nil {
			return nil, errors.Wrap(c.err, "half_pow")
		}
		if term.Lt(expPrecision) {
			out := c.div(c.mul(result, S), e18)
			if c.err != nil {
				return nil, errors.Wrap(c.err, "half_pow")
			}
			return out, nil
		}
	}
	return nil, errors.Wrap(shared.ErrDidNotConverge, "half_pow")
}
