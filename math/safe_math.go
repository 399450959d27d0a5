package math

import (
	"github.com/holiman/uint256"
	"github.com/krazyTry/cryptoswap-go/shared"
)

var (
	one          = uint256.NewInt(1)
	two          = uint256.NewInt(2)
	hundred      = uint256.NewInt(100)
	nCoins       = uint256.NewInt(shared.NCoins)
	nCoinsSq     = uint256.NewInt(shared.NCoins * shared.NCoins)
	aMultiplier  = uint256.NewInt(shared.AMultiplier)
	expPrecision = uint256.NewInt(shared.ExpPrecision)

	minA     = uint256.NewInt(shared.MinA)
	maxA     = uint256.NewInt(shared.MaxA)
	minGamma = uint256.NewInt(shared.MinGamma)
	maxGamma = uint256.NewInt(shared.MaxGamma)

	e9      = uint256.NewInt(1_000_000_000)
	e14     = uint256.NewInt(100_000_000_000_000)
	e16     = uint256.NewInt(10_000_000_000_000_000)
	e17     = uint256.NewInt(100_000_000_000_000_000)
	e18     = uint256.NewInt(shared.Precision)
	twoE18  = uint256.NewInt(2 * shared.Precision)
	halfE18 = uint256.NewInt(shared.Precision / 2)
	e20     = uint256.MustFromDecimal("100000000000000000000")

	// maxBalance is 10**15 * 10**18, the largest reserve or D the solvers accept.
	maxBalance = uint256.MustFromDecimal("1000000000000000000000000000000000")
)

func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, shared.ErrMathOverflow
	}
	return z, nil
}

func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	if b.Gt(a) {
		return nil, shared.ErrMathUnderflow
	}
	return new(uint256.Int).Sub(a, b), nil
}

func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, shared.ErrMathOverflow
	}
	return z, nil
}

// Div is truncating division.
func Div(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, shared.ErrDivisionByZero
	}
	return new(uint256.Int).Div(a, b), nil
}

// MulDiv computes x * y / denominator, truncating.
func MulDiv(x, y, denominator *uint256.Int) (*uint256.Int, error) {
	prod, err := Mul(x, y)
	if err != nil {
		return nil, err
	}
	return Div(prod, denominator)
}

func Max(a, b *uint256.Int) *uint256.Int {
	if a.Gt(b) {
		return a
	}
	return b
}

// AbsDiff returns |a - b|.
func AbsDiff(a, b *uint256.Int) *uint256.Int {
	if a.Gt(b) {
		return new(uint256.Int).Sub(a, b)
	}
	return new(uint256.Int).Sub(b, a)
}

// calc chains checked operations and keeps the first failure, so that long
// fixed-point expressions read in their reference order. After a failure
// every operation yields zero; callers check err once per step.
type calc struct {
	err error
}

func (c *calc) set(z *uint256.Int, err error) *uint256.Int {
	if err != nil {
		c.err = err
		return new(uint256.Int)
	}
	return z
}

func (c *calc) add(a, b *uint256.Int) *uint256.Int {
	if c.err != nil {
		return new(uint256.Int)
	}
	return c.set(Add(a, b))
}

func (c *calc) sub(a, b *uint256.Int) *uint256.Int {
	if c.err != nil {
		return new(uint256.Int)
	}
	return c.set(Sub(a, b))
}

func (c *calc) mul(a, b *uint256.Int) *uint256.Int {
	if c.err != nil {
		return new(uint256.Int)
	}
	return c.set(Mul(a, b))
}

func (c *calc) div(a, b *uint256.Int) *uint256.Int {
	if c.err != nil {
		return new(uint256.Int)
	}
	return c.set(Div(a, b))
}
