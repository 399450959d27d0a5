package math

import (
	"github.com/go-faster/errors"
	"github.com/holiman/uint256"
	"github.com/krazyTry/cryptoswap-go/shared"
)

// yStep names the branch a NewtonY iteration took.
type yStep int

const (
	yStepNewton yStep = iota
	// yStepBisectDerivative: the derivative term exceeded the numerator,
	// the estimate was halved and the convergence test skipped.
	yStepBisectDerivative
	// yStepBisectNegative: the Newton update would have gone negative,
	// the estimate was halved.
	yStepBisectNegative
)

func (s yStep) String() string {
	switch s {
	case yStepNewton:
		return "newton"
	case yStepBisectDerivative:
		return "bisect-derivative"
	case yStepBisectNegative:
		return "bisect-negative"
	}
	return "unknown"
}

// NewtonY calculates x[i] given the other balance x[1-i] and the invariant D.
// The value of x[i] itself is ignored.
func NewtonY(ANN, gamma *uint256.Int, x [2]*uint256.Int, D *uint256.Int, i int) (*uint256.Int, error) {
	y, _, err := NewtonYWithIterations(ANN, gamma, x, D, i)
	return y, err
}

// NewtonYWithIterations is NewtonY that also reports how many iterations,
// bisection fallbacks included, were taken.
func NewtonYWithIterations(ANN, gamma *uint256.Int, x [2]*uint256.Int, D *uint256.Int, i int) (*uint256.Int, int, error) {
	if ANN.Lt(minA) || ANN.Gt(maxA) {
		return nil, 0, shared.ErrAssertA
	}
	if gamma.Lt(minGamma) || gamma.Gt(maxGamma) {
		return nil, 0, shared.ErrAssertGamma
	}
	if D.Lt(e17) || D.Gt(maxBalance) {
		return nil, 0, shared.ErrAssertD
	}
	if i != 0 && i != 1 {
		return nil, 0, shared.ErrCoinIndex
	}

	var c calc
	xj := x[1-i]
	y := c.div(c.mul(D, D), c.mul(xj, nCoinsSq))
	K0i := c.div(c.mul(c.mul(e18, nCoins), xj), D)
	if c.err != nil {
		return nil, 0, errors.Wrap(c.err, "newton_y")
	}
	// K0i / N is the share of D held by x[1-i].
	if K0i.Lt(c.mul(e16, nCoins)) || K0i.Gt(c.mul(e20, nCoins)) {
		return nil, 0, shared.ErrUnsafeXj
	}

	convergenceLimit := Max(Max(c.div(xj, e14), c.div(D, e14)), hundred)

	for j := 0; j < shared.MaxIterations; j++ {
		yPrev := y
		var step yStep
		y, step = newtonYStep(&c, ANN, gamma, xj, D, K0i, y)
		if c.err != nil {
			return nil, j + 1, errors.Wrap(c.err, "newton_y")
		}
		if step == yStepBisectDerivative {
			continue
		}

		diff := AbsDiff(y, yPrev)
		if !diff.Lt(Max(convergenceLimit, c.div(y, e14))) {
			continue
		}
		frac := c.div(c.mul(y, e18), D)
		if c.err != nil {
			return nil, j + 1, errors.Wrap(c.err, "newton_y")
		}
		if frac.Lt(e16) || frac.Gt(e20) {
			return nil, j + 1, shared.ErrUnsafeY
		}
		return y, j + 1, nil
	}
	return nil, shared.MaxIterations, errors.Wrap(shared.ErrDidNotConverge, "newton_y")
}

// newtonYStep performs one iteration of NewtonY from the estimate y.
// When the update is numerically unusable the previous estimate is halved
// instead of failing.
func newtonYStep(c *calc, ANN, gamma, xj, D, K0i, y *uint256.Int) (*uint256.Int, yStep) {
	K0 := c.div(c.mul(c.mul(K0i, y), nCoins), D)
	S := c.add(xj, y)

	g := g1k0(c, gamma, K0)
	mul1 := curvature(c, ANN, gamma, D, g)
	// mul2 = 1e18 + (2 * 1e18) * K0 / g1k0
	mul2 := c.add(e18, c.div(c.mul(twoE18, K0), g))

	yfprime := c.add(c.add(c.mul(e18, y), c.mul(S, mul2)), mul1)
	dyfprime := c.mul(D, mul2)
	if yfprime.Lt(dyfprime) {
		return new(uint256.Int).Div(y, two), yStepBisectDerivative
	}
	yfprime = c.sub(yfprime, dyfprime)
	fprime := c.div(yfprime, y)

	// y -= f / fprime, split so that no intermediate goes negative:
	// y = (yfprime + 1e18 * D - 1e18 * S) / fprime + mul1 / fprime * (1e18 - K0) / K0
	yMinus := c.div(mul1, fprime)
	yPlus := c.add(c.div(c.add(yfprime, c.mul(e18, D)), fprime), c.div(c.mul(yMinus, e18), K0))
	yMinus = c.add(yMinus, c.div(c.mul(e18, S), fprime))

	if yPlus.Lt(yMinus) {
		return new(uint256.Int).Div(y, two), yStepBisectNegative
	}
	return c.sub(yPlus, yMinus), yStepNewton
}
