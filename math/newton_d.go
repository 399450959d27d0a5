package math

import (
	"github.com/go-faster/errors"
	"github.com/holiman/uint256"
	"github.com/krazyTry/cryptoswap-go/shared"
)

// NewtonD finds the invariant D for the reserves x by Newton's method.
// ANN is A * N**N, scaled by A_MULTIPLIER.
func NewtonD(ANN, gamma *uint256.Int, xUnsorted [2]*uint256.Int) (*uint256.Int, error) {
	D, _, err := NewtonDWithIterations(ANN, gamma, xUnsorted)
	return D, err
}

// NewtonDWithIterations is NewtonD that also reports how many Newton steps
// were taken.
func NewtonDWithIterations(ANN, gamma *uint256.Int, xUnsorted [2]*uint256.Int) (*uint256.Int, int, error) {
	if ANN.Gt(maxA) || ANN.Lt(minA) {
		return nil, 0, shared.ErrUnsafeA
	}
	if gamma.Gt(maxGamma) || gamma.Lt(minGamma) {
		return nil, 0, shared.ErrUnsafeGamma
	}

	x := xUnsorted
	if x[0].Lt(x[1]) {
		x = [2]*uint256.Int{xUnsorted[1], xUnsorted[0]}
	}
	if x[0].Lt(e9) || x[0].Gt(maxBalance) {
		return nil, 0, shared.ErrUnsafeX0
	}

	var c calc
	if c.div(c.mul(x[1], e18), x[0]).Lt(e14) {
		if c.err != nil {
			return nil, 0, errors.Wrap(c.err, "newton_D")
		}
		return nil, 0, shared.ErrUnsafeXRatio
	}

	// Start from the constant-product invariant.
	gm, err := GeometricMean(x, false)
	if err != nil {
		return nil, 0, errors.Wrap(err, "newton_D")
	}
	D := c.mul(nCoins, gm)
	S := c.add(x[0], x[1])

	for i := 0; i < shared.MaxIterations; i++ {
		DPrev := D

		// K0 = (1e18 * N**2) * x[0] / D * x[1] / D
		K0 := c.div(c.mul(c.div(c.mul(c.mul(e18, nCoinsSq), x[0]), D), x[1]), D)
		g := g1k0(&c, gamma, K0)
		mul1 := curvature(&c, ANN, gamma, D, g)
		// mul2 = (2 * 1e18) * N * K0 / g1k0
		mul2 := c.div(c.mul(c.mul(twoE18, nCoins), K0), g)

		// negFprime = (S + S * mul2 / 1e18) + mul1 * N / K0 - mul2 * D / 1e18
		negFprime := c.add(S, c.div(c.mul(S, mul2), e18))
		negFprime = c.add(negFprime, c.div(c.mul(mul1, nCoins), K0))
		negFprime = c.sub(negFprime, c.div(c.mul(mul2, D), e18))

		// D -= f / fprime
		DPlus := c.div(c.mul(D, c.add(negFprime, S)), negFprime)
		DMinus := c.div(c.mul(D, D), negFprime)
		if e18.Gt(K0) {
			DMinus = c.add(DMinus, c.div(c.mul(c.div(c.mul(D, c.div(mul1, negFprime)), e18), c.sub(e18, K0)), K0))
		} else {
			DMinus = c.sub(DMinus, c.div(c.mul(c.div(c.mul(D, c.div(mul1, negFprime)), e18), c.sub(K0, e18)), K0))
		}

		if DPlus.Gt(DMinus) {
			D = c.sub(DPlus, DMinus)
		} else {
			D = c.div(c.sub(DMinus, DPlus), two)
		}

		diff := AbsDiff(D, DPrev)
		converged := c.mul(diff, e14).Lt(Max(e16, D))
		if c.err != nil {
			return nil, i + 1, errors.Wrap(c.err, "newton_D")
		}
		if !converged {
			continue
		}

		// Both reserves must stay within 0.01x..100x of D/N for NewtonY.
		for _, xi := range x {
			frac := c.div(c.mul(xi, e18), D)
			if c.err != nil {
				return nil, i + 1, errors.Wrap(c.err, "newton_D")
			}
			if frac.Lt(e16) || frac.Gt(e20) {
				return nil, i + 1, shared.ErrUnsafeXOutput
			}
		}
		return D, i + 1, nil
	}
	return nil, shared.MaxIterations, errors.Wrap(shared.ErrDidNotConverge, "newton_D")
}
