package math

import (
	"github.com/holiman/uint256"
)

// g1k0 returns |gamma + 1e18 - K0| + 1.
func g1k0(c *calc, gamma, K0 *uint256.Int) *uint256.Int {
	g := c.add(gamma, e18)
	if g.Gt(K0) {
		return c.add(c.sub(g, K0), one)
	}
	return c.add(c.sub(K0, g), one)
}

// curvature returns D / (A * N**N) * g1k0**2 / gamma**2, scaled by 1e18:
//
//	1e18 * D / gamma * g1k0 / gamma * g1k0 * A_MULTIPLIER / ANN
func curvature(c *calc, ANN, gamma, D, g1k0 *uint256.Int) *uint256.Int {
	mul1 := c.div(c.mul(e18, D), gamma)
	mul1 = c.div(c.mul(mul1, g1k0), gamma)
	mul1 = c.mul(c.mul(mul1, g1k0), aMultiplier)
	return c.div(mul1, ANN)
}
