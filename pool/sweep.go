package pool

import (
	"github.com/holiman/uint256"
	"github.com/krazyTry/cryptoswap-go/math"
	"github.com/sourcegraph/conc/iter"
)

// SweepD solves the invariant for every reserve pair concurrently. Results
// keep the input order; the error joins every failed call.
func SweepD(ANN, gamma *uint256.Int, xps [][2]*uint256.Int) ([]*uint256.Int, error) {
	return iter.MapErr(xps, func(x *[2]*uint256.Int) (*uint256.Int, error) {
		return math.NewtonD(ANN, gamma, *x)
	})
}

// SweepY solves for xp[i] for every reserve pair against the same D.
func SweepY(ANN, gamma, D *uint256.Int, i int, xps [][2]*uint256.Int) ([]*uint256.Int, error) {
	return iter.MapErr(xps, func(x *[2]*uint256.Int) (*uint256.Int, error) {
		return math.NewtonY(ANN, gamma, *x, D, i)
	})
}

// SweepD solves the invariant for each of xps using the pool's A and gamma.
func (p *CurveCryptoPool) SweepD(xps [][2]*uint256.Int) ([]*uint256.Int, error) {
	return SweepD(p.A, p.Gamma, xps)
}
