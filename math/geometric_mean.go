package math

import (
	"github.com/go-faster/errors"
	"github.com/holiman/uint256"
	"github.com/krazyTry/cryptoswap-go/shared"
)

// GeometricMean returns floor(sqrt(x[0] * x[1])) by Newton iteration.
// With sort set the larger value seeds the iteration.
func GeometricMean(unsortedX [2]*uint256.Int, sort bool) (*uint256.Int, error) {
	x := unsortedX
	if sort && x[0].Lt(x[1]) {
		x = [2]*uint256.Int{unsortedX[1], unsortedX[0]}
	}

	var c calc
	D := new(uint256.Int).Set(x[0])
	for i := 0; i < shared.MaxIterations; i++ {
		DPrev := D
		// D = (D + x0 * x1 / D) / N
		D = c.div(c.add(D, c.div(c.mul(x[0], x[1]), D)), nCoins)
		diff := AbsDiff(D, DPrev)
		stop := diff.Cmp(one) <= 0 || c.mul(diff, e18).Lt(D)
		if c.err != nil {
			return nil, errors.Wrap(c.err, "geometric_mean")
		}
		if stop {
			return D, nil
		}
	}
	return nil, errors.Wrap(shared.ErrDidNotConverge, "geometric_mean")
}
