package cryptoswap

import (
	"github.com/krazyTry/cryptoswap-go/math"
	"github.com/krazyTry/cryptoswap-go/pool"
)

// NewPool creates a two-coin pool from its parameters.
//
// Example:
//
// p, _ := NewPool(pool.Params{A: A, Gamma: gamma, N: 2, Precisions: precisions, Balances: balances, InitialPrice: price})
//
// xp, _ := p.Xp()
//
// D, _ := p.D()
var NewPool = pool.NewCurveCryptoPool

// NewPoolFromConfig creates a pool from a config read by one of the
// pool.LoadConfig* functions.
var NewPoolFromConfig = pool.NewCurveCryptoPoolFromConfig

// NewtonD solves the invariant D for the balances x in D units.
var NewtonD = math.NewtonD

// NewtonY solves for x[i] given the other balance and D.
var NewtonY = math.NewtonY

var GeometricMean = math.GeometricMean

var HalfPow = math.HalfPow
