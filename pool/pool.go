package pool

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/holiman/uint256"
	"github.com/krazyTry/cryptoswap-go/math"
	"github.com/krazyTry/cryptoswap-go/shared"
	"go.uber.org/zap"
)

var precision = uint256.NewInt(shared.Precision)

// Params are the construction parameters of a CurveCryptoPool, in the order
// the pool contract takes them.
type Params struct {
	// A is the amplification coefficient, already A * N**N and scaled by
	// A_MULTIPLIER; it is passed to the solvers as ANN.
	A     *uint256.Int
	Gamma *uint256.Int
	// D is the virtual total balance in D units, split evenly across the
	// coins. Ignored when Balances is set.
	D *uint256.Int
	// Balances are coin balances in native token units.
	Balances []*uint256.Int
	N        int
	// Precisions convert native units to 18 decimals:
	// balance * precision = balance in D units.
	Precisions         []*uint256.Int
	Tokens             *uint256.Int
	MidFee             *uint256.Int
	OutFee             *uint256.Int
	AllowedExtraProfit *uint256.Int
	FeeGamma           *uint256.Int
	AdjustmentStep     *uint256.Int
	AdminFee           *uint256.Int
	MaHalfTime         uint64
	InitialPrice       *uint256.Int
}

// CurveCryptoPool is the state of a two-coin cryptoswap pool.
//
// Only Xp and the solver wrappers read it here; profit and oracle fields are
// maintained by exchange and liquidity logic living elsewhere. A pool is not
// safe for concurrent mutation: callers serialise writes with their reads.
type CurveCryptoPool struct {
	A     *uint256.Int
	Gamma *uint256.Int

	MidFee             *uint256.Int
	OutFee             *uint256.Int
	AllowedExtraProfit *uint256.Int
	FeeGamma           *uint256.Int
	AdjustmentStep     *uint256.Int
	AdminFee           *uint256.Int

	PriceScale          *uint256.Int
	PriceOracle         *uint256.Int
	LastPrices          *uint256.Int
	LastPricesTimestamp int64
	MaHalfTime          uint64

	XcpProfit    *uint256.Int
	XcpProfitA   *uint256.Int
	VirtualPrice *uint256.Int
	NotAdjusted  bool

	Tokens     *uint256.Int
	N          int
	Precisions []*uint256.Int
	Balances   []*uint256.Int

	logger  *zap.Logger
	metrics *Metrics
	now     func() time.Time
}

type Option func(*CurveCryptoPool)

func WithLogger(logger *zap.Logger) Option {
	return func(p *CurveCryptoPool) {
		p.logger = logger
	}
}

// WithClock sets the clock read for last_prices_timestamp.
func WithClock(now func() time.Time) Option {
	return func(p *CurveCryptoPool) {
		p.now = now
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *CurveCryptoPool) {
		p.metrics = m
	}
}

func NewCurveCryptoPool(params Params, opts ...Option) (*CurveCryptoPool, error) {
	p := &CurveCryptoPool{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if params.A == nil {
		return nil, errors.Wrap(shared.ErrMissingParam, "A")
	}
	if params.Gamma == nil {
		return nil, errors.Wrap(shared.ErrMissingParam, "gamma")
	}
	if params.InitialPrice == nil {
		return nil, errors.Wrap(shared.ErrMissingParam, "initial_price")
	}

	p.A = clone(params.A)
	p.Gamma = clone(params.Gamma)

	p.MidFee = clone(params.MidFee)
	p.OutFee = clone(params.OutFee)
	p.AllowedExtraProfit = clone(params.AllowedExtraProfit)
	p.FeeGamma = clone(params.FeeGamma)
	p.AdjustmentStep = clone(params.AdjustmentStep)
	p.AdminFee = clone(params.AdminFee)

	p.PriceScale = clone(params.InitialPrice)
	p.PriceOracle = clone(params.InitialPrice)
	p.LastPrices = clone(params.InitialPrice)
	p.LastPricesTimestamp = p.now().Unix()
	p.MaHalfTime = params.MaHalfTime

	p.Tokens = clone(params.Tokens)

	p.N = params.N
	if len(params.Precisions) != params.N {
		return nil, shared.ErrPrecisionsLength
	}
	if params.N != shared.NCoins {
		return nil, errors.Wrapf(shared.ErrCoinCount, "n = %d", params.N)
	}
	p.Precisions = cloneAll(params.Precisions)

	switch {
	case params.Balances != nil:
		if len(params.Balances) != params.N {
			return nil, shared.ErrBalancesLength
		}
		p.Balances = cloneAll(params.Balances)
	case params.D != nil:
		balances, err := splitD(params.D, params.N, p.Precisions)
		if err != nil {
			return nil, err
		}
		p.Balances = balances
	default:
		return nil, shared.ErrMissingD
	}

	p.XcpProfit = new(uint256.Int)
	// Full profit at last claim of admin fees.
	p.XcpProfitA = new(uint256.Int)
	p.VirtualPrice = new(uint256.Int)
	p.NotAdjusted = false

	p.logger.Debug("pool created",
		zap.String("A", p.A.Dec()),
		zap.String("gamma", p.Gamma.Dec()),
		zap.String("balance0", p.Balances[0].Dec()),
		zap.String("balance1", p.Balances[1].Dec()),
		zap.String("price_scale", p.PriceScale.Dec()),
	)
	return p, nil
}

// splitD returns D / n / precision for each coin.
func splitD(D *uint256.Int, n int, precisions []*uint256.Int) ([]*uint256.Int, error) {
	perCoin, err := math.Div(D, uint256.NewInt(uint64(n)))
	if err != nil {
		return nil, errors.Wrap(err, "split D")
	}
	balances := make([]*uint256.Int, n)
	for i, p := range precisions {
		b, err := math.Div(perCoin, p)
		if err != nil {
			return nil, errors.Wrapf(err, "split D: precision %d", i)
		}
		balances[i] = b
	}
	return balances, nil
}

// Xp returns the balances in D units: both scaled to 18 decimals, and the
// second coin priced in the first at price_scale.
func (p *CurveCryptoPool) Xp() ([2]*uint256.Int, error) {
	var xp [2]*uint256.Int

	x0, err := math.Mul(p.Balances[0], p.Precisions[0])
	if err != nil {
		return xp, errors.Wrap(err, "xp[0]")
	}
	x1, err := math.Mul(p.Balances[1], p.Precisions[1])
	if err != nil {
		return xp, errors.Wrap(err, "xp[1]")
	}
	x1, err = math.Mul(x1, p.PriceScale)
	if err != nil {
		return xp, errors.Wrap(err, "xp[1]")
	}
	xp[0] = x0
	xp[1], _ = math.Div(x1, precision)
	return xp, nil
}

// D solves the invariant for the current balances.
func (p *CurveCryptoPool) D() (*uint256.Int, error) {
	xp, err := p.Xp()
	if err != nil {
		return nil, err
	}
	D, iterations, err := math.NewtonDWithIterations(p.A, p.Gamma, xp)
	p.observe(solverNewtonD, iterations, err)
	if err != nil {
		return nil, err
	}
	return D, nil
}

// Y solves for xp[i] given xp[1-i] and the invariant D.
func (p *CurveCryptoPool) Y(xp [2]*uint256.Int, D *uint256.Int, i int) (*uint256.Int, error) {
	y, iterations, err := math.NewtonYWithIterations(p.A, p.Gamma, xp, D, i)
	p.observe(solverNewtonY, iterations, err)
	if err != nil {
		return nil, err
	}
	return y, nil
}

// XCP returns the constant-product value of D at the current price scale:
// sqrt(D/N * D/(N*price_scale)).
func (p *CurveCryptoPool) XCP(D *uint256.Int) (*uint256.Int, error) {
	n := uint256.NewInt(shared.NCoins)
	x0, err := math.Div(D, n)
	if err != nil {
		return nil, err
	}
	num, err := math.Mul(D, precision)
	if err != nil {
		return nil, errors.Wrap(err, "xcp")
	}
	den, err := math.Mul(p.PriceScale, n)
	if err != nil {
		return nil, errors.Wrap(err, "xcp")
	}
	x1, err := math.Div(num, den)
	if err != nil {
		return nil, errors.Wrap(err, "xcp")
	}
	return math.GeometricMean([2]*uint256.Int{x0, x1}, true)
}

// VirtualPriceFromD returns 1e18 * xcp(D) / tokens.
func (p *CurveCryptoPool) VirtualPriceFromD(D *uint256.Int) (*uint256.Int, error) {
	xcp, err := p.XCP(D)
	if err != nil {
		return nil, err
	}
	return math.MulDiv(precision, xcp, p.Tokens)
}

// SetBalances replaces the coin balances, in native units.
func (p *CurveCryptoPool) SetBalances(balances [2]*uint256.Int) {
	p.Balances = []*uint256.Int{clone(balances[0]), clone(balances[1])}
}

func (p *CurveCryptoPool) SetPriceScale(priceScale *uint256.Int) {
	p.PriceScale = clone(priceScale)
}

func (p *CurveCryptoPool) observe(solver string, iterations int, err error) {
	p.metrics.observe(solver, iterations, err)
	if err != nil {
		p.logger.Warn("solver failed",
			zap.String("solver", solver),
			zap.Int("iterations", iterations),
			zap.String("kind", shared.Kind(err)),
			zap.Error(err),
		)
	}
}

func clone(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(v)
}

func cloneAll(vs []*uint256.Int) []*uint256.Int {
	out := make([]*uint256.Int, len(vs))
	for i, v := range vs {
		out[i] = clone(v)
	}
	return out
}
