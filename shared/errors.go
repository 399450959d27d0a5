package shared

import "github.com/go-faster/errors"

// Failure kinds. Every error returned by the solvers wraps exactly one of them.
var (
	ErrParameterRange = errors.New("parameter out of range")
	ErrConvergence    = errors.New("did not converge")
	ErrUnsafeValue    = errors.New("unsafe value")
	ErrArithmetic     = errors.New("arithmetic error")
	ErrConfig         = errors.New("invalid configuration")
)

var (
	ErrUnsafeA     = errors.Wrap(ErrParameterRange, "unsafe value for A")
	ErrUnsafeGamma = errors.Wrap(ErrParameterRange, "unsafe value for gamma")
	ErrCoinIndex   = errors.Wrap(ErrParameterRange, "coin index out of range")

	ErrDidNotConverge = errors.Wrap(ErrConvergence, "iteration limit reached")

	ErrAssertA       = errors.Wrap(ErrUnsafeValue, "unsafe values A")
	ErrAssertGamma   = errors.Wrap(ErrUnsafeValue, "unsafe values gamma")
	ErrAssertD       = errors.Wrap(ErrUnsafeValue, "unsafe values D")
	ErrUnsafeX0      = errors.Wrap(ErrUnsafeValue, "unsafe values x[0]")
	ErrUnsafeXRatio  = errors.Wrap(ErrUnsafeValue, "unsafe values x[i] (input)")
	ErrUnsafeXOutput = errors.Wrap(ErrUnsafeValue, "unsafe value for x[i]")
	ErrUnsafeXj      = errors.Wrap(ErrUnsafeValue, "unsafe values x[i]")
	ErrUnsafeY       = errors.Wrap(ErrUnsafeValue, "unsafe value for y")

	ErrMathOverflow   = errors.Wrap(ErrArithmetic, "uint256 overflow")
	ErrMathUnderflow  = errors.Wrap(ErrArithmetic, "uint256 underflow")
	ErrDivisionByZero = errors.Wrap(ErrArithmetic, "division by zero")

	ErrPrecisionsLength = errors.Wrap(ErrConfig, "`len(precisions)` must equal `n`")
	ErrBalancesLength   = errors.Wrap(ErrConfig, "`len(balances)` must equal `n`")
	ErrCoinCount        = errors.Wrap(ErrConfig, "only two-coin pools are supported")
	ErrMissingD         = errors.Wrap(ErrConfig, "either D or balances must be set")
	ErrMissingParam     = errors.Wrap(ErrConfig, "missing parameter")
)

// Kind names the failure kind of err, for metrics labels and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrParameterRange):
		return "parameter_range"
	case errors.Is(err, ErrConvergence):
		return "convergence"
	case errors.Is(err, ErrUnsafeValue):
		return "unsafe_value"
	case errors.Is(err, ErrArithmetic):
		return "arithmetic"
	case errors.Is(err, ErrConfig):
		return "config"
	default:
		return "unknown"
	}
}
