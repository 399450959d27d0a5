package math

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/krazyTry/cryptoswap-go/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testA     = uint256.NewInt(400_000)
	testGamma = uint256.NewInt(145_000_000_000_000)
)

func TestNewtonDBalanced(t *testing.T) {
	D, iterations, err := NewtonDWithIterations(testA, testGamma, pair("1000000000000000000000000", "1000000000000000000000000"))
	require.NoError(t, err)
	assert.Equal(t, "2000000000000000000000000", D.Dec())
	assert.Equal(t, 1, iterations)
}

func TestNewtonD(t *testing.T) {
	tests := []struct {
		name  string
		ANN   uint64
		gamma uint64
		x     [2]*uint256.Int
		want  string
	}{
		{"unbalanced", 400_000, 145_000_000_000_000, pair("1000000000000000000000000", "2000000000000000000000000"), "2833488545042678933929730"},
		{"unbalanced swapped", 400_000, 145_000_000_000_000, pair("2000000000000000000000000", "1000000000000000000000000"), "2833488545042678933929730"},
		{"one coin each", 400_000, 145_000_000_000_000, pair("1000000000000000000", "1000000000000000000"), "2000000000000000000"},
		{"ratio 100", 400_000, 145_000_000_000_000, pair("1000000000000000000000000", "10000000000000000000000"), "201499513113273376798365"},
		{"ratio 1000", 400_000, 145_000_000_000_000, pair("1000000000000000000000000", "1000000000000000000000"), "63979791441886268550175"},
		{"min A min gamma", shared.MinA, shared.MinGamma, pair("500000000000000000000", "1000000000000000000000"), "1414214507842442563216"},
		{"max A max gamma", shared.MaxA, shared.MaxGamma, pair("500000000000000000000", "1000000000000000000000"), "1499979867790741036612"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			D, err := NewtonD(uint256.NewInt(tt.ANN), uint256.NewInt(tt.gamma), tt.x)
			require.NoError(t, err)
			assert.Equal(t, tt.want, D.Dec())
		})
	}
}

func TestNewtonDIterations(t *testing.T) {
	_, iterations, err := NewtonDWithIterations(testA, testGamma, pair("1000000000000000000000000", "2000000000000000000000000"))
	require.NoError(t, err)
	assert.Equal(t, 13, iterations)
}

func TestNewtonDDoesNotMutateInput(t *testing.T) {
	x := pair("1000000000000000000000000", "2000000000000000000000000")
	_, err := NewtonD(testA, testGamma, x)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000000", x[0].Dec())
	assert.Equal(t, "2000000000000000000000000", x[1].Dec())
}

func TestNewtonDMonotonic(t *testing.T) {
	x0 := "1000000000000000000000000"
	var prev *uint256.Int
	for _, x1 := range []string{
		"10000000000000000000000",
		"100000000000000000000000",
		"500000000000000000000000",
		"1000000000000000000000000",
		"2000000000000000000000000",
		"10000000000000000000000000",
		"50000000000000000000000000",
	} {
		D, err := NewtonD(testA, testGamma, pair(x0, x1))
		require.NoError(t, err)
		if prev != nil {
			assert.False(t, D.Lt(prev), "D decreased at x1=%s", x1)
		}
		prev = D
	}
}

func TestNewtonDBounds(t *testing.T) {
	balanced := pair("1000000000000000000000000", "1000000000000000000000000")
	tests := []struct {
		name    string
		ANN     *uint256.Int
		gamma   *uint256.Int
		x       [2]*uint256.Int
		wantErr error
		kind    error
	}{
		{"A below min", uint256.NewInt(shared.MinA - 1), testGamma, balanced, shared.ErrUnsafeA, shared.ErrParameterRange},
		{"A above max", uint256.NewInt(shared.MaxA + 1), testGamma, balanced, shared.ErrUnsafeA, shared.ErrParameterRange},
		{"gamma below min", testA, uint256.NewInt(shared.MinGamma - 1), balanced, shared.ErrUnsafeGamma, shared.ErrParameterRange},
		{"gamma above max", testA, uint256.NewInt(shared.MaxGamma + 1), balanced, shared.ErrUnsafeGamma, shared.ErrParameterRange},
		{"reserve too small", testA, testGamma, pair("100000000", "100000000"), shared.ErrUnsafeX0, shared.ErrUnsafeValue},
		{"reserve too large", testA, testGamma, pair("1000000000000000000000000000000001", "1000000000000000000000000000000000"), shared.ErrUnsafeX0, shared.ErrUnsafeValue},
		{"ratio above 1e14", testA, testGamma, pair("1000000000000000000000000", "99990000999900009999"), shared.ErrUnsafeXRatio, shared.ErrUnsafeValue},
		{"ratio 1e4 output", testA, testGamma, pair("1000000000000000000000000", "100000000000000000000"), shared.ErrUnsafeXOutput, shared.ErrUnsafeValue},
		{"ratio 5000 output", testA, testGamma, pair("1000000000000000000000000", "200000000000000000000"), shared.ErrUnsafeXOutput, shared.ErrUnsafeValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			D, err := NewtonD(tt.ANN, tt.gamma, tt.x)
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, tt.kind)
			assert.Nil(t, D)
		})
	}
}

func TestNewtonY(t *testing.T) {
	x := pair("1000000000000000000000000", "2000000000000000000000000")
	D := u("2833488545042678933929730")

	y1, iterations, err := NewtonYWithIterations(testA, testGamma, x, D, 1)
	require.NoError(t, err)
	assert.Equal(t, "1999999999999999998494677", y1.Dec())
	assert.Equal(t, 13, iterations)

	y0, err := NewtonY(testA, testGamma, x, D, 0)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000065553", y0.Dec())
}

func TestNewtonYBalanced(t *testing.T) {
	y, iterations, err := NewtonYWithIterations(testA, testGamma, pair("1000000000000000000000000", "1000000000000000000000000"), u("2000000000000000000000000"), 0)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000623974", y.Dec())
	assert.Equal(t, 1, iterations)
}

func TestNewtonYIgnoresOwnBalance(t *testing.T) {
	D := u("2833488545042678933929730")
	a, err := NewtonY(testA, testGamma, pair("1000000000000000000000000", "2000000000000000000000000"), D, 1)
	require.NoError(t, err)
	b, err := NewtonY(testA, testGamma, pair("1000000000000000000000000", "1"), D, 1)
	require.NoError(t, err)
	assert.Equal(t, a.Dec(), b.Dec())
}

func TestNewtonYBounds(t *testing.T) {
	x := pair("1000000000000000000000000", "1000000000000000000000000")
	D := u("2000000000000000000000000")
	tests := []struct {
		name    string
		ANN     *uint256.Int
		gamma   *uint256.Int
		x       [2]*uint256.Int
		D       *uint256.Int
		i       int
		wantErr error
	}{
		{"A below min", uint256.NewInt(shared.MinA - 1), testGamma, x, D, 0, shared.ErrAssertA},
		{"A above max", uint256.NewInt(shared.MaxA + 1), testGamma, x, D, 0, shared.ErrAssertA},
		{"gamma below min", testA, uint256.NewInt(shared.MinGamma - 1), x, D, 0, shared.ErrAssertGamma},
		{"gamma above max", testA, uint256.NewInt(shared.MaxGamma + 1), x, D, 0, shared.ErrAssertGamma},
		{"D too small", testA, testGamma, x, u("99999999999999999"), 0, shared.ErrAssertD},
		{"D too large", testA, testGamma, x, u("1000000000000000000000000000000001"), 0, shared.ErrAssertD},
		{"other reserve too small", testA, testGamma, pair("1000000000000000000000000", "1000000000000000000000"), D, 0, shared.ErrUnsafeXj},
		{"other reserve too large", testA, testGamma, pair("1000000000000000000000000", "1000000000000000000000000000"), D, 0, shared.ErrUnsafeXj},
		{"bad index", testA, testGamma, x, D, 2, shared.ErrCoinIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, err := NewtonY(tt.ANN, tt.gamma, tt.x, tt.D, tt.i)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, y)
		})
	}
}

func TestNewtonRoundTrip(t *testing.T) {
	tests := []struct {
		ANN   uint64
		gamma uint64
		x     [2]*uint256.Int
		D     string
	}{
		{400_000, 145_000_000_000_000, pair("1000000000000000000000000", "2000000000000000000000000"), "2833488545042678933929730"},
		{400_000, 145_000_000_000_000, pair("300000000000000000000", "100000000000000000000"), "347267464859936741232"},
		{4_000, 10_000_000_000, pair("500000000000000000000", "1000000000000000000000"), "1414214507842442563216"},
		{4_000_000_000, 20_000_000_000_000_000, pair("500000000000000000000", "1000000000000000000000"), "1499979867790741036612"},
		{1_707_629, 11_809_167_828_997, pair("1000000000000000000000", "1200000000000000000000"), "2191379252968279420488"},
		{135_428, 700_000_000_000_000, pair("1000000000000000000000000000000", "300000000000000000000000000000"), "1101034229436467816516500400768"},
	}
	for _, tt := range tests {
		ANN, gamma := uint256.NewInt(tt.ANN), uint256.NewInt(tt.gamma)
		D, err := NewtonD(ANN, gamma, tt.x)
		require.NoError(t, err)
		assert.Equal(t, tt.D, D.Dec())

		for i := 0; i < 2; i++ {
			y, err := NewtonY(ANN, gamma, tt.x, D, i)
			require.NoError(t, err)
			// |y - x[i]| * 1e10 <= x[i]
			diff := AbsDiff(y, tt.x[i])
			scaled, err := Mul(diff, uint256.NewInt(10_000_000_000))
			require.NoError(t, err)
			assert.False(t, scaled.Gt(tt.x[i]), "x[%d]=%s y=%s", i, tt.x[i].Dec(), y.Dec())
		}
	}
}

func TestNewtonConvergesWithinLimit(t *testing.T) {
	As := []uint64{4_000, 40_000, 400_000, 4_000_000, 40_000_000, 400_000_000, 4_000_000_000}
	gammas := []uint64{10_000_000_000, 1_000_000_000_000, 145_000_000_000_000, 1_000_000_000_000_000, 20_000_000_000_000_000}
	reserves := []string{"1000000000000000000", "1000000000000000000000000", "1000000000000000000000000000000"}
	ratios := []uint64{1, 2, 10, 100}

	worst := 0
	for _, a := range As {
		for _, g := range gammas {
			for _, r := range reserves {
				for _, ratio := range ratios {
					ANN, gamma := uint256.NewInt(a), uint256.NewInt(g)
					x0 := u(r)
					x := [2]*uint256.Int{x0, new(uint256.Int).Div(x0, uint256.NewInt(ratio))}

					D, n, err := NewtonDWithIterations(ANN, gamma, x)
					require.NoError(t, err, "A=%d gamma=%d x=%s ratio=%d", a, g, r, ratio)
					worst = max(worst, n)

					for i := 0; i < 2; i++ {
						_, n, err := NewtonYWithIterations(ANN, gamma, x, D, i)
						require.NoError(t, err, "A=%d gamma=%d x=%s ratio=%d i=%d", a, g, r, ratio, i)
						worst = max(worst, n)
					}
				}
			}
		}
	}
	assert.LessOrEqual(t, worst, shared.MaxIterations)
	assert.Equal(t, 32, worst)
}

func TestNewtonYStepBisection(t *testing.T) {
	xj := u("1000000000000000000000000")
	D := u("2000000000000000000000000")
	K0i := u("1000000000000000000")

	t.Run("derivative exceeds numerator", func(t *testing.T) {
		var c calc
		y, step := newtonYStep(&c, uint256.NewInt(shared.MaxA), uint256.NewInt(shared.MaxGamma), xj, D, K0i, u("500000000000000000000000"))
		require.NoError(t, c.err)
		assert.Equal(t, yStepBisectDerivative, step)
		assert.Equal(t, "250000000000000000000000", y.Dec())
	})

	t.Run("newton update from below", func(t *testing.T) {
		var c calc
		y, step := newtonYStep(&c, testA, testGamma, xj, D, K0i, u("500000000000000000000000"))
		require.NoError(t, c.err)
		assert.Equal(t, yStepNewton, step)
		assert.Equal(t, "1000001260527088577772875", y.Dec())
	})

	t.Run("newton update at solution", func(t *testing.T) {
		var c calc
		y, step := newtonYStep(&c, uint256.NewInt(shared.MaxA), uint256.NewInt(shared.MaxGamma), xj, D, K0i, u("1000000000000000000000000"))
		require.NoError(t, c.err)
		assert.Equal(t, yStepNewton, step)
		assert.Equal(t, "1000000000000000000000500", y.Dec())
	})
}

func TestYStepString(t *testing.T) {
	assert.Equal(t, "newton", yStepNewton.String())
	assert.Equal(t, "bisect-derivative", yStepBisectDerivative.String())
	assert.Equal(t, "bisect-negative", yStepBisectNegative.String())
}

func TestNewtonDConcurrent(t *testing.T) {
	x := pair("1000000000000000000000000", "2000000000000000000000000")
	done := make(chan string, 16)
	for i := 0; i < 16; i++ {
		go func() {
			D, err := NewtonD(testA, testGamma, x)
			if err != nil {
				done <- err.Error()
				return
			}
			done <- D.Dec()
		}()
	}
	for i := 0; i < 16; i++ {
		assert.Equal(t, "2833488545042678933929730", <-done)
	}
}
