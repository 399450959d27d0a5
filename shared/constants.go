package shared

const (
	NCoins = 2

	// Precision is the fixed-point scale of balances, prices and D.
	Precision = 1_000_000_000_000_000_000

	AMultiplier = 10_000

	MinA = NCoins * NCoins * AMultiplier / 10
	MaxA = NCoins * NCoins * AMultiplier * 100_000

	MinGamma = 10_000_000_000
	MaxGamma = 20_000_000_000_000_000

	// ExpPrecision is the series-truncation threshold of HalfPow.
	ExpPrecision = 10_000_000_000

	MaxIterations = 255

	AdminActionsDelay = 3 * 86400
	MinRampTime       = 86400

	MaxAdminFee = 10 * 1_000_000_000
	MinFee      = 5 * 100_000
	MaxFee      = 10 * 1_000_000_000
	MaxAChange  = 10
	NoiseFee    = 100_000

	// FeeDenominator is the scale of mid_fee, out_fee and admin_fee.
	FeeDenominator = 10_000_000_000
)
