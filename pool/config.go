package pool

import (
	"io"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/go-faster/errors"
	"github.com/holiman/uint256"
	"github.com/krazyTry/cryptoswap-go/decimal_math"
	"github.com/krazyTry/cryptoswap-go/shared"
	"github.com/krazyTry/cryptoswap-go/u256"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Config is the textual form of Params. Integers are decimal strings since
// reserves and D do not fit in 64 bits.
type Config struct {
	A        string   `toml:"A" yaml:"A" env:"CRYPTOSWAP_A"`
	Gamma    string   `toml:"gamma" yaml:"gamma" env:"CRYPTOSWAP_GAMMA"`
	D        string   `toml:"D" yaml:"D" env:"CRYPTOSWAP_D"`
	Balances []string `toml:"balances" yaml:"balances" env:"CRYPTOSWAP_BALANCES" envSeparator:","`
	N        int      `toml:"n" yaml:"n" env:"CRYPTOSWAP_N"`
	// Precisions are the raw multipliers; Decimals, when set, override them
	// with 10**(18 - decimals).
	Precisions []string `toml:"precisions" yaml:"precisions" env:"CRYPTOSWAP_PRECISIONS" envSeparator:","`
	Decimals   []int    `toml:"decimals" yaml:"decimals" env:"CRYPTOSWAP_DECIMALS" envSeparator:","`

	Tokens             string `toml:"tokens" yaml:"tokens" env:"CRYPTOSWAP_TOKENS"`
	MidFee             string `toml:"mid_fee" yaml:"mid_fee" env:"CRYPTOSWAP_MID_FEE"`
	OutFee             string `toml:"out_fee" yaml:"out_fee" env:"CRYPTOSWAP_OUT_FEE"`
	AllowedExtraProfit string `toml:"allowed_extra_profit" yaml:"allowed_extra_profit" env:"CRYPTOSWAP_ALLOWED_EXTRA_PROFIT"`
	FeeGamma           string `toml:"fee_gamma" yaml:"fee_gamma" env:"CRYPTOSWAP_FEE_GAMMA"`
	AdjustmentStep     string `toml:"adjustment_step" yaml:"adjustment_step" env:"CRYPTOSWAP_ADJUSTMENT_STEP"`
	AdminFee           string `toml:"admin_fee" yaml:"admin_fee" env:"CRYPTOSWAP_ADMIN_FEE"`
	MaHalfTime         uint64 `toml:"ma_half_time" yaml:"ma_half_time" env:"CRYPTOSWAP_MA_HALF_TIME"`

	// InitialPrice is 1e18 fixed point. Price is the same as a plain decimal
	// ("1834.25") and is used when InitialPrice is empty.
	InitialPrice string `toml:"initial_price" yaml:"initial_price" env:"CRYPTOSWAP_INITIAL_PRICE"`
	Price        string `toml:"price" yaml:"price" env:"CRYPTOSWAP_PRICE"`
}

func LoadConfigTOML(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode toml config")
	}
	return &cfg, nil
}

func LoadConfigYAML(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode yaml config")
	}
	return &cfg, nil
}

// LoadConfigEnv reads CRYPTOSWAP_* environment variables.
func LoadConfigEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "parse env config")
	}
	return &cfg, nil
}

// LoadConfigJSON reads a pool snapshot in the layout of pool data dumps:
//
//	{
//	  "params": {"A": ..., "gamma": ..., "mid_fee": ..., "price_scale": ...},
//	  "reserves": [...],
//	  "coins": {"decimals": [...]},
//	  "tokens": ...
//	}
//
// Numbers may be JSON numbers or strings.
func LoadConfigJSON(data []byte) (*Config, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(shared.ErrConfig, "invalid json")
	}
	root := gjson.ParseBytes(data)
	params := root.Get("params")

	cfg := &Config{
		A:                  params.Get("A").String(),
		Gamma:              params.Get("gamma").String(),
		D:                  root.Get("D").String(),
		Tokens:             root.Get("tokens").String(),
		MidFee:             params.Get("mid_fee").String(),
		OutFee:             params.Get("out_fee").String(),
		AllowedExtraProfit: params.Get("allowed_extra_profit").String(),
		FeeGamma:           params.Get("fee_gamma").String(),
		AdjustmentStep:     params.Get("adjustment_step").String(),
		AdminFee:           params.Get("admin_fee").String(),
		MaHalfTime:         params.Get("ma_half_time").Uint(),
		InitialPrice:       params.Get("price_scale").String(),
		Price:              root.Get("price").String(),
	}
	for _, r := range root.Get("reserves").Array() {
		cfg.Balances = append(cfg.Balances, r.String())
	}
	for _, d := range root.Get("coins.decimals").Array() {
		cfg.Decimals = append(cfg.Decimals, int(d.Int()))
	}
	for _, p := range root.Get("precisions").Array() {
		cfg.Precisions = append(cfg.Precisions, p.String())
	}
	if n := root.Get("n"); n.Exists() {
		cfg.N = int(n.Int())
	}
	return cfg, nil
}

// Params converts the config into pool construction parameters.
func (c *Config) Params() (Params, error) {
	var (
		p   Params
		err error
	)
	required := func(name, s string) *uint256.Int {
		if err != nil {
			return nil
		}
		if s == "" {
			err = errors.Wrap(shared.ErrMissingParam, name)
			return nil
		}
		var v *uint256.Int
		if v, err = u256.FromString(s); err != nil {
			err = errors.Wrapf(shared.ErrConfig, "%s: %v", name, err)
		}
		return v
	}
	optional := func(name, s string) *uint256.Int {
		if s == "" {
			return new(uint256.Int)
		}
		return required(name, s)
	}

	p.A = required("A", c.A)
	p.Gamma = required("gamma", c.Gamma)
	p.Tokens = optional("tokens", c.Tokens)
	p.MidFee = optional("mid_fee", c.MidFee)
	p.OutFee = optional("out_fee", c.OutFee)
	p.AllowedExtraProfit = optional("allowed_extra_profit", c.AllowedExtraProfit)
	p.FeeGamma = optional("fee_gamma", c.FeeGamma)
	p.AdjustmentStep = optional("adjustment_step", c.AdjustmentStep)
	p.AdminFee = optional("admin_fee", c.AdminFee)
	p.MaHalfTime = c.MaHalfTime
	if c.D != "" {
		p.D = required("D", c.D)
	}
	for i, b := range c.Balances {
		p.Balances = append(p.Balances, required("balances["+strconv.Itoa(i)+"]", b))
	}
	if err != nil {
		return Params{}, err
	}

	switch {
	case c.InitialPrice != "":
		p.InitialPrice = required("initial_price", c.InitialPrice)
	case c.Price != "":
		if p.InitialPrice, err = decimal_math.ParseFixed(c.Price, 18); err != nil {
			err = errors.Wrapf(shared.ErrConfig, "price: %v", err)
		}
	default:
		err = errors.Wrap(shared.ErrMissingParam, "initial_price")
	}
	if err != nil {
		return Params{}, err
	}

	if len(c.Decimals) > 0 {
		for i, d := range c.Decimals {
			if d < 0 || d > 18 {
				return Params{}, errors.Wrapf(shared.ErrConfig, "decimals[%d] = %d, want 0..18", i, d)
			}
			p.Precisions = append(p.Precisions, new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(18-d))))
		}
	} else {
		for i, s := range c.Precisions {
			p.Precisions = append(p.Precisions, required("precisions["+strconv.Itoa(i)+"]", s))
		}
		if err != nil {
			return Params{}, err
		}
	}

	p.N = c.N
	if p.N == 0 {
		p.N = shared.NCoins
	}
	return p, nil
}

// NewCurveCryptoPoolFromConfig builds a pool from a loaded config.
func NewCurveCryptoPoolFromConfig(c *Config, opts ...Option) (*CurveCryptoPool, error) {
	params, err := c.Params()
	if err != nil {
		return nil, err
	}
	return NewCurveCryptoPool(params, opts...)
}
