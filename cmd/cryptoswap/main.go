package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/caarlos0/env/v6"
	"github.com/holiman/uint256"
	"github.com/krazyTry/cryptoswap-go/decimal_math"
	"github.com/krazyTry/cryptoswap-go/pool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var app struct {
	ConfigFile  string `env:"CONFIG_FILE"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"INFO"`
	MetricsAddr string `env:"METRICS_ADDR"`
}

func logger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		panic(err)
	}
	cfg.Level.SetLevel(lvl)

	lg, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return lg
}

func loadConfig(path string) (*pool.Config, error) {
	if path == "" {
		return pool.LoadConfigEnv()
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return pool.LoadConfigJSON(data)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return pool.LoadConfigYAML(f)
	default:
		return pool.LoadConfigTOML(f)
	}
}

// Usage: cryptoswap [dx]
//
// Prints xp, D and the virtual price of the configured pool. With dx (coin 0,
// in D units) it also prints the coin 1 amount the curve gives back.
func main() {
	if err := env.Parse(&app); err != nil {
		panic(err)
	}
	log := logger(app.LogLevel)
	defer log.Sync()

	reg := prometheus.NewRegistry()
	metrics := pool.NewMetrics(reg)

	cfg, err := loadConfig(app.ConfigFile)
	if err != nil {
		log.Fatal("load config", zap.String("file", app.ConfigFile), zap.Error(err))
	}
	p, err := pool.NewCurveCryptoPoolFromConfig(cfg, pool.WithLogger(log), pool.WithMetrics(metrics))
	if err != nil {
		log.Fatal("create pool", zap.Error(err))
	}

	xp, err := p.Xp()
	if err != nil {
		log.Fatal("xp", zap.Error(err))
	}
	D, err := p.D()
	if err != nil {
		log.Fatal("newton_D", zap.Error(err))
	}
	fmt.Printf("xp:            %s, %s\n", decimal_math.ToDecimal(xp[0], 18), decimal_math.ToDecimal(xp[1], 18))
	fmt.Printf("D:             %s\n", decimal_math.ToDecimal(D, 18))
	if !p.Tokens.IsZero() {
		vp, err := p.VirtualPriceFromD(D)
		if err != nil {
			log.Fatal("virtual price", zap.Error(err))
		}
		fmt.Printf("virtual price: %s\n", decimal_math.ToDecimal(vp, 18))
	}

	if len(os.Args) > 1 {
		dx, err := decimal_math.ParseFixed(os.Args[1], 18)
		if err != nil {
			log.Fatal("parse dx", zap.Error(err))
		}
		moved := [2]*uint256.Int{new(uint256.Int).Add(xp[0], dx), xp[1]}
		y, err := p.Y(moved, D, 1)
		if err != nil {
			log.Fatal("newton_y", zap.Error(err))
		}
		dy := new(uint256.Int)
		if xp[1].Gt(y) {
			dy.Sub(xp[1], y)
		}
		fmt.Printf("dy:            %s\n", decimal_math.ToDecimal(dy, 18))
	}

	if app.MetricsAddr == "" {
		return
	}
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(app.MetricsAddr, nil); err != nil && err != http.ErrServerClosed {
			log.Error("listen and serve", zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", app.MetricsAddr))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
