package pool

import (
	"github.com/krazyTry/cryptoswap-go/shared"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	solverNewtonD = "newton_D"
	solverNewtonY = "newton_y"
)

// Metrics records solver iteration counts and failures.
type Metrics struct {
	iterations *prometheus.HistogramVec
	failures   *prometheus.CounterVec
}

// NewMetrics creates the solver metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cryptoswap_solver_iterations",
			Help:    "Newton iterations used per solver call",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 255},
		}, []string{"solver"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cryptoswap_solver_failures_total",
			Help: "Solver calls that returned an error, by failure kind",
		}, []string{"solver", "kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.iterations, m.failures)
	}
	return m
}

func (m *Metrics) observe(solver string, iterations int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.failures.WithLabelValues(solver, shared.Kind(err)).Inc()
		return
	}
	m.iterations.WithLabelValues(solver).Observe(float64(iterations))
}
