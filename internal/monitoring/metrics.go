package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the beamformer. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	buildDuration *prometheus.HistogramVec // scan cache build time (by mode)
	cellsBuilt    *prometheus.CounterVec   // grid cells computed (by mode)
	saturations   *prometheus.CounterVec   // clamped coefficient fields (by kind: tx, rx, delay)
	asicCommands  *prometheus.CounterVec   // commands sent to the ASIC (by command)
	asicErrors    *prometheus.CounterVec   // failed ASIC commands (by command, cause)
	cacheSwaps    prometheus.Counter       // session cache replacements
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		buildDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "soundcath_scan_build_duration_seconds",
				Help:    "Time taken to build a scan cache",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"mode"}, // delays, coefficients
		),
		cellsBuilt: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soundcath_scan_cells_total",
				Help: "Total scan grid cells computed",
			},
			[]string{"mode"},
		),
		saturations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soundcath_saturations_total",
				Help: "Total coefficient or delay fields clamped to their register range",
			},
			[]string{"kind"},
		),
		asicCommands: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soundcath_asic_commands_total",
				Help: "Total commands sent to the ASIC",
			},
			[]string{"command"},
		),
		asicErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soundcath_asic_command_errors_total",
				Help: "Total ASIC commands that failed or reported an error status",
			},
			[]string{"command", "cause"}, // send, receive, status
		),
		cacheSwaps: f.NewCounter(
			prometheus.CounterOpts{
				Name: "soundcath_session_cache_swaps_total",
				Help: "Total scan caches installed into a session",
			},
		),
	}
}

// RecordBuild records a finished scan cache build.
func (m *Metrics) RecordBuild(mode string, cells int, d time.Duration) {
	if m == nil {
		return
	}
	m.buildDuration.WithLabelValues(mode).Observe(d.Seconds())
	m.cellsBuilt.WithLabelValues(mode).Add(float64(cells))
}

// RecordSaturations adds n clamped fields of the given kind.
func (m *Metrics) RecordSaturations(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.saturations.WithLabelValues(kind).Add(float64(n))
}

// RecordASICCommand records one ASIC command. An empty cause marks success,
// otherwise it names where the command failed.
func (m *Metrics) RecordASICCommand(command, cause string) {
	if m == nil {
		return
	}
	m.asicCommands.WithLabelValues(command).Inc()
	if cause != "" {
		m.asicErrors.WithLabelValues(command, cause).Inc()
	}
}

// RecordCacheSwap records a session cache replacement.
func (m *Metrics) RecordCacheSwap() {
	if m == nil {
		return
	}
	m.cacheSwaps.Inc()
}
