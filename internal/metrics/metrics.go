// Package metrics exposes Prometheus instrumentation for backtest runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	tradesExecuted *prometheus.CounterVec
	runDuration    prometheus.Histogram
	finalPnL       *prometheus.GaugeVec
	universeBars   prometheus.Gauge
	universeAssets prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		tradesExecuted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "epymetheus_trades_executed_total",
				Help: "Total number of trades executed, by close reason",
			},
			[]string{"strategy", "close_reason"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "epymetheus_run_duration_seconds",
				Help:    "Backtest run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		finalPnL: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "epymetheus_final_pnl",
				Help: "Realized net P&L of the last completed run",
			},
			[]string{"strategy"},
		),

		universeBars: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "epymetheus_universe_bars",
				Help: "Number of bars in the loaded universe",
			},
		),

		universeAssets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "epymetheus_universe_assets",
				Help: "Number of assets in the loaded universe",
			},
		),
	}

	reg.MustRegister(r.tradesExecuted)
	reg.MustRegister(r.runDuration)
	reg.MustRegister(r.finalPnL)
	reg.MustRegister(r.universeBars)
	reg.MustRegister(r.universeAssets)

	return r
}

// TradeExecuted records one executed trade and its close reason.
func (r *Registry) TradeExecuted(strategy, closeReason string) {
	r.tradesExecuted.WithLabelValues(strategy, closeReason).Inc()
}

// ObserveRun records the duration of a completed run.
func (r *Registry) ObserveRun(d time.Duration) {
	r.runDuration.Observe(d.Seconds())
}

// SetFinalPnL records the realized P&L of a completed run.
func (r *Registry) SetFinalPnL(strategy string, pnl float64) {
	r.finalPnL.WithLabelValues(strategy).Set(pnl)
}

// SetUniverseSize records the dimensions of the loaded universe.
func (r *Registry) SetUniverseSize(bars, assets int) {
	r.universeBars.Set(float64(bars))
	r.universeAssets.Set(float64(assets))
}
