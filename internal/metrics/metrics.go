package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values for vegaedge_analyses_total.
const (
	OutcomeOK          = "ok"
	OutcomeNoResults   = "no_results"
	OutcomeEngineError = "engine_error"
	OutcomeInvalid     = "invalid"
)

// SideUnknown labels requests whose side is not Bullish or Bearish.
const SideUnknown = "unknown"

// Metrics owns its registry so several instances (tests, servers) never collide
// on the process-global default registerer. Methods are safe on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	analyses        *prometheus.CounterVec
	reportRows      prometheus.Histogram
	marginEstimates *prometheus.CounterVec
	engineDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		analyses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vegaedge_analyses_total",
			Help: "Analyses run, by strategy side and outcome.",
		}, []string{"side", "outcome"}),
		reportRows: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vegaedge_report_rows",
			Help:    "Trade rows extracted per parsed report.",
			Buckets: []float64{0, 1, 5, 10, 15, 25, 50, 100},
		}),
		marginEstimates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vegaedge_margin_estimates_total",
			Help: "Margin estimates, by availability.",
		}, []string{"available"}),
		engineDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vegaedge_engine_duration_seconds",
			Help:    "Time spent waiting for the report engine.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
		}, []string{"source"}),
	}
}

// ObserveAnalysis records one finished analysis.
func (m *Metrics) ObserveAnalysis(side, outcome string, rows int, marginAvailable bool) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(side, outcome).Inc()
	if outcome == OutcomeInvalid {
		return
	}
	m.reportRows.Observe(float64(rows))
	m.marginEstimates.WithLabelValues(strconv.FormatBool(marginAvailable)).Inc()
}

func (m *Metrics) ObserveEngine(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.engineDuration.WithLabelValues(source).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
