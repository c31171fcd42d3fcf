package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Risk evaluation metrics
	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_engine_evaluations_total",
			Help: "Total number of risk evaluations",
		},
		[]string{"symbol", "outcome"},
	)

	capsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_engine_caps_total",
			Help: "Total number of capped evaluations by reason",
		},
		[]string{"reason"},
	)

	appliedRiskPct = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "risk_engine_applied_risk_pct",
			Help: "Risk percentage applied by the last evaluation",
		},
		[]string{"symbol"},
	)

	// Regime metrics
	regimeConfidence = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "risk_engine_regime_confidence",
			Help: "Confidence of the last regime classification",
		},
		[]string{"regime"},
	)

	// Simulation metrics
	suggestedRiskPct = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "risk_engine_suggested_risk_pct",
			Help: "Risk percentage suggested by the drawdown simulator",
		},
	)

	simulationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "risk_engine_simulation_duration_seconds",
			Help:    "Duration of drawdown resampling runs",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(evaluationsTotal)
	prometheus.MustRegister(capsTotal)
	prometheus.MustRegister(appliedRiskPct)
	prometheus.MustRegister(regimeConfidence)
	prometheus.MustRegister(suggestedRiskPct)
	prometheus.MustRegister(simulationDuration)
}

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordEvaluation records the outcome of a risk evaluation
func RecordEvaluation(symbol string, capped bool, reason string, riskPct float64) {
	outcome := "sized"
	if capped {
		outcome = "capped"
		if reason != "" {
			capsTotal.WithLabelValues(reason).Inc()
		}
	}
	evaluationsTotal.WithLabelValues(symbol, outcome).Inc()
	appliedRiskPct.WithLabelValues(symbol).Set(riskPct)
}

// UpdateRegime updates the regime classification gauge
func UpdateRegime(regime string, confidence float64) {
	regimeConfidence.WithLabelValues(regime).Set(confidence)
}

// UpdateSuggestedRisk updates the simulator suggestion gauge
func UpdateSuggestedRisk(riskPct float64) {
	suggestedRiskPct.Set(riskPct)
}

// ObserveSimulationDuration records how long a resampling run took
func ObserveSimulationDuration(d time.Duration) {
	simulationDuration.Observe(d.Seconds())
}
