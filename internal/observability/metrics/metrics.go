package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics captures price calculation health signals.
type PricingMetrics struct {
	calculations       *prometheus.CounterVec
	calculationSeconds prometheus.Observer
	estimatorFallbacks *prometheus.CounterVec
	snapshotWrites     *prometheus.CounterVec
}

var (
	pricingMetricsOnce sync.Once
	pricingMetrics     *PricingMetrics
)

// Pricing returns the singleton pricing metrics registry.
func Pricing() *PricingMetrics {
	pricingMetricsOnce.Do(func() {
		pricingMetrics = newPricingMetrics(prometheus.DefaultRegisterer)
	})
	return pricingMetrics
}

func newPricingMetrics(registerer prometheus.Registerer) *PricingMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetrate_price_calculations_total",
		Help: "Price calculations by outcome.",
	}, []string{"outcome"})
	calculationSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fleetrate_price_calculation_duration_seconds",
		Help:    "Price calculation latency.",
		Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})
	estimatorFallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetrate_estimator_fallbacks_total",
		Help: "Estimator soft degradations to the neutral multiplier.",
	}, []string{"estimator"})
	snapshotWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetrate_pricing_snapshot_writes_total",
		Help: "Pricing snapshot writes by status.",
	}, []string{"status"})

	registerer.MustRegister(calculations, calculationSeconds, estimatorFallbacks, snapshotWrites)

	return &PricingMetrics{
		calculations:       calculations,
		calculationSeconds: calculationSeconds,
		estimatorFallbacks: estimatorFallbacks,
		snapshotWrites:     snapshotWrites,
	}
}

func (m *PricingMetrics) IncCalculation(outcome string) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(outcome).Inc()
}

func (m *PricingMetrics) ObserveCalculationDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.calculationSeconds.Observe(d.Seconds())
}

func (m *PricingMetrics) IncEstimatorFallback(estimator string) {
	if m == nil {
		return
	}
	m.estimatorFallbacks.WithLabelValues(estimator).Inc()
}

func (m *PricingMetrics) IncSnapshotWrite(status string) {
	if m == nil {
		return
	}
	m.snapshotWrites.WithLabelValues(status).Inc()
}
