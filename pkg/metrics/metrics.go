// Package metrics exposes Prometheus collectors for the scoring service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/toyinlola/housingrisk/pkg/interfaces"
)

const namespace = "housingrisk"

// Recorder holds the service collectors in a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	assessments *prometheus.CounterVec
	fallbacks   prometheus.Counter
	invalid     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New creates a Recorder with Go runtime and process collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Assessments returned, by strategy and risk level.",
		}, []string{"strategy", "risk"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_fallbacks_total",
			Help:      "Model inferences that fell back to the deterministic score.",
		}),
		invalid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_inputs_total",
			Help:      "Records rejected as invalid input, by variant.",
		}, []string{"variant"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_duration_seconds",
			Help:      "Time spent scoring one record.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}, []string{"strategy"}),
	}

	r.registry.MustRegister(
		r.assessments,
		r.fallbacks,
		r.invalid,
		r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveAssessment counts a returned assessment and its latency.
func (r *Recorder) ObserveAssessment(strategy string, risk interfaces.RiskLevel, elapsed time.Duration) {
	r.assessments.WithLabelValues(strategy, string(risk)).Inc()
	r.duration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// ObserveFallback counts an inference fallback.
func (r *Recorder) ObserveFallback() { r.fallbacks.Inc() }

// ObserveInvalid counts a rejected record.
func (r *Recorder) ObserveInvalid(variant interfaces.Variant) {
	r.invalid.WithLabelValues(string(variant)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
