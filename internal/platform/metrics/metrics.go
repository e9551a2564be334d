package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vetcare"

// Metrics agrupa los collectors del scheduler/dispatcher sobre un registry propio.
type Metrics struct {
	registry *prometheus.Registry

	bucketsClassified *prometheus.CounterVec
	reminders         *prometheus.CounterVec
	animalErrors      prometheus.Counter
	runDuration       prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)

	m := &Metrics{
		registry: reg,
		bucketsClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "buckets_classified_total",
			Help:      "Activities placed in a notification bucket by the dispatcher.",
		}, []string{"bucket"}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_total",
			Help:      "Reminders recorded in the ledger, by window and outcome.",
		}, []string{"window", "outcome"}),
		animalErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_animal_errors_total",
			Help:      "Animals skipped in a dispatch run because of an error.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_run_duration_seconds",
			Help:      "Wall time of a dispatch run.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
	reg.MustRegister(m.bucketsClassified, m.reminders, m.animalErrors, m.runDuration)
	return m
}

func (m *Metrics) BucketClassified(bucket string) {
	m.bucketsClassified.WithLabelValues(bucket).Inc()
}

func (m *Metrics) ReminderOutcome(window, outcome string) {
	m.reminders.WithLabelValues(window, outcome).Inc()
}

func (m *Metrics) AnimalError() {
	m.animalErrors.Inc()
}

func (m *Metrics) RunDuration(d time.Duration) {
	m.runDuration.Observe(d.Seconds())
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
