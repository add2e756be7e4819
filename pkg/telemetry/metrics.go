package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus instruments for the scheduling strategies.
// A nil *Metrics is valid and records nothing, so callers can thread it
// through unconditionally.
type Metrics struct {
	UnitsComputed  *prometheus.CounterVec
	UnitsFailed    *prometheus.CounterVec
	TasksStolen    *prometheus.CounterVec
	UnitDuration   *prometheus.HistogramVec
	RenderDuration *prometheus.HistogramVec
	Workers        *prometheus.GaugeVec
}

// NewMetrics creates a metrics set registered with the given registerer.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		UnitsComputed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fractile",
				Subsystem: "render",
				Name:      "units_computed_total",
				Help:      "Total number of units of work computed",
			},
			[]string{"strategy"},
		),

		UnitsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fractile",
				Subsystem: "render",
				Name:      "units_failed_total",
				Help:      "Total number of units of work that failed",
			},
			[]string{"strategy"},
		),

		TasksStolen: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fractile",
				Subsystem: "stealing",
				Name:      "tasks_stolen_total",
				Help:      "Total number of tasks taken from another worker's queue",
			},
			[]string{"strategy"},
		),

		UnitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fractile",
				Subsystem: "render",
				Name:      "unit_duration_seconds",
				Help:      "Time spent computing individual units of work",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),

		RenderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fractile",
				Subsystem: "render",
				Name:      "duration_seconds",
				Help:      "Wall time of complete renders",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"strategy"},
		),

		Workers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "fractile",
				Subsystem: "render",
				Name:      "workers",
				Help:      "Worker count of the most recent render",
			},
			[]string{"strategy"},
		),
	}
}

// ObserveUnit records one computed unit. Safe on a nil receiver.
func (m *Metrics) ObserveUnit(strategy string, seconds float64, failed bool) {
	if m == nil {
		return
	}
	m.UnitsComputed.WithLabelValues(strategy).Inc()
	m.UnitDuration.WithLabelValues(strategy).Observe(seconds)
	if failed {
		m.UnitsFailed.WithLabelValues(strategy).Inc()
	}
}

// ObserveSteal records one successful steal. Safe on a nil receiver.
func (m *Metrics) ObserveSteal(strategy string) {
	if m == nil {
		return
	}
	m.TasksStolen.WithLabelValues(strategy).Inc()
}

// ObserveRender records one completed render. Safe on a nil receiver.
func (m *Metrics) ObserveRender(strategy string, seconds float64, workers int) {
	if m == nil {
		return
	}
	m.RenderDuration.WithLabelValues(strategy).Observe(seconds)
	m.Workers.WithLabelValues(strategy).Set(float64(workers))
}
