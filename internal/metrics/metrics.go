// Package metrics exposes countdown activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"birthday-countdown/internal/domain"
)

const namespace = "birthday_countdown"

// Recorder observes countdown events and updates its collectors.
type Recorder struct {
	registry *prometheus.Registry

	ticks       prometheus.Counter
	expirations prometheus.Counter
	arms        prometheus.Counter
	rejections  prometheus.Counter
	remaining   prometheus.Gauge
	running     prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry, including Go runtime collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Number of remaining-time evaluations.",
		}),
		expirations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expirations_total",
			Help:      "Number of countdowns that reached zero.",
		}),
		arms: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "arms_total",
			Help:      "Number of times a target date was set.",
		}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Number of start requests without a target date.",
		}),
		remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "remaining_seconds",
			Help:      "Seconds left on the current countdown.",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running",
			Help:      "1 while a countdown is scheduled.",
		}),
	}

	r.registry.MustRegister(
		r.ticks,
		r.expirations,
		r.arms,
		r.rejections,
		r.remaining,
		r.running,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Observe implements domain.Observer.
func (r *Recorder) Observe(ev domain.Event) {
	switch ev.Type {
	case domain.EventArmed:
		r.arms.Inc()
	case domain.EventTick:
		r.ticks.Inc()
	case domain.EventExpired:
		r.expirations.Inc()
	case domain.EventRejected:
		r.rejections.Inc()
	}
	r.remaining.Set(ev.Snapshot.Remaining.Duration().Seconds())
	if ev.Snapshot.Running {
		r.running.Set(1)
	} else {
		r.running.Set(0)
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

var _ domain.Observer = (*Recorder)(nil)
