// Package metrics exposes attempt counters and latencies for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"saythenumber/shared/types"
)

const namespace = "saythenumber"

// Collector records every finished attempt
type Collector struct {
	registry *prometheus.Registry
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector creates a collector on its own registry, with the Go and
// process collectors attached
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Finished attempts by path, final state and error kind.",
		}, []string{"path", "state", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attempt_duration_seconds",
			Help:      "Time from submit to result for attempts that reached the service.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 3, 5, 10, 30},
		}, []string{"path"}),
	}
	c.registry.MustRegister(
		c.attempts,
		c.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// AttemptFinished counts the outcome. Attempts rejected locally are not timed.
func (c *Collector) AttemptFinished(outcome types.Outcome) {
	kind := ""
	if outcome.Error != nil {
		kind = string(outcome.Error.Kind)
	}
	c.attempts.WithLabelValues(string(outcome.Path), string(outcome.State), kind).Inc()

	switch types.ErrorKind(kind) {
	case types.KindEmptyInput, types.KindTooLarge:
		return
	}
	c.duration.WithLabelValues(string(outcome.Path)).Observe(outcome.Duration().Seconds())
}

// Registry returns the collector's registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
