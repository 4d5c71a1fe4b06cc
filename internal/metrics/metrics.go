// Package metrics exposes resolver dispatch outcomes to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/toyz/axonresolve/pkg/resolve"
)

const (
	namespace = "axonresolve"

	markerLabelName  = "marker"
	outcomeLabelName = "outcome"
)

// buckets is in milliseconds: 0.05ms .. ~100ms
var buckets = prometheus.ExponentialBuckets(0.05, 2, 12)

// Collector counts and times resolver dispatches. It implements
// resolve.Observer.
type Collector struct {
	registry    *prometheus.Registry
	resolutions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	resolvers   prometheus.Gauge
}

var _ resolve.Observer = (*Collector)(nil)

// NewCollector registers the resolver metrics plus the Go and process
// collectors on a fresh registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Count of argument resolutions by marker and outcome.",
			}, []string{markerLabelName, outcomeLabelName}),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resolution_latency_ms",
				Help:      "Time spent inside a resolver, in milliseconds.",
				Buckets:   buckets,
			}, []string{markerLabelName}),
		resolvers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "registered_resolvers",
				Help:      "Number of marker to resolver entries in the registry.",
			}),
	}

	c.registry.MustRegister(
		c.resolutions,
		c.latency,
		c.resolvers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveResolution implements resolve.Observer
func (c *Collector) ObserveResolution(marker resolve.MarkerType, outcome resolve.Outcome, elapsed time.Duration) {
	name := resolve.ShortName(marker)
	c.resolutions.WithLabelValues(name, string(outcome)).Inc()
	c.latency.WithLabelValues(name).Observe(float64(elapsed) / float64(time.Millisecond))
}

// SetRegistry records the size of the resolver registry
func (c *Collector) SetRegistry(reg *resolve.Registry) {
	c.resolvers.Set(float64(reg.Len()))
}

// Gatherer exposes the registry the collector writes to
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// Handler serves the metrics in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.Gatherer(), promhttp.HandlerOpts{Registry: c.registry})
}
