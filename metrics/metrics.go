// Package metrics exports object tracker activity as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wippyai/objtrack/diag"
	"github.com/wippyai/objtrack/registry"
)

const namespace = "objtrack"

// Destruction reasons.
const (
	ReasonDestroyed = "destroyed"
	ReasonTeardown  = "teardown"
)

// Collector counts live objects, lifecycle events and diagnostics. It
// observes a registry and receives diagnostics as a diag.Reporter.
type Collector struct {
	live        *prometheus.GaugeVec
	created     *prometheus.CounterVec
	destroyed   *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
}

// New creates an unregistered collector.
func New() *Collector {
	return &Collector{
		live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_objects",
			Help:      "Objects currently tracked, by handle type.",
		}, []string{"type"}),
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objects_created_total",
			Help:      "Objects recorded as created, by handle type.",
		}, []string{"type"}),
		destroyed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objects_destroyed_total",
			Help:      "Objects removed from tracking, by handle type and reason.",
		}, []string{"type", "reason"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Diagnostics reported, by kind and rule.",
		}, []string{"kind", "rule"}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.live.Describe(ch)
	c.created.Describe(ch)
	c.destroyed.Describe(ch)
	c.diagnostics.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.live.Collect(ch)
	c.created.Collect(ch)
	c.destroyed.Collect(ch)
	c.diagnostics.Collect(ch)
}

// OnRegistryEvent implements registry.Observer.
func (c *Collector) OnRegistryEvent(ev registry.Event) {
	typ := ev.Record.Type.String()
	switch ev.Type {
	case registry.EventInserted:
		c.live.WithLabelValues(typ).Inc()
		c.created.WithLabelValues(typ).Inc()
	case registry.EventRemoved:
		c.live.WithLabelValues(typ).Dec()
		c.destroyed.WithLabelValues(typ, ReasonDestroyed).Inc()
	case registry.EventEvicted:
		c.live.WithLabelValues(typ).Dec()
		c.destroyed.WithLabelValues(typ, ReasonTeardown).Inc()
	}
}

// Report implements diag.Reporter.
func (c *Collector) Report(d diag.Diagnostic) {
	c.diagnostics.WithLabelValues(string(d.Kind), d.RuleID).Inc()
}

var (
	_ prometheus.Collector = (*Collector)(nil)
	_ registry.Observer    = (*Collector)(nil)
	_ diag.Reporter        = (*Collector)(nil)
)
