package prom

import (
	"time"

	"github.com/hupe1980/pointgraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var _ pointgraph.MetricsCollector = (*Collector)(nil)

// =============================================================================
// Prometheus Metrics for Units of Work
// =============================================================================

// Collector implements pointgraph.MetricsCollector on Prometheus vectors.
// Every metric carries a status label ("ok" or "error").
type Collector struct {
	units     *prometheus.CounterVec
	durations *prometheus.HistogramVec
	points    *prometheus.CounterVec
	edges     prometheus.Counter
	nodes     prometheus.Counter
	chains    prometheus.Counter
	successes prometheus.Counter
}

// NewCollector registers the metrics on reg under namespace.
// It panics when a metric is already registered, like promauto does.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	f := promauto.With(reg)

	return &Collector{
		// units counts units of work.
		// Labels: unit (connect, compile, chains, sample), status
		units: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_total",
			Help:      "Total units of work by stage and outcome",
		}, []string{"unit", "status"}),

		durations: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "unit_duration_seconds",
			Help:      "Duration of units of work",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"unit", "status"}),

		// points counts input points of successful units.
		// Labels: unit (connect, sample)
		points: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_total",
			Help:      "Total points processed by successful units",
		}, []string{"unit"}),

		edges: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_total",
			Help:      "Total edges emitted by connect units",
		}),

		nodes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_compiled_total",
			Help:      "Total nodes in compiled clusters",
		}),

		chains: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chains_total",
			Help:      "Total chains built",
		}),

		successes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sample_successes_total",
			Help:      "Total points that found a sample",
		}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (c *Collector) observe(unit string, d time.Duration, err error) {
	s := status(err)
	c.units.WithLabelValues(unit, s).Inc()
	c.durations.WithLabelValues(unit, s).Observe(d.Seconds())
}

// RecordConnect implements pointgraph.MetricsCollector.
func (c *Collector) RecordConnect(points, edges int, d time.Duration, err error) {
	c.observe("connect", d, err)
	if err == nil {
		c.points.WithLabelValues("connect").Add(float64(points))
		c.edges.Add(float64(edges))
	}
}

// RecordCompile implements pointgraph.MetricsCollector.
func (c *Collector) RecordCompile(nodes, _ int, d time.Duration, err error) {
	c.observe("compile", d, err)
	if err == nil {
		c.nodes.Add(float64(nodes))
	}
}

// RecordChains implements pointgraph.MetricsCollector.
func (c *Collector) RecordChains(chains int, d time.Duration, err error) {
	c.observe("chains", d, err)
	if err == nil {
		c.chains.Add(float64(chains))
	}
}

// RecordSample implements pointgraph.MetricsCollector.
func (c *Collector) RecordSample(points, successes int, d time.Duration, err error) {
	c.observe("sample", d, err)
	if err == nil {
		c.points.WithLabelValues("sample").Add(float64(points))
		c.successes.Add(float64(successes))
	}
}
