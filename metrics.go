package pointgraph

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives one record per completed unit of work.
//
// Example:
//
//	type PrometheusCollector struct {
//	    connectDuration prometheus.Histogram
//	    edges           prometheus.Counter
//	}
//
//	func (c *PrometheusCollector) RecordConnect(points, edges int, d time.Duration, err error) {
//	    c.connectDuration.Observe(d.Seconds())
//	    c.edges.Add(float64(edges))
//	}
type MetricsCollector interface {
	// RecordConnect records a connect unit: input points and emitted edges.
	RecordConnect(points, edges int, duration time.Duration, err error)

	// RecordCompile records a graph compilation.
	RecordCompile(nodes, edges int, duration time.Duration, err error)

	// RecordChains records a chain decomposition.
	RecordChains(chains int, duration time.Duration, err error)

	// RecordSample records a sampling unit.
	RecordSample(points, successes int, duration time.Duration, err error)
}

// NoopMetricsCollector discards every record.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordConnect(int, int, time.Duration, error) {}
func (n *NoopMetricsCollector) RecordCompile(int, int, time.Duration, error) {}
func (n *NoopMetricsCollector) RecordChains(int, time.Duration, error)       {}
func (n *NoopMetricsCollector) RecordSample(int, int, time.Duration, error)  {}

// BasicMetricsCollector keeps in-memory counters.
// Safe for concurrent use.
type BasicMetricsCollector struct {
	ConnectCount      atomic.Int64
	ConnectErrors     atomic.Int64
	ConnectTotalNanos atomic.Int64
	PointsConnected   atomic.Int64
	EdgesEmitted      atomic.Int64

	CompileCount  atomic.Int64
	CompileErrors atomic.Int64
	NodesCompiled atomic.Int64

	ChainCount    atomic.Int64
	ChainErrors   atomic.Int64
	ChainsEmitted atomic.Int64

	SampleCount      atomic.Int64
	SampleErrors     atomic.Int64
	SampleTotalNanos atomic.Int64
	PointsSampled    atomic.Int64
	SampleSuccesses  atomic.Int64
}

// RecordConnect implements MetricsCollector.
func (b *BasicMetricsCollector) RecordConnect(points, edges int, duration time.Duration, err error) {
	b.ConnectCount.Add(1)
	b.ConnectTotalNanos.Add(int64(duration))
	if err != nil {
		b.ConnectErrors.Add(1)
		return
	}
	b.PointsConnected.Add(int64(points))
	b.EdgesEmitted.Add(int64(edges))
}

// RecordCompile implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompile(nodes, _ int, _ time.Duration, err error) {
	b.CompileCount.Add(1)
	if err != nil {
		b.CompileErrors.Add(1)
		return
	}
	b.NodesCompiled.Add(int64(nodes))
}

// RecordChains implements MetricsCollector.
func (b *BasicMetricsCollector) RecordChains(chains int, _ time.Duration, err error) {
	b.ChainCount.Add(1)
	if err != nil {
		b.ChainErrors.Add(1)
		return
	}
	b.ChainsEmitted.Add(int64(chains))
}

// RecordSample implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSample(points, successes int, duration time.Duration, err error) {
	b.SampleCount.Add(1)
	b.SampleTotalNanos.Add(int64(duration))
	if err != nil {
		b.SampleErrors.Add(1)
		return
	}
	b.PointsSampled.Add(int64(points))
	b.SampleSuccesses.Add(int64(successes))
}

// GetStats returns a snapshot of the counters.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	connectCount := b.ConnectCount.Load()
	sampleCount := b.SampleCount.Load()

	return BasicMetricsStats{
		ConnectCount:      connectCount,
		ConnectErrors:     b.ConnectErrors.Load(),
		ConnectAvgLatency: avgDuration(b.ConnectTotalNanos.Load(), connectCount),
		PointsConnected:   b.PointsConnected.Load(),
		EdgesEmitted:      b.EdgesEmitted.Load(),
		CompileCount:      b.CompileCount.Load(),
		CompileErrors:     b.CompileErrors.Load(),
		NodesCompiled:     b.NodesCompiled.Load(),
		ChainCount:        b.ChainCount.Load(),
		ChainErrors:       b.ChainErrors.Load(),
		ChainsEmitted:     b.ChainsEmitted.Load(),
		SampleCount:       sampleCount,
		SampleErrors:      b.SampleErrors.Load(),
		SampleAvgLatency:  avgDuration(b.SampleTotalNanos.Load(), sampleCount),
		PointsSampled:     b.PointsSampled.Load(),
		SampleSuccesses:   b.SampleSuccesses.Load(),
	}
}

// BasicMetricsStats is a point-in-time copy of BasicMetricsCollector.
type BasicMetricsStats struct {
	ConnectCount      int64
	ConnectErrors     int64
	ConnectAvgLatency time.Duration
	PointsConnected   int64
	EdgesEmitted      int64
	CompileCount      int64
	CompileErrors     int64
	NodesCompiled     int64
	ChainCount        int64
	ChainErrors       int64
	ChainsEmitted     int64
	SampleCount       int64
	SampleErrors      int64
	SampleAvgLatency  time.Duration
	PointsSampled     int64
	SampleSuccesses   int64
}

func avgDuration(totalNanos, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(totalNanos / count)
}
