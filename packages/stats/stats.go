// Package stats aggregates step timing metrics for a run using an HDR
// histogram, giving percentile latencies across all executed steps.
package stats

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector records step durations. It is safe for concurrent use so
// stories running in parallel can share one collector.
type Collector struct {
	mu sync.Mutex

	// latency histogram in microseconds, 1us to 60s, 3 significant digits
	histogram *hdrhistogram.Histogram
	total     int64
	errors    int64
	slowest   string
	slowestD  time.Duration
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{
		histogram: hdrhistogram.New(1, 60_000_000, 3),
	}
}

// Record adds one step execution. It matches the steps package Observer
// signature.
func (c *Collector) Record(step string, d time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total++
	if err != nil {
		c.errors++
	}
	_ = c.histogram.RecordValue(d.Microseconds())
	if d > c.slowestD {
		c.slowestD = d
		c.slowest = step
	}
}

// Snapshot is a point-in-time view of the collected metrics.
type Snapshot struct {
	Total   int64
	Errors  int64
	P50     time.Duration
	P95     time.Duration
	P99     time.Duration
	Max     time.Duration
	Slowest string
}

// Snapshot returns the current metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return Snapshot{
		Total:   c.total,
		Errors:  c.errors,
		P50:     us(c.histogram.ValueAtQuantile(50)),
		P95:     us(c.histogram.ValueAtQuantile(95)),
		P99:     us(c.histogram.ValueAtQuantile(99)),
		Max:     us(c.histogram.Max()),
		Slowest: c.slowest,
	}
}

// Print writes a compact timing summary.
func (c *Collector) Print(w io.Writer) {
	s := c.Snapshot()
	if s.Total == 0 {
		return
	}
	fmt.Fprintf(w, "Step timings: p50=%s p95=%s p99=%s max=%s (%d steps)\n",
		s.P50, s.P95, s.P99, s.Max, s.Total)
	if s.Slowest != "" {
		fmt.Fprintf(w, "  slowest: %s (%s)\n", s.Slowest, s.Max)
	}
}
