package vamana

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics. Implement it to feed a
// monitoring system; lease-wait durations are the early-warning signal for
// an undersized pool.
type MetricsCollector interface {
	// RecordLeaseWait is called after each scratch lease acquisition with
	// the time spent blocked waiting for a free object.
	RecordLeaseWait(pool string, wait time.Duration)

	// RecordLoad is called after each bulk vector load.
	RecordLoad(points int, duration time.Duration, err error)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLeaseWait(string, time.Duration) {}
func (NoopMetricsCollector) RecordLoad(int, time.Duration, error)  {}

// BasicMetricsCollector keeps simple in-memory counters. Useful for tests
// and debugging without an external monitoring stack.
type BasicMetricsCollector struct {
	LeaseCount     atomic.Int64
	LeaseWaitNanos atomic.Int64
	LoadCount      atomic.Int64
	LoadErrors     atomic.Int64
	LoadedPoints   atomic.Int64
}

func (c *BasicMetricsCollector) RecordLeaseWait(pool string, wait time.Duration) {
	c.LeaseCount.Add(1)
	c.LeaseWaitNanos.Add(int64(wait))
}

func (c *BasicMetricsCollector) RecordLoad(points int, duration time.Duration, err error) {
	c.LoadCount.Add(1)
	if err != nil {
		c.LoadErrors.Add(1)
		return
	}
	c.LoadedPoints.Add(int64(points))
}

// AvgLeaseWait returns the mean time spent blocked on lease acquisition.
func (c *BasicMetricsCollector) AvgLeaseWait() time.Duration {
	n := c.LeaseCount.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(c.LeaseWaitNanos.Load() / n)
}
