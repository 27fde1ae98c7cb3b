package spargo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordIngest is called at the coordinator after reading the input
	// files. entries is the number of coordinate entries ingested,
	// duration is the total time taken, err is nil if successful.
	RecordIngest(entries int, duration time.Duration, err error)

	// RecordDistribute is called at the coordinator after scattering
	// entries. workers is the group size.
	RecordDistribute(workers int, duration time.Duration, err error)

	// RecordMultiply is called at every rank after the local multiply.
	// rows is the local row-block size.
	RecordMultiply(rows int, duration time.Duration)

	// RecordGather is called at the coordinator after assembling the
	// result. length is the global result length.
	RecordGather(length int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIngest(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordDistribute(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordMultiply(int, time.Duration)          {}
func (NoopMetricsCollector) RecordGather(int, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	IngestCount          atomic.Int64
	IngestEntries        atomic.Int64
	IngestErrors         atomic.Int64
	IngestTotalNanos     atomic.Int64
	DistributeCount      atomic.Int64
	DistributeErrors     atomic.Int64
	DistributeTotalNanos atomic.Int64
	MultiplyCount        atomic.Int64
	MultiplyRows         atomic.Int64
	MultiplyTotalNanos   atomic.Int64
	GatherCount          atomic.Int64
	GatherErrors         atomic.Int64
	GatherTotalNanos     atomic.Int64
}

// RecordIngest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIngest(entries int, duration time.Duration, err error) {
	b.IngestCount.Add(1)
	b.IngestEntries.Add(int64(entries))
	b.IngestTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.IngestErrors.Add(1)
	}
}

// RecordDistribute implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDistribute(workers int, duration time.Duration, err error) {
	b.DistributeCount.Add(1)
	b.DistributeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DistributeErrors.Add(1)
	}
}

// RecordMultiply implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMultiply(rows int, duration time.Duration) {
	b.MultiplyCount.Add(1)
	b.MultiplyRows.Add(int64(rows))
	b.MultiplyTotalNanos.Add(duration.Nanoseconds())
}

// RecordGather implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGather(length int, duration time.Duration, err error) {
	b.GatherCount.Add(1)
	b.GatherTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GatherErrors.Add(1)
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector counters.
type BasicMetricsStats struct {
	IngestCount      int64
	IngestEntries    int64
	IngestErrors     int64
	DistributeCount  int64
	DistributeErrors int64
	MultiplyCount    int64
	MultiplyRows     int64
	GatherCount      int64
	GatherErrors     int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		IngestCount:      b.IngestCount.Load(),
		IngestEntries:    b.IngestEntries.Load(),
		IngestErrors:     b.IngestErrors.Load(),
		DistributeCount:  b.DistributeCount.Load(),
		DistributeErrors: b.DistributeErrors.Load(),
		MultiplyCount:    b.MultiplyCount.Load(),
		MultiplyRows:     b.MultiplyRows.Load(),
		GatherCount:      b.GatherCount.Load(),
		GatherErrors:     b.GatherErrors.Load(),
	}
}
