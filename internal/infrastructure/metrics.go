package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded during a pipeline run
type PipelineMetrics struct {
	sourcesLoaded metric.Int64Counter
	rowsRead      metric.Int64Counter
	rowsKept      metric.Int64Counter
	rowsDropped   metric.Int64Counter
	loadDuration  metric.Float64Histogram
	stageDuration metric.Float64Histogram
	heapAlloc     metric.Int64Gauge
	goroutines    metric.Int64Gauge
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	sourcesLoaded, err := meter.Int64Counter(
		"nycsales_sources_loaded_total",
		metric.WithDescription("Number of source workbooks loaded"),
	)
	if err != nil {
		return nil, err
	}

	rowsRead, err := meter.Int64Counter(
		"nycsales_rows_read_total",
		metric.WithDescription("Number of data rows read from source workbooks"),
	)
	if err != nil {
		return nil, err
	}

	rowsKept, err := meter.Int64Counter(
		"nycsales_rows_kept_total",
		metric.WithDescription("Number of rows in the final analysis-ready table"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"nycsales_rows_dropped_total",
		metric.WithDescription("Number of rows dropped, by reason"),
	)
	if err != nil {
		return nil, err
	}

	loadDuration, err := meter.Float64Histogram(
		"nycsales_source_load_duration_seconds",
		metric.WithDescription("Time to read and normalize one source workbook"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"nycsales_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64Gauge(
		"nycsales_heap_alloc_bytes",
		metric.WithDescription("Heap bytes allocated at the end of a run"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	goroutines, err := meter.Int64Gauge(
		"nycsales_goroutines",
		metric.WithDescription("Number of goroutines at the end of a run"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		sourcesLoaded: sourcesLoaded,
		rowsRead:      rowsRead,
		rowsKept:      rowsKept,
		rowsDropped:   rowsDropped,
		loadDuration:  loadDuration,
		stageDuration: stageDuration,
		heapAlloc:     heapAlloc,
		goroutines:    goroutines,
	}, nil
}

// RecordSourceLoaded records one loaded source. Safe on a nil receiver.
func (m *PipelineMetrics) RecordSourceLoaded(ctx context.Context, source string, rows int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("source", source))
	m.sourcesLoaded.Add(ctx, 1, attrs)
	m.rowsRead.Add(ctx, int64(rows), attrs)
	m.loadDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordDropped records rows dropped for a reason
func (m *PipelineMetrics) RecordDropped(ctx context.Context, reason string, rows int) {
	if m == nil || rows == 0 {
		return
	}
	m.rowsDropped.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordKept records the size of the final table
func (m *PipelineMetrics) RecordKept(ctx context.Context, rows int) {
	if m == nil {
		return
	}
	m.rowsKept.Add(ctx, int64(rows))
}

// RecordStage records how long a pipeline stage took
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordRuntime snapshots heap and goroutine counts
func (m *PipelineMetrics) RecordRuntime(ctx context.Context) {
	if m == nil {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.heapAlloc.Record(ctx, int64(ms.HeapAlloc))
	m.goroutines.Record(ctx, int64(runtime.NumGoroutine()))
}
