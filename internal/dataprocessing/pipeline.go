package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"nycsales/internal/files"
	"nycsales/internal/infrastructure"
	"nycsales/pkg/contracts/domain"
)

// ProgressFunc is called after each source finishes loading.
// Calls may come from several goroutines.
type ProgressFunc func(done, total int, src domain.Source)

// PipelineOptions configures a Pipeline. Zero values are usable.
type PipelineOptions struct {
	Concurrency int // parallel source loads, default 1
	Sheet       string
	Offsets     HeaderOffsetResolver
	Tracer      trace.Tracer
	Metrics     *infrastructure.PipelineMetrics
	Progress    ProgressFunc
}

// SourceSummary reports row counts for one source.
type SourceSummary struct {
	Source         domain.Source `json:"source"`
	Path           string        `json:"path"`
	RowsRead       int           `json:"rows_read"`
	RowsNormalized int           `json:"rows_normalized"`
	RowsKept       int           `json:"rows_kept"`
	Duration       time.Duration `json:"duration"`
}

// Result is the outcome of a pipeline run.
type Result struct {
	RunID     string          `json:"run_id"`
	Dataset   *Dataset        `json:"-"`
	Sources   []SourceSummary `json:"sources"`
	Drops     DropStats       `json:"drops"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
}

// Pipeline runs load, normalize, merge and enrich over a set of sources.
type Pipeline struct {
	logger     *slog.Logger
	opts       PipelineOptions
	loader     *Loader
	normalizer *Normalizer
	merger     *Merger
	enricher   *Enricher
}

// NewPipeline creates a pipeline
func NewPipeline(logger *slog.Logger, opts PipelineOptions) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Tracer == nil {
		opts.Tracer = tracenoop.NewTracerProvider().Tracer("nycsales")
	}

	return &Pipeline{
		logger:     logger.With("component", "pipeline"),
		opts:       opts,
		loader:     NewLoader(logger, opts.Offsets, opts.Sheet),
		normalizer: NewNormalizer(logger),
		merger:     NewMerger(logger),
		enricher:   NewEnricher(logger),
	}
}

// Run loads every located source and returns the analysis-ready dataset.
// Any load or schema failure aborts the run; there is no partial result.
func (p *Pipeline) Run(ctx context.Context, sources []files.Located) (*Result, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	started := time.Now()

	ctx, span := p.opts.Tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.Int("sources", len(sources))))
	defer span.End()

	p.logger.InfoContext(ctx, "pipeline started",
		slog.Int("sources", len(sources)),
		slog.Int("concurrency", p.opts.Concurrency))

	tables, err := p.loadAll(ctx, sources)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(p.logger, err).ErrorContext(ctx, "pipeline failed")
		return nil, err
	}

	drops := DropStats{}
	normalized := make([]*NormalizedTable, len(tables))
	for i, t := range tables {
		drops.Merge(t.Drops)
		normalized[i] = t.NormalizedTable
	}

	stageStart := time.Now()
	_, mergeSpan := p.opts.Tracer.Start(ctx, "pipeline.merge")
	merged := p.merger.Merge(ctx, normalized)
	mergeSpan.SetAttributes(attribute.Int("rows", len(merged)))
	mergeSpan.End()
	p.opts.Metrics.RecordStage(ctx, "merge", time.Since(stageStart))

	stageStart = time.Now()
	_, enrichSpan := p.opts.Tracer.Start(ctx, "pipeline.enrich")
	dataset, finalDrops := p.enricher.Enrich(ctx, merged)
	enrichSpan.SetAttributes(attribute.Int("rows", dataset.Len()))
	enrichSpan.End()
	p.opts.Metrics.RecordStage(ctx, "enrich", time.Since(stageStart))
	drops.Merge(finalDrops)

	kept := dataset.CountBySource()
	summaries := make([]SourceSummary, len(tables))
	for i, t := range tables {
		summaries[i] = SourceSummary{
			Source:         t.Source,
			Path:           t.Path,
			RowsRead:       t.RowsRead,
			RowsNormalized: len(t.Records),
			RowsKept:       kept[t.Source],
			Duration:       t.duration,
		}
	}

	for reason, n := range drops {
		p.opts.Metrics.RecordDropped(ctx, string(reason), n)
	}
	p.opts.Metrics.RecordKept(ctx, dataset.Len())
	p.opts.Metrics.RecordRuntime(ctx)

	result := &Result{
		RunID:     infrastructure.GetRunID(ctx),
		Dataset:   dataset,
		Sources:   summaries,
		Drops:     drops,
		StartedAt: started,
		Duration:  time.Since(started),
	}

	span.SetAttributes(
		attribute.Int("rows_kept", dataset.Len()),
		attribute.Int("rows_dropped", drops.Total()))

	p.logger.InfoContext(ctx, "pipeline completed",
		slog.Int("rows_kept", dataset.Len()),
		slog.Int("rows_dropped", drops.Total()),
		slog.Any("dropped", drops),
		slog.Duration("duration", result.Duration))

	return result, nil
}

// loadedTable carries the load duration alongside the normalized table
type loadedTable struct {
	*NormalizedTable
	duration time.Duration
}

// loadAll loads and normalizes sources in parallel. Results keep input order
// regardless of completion order.
func (p *Pipeline) loadAll(ctx context.Context, sources []files.Located) ([]loadedTable, error) {
	results := make([]loadedTable, len(sources))
	var done atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i, located := range sources {
		i, located := i, located
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			table, elapsed, err := p.loadOne(gctx, located)
			if err != nil {
				return err
			}
			results[i] = loadedTable{NormalizedTable: table, duration: elapsed}

			n := int(done.Add(1))
			if p.opts.Progress != nil {
				p.opts.Progress(n, len(sources), located.Source)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) loadOne(ctx context.Context, located files.Located) (*NormalizedTable, time.Duration, error) {
	src := located.Source
	start := time.Now()

	ctx, span := p.opts.Tracer.Start(ctx, "pipeline.load_source",
		trace.WithAttributes(
			attribute.Int("source.year", src.Year),
			attribute.String("source.borough", src.Borough.String()),
			attribute.String("source.path", located.File.Path)))
	defer span.End()

	table, err := p.loader.Load(ctx, src, located.File.Path)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, 0, err
	}

	normalized, err := p.normalizer.Normalize(ctx, table)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, 0, fmt.Errorf("normalize %s: %w", src, err)
	}

	elapsed := time.Since(start)
	span.SetAttributes(
		attribute.Int("rows_read", normalized.RowsRead),
		attribute.Int("rows_normalized", len(normalized.Records)))
	p.opts.Metrics.RecordSourceLoaded(ctx, src.String(), normalized.RowsRead, elapsed)

	p.logger.InfoContext(ctx, "source processed",
		slog.String("source", src.String()),
		slog.Int("rows_read", normalized.RowsRead),
		slog.Int("rows_normalized", len(normalized.Records)),
		slog.Duration("duration", elapsed))

	return normalized, elapsed, nil
}
