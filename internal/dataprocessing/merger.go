package dataprocessing

import (
	"context"
	"log/slog"

	"nycsales/pkg/contracts/domain"
)

// Merger concatenates per-source tables into one table.
type Merger struct {
	logger *slog.Logger
}

// NewMerger creates a merger
func NewMerger(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger.With("component", "merger")}
}

// Merge appends tables in the order given and assigns fresh row ids 0..n-1.
// Callers pass tables year-ascending, then in borough order.
func (m *Merger) Merge(ctx context.Context, tables []*NormalizedTable) []domain.SaleRecord {
	total := 0
	for _, t := range tables {
		total += len(t.Records)
	}

	merged := make([]domain.SaleRecord, 0, total)
	for _, t := range tables {
		for _, rec := range t.Records {
			rec = rec.Clone()
			rec.RowID = len(merged)
			merged = append(merged, rec)
		}
	}

	m.logger.DebugContext(ctx, "tables merged",
		slog.Int("tables", len(tables)),
		slog.Int("rows", len(merged)))

	return merged
}
