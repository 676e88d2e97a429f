package dataprocessing

import (
	"context"
	"log/slog"

	"nycsales/pkg/contracts/domain"
)

// Enricher derives sale year, period and borough name, then applies the
// final analysis filter.
type Enricher struct {
	logger *slog.Logger
}

// NewEnricher creates an enricher
func NewEnricher(logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{logger: logger.With("component", "enricher")}
}

// Enrich returns the analysis-ready dataset and the rows the final filter removed.
// Rows without a period are kept: only apartment number, borough, year built
// and the sale price decide membership. A price <= 0, negative included, is
// dropped as DropZeroSalePrice.
func (e *Enricher) Enrich(ctx context.Context, records []domain.SaleRecord) (*Dataset, DropStats) {
	drops := DropStats{}
	kept := make([]domain.SaleRecord, 0, len(records))

	for _, rec := range records {
		rec = Derive(rec)
		if reason, drop := finalFilter(rec); drop {
			drops.Add(reason, 1)
			continue
		}
		kept = append(kept, rec)
	}

	e.logger.DebugContext(ctx, "records enriched",
		slog.Int("rows_in", len(records)),
		slog.Int("rows_kept", len(kept)),
		slog.Any("dropped", drops))

	return NewDataset(kept), drops
}

// Derive fills SaleYear, Period and Borough from SaleDate and BoroughCode.
// It is a pure function of its input.
func Derive(rec domain.SaleRecord) domain.SaleRecord {
	rec = rec.Clone()

	rec.SaleYear = nil
	rec.Period = ""
	if rec.SaleDate != nil {
		year := rec.SaleDate.Year()
		rec.SaleYear = &year
		if p, ok := domain.PeriodForYear(year); ok {
			rec.Period = p
		}
	}

	rec.Borough = ""
	if b, ok := domain.BoroughFromCode(rec.BoroughCode); ok {
		rec.Borough = b
	}
	return rec
}

// finalFilter checks in order and reports the first failing rule. Negative
// sale prices fall under DropZeroSalePrice.
func finalFilter(rec domain.SaleRecord) (DropReason, bool) {
	switch {
	case rec.ApartmentNumber == nil:
		return DropMissingApartmentNumber, true
	case !rec.Borough.Valid():
		return DropUnmappedBorough, true
	case rec.YearBuilt == nil:
		return DropMissingYearBuilt, true
	case rec.SalePrice <= 0:
		return DropZeroSalePrice, true
	}
	return "", false
}
