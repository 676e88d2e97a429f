package analytics

import (
	"context"
	"log/slog"
	"time"

	"nycsales/pkg/contracts/domain"
)

// Report bundles every aggregate computed over one dataset.
type Report struct {
	PeriodShares           PeriodShareTable                 `json:"period_shares"`
	YearBuilt              []YearBuiltRow                   `json:"year_built"`
	PricePerSqFt           []PricePerSqFtCell               `json:"price_per_sqft"`
	CategoryMean           []CategoryMeanRow                `json:"category_mean"`
	MarketCapBorough       []MarketCapRow[domain.Borough]   `json:"market_cap_borough"`
	MarketCapBoroughPeriod []MarketCapRow[BoroughPeriodKey] `json:"market_cap_borough_period"`
	MarketCapCategory      []MarketCapRow[CategoryKey]      `json:"market_cap_category"`
	Transactions           []TransactionRow                 `json:"transactions"`
}

// Aggregator computes the full Report. Each aggregate is an independent pure
// function of the frame; the Aggregator only adds logging.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger.With("component", "aggregator")}
}

// Aggregate runs every aggregate over f
func (a *Aggregator) Aggregate(ctx context.Context, f Frame) *Report {
	start := time.Now()

	report := &Report{
		PeriodShares:           PeriodShares(f),
		YearBuilt:              YearBuiltDistribution(f),
		PricePerSqFt:           PricePerSqFt(f),
		CategoryMean:           CategoryMeanPrice(f),
		MarketCapBorough:       MarketCapByBorough(f),
		MarketCapBoroughPeriod: MarketCapByBoroughPeriod(f),
		MarketCapCategory:      MarketCapByCategory(f),
		Transactions:           TransactionCounts(f),
	}

	a.logger.InfoContext(ctx, "aggregates computed",
		slog.Int("rows", f.Len()),
		slog.Int("tax_class_2_rows", report.PeriodShares.Denominator),
		slog.Int("year_built_groups", len(report.YearBuilt)),
		slog.Int("category_groups", len(report.CategoryMean)),
		slog.Int("transaction_groups", len(report.Transactions)),
		slog.Duration("duration", time.Since(start)))

	return report
}
