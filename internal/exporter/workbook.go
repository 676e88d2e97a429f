package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"nycsales/internal/analytics"
	"nycsales/internal/config"
	"nycsales/internal/dataprocessing"
	apperrors "nycsales/internal/errors"
	"nycsales/pkg/contracts/domain"
)

// Sheet names of the summary workbook, in tab order
const (
	SheetPeriodShares           = "PeriodShares"
	SheetYearBuilt              = "YearBuilt"
	SheetPricePerSqFt           = "PricePerSqFt"
	SheetCategoryMean           = "CategoryMean"
	SheetMarketCapBorough       = "MarketCapBorough"
	SheetMarketCapBoroughPeriod = "MarketCapBoroughPeriod"
	SheetMarketCapCategory      = "MarketCapCategory"
	SheetTransactions           = "Transactions"
	SheetDrops                  = "Drops"
	SheetSources                = "Sources"
)

// SummarySheets lists every sheet the workbook carries
var SummarySheets = []string{
	SheetPeriodShares,
	SheetYearBuilt,
	SheetPricePerSqFt,
	SheetCategoryMean,
	SheetMarketCapBorough,
	SheetMarketCapBoroughPeriod,
	SheetMarketCapCategory,
	SheetTransactions,
	SheetDrops,
	SheetSources,
}

// WorkbookExporter writes the aggregates to an xlsx workbook, one sheet per table.
type WorkbookExporter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter
func NewWorkbookExporter(logger *slog.Logger, paths *config.Paths) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{paths: paths, logger: logger.With("component", "workbook_exporter")}
}

// Export builds the workbook and saves it to the summary path
func (e *WorkbookExporter) Export(ctx context.Context, report *analytics.Report, result *dataprocessing.Result) (string, error) {
	path := e.paths.SummaryWorkbook

	f, err := BuildWorkbook(report, result)
	if err != nil {
		return "", apperrors.NewExportError("failed to build summary workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewExportError("failed to create summary directory", err).
			WithContext("path", path)
	}
	if err := f.SaveAs(path); err != nil {
		return "", apperrors.NewExportError("failed to save summary workbook", err).
			WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "summary workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(SummarySheets)))
	return path, nil
}

// BuildWorkbook renders the report into a new in-memory workbook.
// result may be nil, leaving the Drops and Sources sheets with headers only.
func BuildWorkbook(report *analytics.Report, result *dataprocessing.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// excelize starts every file with Sheet1
	if err := f.SetSheetName("Sheet1", SummarySheets[0]); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename first sheet: %w", err)
	}
	for _, name := range SummarySheets[1:] {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	tables := []sheetTable{
		periodSharesSheet(report.PeriodShares),
		yearBuiltSheet(report.YearBuilt),
		pricePerSqFtSheet(report.PricePerSqFt),
		categoryMeanSheet(report.CategoryMean),
		marketCapBoroughSheet(report.MarketCapBorough),
		marketCapBoroughPeriodSheet(report.MarketCapBoroughPeriod),
		marketCapCategorySheet(report.MarketCapCategory),
		transactionsSheet(report.Transactions),
		dropsSheet(result),
		sourcesSheet(result),
	}
	for _, table := range tables {
		if err := table.write(f, header); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

type sheetTable struct {
	name    string
	headers []string
	rows    [][]any
	widths  map[string]float64
}

func (s sheetTable) write(f *excelize.File, headerStyle int) error {
	headerRow := make([]any, len(s.headers))
	for i, h := range s.headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write %s header: %w", s.name, err)
	}
	if err := f.SetRowStyle(s.name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", s.name, err)
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", s.name, i+1, err)
		}
	}

	for col, width := range s.widths {
		if err := f.SetColWidth(s.name, col, col, width); err != nil {
			return fmt.Errorf("failed to size %s column %s: %w", s.name, col, err)
		}
	}
	return nil
}

func periodSharesSheet(t analytics.PeriodShareTable) sheetTable {
	all := make([]analytics.PeriodShareRow, 0, len(t.Rows)+1)
	all = append(all, t.Rows...)
	all = append(all, t.Totals)

	rows := make([][]any, 0, len(all))
	for _, r := range all {
		borough := string(r.Borough)
		if borough == "" {
			borough = "Total"
		}
		rows = append(rows, []any{
			borough, r.PreCount, r.PostCount,
			cellValue(r.Pre), cellValue(r.Post), cellValue(r.Total),
		})
	}
	return sheetTable{
		name:    SheetPeriodShares,
		headers: []string{"borough", "pre_count", "post_count", "pre", "post", "total"},
		rows:    rows,
		widths:  map[string]float64{"A": 14},
	}
}

func yearBuiltSheet(rows []analytics.YearBuiltRow) sheetTable {
	out := make([][]any, len(rows))
	for i, r := range rows {
		s := r.SalePrice
		out[i] = []any{
			r.YearBuilt, r.SaleYear, string(r.Period), string(r.Borough),
			s.Count, cellValue(s.Mean), cellValue(s.Std), cellValue(s.Min),
			cellValue(s.Q25), cellValue(s.Q50), cellValue(s.Q75), cellValue(s.Max),
		}
	}
	return sheetTable{
		name: SheetYearBuilt,
		headers: []string{
			"year_built", "sale_year", "period", "borough",
			"count", "mean", "std", "min", "25%", "50%", "75%", "max",
		},
		rows: out,
	}
}

func pricePerSqFtSheet(cells []analytics.PricePerSqFtCell) sheetTable {
	out := make([][]any, len(cells))
	for i, c := range cells {
		out[i] = []any{string(c.Borough), string(c.Period), c.Count, cellValue(c.Mean)}
	}
	return sheetTable{
		name:    SheetPricePerSqFt,
		headers: []string{"borough", "period", "count", "mean_price_per_sqft"},
		rows:    out,
		widths:  map[string]float64{"D": 20},
	}
}

func categoryMeanSheet(rows []analytics.CategoryMeanRow) sheetTable {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{r.Category, string(r.Period), string(r.Borough), r.Count, cellValue(r.MeanSalePrice)}
	}
	return sheetTable{
		name:    SheetCategoryMean,
		headers: []string{"building_class_category", "period", "borough", "count", "mean_sale_price"},
		rows:    out,
		widths:  map[string]float64{"A": 44},
	}
}

func marketCapBoroughSheet(rows []analytics.MarketCapRow[domain.Borough]) sheetTable {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{string(r.Key), r.Count, r.MarketCap}
	}
	return sheetTable{
		name:    SheetMarketCapBorough,
		headers: []string{"borough", "count", "market_cap"},
		rows:    out,
		widths:  map[string]float64{"C": 18},
	}
}

func marketCapBoroughPeriodSheet(rows []analytics.MarketCapRow[analytics.BoroughPeriodKey]) sheetTable {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{string(r.Key.Borough), string(r.Key.Period), r.Count, r.MarketCap}
	}
	return sheetTable{
		name:    SheetMarketCapBoroughPeriod,
		headers: []string{"borough", "period", "count", "market_cap"},
		rows:    out,
		widths:  map[string]float64{"D": 18},
	}
}

func marketCapCategorySheet(rows []analytics.MarketCapRow[analytics.CategoryKey]) sheetTable {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{r.Key.Category, string(r.Key.Period), string(r.Key.Borough), r.Count, r.MarketCap}
	}
	return sheetTable{
		name:    SheetMarketCapCategory,
		headers: []string{"building_class_category", "period", "borough", "count", "market_cap"},
		rows:    out,
		widths:  map[string]float64{"A": 44, "E": 18},
	}
}

func transactionsSheet(rows []analytics.TransactionRow) sheetTable {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{string(r.Borough), r.BuildingClass, string(r.Period), r.Transactions}
	}
	return sheetTable{
		name:    SheetTransactions,
		headers: []string{"borough", "building_class_at_time_of_sale", "period", "transactions"},
		rows:    out,
	}
}

func dropsSheet(result *dataprocessing.Result) sheetTable {
	var out [][]any
	if result != nil {
		for _, e := range result.Drops.Entries() {
			out = append(out, []any{string(e.Reason), e.Rows})
		}
	}
	return sheetTable{
		name:    SheetDrops,
		headers: []string{"reason", "rows"},
		rows:    out,
		widths:  map[string]float64{"A": 28},
	}
}

func sourcesSheet(result *dataprocessing.Result) sheetTable {
	var out [][]any
	if result != nil {
		for _, s := range result.Sources {
			out = append(out, []any{
				s.Source.Year, string(s.Source.Borough), s.Path,
				s.RowsRead, s.RowsNormalized, s.RowsKept,
			})
		}
	}
	return sheetTable{
		name:    SheetSources,
		headers: []string{"year", "borough", "path", "rows_read", "rows_normalized", "rows_kept"},
		rows:    out,
		widths:  map[string]float64{"C": 48},
	}
}
