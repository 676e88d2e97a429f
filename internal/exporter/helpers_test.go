package exporter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"nycsales/internal/analytics"
	"nycsales/internal/config"
	"nycsales/internal/dataprocessing"
	"nycsales/internal/shared/testutil"
	"nycsales/pkg/contracts/domain"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	dir := t.TempDir()
	return &config.Paths{
		OutputDir:       dir,
		CombinedDir:     filepath.Join(dir, config.CombinedDirName),
		SummaryDir:      filepath.Join(dir, config.SummaryDirName),
		CombinedCSV:     filepath.Join(dir, config.CombinedDirName, config.CombinedCSVName),
		SummaryWorkbook: filepath.Join(dir, config.SummaryDirName, config.SummaryWorkbookName),
	}
}

func testRecord(id int, b domain.Borough, year int, price, gross float64) domain.SaleRecord {
	apt := "1A"
	built := time.Date(1925, 1, 1, 0, 0, 0, 0, time.UTC)
	sold := time.Date(year, 3, 15, 0, 0, 0, 0, time.UTC)
	period, _ := domain.PeriodForYear(year)
	return domain.SaleRecord{
		RowID:                 id,
		Source:                domain.Source{Year: year, Borough: b},
		BoroughCode:           testutil.BoroughCode(b),
		Borough:               b,
		Neighborhood:          "MIDTOWN",
		BuildingClassCategory: "13 CONDOS - ELEVATOR APARTMENTS",
		Address:               "10 MAIN ST",
		ApartmentNumber:       &apt,
		GrossSquareFeet:       gross,
		YearBuiltCode:         "1925.0",
		YearBuilt:             &built,
		TaxClassAtSale:        domain.TaxClassResidential,
		BuildingClassAtSale:   "R4",
		SalePrice:             price,
		SaleDate:              &sold,
		SaleYear:              &year,
		Period:                period,
	}
}

func testDataset() *dataprocessing.Dataset {
	return dataprocessing.NewDataset([]domain.SaleRecord{
		testRecord(0, domain.BoroughManhattan, 2018, 500000, 1000),
		testRecord(1, domain.BoroughBrooklyn, 2020, 400000, 800),
		testRecord(2, domain.BoroughQueens, 2021, 300000, 1000),
	})
}

func testResult() *dataprocessing.Result {
	ds := testDataset()
	drops := dataprocessing.DropStats{}
	drops.Add(dataprocessing.DropMissingApartmentNumber, 4)
	drops.Add(dataprocessing.DropZeroSalePrice, 2)

	return &dataprocessing.Result{
		RunID:   "run-1",
		Dataset: ds,
		Sources: []dataprocessing.SourceSummary{
			{Source: domain.Source{Year: 2018, Borough: domain.BoroughManhattan}, Path: "2018_manhattan.xlsx", RowsRead: 5, RowsNormalized: 5, RowsKept: 1},
			{Source: domain.Source{Year: 2020, Borough: domain.BoroughBrooklyn}, Path: "2020_brooklyn.xlsx", RowsRead: 2, RowsNormalized: 2, RowsKept: 1},
			{Source: domain.Source{Year: 2021, Borough: domain.BoroughQueens}, Path: "2021_queens.xlsx", RowsRead: 2, RowsNormalized: 2, RowsKept: 1},
		},
		Drops:    drops,
		Duration: 1500 * time.Millisecond,
	}
}

func testReport(result *dataprocessing.Result) *analytics.Report {
	agg := analytics.NewAggregator(testutil.NewSilentLogger())
	return agg.Aggregate(context.Background(), analytics.FromDataset(result.Dataset))
}
