package config

import "nycsales/pkg/contracts"

// Application constants
const (
	AppName    = "nycsales"
	AppVersion = contracts.Version

	DefaultInputDir    = "."
	DefaultOutputDir   = "reports"
	DefaultLogFile     = "logs/nycsales.log"
	DefaultConcurrency = 4

	CombinedDirName     = "combined"
	SummaryDirName      = "summary"
	CombinedCSVName     = "nyc_sales_clean.csv"
	SummaryWorkbookName = "nyc_sales_summary.xlsx"
)

// DefaultYears are the sale years covered by the study.
var DefaultYears = []int{2018, 2019, 2020, 2021}

// DefaultHeaderOffsets returns the header row table for the rolling-sales exports.
func DefaultHeaderOffsets() []HeaderOffsetRule {
	return []HeaderOffsetRule{
		{FromYear: 2018, ToYear: 2019, Offset: 4},
		{FromYear: 2020, ToYear: 2021, Offset: 6},
	}
}
