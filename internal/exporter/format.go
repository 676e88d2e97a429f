package exporter

import (
	"math"
	"strconv"
	"time"

	"nycsales/pkg/contracts/domain"
)

// DateLayout is the layout used for every date cell in exported files
const DateLayout = "2006-01-02"

// formatFloat formats a float64 with the shortest exact representation.
// NaN and infinities become an empty cell.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int value
func formatInt(i int) string {
	return strconv.Itoa(i)
}

func formatOptionalInt(p *int) string {
	if p == nil {
		return ""
	}
	return formatInt(*p)
}

func formatOptionalFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return formatFloat(*p)
}

func formatOptionalString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

func formatYear(t *time.Time) string {
	if t == nil {
		return ""
	}
	return strconv.Itoa(t.Year())
}

// cellValue maps NaN to nil so spreadsheets get an empty cell instead of an error
func cellValue(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// SalesHeaders is the header row of the unified sales table
var SalesHeaders = []string{
	"row_id",
	"source",
	"borough_code",
	"borough",
	"neighborhood",
	"building_class_category",
	"block",
	"lot",
	"address",
	"apartment_number",
	"zip_code",
	"residential_units",
	"commercial_units",
	"total_units",
	"land_square_feet",
	"gross_square_feet",
	"year_built_code",
	"year_built",
	"tax_class_at_time_of_sale",
	"building_class_at_time_of_sale",
	"sale_price",
	"sale_date",
	"sale_year",
	"period",
}

// SalesRow renders one record in SalesHeaders order
func SalesRow(r domain.SaleRecord) []string {
	return []string{
		formatInt(r.RowID),
		r.Source.String(),
		string(r.BoroughCode),
		string(r.Borough),
		r.Neighborhood,
		r.BuildingClassCategory,
		string(r.Block),
		string(r.Lot),
		r.Address,
		formatOptionalString(r.ApartmentNumber),
		string(r.ZipCode),
		formatOptionalInt(r.ResidentialUnits),
		formatOptionalInt(r.CommercialUnits),
		formatOptionalInt(r.TotalUnits),
		formatOptionalFloat(r.LandSquareFeet),
		formatFloat(r.GrossSquareFeet),
		string(r.YearBuiltCode),
		formatYear(r.YearBuilt),
		string(r.TaxClassAtSale),
		r.BuildingClassAtSale,
		formatFloat(r.SalePrice),
		formatDate(r.SaleDate),
		formatOptionalInt(r.SaleYear),
		string(r.Period),
	}
}
