package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"nycsales/pkg/contracts/domain"
)

// RawHeaders mirrors the rolling-sales export header, including the line
// breaks and spacing that label normalization has to strip, plus two
// columns outside the allow-list.
var RawHeaders = []string{
	"BOROUGH",
	"NEIGHBORHOOD",
	"BUILDING CLASS CATEGORY",
	"TAX CLASS AT PRESENT",
	"BLOCK",
	"LOT",
	"EASE-MENT",
	"BUILDING CLASS AT PRESENT",
	"ADDRESS",
	"APARTMENT\nNUMBER",
	"ZIP CODE",
	"RESIDENTIAL UNITS",
	"COMMERCIAL UNITS",
	"TOTAL UNITS",
	"LAND SQUARE FEET",
	"GROSS SQUARE FEET",
	"YEAR BUILT",
	"TAX CLASS AT TIME OF SALE",
	"BUILDING CLASS AT TIME OF SALE",
	"SALE PRICE",
	"SALE DATE ",
}

// Sale is one fixture row. A nil field writes an empty cell.
type Sale struct {
	BoroughCode           any
	Neighborhood          string
	BuildingClassCategory string
	Block                 any
	Lot                   any
	Address               string
	ApartmentNumber       any
	ZipCode               any
	ResidentialUnits      any
	CommercialUnits       any
	TotalUnits            any
	LandSquareFeet        any
	GrossSquareFeet       any
	YearBuilt             any
	TaxClassAtSale        any
	BuildingClassAtSale   string
	SalePrice             any
	SaleDate              any
}

// BoroughCode returns the normalized BOROUGH value that maps to b
func BoroughCode(b domain.Borough) domain.Code {
	return map[domain.Borough]domain.Code{
		domain.BoroughManhattan: "1.0",
		domain.BoroughBrooklyn:  "3.0",
		domain.BoroughQueens:    "4.0",
	}[b]
}

// DefaultSale returns a complete, analysis-ready Manhattan condo sale dated in year.
func DefaultSale(year int) Sale {
	return Sale{
		BoroughCode:           1,
		Neighborhood:          "CHELSEA",
		BuildingClassCategory: "13 CONDOS - ELEVATOR APARTMENTS",
		Block:                 716,
		Lot:                   1102,
		Address:               "200 WEST 20TH STREET",
		ApartmentNumber:       "1A",
		ZipCode:               10011,
		ResidentialUnits:      1,
		CommercialUnits:       0,
		TotalUnits:            1,
		LandSquareFeet:        nil,
		GrossSquareFeet:       1000,
		YearBuilt:             1925,
		TaxClassAtSale:        2,
		BuildingClassAtSale:   "R4",
		SalePrice:             500000,
		SaleDate:              time.Date(year, time.March, 15, 0, 0, 0, 0, time.UTC),
	}
}

// values lays the sale out in RawHeaders order
func (s Sale) values() []any {
	return []any{
		s.BoroughCode,
		s.Neighborhood,
		s.BuildingClassCategory,
		"2",
		s.Block,
		s.Lot,
		nil,
		s.BuildingClassAtSale,
		s.Address,
		s.ApartmentNumber,
		s.ZipCode,
		s.ResidentialUnits,
		s.CommercialUnits,
		s.TotalUnits,
		s.LandSquareFeet,
		s.GrossSquareFeet,
		s.YearBuilt,
		s.TaxClassAtSale,
		s.BuildingClassAtSale,
		s.SalePrice,
		s.SaleDate,
	}
}

// WorkbookBuilder writes rolling-sales style workbooks for tests: title rows,
// a header at HeaderOffset (0-based) and data rows below it.
type WorkbookBuilder struct {
	HeaderOffset int
	Sheet        string
	Headers      []string
	rows         [][]any
}

// NewWorkbookBuilder creates a builder with the standard headers
func NewWorkbookBuilder(headerOffset int) *WorkbookBuilder {
	return &WorkbookBuilder{
		HeaderOffset: headerOffset,
		Sheet:        "Sheet1",
		Headers:      append([]string(nil), RawHeaders...),
	}
}

// WithoutHeader removes a header label, simulating a schema change
func (b *WorkbookBuilder) WithoutHeader(label string) *WorkbookBuilder {
	kept := b.Headers[:0]
	for _, h := range b.Headers {
		if h != label {
			kept = append(kept, h)
		}
	}
	b.Headers = kept
	return b
}

// AddSale appends a sale row
func (b *WorkbookBuilder) AddSale(s Sale) *WorkbookBuilder {
	b.rows = append(b.rows, s.values())
	return b
}

// AddBlankRow appends a row with no cells
func (b *WorkbookBuilder) AddBlankRow() *WorkbookBuilder {
	b.rows = append(b.rows, make([]any, len(RawHeaders)))
	return b
}

// AddSales appends several sale rows
func (b *WorkbookBuilder) AddSales(sales ...Sale) *WorkbookBuilder {
	for _, s := range sales {
		b.AddSale(s)
	}
	return b
}

// Save writes the workbook to path
func (b *WorkbookBuilder) Save(t testing.TB, path string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if b.Sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", b.Sheet))
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)

	if b.HeaderOffset > 0 {
		require.NoError(t, f.SetCellStr(b.Sheet, "A1", "Neighborhood Sales Report"))
	}

	headerCell, _ := excelize.CoordinatesToCellName(1, b.HeaderOffset+1)
	headers := make([]any, len(b.Headers))
	for i, h := range b.Headers {
		headers[i] = h
	}
	require.NoError(t, f.SetSheetRow(b.Sheet, headerCell, &headers))

	for r, row := range b.rows {
		excelRow := b.HeaderOffset + 2 + r
		projected := b.project(row)
		for c, v := range projected {
			cell, _ := excelize.CoordinatesToCellName(c+1, excelRow)
			if v == nil {
				continue
			}
			require.NoError(t, f.SetCellValue(b.Sheet, cell, v))
			if _, ok := v.(time.Time); ok {
				require.NoError(t, f.SetCellStyle(b.Sheet, cell, cell, dateStyle))
			}
		}
	}

	require.NoError(t, f.SaveAs(path))
}

// project aligns a RawHeaders-ordered row to the builder's header set
func (b *WorkbookBuilder) project(row []any) []any {
	index := make(map[string]int, len(RawHeaders))
	for i, h := range RawHeaders {
		index[h] = i
	}
	out := make([]any, len(b.Headers))
	for i, h := range b.Headers {
		if j, ok := index[h]; ok {
			out[i] = row[j]
		}
	}
	return out
}

// WriteSource saves the workbook under dir using the source naming convention
func (b *WorkbookBuilder) WriteSource(t testing.TB, dir string, src domain.Source) string {
	t.Helper()
	path := filepath.Join(dir, src.FileName())
	b.Save(t, path)
	return path
}

// HeaderOffsetFor returns the default header offset for a year
func HeaderOffsetFor(year int) int {
	if year <= 2019 {
		return 4
	}
	return 6
}

// WriteSources writes one workbook per source, each holding sales produced by fn
func WriteSources(t testing.TB, dir string, sources []domain.Source, fn func(domain.Source) []Sale) {
	t.Helper()
	for _, src := range sources {
		NewWorkbookBuilder(HeaderOffsetFor(src.Year)).
			AddSales(fn(src)...).
			WriteSource(t, dir, src)
	}
}
