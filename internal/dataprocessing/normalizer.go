package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "nycsales/internal/errors"
	"nycsales/pkg/contracts/domain"
)

// NormalizedTable holds the clean records of one source.
type NormalizedTable struct {
	Source   domain.Source
	Path     string
	Records  []domain.SaleRecord
	RowsRead int
	Drops    DropStats
}

// Normalizer converts raw rows into typed sale records.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger.With("component", "normalizer")}
}

// Normalize types every row of table. Categorical numeric columns become
// domain.Code values, the year built is parsed leniently, and rows without a
// sale price or gross square footage are dropped. Unparseable values become
// null; they never fail the table.
func (n *Normalizer) Normalize(ctx context.Context, table *Table) (*NormalizedTable, error) {
	idx, err := columnIndex(table.Columns)
	if err != nil {
		return nil, sourceErr(apperrors.NewSchemaError("table columns do not match the allow-list", err), table.Source, table.Path)
	}

	out := &NormalizedTable{
		Source:   table.Source,
		Path:     table.Path,
		Records:  make([]domain.SaleRecord, 0, len(table.Records)),
		RowsRead: table.RowsRead,
		Drops:    DropStats{},
	}

	for _, raw := range table.Records {
		rec, reason, ok := normalizeRecord(raw, idx)
		if !ok {
			out.Drops.Add(reason, 1)
			continue
		}
		out.Records = append(out.Records, rec)
	}

	n.logger.DebugContext(ctx, "source normalized",
		slog.String("source", table.Source.String()),
		slog.Int("rows", len(out.Records)),
		slog.Any("dropped", out.Drops))

	return out, nil
}

// rowIndex holds the position of each analysis column in a RawRecord
type rowIndex map[string]int

func columnIndex(columns []string) (rowIndex, error) {
	idx := make(rowIndex, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	header := append(append([]string(nil), columns...), domain.ColumnEasement)
	if _, err := projectHeader(header, columns); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx rowIndex) get(raw domain.RawRecord, col string) string {
	i := idx[col]
	if i >= len(raw.Values) {
		return ""
	}
	return raw.Values[i]
}

// code converts a code column, keeping string-typed cells verbatim
func (idx rowIndex) code(raw domain.RawRecord, col string) domain.Code {
	if i, ok := idx[col]; ok && raw.IsText(i) {
		return domain.CodeFromText(idx.get(raw, col))
	}
	return domain.CodeFromCell(idx.get(raw, col))
}

func normalizeRecord(raw domain.RawRecord, idx rowIndex) (domain.SaleRecord, DropReason, bool) {
	salePrice, ok := parseNumber(idx.get(raw, domain.ColumnSalePrice))
	if !ok {
		return domain.SaleRecord{}, DropMissingSalePrice, false
	}
	gross, ok := parseNumber(idx.get(raw, domain.ColumnGrossSquareFeet))
	if !ok {
		return domain.SaleRecord{}, DropMissingGrossSquareFeet, false
	}

	yearBuilt := idx.code(raw, domain.ColumnYearBuilt)

	rec := domain.SaleRecord{
		Source:                raw.Source,
		BoroughCode:           idx.code(raw, domain.ColumnBorough),
		Neighborhood:          strings.TrimSpace(idx.get(raw, domain.ColumnNeighborhood)),
		BuildingClassCategory: strings.TrimSpace(idx.get(raw, domain.ColumnBuildingClassCategory)),
		Block:                 idx.code(raw, domain.ColumnBlock),
		Lot:                   idx.code(raw, domain.ColumnLot),
		Address:               strings.TrimSpace(idx.get(raw, domain.ColumnAddress)),
		ApartmentNumber:       optionalText(idx.get(raw, domain.ColumnApartmentNumber)),
		ZipCode:               idx.code(raw, domain.ColumnZipCode),
		ResidentialUnits:      optionalInt(idx.get(raw, domain.ColumnResidentialUnits)),
		CommercialUnits:       optionalInt(idx.get(raw, domain.ColumnCommercialUnits)),
		TotalUnits:            optionalInt(idx.get(raw, domain.ColumnTotalUnits)),
		LandSquareFeet:        optionalFloat(idx.get(raw, domain.ColumnLandSquareFeet)),
		GrossSquareFeet:       gross,
		YearBuiltCode:         yearBuilt,
		YearBuilt:             ParseYearBuilt(yearBuilt),
		TaxClassAtSale:        idx.code(raw, domain.ColumnTaxClassAtSale),
		BuildingClassAtSale:   strings.TrimSpace(idx.get(raw, domain.ColumnBuildingClassAtSale)),
		SalePrice:             salePrice,
		SaleDate:              ParseSaleDate(idx.get(raw, domain.ColumnSaleDate)),
	}
	return rec, "", true
}

// ParseYearBuilt takes the first four characters of the code and parses them
// as a calendar year. Anything other than four digits naming a year after 0
// yields nil, so "0.0" and "" are null while "1925.0" is 1925-01-01.
func ParseYearBuilt(code domain.Code) *time.Time {
	prefix := code.Prefix(4)
	if len(prefix) != 4 {
		return nil
	}
	for _, r := range prefix {
		if r < '0' || r > '9' {
			return nil
		}
	}
	year, _ := strconv.Atoi(prefix)
	if year < 1 {
		return nil
	}
	t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

// saleDateLayouts are tried in order for text-typed sale date cells
var saleDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"01-02-06",
}

// ParseSaleDate reads an Excel serial date or one of the common text layouts.
// Unparseable values yield nil.
func ParseSaleDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial <= 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
			return nil
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil
		}
		t = t.UTC()
		return &t
	}

	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// parseNumber accepts plain or thousands-separated numbers, with an optional
// leading dollar sign
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func optionalFloat(raw string) *float64 {
	v, ok := parseNumber(raw)
	if !ok {
		return nil
	}
	return &v
}

func optionalInt(raw string) *int {
	v, ok := parseNumber(raw)
	if !ok || v != math.Trunc(v) {
		return nil
	}
	i := int(v)
	return &i
}

func optionalText(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	return &s
}
