package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nycsales/pkg/contracts/domain"
)

func ptr[T any](v T) *T { return &v }

func cleanRecord(code domain.Code, saleYear int) domain.SaleRecord {
	built := time.Date(1925, 1, 1, 0, 0, 0, 0, time.UTC)
	sold := time.Date(saleYear, time.June, 1, 0, 0, 0, 0, time.UTC)
	return domain.SaleRecord{
		BoroughCode:     code,
		ApartmentNumber: ptr("1A"),
		GrossSquareFeet: 1000,
		YearBuiltCode:   "1925.0",
		YearBuilt:       &built,
		TaxClassAtSale:  domain.TaxClassResidential,
		SalePrice:       500000,
		SaleDate:        &sold,
	}
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name        string
		rec         domain.SaleRecord
		wantYear    *int
		wantPeriod  domain.Period
		wantBorough domain.Borough
	}{
		{name: "2018 manhattan", rec: cleanRecord("1.0", 2018), wantYear: ptr(2018), wantPeriod: domain.PeriodPre, wantBorough: domain.BoroughManhattan},
		{name: "2019 brooklyn", rec: cleanRecord("3.0", 2019), wantYear: ptr(2019), wantPeriod: domain.PeriodPre, wantBorough: domain.BoroughBrooklyn},
		{name: "2020 queens", rec: cleanRecord("4.0", 2020), wantYear: ptr(2020), wantPeriod: domain.PeriodPost, wantBorough: domain.BoroughQueens},
		{name: "2021 manhattan", rec: cleanRecord("1.0", 2021), wantYear: ptr(2021), wantPeriod: domain.PeriodPost, wantBorough: domain.BoroughManhattan},
		{name: "2017 unmapped period", rec: cleanRecord("1.0", 2017), wantYear: ptr(2017), wantBorough: domain.BoroughManhattan},
		{name: "integer-looking code is unmapped", rec: cleanRecord("1", 2018), wantYear: ptr(2018), wantPeriod: domain.PeriodPre},
		{name: "bronx", rec: cleanRecord("2.0", 2018), wantYear: ptr(2018), wantPeriod: domain.PeriodPre},
		{
			name: "null sale date",
			rec: func() domain.SaleRecord {
				r := cleanRecord("3.0", 2018)
				r.SaleDate = nil
				return r
			}(),
			wantBorough: domain.BoroughBrooklyn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.rec)
			assert.Equal(t, tt.wantYear, got.SaleYear)
			assert.Equal(t, tt.wantPeriod, got.Period)
			assert.Equal(t, tt.wantBorough, got.Borough)

			// pure: same input, same output
			assert.Equal(t, got, Derive(tt.rec))
		})
	}
}

func TestEnrichFinalFilter(t *testing.T) {
	noApt := cleanRecord("1.0", 2018)
	noApt.ApartmentNumber = nil
	bronx := cleanRecord("2.0", 2018)
	noYearBuilt := cleanRecord("3.0", 2019)
	noYearBuilt.YearBuilt = nil
	zeroPrice := cleanRecord("4.0", 2020)
	zeroPrice.SalePrice = 0
	// apartment is checked first, so this row counts once, as missing apartment
	everythingWrong := cleanRecord("5.0", 2020)
	everythingWrong.ApartmentNumber = nil
	everythingWrong.SalePrice = 0
	noDate := cleanRecord("1.0", 2018)
	noDate.SaleDate = nil
	keep := cleanRecord("1.0", 2018)
	negativePrice := cleanRecord("3.0", 2021)
	negativePrice.SalePrice = -10

	records := []domain.SaleRecord{keep, noApt, bronx, noYearBuilt, zeroPrice, everythingWrong, noDate, negativePrice}
	for i := range records {
		records[i].RowID = i
	}

	dataset, drops := NewEnricher(nil).Enrich(context.Background(), records)

	require.Equal(t, 2, dataset.Len())
	assert.Equal(t, 0, dataset.At(0).RowID)
	assert.Equal(t, 6, dataset.At(1).RowID)
	assert.Empty(t, dataset.At(1).Period, "rows without a period are retained")

	assert.Equal(t, 2, drops[DropMissingApartmentNumber])
	assert.Equal(t, 1, drops[DropUnmappedBorough])
	assert.Equal(t, 1, drops[DropMissingYearBuilt])
	// negative prices count as zero_sale_price
	assert.Equal(t, 2, drops[DropZeroSalePrice])
	assert.Equal(t, 6, drops.Total())

	for _, rec := range dataset.Records() {
		assert.Greater(t, rec.SalePrice, 0.0)
		assert.True(t, rec.Borough.Valid())
		assert.NotNil(t, rec.YearBuilt)
		assert.NotNil(t, rec.ApartmentNumber)
	}

	// input is untouched
	assert.Empty(t, records[0].Borough)
}

func TestMerge(t *testing.T) {
	a := &NormalizedTable{
		Source:  domain.Source{Year: 2018, Borough: domain.BoroughManhattan},
		Records: []domain.SaleRecord{{RowID: 7, SalePrice: 1}, {RowID: 8, SalePrice: 2}},
	}
	b := &NormalizedTable{
		Source:  domain.Source{Year: 2018, Borough: domain.BoroughBrooklyn},
		Records: []domain.SaleRecord{{RowID: 0, SalePrice: 3}},
	}
	empty := &NormalizedTable{Source: domain.Source{Year: 2018, Borough: domain.BoroughQueens}}

	merged := NewMerger(nil).Merge(context.Background(), []*NormalizedTable{a, b, empty})

	require.Len(t, merged, 3)
	for i, rec := range merged {
		assert.Equal(t, i, rec.RowID)
		assert.Equal(t, float64(i+1), rec.SalePrice)
	}
	assert.Equal(t, 7, a.Records[0].RowID, "merge does not mutate its inputs")
}

func TestDropStats(t *testing.T) {
	d := DropStats{}
	d.Add(DropZeroSalePrice, 2)
	d.Merge(DropStats{DropZeroSalePrice: 1, DropUnmappedBorough: 4})

	assert.Equal(t, 7, d.Total())
	entries := d.Entries()
	require.Len(t, entries, len(DropReasons))
	assert.Equal(t, DropEntry{Reason: DropMissingSalePrice, Rows: 0}, entries[0])
	assert.Equal(t, DropEntry{Reason: DropUnmappedBorough, Rows: 4}, entries[3])
	assert.Equal(t, DropEntry{Reason: DropZeroSalePrice, Rows: 3}, entries[5])
}

func TestDatasetIsImmutable(t *testing.T) {
	rec := cleanRecord("1.0", 2018)
	ds := NewDataset([]domain.SaleRecord{rec})

	*rec.ApartmentNumber = "mutated"
	out := ds.Records()
	*out[0].ApartmentNumber = "also mutated"
	out[0].SalePrice = 1

	assert.Equal(t, "1A", *ds.At(0).ApartmentNumber)
	assert.Equal(t, 500000.0, ds.At(0).SalePrice)
	assert.Equal(t, 0, (*Dataset)(nil).Len())
}
