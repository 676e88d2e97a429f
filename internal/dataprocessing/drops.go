package dataprocessing

import "log/slog"

// DropReason names why a row left the dataset.
type DropReason string

const (
	DropMissingSalePrice       DropReason = "missing_sale_price"
	DropMissingGrossSquareFeet DropReason = "missing_gross_square_feet"
	DropMissingApartmentNumber DropReason = "missing_apartment_number"
	DropUnmappedBorough        DropReason = "unmapped_borough"
	DropMissingYearBuilt       DropReason = "missing_year_built"

	// DropZeroSalePrice counts every sale price <= 0. Negative prices land
	// here too; there is no separate reason for them.
	DropZeroSalePrice DropReason = "zero_sale_price"
)

// DropReasons lists reasons in the order they are evaluated. A row is
// attributed to the first reason that applies.
var DropReasons = []DropReason{
	DropMissingSalePrice,
	DropMissingGrossSquareFeet,
	DropMissingApartmentNumber,
	DropUnmappedBorough,
	DropMissingYearBuilt,
	DropZeroSalePrice,
}

// DropStats counts dropped rows per reason.
type DropStats map[DropReason]int

// DropEntry is one reason and its count.
type DropEntry struct {
	Reason DropReason `json:"reason"`
	Rows   int        `json:"rows"`
}

// Add records n rows dropped for reason
func (d DropStats) Add(reason DropReason, n int) {
	d[reason] += n
}

// Merge adds every count from other into d
func (d DropStats) Merge(other DropStats) {
	for reason, n := range other {
		d[reason] += n
	}
}

// Total returns the number of dropped rows
func (d DropStats) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// Entries lists every reason in evaluation order, zero counts included
func (d DropStats) Entries() []DropEntry {
	entries := make([]DropEntry, 0, len(DropReasons))
	for _, reason := range DropReasons {
		entries = append(entries, DropEntry{Reason: reason, Rows: d[reason]})
	}
	return entries
}

// LogValue implements slog.LogValuer
func (d DropStats) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(DropReasons))
	for _, e := range d.Entries() {
		if e.Rows > 0 {
			attrs = append(attrs, slog.Int(string(e.Reason), e.Rows))
		}
	}
	return slog.GroupValue(attrs...)
}
