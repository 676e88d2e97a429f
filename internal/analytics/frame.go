package analytics

import (
	"cmp"
	"sort"
	"strings"

	"nycsales/internal/dataprocessing"
	"nycsales/pkg/contracts/domain"
)

// Frame is a read-only view over sale records. Filtering returns a new Frame;
// the underlying records are never modified.
type Frame struct {
	records []domain.SaleRecord
}

// FromDataset views a dataset as a Frame
func FromDataset(ds *dataprocessing.Dataset) Frame {
	return Frame{records: ds.Records()}
}

// NewFrame copies records into a Frame
func NewFrame(records []domain.SaleRecord) Frame {
	return FromDataset(dataprocessing.NewDataset(records))
}

// Len returns the number of records
func (f Frame) Len() int {
	return len(f.records)
}

// Records returns a copy of the records in the frame
func (f Frame) Records() []domain.SaleRecord {
	out := make([]domain.SaleRecord, len(f.records))
	for i, r := range f.records {
		out[i] = r.Clone()
	}
	return out
}

// Predicate selects records
type Predicate func(domain.SaleRecord) bool

// Where keeps the records matching every predicate
func (f Frame) Where(preds ...Predicate) Frame {
	out := make([]domain.SaleRecord, 0, len(f.records))
next:
	for _, r := range f.records {
		for _, p := range preds {
			if !p(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return Frame{records: out}
}

// TaxClass matches the tax class at time of sale
func TaxClass(code domain.Code) Predicate {
	return func(r domain.SaleRecord) bool { return r.TaxClassAtSale == code }
}

// PeriodIs matches one period
func PeriodIs(p domain.Period) Predicate {
	return func(r domain.SaleRecord) bool { return r.Period == p }
}

// HasPeriod matches records whose sale year mapped to a period
func HasPeriod() Predicate {
	return func(r domain.SaleRecord) bool { return r.Period.Valid() }
}

// BoroughIs matches one borough
func BoroughIs(b domain.Borough) Predicate {
	return func(r domain.SaleRecord) bool { return r.Borough == b }
}

// BuildingClassPrefix matches building class at time of sale codes starting with prefix
func BuildingClassPrefix(prefix string) Predicate {
	return func(r domain.SaleRecord) bool { return strings.HasPrefix(r.BuildingClassAtSale, prefix) }
}

// NonZeroPriceAndArea matches records usable as a price-per-square-foot sample
func NonZeroPriceAndArea() Predicate {
	return func(r domain.SaleRecord) bool { return r.SalePrice != 0 && r.GrossSquareFeet != 0 }
}

// Group is one key and its records, in frame order.
type Group[K comparable] struct {
	Key     K
	Records []domain.SaleRecord
}

// GroupBy partitions the frame by key. Records whose key function reports
// false (a null component) are left out. Groups are sorted with less.
func GroupBy[K comparable](f Frame, key func(domain.SaleRecord) (K, bool), less func(a, b K) bool) []Group[K] {
	index := make(map[K]int)
	var groups []Group[K]

	for _, r := range f.records {
		k, ok := key(r)
		if !ok {
			continue
		}
		i, seen := index[k]
		if !seen {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K]{Key: k})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	sort.SliceStable(groups, func(i, j int) bool { return less(groups[i].Key, groups[j].Key) })
	return groups
}

// Values extracts one float per record
func Values(records []domain.SaleRecord, fn func(domain.SaleRecord) float64) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = fn(r)
	}
	return out
}

// SalePrice is the value extractor for sale price
func SalePrice(r domain.SaleRecord) float64 {
	return r.SalePrice
}

// compareChain returns the first non-zero comparison
func compareChain(results ...int) int {
	for _, c := range results {
		if c != 0 {
			return c
		}
	}
	return 0
}

func compareBorough(a, b domain.Borough) int {
	return cmp.Compare(a.Ordinal(), b.Ordinal())
}

func comparePeriod(a, b domain.Period) int {
	return cmp.Compare(a.Ordinal(), b.Ordinal())
}
