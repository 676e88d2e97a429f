package dataprocessing

import "nycsales/pkg/contracts/domain"

// Dataset is the unified, enriched table. It is immutable: accessors hand
// out copies, so aggregations can share one Dataset freely.
type Dataset struct {
	records []domain.SaleRecord
}

// NewDataset copies records into a new Dataset
func NewDataset(records []domain.SaleRecord) *Dataset {
	owned := make([]domain.SaleRecord, len(records))
	for i, r := range records {
		owned[i] = r.Clone()
	}
	return &Dataset{records: owned}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns a copy of record i
func (d *Dataset) At(i int) domain.SaleRecord {
	return d.records[i].Clone()
}

// Records returns a copy of every record in table order
func (d *Dataset) Records() []domain.SaleRecord {
	if d == nil {
		return nil
	}
	out := make([]domain.SaleRecord, len(d.records))
	for i, r := range d.records {
		out[i] = r.Clone()
	}
	return out
}

// CountBySource returns the number of records contributed by each source
func (d *Dataset) CountBySource() map[domain.Source]int {
	counts := make(map[domain.Source]int)
	if d == nil {
		return counts
	}
	for _, r := range d.records {
		counts[r.Source]++
	}
	return counts
}
