package analytics

import (
	"math"

	"nycsales/pkg/contracts/domain"
)

// PeriodShareRow is one borough's share of tax class 2 sales in each period.
type PeriodShareRow struct {
	Borough   domain.Borough `json:"borough"`
	PreCount  int            `json:"pre_count"`
	PostCount int            `json:"post_count"`
	Pre       float64        `json:"pre"`
	Post      float64        `json:"post"`
	Total     float64        `json:"total"`
}

// PeriodShareTable holds one row per borough plus a totals row. Every share
// is divided by the same denominator, so the six cells sum to 1; totals are
// sums of cells rather than recomputed ratios.
type PeriodShareTable struct {
	Rows        []PeriodShareRow `json:"rows"`
	Totals      PeriodShareRow   `json:"totals"`
	Denominator int              `json:"denominator"`
}

// Share returns the share for one cell
func (t PeriodShareTable) Share(b domain.Borough, p domain.Period) float64 {
	for _, row := range t.Rows {
		if row.Borough != b {
			continue
		}
		if p == domain.PeriodPre {
			return row.Pre
		}
		return row.Post
	}
	return math.NaN()
}

// PeriodShares computes each borough's share of tax class 2 sales per period.
// The denominator is every tax class 2 record with a period.
func PeriodShares(f Frame) PeriodShareTable {
	subset := f.Where(TaxClass(domain.TaxClassResidential), HasPeriod())
	denom := subset.Len()

	counts := make(map[domain.Borough]map[domain.Period]int, len(domain.Boroughs))
	for _, r := range subset.records {
		if counts[r.Borough] == nil {
			counts[r.Borough] = make(map[domain.Period]int, 2)
		}
		counts[r.Borough][r.Period]++
	}

	share := func(n int) float64 {
		if denom == 0 {
			return math.NaN()
		}
		return float64(n) / float64(denom)
	}

	table := PeriodShareTable{Denominator: denom}
	for _, b := range domain.Boroughs {
		row := PeriodShareRow{
			Borough:   b,
			PreCount:  counts[b][domain.PeriodPre],
			PostCount: counts[b][domain.PeriodPost],
		}
		row.Pre = share(row.PreCount)
		row.Post = share(row.PostCount)
		row.Total = row.Pre + row.Post
		table.Rows = append(table.Rows, row)

		table.Totals.PreCount += row.PreCount
		table.Totals.PostCount += row.PostCount
		table.Totals.Pre += row.Pre
		table.Totals.Post += row.Post
	}
	table.Totals.Total = table.Totals.Pre + table.Totals.Post

	return table
}
