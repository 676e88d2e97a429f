package analytics

import (
	"math"

	"nycsales/pkg/contracts/domain"
)

// PricePerSqFtCell is the mean price per square foot of one borough and period.
type PricePerSqFtCell struct {
	Borough domain.Borough `json:"borough"`
	Period  domain.Period  `json:"period"`
	Count   int            `json:"count"`
	Mean    float64        `json:"mean"` // NaN when Count is 0
}

// PricePerSqFt returns six cells, borough-major in declaration order. Only
// tax class 2 records with a non-zero price and area contribute, so the
// division never sees a zero denominator.
func PricePerSqFt(f Frame) []PricePerSqFtCell {
	subset := f.Where(TaxClass(domain.TaxClassResidential), NonZeroPriceAndArea())

	samples := make(map[domain.Borough]map[domain.Period][]float64, len(domain.Boroughs))
	for _, r := range subset.records {
		ppsf, ok := r.PricePerSquareFoot()
		if !ok || !r.Period.Valid() {
			continue
		}
		if samples[r.Borough] == nil {
			samples[r.Borough] = make(map[domain.Period][]float64, 2)
		}
		samples[r.Borough][r.Period] = append(samples[r.Borough][r.Period], ppsf)
	}

	cells := make([]PricePerSqFtCell, 0, len(domain.Boroughs)*len(domain.Periods))
	for _, b := range domain.Boroughs {
		for _, p := range domain.Periods {
			values := samples[b][p]
			cells = append(cells, PricePerSqFtCell{
				Borough: b,
				Period:  p,
				Count:   len(values),
				Mean:    Mean(values),
			})
		}
	}
	return cells
}

// PricePerSqFtFor looks up one cell's mean
func PricePerSqFtFor(cells []PricePerSqFtCell, b domain.Borough, p domain.Period) float64 {
	for _, c := range cells {
		if c.Borough == b && c.Period == p {
			return c.Mean
		}
	}
	return math.NaN()
}
