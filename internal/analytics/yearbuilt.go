package analytics

import (
	"cmp"

	"nycsales/pkg/contracts/domain"
)

// YearBuiltKey groups sales by construction year, sale year, period and borough.
type YearBuiltKey struct {
	YearBuilt int            `json:"year_built"`
	SaleYear  int            `json:"sale_year"`
	Period    domain.Period  `json:"period"`
	Borough   domain.Borough `json:"borough"`
}

// YearBuiltRow is the sale price distribution of one group.
type YearBuiltRow struct {
	YearBuiltKey
	SalePrice Summary `json:"sale_price"`
}

func yearBuiltKey(r domain.SaleRecord) (YearBuiltKey, bool) {
	built, ok := r.YearBuiltYear()
	if !ok {
		return YearBuiltKey{}, false
	}
	sold, ok := r.SaleYearValue()
	if !ok || !r.Period.Valid() || !r.Borough.Valid() {
		return YearBuiltKey{}, false
	}
	return YearBuiltKey{YearBuilt: built, SaleYear: sold, Period: r.Period, Borough: r.Borough}, true
}

func lessYearBuilt(a, b YearBuiltKey) bool {
	return compareChain(
		cmp.Compare(a.YearBuilt, b.YearBuilt),
		cmp.Compare(a.SaleYear, b.SaleYear),
		comparePeriod(a.Period, b.Period),
		compareBorough(a.Borough, b.Borough),
	) < 0
}

// YearBuiltDistribution describes sale prices per (year built, sale year, period, borough)
func YearBuiltDistribution(f Frame) []YearBuiltRow {
	groups := GroupBy(f, yearBuiltKey, lessYearBuilt)
	rows := make([]YearBuiltRow, len(groups))
	for i, g := range groups {
		rows[i] = YearBuiltRow{
			YearBuiltKey: g.Key,
			SalePrice:    Describe(Values(g.Records, SalePrice)),
		}
	}
	return rows
}
