package analytics

import (
	"cmp"
	"strings"

	"nycsales/pkg/contracts/domain"
)

// CategoryKey groups sales by building class category, period and borough.
type CategoryKey struct {
	Category string         `json:"building_class_category"`
	Period   domain.Period  `json:"period"`
	Borough  domain.Borough `json:"borough"`
}

// BoroughPeriodKey groups sales by borough and period.
type BoroughPeriodKey struct {
	Borough domain.Borough `json:"borough"`
	Period  domain.Period  `json:"period"`
}

// CategoryMeanRow is the mean sale price of one category group.
type CategoryMeanRow struct {
	CategoryKey
	Count         int     `json:"count"`
	MeanSalePrice float64 `json:"mean_sale_price"`
}

// MarketCapRow is the summed sale price ("market cap") of one group.
type MarketCapRow[K any] struct {
	Key       K       `json:"key"`
	Count     int     `json:"count"`
	MarketCap float64 `json:"market_cap"`
}

func categoryKey(r domain.SaleRecord) (CategoryKey, bool) {
	category := strings.TrimSpace(r.BuildingClassCategory)
	if category == "" || !r.Period.Valid() || !r.Borough.Valid() {
		return CategoryKey{}, false
	}
	return CategoryKey{Category: category, Period: r.Period, Borough: r.Borough}, true
}

func lessCategory(a, b CategoryKey) bool {
	return compareChain(
		cmp.Compare(a.Category, b.Category),
		comparePeriod(a.Period, b.Period),
		compareBorough(a.Borough, b.Borough),
	) < 0
}

func boroughKey(r domain.SaleRecord) (domain.Borough, bool) {
	return r.Borough, r.Borough.Valid()
}

func lessBorough(a, b domain.Borough) bool {
	return compareBorough(a, b) < 0
}

func boroughPeriodKey(r domain.SaleRecord) (BoroughPeriodKey, bool) {
	if !r.Borough.Valid() || !r.Period.Valid() {
		return BoroughPeriodKey{}, false
	}
	return BoroughPeriodKey{Borough: r.Borough, Period: r.Period}, true
}

func lessBoroughPeriod(a, b BoroughPeriodKey) bool {
	return compareChain(compareBorough(a.Borough, b.Borough), comparePeriod(a.Period, b.Period)) < 0
}

// CategoryMeanPrice averages sale price per (category, period, borough)
func CategoryMeanPrice(f Frame) []CategoryMeanRow {
	groups := GroupBy(f, categoryKey, lessCategory)
	rows := make([]CategoryMeanRow, len(groups))
	for i, g := range groups {
		rows[i] = CategoryMeanRow{
			CategoryKey:   g.Key,
			Count:         len(g.Records),
			MeanSalePrice: Mean(Values(g.Records, SalePrice)),
		}
	}
	return rows
}

// MarketCapByBorough sums sale price per borough
func MarketCapByBorough(f Frame) []MarketCapRow[domain.Borough] {
	return marketCap(GroupBy(f, boroughKey, lessBorough))
}

// MarketCapByBoroughPeriod sums sale price per (borough, period)
func MarketCapByBoroughPeriod(f Frame) []MarketCapRow[BoroughPeriodKey] {
	return marketCap(GroupBy(f, boroughPeriodKey, lessBoroughPeriod))
}

// MarketCapByCategory sums sale price per (category, period, borough)
func MarketCapByCategory(f Frame) []MarketCapRow[CategoryKey] {
	return marketCap(GroupBy(f, categoryKey, lessCategory))
}

func marketCap[K comparable](groups []Group[K]) []MarketCapRow[K] {
	rows := make([]MarketCapRow[K], len(groups))
	for i, g := range groups {
		rows[i] = MarketCapRow[K]{
			Key:       g.Key,
			Count:     len(g.Records),
			MarketCap: Sum(Values(g.Records, SalePrice)),
		}
	}
	return rows
}
