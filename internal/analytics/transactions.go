package analytics

import (
	"cmp"

	"nycsales/pkg/contracts/domain"
)

// OneFamilyClassPrefix selects one-family dwellings (A0 to A9)
const OneFamilyClassPrefix = "A"

// TransactionKey groups one-family sales by borough, class and period.
type TransactionKey struct {
	Borough       domain.Borough `json:"borough"`
	BuildingClass string         `json:"building_class_at_sale"`
	Period        domain.Period  `json:"period"`
}

// TransactionRow counts distinct sale prices, a proxy for transactions.
type TransactionRow struct {
	TransactionKey
	Transactions int `json:"transactions"`
}

func transactionKey(r domain.SaleRecord) (TransactionKey, bool) {
	if r.BuildingClassAtSale == "" || !r.Borough.Valid() || !r.Period.Valid() {
		return TransactionKey{}, false
	}
	return TransactionKey{Borough: r.Borough, BuildingClass: r.BuildingClassAtSale, Period: r.Period}, true
}

func lessTransaction(a, b TransactionKey) bool {
	return compareChain(
		compareBorough(a.Borough, b.Borough),
		cmp.Compare(a.BuildingClass, b.BuildingClass),
		comparePeriod(a.Period, b.Period),
	) < 0
}

// TransactionCounts counts distinct sale prices per (borough, class, period)
// for building classes starting with "A"
func TransactionCounts(f Frame) []TransactionRow {
	groups := GroupBy(f.Where(BuildingClassPrefix(OneFamilyClassPrefix)), transactionKey, lessTransaction)
	rows := make([]TransactionRow, len(groups))
	for i, g := range groups {
		distinct := make(map[float64]struct{}, len(g.Records))
		for _, r := range g.Records {
			distinct[r.SalePrice] = struct{}{}
		}
		rows[i] = TransactionRow{TransactionKey: g.Key, Transactions: len(distinct)}
	}
	return rows
}
