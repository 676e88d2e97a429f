package domain

// Period labels a sale as before or after the pandemic discontinuity.
// The zero value means the sale year was outside the mapped range.
type Period string

const (
	PeriodPre  Period = "Pre"
	PeriodPost Period = "Post"
)

// Periods lists the labels in chronological order.
var Periods = []Period{PeriodPre, PeriodPost}

var periodByYear = map[int]Period{
	2018: PeriodPre,
	2019: PeriodPre,
	2020: PeriodPost,
	2021: PeriodPost,
}

// PeriodForYear maps a sale year to its period. Years outside 2018–2021 report false.
func PeriodForYear(year int) (Period, bool) {
	p, ok := periodByYear[year]
	return p, ok
}

// Valid reports whether p is a mapped label.
func (p Period) Valid() bool {
	return p == PeriodPre || p == PeriodPost
}

// Ordinal is the position of p in Periods, or -1.
func (p Period) Ordinal() int {
	for i, known := range Periods {
		if known == p {
			return i
		}
	}
	return -1
}

func (p Period) String() string {
	return string(p)
}
