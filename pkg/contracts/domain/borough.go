package domain

import "strings"

// Borough is the name of a New York City borough covered by the sales dataset.
// The zero value means the borough code did not map to a covered borough.
type Borough string

const (
	BoroughManhattan Borough = "Manhattan"
	BoroughBrooklyn  Borough = "Brooklyn"
	BoroughQueens    Borough = "Queens"
)

// Boroughs lists the covered boroughs in declaration order.
// Merge order and report row order both follow this slice.
var Boroughs = []Borough{BoroughManhattan, BoroughBrooklyn, BoroughQueens}

// boroughCodes maps the text form of the BOROUGH column to a borough name.
// Keys match the float rendering produced by CodeFromCell ("1.0", not "1").
var boroughCodes = map[Code]Borough{
	"1.0": BoroughManhattan,
	"3.0": BoroughBrooklyn,
	"4.0": BoroughQueens,
}

// BoroughFromCode maps a borough code to its name. Codes outside the covered
// set (the Bronx "2.0", Staten Island "5.0", blanks) report false.
func BoroughFromCode(code Code) (Borough, bool) {
	b, ok := boroughCodes[code]
	return b, ok
}

// ParseBorough accepts a borough name in any case ("queens", "Queens").
func ParseBorough(name string) (Borough, bool) {
	for _, b := range Boroughs {
		if strings.EqualFold(string(b), strings.TrimSpace(name)) {
			return b, true
		}
	}
	return "", false
}

// Valid reports whether b is one of the covered boroughs.
func (b Borough) Valid() bool {
	return b.Ordinal() >= 0
}

// Slug returns the lowercase form used in source file names.
func (b Borough) Slug() string {
	return strings.ToLower(string(b))
}

// Ordinal is the position of b in Boroughs, or -1.
func (b Borough) Ordinal() int {
	for i, known := range Boroughs {
		if known == b {
			return i
		}
	}
	return -1
}

func (b Borough) String() string {
	return string(b)
}
