package domain

import "fmt"

// Source identifies one input spreadsheet: a (year, borough) pair.
type Source struct {
	Year    int     `json:"year" validate:"required,min=1900"`
	Borough Borough `json:"borough" validate:"required"`
}

// FileName returns the conventional file name, e.g. "2018_manhattan.xlsx".
func (s Source) FileName() string {
	return fmt.Sprintf("%d_%s.xlsx", s.Year, s.Borough.Slug())
}

// String returns the file stem, e.g. "2018_manhattan".
func (s Source) String() string {
	return fmt.Sprintf("%d_%s", s.Year, s.Borough.Slug())
}

// PlanSources returns the cross product of years and boroughs, year-ascending
// in the order given, then boroughs in the order given.
func PlanSources(years []int, boroughs []Borough) []Source {
	sources := make([]Source, 0, len(years)*len(boroughs))
	for _, year := range years {
		for _, b := range boroughs {
			sources = append(sources, Source{Year: year, Borough: b})
		}
	}
	return sources
}
