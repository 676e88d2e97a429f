package domain

import "time"

// TaxClassResidential is the tax class code for class 2 residential property
// (cooperatives, condominiums and other non 1–3 unit residential buildings).
const TaxClassResidential Code = "2.0"

// RawRecord is one spreadsheet row projected onto the analysis columns.
// Values are raw cell text, aligned with the owning table's column list.
type RawRecord struct {
	Source Source
	Row    int // 1-based sheet row, for diagnostics
	Values []string
	// Text flags values whose cell is stored as a string. It is only filled
	// for code columns; nil means every cell is numeric or untyped.
	Text []bool
}

// IsText reports whether value i came from a string-typed cell
func (r RawRecord) IsText(i int) bool {
	return i < len(r.Text) && r.Text[i]
}

// SaleRecord is a cleaned sale. SalePrice and GrossSquareFeet are always
// present once a record exists; every other optional field is a pointer or a
// zero-valued Code/Borough/Period meaning null.
type SaleRecord struct {
	RowID  int    `json:"row_id"`
	Source Source `json:"source"`

	BoroughCode           Code       `json:"borough_code"`
	Borough               Borough    `json:"borough,omitempty"`
	Neighborhood          string     `json:"neighborhood"`
	BuildingClassCategory string     `json:"building_class_category"`
	Block                 Code       `json:"block"`
	Lot                   Code       `json:"lot"`
	Address               string     `json:"address"`
	ApartmentNumber       *string    `json:"apartment_number,omitempty"`
	ZipCode               Code       `json:"zip_code"`
	ResidentialUnits      *int       `json:"residential_units,omitempty"`
	CommercialUnits       *int       `json:"commercial_units,omitempty"`
	TotalUnits            *int       `json:"total_units,omitempty"`
	LandSquareFeet        *float64   `json:"land_square_feet,omitempty"`
	GrossSquareFeet       float64    `json:"gross_square_feet"`
	YearBuiltCode         Code       `json:"year_built_code"`
	YearBuilt             *time.Time `json:"year_built,omitempty"`
	TaxClassAtSale        Code       `json:"tax_class_at_sale"`
	BuildingClassAtSale   string     `json:"building_class_at_sale"`
	SalePrice             float64    `json:"sale_price"`
	SaleDate              *time.Time `json:"sale_date,omitempty"`

	SaleYear *int   `json:"sale_year,omitempty"`
	Period   Period `json:"period,omitempty"`
}

// YearBuiltYear returns the calendar year the building was built.
func (r SaleRecord) YearBuiltYear() (int, bool) {
	if r.YearBuilt == nil {
		return 0, false
	}
	return r.YearBuilt.Year(), true
}

// SaleYearValue returns the derived sale year.
func (r SaleRecord) SaleYearValue() (int, bool) {
	if r.SaleYear == nil {
		return 0, false
	}
	return *r.SaleYear, true
}

// PricePerSquareFoot returns SalePrice / GrossSquareFeet. It reports false
// when either side is zero so callers never divide by zero.
func (r SaleRecord) PricePerSquareFoot() (float64, bool) {
	if r.SalePrice == 0 || r.GrossSquareFeet == 0 {
		return 0, false
	}
	return r.SalePrice / r.GrossSquareFeet, true
}

// Clone returns a copy of r that shares no pointers with it.
func (r SaleRecord) Clone() SaleRecord {
	c := r
	c.ApartmentNumber = clonePtr(r.ApartmentNumber)
	c.ResidentialUnits = clonePtr(r.ResidentialUnits)
	c.CommercialUnits = clonePtr(r.CommercialUnits)
	c.TotalUnits = clonePtr(r.TotalUnits)
	c.LandSquareFeet = clonePtr(r.LandSquareFeet)
	c.YearBuilt = clonePtr(r.YearBuilt)
	c.SaleDate = clonePtr(r.SaleDate)
	c.SaleYear = clonePtr(r.SaleYear)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
