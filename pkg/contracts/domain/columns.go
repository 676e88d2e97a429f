package domain

// Column labels after whitespace and line breaks have been stripped from the
// spreadsheet header.
const (
	ColumnBorough               = "BOROUGH"
	ColumnNeighborhood          = "NEIGHBORHOOD"
	ColumnBuildingClassCategory = "BUILDINGCLASSCATEGORY"
	ColumnBlock                 = "BLOCK"
	ColumnLot                   = "LOT"
	ColumnEasement              = "EASE-MENT"
	ColumnAddress               = "ADDRESS"
	ColumnApartmentNumber       = "APARTMENTNUMBER"
	ColumnZipCode               = "ZIPCODE"
	ColumnResidentialUnits      = "RESIDENTIALUNITS"
	ColumnCommercialUnits       = "COMMERCIALUNITS"
	ColumnTotalUnits            = "TOTALUNITS"
	ColumnLandSquareFeet        = "LANDSQUAREFEET"
	ColumnGrossSquareFeet       = "GROSSSQUAREFEET"
	ColumnYearBuilt             = "YEARBUILT"
	ColumnTaxClassAtSale        = "TAXCLASSATTIMEOFSALE"
	ColumnBuildingClassAtSale   = "BUILDINGCLASSATTIMEOFSALE"
	ColumnSalePrice             = "SALEPRICE"
	ColumnSaleDate              = "SALEDATE"
)

// SourceColumns is the allow-list every input sheet must carry, in output order.
// The easement column is required on load and dropped right after.
var SourceColumns = []string{
	ColumnBorough,
	ColumnNeighborhood,
	ColumnBuildingClassCategory,
	ColumnBlock,
	ColumnLot,
	ColumnEasement,
	ColumnAddress,
	ColumnApartmentNumber,
	ColumnZipCode,
	ColumnResidentialUnits,
	ColumnCommercialUnits,
	ColumnTotalUnits,
	ColumnLandSquareFeet,
	ColumnGrossSquareFeet,
	ColumnYearBuilt,
	ColumnTaxClassAtSale,
	ColumnBuildingClassAtSale,
	ColumnSalePrice,
	ColumnSaleDate,
}

// AnalysisColumns returns SourceColumns without the easement column.
func AnalysisColumns() []string {
	cols := make([]string, 0, len(SourceColumns)-1)
	for _, c := range SourceColumns {
		if c != ColumnEasement {
			cols = append(cols, c)
		}
	}
	return cols
}

// codeColumns hold categorical codes; see Code
var codeColumns = map[string]bool{
	ColumnBorough:        true,
	ColumnBlock:          true,
	ColumnLot:            true,
	ColumnZipCode:        true,
	ColumnYearBuilt:      true,
	ColumnTaxClassAtSale: true,
}

// IsCodeColumn reports whether col holds a categorical code
func IsCodeColumn(col string) bool {
	return codeColumns[col]
}
