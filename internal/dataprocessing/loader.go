package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"

	apperrors "nycsales/internal/errors"
	"nycsales/internal/infrastructure"
	"nycsales/pkg/contracts/domain"
)

// HeaderOffsetResolver returns the 0-based header row for a sale year.
// config.InputConfig satisfies it.
type HeaderOffsetResolver interface {
	HeaderOffset(year int) (int, error)
}

// Table is one source workbook projected onto the analysis columns.
type Table struct {
	Source   domain.Source
	Path     string
	Columns  []string
	Records  []domain.RawRecord
	RowsRead int
}

// Loader reads rolling-sales workbooks with excelize.
type Loader struct {
	logger  *slog.Logger
	offsets HeaderOffsetResolver
	sheet   string
}

// NewLoader creates a loader. An empty sheet selects the first sheet of each workbook.
func NewLoader(logger *slog.Logger, offsets HeaderOffsetResolver, sheet string) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:  logger.With("component", "loader"),
		offsets: offsets,
		sheet:   sheet,
	}
}

// NormalizeLabel removes every whitespace character, line breaks included,
// so "SALE\nPRICE " becomes "SALEPRICE".
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(label), "")
}

// Load reads src from path. The header row sits at the offset configured for
// src.Year; every allow-listed column must be present under its normalized
// label. The easement column is checked and then dropped.
func (l *Loader) Load(ctx context.Context, src domain.Source, path string) (*Table, error) {
	offset, err := l.headerOffset(src, path)
	if err != nil {
		return nil, err
	}

	f, sheet, err := l.open(src, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	infrastructure.SetSpanAttributes(ctx,
		attribute.String("source.sheet", sheet),
		attribute.Int("source.header_row", offset))

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, sourceErr(apperrors.NewSourceError("failed to read sheet", err), src, path).
			WithContext("sheet", sheet)
	}
	defer rows.Close()

	analysis := domain.AnalysisColumns()
	table := &Table{
		Source:  src,
		Path:    path,
		Columns: analysis,
	}

	codeCols := make([]bool, len(analysis))
	for i, c := range analysis {
		codeCols[i] = domain.IsCodeColumn(c)
	}

	var projection []int
	rowIdx := -1
	for rows.Next() {
		rowIdx++
		if rowIdx%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		cells, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, sourceErr(apperrors.NewParsingError("failed to read row", err), src, path).
				WithContext("row", rowIdx+1)
		}

		switch {
		case rowIdx < offset:
			continue
		case rowIdx == offset:
			projection, err = projectHeader(cells, analysis)
			if err != nil {
				return nil, sourceErr(apperrors.NewSchemaError("header does not match the column allow-list", err), src, path).
					WithContext("header_row", offset)
			}
			continue
		}

		if isBlank(cells) {
			continue
		}

		values := make([]string, len(projection))
		text := make([]bool, len(projection))
		for i, col := range projection {
			if col >= len(cells) {
				continue
			}
			values[i] = cells[col]
			if codeCols[i] && strings.TrimSpace(cells[col]) != "" {
				text[i], err = isTextCell(f, sheet, col, rowIdx)
				if err != nil {
					return nil, sourceErr(apperrors.NewParsingError("failed to read cell type", err), src, path).
						WithContext("row", rowIdx+1).
						WithContext("column", analysis[i])
				}
			}
		}
		table.Records = append(table.Records, domain.RawRecord{
			Source: src,
			Row:    rowIdx + 1,
			Values: values,
			Text:   text,
		})
	}
	if err := rows.Error(); err != nil {
		return nil, sourceErr(apperrors.NewParsingError("failed to iterate rows", err), src, path)
	}

	if projection == nil {
		return nil, sourceErr(apperrors.NewSchemaError(
			fmt.Sprintf("sheet has %d rows, header expected at row %d", rowIdx+1, offset+1), nil), src, path).
			WithContext("header_row", offset)
	}

	table.RowsRead = len(table.Records)
	l.logger.DebugContext(ctx, "source loaded",
		slog.String("source", src.String()),
		slog.String("sheet", sheet),
		slog.Int("header_row", offset),
		slog.Int("rows", table.RowsRead))

	return table, nil
}

// CheckHeader opens path and validates the header row without reading data rows.
func (l *Loader) CheckHeader(src domain.Source, path string) error {
	offset, err := l.headerOffset(src, path)
	if err != nil {
		return err
	}

	f, sheet, err := l.open(src, path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.Rows(sheet)
	if err != nil {
		return sourceErr(apperrors.NewSourceError("failed to read sheet", err), src, path)
	}
	defer rows.Close()

	for i := 0; rows.Next(); i++ {
		if i < offset {
			continue
		}
		cells, err := rows.Columns()
		if err != nil {
			return sourceErr(apperrors.NewParsingError("failed to read header row", err), src, path)
		}
		if _, err := projectHeader(cells, domain.AnalysisColumns()); err != nil {
			return sourceErr(apperrors.NewSchemaError("header does not match the column allow-list", err), src, path).
				WithContext("header_row", offset)
		}
		return nil
	}

	return sourceErr(apperrors.NewSchemaError("header row is beyond the end of the sheet", nil), src, path).
		WithContext("header_row", offset)
}

// isTextCell reports whether the cell at the 0-based col and row is stored
// as a string rather than a number
func isTextCell(f *excelize.File, sheet string, col, row int) (bool, error) {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return false, err
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return false, err
	}
	return typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString, nil
}

func (l *Loader) headerOffset(src domain.Source, path string) (int, error) {
	if l.offsets == nil {
		return 0, sourceErr(apperrors.NewConfigError("no header offset table configured", nil), src, path)
	}
	offset, err := l.offsets.HeaderOffset(src.Year)
	if err != nil {
		return 0, sourceErr(apperrors.NewConfigError("no header offset for year", err), src, path)
	}
	return offset, nil
}

// open opens the workbook and resolves the sheet to read
func (l *Loader) open(src domain.Source, path string) (*excelize.File, string, error) {
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, "", sourceErr(apperrors.NewSourceError("failed to open workbook", err), src, path)
	}

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			f.Close()
			return nil, "", sourceErr(apperrors.NewSchemaError("workbook has no sheets", nil), src, path)
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		f.Close()
		return nil, "", sourceErr(apperrors.NewSchemaError("sheet not found", err), src, path).
			WithContext("sheet", sheet)
	}

	return f, sheet, nil
}

// projectHeader maps each wanted column to its position in the header row.
// The easement column must exist even though it is not projected.
func projectHeader(header []string, wanted []string) ([]int, error) {
	positions := make(map[string]int, len(header))
	for i, label := range header {
		norm := NormalizeLabel(label)
		if norm == "" {
			continue
		}
		if _, dup := positions[norm]; !dup {
			positions[norm] = i
		}
	}

	var missing []string
	for _, col := range domain.SourceColumns {
		if _, ok := positions[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	projection := make([]int, len(wanted))
	for i, col := range wanted {
		projection[i] = positions[col]
	}
	return projection, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// sourceErr attaches the source coordinates every load failure must carry
func sourceErr(err *apperrors.AppError, src domain.Source, path string) *apperrors.AppError {
	return err.
		WithContext("year", src.Year).
		WithContext("borough", src.Borough.String()).
		WithContext("path", path)
}
