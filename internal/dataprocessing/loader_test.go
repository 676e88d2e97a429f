package dataprocessing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nycsales/internal/config"
	apperrors "nycsales/internal/errors"
	"nycsales/internal/shared/testutil"
	"nycsales/pkg/contracts/domain"
)

// recordingResolver wraps the default offsets and records every lookup
type recordingResolver struct {
	config.InputConfig
	asked map[int]int
}

func (r *recordingResolver) HeaderOffset(year int) (int, error) {
	offset, err := r.InputConfig.HeaderOffset(year)
	if err == nil {
		r.asked[year] = offset
	}
	return offset, err
}

func newResolver() *recordingResolver {
	return &recordingResolver{InputConfig: config.Default().Input, asked: map[int]int{}}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "SALE PRICE", want: "SALEPRICE"},
		{in: "APARTMENT\nNUMBER", want: "APARTMENTNUMBER"},
		{in: " SALE DATE \r\n", want: "SALEDATE"},
		{in: "BUILDING CLASS\nAT TIME OF  SALE", want: "BUILDINGCLASSATTIMEOFSALE"},
		{in: "EASE-MENT", want: "EASE-MENT"},
		{in: "ZIP CODE", want: "ZIPCODE"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLabel(tt.in), "label %q", tt.in)
	}
}

func TestLoaderUsesYearHeaderOffset(t *testing.T) {
	dir := t.TempDir()
	resolver := newResolver()
	loader := NewLoader(testutil.NewSilentLogger(), resolver, "")

	for _, year := range []int{2018, 2019, 2020, 2021} {
		src := domain.Source{Year: year, Borough: domain.BoroughManhattan}
		path := testutil.NewWorkbookBuilder(testutil.HeaderOffsetFor(year)).
			AddSales(testutil.DefaultSale(year), testutil.DefaultSale(year)).
			WriteSource(t, dir, src)

		table, err := loader.Load(context.Background(), src, path)
		require.NoError(t, err, "year %d", year)
		assert.Equal(t, 2, table.RowsRead)
		assert.Len(t, table.Records, 2)
	}

	assert.Equal(t, map[int]int{2018: 4, 2019: 4, 2020: 6, 2021: 6}, resolver.asked)
}

func TestLoaderProjectsAllowList(t *testing.T) {
	dir := t.TempDir()
	src := domain.Source{Year: 2020, Borough: domain.BoroughQueens}
	sale := testutil.DefaultSale(2020)
	sale.BoroughCode = 4
	path := testutil.NewWorkbookBuilder(6).AddSale(sale).WriteSource(t, dir, src)

	table, err := NewLoader(nil, newResolver(), "").Load(context.Background(), src, path)
	require.NoError(t, err)

	assert.Equal(t, domain.AnalysisColumns(), table.Columns)
	assert.NotContains(t, table.Columns, domain.ColumnEasement)
	for _, col := range table.Columns {
		assert.Equal(t, NormalizeLabel(col), col, "label %q keeps whitespace", col)
	}

	require.Len(t, table.Records, 1)
	rec := table.Records[0]
	assert.Len(t, rec.Values, len(table.Columns))
	assert.Equal(t, src, rec.Source)
	assert.Equal(t, 8, rec.Row)
	assert.Equal(t, "4", rec.Values[0])
	assert.Equal(t, "1A", rec.Values[6])
	assert.Equal(t, "500000", rec.Values[16])
}

func TestLoaderKeepsTextCodeCells(t *testing.T) {
	dir := t.TempDir()
	src := domain.Source{Year: 2021, Borough: domain.BoroughBrooklyn}
	sale := testutil.DefaultSale(2021)
	sale.Block = "0012"
	sale.Lot = "0012"
	sale.ZipCode = "01234"
	path := testutil.NewWorkbookBuilder(6).
		AddSale(sale).
		AddSale(testutil.DefaultSale(2021)).
		WriteSource(t, dir, src)

	table, err := NewLoader(nil, newResolver(), "").Load(context.Background(), src, path)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)

	col := func(name string) int {
		for i, c := range table.Columns {
			if c == name {
				return i
			}
		}
		t.Fatalf("column %s not projected", name)
		return -1
	}

	text := table.Records[0]
	assert.True(t, text.IsText(col(domain.ColumnBlock)))
	assert.True(t, text.IsText(col(domain.ColumnZipCode)))
	assert.False(t, text.IsText(col(domain.ColumnBorough)))
	assert.False(t, text.IsText(col(domain.ColumnSalePrice)), "only code columns carry a type")
	assert.False(t, table.Records[1].IsText(col(domain.ColumnBlock)))

	out, err := NewNormalizer(testutil.NewSilentLogger()).Normalize(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, out.Records, 2)

	assert.Equal(t, domain.Code("0012"), out.Records[0].Block)
	assert.Equal(t, domain.Code("0012"), out.Records[0].Lot)
	assert.Equal(t, domain.Code("01234"), out.Records[0].ZipCode)
	assert.Equal(t, domain.Code("716.0"), out.Records[1].Block)
	assert.Equal(t, domain.Code("10011.0"), out.Records[1].ZipCode)
}

func TestLoaderSkipsBlankRows(t *testing.T) {
	dir := t.TempDir()
	src := domain.Source{Year: 2018, Borough: domain.BoroughBrooklyn}
	path := testutil.NewWorkbookBuilder(4).
		AddSale(testutil.DefaultSale(2018)).
		AddBlankRow().
		AddSale(testutil.DefaultSale(2018)).
		WriteSource(t, dir, src)

	table, err := NewLoader(nil, newResolver(), "").Load(context.Background(), src, path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.RowsRead)
}

func TestLoaderErrors(t *testing.T) {
	src := domain.Source{Year: 2019, Borough: domain.BoroughBrooklyn}

	tests := []struct {
		name     string
		setup    func(t *testing.T, dir string) string
		loader   func() *Loader
		wantType apperrors.ErrorType
		wantMsg  string
	}{
		{
			name: "missing file",
			setup: func(t *testing.T, dir string) string {
				return filepath.Join(dir, src.FileName())
			},
			wantType: apperrors.ErrTypeSource,
		},
		{
			name: "not a workbook",
			setup: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, src.FileName())
				require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))
				return path
			},
			wantType: apperrors.ErrTypeSource,
		},
		{
			name: "missing allow-listed column",
			setup: func(t *testing.T, dir string) string {
				return testutil.NewWorkbookBuilder(4).
					WithoutHeader("GROSS SQUARE FEET").
					AddSale(testutil.DefaultSale(2019)).
					WriteSource(t, dir, src)
			},
			wantType: apperrors.ErrTypeSchema,
			wantMsg:  "GROSSSQUAREFEET",
		},
		{
			name: "missing easement column",
			setup: func(t *testing.T, dir string) string {
				return testutil.NewWorkbookBuilder(4).
					WithoutHeader("EASE-MENT").
					WriteSource(t, dir, src)
			},
			wantType: apperrors.ErrTypeSchema,
			wantMsg:  "EASE-MENT",
		},
		{
			name: "header at wrong offset",
			setup: func(t *testing.T, dir string) string {
				return testutil.NewWorkbookBuilder(6).
					AddSale(testutil.DefaultSale(2019)).
					WriteSource(t, dir, src)
			},
			wantType: apperrors.ErrTypeSchema,
		},
		{
			name: "sheet shorter than header offset",
			setup: func(t *testing.T, dir string) string {
				b := testutil.NewWorkbookBuilder(0)
				b.Headers = []string{"TITLE"}
				return b.WriteSource(t, dir, src)
			},
			wantType: apperrors.ErrTypeSchema,
		},
		{
			name: "named sheet absent",
			setup: func(t *testing.T, dir string) string {
				return testutil.NewWorkbookBuilder(4).WriteSource(t, dir, src)
			},
			loader: func() *Loader {
				return NewLoader(nil, newResolver(), "Rolling Sales")
			},
			wantType: apperrors.ErrTypeSchema,
		},
		{
			name: "year without header offset",
			setup: func(t *testing.T, dir string) string {
				return testutil.NewWorkbookBuilder(4).WriteSource(t, dir, src)
			},
			loader: func() *Loader {
				in := config.Default().Input
				in.HeaderOffsets = nil
				return NewLoader(nil, in, "")
			},
			wantType: apperrors.ErrTypeConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t, t.TempDir())
			loader := NewLoader(testutil.NewSilentLogger(), newResolver(), "")
			if tt.loader != nil {
				loader = tt.loader()
			}

			_, err := loader.Load(context.Background(), src, path)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 2019, appErr.Context["year"])
			assert.Equal(t, "Brooklyn", appErr.Context["borough"])
			assert.Equal(t, path, appErr.Context["path"])
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}

			// CheckHeader agrees with Load on structural failures
			assert.Error(t, loader.CheckHeader(src, path))
		})
	}
}

func TestCheckHeader(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(nil, newResolver(), "")

	for _, year := range []int{2018, 2021} {
		src := domain.Source{Year: year, Borough: domain.BoroughQueens}
		path := testutil.NewWorkbookBuilder(testutil.HeaderOffsetFor(year)).WriteSource(t, dir, src)
		assert.NoError(t, loader.CheckHeader(src, path), fmt.Sprint(year))
	}
}
