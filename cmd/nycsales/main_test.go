package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"nycsales/internal/config"
	apperrors "nycsales/internal/errors"
	"nycsales/internal/exporter"
	"nycsales/internal/infrastructure"
	"nycsales/internal/shared/testutil"
	"nycsales/pkg/contracts/domain"
)

var boroughCodes = map[domain.Borough]int{
	domain.BoroughManhattan: 1,
	domain.BoroughBrooklyn:  3,
	domain.BoroughQueens:    4,
}

func salesFor(src domain.Source) []testutil.Sale {
	sale := testutil.DefaultSale(src.Year)
	sale.BoroughCode = boroughCodes[src.Borough]
	return []testutil.Sale{sale}
}

// writeConfig writes a config file pointing at fresh input and output dirs
func writeConfig(t *testing.T, extra string) (cfgPath, inDir, outDir string) {
	t.Helper()
	root := t.TempDir()
	inDir = filepath.Join(root, "in")
	outDir = filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(inDir, 0755))

	cfgPath = filepath.Join(root, "nycsales.yaml")
	body := fmt.Sprintf(`input:
  dir: %q
output:
  dir: %q
  metrics_file: metrics.prom
logging:
  level: warn
  output: console
%s`, inDir, outDir, extra)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0644))
	return cfgPath, inDir, outDir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, config.AppName+" "+config.AppVersion)
}

func TestRunCommand(t *testing.T) {
	cfgPath, inDir, outDir := writeConfig(t, "")
	testutil.WriteSources(t, inDir, config.Default().Input.Sources(), salesFor)

	stdout, _, err := execute(t, "run", "--config", cfgPath, "--no-progress", "--concurrency", "3")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Share of tax class 2 sales")
	assert.Contains(t, stdout, "Mean price per square foot")
	// every default sale is 500000 for 1000 sq ft
	assert.Contains(t, stdout, "500.00")

	csvPath := filepath.Join(outDir, config.CombinedDirName, config.CombinedCSVName)
	assert.FileExists(t, csvPath)
	assert.FileExists(t, filepath.Join(outDir, "metrics.prom"))

	f, err := excelize.OpenFile(filepath.Join(outDir, config.SummaryDirName, config.SummaryWorkbookName))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, exporter.SummarySheets, f.GetSheetList())

	sources, err := f.GetRows(exporter.SheetSources)
	require.NoError(t, err)
	assert.Len(t, sources, 13)
}

// failingWriter rejects every write
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write on closed pipe")
}

func TestRunCommandIgnoresProgressWriteErrors(t *testing.T) {
	cfgPath, inDir, outDir := writeConfig(t, "")
	testutil.WriteSources(t, inDir, config.Default().Input.Sources(), salesFor)
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	var out bytes.Buffer
	cmd := newRootCmd(&out, failingWriter{})
	cmd.SetArgs([]string{"run", "--config", cfgPath})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "Mean price per square foot")
	assert.FileExists(t, filepath.Join(outDir, config.CombinedDirName, config.CombinedCSVName))
}

func TestRunCLIClosesLogFileOnFailure(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	root := t.TempDir()
	inDir := filepath.Join(root, "in")
	require.NoError(t, os.MkdirAll(inDir, 0755))
	logFile := filepath.Join(root, "logs", "nycsales.log")
	cfgPath := filepath.Join(root, "nycsales.yaml")
	body := fmt.Sprintf(`input:
  dir: %q
output:
  dir: %q
logging:
  level: debug
  output: file
  file_path: %q
`, inDir, filepath.Join(root, "out"), logFile)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0644))

	var out, errOut bytes.Buffer
	code := runCLI(context.Background(), []string{"run", "--config", cfgPath, "--no-progress"}, &out, &errOut)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "input error: ")
	assert.Contains(t, errOut.String(), "missing=")
	assert.Empty(t, infrastructure.LogFilePath(), "log file should be closed after a failed run")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "logging to file")
}

func TestRunCLISuccess(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	var out, errOut bytes.Buffer
	assert.Equal(t, 0, runCLI(context.Background(), []string{"version"}, &out, &errOut))
	assert.Contains(t, out.String(), config.AppVersion)
	assert.Empty(t, errOut.String())
}

func TestRunCommandSkipsDisabledExports(t *testing.T) {
	cfgPath, inDir, outDir := writeConfig(t, "")
	testutil.WriteSources(t, inDir, config.Default().Input.Sources(), salesFor)

	stdout, _, err := execute(t, "run", "--config", cfgPath, "--no-progress", "--no-csv", "--no-workbook", "--no-console")
	require.NoError(t, err)

	assert.Empty(t, stdout)
	assert.NoFileExists(t, filepath.Join(outDir, config.CombinedDirName, config.CombinedCSVName))
	assert.NoFileExists(t, filepath.Join(outDir, config.SummaryDirName, config.SummaryWorkbookName))
}

func TestRunCommandMissingSource(t *testing.T) {
	cfgPath, inDir, _ := writeConfig(t, "")
	sources := config.Default().Input.Sources()
	testutil.WriteSources(t, inDir, sources[1:], salesFor)

	_, _, err := execute(t, "run", "--config", cfgPath, "--no-progress")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSource))
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, sources[0].FileName(), appErr.Context["missing"])
	assert.Equal(t, 1, exitCode(err))

	msg := exitMessage(err)
	assert.True(t, strings.HasPrefix(msg, "input error: "), msg)
	assert.Contains(t, msg, "missing="+sources[0].FileName())
	assert.Contains(t, msg, "directory="+inDir)
}

func TestRunCommandInvalidFlags(t *testing.T) {
	cfgPath, _, _ := writeConfig(t, "")

	_, _, err := execute(t, "run", "--config", cfgPath, "--concurrency", "0")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	assert.Equal(t, 2, exitCode(err))
}

func TestCheckCommand(t *testing.T) {
	cfgPath, inDir, _ := writeConfig(t, "")
	sources := config.Default().Input.Sources()
	testutil.WriteSources(t, inDir, sources, salesFor)

	stdout, _, err := execute(t, "check", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "12 workbooks ready")
}

func TestCheckCommandReportsEveryFailure(t *testing.T) {
	cfgPath, inDir, _ := writeConfig(t, "")
	sources := config.Default().Input.Sources()
	testutil.WriteSources(t, inDir, sources[2:], salesFor)

	// header without the sale price column
	testutil.NewWorkbookBuilder(testutil.HeaderOffsetFor(sources[1].Year)).
		WithoutHeader("SALE PRICE").
		AddSale(testutil.DefaultSale(sources[1].Year)).
		WriteSource(t, inDir, sources[1])

	stdout, _, err := execute(t, "check", "--config", cfgPath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errCheckFailed))
	assert.Contains(t, err.Error(), "2 of 12")
	assert.Contains(t, stdout, sources[0].FileName())
	assert.Contains(t, stdout, "[NOT_FOUND]")
	assert.Contains(t, stdout, "SALEPRICE")
}

func TestExitMessage(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		prefix string
		code   int
	}{
		{name: "config", err: apperrors.NewConfigError("bad", nil), prefix: "configuration error", code: 2},
		{name: "source", err: apperrors.NewSourceError("missing", nil), prefix: "input error", code: 1},
		{name: "not found", err: apperrors.NewNotFoundError("2018_queens.xlsx"), prefix: "input error: [NOT_FOUND] 2018_queens.xlsx not found", code: 1},
		{name: "validation", err: apperrors.NewValidationError("invalid flags", nil), prefix: "configuration error", code: 2},
		{name: "schema", err: fmt.Errorf("load: %w", apperrors.NewSchemaError("header", nil)), prefix: "workbook layout error", code: 1},
		{name: "canceled", err: context.Canceled, prefix: "interrupted", code: 130},
		{name: "other", err: errors.New("boom"), prefix: "error: boom", code: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, exitMessage(tt.err), tt.prefix)
			assert.Equal(t, tt.code, exitCode(tt.err))
		})
	}
}
