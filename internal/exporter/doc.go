// Package exporter writes pipeline output.
//
// CSVWriter: core CSV writing with streaming and a UTF-8 BOM for Excel
// compatibility. WriteSales streams the unified sales table to
// combined/nyc_sales_clean.csv.
//
// WorkbookExporter: renders an analytics.Report into an xlsx workbook with one
// sheet per aggregate plus the drop and per-source accounting.
//
// ConsoleReporter: prints the run summary and the headline tables.
//
// Example usage:
//
//	csvWriter := exporter.NewCSVWriter(logger, paths)
//	path, err := csvWriter.WriteSales(ctx, result.Dataset)
//
//	workbook := exporter.NewWorkbookExporter(logger, paths)
//	path, err = workbook.Export(ctx, report, result)
package exporter
