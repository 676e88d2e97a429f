// Package dataprocessing turns the yearly borough rolling-sales workbooks into
// one analysis-ready table.
//
// # Architecture
//
// A run moves through four stages:
//
//  1. Loader: reads one workbook with excelize, finds the header at the
//     offset configured for the year and projects the column allow-list
//  2. Normalizer: types each row, casting numerically encoded categories
//     (borough, block, lot, zip, tax class, year built) to domain.Code and
//     dropping rows without a sale price or gross square footage
//  3. Merger: concatenates the per-source tables year-ascending, then in
//     borough order, and assigns fresh row ids
//  4. Enricher: derives sale year, period and borough name and applies the
//     final filter (apartment number, borough, year built, sale price)
//
// Pipeline wires the stages together. Sources are loaded in parallel with
// errgroup, but results are always merged in input order.
//
// # Usage
//
//	pipeline := dataprocessing.NewPipeline(logger, dataprocessing.PipelineOptions{
//		Concurrency: 4,
//		Offsets:     cfg.Input,
//	})
//	result, err := pipeline.Run(ctx, located)
//
// # Error Handling
//
// Structural problems (missing workbook, unreadable file, header without an
// allow-listed column) are fatal and returned as *errors.AppError carrying the
// year, borough and path. Data quality problems (unparseable year built,
// unknown borough code) become nulls and are counted in DropStats when the
// row is filtered out.
package dataprocessing
