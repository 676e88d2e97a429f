package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"nycsales/internal/config"
	"nycsales/internal/dataprocessing"
	apperrors "nycsales/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger, paths *config.Paths) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger.With("component", "csv_writer")}
}

// StreamWriter writes a CSV file one record at a time
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
	rows   int
}

// CreateStreamWriter creates the file, writes the BOM and the header row
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	fullPath := w.resolvePath(filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := file.Write(utf8BOM); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	if err := s.writer.Write(record); err != nil {
		return err
	}
	s.rows++
	return nil
}

// Rows returns the number of records written so far, header excluded
func (s *StreamWriter) Rows() int {
	return s.rows
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// WriteSales streams the unified table to the combined CSV and returns its path
func (w *CSVWriter) WriteSales(ctx context.Context, ds *dataprocessing.Dataset) (string, error) {
	path := w.paths.CombinedCSV

	stream, err := w.CreateStreamWriter(path, SalesHeaders)
	if err != nil {
		return "", apperrors.NewExportError("failed to create sales csv", err).
			WithContext("path", path)
	}

	for i := 0; i < ds.Len(); i++ {
		if err := stream.WriteRecord(SalesRow(ds.At(i))); err != nil {
			stream.Close()
			return "", apperrors.NewExportError("failed to write sales csv", err).
				WithContext("path", path).
				WithContext("row", i)
		}
	}

	if err := stream.Close(); err != nil {
		return "", apperrors.NewExportError("failed to close sales csv", err).
			WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "sales csv written",
		slog.String("path", path),
		slog.Int("rows", stream.Rows()))
	return path, nil
}

// resolvePath places relative paths under the output directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return filepath.Join(w.paths.OutputDir, filePath)
}
