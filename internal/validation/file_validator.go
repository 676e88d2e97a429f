package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "nycsales/internal/errors"
)

// FileValidator checks input and output locations before a run touches them
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputDirectory validates that the input directory exists
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("input directory does not exist", slog.String("directory", dir))
		return apperrors.NewSourceError("input directory does not exist", err).
			WithContext("directory", dir)
	}
	if err != nil {
		v.logger.Error("failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewSourceError("failed to stat input directory", err).
			WithContext("directory", dir)
	}
	if !info.IsDir() {
		v.logger.Error("input path is not a directory", slog.String("path", dir))
		return apperrors.NewSourceError(fmt.Sprintf("%s is not a directory", dir), nil).
			WithContext("directory", dir)
	}

	v.logger.Debug("input directory validated", slog.String("directory", dir))
	return nil
}

// ValidateOutputDirectory ensures the output directory exists and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewExportError("failed to create output directory", err).
			WithContext("directory", dir)
	}

	// Verify it's writable by creating a scratch file
	scratch := filepath.Join(dir, ".write_test")
	file, err := os.Create(scratch)
	if err != nil {
		v.logger.Error("output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewExportError("output directory is not writable", err).
			WithContext("directory", dir)
	}
	file.Close()
	os.Remove(scratch)

	v.logger.Debug("output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateFile checks that a workbook exists, is a regular file and can be opened
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return apperrors.NewNotFoundError(filepath.Base(path)).WithContext("path", path)
	}
	if err != nil {
		return apperrors.NewSourceError("failed to stat file", err).WithContext("path", path)
	}
	if info.IsDir() {
		return apperrors.NewSourceError("path is a directory, not a file", nil).WithContext("path", path)
	}
	if info.Size() == 0 {
		return apperrors.NewSourceError("file is empty", nil).WithContext("path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewSourceError("file is not readable", err).WithContext("path", path)
	}
	file.Close()

	v.logger.Debug("file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}
