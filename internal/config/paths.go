package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every file system location a run touches.
// Relative configuration values resolve against the working directory.
type Paths struct {
	InputDir    string
	OutputDir   string
	CombinedDir string
	SummaryDir  string

	CombinedCSV     string
	SummaryWorkbook string
	MetricsFile     string
}

// NewPaths resolves the configured directories to absolute paths
func NewPaths(cfg *Config) (*Paths, error) {
	inputDir, err := filepath.Abs(cfg.Input.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input dir %s: %w", cfg.Input.Dir, err)
	}
	outputDir, err := filepath.Abs(cfg.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir %s: %w", cfg.Output.Dir, err)
	}

	combinedDir := filepath.Join(outputDir, CombinedDirName)
	summaryDir := filepath.Join(outputDir, SummaryDirName)

	paths := &Paths{
		InputDir:        inputDir,
		OutputDir:       outputDir,
		CombinedDir:     combinedDir,
		SummaryDir:      summaryDir,
		CombinedCSV:     filepath.Join(combinedDir, CombinedCSVName),
		SummaryWorkbook: filepath.Join(summaryDir, SummaryWorkbookName),
	}

	if cfg.Output.MetricsFile != "" {
		metricsFile := cfg.Output.MetricsFile
		if !filepath.IsAbs(metricsFile) {
			metricsFile = filepath.Join(outputDir, metricsFile)
		}
		paths.MetricsFile = metricsFile
	}

	return paths, nil
}

// EnsureOutputDirectories creates the output tree if it doesn't exist
func (p *Paths) EnsureOutputDirectories() error {
	directories := []string{
		p.OutputDir,
		p.CombinedDir,
		p.SummaryDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}
