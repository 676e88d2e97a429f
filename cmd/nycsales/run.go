package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"nycsales/internal/analytics"
	"nycsales/internal/config"
	"nycsales/internal/dataprocessing"
	apperrors "nycsales/internal/errors"
	"nycsales/internal/exporter"
	"nycsales/internal/files"
	"nycsales/internal/infrastructure"
	"nycsales/internal/validation"
	"nycsales/pkg/contracts/domain"
)

type runFlags struct {
	inDir       string
	outDir      string
	concurrency int
	noProgress  bool
	noCSV       bool
	noWorkbook  bool
	noConsole   bool
}

func (c *cli) runCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load, clean and summarize every configured workbook",
		Example: `  nycsales run --in data --out reports
  NYCSALES_PROCESSING_CONCURRENCY=8 nycsales run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flags.apply(cmd, c.cfg); err != nil {
				return err
			}
			return c.run(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.inDir, "in", "", "input directory holding <year>_<borough>.xlsx files")
	cmd.Flags().StringVar(&flags.outDir, "out", "", "output directory for exports")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "workbooks loaded in parallel")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "disable the progress bar")
	cmd.Flags().BoolVar(&flags.noCSV, "no-csv", false, "skip the combined CSV export")
	cmd.Flags().BoolVar(&flags.noWorkbook, "no-workbook", false, "skip the summary workbook export")
	cmd.Flags().BoolVar(&flags.noConsole, "no-console", false, "do not print the summary tables")

	return cmd
}

// apply overlays explicitly set flags onto cfg and re-validates it
func (f runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("in") {
		cfg.Input.Dir = f.inDir
	}
	if cmd.Flags().Changed("out") {
		cfg.Output.Dir = f.outDir
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Processing.Concurrency = f.concurrency
	}
	if f.noCSV {
		cfg.Output.WriteCSV = false
	}
	if f.noWorkbook {
		cfg.Output.WriteWorkbook = false
	}
	if f.noConsole {
		cfg.Output.Console = false
	}

	if err := cfg.Validate(); err != nil {
		return apperrors.NewValidationError("invalid flags", err)
	}
	return nil
}

func (c *cli) run(ctx context.Context, flags runFlags) error {
	ctx = infrastructure.EnsureRunID(ctx)
	logger := c.logger
	cfg := c.cfg

	paths, err := config.NewPaths(cfg)
	if err != nil {
		return apperrors.NewConfigError("failed to resolve paths", err)
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(paths.InputDir); err != nil {
		return err
	}
	if err := paths.EnsureOutputDirectories(); err != nil {
		return apperrors.NewExportError("failed to create output directories", err)
	}
	if err := validator.ValidateOutputDirectory(paths.OutputDir); err != nil {
		return err
	}

	otelCfg, traceFile, err := infrastructure.OTelConfigFrom(cfg.Telemetry)
	if err != nil {
		return apperrors.NewConfigError("failed to configure telemetry", err)
	}
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		if traceFile != nil {
			traceFile.Close()
		}
		return apperrors.NewConfigError("failed to initialize telemetry", err)
	}
	if traceFile != nil {
		providers.AttachTraceFile(traceFile)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return apperrors.NewConfigError("failed to create metrics", err)
	}

	sources := cfg.Input.Sources()
	discovery := files.NewDiscovery(paths.InputDir)
	located, err := discovery.Locate(sources)
	if err != nil {
		return err
	}
	warnUnplanned(ctx, logger, discovery, sources)

	logger.InfoContext(ctx, "run started",
		slog.String("input_dir", paths.InputDir),
		slog.String("output_dir", paths.OutputDir),
		slog.Int("sources", len(located)),
		slog.Int("concurrency", cfg.Processing.Concurrency))

	opts := dataprocessing.PipelineOptions{
		Concurrency: cfg.Processing.Concurrency,
		Sheet:       cfg.Input.Sheet,
		Offsets:     cfg.Input,
		Tracer:      providers.Tracer,
		Metrics:     metrics,
	}
	var bar *progressbar.ProgressBar
	if !flags.noProgress {
		bar = newProgressBar(c, len(located))
		opts.Progress = func(int, int, domain.Source) {
			if err := bar.Add(1); err != nil {
				logger.Debug("failed to update progress bar", slog.String("error", err.Error()))
			}
		}
	}

	result, err := dataprocessing.NewPipeline(logger, opts).Run(ctx, located)
	if bar != nil {
		if err := bar.Finish(); err != nil {
			logger.Debug("failed to finish progress bar", slog.String("error", err.Error()))
		}
	}
	if err != nil {
		return err
	}

	aggStart := time.Now()
	ctx, span := providers.Tracer.Start(ctx, "pipeline.aggregate")
	report := analytics.NewAggregator(logger).Aggregate(ctx, analytics.FromDataset(result.Dataset))
	span.End()
	metrics.RecordStage(ctx, "aggregate", time.Since(aggStart))

	if err := c.export(ctx, paths, report, result); err != nil {
		return err
	}

	if err := providers.WriteMetrics(paths.MetricsFile); err != nil {
		logger.WarnContext(ctx, "failed to write metrics", slog.String("error", err.Error()))
	}

	if cfg.Output.Console {
		if err := exporter.NewConsoleReporter(c.stdout).Render(report, result); err != nil {
			return fmt.Errorf("failed to print report: %w", err)
		}
	}

	logger.InfoContext(ctx, "run completed",
		slog.Int("rows", result.Dataset.Len()),
		slog.Duration("duration", time.Since(result.StartedAt)))
	return nil
}

func (c *cli) export(ctx context.Context, paths *config.Paths, report *analytics.Report, result *dataprocessing.Result) error {
	if c.cfg.Output.WriteCSV {
		if _, err := exporter.NewCSVWriter(c.logger, paths).WriteSales(ctx, result.Dataset); err != nil {
			return err
		}
	}
	if c.cfg.Output.WriteWorkbook {
		if _, err := exporter.NewWorkbookExporter(c.logger, paths).Export(ctx, report, result); err != nil {
			return err
		}
	}
	return nil
}

// warnUnplanned logs workbooks in the input directory that no configured source uses
func warnUnplanned(ctx context.Context, logger *slog.Logger, discovery *files.Discovery, sources []domain.Source) {
	extra, err := discovery.Unplanned(sources)
	if err != nil {
		logger.WarnContext(ctx, "failed to list input directory", slog.String("error", err.Error()))
		return
	}
	for _, f := range extra {
		logger.WarnContext(ctx, "ignoring unplanned workbook", slog.String("file", f.Name))
	}
}

func newProgressBar(c *cli, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Loading workbooks...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.stderr)
		}),
	)
}
