package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"nycsales/internal/config"
	"nycsales/internal/dataprocessing"
	apperrors "nycsales/internal/errors"
	"nycsales/internal/files"
	"nycsales/internal/infrastructure"
	"nycsales/internal/validation"
	"nycsales/pkg/contracts/domain"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// errCheckFailed is returned when at least one workbook fails its preflight
var errCheckFailed = errors.New("preflight check failed")

func (c *cli) checkCmd() *cobra.Command {
	var inDir string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify every configured workbook exists and carries the expected header",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("in") {
				c.cfg.Input.Dir = inDir
			}
			return c.check(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&inDir, "in", "", "input directory holding <year>_<borough>.xlsx files")
	return cmd
}

func (c *cli) check(ctx context.Context) error {
	paths, err := config.NewPaths(c.cfg)
	if err != nil {
		return apperrors.NewConfigError("failed to resolve paths", err)
	}

	fileValidator := validation.NewFileValidator(c.logger)
	if err := fileValidator.ValidateInputDirectory(paths.InputDir); err != nil {
		return err
	}

	sources := c.cfg.Input.Sources()
	discovery := files.NewDiscovery(paths.InputDir)
	loader := dataprocessing.NewLoader(c.logger, c.cfg.Input, c.cfg.Input.Sheet)

	failed := 0
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := discovery.PathFor(src)
		err := fileValidator.ValidateFile(path)
		if err == nil {
			err = loader.CheckHeader(src, path)
		}
		if err != nil {
			failed++
			infrastructure.WithError(c.logger, err).ErrorContext(ctx, "preflight failed",
				slog.String("source", src.String()))
		}
		printCheck(c.stdout, src, err)
	}

	warnUnplanned(ctx, c.logger, discovery, sources)

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d workbooks", errCheckFailed, failed, len(sources))
	}
	fmt.Fprintf(c.stdout, "%s %d workbooks ready\n", okStyle.Render("ok"), len(sources))
	return nil
}

func printCheck(w io.Writer, src domain.Source, err error) {
	if err != nil {
		fmt.Fprintf(w, "%s %s: %v\n", failStyle.Render("FAIL"), src.FileName(), err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", okStyle.Render("ok  "), src.FileName())
}
