// Command nycsales loads the NYC rolling sales workbooks, cleans and merges
// them, and writes the summary tables.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nycsales/internal/config"
	apperrors "nycsales/internal/errors"
	"nycsales/internal/infrastructure"
)

// cli carries the state shared by every subcommand
type cli struct {
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger *slog.Logger

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Clean and summarize NYC residential sales, 2018 to 2021",
		Long: `nycsales loads the yearly rolling sales workbooks for Manhattan, Brooklyn and
Queens, normalizes and merges them into one table, and summarizes sales before
and after 2020: period shares, price per square foot, market caps and
one-family transaction counts.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.initConfig,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default: ./nycsales.yaml or ./configs/nycsales.yaml)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(c.runCmd())
	root.AddCommand(c.checkCmd())
	root.AddCommand(versionCmd())

	return root
}

func (c *cli) initConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return apperrors.NewConfigError("failed to load configuration", err)
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
		if err := cfg.Validate(); err != nil {
			return apperrors.NewValidationError("invalid --log-level", err)
		}
	}
	c.cfg = cfg

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize logger", err)
	}
	c.logger = logger
	if path := infrastructure.LogFilePath(); path != "" {
		logger.Debug("logging to file", slog.String("path", path))
	}
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := runCLI(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// runCLI executes the root command and returns the process exit code. The log
// file is closed on success and failure alike.
func runCLI(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)

	if cerr := infrastructure.CloseLogFile(); cerr != nil {
		fmt.Fprintln(stderr, "failed to close log file:", cerr)
	}
	if err != nil {
		fmt.Fprintln(stderr, exitMessage(err))
		return exitCode(err)
	}
	return 0
}

// exitMessage prefixes the error with a hint for the error classes a user can fix
func exitMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case apperrors.IsType(err, apperrors.ErrTypeConfig), apperrors.IsType(err, apperrors.ErrTypeValidation):
		return "configuration error: " + err.Error()
	case apperrors.IsType(err, apperrors.ErrTypeSource), apperrors.IsType(err, apperrors.ErrTypeNotFound):
		return "input error: " + err.Error()
	case apperrors.IsType(err, apperrors.ErrTypeSchema):
		return "workbook layout error: " + err.Error()
	default:
		return "error: " + err.Error()
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return 130
	case apperrors.IsType(err, apperrors.ErrTypeConfig), apperrors.IsType(err, apperrors.ErrTypeValidation):
		return 2
	default:
		return 1
	}
}
