// Command payout-report reconciles one month of Stripe payouts into
// per-product revenue and prints it as a table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"payoutrecon/internal/backend"
	"payoutrecon/internal/cli"
	"payoutrecon/internal/config"
	"payoutrecon/internal/core"
	"payoutrecon/internal/log"
	"payoutrecon/internal/report"
	"payoutrecon/internal/services"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(stderr, os.Getenv("LOG_LEVEL"))

	cfg, err := cli.LoadAndValidateConfig(logger)
	if err != nil {
		fmt.Fprintf(stderr, "payout-report: %v\n", err)
		return 1
	}
	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(stderr, "payout-report: %v\n", err)
		return 1
	}

	now := time.Now().In(loc)
	fs := flag.NewFlagSet("payout-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	year := fs.Int("year", now.Year(), "year of the report")
	month := fs.Int("month", int(now.Month()), "month of the report (1-12)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	period, err := core.NewPeriod(*year, *month, loc)
	if err != nil {
		fmt.Fprintf(stderr, "payout-report: %v\n", err)
		return 2
	}

	ctx, stop := cli.SignalContext(ctx)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "payout-report: %v\n", err)
		return 1
	}
	provider, err := backend.NewFactory(logger).CreateProvider(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize provider", log.FieldBackend, cfg.DataBackend, log.FieldError, err)
		fmt.Fprintf(stderr, "payout-report: %v\n", err)
		return 1
	}

	r, err := services.NewReportService(provider, logger).Generate(ctx, period)
	if err != nil {
		fmt.Fprintf(stderr, "payout-report: %v\n", err)
		return 1
	}

	report.WriteTable(stdout, r)

	return export(ctx, cfg, r, logger, stderr)
}

// export ships r to the configured exporters. The table has already been
// printed, so failures only affect the exit status.
func export(ctx context.Context, cfg *config.Config, r *core.Report, logger *log.Logger, stderr io.Writer) int {
	exporters, err := cli.BuildExporters(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize exporters", log.FieldError, err)
		fmt.Fprintf(stderr, "payout-report: %v\n", err)
		return 1
	}

	svc := services.NewExportService(exporters, cfg.ExportTimeout, logger)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("Failed to close exporters", log.FieldError, err)
		}
	}()

	if err := svc.Export(ctx, r); err != nil {
		fmt.Fprintf(stderr, "payout-report: export: %v\n", err)
		return 1
	}
	return 0
}
