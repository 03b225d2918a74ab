// Package cli provides the bootstrap steps shared by the command: env
// loading, logging, configuration and wiring of the optional exporters.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"payoutrecon/internal/amqp"
	"payoutrecon/internal/config"
	"payoutrecon/internal/log"
	"payoutrecon/internal/ports"
	gsheet "payoutrecon/internal/sheets/google"
	"payoutrecon/internal/storage"
)

// SetupLogger initializes structured logging on w at the given level and
// sets it as the default logger. An unknown level falls back to info.
func SetupLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	cfg.Output = w
	logger := log.New(cfg)
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using info", log.FieldError, err)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig(logger *log.Logger) (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		return nil, err
	}
	return cfg, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// BuildExporters opens every exporter enabled in cfg. On failure the
// exporters opened so far are closed.
func BuildExporters(ctx context.Context, cfg *config.Config, logger *log.Logger) ([]ports.ReportExporter, error) {
	var exporters []ports.ReportExporter
	fail := func(err error) ([]ports.ReportExporter, error) {
		for _, e := range exporters {
			if c, ok := e.(io.Closer); ok {
				_ = c.Close()
			}
		}
		return nil, err
	}

	if cfg.ReportDBPath != "" {
		repo, err := storage.NewSQLiteRepository(cfg.ReportDBPath, logger)
		if err != nil {
			return fail(fmt.Errorf("initialize report archive: %w", err))
		}
		exporters = append(exporters, repo)
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
		if err != nil {
			return fail(fmt.Errorf("initialize AMQP client: %w", err))
		}
		exporters = append(exporters, client)
	}

	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetBase:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		}, logger)
		if err != nil {
			return fail(fmt.Errorf("initialize Google Sheets client: %w", err))
		}
		exporters = append(exporters, client)
	}

	names := make([]string, 0, len(exporters))
	for _, e := range exporters {
		names = append(names, e.Name())
	}
	logger.Info("Exporters configured", log.FieldCount, len(exporters), "exporters", names)

	return exporters, nil
}
