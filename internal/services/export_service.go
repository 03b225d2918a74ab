package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"payoutrecon/internal/core"
	"payoutrecon/internal/log"
	"payoutrecon/internal/ports"
)

// ExportService ships a completed report to every configured exporter in
// parallel. One failing exporter does not cancel the others.
type ExportService struct {
	exporters []ports.ReportExporter
	timeout   time.Duration
	logger    *log.Logger
}

func NewExportService(exporters []ports.ReportExporter, timeout time.Duration, logger *log.Logger) *ExportService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ExportService{
		exporters: exporters,
		timeout:   timeout,
		logger:    logger.WithComponent(log.ComponentExport),
	}
}

// Len reports how many exporters are configured.
func (s *ExportService) Len() int {
	return len(s.exporters)
}

// Export runs all exporters and returns their failures joined.
func (s *ExportService) Export(ctx context.Context, r *core.Report) error {
	if len(s.exporters) == 0 {
		return nil
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	errs := make([]error, len(s.exporters))
	var g errgroup.Group
	for i, exp := range s.exporters {
		g.Go(func() error {
			start := time.Now()
			if err := exp.Export(ctx, r); err != nil {
				s.logger.ErrorContext(ctx, "export failed",
					log.FieldExporter, exp.Name(),
					log.FieldRunID, r.RunID,
					log.FieldError, err)
				errs[i] = fmt.Errorf("%s: %w", exp.Name(), err)
				return nil
			}
			s.logger.InfoContext(ctx, "report exported",
				log.FieldExporter, exp.Name(),
				log.FieldRunID, r.RunID,
				log.FieldDuration, time.Since(start).Milliseconds())
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Close releases exporters that hold connections.
func (s *ExportService) Close() error {
	var errs []error
	for _, exp := range s.exporters {
		if c, ok := exp.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", exp.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
