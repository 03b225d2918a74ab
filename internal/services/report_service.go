package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"payoutrecon/internal/cache"
	"payoutrecon/internal/core"
	"payoutrecon/internal/log"
	"payoutrecon/internal/ports"
	"payoutrecon/internal/reconcile"
)

// cacheReporter is implemented by providers that memoize lookups.
type cacheReporter interface {
	CacheStats() cache.Stats
}

// ReportService runs one reconciliation and stamps the result with run
// metadata.
type ReportService struct {
	provider   ports.Provider
	reconciler *reconcile.Reconciler
	logger     *log.Logger

	now   func() time.Time
	newID func() string
}

func NewReportService(provider ports.Provider, logger *log.Logger) *ReportService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ReportService{
		provider:   provider,
		reconciler: reconcile.NewReconciler(provider, logger),
		logger:     logger.WithComponent(log.ComponentReport),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Generate reconciles period. Any error aborts the run and no report is
// returned.
func (s *ReportService) Generate(ctx context.Context, period core.Period) (*core.Report, error) {
	runID := s.newID()
	start := s.now()

	s.logger.InfoContext(ctx, "starting reconciliation run",
		log.FieldRunID, runID,
		log.FieldPeriod, period.String())

	report, err := s.reconciler.Run(ctx, period)
	if err != nil {
		s.logger.ErrorContext(ctx, "reconciliation run failed",
			log.FieldRunID, runID,
			log.FieldPeriod, period.String(),
			log.FieldError, err)
		return nil, fmt.Errorf("reconcile %s: %w", period, err)
	}

	report.RunID = runID
	report.GeneratedAt = s.now()

	if cr, ok := s.provider.(cacheReporter); ok {
		stats := cr.CacheStats()
		s.logger.DebugContext(ctx, "product cache stats",
			log.FieldRunID, runID,
			"hits", stats.Hits,
			"misses", stats.Misses,
			"evictions", stats.Evictions,
			"hit_ratio", stats.HitRatio())
	}

	s.logger.InfoContext(ctx, "reconciliation run completed",
		log.FieldRunID, runID,
		log.FieldPeriod, period.String(),
		log.FieldCount, len(report.Payouts),
		"total_cents", report.Total.Cents,
		log.FieldDuration, report.GeneratedAt.Sub(start).Milliseconds())

	return report, nil
}
