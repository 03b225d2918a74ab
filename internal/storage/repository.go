package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"payoutrecon/internal/core"
	"payoutrecon/internal/log"

	_ "modernc.org/sqlite"
)

// ErrReportNotFound is returned by GetReport for an unknown run id.
var ErrReportNotFound = errors.New("report not found")

// SQLiteRepository archives completed reports. Nothing in a run reads the
// archive back; it exists for audit and for comparing runs by hand.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Name() string { return "sqlite" }

// Export implements ports.ReportExporter.
func (r *SQLiteRepository) Export(ctx context.Context, rep *core.Report) error {
	return r.SaveReport(ctx, rep)
}

// SaveReport stores the report, its rows and its payout summaries in one
// transaction.
func (r *SQLiteRepository) SaveReport(ctx context.Context, rep *core.Report) error {
	if rep.RunID == "" {
		return errors.New("save report: empty run id")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.CreateReport(ctx, ReportRecord{
		RunID:       rep.RunID,
		Period:      rep.Period.String(),
		GeneratedAt: rep.GeneratedAt,
		TotalCents:  rep.Total.Cents,
	}); err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	for i, row := range rep.Rows {
		if err := q.CreateReportRow(ctx, ReportRowRecord{
			RunID:       rep.RunID,
			Position:    int64(i),
			ProductID:   row.ProductID,
			ProductName: row.Name,
			AmountCents: row.Amount.Cents,
		}); err != nil {
			return fmt.Errorf("create report row %s: %w", row.ProductID, err)
		}
	}

	for i, p := range rep.Payouts {
		if err := q.CreateReportPayout(ctx, ReportPayoutRecord{
			RunID:           rep.RunID,
			Position:        int64(i),
			PayoutID:        p.PayoutID,
			CreatedAt:       p.Created,
			AmountCents:     p.Amount.Cents,
			AttributedCents: p.Attributed.Cents,
			Transactions:    int64(p.Transactions),
		}); err != nil {
			return fmt.Errorf("create report payout %s: %w", p.PayoutID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit report: %w", err)
	}

	r.logger.InfoContext(ctx, "Report archived",
		log.FieldRunID, rep.RunID,
		log.FieldPeriod, rep.Period.String(),
		log.FieldCount, len(rep.Rows))
	return nil
}

// GetReport loads an archived report. The period comes back in UTC.
func (r *SQLiteRepository) GetReport(ctx context.Context, runID string) (*core.Report, error) {
	rec, err := r.queries.GetReport(ctx, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	period, err := parsePeriod(rec.Period)
	if err != nil {
		return nil, err
	}

	rep := &core.Report{
		RunID:       rec.RunID,
		Period:      period,
		GeneratedAt: rec.GeneratedAt,
		Total:       core.Cents(rec.TotalCents),
	}

	rows, err := r.queries.GetReportRows(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get report rows: %w", err)
	}
	for _, row := range rows {
		rep.Rows = append(rep.Rows, core.Revenue{
			Name:      row.ProductName,
			ProductID: row.ProductID,
			Amount:    core.Cents(row.AmountCents),
		})
	}

	payouts, err := r.queries.GetReportPayouts(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get report payouts: %w", err)
	}
	for _, p := range payouts {
		rep.Payouts = append(rep.Payouts, core.PayoutSummary{
			PayoutID:     p.PayoutID,
			Created:      p.CreatedAt,
			Amount:       core.Cents(p.AmountCents),
			Attributed:   core.Cents(p.AttributedCents),
			Transactions: int(p.Transactions),
		})
	}

	return rep, nil
}

// ListRuns returns the run ids archived for a period, oldest first.
func (r *SQLiteRepository) ListRuns(ctx context.Context, period core.Period) ([]string, error) {
	ids, err := r.queries.ListRunIDsByPeriod(ctx, period.String())
	if err != nil {
		return nil, fmt.Errorf("list runs for %s: %w", period, err)
	}
	return ids, nil
}

func parsePeriod(s string) (core.Period, error) {
	y, m, ok := strings.Cut(s, "-")
	if !ok {
		return core.Period{}, fmt.Errorf("invalid stored period %q", s)
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return core.Period{}, fmt.Errorf("invalid stored period %q: %w", s, err)
	}
	month, err := strconv.Atoi(m)
	if err != nil {
		return core.Period{}, fmt.Errorf("invalid stored period %q: %w", s, err)
	}
	return core.NewPeriod(year, month, nil)
}
