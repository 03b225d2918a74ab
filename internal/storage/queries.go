package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type ReportRecord struct {
	RunID       string
	Period      string
	GeneratedAt time.Time
	TotalCents  int64
}

type ReportRowRecord struct {
	RunID       string
	Position    int64
	ProductID   string
	ProductName string
	AmountCents int64
}

type ReportPayoutRecord struct {
	RunID           string
	Position        int64
	PayoutID        string
	CreatedAt       time.Time
	AmountCents     int64
	AttributedCents int64
	Transactions    int64
}

const createReport = `INSERT INTO reports (run_id, period, generated_at, total_cents) VALUES (?, ?, ?, ?)`

func (q *Queries) CreateReport(ctx context.Context, arg ReportRecord) error {
	_, err := q.db.ExecContext(ctx, createReport, arg.RunID, arg.Period, arg.GeneratedAt.UTC(), arg.TotalCents)
	return err
}

const createReportRow = `INSERT INTO report_rows (run_id, position, product_id, product_name, amount_cents) VALUES (?, ?, ?, ?, ?)`

func (q *Queries) CreateReportRow(ctx context.Context, arg ReportRowRecord) error {
	_, err := q.db.ExecContext(ctx, createReportRow, arg.RunID, arg.Position, arg.ProductID, arg.ProductName, arg.AmountCents)
	return err
}

const createReportPayout = `INSERT INTO report_payouts (run_id, position, payout_id, created_at, amount_cents, attributed_cents, transactions) VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateReportPayout(ctx context.Context, arg ReportPayoutRecord) error {
	_, err := q.db.ExecContext(ctx, createReportPayout,
		arg.RunID, arg.Position, arg.PayoutID, arg.CreatedAt.UTC(), arg.AmountCents, arg.AttributedCents, arg.Transactions)
	return err
}

const getReport = `SELECT run_id, period, generated_at, total_cents FROM reports WHERE run_id = ?`

func (q *Queries) GetReport(ctx context.Context, runID string) (ReportRecord, error) {
	var r ReportRecord
	err := q.db.QueryRowContext(ctx, getReport, runID).Scan(&r.RunID, &r.Period, &r.GeneratedAt, &r.TotalCents)
	return r, err
}

const getReportRows = `SELECT run_id, position, product_id, product_name, amount_cents FROM report_rows WHERE run_id = ? ORDER BY position`

func (q *Queries) GetReportRows(ctx context.Context, runID string) ([]ReportRowRecord, error) {
	rows, err := q.db.QueryContext(ctx, getReportRows, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ReportRowRecord
	for rows.Next() {
		var i ReportRowRecord
		if err := rows.Scan(&i.RunID, &i.Position, &i.ProductID, &i.ProductName, &i.AmountCents); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getReportPayouts = `SELECT run_id, position, payout_id, created_at, amount_cents, attributed_cents, transactions FROM report_payouts WHERE run_id = ? ORDER BY position`

func (q *Queries) GetReportPayouts(ctx context.Context, runID string) ([]ReportPayoutRecord, error) {
	rows, err := q.db.QueryContext(ctx, getReportPayouts, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ReportPayoutRecord
	for rows.Next() {
		var i ReportPayoutRecord
		if err := rows.Scan(&i.RunID, &i.Position, &i.PayoutID, &i.CreatedAt, &i.AmountCents, &i.AttributedCents, &i.Transactions); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listRunIDsByPeriod = `SELECT run_id FROM reports WHERE period = ? ORDER BY generated_at`

func (q *Queries) ListRunIDsByPeriod(ctx context.Context, period string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listRunIDsByPeriod, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
