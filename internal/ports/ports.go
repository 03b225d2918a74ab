// Package ports declares the collaborators the reconciler depends on. The
// Stripe-backed and in-memory providers both satisfy Provider.
package ports

import (
	"context"
	"iter"
	"time"

	"payoutrecon/internal/core"
)

// PayoutLister enumerates payouts and the balance transactions they settle.
// Sequences are lazy and page through the upstream as they are consumed;
// a non-nil error ends the sequence.
type PayoutLister interface {
	// Payouts yields every payout created in [from, to).
	Payouts(ctx context.Context, from, to time.Time) iter.Seq2[core.Payout, error]
	// Transactions yields the balance transactions settled by one payout.
	Transactions(ctx context.Context, payoutID string) iter.Seq2[core.BalanceTransaction, error]
}

// RecordReader fetches the related records needed to attribute a
// transaction to a product.
type RecordReader interface {
	Refund(ctx context.Context, id string) (core.Refund, error)
	Charge(ctx context.Context, id string) (core.Charge, error)
	PaymentIntent(ctx context.Context, id string) (core.PaymentIntent, error)
	Invoice(ctx context.Context, id string) (core.Invoice, error)
	Product(ctx context.Context, id string) (core.Product, error)
	CheckoutSessions(ctx context.Context, paymentIntentID string) ([]core.CheckoutSession, error)
	CheckoutSessionLineItems(ctx context.Context, sessionID string) ([]core.LineItem, error)
}

// Provider is a full data source for a reconciliation run.
type Provider interface {
	PayoutLister
	RecordReader
}

// ReportExporter ships a completed report somewhere besides stdout.
type ReportExporter interface {
	Name() string
	Export(ctx context.Context, r *core.Report) error
}
