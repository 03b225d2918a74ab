// Package reconcile walks a month of payouts, attributes every balance
// transaction to a product and checks that the ledger agrees with the
// payouts after each one.
package reconcile

import (
	"context"
	"fmt"

	"payoutrecon/internal/core"
	"payoutrecon/internal/log"
	"payoutrecon/internal/ports"
)

// Resolver turns one classified entry into its product attributions by
// following the related records the entry type calls for.
type Resolver struct {
	records ports.RecordReader
	logger  *log.Logger
}

func NewResolver(records ports.RecordReader, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Discard()
	}
	return &Resolver{records: records, logger: logger.WithComponent(log.ComponentResolver)}
}

// Resolve returns the attributions for e. Settlement entries yield none.
func (r *Resolver) Resolve(ctx context.Context, e core.Entry) ([]core.Attribution, error) {
	t := e.Transaction()

	switch e := e.(type) {
	case core.SettlementEntry:
		return nil, nil

	case core.RefundEntry:
		inv, err := r.refundInvoice(ctx, t, e.RefundID)
		if err != nil {
			return nil, err
		}
		line, err := singleLine("refund invoice", inv, inv.Lines)
		if err != nil {
			return nil, err
		}
		return r.attributeLines(ctx, t, line)

	case core.PaymentRefundEntry:
		inv, err := r.refundInvoice(ctx, t, e.RefundID)
		if err != nil {
			return nil, err
		}
		if len(inv.Lines) == 0 {
			return nil, core.NewRecordError("payment refund invoice", inv,
				fmt.Errorf("%w: invoice %s has no lines", core.ErrCardinalityViolation, inv.ID))
		}
		if len(inv.Lines) > 1 {
			r.logger.WarnContext(ctx, "payment refund spans several invoice lines, full net attributed to each",
				log.FieldTxnID, t.ID,
				"invoice_id", inv.ID,
				log.FieldLines, len(inv.Lines),
				log.FieldAmount, t.Net.Cents)
		}
		return r.attributeLines(ctx, t, inv.Lines...)

	case core.ChargeEntry:
		line, err := r.chargeLine(ctx, t, e.ChargeID)
		if err != nil {
			return nil, err
		}
		return r.attributeLines(ctx, t, line)

	case core.MinimumBalanceEntry, core.FeeEntry:
		return []core.Attribution{{Product: core.SyntheticProduct(t.Type), Amount: t.Net}}, nil
	}

	return nil, core.NewRecordError("resolve transaction", t,
		fmt.Errorf("%w: %q", core.ErrUnknownTransactionType, t.Type))
}

// refundInvoice follows refund -> payment intent -> invoice.
func (r *Resolver) refundInvoice(ctx context.Context, t core.BalanceTransaction, refundID string) (core.Invoice, error) {
	refund, err := r.records.Refund(ctx, refundID)
	if err != nil {
		return core.Invoice{}, core.NewRecordError("get refund", t, core.Upstream(err))
	}
	if refund.PaymentIntentID == "" {
		return core.Invoice{}, core.NewRecordError("get refund", refund,
			fmt.Errorf("%w: refund %s has no payment intent", core.ErrLookupInconsistency, refund.ID))
	}
	return r.intentInvoice(ctx, t, refund.PaymentIntentID)
}

// chargeLine follows charge -> payment intent, then prefers the checkout
// session's line item and falls back to the payment intent's invoice.
func (r *Resolver) chargeLine(ctx context.Context, t core.BalanceTransaction, chargeID string) (core.LineItem, error) {
	charge, err := r.records.Charge(ctx, chargeID)
	if err != nil {
		return core.LineItem{}, core.NewRecordError("get charge", t, core.Upstream(err))
	}
	if charge.PaymentIntentID == "" {
		return core.LineItem{}, core.NewRecordError("get charge", charge,
			fmt.Errorf("%w: charge %s has no payment intent", core.ErrLookupInconsistency, charge.ID))
	}

	sessions, err := r.records.CheckoutSessions(ctx, charge.PaymentIntentID)
	if err != nil {
		return core.LineItem{}, core.NewRecordError("list checkout sessions", charge, core.Upstream(err))
	}
	if len(sessions) > 0 {
		// A payment intent is completed by at most one session; the first
		// one returned is the one that paid.
		session := sessions[0]
		items, err := r.records.CheckoutSessionLineItems(ctx, session.ID)
		if err != nil {
			return core.LineItem{}, core.NewRecordError("list checkout session line items", session, core.Upstream(err))
		}
		return singleLine("checkout session line items", session, items)
	}

	inv, err := r.intentInvoice(ctx, t, charge.PaymentIntentID)
	if err != nil {
		return core.LineItem{}, err
	}
	return singleLine("charge invoice", inv, inv.Lines)
}

func (r *Resolver) intentInvoice(ctx context.Context, t core.BalanceTransaction, paymentIntentID string) (core.Invoice, error) {
	pi, err := r.records.PaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return core.Invoice{}, core.NewRecordError("get payment intent", t, core.Upstream(err))
	}
	if pi.InvoiceID == "" {
		return core.Invoice{}, core.NewRecordError("get payment intent", pi,
			fmt.Errorf("%w: payment intent %s has no invoice", core.ErrLookupInconsistency, pi.ID))
	}
	inv, err := r.records.Invoice(ctx, pi.InvoiceID)
	if err != nil {
		return core.Invoice{}, core.NewRecordError("get invoice", pi, core.Upstream(err))
	}
	return inv, nil
}

// attributeLines resolves each line's product and assigns it the full net.
func (r *Resolver) attributeLines(ctx context.Context, t core.BalanceTransaction, lines ...core.LineItem) ([]core.Attribution, error) {
	out := make([]core.Attribution, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == "" {
			return nil, core.NewRecordError("resolve line product", line,
				fmt.Errorf("%w: line %s has no product", core.ErrLookupInconsistency, line.ID))
		}
		p, err := r.records.Product(ctx, line.ProductID)
		if err != nil {
			return nil, core.NewRecordError("get product", line, core.Upstream(err))
		}
		out = append(out, core.Attribution{Product: p, Amount: t.Net})
	}
	return out, nil
}

func singleLine(op string, record any, lines []core.LineItem) (core.LineItem, error) {
	if len(lines) != 1 {
		return core.LineItem{}, core.NewRecordError(op, record,
			fmt.Errorf("%w: expected exactly one line, got %d", core.ErrCardinalityViolation, len(lines)))
	}
	return lines[0], nil
}
