package stripe

import (
	"time"

	stripego "github.com/stripe/stripe-go/v76"

	"payoutrecon/internal/core"
)

// Expandable references come back as objects carrying only an ID when not
// expanded, and as nil when absent. The converters collapse both to an id
// string, empty meaning absent.

func toPayout(p *stripego.Payout) core.Payout {
	return core.Payout{
		ID:      p.ID,
		Amount:  core.Cents(p.Amount),
		Created: time.Unix(p.Created, 0).UTC(),
	}
}

func toBalanceTransaction(t *stripego.BalanceTransaction) core.BalanceTransaction {
	out := core.BalanceTransaction{
		ID:     t.ID,
		Type:   string(t.Type),
		Amount: core.Cents(t.Amount),
		Fee:    core.Cents(t.Fee),
		Net:    core.Cents(t.Net),
	}
	if t.Source != nil {
		out.SourceID = t.Source.ID
	}
	return out
}

func toRefund(r *stripego.Refund) core.Refund {
	out := core.Refund{ID: r.ID}
	if r.PaymentIntent != nil {
		out.PaymentIntentID = r.PaymentIntent.ID
	}
	return out
}

func toCharge(c *stripego.Charge) core.Charge {
	out := core.Charge{ID: c.ID}
	if c.PaymentIntent != nil {
		out.PaymentIntentID = c.PaymentIntent.ID
	}
	return out
}

func toPaymentIntent(pi *stripego.PaymentIntent) core.PaymentIntent {
	out := core.PaymentIntent{ID: pi.ID}
	if pi.Invoice != nil {
		out.InvoiceID = pi.Invoice.ID
	}
	return out
}

func toInvoice(inv *stripego.Invoice) core.Invoice {
	out := core.Invoice{ID: inv.ID}
	if inv.Lines == nil {
		return out
	}
	for _, l := range inv.Lines.Data {
		out.Lines = append(out.Lines, toInvoiceLine(l))
	}
	return out
}

func toInvoiceLine(l *stripego.InvoiceLineItem) core.LineItem {
	out := core.LineItem{ID: l.ID}
	out.PriceID, out.ProductID = priceProduct(l.Price)
	return out
}

func toCheckoutSession(s *stripego.CheckoutSession) core.CheckoutSession {
	out := core.CheckoutSession{ID: s.ID}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	return out
}

func toLineItem(l *stripego.LineItem) core.LineItem {
	out := core.LineItem{ID: l.ID}
	out.PriceID, out.ProductID = priceProduct(l.Price)
	return out
}

func priceProduct(p *stripego.Price) (priceID, productID string) {
	if p == nil {
		return "", ""
	}
	if p.Product != nil {
		productID = p.Product.ID
	}
	return p.ID, productID
}
