package core

import (
	"strings"
	"time"
)

type (
	// Product is a sellable item, or a synthetic bucket for fees and holds.
	Product struct {
		ID   string
		Name string
	}

	// Payout is a single bank transfer settling the processor balance.
	Payout struct {
		ID      string
		Amount  Money
		Created time.Time
	}

	// BalanceTransaction is a raw ledger entry as returned by the processor.
	// Use Classify to turn it into a typed Entry.
	BalanceTransaction struct {
		ID       string
		Type     string
		Amount   Money
		Fee      Money
		Net      Money
		SourceID string // charge or refund id, empty when absent
	}

	Refund struct {
		ID              string
		PaymentIntentID string
	}

	Charge struct {
		ID              string
		PaymentIntentID string
	}

	PaymentIntent struct {
		ID        string
		InvoiceID string
	}

	Invoice struct {
		ID    string
		Lines []LineItem
	}

	// LineItem is an invoice line or a checkout session line; only the
	// price and its product matter for attribution.
	LineItem struct {
		ID        string
		PriceID   string
		ProductID string
	}

	CheckoutSession struct {
		ID              string
		PaymentIntentID string
	}

	// Attribution assigns an amount to a product.
	Attribution struct {
		Product Product
		Amount  Money
	}
)

// NetOfFee returns amount minus fee, the value a payout settles for this
// transaction.
func (t BalanceTransaction) NetOfFee() Money {
	return t.Amount.Sub(t.Fee)
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyProductID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyProductName
	}
	return nil
}

// SyntheticProduct buckets transactions that carry no product (fees,
// minimum balance holds) under their own type string.
func SyntheticProduct(txnType string) Product {
	return Product{ID: txnType, Name: txnType}
}
