package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"payoutrecon/internal/core"
)

// Fixture is the JSON document accepted by LoadFixture. Amounts are cents.
type Fixture struct {
	Payouts []struct {
		ID           string    `json:"id"`
		Amount       int64     `json:"amount"`
		Created      time.Time `json:"created"`
		Transactions []struct {
			ID     string `json:"id"`
			Type   string `json:"type"`
			Amount int64  `json:"amount"`
			Fee    int64  `json:"fee"`
			Net    *int64 `json:"net,omitempty"` // defaults to amount - fee
			Source string `json:"source,omitempty"`
		} `json:"transactions"`
	} `json:"payouts"`
	Refunds []struct {
		ID            string `json:"id"`
		PaymentIntent string `json:"payment_intent"`
	} `json:"refunds"`
	Charges []struct {
		ID            string `json:"id"`
		PaymentIntent string `json:"payment_intent"`
	} `json:"charges"`
	PaymentIntents []struct {
		ID      string `json:"id"`
		Invoice string `json:"invoice"`
	} `json:"payment_intents"`
	Invoices []struct {
		ID    string        `json:"id"`
		Lines []fixtureLine `json:"lines"`
	} `json:"invoices"`
	Products []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"products"`
	CheckoutSessions []struct {
		ID            string        `json:"id"`
		PaymentIntent string        `json:"payment_intent"`
		LineItems     []fixtureLine `json:"line_items"`
	} `json:"checkout_sessions"`
}

type fixtureLine struct {
	ID      string `json:"id"`
	Price   string `json:"price"`
	Product string `json:"product"`
}

// LoadFixture reads a JSON fixture file into a new Store.
func LoadFixture(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return f.Store(), nil
}

// Store builds a Store holding every record in the fixture.
func (f Fixture) Store() *Store {
	s := New()
	for _, p := range f.Payouts {
		txns := make([]core.BalanceTransaction, 0, len(p.Transactions))
		for _, t := range p.Transactions {
			net := t.Amount - t.Fee
			if t.Net != nil {
				net = *t.Net
			}
			txns = append(txns, core.BalanceTransaction{
				ID:       t.ID,
				Type:     t.Type,
				Amount:   core.Cents(t.Amount),
				Fee:      core.Cents(t.Fee),
				Net:      core.Cents(net),
				SourceID: t.Source,
			})
		}
		s.AddPayout(core.Payout{ID: p.ID, Amount: core.Cents(p.Amount), Created: p.Created}, txns...)
	}
	for _, r := range f.Refunds {
		s.AddRefund(core.Refund{ID: r.ID, PaymentIntentID: r.PaymentIntent})
	}
	for _, c := range f.Charges {
		s.AddCharge(core.Charge{ID: c.ID, PaymentIntentID: c.PaymentIntent})
	}
	for _, pi := range f.PaymentIntents {
		s.AddPaymentIntent(core.PaymentIntent{ID: pi.ID, InvoiceID: pi.Invoice})
	}
	for _, inv := range f.Invoices {
		s.AddInvoice(core.Invoice{ID: inv.ID, Lines: lineItems(inv.Lines)})
	}
	for _, p := range f.Products {
		s.AddProduct(core.Product{ID: p.ID, Name: p.Name})
	}
	for _, cs := range f.CheckoutSessions {
		s.AddCheckoutSession(core.CheckoutSession{ID: cs.ID, PaymentIntentID: cs.PaymentIntent}, lineItems(cs.LineItems)...)
	}
	return s
}

func lineItems(in []fixtureLine) []core.LineItem {
	out := make([]core.LineItem, 0, len(in))
	for _, l := range in {
		out = append(out, core.LineItem{ID: l.ID, PriceID: l.Price, ProductID: l.Product})
	}
	return out
}
