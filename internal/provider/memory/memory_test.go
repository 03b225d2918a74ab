package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"payoutrecon/internal/core"
)

func TestPayoutsFiltersByRange(t *testing.T) {
	s := New().
		AddPayout(core.Payout{ID: "po_apr", Created: time.Date(2024, 4, 30, 23, 0, 0, 0, time.UTC)}).
		AddPayout(core.Payout{ID: "po_may", Created: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}).
		AddPayout(core.Payout{ID: "po_jun", Created: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)})

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for p, err := range s.Payouts(context.Background(), from, to) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, p.ID)
	}
	if len(ids) != 1 || ids[0] != "po_may" {
		t.Fatalf("expected only po_may, got %v", ids)
	}
}

func TestLookupNotFoundAndFailure(t *testing.T) {
	boom := errors.New("boom")
	s := New().AddCharge(core.Charge{ID: "ch_1", PaymentIntentID: "pi_1"}).Fail("ch_2", boom)

	if _, err := s.Charge(context.Background(), "ch_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Charge(context.Background(), "ch_2"); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	c, err := s.Charge(context.Background(), "ch_1")
	if err != nil || c.PaymentIntentID != "pi_1" {
		t.Fatalf("unexpected charge: %+v err=%v", c, err)
	}
	if s.Lookups("ch_1") != 1 {
		t.Fatalf("lookups = %d", s.Lookups("ch_1"))
	}
}

func TestTransactionsFailureAfterPage(t *testing.T) {
	boom := errors.New("cursor expired")
	s := New().
		AddPayout(core.Payout{ID: "po_1"}, core.BalanceTransaction{ID: "t1", Type: "stripe_fee"}).
		Fail("po_1", boom)

	var seen int
	var gotErr error
	for _, err := range s.Transactions(context.Background(), "po_1") {
		if err != nil {
			gotErr = err
			break
		}
		seen++
	}
	if seen != 1 || !errors.Is(gotErr, boom) {
		t.Fatalf("seen=%d err=%v", seen, gotErr)
	}
}

func TestInvoiceLinesAreCopied(t *testing.T) {
	s := New().AddInvoice(core.Invoice{ID: "in_1", Lines: []core.LineItem{{ID: "il_1", ProductID: "p1"}}})
	inv, _ := s.Invoice(context.Background(), "in_1")
	inv.Lines[0].ProductID = "changed"
	again, _ := s.Invoice(context.Background(), "in_1")
	if again.Lines[0].ProductID != "p1" {
		t.Fatalf("store leaked its invoice lines")
	}
}

func TestLoadFixture(t *testing.T) {
	s, err := LoadFixture(filepath.Join("testdata", "may2024.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	var txns []core.BalanceTransaction
	for txn, err := range s.Transactions(context.Background(), "po_1") {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		txns = append(txns, txn)
	}
	if len(txns) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txns))
	}
	if txns[1].Net != core.Cents(9700) || txns[1].SourceID != "ch_1" {
		t.Fatalf("net should default to amount - fee: %+v", txns[1])
	}

	sessions, err := s.CheckoutSessions(context.Background(), "pi_2")
	if err != nil || len(sessions) != 1 || sessions[0].ID != "cs_2" {
		t.Fatalf("sessions=%v err=%v", sessions, err)
	}
	items, _ := s.CheckoutSessionLineItems(context.Background(), "cs_2")
	if len(items) != 1 || items[0].ProductID != "p2" {
		t.Fatalf("unexpected line items: %v", items)
	}
}

func TestLoadFixtureErrors(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFixture(bad); err == nil {
		t.Fatalf("expected parse error")
	}
}
