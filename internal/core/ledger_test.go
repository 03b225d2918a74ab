package core

import (
	"errors"
	"reflect"
	"testing"
)

func TestLedgerAddAccumulates(t *testing.T) {
	l := NewLedger()
	widget := Product{ID: "p1", Name: "Widget"}

	for _, amt := range []int64{9700, 500, -200} {
		if err := l.Add(widget, Cents(amt)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	rows := l.Revenue()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Amount != Cents(10000) || rows[0].Name != "Widget" || rows[0].ProductID != "p1" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	if l.Total() != Cents(10000) {
		t.Fatalf("Total = %v", l.Total())
	}
}

func TestLedgerInsertionOrder(t *testing.T) {
	l := NewLedger()
	adds := []struct {
		p   Product
		amt int64
	}{
		{Product{ID: "p2", Name: "Gadget"}, 100},
		{SyntheticProduct("stripe_fee"), -30},
		{Product{ID: "p1", Name: "Widget"}, 200},
		{Product{ID: "p2", Name: "Gadget"}, 100},
	}
	for _, a := range adds {
		if err := l.Add(a.p, Cents(a.amt)); err != nil {
			t.Fatalf("Add(%v): %v", a.p, err)
		}
	}

	want := []Revenue{
		{Name: "Gadget", ProductID: "p2", Amount: Cents(200)},
		{Name: "stripe_fee", ProductID: "stripe_fee", Amount: Cents(-30)},
		{Name: "Widget", ProductID: "p1", Amount: Cents(200)},
	}
	if got := l.Revenue(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Revenue() = %+v, want %+v", got, want)
	}
	if l.Len() != 3 {
		t.Fatalf("Len = %d", l.Len())
	}
}

func TestLedgerNameConflict(t *testing.T) {
	l := NewLedger()
	if err := l.Add(Product{ID: "p1", Name: "Widget"}, Cents(100)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	err := l.Add(Product{ID: "p1", Name: "Widget Pro"}, Cents(100))
	if !errors.Is(err, ErrLedgerNameConflict) {
		t.Fatalf("expected ErrLedgerNameConflict, got %v", err)
	}
	// The conflicting add must not change the stored row.
	if rows := l.Revenue(); rows[0].Amount != Cents(100) || rows[0].Name != "Widget" {
		t.Fatalf("row changed after conflict: %+v", rows[0])
	}
}

func TestLedgerRejectsIncompleteProduct(t *testing.T) {
	l := NewLedger()
	if err := l.Add(Product{ID: "p1"}, Cents(1)); !errors.Is(err, ErrLookupInconsistency) {
		t.Fatalf("expected ErrLookupInconsistency for missing name, got %v", err)
	}
	if err := l.Add(Product{Name: "Widget"}, Cents(1)); !errors.Is(err, ErrLookupInconsistency) {
		t.Fatalf("expected ErrLookupInconsistency for missing id, got %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("rejected products must not be inserted")
	}
}

func TestLedgerRevenueIsCopy(t *testing.T) {
	l := NewLedger()
	_ = l.Add(Product{ID: "p1", Name: "Widget"}, Cents(100))
	rows := l.Revenue()
	rows[0].Amount = Cents(999)
	if l.Total() != Cents(100) {
		t.Fatalf("mutating Revenue() result leaked into ledger")
	}
}
