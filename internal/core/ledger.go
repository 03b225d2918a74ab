package core

import "fmt"

// Revenue is one ledger row: cumulative revenue attributed to a product.
type Revenue struct {
	Name      string
	ProductID string
	Amount    Money
}

// Ledger accumulates revenue per product id in first-insertion order.
// It is increment-only and is not safe for concurrent use; a reconciliation
// run owns exactly one.
type Ledger struct {
	order   []string
	entries map[string]*Revenue
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]*Revenue)}
}

// Add attributes amount to product. A product id already in the ledger must
// arrive with the same name it was first recorded with.
func (l *Ledger) Add(p Product, amount Money) error {
	if err := p.Validate(); err != nil {
		return NewRecordError("ledger add", p, err)
	}
	if r, ok := l.entries[p.ID]; ok {
		if r.Name != p.Name {
			return NewRecordError("ledger add", p,
				fmt.Errorf("%w: id=%s: %q vs %q", ErrLedgerNameConflict, p.ID, r.Name, p.Name))
		}
		r.Amount = r.Amount.Add(amount)
		return nil
	}
	l.entries[p.ID] = &Revenue{Name: p.Name, ProductID: p.ID, Amount: amount}
	l.order = append(l.order, p.ID)
	return nil
}

// Revenue returns a copy of the rows in first-insertion order.
func (l *Ledger) Revenue() []Revenue {
	out := make([]Revenue, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.entries[id])
	}
	return out
}

// Total is the sum of all rows.
func (l *Ledger) Total() Money {
	var total Money
	for _, id := range l.order {
		total = total.Add(l.entries[id].Amount)
	}
	return total
}

func (l *Ledger) Len() int {
	return len(l.order)
}
