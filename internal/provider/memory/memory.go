// Package memory is an in-process Provider. It backs the tests and the
// offline "memory" backend, which loads its records from a JSON fixture.
package memory

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"payoutrecon/internal/core"
)

// ErrNotFound is returned for ids the store has never seen.
var ErrNotFound = errors.New("not found")

// PayoutsKey is the Fail key that breaks payout listing.
const PayoutsKey = "payouts"

type Store struct {
	mu       sync.Mutex
	payouts  []core.Payout
	txns     map[string][]core.BalanceTransaction
	refunds  map[string]core.Refund
	charges  map[string]core.Charge
	intents  map[string]core.PaymentIntent
	invoices map[string]core.Invoice
	products map[string]core.Product
	sessions map[string][]core.CheckoutSession // by payment intent
	items    map[string][]core.LineItem        // by session
	failures map[string]error
	lookups  map[string]int
}

func New() *Store {
	return &Store{
		txns:     make(map[string][]core.BalanceTransaction),
		refunds:  make(map[string]core.Refund),
		charges:  make(map[string]core.Charge),
		intents:  make(map[string]core.PaymentIntent),
		invoices: make(map[string]core.Invoice),
		products: make(map[string]core.Product),
		sessions: make(map[string][]core.CheckoutSession),
		items:    make(map[string][]core.LineItem),
		failures: make(map[string]error),
		lookups:  make(map[string]int),
	}
}

// AddPayout registers a payout and the transactions it settles, in order.
func (s *Store) AddPayout(p core.Payout, txns ...core.BalanceTransaction) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payouts = append(s.payouts, p)
	s.txns[p.ID] = append(s.txns[p.ID], txns...)
	return s
}

func (s *Store) AddRefund(r core.Refund) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refunds[r.ID] = r
	return s
}

func (s *Store) AddCharge(c core.Charge) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.charges[c.ID] = c
	return s
}

func (s *Store) AddPaymentIntent(pi core.PaymentIntent) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intents[pi.ID] = pi
	return s
}

func (s *Store) AddInvoice(inv core.Invoice) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.ID] = inv
	return s
}

func (s *Store) AddProduct(p core.Product) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return s
}

// AddCheckoutSession registers a session under its payment intent together
// with its line items.
func (s *Store) AddCheckoutSession(cs core.CheckoutSession, items ...core.LineItem) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[cs.PaymentIntentID] = append(s.sessions[cs.PaymentIntentID], cs)
	s.items[cs.ID] = append(s.items[cs.ID], items...)
	return s
}

// Fail makes every lookup keyed by id return err. For Transactions the key
// is the payout id; for CheckoutSessions it is the payment intent id.
func (s *Store) Fail(id string, err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[id] = err
	return s
}

// Lookups reports how many times id was requested.
func (s *Store) Lookups(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups[id]
}

func (s *Store) Payouts(_ context.Context, from, to time.Time) iter.Seq2[core.Payout, error] {
	s.mu.Lock()
	failure := s.failures[PayoutsKey]
	snapshot := append([]core.Payout(nil), s.payouts...)
	s.mu.Unlock()

	return func(yield func(core.Payout, error) bool) {
		for _, p := range snapshot {
			if p.Created.Before(from) || !p.Created.Before(to) {
				continue
			}
			if !yield(p, nil) {
				return
			}
		}
		if failure != nil {
			yield(core.Payout{}, failure)
		}
	}
}

func (s *Store) Transactions(_ context.Context, payoutID string) iter.Seq2[core.BalanceTransaction, error] {
	s.mu.Lock()
	s.lookups[payoutID]++
	failure := s.failures[payoutID]
	snapshot := append([]core.BalanceTransaction(nil), s.txns[payoutID]...)
	s.mu.Unlock()

	return func(yield func(core.BalanceTransaction, error) bool) {
		for _, t := range snapshot {
			if !yield(t, nil) {
				return
			}
		}
		// Failures surface after the delivered page, like a broken cursor.
		if failure != nil {
			yield(core.BalanceTransaction{}, failure)
		}
	}
}

func (s *Store) Refund(_ context.Context, id string) (core.Refund, error) {
	return lookup(s, s.refunds, "refund", id)
}

func (s *Store) Charge(_ context.Context, id string) (core.Charge, error) {
	return lookup(s, s.charges, "charge", id)
}

func (s *Store) PaymentIntent(_ context.Context, id string) (core.PaymentIntent, error) {
	return lookup(s, s.intents, "payment intent", id)
}

func (s *Store) Invoice(_ context.Context, id string) (core.Invoice, error) {
	inv, err := lookup(s, s.invoices, "invoice", id)
	if err != nil {
		return core.Invoice{}, err
	}
	inv.Lines = append([]core.LineItem(nil), inv.Lines...)
	return inv, nil
}

func (s *Store) Product(_ context.Context, id string) (core.Product, error) {
	return lookup(s, s.products, "product", id)
}

// CheckoutSessions returns an empty slice, not an error, when the payment
// intent has no session.
func (s *Store) CheckoutSessions(_ context.Context, paymentIntentID string) ([]core.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups[paymentIntentID]++
	if err := s.failures[paymentIntentID]; err != nil {
		return nil, err
	}
	return append([]core.CheckoutSession(nil), s.sessions[paymentIntentID]...), nil
}

func (s *Store) CheckoutSessionLineItems(_ context.Context, sessionID string) ([]core.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups[sessionID]++
	if err := s.failures[sessionID]; err != nil {
		return nil, err
	}
	return append([]core.LineItem(nil), s.items[sessionID]...), nil
}

func lookup[T any](s *Store, m map[string]T, kind, id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups[id]++
	var zero T
	if err := s.failures[id]; err != nil {
		return zero, err
	}
	v, ok := m[id]
	if !ok {
		return zero, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return v, nil
}
