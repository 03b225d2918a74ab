package core

import (
	"fmt"
	"strings"
)

// Balance transaction types the reconciler knows how to attribute.
const (
	TypePayout         = "payout"
	TypeRefund         = "refund"
	TypePaymentRefund  = "payment_refund"
	TypeCharge         = "charge"
	TypePayment        = "payment"
	TypeStripeFee      = "stripe_fee"
	TypeMinimumBalance = "payout_minimum_balance" // prefix, e.g. payout_minimum_balance_hold
)

// Entry is a classified balance transaction. The set of implementations is
// closed; the resolver switches over them.
type Entry interface {
	Transaction() BalanceTransaction
	isEntry()
}

type entry struct {
	txn BalanceTransaction
}

func (e entry) Transaction() BalanceTransaction { return e.txn }
func (entry) isEntry()                          {}

type (
	// SettlementEntry is the payout's own settlement record. Never attributed.
	SettlementEntry struct{ entry }

	// RefundEntry must resolve to an invoice with exactly one line.
	RefundEntry struct {
		entry
		RefundID string
	}

	// PaymentRefundEntry resolves like RefundEntry but attributes every line.
	PaymentRefundEntry struct {
		entry
		RefundID string
	}

	// ChargeEntry covers both "charge" and "payment" transactions.
	ChargeEntry struct {
		entry
		ChargeID string
	}

	// MinimumBalanceEntry is a hold the processor keeps back when the
	// balance is low. Holds and their releases net to zero over time.
	MinimumBalanceEntry struct{ entry }

	// FeeEntry is a processor fee billed against the balance.
	FeeEntry struct{ entry }
)

// Classify validates a raw balance transaction and returns its typed entry.
func Classify(t BalanceTransaction) (Entry, error) {
	base := entry{txn: t}
	switch {
	case t.Type == TypePayout:
		return SettlementEntry{base}, nil
	case t.Type == TypeRefund:
		if err := requireSource(t); err != nil {
			return nil, err
		}
		return RefundEntry{entry: base, RefundID: t.SourceID}, nil
	case t.Type == TypePaymentRefund:
		if err := requireSource(t); err != nil {
			return nil, err
		}
		return PaymentRefundEntry{entry: base, RefundID: t.SourceID}, nil
	case t.Type == TypeCharge, t.Type == TypePayment:
		if err := requireSource(t); err != nil {
			return nil, err
		}
		return ChargeEntry{entry: base, ChargeID: t.SourceID}, nil
	case strings.HasPrefix(t.Type, TypeMinimumBalance):
		return MinimumBalanceEntry{base}, nil
	case t.Type == TypeStripeFee:
		return FeeEntry{base}, nil
	default:
		return nil, NewRecordError("classify transaction", t,
			fmt.Errorf("%w: %q", ErrUnknownTransactionType, t.Type))
	}
}

func requireSource(t BalanceTransaction) error {
	if strings.TrimSpace(t.SourceID) == "" {
		return NewRecordError("classify transaction", t,
			fmt.Errorf("%w: %s transaction has no source", ErrLookupInconsistency, t.Type))
	}
	return nil
}
