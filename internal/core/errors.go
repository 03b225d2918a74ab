package core

import (
	"errors"
	"fmt"
)

// Reconciliation failures. Every one of them aborts the run: a report that
// silently skipped a transaction would be wrong without showing it.
var (
	// ErrLookupInconsistency: a related record the model requires is absent
	// (no source, no payment intent, no invoice, no product).
	ErrLookupInconsistency = errors.New("lookup inconsistency")

	// ErrCardinalityViolation: an invoice or line item collection does not
	// have the single line attribution needs.
	ErrCardinalityViolation = errors.New("cardinality violation")

	ErrUnknownTransactionType = errors.New("unknown transaction type")

	// ErrLedgerNameConflict: one product id seen with two names.
	ErrLedgerNameConflict = errors.New("ledger name conflict")

	// ErrReconciliationMismatch: ledger total and payout running total diverged.
	ErrReconciliationMismatch = errors.New("reconciliation mismatch")

	// ErrUpstreamLookup: the processor API call itself failed.
	ErrUpstreamLookup = errors.New("upstream lookup failure")
)

var (
	ErrEmptyProductID   = fmt.Errorf("%w: empty product id", ErrLookupInconsistency)
	ErrEmptyProductName = fmt.Errorf("%w: empty product name", ErrLookupInconsistency)
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidYear      = errors.New("invalid year")
)

// RecordError ties a failure to the record that caused it so the diagnostic
// printed on exit names the offending payout, transaction or lookup.
type RecordError struct {
	Op     string
	Record any
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: %v (record: %+v)", e.Op, e.Err, e.Record)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// NewRecordError wraps err with the operation and record it happened on.
func NewRecordError(op string, record any, err error) error {
	return &RecordError{Op: op, Record: record, Err: err}
}

// Upstream marks err as a collaborator failure while keeping the cause
// reachable through errors.Is / errors.As.
func Upstream(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUpstreamLookup) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUpstreamLookup, err)
}
