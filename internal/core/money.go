// Package core holds the reconciliation domain: processor records, the typed
// transaction entries, the product revenue ledger and the report value.
//
// Amounts are carried in minor currency units (cents). Conversion to major
// units only happens for display.
package core

import (
	"github.com/shopspring/decimal"
)

// Money is a signed amount in minor currency units.
type Money struct {
	Cents int64
}

// Cents is shorthand for Money{Cents: c}.
func Cents(c int64) Money {
	return Money{Cents: c}
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

// Major returns the amount in major currency units (cents / 100) without
// going through float64.
func (m Money) Major() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount in major units with two decimals, e.g. "-3.00".
func (m Money) String() string {
	return m.Major().StringFixed(2)
}
