package core

import "time"

type (
	// PayoutSummary is what one payout contributed to the run.
	PayoutSummary struct {
		PayoutID     string
		Created      time.Time
		Amount       Money // declared by the processor
		Attributed   Money // sum of amount - fee over its transactions
		Transactions int
	}

	// Report is the completed, reconciled result of one run.
	Report struct {
		RunID       string
		Period      Period
		GeneratedAt time.Time
		Rows        []Revenue
		Total       Money
		Payouts     []PayoutSummary
	}
)

// Balanced reports whether the declared payout amount equals what was
// attributed from its transactions.
func (s PayoutSummary) Balanced() bool {
	return s.Amount == s.Attributed
}
