package reconcile

import (
	"context"
	"fmt"

	"payoutrecon/internal/core"
	"payoutrecon/internal/log"
	"payoutrecon/internal/ports"
)

// Reconciler folds every payout of a period into a fresh ledger. It is
// strictly sequential and stops at the first error.
type Reconciler struct {
	payouts  ports.PayoutLister
	resolver *Resolver
	logger   *log.Logger
}

func NewReconciler(provider ports.Provider, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.Discard()
	}
	return &Reconciler{
		payouts:  provider,
		resolver: NewResolver(provider, logger),
		logger:   logger.WithComponent(log.ComponentReconcile),
	}
}

// Run reconciles every payout created in period. The returned report has
// Rows, Total, Period and Payouts filled; run metadata is left to the caller.
func (r *Reconciler) Run(ctx context.Context, period core.Period) (*core.Report, error) {
	ledger := core.NewLedger()
	var (
		totalRevenue core.Money
		summaries    []core.PayoutSummary
	)

	r.logger.InfoContext(ctx, "reconciling payouts", log.FieldPeriod, period.String())

	for payout, err := range r.payouts.Payouts(ctx, period.Start(), period.End()) {
		if err != nil {
			return nil, core.NewRecordError("list payouts", period.String(), core.Upstream(err))
		}

		summary, err := r.reconcilePayout(ctx, ledger, payout)
		if err != nil {
			return nil, err
		}

		totalRevenue = totalRevenue.Add(summary.Attributed)
		if subtotal := ledger.Total(); totalRevenue != subtotal {
			return nil, core.NewRecordError("check payout", payout,
				fmt.Errorf("%w: payouts total %s, ledger total %s",
					core.ErrReconciliationMismatch, totalRevenue, subtotal))
		}

		if !summary.Balanced() {
			r.logger.WarnContext(ctx, "payout amount differs from attributed transactions",
				log.FieldPayoutID, payout.ID,
				log.FieldAmount, payout.Amount.Cents,
				log.FieldAttributed, summary.Attributed.Cents)
		}
		r.logger.InfoContext(ctx, "payout reconciled",
			log.FieldPayoutID, payout.ID,
			log.FieldCount, summary.Transactions,
			log.FieldAttributed, summary.Attributed.Cents,
			log.FieldSubtotal, totalRevenue.Cents)

		summaries = append(summaries, summary)
	}

	return &core.Report{
		Period:  period,
		Rows:    ledger.Revenue(),
		Total:   ledger.Total(),
		Payouts: summaries,
	}, nil
}

func (r *Reconciler) reconcilePayout(ctx context.Context, ledger *core.Ledger, payout core.Payout) (core.PayoutSummary, error) {
	summary := core.PayoutSummary{
		PayoutID: payout.ID,
		Created:  payout.Created,
		Amount:   payout.Amount,
	}

	for txn, err := range r.payouts.Transactions(ctx, payout.ID) {
		if err != nil {
			return summary, core.NewRecordError("list balance transactions", payout, core.Upstream(err))
		}

		entry, err := core.Classify(txn)
		if err != nil {
			return summary, err
		}
		summary.Transactions++
		if _, ok := entry.(core.SettlementEntry); ok {
			continue
		}

		attributions, err := r.resolver.Resolve(ctx, entry)
		if err != nil {
			return summary, err
		}
		for _, a := range attributions {
			if err := ledger.Add(a.Product, a.Amount); err != nil {
				return summary, err
			}
		}
		summary.Attributed = summary.Attributed.Add(txn.NetOfFee())

		r.logger.DebugContext(ctx, "transaction attributed",
			log.FieldPayoutID, payout.ID,
			log.FieldTxnID, txn.ID,
			log.FieldTxnType, txn.Type,
			log.FieldAmount, payout.Amount.Cents,
			log.FieldAttributed, summary.Attributed.Cents,
			log.FieldSubtotal, ledger.Total().Cents)
	}

	return summary, nil
}
