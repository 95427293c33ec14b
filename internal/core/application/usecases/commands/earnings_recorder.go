package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/ledger"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// earningsRecorder credits the courier of a completed order exactly once. It is used by
// completion (same transaction as the status change) and by reconciliation.
type earningsRecorder struct {
	calculator services.EarningsCalculator
}

func newEarningsRecorder() earningsRecorder {
	return earningsRecorder{calculator: services.NewEarningsCalculator()}
}

// record reports false when an earning already exists for the order.
func (r earningsRecorder) record(ctx context.Context, repo ports.LedgerRepository, o *order.Order, now time.Time) (bool, error) {
	if o.Courier() == nil {
		return false, errs.NewLedgerInconsistencyError(o.ID(), "completed order has no courier")
	}

	exists, err := repo.HasOrderEarning(ctx, o.ID())
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	amount, err := r.calculator.CourierEarning(o)
	if err != nil {
		return false, err
	}

	entry, err := ledger.NewOrderEarning(*o.Courier(), o.ID(), amount, now)
	if err != nil {
		return false, err
	}
	if err = repo.Append(ctx, entry); err != nil {
		return false, err
	}

	if amount.IsPositive() {
		if _, err = repo.AdjustBalance(ctx, *o.Courier(), amount, nil); err != nil {
			return false, err
		}
	}
	return true, nil
}
