package commands

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrReconcileEarningsCommandIsNotConstructed = errors.New(
	"ReconcileEarningsCommand must be created via NewReconcileEarningsCommand constructor",
)

const DefaultReconcileBatch = 100

type ReconcileEarningsCommand struct { //nolint:recvcheck //using for validation
	batch int

	guard guard.ConstructorGuard
}

func NewReconcileEarningsCommand(batch int) (ReconcileEarningsCommand, error) {
	if batch <= 0 {
		return ReconcileEarningsCommand{}, errs.NewValueIsOutOfRangeError("batch", batch, 1, math.MaxInt)
	}
	return ReconcileEarningsCommand{batch: batch, guard: guard.NewConstructorGuard()}, nil
}

func (c ReconcileEarningsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileEarningsCommandIsNotConstructed)
}

func (c ReconcileEarningsCommand) Batch() int {
	return c.batch
}

// ReconcileEarningsCommandHandler finds completed orders without an order_earning entry
// and records the missing earning. Every finding is logged as a ledger inconsistency;
// each order is repaired in its own transaction so one failure does not block the rest.
type ReconcileEarningsCommandHandler struct {
	uowFactory LifecycleUoWFactory
	earnings   earningsRecorder
	logger     *slog.Logger
}

func NewReconcileEarningsCommandHandler(uowFactory LifecycleUoWFactory, logger *slog.Logger) ReconcileEarningsCommandHandler {
	return ReconcileEarningsCommandHandler{
		uowFactory: uowFactory,
		earnings:   newEarningsRecorder(),
		logger:     logger.With("component", "earnings_reconciliation"),
	}
}

// Handle returns how many earnings were recorded.
func (h ReconcileEarningsCommandHandler) Handle(ctx context.Context, command ReconcileEarningsCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	missing, err := h.findMissing(ctx, command.Batch())
	if err != nil {
		return 0, err
	}

	recorded := 0
	var failures []error
	for _, id := range missing {
		h.logger.ErrorContext(ctx, "ledger inconsistency",
			"error", errs.NewLedgerInconsistencyError(id, "completed order has no order_earning entry"))

		ok, err := h.repair(ctx, id)
		if err != nil {
			h.logger.ErrorContext(ctx, "repair failed", "order_id", id.String(), "error", err)
			failures = append(failures, err)
			continue
		}
		if ok {
			recorded++
			h.logger.InfoContext(ctx, "earning recorded", "order_id", id.String())
		}
	}

	return recorded, errors.Join(failures...)
}

func (h ReconcileEarningsCommandHandler) findMissing(ctx context.Context, limit int) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().ListCompletedWithoutEarning(ctx, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids, nil
}

func (h ReconcileEarningsCommandHandler) repair(ctx context.Context, orderID kernel.UUID) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return false, err
	}
	if o.Status() != order.Completed {
		return false, errs.NewInvalidStateError("reconcile earning", o.Status().String())
	}

	recorded, err := h.earnings.record(ctx, uow.LedgerRepository(), o, time.Now())
	if err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}
	return recorded, nil
}
