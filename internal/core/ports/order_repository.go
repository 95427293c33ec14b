// Package ports declares the contracts between the application core and its adapters.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates. Status changes go exclusively through
// ConditionalTransition so that concurrent writers are arbitrated by the database.
type OrderRepository interface {
	// Add stores the order header and all items atomically.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get loads the order with its items. Missing orders yield errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ConditionalTransition updates the status from expected to next in a single
	// statement guarded by expected (and the courier predicates in fields).
	// It returns the number of affected rows: 1 on success, 0 when the guard failed.
	ConditionalTransition(
		ctx context.Context,
		id kernel.UUID,
		expected, next order.Status,
		fields order.TransitionFields,
	) (int64, error)

	// AppendStatusChange adds an audit row; call it in the same unit of work as the transition.
	AppendStatusChange(ctx context.Context, change order.StatusChange) error

	ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	ListByCourier(ctx context.Context, courierID kernel.UUID, statuses ...order.Status) ([]*order.Order, error)

	// ListCompletedWithoutEarning finds completed orders that have no order_earning entry.
	ListCompletedWithoutEarning(ctx context.Context, limit int) ([]*order.Order, error)
}
