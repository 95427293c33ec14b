package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels a pending or confirmed order on behalf of the
// customer who placed it.
type CancelOrderCommandHandler struct {
	transitioner Transitioner
}

func NewCancelOrderCommandHandler(transitioner Transitioner) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{transitioner: transitioner}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	return h.transitioner.run(ctx, command.OrderID(), order.Cancel(),
		fixedActor(order.CustomerActor(command.CustomerID())))
}
