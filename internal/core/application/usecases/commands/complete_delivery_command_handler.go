package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// CompleteDeliveryCommandHandler completes a delivering order. The courier earning
// (shipping fee × 0.8) is appended to the ledger in the same transaction; a repeated
// completion fails with errs.ErrInvalidState and writes nothing.
type CompleteDeliveryCommandHandler struct {
	transitioner Transitioner
}

func NewCompleteDeliveryCommandHandler(transitioner Transitioner) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{transitioner: transitioner}
}

func (h CompleteDeliveryCommandHandler) Handle(
	ctx context.Context,
	command CompleteDeliveryCommand,
) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	return h.transitioner.run(ctx, command.OrderID(), order.CompleteDelivery(),
		fixedActor(order.CourierActor(command.CourierID())))
}
