package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// StartDeliveryCommandHandler moves a preparing order to delivering for its courier.
type StartDeliveryCommandHandler struct {
	transitioner Transitioner
}

func NewStartDeliveryCommandHandler(transitioner Transitioner) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{transitioner: transitioner}
}

func (h StartDeliveryCommandHandler) Handle(ctx context.Context, command StartDeliveryCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	return h.transitioner.run(ctx, command.OrderID(), order.StartDelivery(),
		fixedActor(order.CourierActor(command.CourierID())))
}
