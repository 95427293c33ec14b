package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ReviewOrderCommandHandler lets the owner of the order's store confirm or reject it.
// Confirmation opens the courier offer; rejection cancels the order.
type ReviewOrderCommandHandler struct {
	transitioner Transitioner
	stores       ports.StoreRepository
}

func NewReviewOrderCommandHandler(transitioner Transitioner, stores ports.StoreRepository) ReviewOrderCommandHandler {
	return ReviewOrderCommandHandler{transitioner: transitioner, stores: stores}
}

func (h ReviewOrderCommandHandler) Handle(ctx context.Context, command ReviewOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	resolve := func(ctx context.Context, o *order.Order) (order.Actor, error) {
		owner, err := h.stores.OwnerOf(ctx, o.StoreID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			return order.CustomerActor(command.OwnerID()), nil
		}
		if err != nil {
			return order.Actor{}, err
		}
		if !owner.IsEqual(command.OwnerID()) {
			// Decide rejects non-owners.
			return order.CustomerActor(command.OwnerID()), nil
		}
		return order.StoreOwnerActor(command.OwnerID(), o.StoreID()), nil
	}

	return h.transitioner.run(ctx, command.OrderID(), order.StoreReview(command.Accepted()), resolve)
}
