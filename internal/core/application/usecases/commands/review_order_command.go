package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrReviewOrderCommandIsNotConstructed = errors.New(
	"ReviewOrderCommand must be created via NewReviewOrderCommand constructor",
)

// ReviewOrderCommand is the store owner's accept/reject decision on a pending order.
type ReviewOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	ownerID  kernel.UUID
	accepted bool

	guard guard.ConstructorGuard
}

func NewReviewOrderCommand(orderID, ownerID kernel.UUID, accepted bool) (ReviewOrderCommand, error) {
	cmd := ReviewOrderCommand{accepted: accepted, guard: guard.NewConstructorGuard()}
	if err := errors.Join(
		requireUUID("order_id", orderID, &cmd.orderID),
		requireUUID("actor_id", ownerID, &cmd.ownerID),
	); err != nil {
		return ReviewOrderCommand{}, err
	}
	return cmd, nil
}

func (c ReviewOrderCommand) Validate() error {
	return c.guard.Validate(ErrReviewOrderCommandIsNotConstructed)
}

func (c ReviewOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ReviewOrderCommand) OwnerID() kernel.UUID {
	return c.ownerID
}

func (c ReviewOrderCommand) Accepted() bool {
	return c.accepted
}

// requireUUID is shared by command constructors.
func requireUUID(name string, id kernel.UUID, dst *kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	*dst = id
	return nil
}
