package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrClaimOrderCommandIsNotConstructed = errors.New(
		"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
	)
	ErrStartDeliveryCommandIsNotConstructed = errors.New(
		"StartDeliveryCommand must be created via NewStartDeliveryCommand constructor",
	)
	ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
		"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
	)
)

// courierOrderCommand is an order id plus the courier acting on it.
type courierOrderCommand struct {
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func newCourierOrderCommand(orderID, courierID kernel.UUID) (courierOrderCommand, error) {
	cmd := courierOrderCommand{guard: guard.NewConstructorGuard()}
	if err := errors.Join(
		requireUUID("order_id", orderID, &cmd.orderID),
		requireUUID("courier_id", courierID, &cmd.courierID),
	); err != nil {
		return courierOrderCommand{}, err
	}
	return cmd, nil
}

func (c courierOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c courierOrderCommand) CourierID() kernel.UUID {
	return c.courierID
}

// ClaimOrderCommand asks for a confirmed order to be assigned to the courier.
// At most one claim per order succeeds.
type ClaimOrderCommand struct {
	courierOrderCommand
}

func NewClaimOrderCommand(orderID, courierID kernel.UUID) (ClaimOrderCommand, error) {
	c, err := newCourierOrderCommand(orderID, courierID)
	return ClaimOrderCommand{c}, err
}

func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

// StartDeliveryCommand marks that the bound courier picked the order up.
type StartDeliveryCommand struct {
	courierOrderCommand
}

func NewStartDeliveryCommand(orderID, courierID kernel.UUID) (StartDeliveryCommand, error) {
	c, err := newCourierOrderCommand(orderID, courierID)
	return StartDeliveryCommand{c}, err
}

func (c StartDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrStartDeliveryCommandIsNotConstructed)
}

// CompleteDeliveryCommand marks the order delivered and credits the courier.
type CompleteDeliveryCommand struct {
	courierOrderCommand
}

func NewCompleteDeliveryCommand(orderID, courierID kernel.UUID) (CompleteDeliveryCommand, error) {
	c, err := newCourierOrderCommand(orderID, courierID)
	return CompleteDeliveryCommand{c}, err
}

func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}
