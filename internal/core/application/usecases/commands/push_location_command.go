package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/guard"
)

var ErrPushLocationCommandIsNotConstructed = errors.New(
	"PushLocationCommand must be created via NewPushLocationCommand constructor",
)

// PushLocationCommand is one courier position sample for an order in flight.
type PushLocationCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID
	location  kernel.Location

	guard guard.ConstructorGuard
}

func NewPushLocationCommand(orderID, courierID kernel.UUID, latitude, longitude float64) (PushLocationCommand, error) {
	cmd := PushLocationCommand{guard: guard.NewConstructorGuard()}

	loc, locErr := kernel.NewLocation(latitude, longitude)
	if err := errors.Join(
		requireUUID("order_id", orderID, &cmd.orderID),
		requireUUID("shipper_id", courierID, &cmd.courierID),
		locErr,
	); err != nil {
		return PushLocationCommand{}, err
	}

	cmd.location = loc
	return cmd, nil
}

func (c PushLocationCommand) Validate() error {
	return c.guard.Validate(ErrPushLocationCommandIsNotConstructed)
}

func (c PushLocationCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c PushLocationCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c PushLocationCommand) Location() kernel.Location {
	return c.location
}

// PushLocationCommandHandler forwards a position to the order channel. Positions are
// never stored; only the latest one matters to subscribers.
type PushLocationCommandHandler struct {
	publisher ports.EventPublisher
}

func NewPushLocationCommandHandler(publisher ports.EventPublisher) PushLocationCommandHandler {
	return PushLocationCommandHandler{publisher: publisher}
}

func (h PushLocationCommandHandler) Handle(ctx context.Context, command PushLocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return h.publisher.Publish(ctx, ports.OrderChannel(command.OrderID()), ports.Event{
		Name: EventLocationUpdate,
		Data: LocationPayload{
			OrderID:   command.OrderID(),
			ShipperID: command.CourierID(),
			Latitude:  command.Location().Latitude(),
			Longitude: command.Location().Longitude(),
			At:        time.Now().UTC(),
		},
	})
}
