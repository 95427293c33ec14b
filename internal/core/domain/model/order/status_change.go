package order

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// StatusChange is one row of an order's audit trail.
type StatusChange struct {
	orderID kernel.UUID
	from    Status
	to      Status
	actorID kernel.UUID
	at      time.Time
}

// NewStatusChange records a Decision applied by its actor.
func NewStatusChange(orderID kernel.UUID, d Decision, at time.Time) (StatusChange, error) {
	if err := errors.Join(orderID.Validate(), d.From.Validate(), d.To.Validate(), d.Actor.id.Validate()); err != nil {
		return StatusChange{}, err
	}
	return StatusChange{
		orderID: orderID,
		from:    d.From,
		to:      d.To,
		actorID: d.Actor.id,
		at:      at.UTC(),
	}, nil
}

func (c StatusChange) OrderID() kernel.UUID {
	return c.orderID
}

func (c StatusChange) From() Status {
	return c.from
}

func (c StatusChange) To() Status {
	return c.to
}

func (c StatusChange) ActorID() kernel.UUID {
	return c.actorID
}

func (c StatusChange) At() time.Time {
	return c.at
}
