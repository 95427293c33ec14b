// Package offer models the courier offer projection: a record that a confirmed order
// was advertised to couriers. It never decides who gets the order.
package offer

import (
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("offer_status", fmt.Errorf("%q is not an offer status", string(s)))
	}
}

type Offer struct {
	id        kernel.UUID
	orderID   kernel.UUID
	status    Status
	createdAt time.Time
}

// NewOffer opens a pending offer for orderID.
func NewOffer(orderID kernel.UUID, now time.Time) (Offer, error) {
	if err := orderID.Validate(); err != nil {
		return Offer{}, errs.NewValueIsRequiredErrorWithCause("order_id", err)
	}
	return Offer{id: kernel.NewUUID(), orderID: orderID, status: StatusPending, createdAt: now.UTC()}, nil
}

func (o Offer) ID() kernel.UUID {
	return o.id
}

func (o Offer) OrderID() kernel.UUID {
	return o.orderID
}

func (o Offer) Status() Status {
	return o.status
}

func (o Offer) CreatedAt() time.Time {
	return o.createdAt
}
