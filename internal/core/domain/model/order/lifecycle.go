package order

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// EventKind names a lifecycle event.
type EventKind int

const (
	EventStoreReview EventKind = iota + 1
	EventCancel
	EventCourierClaim
	EventStartDelivery
	EventCompleteDelivery
)

func (k EventKind) String() string {
	switch k {
	case EventStoreReview:
		return "store_review"
	case EventCancel:
		return "cancel"
	case EventCourierClaim:
		return "courier_claim"
	case EventStartDelivery:
		return "start_delivery"
	case EventCompleteDelivery:
		return "complete_delivery"
	default:
		return "unknown"
	}
}

// Event is a request to move an order forward.
type Event struct {
	kind   EventKind
	accept bool
}

// StoreReview is the store's accept/reject decision on a pending order.
func StoreReview(accept bool) Event {
	return Event{kind: EventStoreReview, accept: accept}
}

func Cancel() Event {
	return Event{kind: EventCancel}
}

func CourierClaim() Event {
	return Event{kind: EventCourierClaim}
}

func StartDelivery() Event {
	return Event{kind: EventStartDelivery}
}

func CompleteDelivery() Event {
	return Event{kind: EventCompleteDelivery}
}

func (e Event) Kind() EventKind {
	return e.kind
}

// Accepted is meaningful for store reviews only.
func (e Event) Accepted() bool {
	return e.accept
}

// Role is the capacity in which an actor raises an event.
type Role int

const (
	RoleCustomer Role = iota + 1
	RoleStoreOwner
	RoleCourier
)

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleStoreOwner:
		return "store_owner"
	case RoleCourier:
		return "courier"
	default:
		return "unknown"
	}
}

// Actor is the authenticated user behind an event. Store owners carry the store they
// were verified to own.
type Actor struct {
	id      kernel.UUID
	role    Role
	storeID kernel.UUID
}

func CustomerActor(id kernel.UUID) Actor {
	return Actor{id: id, role: RoleCustomer}
}

func StoreOwnerActor(id, storeID kernel.UUID) Actor {
	return Actor{id: id, role: RoleStoreOwner, storeID: storeID}
}

func CourierActor(id kernel.UUID) Actor {
	return Actor{id: id, role: RoleCourier}
}

func (a Actor) ID() kernel.UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

// EffectKind is a side effect the caller must carry out for a transition.
type EffectKind int

const (
	EffectOfferToCouriers EffectKind = iota + 1
	EffectNotifyCustomer
	EffectBindCourier
	EffectCloseOffer
	EffectWithdrawOffer
	EffectRecordEarning
)

func (k EffectKind) String() string {
	switch k {
	case EffectOfferToCouriers:
		return "offer_to_couriers"
	case EffectNotifyCustomer:
		return "notify_customer"
	case EffectBindCourier:
		return "bind_courier"
	case EffectCloseOffer:
		return "close_offer"
	case EffectWithdrawOffer:
		return "withdraw_offer"
	case EffectRecordEarning:
		return "record_earning"
	default:
		return "unknown"
	}
}

// Notification is the customer-facing notification type.
type Notification string

const (
	NotificationConfirmed  Notification = "order_confirmed"
	NotificationRejected   Notification = "order_rejected"
	NotificationCancelled  Notification = "order_cancelled"
	NotificationAccepted   Notification = "order_accepted_by_shipper"
	NotificationDelivering Notification = "order_delivering"
	NotificationCompleted  Notification = "order_completed"
)

type Effect struct {
	Kind         EffectKind
	Notification Notification
}

func notify(n Notification) Effect {
	return Effect{Kind: EffectNotifyCustomer, Notification: n}
}

// TransitionFields are the extra columns a conditional update sets or matches on.
type TransitionFields struct {
	// BindCourier sets shipper_id and requires it to be unset.
	BindCourier *kernel.UUID
	// RequireCourier requires shipper_id to equal the acting courier.
	RequireCourier *kernel.UUID
}

// Decision is the outcome of Decide: the transition and its ordered effects.
type Decision struct {
	Event   Event
	Actor   Actor
	From    Status
	To      Status
	Courier *kernel.UUID
	Effects []Effect
}

func (d Decision) Has(kind EffectKind) bool {
	for _, e := range d.Effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Notifications returns the customer notifications in effect order.
func (d Decision) Notifications() []Notification {
	var out []Notification
	for _, e := range d.Effects {
		if e.Kind == EffectNotifyCustomer {
			out = append(out, e.Notification)
		}
	}
	return out
}

func (d Decision) Fields() TransitionFields {
	var f TransitionFields
	switch {
	case d.Has(EffectBindCourier):
		f.BindCourier = d.Courier
	case d.To == Delivering || d.To == Completed:
		f.RequireCourier = d.Courier
	}
	return f
}

// Decide validates event e raised by actor a against the order's current state.
// It performs no I/O; the order is not modified.
func Decide(o *Order, e Event, a Actor) (Decision, error) {
	if err := o.Validate(); err != nil {
		return Decision{}, err
	}
	if err := a.id.Validate(); err != nil {
		return Decision{}, errs.NewValueIsRequiredErrorWithCause("actor", err)
	}

	d := Decision{Event: e, Actor: a, From: o.status}

	switch e.kind {
	case EventStoreReview:
		if a.role != RoleStoreOwner || !a.storeID.IsEqual(o.storeID) {
			return Decision{}, errs.NewUnauthorizedError(a.id, "only the store owner can review the order")
		}
		if o.status != Pending {
			return Decision{}, invalid(e, o)
		}
		if e.accept {
			d.To = Confirmed
			d.Effects = []Effect{{Kind: EffectOfferToCouriers}, notify(NotificationConfirmed)}
		} else {
			d.To = Cancelled
			d.Effects = []Effect{notify(NotificationRejected)}
		}

	case EventCancel:
		if a.role != RoleCustomer || !a.id.IsEqual(o.customerID) {
			return Decision{}, errs.NewUnauthorizedError(a.id, "only the customer who placed the order can cancel it")
		}
		d.To = Cancelled
		switch o.status { //nolint:exhaustive // other statuses cannot be cancelled
		case Pending:
			d.Effects = []Effect{notify(NotificationCancelled)}
		case Confirmed:
			d.Effects = []Effect{notify(NotificationCancelled), {Kind: EffectWithdrawOffer}}
		default:
			return Decision{}, invalid(e, o)
		}

	case EventCourierClaim:
		if a.role != RoleCourier {
			return Decision{}, errs.NewUnauthorizedError(a.id, "only couriers can claim orders")
		}
		if o.status.IsAssigned() {
			return Decision{}, errs.NewAlreadyAssignedError(o.id, o.status.String())
		}
		if o.status != Confirmed {
			return Decision{}, invalid(e, o)
		}
		courier := a.id
		d.To = Preparing
		d.Courier = &courier
		d.Effects = []Effect{
			{Kind: EffectBindCourier},
			notify(NotificationAccepted),
			{Kind: EffectCloseOffer},
		}

	case EventStartDelivery, EventCompleteDelivery:
		if a.role != RoleCourier || (o.courierID != nil && !o.courierID.IsEqual(a.id)) {
			return Decision{}, errs.NewUnauthorizedError(a.id, "order is bound to another courier")
		}
		from, to := Preparing, Delivering
		effects := []Effect{notify(NotificationDelivering)}
		if e.kind == EventCompleteDelivery {
			from, to = Delivering, Completed
			effects = []Effect{{Kind: EffectRecordEarning}, notify(NotificationCompleted)}
		}
		if o.status != from {
			return Decision{}, invalid(e, o)
		}
		courier := a.id
		d.To = to
		d.Courier = &courier
		d.Effects = effects

	default:
		return Decision{}, errs.NewValueIsInvalidError("event")
	}

	return d, nil
}

func invalid(e Event, o *Order) error {
	return errs.NewInvalidStateError(e.kind.String(), o.status.String())
}
