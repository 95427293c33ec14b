package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	MaxItemsPerOrder = 50
	MaxNoteLength    = 500
)

// ErrOrderIsNotConstructed is returned when an Order was not created by NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// PaymentMethod is how the customer settles the order with the courier or the platform.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentWallet PaymentMethod = "wallet"
	PaymentCard   PaymentMethod = "card"
)

func (p PaymentMethod) Validate() error {
	switch p {
	case PaymentCash, PaymentWallet, PaymentCard:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment_method", fmt.Errorf("%q is not supported", string(p)))
	}
}

// Order is the aggregate root of the delivery lifecycle.
//
// Invariants:
//   - at least one item, all from the order's store
//   - total = sum(item subtotals) + shipping fee
//   - a courier is bound exactly when status is preparing, delivering or completed
//
// Status only changes through Apply with a Decision produced by Decide.
type Order struct {
	id            kernel.UUID
	customerID    kernel.UUID
	storeID       kernel.UUID
	courierID     *kernel.UUID
	delivery      Address
	pickup        Address
	items         []Item
	totalAmount   kernel.Money
	shippingFee   kernel.Money
	paymentMethod PaymentMethod
	note          string
	status        Status
	createdAt     time.Time
	updatedAt     time.Time

	isConstructed bool
}

// NewOrder places a pending order. The total is derived from the items and the fee.
func NewOrder(
	id, customerID, storeID kernel.UUID,
	delivery, pickup Address,
	items []Item,
	shippingFee kernel.Money,
	paymentMethod PaymentMethod,
	note string,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setStoreID(storeID),
		o.setDelivery(delivery),
		o.setPickup(pickup),
		o.setShippingFee(shippingFee),
		o.setPaymentMethod(paymentMethod),
		o.setNote(note),
	); err != nil {
		return nil, err
	}

	if err := o.setItems(items); err != nil {
		return nil, err
	}

	o.totalAmount = o.itemsSubtotal().Add(o.shippingFee)
	return o, nil
}

// Snapshot is the persisted state used to rebuild an Order.
type Snapshot struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	StoreID       kernel.UUID
	CourierID     *kernel.UUID
	Delivery      Address
	Pickup        Address
	Items         []Item
	TotalAmount   kernel.Money
	ShippingFee   kernel.Money
	PaymentMethod PaymentMethod
	Note          string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RestoreOrder rebuilds an Order from storage. Items may be omitted when only the
// header row was loaded; the total is taken as stored.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		totalAmount:   s.TotalAmount,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setCustomerID(s.CustomerID),
		o.setStoreID(s.StoreID),
		o.setDelivery(s.Delivery),
		o.setPickup(s.Pickup),
		o.setShippingFee(s.ShippingFee),
		o.setPaymentMethod(s.PaymentMethod),
		o.setNote(s.Note),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if err := s.Status.ValidateCanHaveCourier(s.CourierID != nil); err != nil {
		return nil, err
	}
	if s.CourierID != nil {
		if err := s.CourierID.Validate(); err != nil {
			return nil, err
		}
		courier := *s.CourierID
		o.courierID = &courier
	}

	o.status = s.Status
	o.items = append([]Item(nil), s.Items...)
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) StoreID() kernel.UUID {
	return o.storeID
}

// Courier returns the bound courier, nil while unassigned.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

func (o *Order) Delivery() Address {
	return o.delivery
}

func (o *Order) Pickup() Address {
	return o.pickup
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

func (o *Order) ShippingFee() kernel.Money {
	return o.shippingFee
}

func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

func (o *Order) Note() string {
	return o.note
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsParticipant reports whether userID is the customer or the bound courier.
func (o *Order) IsParticipant(userID kernel.UUID) bool {
	if o.customerID.IsEqual(userID) {
		return true
	}
	return o.courierID != nil && o.courierID.IsEqual(userID)
}

// Apply moves the order along a Decision. The decision must have been taken on the
// current status; anything else means the order changed since Decide.
func (o *Order) Apply(d Decision, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status != d.From {
		return errs.NewInvalidStateError(d.Event.Kind().String(), o.status.String())
	}

	courierID := o.courierID
	if d.Has(EffectBindCourier) {
		if d.Courier == nil {
			return errs.NewValueIsRequiredError("courier")
		}
		courier := *d.Courier
		courierID = &courier
	}

	if err := d.To.ValidateCanHaveCourier(courierID != nil); err != nil {
		return err
	}

	o.status = d.To
	o.courierID = courierID
	o.updatedAt = now.UTC()
	return nil
}

func (o *Order) itemsSubtotal() kernel.Money {
	total := kernel.ZeroMoney
	for _, item := range o.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer_id", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setStoreID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("store_id", err)
	}
	o.storeID = id
	return nil
}

func (o *Order) setDelivery(a Address) error {
	if err := a.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("delivery_address", err)
	}
	o.delivery = a
	return nil
}

func (o *Order) setPickup(a Address) error {
	if err := a.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("pickup_address", err)
	}
	o.pickup = a
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	if len(items) > MaxItemsPerOrder {
		return errs.NewValueIsOutOfRangeError("items", len(items), 1, MaxItemsPerOrder)
	}
	for i, item := range items {
		if item.quantity == 0 {
			return errs.NewValueIsInvalidError(fmt.Sprintf("items[%d]", i))
		}
		if !item.storeID.IsEqual(o.storeID) {
			return errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("items[%d]", i),
				fmt.Errorf("item belongs to store %s, order to store %s", item.storeID, o.storeID),
			)
		}
	}
	o.items = append([]Item(nil), items...)
	return nil
}

func (o *Order) setShippingFee(fee kernel.Money) error {
	if fee.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("shipping_fee", fmt.Errorf("%s is negative", fee))
	}
	o.shippingFee = fee
	return nil
}

func (o *Order) setPaymentMethod(p PaymentMethod) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.paymentMethod = p
	return nil
}

func (o *Order) setNote(note string) error {
	note = strings.TrimSpace(note)
	if len(note) > MaxNoteLength {
		return errs.NewValueIsOutOfRangeError("note", len(note), 0, MaxNoteLength)
	}
	o.note = note
	return nil
}
