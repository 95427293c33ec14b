package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderLine is one requested item with the price the customer saw.
type OrderLine struct {
	FoodID    kernel.UUID
	Quantity  int
	UnitPrice kernel.Money
}

// CreateOrderCommand places an order for one store. When shippingFee is nil the fee is
// quoted from the pickup and delivery coordinates.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(customerID, storeID, delivery, pickup,
//	    []OrderLine{{FoodID: foodID, Quantity: 2, UnitPrice: kernel.MustMoney("10.00")}},
//	    nil, order.PaymentCash, "ring twice")
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID    kernel.UUID
	storeID       kernel.UUID
	delivery      order.Address
	pickup        order.Address
	items         []order.Item
	shippingFee   *kernel.Money
	paymentMethod order.PaymentMethod
	note          string

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	customerID, storeID kernel.UUID,
	delivery, pickup order.Address,
	lines []OrderLine,
	shippingFee *kernel.Money,
	paymentMethod order.PaymentMethod,
	note string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		delivery:      delivery,
		pickup:        pickup,
		paymentMethod: paymentMethod,
		note:          note,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireUUID("customer_id", customerID, &cmd.customerID),
		requireUUID("store_id", storeID, &cmd.storeID),
		cmd.setShippingFee(shippingFee),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	if err := cmd.setItems(lines); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c CreateOrderCommand) StoreID() kernel.UUID {
	return c.storeID
}

func (c CreateOrderCommand) Delivery() order.Address {
	return c.delivery
}

func (c CreateOrderCommand) Pickup() order.Address {
	return c.pickup
}

func (c CreateOrderCommand) Items() []order.Item {
	return append([]order.Item(nil), c.items...)
}

// ShippingFee is nil when the fee should be quoted.
func (c CreateOrderCommand) ShippingFee() *kernel.Money {
	return c.shippingFee
}

func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

func (c CreateOrderCommand) Note() string {
	return c.note
}

func (c *CreateOrderCommand) setShippingFee(fee *kernel.Money) error {
	if fee == nil {
		return nil
	}
	if fee.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("shipping_fee", fmt.Errorf("%s is negative", fee))
	}
	f := *fee
	c.shippingFee = &f
	return nil
}

func (c *CreateOrderCommand) setItems(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	items := make([]order.Item, 0, len(lines))
	var errList []error
	for i, line := range lines {
		item, err := order.NewItem(line.FoodID, c.storeID, line.Quantity, line.UnitPrice)
		if err != nil {
			errList = append(errList, fmt.Errorf("items[%d]: %w", i, err))
			continue
		}
		items = append(items, item)
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	c.items = items
	return nil
}
