package order

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MaxItemQuantity bounds a single line.
const MaxItemQuantity = 100

// Item is an order line with the unit price captured at order time. Items never change
// after the order is placed.
type Item struct {
	foodID    kernel.UUID
	storeID   kernel.UUID
	quantity  int
	unitPrice kernel.Money
}

func NewItem(foodID, storeID kernel.UUID, quantity int, unitPrice kernel.Money) (Item, error) {
	item := Item{}
	if err := errors.Join(
		item.setFoodID(foodID),
		item.setStoreID(storeID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (i Item) FoodID() kernel.UUID {
	return i.foodID
}

func (i Item) StoreID() kernel.UUID {
	return i.storeID
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Subtotal is unit price times quantity.
func (i Item) Subtotal() kernel.Money {
	return i.unitPrice.MulRate(decimal.NewFromInt(int64(i.quantity)))
}

func (i *Item) setFoodID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("food_id", err)
	}
	i.foodID = id
	return nil
}

func (i *Item) setStoreID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("store_id", err)
	}
	i.storeID = id
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 || quantity > MaxItemQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxItemQuantity)
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(price kernel.Money) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("unit_price", fmt.Errorf("%s is negative", price))
	}
	i.unitPrice = price
	return nil
}
