package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func mustAddress(t *testing.T, line string, lat, lng float64) order.Address {
	t.Helper()
	loc, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	addr, err := order.NewAddress(line, loc)
	require.NoError(t, err)
	return addr
}

func mustItem(t *testing.T, storeID kernel.UUID, qty int, price string) order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), storeID, qty, kernel.MustMoney(price))
	require.NoError(t, err)
	return item
}

// restore builds an order in the given status; courier is required for assigned statuses.
func restore(t *testing.T, status order.Status, courier *kernel.UUID) *order.Order {
	t.Helper()
	storeID := kernel.NewUUID()
	o, err := order.RestoreOrder(order.Snapshot{
		ID:            kernel.NewUUID(),
		CustomerID:    kernel.NewUUID(),
		StoreID:       storeID,
		CourierID:     courier,
		Delivery:      mustAddress(t, "12 Le Loi", 10.7769, 106.7009),
		Pickup:        mustAddress(t, "1 Nguyen Hue", 10.7730, 106.7040),
		Items:         []order.Item{mustItem(t, storeID, 2, "10.00")},
		TotalAmount:   kernel.MustMoney("25.00"),
		ShippingFee:   kernel.MustMoney("5.00"),
		PaymentMethod: order.PaymentCash,
		Status:        status,
		CreatedAt:     fixedNow,
		UpdatedAt:     fixedNow,
	})
	require.NoError(t, err)
	return o
}
