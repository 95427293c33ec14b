package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	storeID := kernel.NewUUID()
	customerID := kernel.NewUUID()
	delivery := mustAddress(t, "12 Le Loi", 10.7769, 106.7009)
	pickup := mustAddress(t, "1 Nguyen Hue", 10.7730, 106.7040)

	t.Run("creates a pending order and derives the total", func(t *testing.T) {
		items := []order.Item{
			mustItem(t, storeID, 2, "10.00"),
			mustItem(t, storeID, 1, "3.50"),
		}

		o, err := order.NewOrder(kernel.NewUUID(), customerID, storeID, delivery, pickup, items,
			kernel.MustMoney("5.00"), order.PaymentCash, "  no onions ", fixedNow)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Courier())
		assert.Equal(t, "28.50", o.TotalAmount().String())
		assert.Equal(t, "5.00", o.ShippingFee().String())
		assert.Equal(t, "no onions", o.Note())
		assert.Len(t, o.Items(), 2)
		assert.Equal(t, fixedNow, o.CreatedAt())
	})

	t.Run("rejects an order without items", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), customerID, storeID, delivery, pickup, nil,
			kernel.MustMoney("5.00"), order.PaymentCash, "", fixedNow)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, o)
	})

	t.Run("rejects items from another store", func(t *testing.T) {
		items := []order.Item{mustItem(t, kernel.NewUUID(), 1, "1.00")}

		_, err := order.NewOrder(kernel.NewUUID(), customerID, storeID, delivery, pickup, items,
			kernel.MustMoney("5.00"), order.PaymentCash, "", fixedNow)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "items[0]")
	})

	t.Run("collects every header error", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, kernel.UUID{}, storeID, order.Address{}, pickup,
			[]order.Item{mustItem(t, storeID, 1, "1.00")},
			kernel.MustMoney("-1"), order.PaymentMethod("barter"), "", fixedNow)

		require.Error(t, err)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.Contains(t, err.Error(), "customer_id")
		assert.Contains(t, err.Error(), "delivery_address")
		assert.Contains(t, err.Error(), "shipping_fee")
		assert.Contains(t, err.Error(), "payment_method")
	})

	t.Run("zero value order is not constructed", func(t *testing.T) {
		var o order.Order
		assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)

		var nilOrder *order.Order
		assert.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestNewItem(t *testing.T) {
	storeID := kernel.NewUUID()

	item, err := order.NewItem(kernel.NewUUID(), storeID, 3, kernel.MustMoney("2.25"))
	require.NoError(t, err)
	assert.Equal(t, "6.75", item.Subtotal().String())

	_, err = order.NewItem(kernel.NewUUID(), storeID, 0, kernel.MustMoney("1"))
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = order.NewItem(kernel.NewUUID(), storeID, order.MaxItemQuantity+1, kernel.MustMoney("1"))
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = order.NewItem(kernel.UUID{}, storeID, 1, kernel.MustMoney("-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "food_id")
	assert.Contains(t, err.Error(), "unit_price")
}

func TestRestoreOrder_CourierInvariant(t *testing.T) {
	courier := kernel.NewUUID()

	tests := []struct {
		status  order.Status
		courier *kernel.UUID
		wantErr bool
	}{
		{order.Pending, nil, false},
		{order.Confirmed, nil, false},
		{order.Cancelled, nil, false},
		{order.Preparing, &courier, false},
		{order.Delivering, &courier, false},
		{order.Completed, &courier, false},
		{order.Pending, &courier, true},
		{order.Confirmed, &courier, true},
		{order.Cancelled, &courier, true},
		{order.Preparing, nil, true},
		{order.Delivering, nil, true},
		{order.Completed, nil, true},
	}

	for _, tt := range tests {
		name := tt.status.String()
		if tt.courier != nil {
			name += "_with_courier"
		}
		t.Run(name, func(t *testing.T) {
			storeID := kernel.NewUUID()
			_, err := order.RestoreOrder(order.Snapshot{
				ID:            kernel.NewUUID(),
				CustomerID:    kernel.NewUUID(),
				StoreID:       storeID,
				CourierID:     tt.courier,
				Delivery:      mustAddress(t, "a", 1, 1),
				Pickup:        mustAddress(t, "b", 1, 1),
				TotalAmount:   kernel.MustMoney("5"),
				ShippingFee:   kernel.MustMoney("5"),
				PaymentMethod: order.PaymentWallet,
				Status:        tt.status,
			})
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsInvalid)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestOrder_Apply(t *testing.T) {
	t.Run("claim binds the courier", func(t *testing.T) {
		o := restore(t, order.Confirmed, nil)
		courier := kernel.NewUUID()
		d, err := order.Decide(o, order.CourierClaim(), order.CourierActor(courier))
		require.NoError(t, err)

		require.NoError(t, o.Apply(d, fixedNow))

		assert.Equal(t, order.Preparing, o.Status())
		require.NotNil(t, o.Courier())
		assert.True(t, o.Courier().IsEqual(courier))
		assert.True(t, o.IsParticipant(courier))
	})

	t.Run("stale decision is rejected", func(t *testing.T) {
		o := restore(t, order.Confirmed, nil)
		d, err := order.Decide(o, order.CourierClaim(), order.CourierActor(kernel.NewUUID()))
		require.NoError(t, err)
		require.NoError(t, o.Apply(d, fixedNow))

		err = o.Apply(d, fixedNow)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, order.Preparing, o.Status())
	})
}

func TestStatus(t *testing.T) {
	for _, s := range []order.Status{
		order.Pending, order.Confirmed, order.Preparing,
		order.Delivering, order.Completed, order.Cancelled,
	} {
		parsed, err := order.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
		assert.NoError(t, s.Validate())
	}

	_, err := order.ParseStatus("unknown")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.ErrorIs(t, order.Unknown.Validate(), errs.ErrValueIsInvalid)
	require.ErrorIs(t, order.Status(42).Validate(), errs.ErrValueIsInvalid)
	assert.Equal(t, "unknown", order.Status(42).String())

	assert.True(t, order.Completed.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.False(t, order.Delivering.IsTerminal())
}
