// Package queries contains the read side. Handlers query the database directly with raw
// SQL through GORM and return flat views; they never load aggregates.
package queries

import (
	"context"
	"database/sql"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderView is an order as shown to clients.
type OrderView struct {
	ID              kernel.UUID
	CustomerID      kernel.UUID
	StoreID         kernel.UUID
	ShipperID       *kernel.UUID
	DeliveryAddress string
	Delivery        kernel.Location
	PickupAddress   string
	Pickup          kernel.Location
	TotalAmount     kernel.Money
	ShippingFee     kernel.Money
	PaymentMethod   string
	Note            string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []OrderItemView
}

type OrderItemView struct {
	FoodID    kernel.UUID
	Quantity  int
	UnitPrice kernel.Money
	Subtotal  kernel.Money
}

const orderColumns = `
	o.id, o.customer_id, o.store_id, o.shipper_id,
	o.delivery_address, o.delivery_latitude, o.delivery_longitude,
	o.pickup_address, o.pickup_latitude, o.pickup_longitude,
	o.total_amount, o.shipping_fee, o.payment_method, o.note, o.status,
	o.created_at, o.updated_at`

func scanOrder(rows *sql.Rows) (OrderView, error) {
	var (
		v                        OrderView
		id, customerID, storeID  uuid.UUID
		shipperID                uuid.NullUUID
		deliveryLat, deliveryLng float64
		pickupLat, pickupLng     float64
		totalAmount, shippingFee decimal.Decimal
	)
	if err := rows.Scan(
		&id, &customerID, &storeID, &shipperID,
		&v.DeliveryAddress, &deliveryLat, &deliveryLng,
		&v.PickupAddress, &pickupLat, &pickupLng,
		&totalAmount, &shippingFee, &v.PaymentMethod, &v.Note, &v.Status,
		&v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return OrderView{}, err
	}

	var err error
	if v.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return OrderView{}, err
	}
	if v.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return OrderView{}, err
	}
	if v.StoreID, err = kernel.UUIDFromBytes(storeID[:]); err != nil {
		return OrderView{}, err
	}
	if shipperID.Valid {
		shipper, shipperErr := kernel.UUIDFromBytes(shipperID.UUID[:])
		if shipperErr != nil {
			return OrderView{}, shipperErr
		}
		v.ShipperID = &shipper
	}
	if v.Delivery, err = kernel.NewLocation(deliveryLat, deliveryLng); err != nil {
		return OrderView{}, err
	}
	if v.Pickup, err = kernel.NewLocation(pickupLat, pickupLng); err != nil {
		return OrderView{}, err
	}
	v.TotalAmount = kernel.NewMoney(totalAmount)
	v.ShippingFee = kernel.NewMoney(shippingFee)
	v.Items = make([]OrderItemView, 0)
	return v, nil
}

// loadItems fills Items of every view with one query.
func loadItems(ctx context.Context, db *gorm.DB, views []OrderView) error {
	if len(views) == 0 {
		return nil
	}

	index := make(map[uuid.UUID]int, len(views))
	ids := make([]uuid.UUID, 0, len(views))
	for i, v := range views {
		raw := v.ID.Bytes()
		index[raw] = i
		ids = append(ids, raw)
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT order_id, food_id, quantity, unit_price
		FROM order_items
		WHERE order_id IN ?
		ORDER BY order_id, position
	`, ids).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID, foodID uuid.UUID
			quantity        int
			unitPrice       decimal.Decimal
		)
		if err = rows.Scan(&orderID, &foodID, &quantity, &unitPrice); err != nil {
			return err
		}

		food, idErr := kernel.UUIDFromBytes(foodID[:])
		if idErr != nil {
			return idErr
		}
		price := kernel.NewMoney(unitPrice)
		i := index[orderID]
		views[i].Items = append(views[i].Items, OrderItemView{
			FoodID:    food,
			Quantity:  quantity,
			UnitPrice: price,
			Subtotal:  price.MulRate(decimal.NewFromInt(int64(quantity))),
		})
	}
	return rows.Err()
}
