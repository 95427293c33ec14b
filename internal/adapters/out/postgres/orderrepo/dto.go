// Package orderrepo persists the order aggregate: the order header, its items and the
// status audit trail.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. shipper_id is the single source of truth for assignment.
type OrderDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	StoreID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ShipperID     *uuid.UUID      `gorm:"type:uuid;index"`
	Delivery      AddressDTO      `gorm:"embedded;embeddedPrefix:delivery_"`
	Pickup        AddressDTO      `gorm:"embedded;embeddedPrefix:pickup_"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ShippingFee   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(16);not null"`
	Note          string          `gorm:"type:text"`
	Status        string          `gorm:"type:varchar(16);not null;index"`
	CreatedAt     time.Time       `gorm:"not null;index"`
	UpdatedAt     time.Time       `gorm:"not null"`
	Items         []OrderItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type AddressDTO struct {
	Address   string  `gorm:"type:varchar(255);not null"`
	Latitude  float64 `gorm:"type:double precision;not null"`
	Longitude float64 `gorm:"type:double precision;not null"`
}

// OrderItemDTO is keyed by (order_id, position). UnitPrice is the price at order time.
type OrderItemDTO struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int             `gorm:"primaryKey;autoIncrement:false"`
	FoodID    uuid.UUID       `gorm:"type:uuid;not null"`
	StoreID   uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// StatusChangeDTO is one row of order_status_history.
type StatusChangeDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus string    `gorm:"type:varchar(16);not null"`
	ToStatus   string    `gorm:"type:varchar(16);not null"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (StatusChangeDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(o *order.Order) OrderDTO {
	var shipperID *uuid.UUID
	if id := o.Courier(); id != nil {
		raw := id.Bytes()
		shipperID = &raw
	}

	orderID := o.ID().Bytes()
	items := make([]OrderItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   orderID,
			Position:  i + 1,
			FoodID:    item.FoodID().Bytes(),
			StoreID:   item.StoreID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Decimal(),
		})
	}

	return OrderDTO{
		ID:            orderID,
		CustomerID:    o.CustomerID().Bytes(),
		StoreID:       o.StoreID().Bytes(),
		ShipperID:     shipperID,
		Delivery:      addressFromDomain(o.Delivery()),
		Pickup:        addressFromDomain(o.Pickup()),
		TotalAmount:   o.TotalAmount().Decimal(),
		ShippingFee:   o.ShippingFee().Decimal(),
		PaymentMethod: string(o.PaymentMethod()),
		Note:          o.Note(),
		Status:        o.Status().String(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
		Items:         items,
	}
}

func addressFromDomain(a order.Address) AddressDTO {
	return AddressDTO{
		Address:   a.Line(),
		Latitude:  a.Location().Latitude(),
		Longitude: a.Location().Longitude(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	storeID, err := kernel.UUIDFromBytes(dto.StoreID[:])
	if err != nil {
		return nil, err
	}

	var shipperID *kernel.UUID
	if dto.ShipperID != nil {
		sID, shipperErr := kernel.UUIDFromBytes((*dto.ShipperID)[:])
		if shipperErr != nil {
			return nil, shipperErr
		}
		shipperID = &sID
	}

	delivery, err := addressToDomain(dto.Delivery)
	if err != nil {
		return nil, err
	}
	pickup, err := addressToDomain(dto.Pickup)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:            id,
		CustomerID:    customerID,
		StoreID:       storeID,
		CourierID:     shipperID,
		Delivery:      delivery,
		Pickup:        pickup,
		Items:         items,
		TotalAmount:   kernel.NewMoney(dto.TotalAmount),
		ShippingFee:   kernel.NewMoney(dto.ShippingFee),
		PaymentMethod: order.PaymentMethod(dto.PaymentMethod),
		Note:          dto.Note,
		Status:        status,
		CreatedAt:     dto.CreatedAt,
		UpdatedAt:     dto.UpdatedAt,
	})
}

func addressToDomain(dto AddressDTO) (order.Address, error) {
	loc, err := kernel.NewLocation(dto.Latitude, dto.Longitude)
	if err != nil {
		return order.Address{}, err
	}
	return order.NewAddress(dto.Address, loc)
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	foodID, err := kernel.UUIDFromBytes(dto.FoodID[:])
	if err != nil {
		return order.Item{}, err
	}
	storeID, err := kernel.UUIDFromBytes(dto.StoreID[:])
	if err != nil {
		return order.Item{}, err
	}
	return order.NewItem(foodID, storeID, dto.Quantity, kernel.NewMoney(dto.UnitPrice))
}

func statusChangeFromDomain(c order.StatusChange) StatusChangeDTO {
	return StatusChangeDTO{
		OrderID:    c.OrderID().Bytes(),
		FromStatus: c.From().String(),
		ToStatus:   c.To().String(),
		ActorID:    c.ActorID().Bytes(),
		CreatedAt:  c.At(),
	}
}
