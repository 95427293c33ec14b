package commands

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// Outbound real-time event names.
const (
	EventStatusChanged   = "status-changed"
	EventOrderAvailable  = "order-available"
	EventLocationUpdate  = "location-update"
	EventMessageReceived = "message-received"
	EventCallIncoming    = "call-incoming"
	EventCallAccepted    = "call-accepted"
	EventCallRejected    = "call-rejected"
	EventCallEnded       = "call-ended"
)

type StatusChangedPayload struct {
	OrderID   kernel.UUID  `json:"orderId"`
	From      string       `json:"from"`
	Status    string       `json:"status"`
	ShipperID *kernel.UUID `json:"shipperId,omitempty"`
	ActorID   kernel.UUID  `json:"actorId"`
	At        time.Time    `json:"at"`
}

type OrderAvailablePayload struct {
	OrderID       kernel.UUID `json:"orderId"`
	StoreID       kernel.UUID `json:"storeId"`
	PickupAddress string      `json:"pickupAddress"`
	Address       string      `json:"deliveryAddress"`
	ShippingFee   string      `json:"shippingFee"`
}

type LocationPayload struct {
	OrderID   kernel.UUID `json:"orderId"`
	ShipperID kernel.UUID `json:"shipperId"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	At        time.Time   `json:"at"`
}

type MessagePayload struct {
	ID         kernel.UUID `json:"id"`
	OrderID    kernel.UUID `json:"orderId"`
	SenderID   kernel.UUID `json:"senderId"`
	ReceiverID kernel.UUID `json:"receiverId"`
	Message    string      `json:"message"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type CallSignalPayload struct {
	CallerID   kernel.UUID       `json:"callerId"`
	ReceiverID kernel.UUID       `json:"receiverId"`
	OrderID    *kernel.UUID      `json:"orderId,omitempty"`
	CallType   string            `json:"callType,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}
