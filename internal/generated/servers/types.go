// Package servers holds the API types, the echo server interface and the embedded
// OpenAPI document. The types mirror openapi.yaml one to one; keep them in sync.
package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	BearerAuthScopes = "bearerAuth.Scopes"
)

// Defines values for NewOrderPaymentMethod.
const (
	Card   NewOrderPaymentMethod = "card"
	Cash   NewOrderPaymentMethod = "cash"
	Wallet NewOrderPaymentMethod = "wallet"
)

// Defines values for ReviewDecisionStatus.
const (
	Accepted ReviewDecisionStatus = "accepted"
	Rejected ReviewDecisionStatus = "rejected"
)

type Address struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Adjustment struct {
	Balance float64     `json:"balance"`
	Entry   LedgerEntry `json:"entry"`
}

type AmountRequest struct {
	Amount      float64             `json:"amount"`
	Description *string             `json:"description,omitempty"`
	UserId      *openapi_types.UUID `json:"userId,omitempty"`
}

type Balance struct {
	Balance float64            `json:"balance"`
	UserId  openapi_types.UUID `json:"userId"`
}

type ChatMessage struct {
	CreatedAt  time.Time          `json:"createdAt"`
	Id         openapi_types.UUID `json:"id"`
	IsRead     bool               `json:"isRead"`
	Message    string             `json:"message"`
	OrderId    openapi_types.UUID `json:"orderId"`
	ReceiverId openapi_types.UUID `json:"receiverId"`
	SenderId   openapi_types.UUID `json:"senderId"`
}

type Earning struct {
	Amount      float64            `json:"amount"`
	Date        time.Time          `json:"date"`
	OrderId     openapi_types.UUID `json:"orderId"`
	ShippingFee float64            `json:"shippingFee"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type LedgerEntry struct {
	Amount      float64             `json:"amount"`
	CreatedAt   time.Time           `json:"createdAt"`
	Description string              `json:"description"`
	Id          openapi_types.UUID  `json:"id"`
	ReferenceId *openapi_types.UUID `json:"referenceId,omitempty"`
	Type        string              `json:"type"`
}

type NewChatMessage struct {
	Message    string             `json:"message"`
	OrderId    openapi_types.UUID `json:"orderId"`
	ReceiverId openapi_types.UUID `json:"receiverId"`
}

type NewOrder struct {
	DeliveryAddress Address               `json:"deliveryAddress"`
	Items           []NewOrderItem        `json:"items"`
	Note            *string               `json:"note,omitempty"`
	PaymentMethod   NewOrderPaymentMethod `json:"paymentMethod"`
	PickupAddress   Address               `json:"pickupAddress"`
	ShippingFee     *float64              `json:"shippingFee,omitempty"`
	StoreId         openapi_types.UUID    `json:"storeId"`
}

type NewOrderPaymentMethod string

type NewOrderItem struct {
	FoodId   openapi_types.UUID `json:"foodId"`
	Price    float64            `json:"price"`
	Quantity int                `json:"quantity"`
}

type Order struct {
	CreatedAt       time.Time           `json:"createdAt"`
	CustomerId      openapi_types.UUID  `json:"customerId"`
	DeliveryAddress Address             `json:"deliveryAddress"`
	Id              openapi_types.UUID  `json:"id"`
	Items           []OrderItem         `json:"items"`
	Note            *string             `json:"note,omitempty"`
	PaymentMethod   string              `json:"paymentMethod"`
	PickupAddress   Address             `json:"pickupAddress"`
	ShipperId       *openapi_types.UUID `json:"shipperId,omitempty"`
	ShippingFee     float64             `json:"shippingFee"`
	Status          string              `json:"status"`
	StoreId         openapi_types.UUID  `json:"storeId"`
	TotalAmount     float64             `json:"totalAmount"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type OrderItem struct {
	FoodId   openapi_types.UUID `json:"foodId"`
	Price    float64            `json:"price"`
	Quantity int                `json:"quantity"`
	Subtotal float64            `json:"subtotal"`
}

type PeriodTotals struct {
	Month float64 `json:"month"`
	Today float64 `json:"today"`
	Total float64 `json:"total"`
	Week  float64 `json:"week"`
}

type PlatformRevenue struct {
	History  []Revenue    `json:"history"`
	Items    PeriodTotals `json:"items"`
	Shipping PeriodTotals `json:"shipping"`
}

type ReadReceipt struct {
	Marked int64 `json:"marked"`
}

type Revenue struct {
	Date            time.Time          `json:"date"`
	ItemRevenue     float64            `json:"itemRevenue"`
	OrderId         openapi_types.UUID `json:"orderId"`
	ShippingFee     float64            `json:"shippingFee"`
	ShippingRevenue float64            `json:"shippingRevenue"`
	TotalAmount     float64            `json:"totalAmount"`
}

type ReviewDecision struct {
	Status ReviewDecisionStatus `json:"status"`
}

type ReviewDecisionStatus string

type ShipperEarnings struct {
	History       []Earning `json:"history"`
	MonthEarnings float64   `json:"monthEarnings"`
	TodayEarnings float64   `json:"todayEarnings"`
	TotalEarnings float64   `json:"totalEarnings"`
	WeekEarnings  float64   `json:"weekEarnings"`
}

type StatusChange struct {
	ActorId openapi_types.UUID `json:"actorId"`
	At      time.Time          `json:"at"`
	From    string             `json:"from"`
	To      string             `json:"to"`
}

// OrderId defines model for OrderId.
type OrderId = openapi_types.UUID

// ShipperId defines model for ShipperId.
type ShipperId = openapi_types.UUID

// StoreId defines model for the storeId path parameter.
type StoreId = openapi_types.UUID

// UserId defines model for UserId.
type UserId = openapi_types.UUID

// ListAvailableOrdersParams defines parameters for ListAvailableOrders.
type ListAvailableOrdersParams struct {
	Lat *float64 `form:"lat,omitempty" json:"lat,omitempty"`
	Lng *float64 `form:"lng,omitempty" json:"lng,omitempty"`
}

// GetTransactionHistoryParams defines parameters for GetTransactionHistory.
type GetTransactionHistoryParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

type CreateOrderJSONRequestBody = NewOrder

type ReviewOrderJSONRequestBody = ReviewDecision

type SendChatMessageJSONRequestBody = NewChatMessage

type DepositJSONRequestBody = AmountRequest

type WithdrawJSONRequestBody = AmountRequest
