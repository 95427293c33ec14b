package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// Event is a real-time message delivered to every session subscribed to a channel.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// EventPublisher fans events out to channels. Delivery is at most once.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

func OrderChannel(orderID kernel.UUID) string {
	return "order-" + orderID.String()
}

func ChatChannel(orderID kernel.UUID) string {
	return "chat-" + orderID.String()
}

func UserChannel(userID kernel.UUID) string {
	return "user-" + userID.String()
}

// OffersChannel carries newly confirmed orders to courier dashboards.
const OffersChannel = "offers"
