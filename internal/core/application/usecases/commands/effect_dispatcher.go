package commands

import (
	"context"
	"fmt"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

var notificationTexts = map[order.Notification][2]string{
	order.NotificationConfirmed:  {"Order confirmed", "Your order #%s was confirmed by the store"},
	order.NotificationRejected:   {"Order rejected", "Your order #%s was rejected by the store"},
	order.NotificationCancelled:  {"Order cancelled", "Your order #%s was cancelled"},
	order.NotificationAccepted:   {"Courier assigned", "A courier accepted your order #%s"},
	order.NotificationDelivering: {"On the way", "Your order #%s is being delivered"},
	order.NotificationCompleted:  {"Delivered", "Your order #%s was delivered"},
}

// EffectDispatcher carries out the non-transactional effects of a committed transition:
// customer notifications and real-time events. Failures are logged and swallowed.
type EffectDispatcher struct {
	notifier  ports.Notifier
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewEffectDispatcher(notifier ports.Notifier, publisher ports.EventPublisher, logger *slog.Logger) EffectDispatcher {
	return EffectDispatcher{
		notifier:  notifier,
		publisher: publisher,
		logger:    logger.With("component", "effect_dispatcher"),
	}
}

// Dispatch must only be called after the transition committed.
func (d EffectDispatcher) Dispatch(ctx context.Context, o *order.Order, dec order.Decision) {
	ctx = context.WithoutCancel(ctx)

	for _, effect := range dec.Effects {
		switch effect.Kind { //nolint:exhaustive // transactional effects are handled by the Transitioner
		case order.EffectNotifyCustomer:
			d.notify(ctx, o, effect.Notification)
		case order.EffectOfferToCouriers:
			d.publish(ctx, ports.OffersChannel, ports.Event{
				Name: EventOrderAvailable,
				Data: OrderAvailablePayload{
					OrderID:       o.ID(),
					StoreID:       o.StoreID(),
					PickupAddress: o.Pickup().Line(),
					Address:       o.Delivery().Line(),
					ShippingFee:   o.ShippingFee().String(),
				},
			})
		}
	}

	d.publish(ctx, ports.OrderChannel(o.ID()), ports.Event{
		Name: EventStatusChanged,
		Data: StatusChangedPayload{
			OrderID:   o.ID(),
			From:      dec.From.String(),
			Status:    dec.To.String(),
			ShipperID: o.Courier(),
			ActorID:   dec.Actor.ID(),
			At:        o.UpdatedAt(),
		},
	})
}

func (d EffectDispatcher) notify(ctx context.Context, o *order.Order, n order.Notification) {
	text, ok := notificationTexts[n]
	if !ok {
		text = [2]string{string(n), "Order #%s was updated"}
	}
	err := d.notifier.Notify(ctx, o.CustomerID(), ports.Notification{
		Title: text[0],
		Body:  fmt.Sprintf(text[1], o.ID()),
		Data: map[string]string{
			"type":    string(n),
			"orderId": o.ID().String(),
		},
	})
	if err != nil {
		d.logger.WarnContext(ctx, "notification failed",
			"order_id", o.ID().String(), "notification", string(n), "error", err)
	}
}

func (d EffectDispatcher) publish(ctx context.Context, channel string, event ports.Event) {
	if err := d.publisher.Publish(ctx, channel, event); err != nil {
		d.logger.WarnContext(ctx, "publish failed", "channel", channel, "event", event.Name, "error", err)
	}
}
