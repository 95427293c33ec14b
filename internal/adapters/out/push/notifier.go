// Package push delivers user notifications. Device push tokens and the push provider
// live outside this service; here a notification is logged and forwarded to the user's
// real-time channel so connected clients see it immediately.
package push

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

const EventNotification = "notification"

var _ ports.Notifier = (*Notifier)(nil)

type Payload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	At    time.Time         `json:"at"`
}

type Notifier struct {
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewNotifier(publisher ports.EventPublisher, logger *slog.Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		logger:    logger.With("component", "push_notifier"),
	}
}

func (n *Notifier) Notify(ctx context.Context, userID kernel.UUID, notification ports.Notification) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "notification",
		"user_id", userID.String(),
		"title", notification.Title,
		"type", notification.Data["type"],
	)

	return n.publisher.Publish(ctx, ports.UserChannel(userID), ports.Event{
		Name: EventNotification,
		Data: Payload{
			Title: notification.Title,
			Body:  notification.Body,
			Data:  maps.Clone(notification.Data),
			At:    time.Now().UTC(),
		},
	})
}
