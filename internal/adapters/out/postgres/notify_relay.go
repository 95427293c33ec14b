package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/ports"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	DefaultEventsChannel = "dispatch_events"

	// maxNotifyPayload stays under the server's 8000 byte NOTIFY limit.
	maxNotifyPayload = 7900

	listenerMinReconnect = 2 * time.Second
	listenerMaxReconnect = time.Minute
	listenerPingInterval = 90 * time.Second
)

var _ ports.EventPublisher = (*NotifyRelay)(nil)

// Broadcaster is the local side of the relay, normally the fanout hub.
type Broadcaster interface {
	Broadcast(channel string, event ports.Event) int
}

type envelope struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NotifyRelay spreads real-time events across instances. Publish sends the event
// through pg_notify on one server channel; Run listens on that channel on every instance
// and hands each event to the local Broadcaster, including the instance that sent it.
type NotifyRelay struct {
	db      *gorm.DB
	dsn     string
	channel string
	local   Broadcaster
	logger  *slog.Logger
}

func NewNotifyRelay(db *gorm.DB, dsn, channel string, local Broadcaster, logger *slog.Logger) *NotifyRelay {
	if channel == "" {
		channel = DefaultEventsChannel
	}
	return &NotifyRelay{
		db:      db,
		dsn:     dsn,
		channel: channel,
		local:   local,
		logger:  logger.With("component", "notify_relay"),
	}
}

func (r *NotifyRelay) Publish(ctx context.Context, channel string, event ports.Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Name, err)
	}

	payload, err := json.Marshal(envelope{Channel: channel, Event: event.Name, Data: data})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	if len(payload) > maxNotifyPayload {
		r.logger.WarnContext(ctx, "event too large for notify, delivered locally only",
			"channel", channel, "event", event.Name, "size", len(payload))
		r.local.Broadcast(channel, event)
		return nil
	}

	return r.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", r.channel, string(payload)).Error
}

// Run blocks until ctx is done. Notifications sent while the listener reconnects are lost.
func (r *NotifyRelay) Run(ctx context.Context) error {
	listener := pq.NewListener(r.dsn, listenerMinReconnect, listenerMaxReconnect,
		func(ev pq.ListenerEventType, err error) {
			switch ev {
			case pq.ListenerEventConnected:
				r.logger.Info("listener connected", "channel", r.channel)
			case pq.ListenerEventDisconnected:
				r.logger.Warn("listener disconnected", "channel", r.channel, "error", err)
			case pq.ListenerEventReconnected:
				r.logger.Info("listener reconnected", "channel", r.channel)
			case pq.ListenerEventConnectionAttemptFailed:
				r.logger.Warn("listener connection attempt failed", "channel", r.channel, "error", err)
			}
		})
	defer func() {
		_ = listener.Close()
	}()

	if err := listener.Listen(r.channel); err != nil {
		return fmt.Errorf("listen %s: %w", r.channel, err)
	}

	ticker := time.NewTicker(listenerPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			if n == nil {
				// connection was re-established, nothing to deliver
				continue
			}
			r.forward(n.Extra)
		case <-ticker.C:
			if err := listener.Ping(); err != nil && !errors.Is(err, pq.ErrChannelNotOpen) {
				r.logger.Warn("listener ping failed", "error", err)
			}
		}
	}
}

func (r *NotifyRelay) forward(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		r.logger.Warn("malformed notification dropped", "error", err)
		return
	}
	if env.Channel == "" || env.Event == "" {
		r.logger.Warn("notification without channel or event dropped")
		return
	}

	event := ports.Event{Name: env.Event}
	if len(env.Data) > 0 {
		event.Data = env.Data
	}
	r.local.Broadcast(env.Channel, event)
}
