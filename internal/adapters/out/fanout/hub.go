// Package fanout keeps the in-process subscriptions of real-time sessions and delivers
// events to them. Delivery is at most once: a session whose buffer is full misses the
// event instead of slowing the publisher down.
package fanout

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"dispatch/internal/core/ports"
)

const DefaultBuffer = 64

var (
	ErrUnknownSession   = errors.New("session is not connected")
	ErrSessionConnected = errors.New("session is already connected")
)

var _ ports.EventPublisher = (*Hub)(nil)

// Subscription is the receiving side of a connected session. Events is closed by
// Disconnect.
type Subscription struct {
	id     string
	events chan ports.Event
}

func (s *Subscription) ID() string {
	return s.id
}

func (s *Subscription) Events() <-chan ports.Event {
	return s.events
}

type session struct {
	sub      *Subscription
	channels map[string]struct{}
}

// Hub maps channels to the sessions joined to them. The hub does not authorize: callers
// decide who may join what.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*session
	rooms    map[string]map[string]*Subscription

	buffer int
	logger *slog.Logger
}

func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		sessions: make(map[string]*session),
		rooms:    make(map[string]map[string]*Subscription),
		buffer:   buffer,
		logger:   logger.With("component", "fanout_hub"),
	}
}

func (h *Hub) Connect(sessionID string) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[sessionID]; ok {
		return nil, ErrSessionConnected
	}

	sub := &Subscription{id: sessionID, events: make(chan ports.Event, h.buffer)}
	h.sessions[sessionID] = &session{sub: sub, channels: make(map[string]struct{})}
	return sub, nil
}

// Join is idempotent.
func (h *Hub) Join(sessionID, channel string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return ErrUnknownSession
	}

	room, ok := h.rooms[channel]
	if !ok {
		room = make(map[string]*Subscription)
		h.rooms[channel] = room
	}
	room[sessionID] = s.sub
	s.channels[channel] = struct{}{}
	return nil
}

func (h *Hub) Leave(sessionID, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.sessions[sessionID]; ok {
		delete(s.channels, channel)
	}
	h.removeFromRoom(sessionID, channel)
}

// LeaveAll removes the session from every channel but keeps it connected.
func (h *Hub) LeaveAll(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	for channel := range s.channels {
		h.removeFromRoom(sessionID, channel)
	}
	clear(s.channels)
}

// Disconnect leaves every channel and closes the subscription.
func (h *Hub) Disconnect(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	for channel := range s.channels {
		h.removeFromRoom(sessionID, channel)
	}
	delete(h.sessions, sessionID)
	close(s.sub.events)
}

// Channels lists the channels a session has joined.
func (h *Hub) Channels(sessionID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return nil
	}
	channels := make([]string, 0, len(s.channels))
	for channel := range s.channels {
		channels = append(channels, channel)
	}
	return channels
}

// Broadcast delivers event to every session on channel without blocking and returns
// how many sessions received it.
func (h *Hub) Broadcast(channel string, event ports.Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for id, sub := range h.rooms[channel] {
		select {
		case sub.events <- event:
			delivered++
		default:
			h.logger.Debug("event dropped for slow session",
				"session_id", id, "channel", channel, "event", event.Name)
		}
	}
	return delivered
}

// Publish makes the hub usable as a single-instance EventPublisher.
func (h *Hub) Publish(_ context.Context, channel string, event ports.Event) error {
	h.Broadcast(channel, event)
	return nil
}

// removeFromRoom must be called with mu held.
func (h *Hub) removeFromRoom(sessionID, channel string) {
	room, ok := h.rooms[channel]
	if !ok {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(h.rooms, channel)
	}
}
