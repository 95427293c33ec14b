// Package ws serves the realtime socket. Clients send JSON frames shaped like
// {"event": "...", "data": {...}} and receive ports.Event frames of the same shape.
package ws

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Inbound events.
const (
	EventJoinDeliveryRoom = "join-delivery-room"
	EventShipperLocation  = "shipper-location"
	EventJoinChat         = "join-chat"
	EventNewMessage       = "new-message"
	EventLeave            = "leave-room"
	EventInitiateCall     = "initiate-call"
	EventCallAccepted     = "call-accepted"
	EventCallRejected     = "call-rejected"
	EventEndCall          = "end-call"
)

// Outbound acknowledgements. Domain events come from the command handlers.
const (
	EventJoined = "joined"
	EventLeft   = "left"
	EventError  = "error"
)

type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type roomRequest struct {
	OrderID uuid.UUID `json:"orderId"`
}

type locationRequest struct {
	OrderID   uuid.UUID `json:"orderId"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

type messageRequest struct {
	OrderID    uuid.UUID `json:"orderId"`
	ReceiverID uuid.UUID `json:"receiverId"`
	Message    string    `json:"message"`
}

type leaveRequest struct {
	Channel string `json:"channel"`
}

// callRequest covers every call signal. The peer is receiverId for initiate-call and
// end-call, and callerId when answering.
type callRequest struct {
	ReceiverID  uuid.UUID  `json:"receiverId"`
	CallerID    uuid.UUID  `json:"callerId"`
	OrderID     *uuid.UUID `json:"orderId,omitempty"`
	CallType    string     `json:"callType,omitempty"`
	ChannelName string     `json:"channelName,omitempty"`
	Token       string     `json:"token,omitempty"`
	CallerName  string     `json:"callerName,omitempty"`
}

type channelAck struct {
	Channel string `json:"channel"`
}

type errorFrame struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}
