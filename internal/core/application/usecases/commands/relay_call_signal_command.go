package commands

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRelayCallSignalCommandIsNotConstructed = errors.New(
	"RelayCallSignalCommand must be created via NewRelayCallSignalCommand constructor",
)

// CallSignal is a step of the call handshake between two users.
type CallSignal string

const (
	CallInitiate CallSignal = "initiate"
	CallAccept   CallSignal = "accept"
	CallReject   CallSignal = "reject"
	CallEnd      CallSignal = "end"
)

var callSignalEvents = map[CallSignal]string{
	CallInitiate: EventCallIncoming,
	CallAccept:   EventCallAccepted,
	CallReject:   EventCallRejected,
	CallEnd:      EventCallEnded,
}

// EventName is the event delivered to the receiving user.
func (s CallSignal) EventName() string {
	return callSignalEvents[s]
}

// RelayCallSignalCommand carries a call signal from one user to another. Media and
// tokens are handled by the video provider; the core only relays the handshake.
type RelayCallSignalCommand struct { //nolint:recvcheck //using for validation
	signal     CallSignal
	senderID   kernel.UUID
	receiverID kernel.UUID
	orderID    *kernel.UUID
	callType   string
	extra      map[string]string

	guard guard.ConstructorGuard
}

func NewRelayCallSignalCommand(
	signal CallSignal,
	senderID, receiverID kernel.UUID,
	orderID *kernel.UUID,
	callType string,
	extra map[string]string,
) (RelayCallSignalCommand, error) {
	cmd := RelayCallSignalCommand{
		signal:   signal,
		callType: callType,
		extra:    maps.Clone(extra),
		guard:    guard.NewConstructorGuard(),
	}

	var signalErr error
	if _, ok := callSignalEvents[signal]; !ok {
		signalErr = errs.NewValueIsInvalidErrorWithCause("signal", fmt.Errorf("%q is not supported", string(signal)))
	}

	if err := errors.Join(
		requireUUID("sender_id", senderID, &cmd.senderID),
		requireUUID("receiver_id", receiverID, &cmd.receiverID),
		signalErr,
	); err != nil {
		return RelayCallSignalCommand{}, err
	}

	if senderID.IsEqual(receiverID) {
		return RelayCallSignalCommand{}, errs.NewValueIsInvalidErrorWithCause("receiver_id",
			errors.New("cannot call yourself"))
	}

	if orderID != nil {
		id := *orderID
		cmd.orderID = &id
	}
	return cmd, nil
}

func (c RelayCallSignalCommand) Validate() error {
	return c.guard.Validate(ErrRelayCallSignalCommandIsNotConstructed)
}

func (c RelayCallSignalCommand) Signal() CallSignal {
	return c.signal
}

func (c RelayCallSignalCommand) SenderID() kernel.UUID {
	return c.senderID
}

func (c RelayCallSignalCommand) ReceiverID() kernel.UUID {
	return c.receiverID
}

func (c RelayCallSignalCommand) OrderID() *kernel.UUID {
	return c.orderID
}

type RelayCallSignalCommandHandler struct {
	publisher ports.EventPublisher
}

func NewRelayCallSignalCommandHandler(publisher ports.EventPublisher) RelayCallSignalCommandHandler {
	return RelayCallSignalCommandHandler{publisher: publisher}
}

func (h RelayCallSignalCommandHandler) Handle(ctx context.Context, command RelayCallSignalCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return h.publisher.Publish(ctx, ports.UserChannel(command.ReceiverID()), ports.Event{
		Name: command.Signal().EventName(),
		Data: CallSignalPayload{
			CallerID:   command.SenderID(),
			ReceiverID: command.ReceiverID(),
			OrderID:    command.OrderID(),
			CallType:   command.callType,
			Extra:      maps.Clone(command.extra),
		},
	})
}
