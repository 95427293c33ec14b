package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrRecordChatMessageCommandIsNotConstructed = errors.New(
		"RecordChatMessageCommand must be created via NewRecordChatMessageCommand constructor",
	)
	ErrMarkChatReadCommandIsNotConstructed = errors.New(
		"MarkChatReadCommand must be created via NewMarkChatReadCommand constructor",
	)
)

type RecordChatMessageCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	senderID   kernel.UUID
	receiverID kernel.UUID
	body       string

	guard guard.ConstructorGuard
}

func NewRecordChatMessageCommand(orderID, senderID, receiverID kernel.UUID, body string) (RecordChatMessageCommand, error) {
	cmd := RecordChatMessageCommand{guard: guard.NewConstructorGuard()}

	var bodyErr error
	if strings.TrimSpace(body) == "" {
		bodyErr = errs.NewValueIsRequiredError("message")
	}

	if err := errors.Join(
		requireUUID("order_id", orderID, &cmd.orderID),
		requireUUID("sender_id", senderID, &cmd.senderID),
		requireUUID("receiver_id", receiverID, &cmd.receiverID),
		bodyErr,
	); err != nil {
		return RecordChatMessageCommand{}, err
	}

	cmd.body = body
	return cmd, nil
}

func (c RecordChatMessageCommand) Validate() error {
	return c.guard.Validate(ErrRecordChatMessageCommandIsNotConstructed)
}

func (c RecordChatMessageCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RecordChatMessageCommand) SenderID() kernel.UUID {
	return c.senderID
}

func (c RecordChatMessageCommand) ReceiverID() kernel.UUID {
	return c.receiverID
}

func (c RecordChatMessageCommand) Body() string {
	return c.body
}

// MarkChatReadCommand marks every message of an order addressed to the reader as read.
type MarkChatReadCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	readerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewMarkChatReadCommand(orderID, readerID kernel.UUID) (MarkChatReadCommand, error) {
	cmd := MarkChatReadCommand{guard: guard.NewConstructorGuard()}
	if err := errors.Join(
		requireUUID("order_id", orderID, &cmd.orderID),
		requireUUID("reader_id", readerID, &cmd.readerID),
	); err != nil {
		return MarkChatReadCommand{}, err
	}
	return cmd, nil
}

func (c MarkChatReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkChatReadCommandIsNotConstructed)
}

func (c MarkChatReadCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c MarkChatReadCommand) ReaderID() kernel.UUID {
	return c.readerID
}
