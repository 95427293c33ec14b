// Package chat models the per-order conversation between customer and courier.
package chat

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const MaxBodyLength = 2000

type Message struct {
	id         kernel.UUID
	orderID    kernel.UUID
	senderID   kernel.UUID
	receiverID kernel.UUID
	body       string
	isRead     bool
	createdAt  time.Time
}

func NewMessage(orderID, senderID, receiverID kernel.UUID, body string, now time.Time) (Message, error) {
	m := Message{id: kernel.NewUUID(), createdAt: now.UTC()}
	if err := errors.Join(
		requireID("order_id", orderID, &m.orderID),
		requireID("sender_id", senderID, &m.senderID),
		requireID("receiver_id", receiverID, &m.receiverID),
		m.setBody(body),
	); err != nil {
		return Message{}, err
	}
	if senderID.IsEqual(receiverID) {
		return Message{}, errs.NewValueIsInvalidErrorWithCause("receiver_id", errors.New("sender and receiver are the same user"))
	}
	return m, nil
}

func RestoreMessage(id, orderID, senderID, receiverID kernel.UUID, body string, isRead bool, createdAt time.Time) Message {
	return Message{
		id:         id,
		orderID:    orderID,
		senderID:   senderID,
		receiverID: receiverID,
		body:       body,
		isRead:     isRead,
		createdAt:  createdAt,
	}
}

func (m Message) ID() kernel.UUID {
	return m.id
}

func (m Message) OrderID() kernel.UUID {
	return m.orderID
}

func (m Message) SenderID() kernel.UUID {
	return m.senderID
}

func (m Message) ReceiverID() kernel.UUID {
	return m.receiverID
}

func (m Message) Body() string {
	return m.body
}

func (m Message) IsRead() bool {
	return m.isRead
}

func (m Message) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Message) setBody(body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return errs.NewValueIsRequiredError("message")
	}
	if n := utf8.RuneCountInString(body); n > MaxBodyLength {
		return errs.NewValueIsOutOfRangeError("message", n, 1, MaxBodyLength)
	}
	m.body = body
	return nil
}

func requireID(name string, id kernel.UUID, dst *kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	*dst = id
	return nil
}
