package queries

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrGetChatMessagesQueryIsNotConstructed = errors.New(
	"GetChatMessagesQuery must be created via NewGetChatMessagesQuery constructor",
)

type GetChatMessagesQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetChatMessagesQuery(orderID kernel.UUID) (GetChatMessagesQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetChatMessagesQuery{}, errs.NewValueIsRequiredErrorWithCause("order_id", err)
	}
	return GetChatMessagesQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetChatMessagesQuery) Validate() error {
	return q.guard.Validate(ErrGetChatMessagesQueryIsNotConstructed)
}

type ChatMessageView struct {
	ID         kernel.UUID
	SenderID   kernel.UUID
	ReceiverID kernel.UUID
	Message    string
	IsRead     bool
	CreatedAt  time.Time
}

type GetChatMessagesQueryHandler struct {
	db *gorm.DB
}

func NewGetChatMessagesQueryHandler(db *gorm.DB) GetChatMessagesQueryHandler {
	return GetChatMessagesQueryHandler{db: db}
}

func (h GetChatMessagesQueryHandler) Handle(ctx context.Context, query GetChatMessagesQuery) ([]ChatMessageView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, sender_id, receiver_id, message, is_read, created_at
		FROM chat_messages
		WHERE order_id = ?
		ORDER BY created_at, id
	`, query.orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]ChatMessageView, 0)
	for rows.Next() {
		var (
			m                    ChatMessageView
			id, sender, receiver uuid.UUID
		)
		if err = rows.Scan(&id, &sender, &receiver, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		if m.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if m.SenderID, err = kernel.UUIDFromBytes(sender[:]); err != nil {
			return nil, err
		}
		if m.ReceiverID, err = kernel.UUIDFromBytes(receiver[:]); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
