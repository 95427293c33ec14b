package ports

import (
	"context"

	"dispatch/internal/core/domain/model/chat"
	"dispatch/internal/core/domain/model/kernel"
)

type ChatRepository interface {
	Add(ctx context.Context, msg chat.Message) error

	// ListByOrder returns messages ordered by (created_at, id).
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]chat.Message, error)

	// MarkRead flags every unread message of the order addressed to receiverID.
	MarkRead(ctx context.Context, orderID, receiverID kernel.UUID) (int64, error)
}
