// Package chatrepo persists per-order chat messages.
package chatrepo

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/chat"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_messages_order,priority:1"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index"`
	Message    string    `gorm:"type:text;not null"`
	IsRead     bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"not null;index:idx_chat_messages_order,priority:2"`
}

func (MessageDTO) TableName() string {
	return "chat_messages"
}

// GormChatRepository implements ports.ChatRepository using GORM.
type GormChatRepository struct {
	db *gorm.DB
}

func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{db: db}
}

func (r *GormChatRepository) Add(ctx context.Context, msg chat.Message) error {
	dto := MessageDTO{
		ID:         msg.ID().Bytes(),
		OrderID:    msg.OrderID().Bytes(),
		SenderID:   msg.SenderID().Bytes(),
		ReceiverID: msg.ReceiverID().Bytes(),
		Message:    msg.Body(),
		IsRead:     msg.IsRead(),
		CreatedAt:  msg.CreatedAt(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormChatRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]chat.Message, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []MessageDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	messages := make([]chat.Message, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *GormChatRepository) MarkRead(ctx context.Context, orderID, receiverID kernel.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&MessageDTO{}).
		Where("order_id = ? AND receiver_id = ? AND is_read = false", orderID.Bytes(), receiverID.Bytes()).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func toDomain(dto MessageDTO) (chat.Message, error) {
	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.OrderID, dto.SenderID, dto.ReceiverID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return chat.Message{}, err
		}
		ids = append(ids, id)
	}
	return chat.RestoreMessage(ids[0], ids[1], ids[2], ids[3], dto.Message, dto.IsRead, dto.CreatedAt), nil
}
