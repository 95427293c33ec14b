// Package offerrepo keeps the shipper_notifications projection in step with orders.
package offerrepo

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfferDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    string    `gorm:"type:varchar(16);not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (OfferDTO) TableName() string {
	return "shipper_notifications"
}

// GormOfferRepository implements ports.OfferRepository using GORM.
type GormOfferRepository struct {
	db *gorm.DB
}

func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

func (r *GormOfferRepository) Open(ctx context.Context, o offer.Offer) error {
	dto := OfferDTO{
		ID:        o.ID().Bytes(),
		OrderID:   o.OrderID().Bytes(),
		Status:    string(o.Status()),
		CreatedAt: o.CreatedAt(),
		UpdatedAt: o.CreatedAt(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormOfferRepository) Close(ctx context.Context, orderID kernel.UUID, status offer.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&OfferDTO{}).
		Where("order_id = ? AND status = ?", orderID.Bytes(), string(offer.StatusPending)).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now().UTC()}).Error
}

// CloseStale accepts pending offers of orders that went on to be claimed and rejects
// the rest. It repairs drift left by effects that failed after commit.
func (r *GormOfferRepository) CloseStale(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE shipper_notifications n
		SET status = CASE WHEN o.shipper_id IS NULL THEN ? ELSE ? END,
		    updated_at = ?
		FROM orders o
		WHERE o.id = n.order_id
		  AND n.status = ?
		  AND o.status <> ?`,
		string(offer.StatusRejected), string(offer.StatusAccepted), time.Now().UTC(),
		string(offer.StatusPending), order.Confirmed.String(),
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
