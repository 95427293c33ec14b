// Package storerepo reads store ownership from the catalog's stores table.
package storerepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreDTO mirrors the columns of the catalog table this service depends on.
type StoreDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"type:varchar(255);not null"`
}

func (StoreDTO) TableName() string {
	return "stores"
}

type GormStoreRepository struct {
	db *gorm.DB
}

func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

func (r *GormStoreRepository) OwnerOf(ctx context.Context, storeID kernel.UUID) (kernel.UUID, error) {
	if err := storeID.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var dto StoreDTO
	err := r.db.WithContext(ctx).Select("owner_id").First(&dto, "id = ?", storeID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kernel.UUID{}, errs.NewObjectNotFoundError("store", storeID.String())
		}
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromBytes(dto.OwnerID[:])
}
