// Package accountrepo stores the core's account rows: role and running balance.
package accountrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountDTO is shared with the ledger, which moves balance with conditional updates.
type AccountDTO struct {
	UserID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Role      string          `gorm:"type:varchar(16);not null;default:user"`
	Balance   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	UpdatedAt time.Time       `gorm:"not null"`
}

func (AccountDTO) TableName() string {
	return "accounts"
}
