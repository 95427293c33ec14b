// Package ledgerrepo persists ledger entries (the transactions table) and moves account
// balances in the same transaction.
package ledgerrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EarningIndex makes a second order_earning for the same order a unique violation.
const EarningIndex = "ux_transactions_order_earning"

type EntryDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Kind        string          `gorm:"type:varchar(32);not null"`
	Description string          `gorm:"type:varchar(255)"`
	ReferenceID *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt   time.Time       `gorm:"not null;index"`
}

func (EntryDTO) TableName() string {
	return "transactions"
}

func fromDomain(e ledger.Entry) EntryDTO {
	var ref *uuid.UUID
	if id := e.ReferenceID(); id != nil {
		raw := id.Bytes()
		ref = &raw
	}
	return EntryDTO{
		ID:          e.ID().Bytes(),
		UserID:      e.UserID().Bytes(),
		Amount:      e.Amount().Decimal(),
		Kind:        string(e.Kind()),
		Description: e.Description(),
		ReferenceID: ref,
		CreatedAt:   e.CreatedAt(),
	}
}

func toDomain(dto EntryDTO) (ledger.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ledger.Entry{}, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return ledger.Entry{}, err
	}
	kind, err := ledger.ParseKind(dto.Kind)
	if err != nil {
		return ledger.Entry{}, err
	}

	var ref *kernel.UUID
	if dto.ReferenceID != nil {
		refID, refErr := kernel.UUIDFromBytes((*dto.ReferenceID)[:])
		if refErr != nil {
			return ledger.Entry{}, refErr
		}
		ref = &refID
	}

	return ledger.RestoreEntry(id, userID, kernel.NewMoney(dto.Amount), kind, dto.Description, ref, dto.CreatedAt), nil
}
