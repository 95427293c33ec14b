package accountrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormAccountRepository implements ports.AccountRepository using GORM.
type GormAccountRepository struct {
	db *gorm.DB
}

func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// GetRole treats users without a row as plain users.
func (r *GormAccountRepository) GetRole(ctx context.Context, userID kernel.UUID) (account.Role, error) {
	if err := userID.Validate(); err != nil {
		return "", err
	}

	var dto AccountDTO
	err := r.db.WithContext(ctx).Select("role").First(&dto, "user_id = ?", userID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account.RoleUser, nil
		}
		return "", err
	}
	return account.ParseRole(dto.Role)
}

// PromoteToCourier upserts the account as a shipper, but only ever from the user role:
// admins and existing shippers are left alone.
func (r *GormAccountRepository) PromoteToCourier(ctx context.Context, userID kernel.UUID) (bool, error) {
	if err := userID.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO accounts (user_id, role, balance, updated_at)
		VALUES (?, ?, 0, ?)
		ON CONFLICT (user_id) DO UPDATE
		SET role = EXCLUDED.role, updated_at = EXCLUDED.updated_at
		WHERE accounts.role = ?`,
		userID.Bytes(), string(account.RoleShipper), time.Now().UTC(), string(account.RoleUser),
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetRole is used by provisioning and tests to register admins and shippers.
func (r *GormAccountRepository) SetRole(ctx context.Context, userID kernel.UUID, role account.Role) error {
	if _, err := account.ParseRole(string(role)); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO accounts (user_id, role, balance, updated_at)
		VALUES (?, ?, 0, ?)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = EXCLUDED.updated_at`,
		userID.Bytes(), string(role), time.Now().UTC(),
	).Error
}
