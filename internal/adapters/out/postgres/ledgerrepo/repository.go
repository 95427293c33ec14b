package ledgerrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dispatch/internal/adapters/out/postgres/pgerr"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/ledger"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const MaxHistory = 200

// GormLedgerRepository implements ports.LedgerRepository using GORM.
type GormLedgerRepository struct {
	db *gorm.DB
}

func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append inserts the entry. A duplicate order earning surfaces as LedgerInconsistency
// so that callers can tell it apart from other failures.
func (r *GormLedgerRepository) Append(ctx context.Context, entry ledger.Entry) error {
	if err := entry.UserID().Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) && entry.Kind() == ledger.KindOrderEarning {
			return errs.NewLedgerInconsistencyError(entry.ReferenceID(), "earning already recorded")
		}
		return err
	}
	return nil
}

// AdjustBalance moves the balance in one statement. Without a floor the account row is
// created on demand; with a floor the row must exist and the guard is evaluated by the
// database, so concurrent withdrawals cannot overdraw.
func (r *GormLedgerRepository) AdjustBalance(
	ctx context.Context,
	userID kernel.UUID,
	delta kernel.Money,
	floor *kernel.Money,
) (bool, error) {
	if err := userID.Validate(); err != nil {
		return false, err
	}

	now := time.Now().UTC()
	var result *gorm.DB
	if floor == nil {
		result = r.db.WithContext(ctx).Exec(`
			INSERT INTO accounts (user_id, role, balance, updated_at)
			VALUES (?, 'user', ?, ?)
			ON CONFLICT (user_id) DO UPDATE
			SET balance = accounts.balance + EXCLUDED.balance, updated_at = EXCLUDED.updated_at`,
			userID.Bytes(), delta.Decimal(), now,
		)
	} else {
		result = r.db.WithContext(ctx).Exec(`
			UPDATE accounts
			SET balance = balance + ?, updated_at = ?
			WHERE user_id = ? AND balance + ? >= ?`,
			delta.Decimal(), now, userID.Bytes(), delta.Decimal(), floor.Decimal(),
		)
	}
	if result.Error != nil {
		return false, pgerr.Classify("account "+userID.String(), result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *GormLedgerRepository) GetBalance(ctx context.Context, userID kernel.UUID) (kernel.Money, error) {
	if err := userID.Validate(); err != nil {
		return kernel.Money{}, err
	}

	var balance decimal.Decimal
	err := r.db.WithContext(ctx).
		Raw("SELECT balance FROM accounts WHERE user_id = ?", userID.Bytes()).
		Row().Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return kernel.ZeroMoney, nil
		}
		return kernel.Money{}, err
	}
	return kernel.NewMoney(balance), nil
}

// ListHistory returns the newest entries first.
func (r *GormLedgerRepository) ListHistory(ctx context.Context, userID kernel.UUID, limit int) ([]ledger.Entry, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxHistory {
		limit = MaxHistory
	}

	var dtos []EntryDTO
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID.Bytes()).
		Order("created_at DESC, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]ledger.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *GormLedgerRepository) HasOrderEarning(ctx context.Context, orderID kernel.UUID) (bool, error) {
	if err := orderID.Validate(); err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&EntryDTO{}).
		Where("kind = ? AND reference_id = ?", string(ledger.KindOrderEarning), orderID.Bytes()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
