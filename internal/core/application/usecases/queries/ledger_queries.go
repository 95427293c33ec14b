package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

var (
	ErrGetBalanceQueryIsNotConstructed = errors.New(
		"GetBalanceQuery must be created via NewGetBalanceQuery constructor",
	)
	ErrGetLedgerHistoryQueryIsNotConstructed = errors.New(
		"GetLedgerHistoryQuery must be created via NewGetLedgerHistoryQuery constructor",
	)
)

type GetBalanceQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetBalanceQuery(userID kernel.UUID) (GetBalanceQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetBalanceQuery{}, errs.NewValueIsRequiredErrorWithCause("user_id", err)
	}
	return GetBalanceQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetBalanceQueryIsNotConstructed)
}

type GetBalanceQueryHandler struct {
	db *gorm.DB
}

func NewGetBalanceQueryHandler(db *gorm.DB) GetBalanceQueryHandler {
	return GetBalanceQueryHandler{db: db}
}

// Handle reports zero for users that never had a ledger movement.
func (h GetBalanceQueryHandler) Handle(ctx context.Context, query GetBalanceQuery) (kernel.Money, error) {
	if err := query.Validate(); err != nil {
		return kernel.Money{}, err
	}

	var balance decimal.Decimal
	err := h.db.WithContext(ctx).
		Raw("SELECT balance FROM accounts WHERE user_id = ?", query.userID.Bytes()).
		Row().Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return kernel.ZeroMoney, nil
	}
	if err != nil {
		return kernel.Money{}, err
	}
	return kernel.NewMoney(balance), nil
}

type GetLedgerHistoryQuery struct {
	userID kernel.UUID
	limit  int

	guard guard.ConstructorGuard
}

// NewGetLedgerHistoryQuery uses DefaultHistoryLimit when limit is zero.
func NewGetLedgerHistoryQuery(userID kernel.UUID, limit int) (GetLedgerHistoryQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetLedgerHistoryQuery{}, errs.NewValueIsRequiredErrorWithCause("user_id", err)
	}
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 0 || limit > MaxHistoryLimit {
		return GetLedgerHistoryQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxHistoryLimit)
	}
	return GetLedgerHistoryQuery{userID: userID, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetLedgerHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetLedgerHistoryQueryIsNotConstructed)
}

type LedgerEntryView struct {
	ID          kernel.UUID
	Amount      kernel.Money
	Kind        string
	Description string
	ReferenceID *kernel.UUID
	CreatedAt   time.Time
}

type GetLedgerHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetLedgerHistoryQueryHandler(db *gorm.DB) GetLedgerHistoryQueryHandler {
	return GetLedgerHistoryQueryHandler{db: db}
}

func (h GetLedgerHistoryQueryHandler) Handle(ctx context.Context, query GetLedgerHistoryQuery) ([]LedgerEntryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, amount, kind, description, reference_id, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`, query.userID.Bytes(), query.limit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]LedgerEntryView, 0)
	for rows.Next() {
		var (
			e           LedgerEntryView
			id          uuid.UUID
			amount      decimal.Decimal
			description sql.NullString
			reference   uuid.NullUUID
		)
		if err = rows.Scan(&id, &amount, &e.Kind, &description, &reference, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if reference.Valid {
			ref, refErr := kernel.UUIDFromBytes(reference.UUID[:])
			if refErr != nil {
				return nil, refErr
			}
			e.ReferenceID = &ref
		}
		e.Amount = kernel.NewMoney(amount)
		e.Description = description.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
