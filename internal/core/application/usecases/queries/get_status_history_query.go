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

var ErrGetStatusHistoryQueryIsNotConstructed = errors.New(
	"GetStatusHistoryQuery must be created via NewGetStatusHistoryQuery constructor",
)

type GetStatusHistoryQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetStatusHistoryQuery(orderID kernel.UUID) (GetStatusHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetStatusHistoryQuery{}, errs.NewValueIsRequiredErrorWithCause("order_id", err)
	}
	return GetStatusHistoryQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetStatusHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetStatusHistoryQueryIsNotConstructed)
}

type StatusChangeView struct {
	From    string
	To      string
	ActorID kernel.UUID
	At      time.Time
}

type GetStatusHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetStatusHistoryQueryHandler(db *gorm.DB) GetStatusHistoryQueryHandler {
	return GetStatusHistoryQueryHandler{db: db}
}

// Handle returns the audit trail oldest first.
func (h GetStatusHistoryQueryHandler) Handle(ctx context.Context, query GetStatusHistoryQuery) ([]StatusChangeView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT from_status, to_status, actor_id, created_at
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY created_at, id
	`, query.orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]StatusChangeView, 0)
	for rows.Next() {
		var (
			change  StatusChangeView
			actorID uuid.UUID
		)
		if err = rows.Scan(&change.From, &change.To, &actorID, &change.At); err != nil {
			return nil, err
		}
		if change.ActorID, err = kernel.UUIDFromBytes(actorID[:]); err != nil {
			return nil, err
		}
		history = append(history, change)
	}
	return history, rows.Err()
}
