package orderrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/adapters/out/postgres/pgerr"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/ledger"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order and its items. GORM writes the associations in the same
// transaction, so a failing item leaves no order behind.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if len(aggregate.Items()) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, pgerr.Classify("order "+id.String(), err)
	}

	return toDomain(dto)
}

// ConditionalTransition is the arbitration point: one UPDATE whose WHERE clause carries
// the expected status and courier predicates. Concurrent callers serialise on the row
// lock and all but one see zero affected rows.
func (r *GormOrderRepository) ConditionalTransition(
	ctx context.Context,
	id kernel.UUID,
	expected, next order.Status,
	fields order.TransitionFields,
) (int64, error) {
	if err := errors.Join(id.Validate(), expected.Validate(), next.Validate()); err != nil {
		return 0, err
	}

	q := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), expected.String())

	updates := map[string]any{
		"status":     next.String(),
		"updated_at": time.Now().UTC(),
	}
	if fields.BindCourier != nil {
		q = q.Where("shipper_id IS NULL")
		updates["shipper_id"] = fields.BindCourier.Bytes()
	}
	if fields.RequireCourier != nil {
		q = q.Where("shipper_id = ?", fields.RequireCourier.Bytes())
	}

	result := q.Updates(updates)
	if result.Error != nil {
		return 0, pgerr.Classify("order "+id.String(), result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormOrderRepository) AppendStatusChange(ctx context.Context, change order.StatusChange) error {
	dto := statusChangeFromDomain(change)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormOrderRepository) ListByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	if err := r.withItems(ctx).
		Where("status = ?", status.String()).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormOrderRepository) ListByCourier(
	ctx context.Context,
	courierID kernel.UUID,
	statuses ...order.Status,
) ([]*order.Order, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	q := r.withItems(ctx).Where("shipper_id = ?", courierID.Bytes())
	if len(statuses) > 0 {
		names := make([]string, 0, len(statuses))
		for _, s := range statuses {
			names = append(names, s.String())
		}
		q = q.Where("status IN ?", names)
	}

	var dtos []OrderDTO
	if err := q.Order("updated_at DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormOrderRepository) ListCompletedWithoutEarning(ctx context.Context, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.withItems(ctx).
		Where("status = ?", order.Completed.String()).
		Where(`NOT EXISTS (
			SELECT 1 FROM transactions t
			WHERE t.kind = ? AND t.reference_id = orders.id
		)`, string(ledger.KindOrderEarning)).
		Order("updated_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
