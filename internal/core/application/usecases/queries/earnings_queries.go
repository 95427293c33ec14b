package queries

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/ledger"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrGetCourierEarningsQueryIsNotConstructed = errors.New(
		"GetCourierEarningsQuery must be created via NewGetCourierEarningsQuery constructor",
	)
	ErrGetPlatformRevenueQueryIsNotConstructed = errors.New(
		"GetPlatformRevenueQuery must be created via NewGetPlatformRevenueQuery constructor",
	)
)

// Periods are the reporting windows of the earnings dashboards, all in UTC: the current
// day, the week starting on Sunday, and the calendar month.
type Periods struct {
	Today time.Time
	Week  time.Time
	Month time.Time
}

func PeriodsAt(now time.Time) Periods {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return Periods{
		Today: today,
		Week:  today.AddDate(0, 0, -int(today.Weekday())),
		Month: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
	}
}

// PeriodTotals sums an amount over the reporting windows.
type PeriodTotals struct {
	Total kernel.Money
	Today kernel.Money
	Week  kernel.Money
	Month kernel.Money
}

type GetCourierEarningsQuery struct {
	courierID kernel.UUID
	now       time.Time

	guard guard.ConstructorGuard
}

func NewGetCourierEarningsQuery(courierID kernel.UUID, now time.Time) (GetCourierEarningsQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetCourierEarningsQuery{}, errs.NewValueIsRequiredErrorWithCause("shipper_id", err)
	}
	return GetCourierEarningsQuery{courierID: courierID, now: now, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCourierEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierEarningsQueryIsNotConstructed)
}

type EarningView struct {
	OrderID     kernel.UUID
	Amount      kernel.Money
	ShippingFee kernel.Money
	Date        time.Time
}

type CourierEarnings struct {
	PeriodTotals
	History []EarningView
}

// GetCourierEarningsQueryHandler reports what a courier earned. Amounts come from the
// order_earning ledger entries, so the dashboard shows exactly what was credited.
type GetCourierEarningsQueryHandler struct {
	db *gorm.DB
}

func NewGetCourierEarningsQueryHandler(db *gorm.DB) GetCourierEarningsQueryHandler {
	return GetCourierEarningsQueryHandler{db: db}
}

func (h GetCourierEarningsQueryHandler) Handle(ctx context.Context, query GetCourierEarningsQuery) (CourierEarnings, error) {
	if err := query.Validate(); err != nil {
		return CourierEarnings{}, err
	}

	p := PeriodsAt(query.now)
	var total, today, week, month decimal.Decimal
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(amount), 0),
			COALESCE(SUM(amount) FILTER (WHERE created_at >= ?), 0),
			COALESCE(SUM(amount) FILTER (WHERE created_at >= ?), 0),
			COALESCE(SUM(amount) FILTER (WHERE created_at >= ?), 0)
		FROM transactions
		WHERE user_id = ? AND kind = ?
	`, p.Today, p.Week, p.Month, query.courierID.Bytes(), string(ledger.KindOrderEarning)).
		Row().Scan(&total, &today, &week, &month)
	if err != nil {
		return CourierEarnings{}, err
	}

	history, err := h.history(ctx, query.courierID)
	if err != nil {
		return CourierEarnings{}, err
	}

	return CourierEarnings{
		PeriodTotals: PeriodTotals{
			Total: kernel.NewMoney(total),
			Today: kernel.NewMoney(today),
			Week:  kernel.NewMoney(week),
			Month: kernel.NewMoney(month),
		},
		History: history,
	}, nil
}

func (h GetCourierEarningsQueryHandler) history(ctx context.Context, courierID kernel.UUID) ([]EarningView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT t.reference_id, t.amount, COALESCE(o.shipping_fee, 0), t.created_at
		FROM transactions t
		LEFT JOIN orders o ON o.id = t.reference_id
		WHERE t.user_id = ? AND t.kind = ?
		ORDER BY t.created_at DESC
		LIMIT ?
	`, courierID.Bytes(), string(ledger.KindOrderEarning), DefaultHistoryLimit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]EarningView, 0)
	for rows.Next() {
		var (
			v           EarningView
			orderID     uuid.UUID
			amount, fee decimal.Decimal
		)
		if err = rows.Scan(&orderID, &amount, &fee, &v.Date); err != nil {
			return nil, err
		}
		if v.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		v.Amount = kernel.NewMoney(amount)
		v.ShippingFee = kernel.NewMoney(fee)
		history = append(history, v)
	}
	return history, rows.Err()
}

type GetPlatformRevenueQuery struct {
	now time.Time

	guard guard.ConstructorGuard
}

func NewGetPlatformRevenueQuery(now time.Time) GetPlatformRevenueQuery {
	return GetPlatformRevenueQuery{now: now, guard: guard.NewConstructorGuard()}
}

func (q GetPlatformRevenueQuery) Validate() error {
	return q.guard.Validate(ErrGetPlatformRevenueQueryIsNotConstructed)
}

type RevenueView struct {
	OrderID         kernel.UUID
	Date            time.Time
	TotalAmount     kernel.Money
	ShippingFee     kernel.Money
	ItemRevenue     kernel.Money
	ShippingRevenue kernel.Money
}

type PlatformRevenue struct {
	Items    PeriodTotals
	Shipping PeriodTotals
	History  []RevenueView
}

// GetPlatformRevenueQueryHandler computes platform revenue over completed orders. It is
// a report only; revenue is never written to the ledger.
type GetPlatformRevenueQueryHandler struct {
	db         *gorm.DB
	calculator services.EarningsCalculator
}

func NewGetPlatformRevenueQueryHandler(db *gorm.DB) GetPlatformRevenueQueryHandler {
	return GetPlatformRevenueQueryHandler{db: db, calculator: services.NewEarningsCalculator()}
}

func (h GetPlatformRevenueQueryHandler) Handle(ctx context.Context, query GetPlatformRevenueQuery) (PlatformRevenue, error) {
	if err := query.Validate(); err != nil {
		return PlatformRevenue{}, err
	}

	p := PeriodsAt(query.now)
	// Each order is rounded on its own, as the calculator does, before summing.
	itemShare, shippingShare := services.PlatformItemShare, services.PlatformShippingShare
	var sums [8]decimal.Decimal
	err := h.db.WithContext(ctx).Raw(`
		WITH revenue AS (
			SELECT
				ROUND((total_amount - shipping_fee) * ?, 2) AS items,
				ROUND(shipping_fee * ?, 2) AS shipping,
				updated_at
			FROM orders
			WHERE status = ?
		)
		SELECT
			COALESCE(SUM(items), 0),
			COALESCE(SUM(items) FILTER (WHERE updated_at >= ?), 0),
			COALESCE(SUM(items) FILTER (WHERE updated_at >= ?), 0),
			COALESCE(SUM(items) FILTER (WHERE updated_at >= ?), 0),
			COALESCE(SUM(shipping), 0),
			COALESCE(SUM(shipping) FILTER (WHERE updated_at >= ?), 0),
			COALESCE(SUM(shipping) FILTER (WHERE updated_at >= ?), 0),
			COALESCE(SUM(shipping) FILTER (WHERE updated_at >= ?), 0)
		FROM revenue
	`, itemShare, shippingShare, order.Completed.String(),
		p.Today, p.Week, p.Month, p.Today, p.Week, p.Month,
	).Row().Scan(&sums[0], &sums[1], &sums[2], &sums[3], &sums[4], &sums[5], &sums[6], &sums[7])
	if err != nil {
		return PlatformRevenue{}, err
	}

	history, err := h.history(ctx)
	if err != nil {
		return PlatformRevenue{}, err
	}

	return PlatformRevenue{
		Items: PeriodTotals{
			Total: kernel.NewMoney(sums[0]),
			Today: kernel.NewMoney(sums[1]),
			Week:  kernel.NewMoney(sums[2]),
			Month: kernel.NewMoney(sums[3]),
		},
		Shipping: PeriodTotals{
			Total: kernel.NewMoney(sums[4]),
			Today: kernel.NewMoney(sums[5]),
			Week:  kernel.NewMoney(sums[6]),
			Month: kernel.NewMoney(sums[7]),
		},
		History: history,
	}, nil
}

func (h GetPlatformRevenueQueryHandler) history(ctx context.Context) ([]RevenueView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, updated_at, total_amount, shipping_fee
		FROM orders
		WHERE status = ?
		ORDER BY updated_at DESC
		LIMIT ?
	`, order.Completed.String(), DefaultHistoryLimit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]RevenueView, 0)
	for rows.Next() {
		var (
			v          RevenueView
			id         uuid.UUID
			total, fee decimal.Decimal
		)
		if err = rows.Scan(&id, &v.Date, &total, &fee); err != nil {
			return nil, err
		}
		if v.OrderID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		v.TotalAmount = kernel.NewMoney(total)
		v.ShippingFee = kernel.NewMoney(fee)

		revenue, calcErr := h.calculator.PlatformRevenueFor(v.TotalAmount, v.ShippingFee)
		if calcErr != nil {
			return nil, calcErr
		}
		v.ItemRevenue = revenue.Items
		v.ShippingRevenue = revenue.Shipping
		history = append(history, v)
	}
	return history, rows.Err()
}
