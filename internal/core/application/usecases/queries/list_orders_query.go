package queries

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"gorm.io/gorm"
)

var ErrListOrdersQueryIsNotConstructed = errors.New("ListOrdersQuery must be created via a NewList…Query constructor")

// Listing selects which orders a ListOrdersQuery returns.
type Listing int

const (
	// ListPending is the store dashboard: orders awaiting review.
	ListPending Listing = iota + 1
	// ListAvailable is the courier dashboard: confirmed, unclaimed orders.
	ListAvailable
	ListByCustomer
	ListByStore
	// ListCourierActive is preparing and delivering orders of one courier.
	ListCourierActive
	ListCourierCompleted
)

const MaxListedOrders = 200

type ListOrdersQuery struct {
	listing Listing
	ownerID kernel.UUID
	near    *kernel.Location

	guard guard.ConstructorGuard
}

func NewListPendingOrdersQuery() ListOrdersQuery {
	return ListOrdersQuery{listing: ListPending, guard: guard.NewConstructorGuard()}
}

// NewListAvailableOrdersQuery lists orders open for claiming. With near set the result
// is sorted by pickup distance; the order in which couriers see offers never affects who
// wins a claim.
func NewListAvailableOrdersQuery(near *kernel.Location) (ListOrdersQuery, error) {
	q := ListOrdersQuery{listing: ListAvailable, guard: guard.NewConstructorGuard()}
	if near != nil {
		if err := near.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
		loc := *near
		q.near = &loc
	}
	return q, nil
}

func NewListCustomerOrdersQuery(customerID kernel.UUID) (ListOrdersQuery, error) {
	return newOwnedListing(ListByCustomer, "customer_id", customerID)
}

func NewListStoreOrdersQuery(storeID kernel.UUID) (ListOrdersQuery, error) {
	return newOwnedListing(ListByStore, "store_id", storeID)
}

func NewListCourierActiveOrdersQuery(courierID kernel.UUID) (ListOrdersQuery, error) {
	return newOwnedListing(ListCourierActive, "shipper_id", courierID)
}

func NewListCourierCompletedOrdersQuery(courierID kernel.UUID) (ListOrdersQuery, error) {
	return newOwnedListing(ListCourierCompleted, "shipper_id", courierID)
}

func newOwnedListing(listing Listing, param string, id kernel.UUID) (ListOrdersQuery, error) {
	if err := id.Validate(); err != nil {
		return ListOrdersQuery{}, errs.NewValueIsRequiredErrorWithCause(param, err)
	}
	return ListOrdersQuery{listing: listing, ownerID: id, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Listing() Listing {
	return q.listing
}

type ListOrdersQueryHandler struct {
	db     *gorm.DB
	ranker services.OfferRanker
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db, ranker: services.NewOfferRanker()}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	where, args, orderBy, err := query.filter()
	if err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(
		"SELECT "+orderColumns+" FROM orders o WHERE "+where+" ORDER BY "+orderBy+" LIMIT ?",
		append(args, MaxListedOrders)...,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]OrderView, 0)
	for rows.Next() {
		view, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		views = append(views, view)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}

	if err = loadItems(ctx, h.db, views); err != nil {
		return nil, err
	}

	if query.listing == ListAvailable && query.near != nil && len(views) > 0 {
		return h.rank(*query.near, views)
	}
	return views, nil
}

func (h ListOrdersQueryHandler) rank(near kernel.Location, views []OrderView) ([]OrderView, error) {
	byID := make(map[kernel.UUID]OrderView, len(views))
	candidates := make([]services.Candidate, 0, len(views))
	for _, v := range views {
		byID[v.ID] = v
		candidates = append(candidates, services.Candidate{OrderID: v.ID, Pickup: v.Pickup})
	}

	ranked, err := h.ranker.Rank(near, candidates)
	if err != nil {
		return nil, err
	}

	sorted := make([]OrderView, 0, len(ranked))
	for _, r := range ranked {
		sorted = append(sorted, byID[r.OrderID])
	}
	return sorted, nil
}

func (q ListOrdersQuery) filter() (where string, args []any, orderBy string, err error) {
	switch q.listing {
	case ListPending:
		return "o.status = ?", []any{order.Pending.String()}, "o.created_at", nil
	case ListAvailable:
		return "o.status = ? AND o.shipper_id IS NULL", []any{order.Confirmed.String()}, "o.created_at", nil
	case ListByCustomer:
		return "o.customer_id = ?", []any{q.ownerID.Bytes()}, "o.created_at DESC", nil
	case ListByStore:
		return "o.store_id = ?", []any{q.ownerID.Bytes()}, "o.created_at DESC", nil
	case ListCourierActive:
		return "o.shipper_id = ? AND o.status IN ?",
			[]any{q.ownerID.Bytes(), []string{order.Preparing.String(), order.Delivering.String()}},
			"o.updated_at DESC", nil
	case ListCourierCompleted:
		return "o.shipper_id = ? AND o.status = ?",
			[]any{q.ownerID.Bytes(), order.Completed.String()}, "o.updated_at DESC", nil
	default:
		return "", nil, "", errs.NewValueIsInvalidErrorWithCause("listing", fmt.Errorf("unknown listing %d", q.listing))
	}
}
