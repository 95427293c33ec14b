package http

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/generated/servers"
	"dispatch/internal/pkg/errs"
)

var _ servers.ServerInterface = (*Server)(nil)

// Handlers groups the use cases the REST API is wired to.
type Handlers struct {
	CreateOrder      commands.CreateOrderCommandHandler
	ReviewOrder      commands.ReviewOrderCommandHandler
	CancelOrder      commands.CancelOrderCommandHandler
	ClaimOrder       commands.ClaimOrderCommandHandler
	StartDelivery    commands.StartDeliveryCommandHandler
	CompleteDelivery commands.CompleteDeliveryCommandHandler
	AdjustBalance    commands.AdjustBalanceCommandHandler
	RecordChat       commands.RecordChatMessageCommandHandler
	MarkChatRead     commands.MarkChatReadCommandHandler

	GetOrder        queries.GetOrderQueryHandler
	ListOrders      queries.ListOrdersQueryHandler
	StatusHistory   queries.GetStatusHistoryQueryHandler
	ChatMessages    queries.GetChatMessagesQueryHandler
	Balance         queries.GetBalanceQueryHandler
	LedgerHistory   queries.GetLedgerHistoryQueryHandler
	CourierEarnings queries.GetCourierEarningsQueryHandler
	PlatformRevenue queries.GetPlatformRevenueQueryHandler
}

// Server implements servers.ServerInterface. Handlers translate between the API types
// and the use cases; authorization that depends on the caller's identity lives here.
type Server struct {
	h        Handlers
	accounts ports.AccountRepository
	stores   ports.StoreRepository
	logger   *slog.Logger
	now      func() time.Time
}

func NewServer(
	handlers Handlers,
	accounts ports.AccountRepository,
	stores ports.StoreRepository,
	logger *slog.Logger,
) *Server {
	return &Server{
		h:        handlers,
		accounts: accounts,
		stores:   stores,
		logger:   logger.With("component", "http"),
		now:      time.Now,
	}
}

func (s *Server) isAdmin(ctx context.Context, userID kernel.UUID) (bool, error) {
	role, err := s.accounts.GetRole(ctx, userID)
	if err != nil {
		return false, err
	}
	return role == account.RoleAdmin, nil
}

// requireSelfOrAdmin lets callers read their own resources; admins read anyone's.
func (s *Server) requireSelfOrAdmin(ctx context.Context, caller, subject kernel.UUID) error {
	if caller.IsEqual(subject) {
		return nil
	}
	admin, err := s.isAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !admin {
		return errs.NewUnauthorizedError("caller", "resource belongs to another user")
	}
	return nil
}

func (s *Server) requireAdmin(ctx context.Context, caller kernel.UUID) error {
	admin, err := s.isAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !admin {
		return errs.NewUnauthorizedError("caller", "admin role required")
	}
	return nil
}

// canSeeOrder reports whether caller is a party to the order: its customer, its
// courier, the owner of its store or an admin.
func (s *Server) canSeeOrder(ctx context.Context, caller kernel.UUID, o queries.OrderView) (bool, error) {
	if caller.IsEqual(o.CustomerID) {
		return true, nil
	}
	if o.ShipperID != nil && caller.IsEqual(*o.ShipperID) {
		return true, nil
	}
	owner, err := s.stores.OwnerOf(ctx, o.StoreID)
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return false, err
	}
	if err == nil && caller.IsEqual(owner) {
		return true, nil
	}
	return s.isAdmin(ctx, caller)
}

func (s *Server) loadOrder(ctx context.Context, orderID kernel.UUID) (queries.OrderView, error) {
	q, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return queries.OrderView{}, err
	}
	return s.h.GetOrder.Handle(ctx, q)
}

// loadVisibleOrder is loadOrder plus the party check. Unrelated callers get not found
// rather than forbidden so order ids cannot be probed.
func (s *Server) loadVisibleOrder(ctx context.Context, caller, orderID kernel.UUID) (queries.OrderView, error) {
	view, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return queries.OrderView{}, err
	}
	ok, err := s.canSeeOrder(ctx, caller, view)
	if err != nil {
		return queries.OrderView{}, err
	}
	if !ok {
		return queries.OrderView{}, errs.NewObjectNotFoundError("order", orderID.String())
	}
	return view, nil
}
