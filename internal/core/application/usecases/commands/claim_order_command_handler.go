package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// ClaimOrderCommandHandler is the assignment arbiter. The claim itself is a single
// conditional update (status = confirmed AND shipper_id IS NULL), so among concurrent
// claims exactly one wins and the others get errs.ErrAlreadyAssigned.
//
// A plain user claiming for the first time is promoted to shipper in a separate,
// earlier transaction.
type ClaimOrderCommandHandler struct {
	accountUoWFactory AccountUoWFactory
	transitioner      Transitioner
	logger            *slog.Logger
}

func NewClaimOrderCommandHandler(
	accountUoWFactory AccountUoWFactory,
	transitioner Transitioner,
	logger *slog.Logger,
) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		accountUoWFactory: accountUoWFactory,
		transitioner:      transitioner,
		logger:            logger.With("component", "claim_order"),
	}
}

func (h ClaimOrderCommandHandler) Handle(ctx context.Context, command ClaimOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	if err := h.ensureCourierRole(ctx, command.CourierID()); err != nil {
		return nil, err
	}

	claimed, err := h.transitioner.run(ctx, command.OrderID(), order.CourierClaim(),
		fixedActor(order.CourierActor(command.CourierID())))
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order claimed",
		"order_id", command.OrderID().String(), "courier_id", command.CourierID().String())
	return claimed, nil
}

func (h ClaimOrderCommandHandler) ensureCourierRole(ctx context.Context, userID kernel.UUID) error {
	uow := h.accountUoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	accounts := uow.AccountRepository()

	role, err := accounts.GetRole(ctx, userID)
	if err != nil {
		return err
	}
	if role.CanDeliver() {
		return nil
	}
	if !role.CanBePromoted() {
		return errs.NewUnauthorizedError(userID, "role "+string(role)+" cannot deliver orders")
	}

	promoted, err := accounts.PromoteToCourier(ctx, userID)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if promoted {
		h.logger.InfoContext(ctx, "role_promoted", "user_id", userID.String(), "from", string(role), "to", "shipper")
	}
	return nil
}
