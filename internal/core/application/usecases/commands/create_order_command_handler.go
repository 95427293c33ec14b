package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
)

// CreateOrderCommandHandler places a pending order. The header and every item are
// written in one transaction; a failing item insert leaves nothing behind.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	fees       services.ShippingFeeCalculator
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		fees:       services.NewShippingFeeCalculator(),
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	fee, err := h.shippingFee(cmd)
	if err != nil {
		return nil, err
	}

	placed, err := order.NewOrder(
		kernel.NewUUID(),
		cmd.CustomerID(),
		cmd.StoreID(),
		cmd.Delivery(),
		cmd.Pickup(),
		cmd.Items(),
		fee,
		cmd.PaymentMethod(),
		cmd.Note(),
		time.Now(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return placed, nil
}

func (h CreateOrderCommandHandler) shippingFee(cmd CreateOrderCommand) (kernel.Money, error) {
	if fee := cmd.ShippingFee(); fee != nil {
		return *fee, nil
	}
	return h.fees.Quote(cmd.Pickup().Location(), cmd.Delivery().Location())
}
