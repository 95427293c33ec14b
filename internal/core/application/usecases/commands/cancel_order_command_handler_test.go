package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelOrderCommandHandler_Handle_Pending(t *testing.T) {
	ctx := t.Context()
	pending := orderIn(t, order.Pending, nil)

	orders := new(MockOrderRepository)
	orders.On("Get", ctx, pending.ID()).Return(pending, nil).Once()
	orders.On("ConditionalTransition", ctx, pending.ID(), order.Pending, order.Cancelled, order.TransitionFields{}).
		Return(int64(1), nil).Once()
	orders.On("AppendStatusChange", ctx, mock.Anything).Return(nil).Once()
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orders).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	_, _, effects := quietEffects()
	h := commands.NewCancelOrderCommandHandler(commands.NewTransitioner(lifecycleFactory(uow), effects, 0))

	cmd, err := commands.NewCancelOrderCommand(pending.ID(), pending.CustomerID())
	require.NoError(t, err)

	cancelled, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, cancelled.Status())
	uow.AssertNotCalled(t, "OfferRepository")
}

func TestCancelOrderCommandHandler_Handle_ConfirmedWithdrawsOffer(t *testing.T) {
	ctx := t.Context()
	confirmed := orderIn(t, order.Confirmed, nil)

	orders := new(MockOrderRepository)
	orders.On("Get", ctx, confirmed.ID()).Return(confirmed, nil).Once()
	orders.On("ConditionalTransition", ctx, confirmed.ID(), order.Confirmed, order.Cancelled, order.TransitionFields{}).
		Return(int64(1), nil).Once()
	orders.On("AppendStatusChange", ctx, mock.Anything).Return(nil).Once()
	offers := new(MockOfferRepository)
	offers.On("Close", ctx, confirmed.ID(), offer.StatusRejected).Return(nil).Once()
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orders).Once()
	uow.On("OfferRepository").Return(offers).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	_, _, effects := quietEffects()
	h := commands.NewCancelOrderCommandHandler(commands.NewTransitioner(lifecycleFactory(uow), effects, 0))

	cmd, _ := commands.NewCancelOrderCommand(confirmed.ID(), confirmed.CustomerID())
	_, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	offers.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_Rejected(t *testing.T) {
	courierID := kernel.NewUUID()

	tests := []struct {
		name    string
		order   func(t *testing.T) *order.Order
		actor   func(o *order.Order) kernel.UUID
		wantErr error
	}{
		{
			"someone else's order",
			func(t *testing.T) *order.Order { return orderIn(t, order.Pending, nil) },
			func(*order.Order) kernel.UUID { return kernel.NewUUID() },
			errs.ErrUnauthorized,
		},
		{
			"already claimed",
			func(t *testing.T) *order.Order { return orderIn(t, order.Preparing, &courierID) },
			func(o *order.Order) kernel.UUID { return o.CustomerID() },
			errs.ErrInvalidState,
		},
		{
			"already cancelled",
			func(t *testing.T) *order.Order { return orderIn(t, order.Cancelled, nil) },
			func(o *order.Order) kernel.UUID { return o.CustomerID() },
			errs.ErrInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			o := tt.order(t)

			orders := new(MockOrderRepository)
			orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
			uow := new(MockUoW)
			uow.On("Begin", ctx).Return(nil).Once()
			uow.On("OrderRepository").Return(orders).Once()
			uow.On("Rollback", ctx).Return(nil).Once()

			_, _, effects := quietEffects()
			h := commands.NewCancelOrderCommandHandler(commands.NewTransitioner(lifecycleFactory(uow), effects, 0))

			cmd, _ := commands.NewCancelOrderCommand(o.ID(), tt.actor(o))
			_, err := h.Handle(ctx, cmd)

			require.ErrorIs(t, err, tt.wantErr)
			uow.AssertNotCalled(t, "Commit", mock.Anything)
		})
	}
}
