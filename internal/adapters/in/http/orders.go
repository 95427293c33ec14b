package http

import (
	"context"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/generated/servers"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /orders. The caller becomes the order's customer.
func (s *Server) CreateOrder(ctx echo.Context) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}

	var body servers.NewOrder
	if err = ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	cmd, err := newCreateOrderCommand(caller, body)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	created, err := s.h.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	return s.respondWithOrder(ctx, http.StatusCreated, created.ID())
}

func newCreateOrderCommand(customer kernel.UUID, body servers.NewOrder) (commands.CreateOrderCommand, error) {
	storeID, err := toKernelID("store_id", body.StoreId)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	delivery, err := toAddress(body.DeliveryAddress)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	pickup, err := toAddress(body.PickupAddress)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	lines := make([]commands.OrderLine, 0, len(body.Items))
	for _, item := range body.Items {
		foodID, idErr := toKernelID("food_id", item.FoodId)
		if idErr != nil {
			return commands.CreateOrderCommand{}, idErr
		}
		lines = append(lines, commands.OrderLine{
			FoodID:    foodID,
			Quantity:  item.Quantity,
			UnitPrice: kernel.MoneyFromFloat(item.Price),
		})
	}

	var fee *kernel.Money
	if body.ShippingFee != nil {
		f := kernel.MoneyFromFloat(*body.ShippingFee)
		fee = &f
	}

	var note string
	if body.Note != nil {
		note = *body.Note
	}

	return commands.NewCreateOrderCommand(
		customer, storeID, delivery, pickup, lines, fee, order.PaymentMethod(body.PaymentMethod), note,
	)
}

// GetOrder handles GET /orders/{orderId}. Confirmed orders are open to every courier
// browsing offers; anything else only to the order's parties.
func (s *Server) GetOrder(ctx echo.Context, orderId servers.OrderId) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	id, err := toKernelID("order_id", orderId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	reqCtx := ctx.Request().Context()
	view, err := s.loadOrder(reqCtx, id)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	if view.Status != order.Confirmed.String() {
		ok, err := s.canSeeOrder(reqCtx, caller, view)
		if err != nil {
			return writeError(ctx, s.logger, err)
		}
		if !ok {
			return writeError(ctx, s.logger, errs.NewObjectNotFoundError("order", id.String()))
		}
	}

	return ctx.JSON(http.StatusOK, toOrder(view))
}

// ListPendingOrders handles GET /orders/pending.
func (s *Server) ListPendingOrders(ctx echo.Context) error {
	return s.listOrders(ctx, queries.NewListPendingOrdersQuery())
}

// ListAvailableOrders handles GET /orders/confirmed. With lat and lng the offers are
// ranked by distance from the courier.
func (s *Server) ListAvailableOrders(ctx echo.Context, params servers.ListAvailableOrdersParams) error {
	var near *kernel.Location
	if params.Lat != nil || params.Lng != nil {
		if params.Lat == nil || params.Lng == nil {
			return writeError(ctx, s.logger, errs.NewValueIsRequiredError("lat and lng"))
		}
		loc, err := kernel.NewLocation(*params.Lat, *params.Lng)
		if err != nil {
			return writeError(ctx, s.logger, err)
		}
		near = &loc
	}

	q, err := queries.NewListAvailableOrdersQuery(near)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return s.listOrders(ctx, q)
}

// ListCustomerOrders handles GET /orders/customer/{userId}.
func (s *Server) ListCustomerOrders(ctx echo.Context, userId servers.UserId) error {
	return s.listOwned(ctx, "user_id", userId, queries.NewListCustomerOrdersQuery)
}

// ListShipperActiveOrders handles GET /orders/shipper/{shipperId}/active.
func (s *Server) ListShipperActiveOrders(ctx echo.Context, shipperId servers.ShipperId) error {
	return s.listOwned(ctx, "shipper_id", shipperId, queries.NewListCourierActiveOrdersQuery)
}

// ListShipperCompletedOrders handles GET /orders/shipper/{shipperId}/completed.
func (s *Server) ListShipperCompletedOrders(ctx echo.Context, shipperId servers.ShipperId) error {
	return s.listOwned(ctx, "shipper_id", shipperId, queries.NewListCourierCompletedOrdersQuery)
}

// ListStoreOrders handles GET /orders/store/{storeId}. Only the store's owner and
// admins see a store's orders.
func (s *Server) ListStoreOrders(ctx echo.Context, storeId servers.StoreId) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	id, err := toKernelID("store_id", storeId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	reqCtx := ctx.Request().Context()
	owner, err := s.stores.OwnerOf(reqCtx, id)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	if err = s.requireSelfOrAdmin(reqCtx, caller, owner); err != nil {
		return writeError(ctx, s.logger, err)
	}

	q, err := queries.NewListStoreOrdersQuery(id)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return s.listOrders(ctx, q)
}

func (s *Server) listOwned(
	ctx echo.Context,
	param string,
	subject servers.UserId,
	newQuery func(kernel.UUID) (queries.ListOrdersQuery, error),
) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	id, err := toKernelID(param, subject)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	if err = s.requireSelfOrAdmin(ctx.Request().Context(), caller, id); err != nil {
		return writeError(ctx, s.logger, err)
	}

	q, err := newQuery(id)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return s.listOrders(ctx, q)
}

func (s *Server) listOrders(ctx echo.Context, q queries.ListOrdersQuery) error {
	if _, err := Caller(ctx); err != nil {
		return err
	}
	views, err := s.h.ListOrders.Handle(ctx.Request().Context(), q)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toOrders(views))
}

// ReviewOrder handles PUT /orders/{orderId}/review. The store owner accepts or rejects
// a pending order.
func (s *Server) ReviewOrder(ctx echo.Context, orderId servers.OrderId) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}

	var body servers.ReviewDecision
	if err = ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	return s.transition(ctx, orderId, func(c context.Context, id kernel.UUID) (*order.Order, error) {
		cmd, err := commands.NewReviewOrderCommand(id, caller, body.Status == servers.Accepted)
		if err != nil {
			return nil, err
		}
		return s.h.ReviewOrder.Handle(c, cmd)
	})
}

// CancelOrder handles POST /orders/{orderId}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, orderId servers.OrderId) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	return s.transition(ctx, orderId, func(c context.Context, id kernel.UUID) (*order.Order, error) {
		cmd, err := commands.NewCancelOrderCommand(id, caller)
		if err != nil {
			return nil, err
		}
		return s.h.CancelOrder.Handle(c, cmd)
	})
}

// AcceptOrder handles POST /orders/{orderId}/accept: a courier claims a confirmed order.
func (s *Server) AcceptOrder(ctx echo.Context, orderId servers.OrderId) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	return s.transition(ctx, orderId, func(c context.Context, id kernel.UUID) (*order.Order, error) {
		cmd, err := commands.NewClaimOrderCommand(id, caller)
		if err != nil {
			return nil, err
		}
		return s.h.ClaimOrder.Handle(c, cmd)
	})
}

// StartDelivery handles PUT /orders/{orderId}/start-delivery.
func (s *Server) StartDelivery(ctx echo.Context, orderId servers.OrderId) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	return s.transition(ctx, orderId, func(c context.Context, id kernel.UUID) (*order.Order, error) {
		cmd, err := commands.NewStartDeliveryCommand(id, caller)
		if err != nil {
			return nil, err
		}
		return s.h.StartDelivery.Handle(c, cmd)
	})
}

// CompleteDelivery handles PUT /orders/{orderId}/complete-delivery.
func (s *Server) CompleteDelivery(ctx echo.Context, orderId servers.OrderId) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	return s.transition(ctx, orderId, func(c context.Context, id kernel.UUID) (*order.Order, error) {
		cmd, err := commands.NewCompleteDeliveryCommand(id, caller)
		if err != nil {
			return nil, err
		}
		return s.h.CompleteDelivery.Handle(c, cmd)
	})
}

func (s *Server) transition(
	ctx echo.Context,
	orderId servers.OrderId,
	apply func(context.Context, kernel.UUID) (*order.Order, error),
) error {
	id, err := toKernelID("order_id", orderId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	if _, err = apply(ctx.Request().Context(), id); err != nil {
		return writeError(ctx, s.logger, err)
	}
	return s.respondWithOrder(ctx, http.StatusOK, id)
}

// respondWithOrder renders the order from the read side so every endpoint returns the
// same representation.
func (s *Server) respondWithOrder(ctx echo.Context, status int, id kernel.UUID) error {
	view, err := s.loadOrder(ctx.Request().Context(), id)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(status, toOrder(view))
}

// GetOrderHistory handles GET /orders/{orderId}/history.
func (s *Server) GetOrderHistory(ctx echo.Context, orderId servers.OrderId) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	id, err := toKernelID("order_id", orderId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	reqCtx := ctx.Request().Context()
	if _, err = s.loadVisibleOrder(reqCtx, caller, id); err != nil {
		return writeError(ctx, s.logger, err)
	}

	q, err := queries.NewGetStatusHistoryQuery(id)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	history, err := s.h.StatusHistory.Handle(reqCtx, q)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toStatusChanges(history))
}
