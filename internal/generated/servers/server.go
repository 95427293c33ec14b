package servers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /chat)
	SendChatMessage(ctx echo.Context) error
	// (GET /chat/{orderId})
	GetChatMessages(ctx echo.Context, orderId OrderId) error
	// (PUT /chat/{orderId}/read)
	MarkChatRead(ctx echo.Context, orderId OrderId) error
	// (GET /earnings/admin)
	GetPlatformRevenue(ctx echo.Context) error
	// (GET /earnings/shipper/{shipperId})
	GetShipperEarnings(ctx echo.Context, shipperId ShipperId) error
	// (POST /orders)
	CreateOrder(ctx echo.Context) error
	// (GET /orders/confirmed)
	ListAvailableOrders(ctx echo.Context, params ListAvailableOrdersParams) error
	// (GET /orders/customer/{userId})
	ListCustomerOrders(ctx echo.Context, userId UserId) error
	// (GET /orders/pending)
	ListPendingOrders(ctx echo.Context) error
	// (GET /orders/shipper/{shipperId}/active)
	ListShipperActiveOrders(ctx echo.Context, shipperId ShipperId) error
	// (GET /orders/shipper/{shipperId}/completed)
	ListShipperCompletedOrders(ctx echo.Context, shipperId ShipperId) error
	// (GET /orders/store/{storeId})
	ListStoreOrders(ctx echo.Context, storeId StoreId) error
	// (GET /orders/{orderId})
	GetOrder(ctx echo.Context, orderId OrderId) error
	// (POST /orders/{orderId}/accept)
	AcceptOrder(ctx echo.Context, orderId OrderId) error
	// (POST /orders/{orderId}/cancel)
	CancelOrder(ctx echo.Context, orderId OrderId) error
	// (PUT /orders/{orderId}/complete-delivery)
	CompleteDelivery(ctx echo.Context, orderId OrderId) error
	// (GET /orders/{orderId}/history)
	GetOrderHistory(ctx echo.Context, orderId OrderId) error
	// (PUT /orders/{orderId}/review)
	ReviewOrder(ctx echo.Context, orderId OrderId) error
	// (PUT /orders/{orderId}/start-delivery)
	StartDelivery(ctx echo.Context, orderId OrderId) error
	// (GET /transactions/balance/{userId})
	GetBalance(ctx echo.Context, userId UserId) error
	// (POST /transactions/deposit)
	Deposit(ctx echo.Context) error
	// (GET /transactions/history/{userId})
	GetTransactionHistory(ctx echo.Context, userId UserId, params GetTransactionHistoryParams) error
	// (POST /transactions/withdraw)
	Withdraw(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) SendChatMessage(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.SendChatMessage(ctx)
}

func (w *ServerInterfaceWrapper) GetChatMessages(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.GetChatMessages(ctx, orderId)
}

func (w *ServerInterfaceWrapper) MarkChatRead(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.MarkChatRead(ctx, orderId)
}

func (w *ServerInterfaceWrapper) GetPlatformRevenue(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.GetPlatformRevenue(ctx)
}

func (w *ServerInterfaceWrapper) GetShipperEarnings(ctx echo.Context) error {
	shipperId, err := bindUUIDPath(ctx, "shipperId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.GetShipperEarnings(ctx, shipperId)
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) ListAvailableOrders(ctx echo.Context) error {
	var params ListAvailableOrdersParams

	err := runtime.BindQueryParameter("form", true, false, "lat", ctx.QueryParams(), &params.Lat)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lat: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "lng", ctx.QueryParams(), &params.Lng)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lng: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.ListAvailableOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) ListCustomerOrders(ctx echo.Context) error {
	userId, err := bindUUIDPath(ctx, "userId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.ListCustomerOrders(ctx, userId)
}

func (w *ServerInterfaceWrapper) ListPendingOrders(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.ListPendingOrders(ctx)
}

func (w *ServerInterfaceWrapper) ListShipperActiveOrders(ctx echo.Context) error {
	shipperId, err := bindUUIDPath(ctx, "shipperId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.ListShipperActiveOrders(ctx, shipperId)
}

func (w *ServerInterfaceWrapper) ListShipperCompletedOrders(ctx echo.Context) error {
	shipperId, err := bindUUIDPath(ctx, "shipperId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.ListShipperCompletedOrders(ctx, shipperId)
}

func (w *ServerInterfaceWrapper) ListStoreOrders(ctx echo.Context) error {
	storeId, err := bindUUIDPath(ctx, "storeId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.ListStoreOrders(ctx, storeId)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.GetOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) AcceptOrder(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.AcceptOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.CancelOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) CompleteDelivery(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.CompleteDelivery(ctx, orderId)
}

func (w *ServerInterfaceWrapper) GetOrderHistory(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.GetOrderHistory(ctx, orderId)
}

func (w *ServerInterfaceWrapper) ReviewOrder(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.ReviewOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) StartDelivery(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.StartDelivery(ctx, orderId)
}

func (w *ServerInterfaceWrapper) GetBalance(ctx echo.Context) error {
	userId, err := bindUUIDPath(ctx, "userId")
	if err != nil {
		return err
	}
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.GetBalance(ctx, userId)
}

func (w *ServerInterfaceWrapper) Deposit(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.Deposit(ctx)
}

func (w *ServerInterfaceWrapper) GetTransactionHistory(ctx echo.Context) error {
	userId, err := bindUUIDPath(ctx, "userId")
	if err != nil {
		return err
	}

	var params GetTransactionHistoryParams
	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.GetTransactionHistory(ctx, userId, params)
}

func (w *ServerInterfaceWrapper) Withdraw(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})
	return w.Handler.Withdraw(ctx)
}

func bindUUIDPath(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

// EchoRouter is the subset of echo routing used to register handlers.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the paths, so
// that the paths can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST(baseURL+"/chat", wrapper.SendChatMessage)
	router.GET(baseURL+"/chat/:orderId", wrapper.GetChatMessages)
	router.PUT(baseURL+"/chat/:orderId/read", wrapper.MarkChatRead)
	router.GET(baseURL+"/earnings/admin", wrapper.GetPlatformRevenue)
	router.GET(baseURL+"/earnings/shipper/:shipperId", wrapper.GetShipperEarnings)
	router.POST(baseURL+"/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/orders/confirmed", wrapper.ListAvailableOrders)
	router.GET(baseURL+"/orders/customer/:userId", wrapper.ListCustomerOrders)
	router.GET(baseURL+"/orders/pending", wrapper.ListPendingOrders)
	router.GET(baseURL+"/orders/shipper/:shipperId/active", wrapper.ListShipperActiveOrders)
	router.GET(baseURL+"/orders/shipper/:shipperId/completed", wrapper.ListShipperCompletedOrders)
	router.GET(baseURL+"/orders/store/:storeId", wrapper.ListStoreOrders)
	router.GET(baseURL+"/orders/:orderId", wrapper.GetOrder)
	router.POST(baseURL+"/orders/:orderId/accept", wrapper.AcceptOrder)
	router.POST(baseURL+"/orders/:orderId/cancel", wrapper.CancelOrder)
	router.PUT(baseURL+"/orders/:orderId/complete-delivery", wrapper.CompleteDelivery)
	router.GET(baseURL+"/orders/:orderId/history", wrapper.GetOrderHistory)
	router.PUT(baseURL+"/orders/:orderId/review", wrapper.ReviewOrder)
	router.PUT(baseURL+"/orders/:orderId/start-delivery", wrapper.StartDelivery)
	router.GET(baseURL+"/transactions/balance/:userId", wrapper.GetBalance)
	router.POST(baseURL+"/transactions/deposit", wrapper.Deposit)
	router.GET(baseURL+"/transactions/history/:userId", wrapper.GetTransactionHistory)
	router.POST(baseURL+"/transactions/withdraw", wrapper.Withdraw)
}
