package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// GetShipperEarnings handles GET /earnings/shipper/{shipperId}.
func (s *Server) GetShipperEarnings(ctx echo.Context, shipperId servers.ShipperId) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	id, err := toKernelID("shipper_id", shipperId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	reqCtx := ctx.Request().Context()
	if err = s.requireSelfOrAdmin(reqCtx, caller, id); err != nil {
		return writeError(ctx, s.logger, err)
	}

	q, err := queries.NewGetCourierEarningsQuery(id, s.now())
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	earnings, err := s.h.CourierEarnings.Handle(reqCtx, q)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toShipperEarnings(earnings))
}

// GetPlatformRevenue handles GET /earnings/admin.
func (s *Server) GetPlatformRevenue(ctx echo.Context) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	if err = s.requireAdmin(reqCtx, caller); err != nil {
		return writeError(ctx, s.logger, err)
	}

	revenue, err := s.h.PlatformRevenue.Handle(reqCtx, queries.NewGetPlatformRevenueQuery(s.now()))
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toPlatformRevenue(revenue))
}
