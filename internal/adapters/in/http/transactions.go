package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// GetBalance handles GET /transactions/balance/{userId}.
func (s *Server) GetBalance(ctx echo.Context, userId servers.UserId) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	id, err := toKernelID("user_id", userId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	reqCtx := ctx.Request().Context()
	if err = s.requireSelfOrAdmin(reqCtx, caller, id); err != nil {
		return writeError(ctx, s.logger, err)
	}

	q, err := queries.NewGetBalanceQuery(id)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	balance, err := s.h.Balance.Handle(reqCtx, q)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, servers.Balance{UserId: userId, Balance: balance.Float64()})
}

// GetTransactionHistory handles GET /transactions/history/{userId}, newest first.
func (s *Server) GetTransactionHistory(
	ctx echo.Context,
	userId servers.UserId,
	params servers.GetTransactionHistoryParams,
) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}
	id, err := toKernelID("user_id", userId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	reqCtx := ctx.Request().Context()
	if err = s.requireSelfOrAdmin(reqCtx, caller, id); err != nil {
		return writeError(ctx, s.logger, err)
	}

	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}
	q, err := queries.NewGetLedgerHistoryQuery(id, limit)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	entries, err := s.h.LedgerHistory.Handle(reqCtx, q)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toLedgerEntries(entries))
}

// Deposit handles POST /transactions/deposit. Admins may top up another user's wallet
// by naming it in userId.
func (s *Server) Deposit(ctx echo.Context) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}

	var body servers.AmountRequest
	if err = ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	target := caller
	if body.UserId != nil {
		if target, err = toKernelID("user_id", *body.UserId); err != nil {
			return writeError(ctx, s.logger, err)
		}
		if err = s.requireSelfOrAdmin(ctx.Request().Context(), caller, target); err != nil {
			return writeError(ctx, s.logger, err)
		}
	}

	cmd, err := commands.NewDepositCommand(target, kernel.MoneyFromFloat(body.Amount), description(body))
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return s.adjust(ctx, cmd)
}

// Withdraw handles POST /transactions/withdraw. Users only withdraw from their own wallet.
func (s *Server) Withdraw(ctx echo.Context) error {
	caller, err := Caller(ctx)
	if err != nil {
		return err
	}

	var body servers.AmountRequest
	if err = ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if body.UserId != nil {
		target, err := toKernelID("user_id", *body.UserId)
		if err != nil {
			return writeError(ctx, s.logger, err)
		}
		if !target.IsEqual(caller) {
			return echo.NewHTTPError(http.StatusForbidden, "withdrawals are only allowed from your own wallet")
		}
	}

	cmd, err := commands.NewWithdrawalCommand(caller, kernel.MoneyFromFloat(body.Amount), description(body))
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return s.adjust(ctx, cmd)
}

func (s *Server) adjust(ctx echo.Context, cmd commands.AdjustBalanceCommand) error {
	entry, balance, err := s.h.AdjustBalance.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusCreated, servers.Adjustment{
		Entry:   toLedgerEntry(entry),
		Balance: balance.Float64(),
	})
}

func description(body servers.AmountRequest) string {
	if body.Description == nil {
		return ""
	}
	return *body.Description
}
