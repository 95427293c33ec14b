package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/ledger"
	"dispatch/internal/pkg/errs"
)

// AdjustBalanceCommandHandler appends a deposit or withdrawal entry and moves the balance
// in one transaction. Withdrawals never take the balance below zero.
type AdjustBalanceCommandHandler struct {
	uowFactory LedgerUoWFactory
}

func NewAdjustBalanceCommandHandler(uowFactory LedgerUoWFactory) AdjustBalanceCommandHandler {
	return AdjustBalanceCommandHandler{uowFactory: uowFactory}
}

// Handle returns the appended entry and the balance after it.
func (h AdjustBalanceCommandHandler) Handle(
	ctx context.Context,
	command AdjustBalanceCommand,
) (ledger.Entry, kernel.Money, error) {
	if err := command.Validate(); err != nil {
		return ledger.Entry{}, kernel.ZeroMoney, err
	}

	entry, err := ledger.NewEntry(command.UserID(), command.Delta(), command.Kind(), command.Description(), nil, time.Now())
	if err != nil {
		return ledger.Entry{}, kernel.ZeroMoney, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return ledger.Entry{}, kernel.ZeroMoney, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.LedgerRepository()

	var floor *kernel.Money
	if command.Kind() == ledger.KindWithdrawal {
		zero := kernel.ZeroMoney
		floor = &zero
	}

	applied, err := repo.AdjustBalance(ctx, command.UserID(), command.Delta(), floor)
	if err != nil {
		return ledger.Entry{}, kernel.ZeroMoney, err
	}
	if !applied {
		return ledger.Entry{}, kernel.ZeroMoney, errs.NewValueIsInvalidErrorWithCause("amount",
			errors.New("insufficient balance"))
	}

	if err = repo.Append(ctx, entry); err != nil {
		return ledger.Entry{}, kernel.ZeroMoney, err
	}

	balance, err := repo.GetBalance(ctx, command.UserID())
	if err != nil {
		return ledger.Entry{}, kernel.ZeroMoney, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ledger.Entry{}, kernel.ZeroMoney, err
	}

	return entry, balance, nil
}
