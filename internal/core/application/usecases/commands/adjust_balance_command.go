package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/ledger"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAdjustBalanceCommandIsNotConstructed = errors.New(
	"AdjustBalanceCommand must be created via NewAdjustBalanceCommand constructor",
)

// AdjustBalanceCommand is a deposit or a withdrawal. Amount is always positive; the
// kind decides the direction.
type AdjustBalanceCommand struct { //nolint:recvcheck //using for validation
	userID      kernel.UUID
	amount      kernel.Money
	kind        ledger.Kind
	description string

	guard guard.ConstructorGuard
}

func NewDepositCommand(userID kernel.UUID, amount kernel.Money, description string) (AdjustBalanceCommand, error) {
	return NewAdjustBalanceCommand(userID, amount, ledger.KindDeposit, description)
}

func NewWithdrawalCommand(userID kernel.UUID, amount kernel.Money, description string) (AdjustBalanceCommand, error) {
	return NewAdjustBalanceCommand(userID, amount, ledger.KindWithdrawal, description)
}

func NewAdjustBalanceCommand(
	userID kernel.UUID,
	amount kernel.Money,
	kind ledger.Kind,
	description string,
) (AdjustBalanceCommand, error) {
	cmd := AdjustBalanceCommand{kind: kind, description: description, guard: guard.NewConstructorGuard()}

	var kindErr error
	if kind != ledger.KindDeposit && kind != ledger.KindWithdrawal {
		kindErr = errs.NewValueIsInvalidErrorWithCause("kind",
			fmt.Errorf("%q cannot be adjusted directly", string(kind)))
	}

	var amountErr error
	if !amount.IsPositive() {
		amountErr = errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s must be positive", amount))
	}

	if err := errors.Join(
		requireUUID("user_id", userID, &cmd.userID),
		kindErr,
		amountErr,
	); err != nil {
		return AdjustBalanceCommand{}, err
	}

	cmd.amount = amount
	return cmd, nil
}

func (c AdjustBalanceCommand) Validate() error {
	return c.guard.Validate(ErrAdjustBalanceCommandIsNotConstructed)
}

func (c AdjustBalanceCommand) UserID() kernel.UUID {
	return c.userID
}

func (c AdjustBalanceCommand) Amount() kernel.Money {
	return c.amount
}

func (c AdjustBalanceCommand) Kind() ledger.Kind {
	return c.kind
}

// Description falls back to a generic text per kind.
func (c AdjustBalanceCommand) Description() string {
	if c.description != "" {
		return c.description
	}
	if c.kind == ledger.KindWithdrawal {
		return "Withdrawal"
	}
	return "Deposit"
}

// Delta is the signed balance change.
func (c AdjustBalanceCommand) Delta() kernel.Money {
	if c.kind == ledger.KindWithdrawal {
		return c.amount.Neg()
	}
	return c.amount
}
