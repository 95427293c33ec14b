package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/ledger"
)

// LedgerRepository appends ledger entries and maintains running balances.
type LedgerRepository interface {
	Append(ctx context.Context, entry ledger.Entry) error

	// AdjustBalance adds delta to the user's balance atomically. With a floor, the update
	// only applies if the resulting balance stays >= floor; applied reports whether it did.
	AdjustBalance(ctx context.Context, userID kernel.UUID, delta kernel.Money, floor *kernel.Money) (applied bool, err error)

	GetBalance(ctx context.Context, userID kernel.UUID) (kernel.Money, error)

	ListHistory(ctx context.Context, userID kernel.UUID, limit int) ([]ledger.Entry, error)

	HasOrderEarning(ctx context.Context, orderID kernel.UUID) (bool, error)
}
