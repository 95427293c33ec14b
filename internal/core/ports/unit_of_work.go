package ports

import (
	"context"
	"time"
)

// UnitOfWork is one database transaction with repositories bound to it.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// SetLockTimeout bounds how long statements in this transaction wait for row locks.
	SetLockTimeout(ctx context.Context, d time.Duration) error

	OrderRepository() OrderRepository
	LedgerRepository() LedgerRepository
	AccountRepository() AccountRepository
	OfferRepository() OfferRepository
	ChatRepository() ChatRepository
}
