// Package commands contains the write side of the application: every operation that
// changes state is a command plus a handler that runs it inside a unit of work.
package commands

import (
	"context"
	"time"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces, narrowed to what each handler touches.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	LockTimeoutSetter interface {
		SetLockTimeout(ctx context.Context, d time.Duration) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	LedgerRepoFactory interface {
		LedgerRepository() ports.LedgerRepository
	}

	AccountRepoFactory interface {
		AccountRepository() ports.AccountRepository
	}

	OfferRepoFactory interface {
		OfferRepository() ports.OfferRepository
	}

	ChatRepoFactory interface {
		ChatRepository() ports.ChatRepository
	}

	// OrderUoW is used to place orders.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// LifecycleUoW covers a status transition together with its transactional effects:
	// the offer projection and the courier earning.
	LifecycleUoW interface {
		TxManager
		LockTimeoutSetter
		OrderRepoFactory
		OfferRepoFactory
		LedgerRepoFactory
	}

	LifecycleUoWFactory interface {
		Create() LifecycleUoW
	}

	AccountUoW interface {
		TxManager
		AccountRepoFactory
	}

	AccountUoWFactory interface {
		Create() AccountUoW
	}

	LedgerUoW interface {
		TxManager
		LedgerRepoFactory
	}

	LedgerUoWFactory interface {
		Create() LedgerUoW
	}

	ChatUoW interface {
		TxManager
		OrderRepoFactory
		ChatRepoFactory
	}

	ChatUoWFactory interface {
		Create() ChatUoW
	}

	OfferUoW interface {
		TxManager
		OfferRepoFactory
	}

	OfferUoWFactory interface {
		Create() OfferUoW
	}
)
