package ports

import (
	"context"

	"dispatch/internal/core/domain/model/account"
	"dispatch/internal/core/domain/model/kernel"
)

type AccountRepository interface {
	// GetRole returns account.RoleUser for users the core has not seen yet.
	GetRole(ctx context.Context, userID kernel.UUID) (account.Role, error)

	// PromoteToCourier turns a plain user into a shipper. It reports whether a change happened.
	PromoteToCourier(ctx context.Context, userID kernel.UUID) (bool, error)
}
