package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// StoreRepository is a read-only view of store ownership kept by the catalog.
type StoreRepository interface {
	OwnerOf(ctx context.Context, storeID kernel.UUID) (kernel.UUID, error)
}
