package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
)

// OfferRepository maintains the courier offer projection.
type OfferRepository interface {
	Open(ctx context.Context, o offer.Offer) error

	// Close resolves pending offers of an order with status.
	Close(ctx context.Context, orderID kernel.UUID, status offer.Status) error

	// CloseStale resolves pending offers whose order is no longer confirmed.
	CloseStale(ctx context.Context) (int64, error)
}
