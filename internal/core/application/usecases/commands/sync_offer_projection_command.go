package commands

import (
	"context"
	"log/slog"
)

// SyncOfferProjectionCommandHandler closes pending courier offers whose order has left
// the confirmed status by a path that did not close them. The projection is never used
// for assignment, so this only keeps listings tidy.
type SyncOfferProjectionCommandHandler struct {
	uowFactory OfferUoWFactory
	logger     *slog.Logger
}

func NewSyncOfferProjectionCommandHandler(uowFactory OfferUoWFactory, logger *slog.Logger) SyncOfferProjectionCommandHandler {
	return SyncOfferProjectionCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "offer_projection"),
	}
}

func (h SyncOfferProjectionCommandHandler) Handle(ctx context.Context) (int64, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	closed, err := uow.OfferRepository().CloseStale(ctx)
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	if closed > 0 {
		h.logger.InfoContext(ctx, "stale offers closed", "count", closed)
	}
	return closed, nil
}
