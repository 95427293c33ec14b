package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	DefaultOfferProjectionSchedule = "*/30 * * * * *"
	offerProjectionRunTimeout      = 30 * time.Second
)

type OfferProjectionSyncer interface {
	Handle(ctx context.Context) (int64, error)
}

// OfferProjectionJob closes courier offers left pending after their order moved on.
type OfferProjectionJob struct {
	handler  OfferProjectionSyncer
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewOfferProjectionJob(handler OfferProjectionSyncer, schedule string, logger *slog.Logger) *OfferProjectionJob {
	if schedule == "" {
		schedule = DefaultOfferProjectionSchedule
	}
	logger = logger.With("component", "offer_projection_job")
	return &OfferProjectionJob{
		handler:  handler,
		schedule: schedule,
		cron:     newCron(logger),
		logger:   logger,
	}
}

func (j *OfferProjectionJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer projection job started", "schedule", j.schedule)
	return nil
}

func (j *OfferProjectionJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Offer projection job stopped")
}

func (j *OfferProjectionJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), offerProjectionRunTimeout)
	defer cancel()

	if _, err := j.handler.Handle(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Offer projection job failed", "error", err)
	}
}
