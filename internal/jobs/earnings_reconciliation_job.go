package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	DefaultReconcileSchedule = "0 */5 * * * *"
	reconcileRunTimeout      = 2 * time.Minute
)

type EarningsReconciler interface {
	Handle(ctx context.Context, command commands.ReconcileEarningsCommand) (int, error)
}

// EarningsReconciliationJob periodically records earnings missing for completed orders.
// Completion already writes the earning in the same transaction, so a run that finds
// anything points at a bug or a manual data change.
type EarningsReconciliationJob struct {
	handler  EarningsReconciler
	schedule string
	batch    int
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewEarningsReconciliationJob(handler EarningsReconciler, schedule string, logger *slog.Logger) *EarningsReconciliationJob {
	if schedule == "" {
		schedule = DefaultReconcileSchedule
	}
	logger = logger.With("component", "earnings_reconciliation_job")
	return &EarningsReconciliationJob{
		handler:  handler,
		schedule: schedule,
		batch:    commands.DefaultReconcileBatch,
		cron:     newCron(logger),
		logger:   logger,
	}
}

func (j *EarningsReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Earnings reconciliation job started", "schedule", j.schedule)
	return nil
}

func (j *EarningsReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Earnings reconciliation job stopped")
}

func (j *EarningsReconciliationJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileRunTimeout)
	defer cancel()

	cmd, err := commands.NewReconcileEarningsCommand(j.batch)
	if err != nil {
		j.logger.ErrorContext(ctx, "Earnings reconciliation job failed", "error", err)
		return
	}

	recorded, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Earnings reconciliation job failed", "recorded", recorded, "error", err)
		return
	}
	if recorded > 0 {
		j.logger.WarnContext(ctx, "Missing earnings recorded", "recorded", recorded)
	}
}
