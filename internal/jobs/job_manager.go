package jobs

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	reconciliationJob  *EarningsReconciliationJob
	offerProjectionJob *OfferProjectionJob
}

func NewJobManager(
	reconciler EarningsReconciler,
	reconcileSchedule string,
	offerSyncer OfferProjectionSyncer,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		reconciliationJob:  NewEarningsReconciliationJob(reconciler, reconcileSchedule, logger),
		offerProjectionJob: NewOfferProjectionJob(offerSyncer, "", logger),
	}
}

// StartAll starts all scheduled jobs. If one fails to start the ones already running
// are stopped.
func (jm *JobManager) StartAll() error {
	if err := jm.reconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start earnings reconciliation job: %w", err)
	}

	if err := jm.offerProjectionJob.Start(); err != nil {
		jm.reconciliationJob.Stop()
		return fmt.Errorf("failed to start offer projection job: %w", err)
	}

	return nil
}

// StopAll waits for running jobs to finish.
func (jm *JobManager) StopAll() {
	jm.offerProjectionJob.Stop()
	jm.reconciliationJob.Stop()
}

// newCron runs jobs on a seconds-resolution schedule and skips a tick while the previous
// run is still going.
func newCron(logger *slog.Logger) *cron.Cron {
	l := cronLogger{logger: logger}
	return cron.New(
		cron.WithSeconds(),
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
}

// cronLogger adapts slog to cron's logger. Cron's Info lines are scheduler chatter and
// go to debug.
type cronLogger struct {
	logger *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.logger.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.logger.Error(msg, append(keysAndValues, "error", err)...)
}
