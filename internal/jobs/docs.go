// Package jobs provides scheduled background tasks for the dispatch service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3. Schedules
// have a seconds field.
//
// # Available Jobs
//
// 1. EarningsReconciliationJob - records courier earnings missing for completed orders
// (default every 5 minutes, RECONCILE_SCHEDULE)
// 2. OfferProjectionJob - closes courier offers whose order left the confirmed status
// (every 30 seconds)
//
// # Usage
//
//	jobManager := jobs.NewJobManager(reconcileHandler, config.ReconcileSchedule, offerHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Runs never overlap: a tick is skipped while the previous run of the same job is still
// going. Failures are logged and the next tick tries again. A panic inside a run is
// recovered and logged.
package jobs
