// Package jobs provides scheduled background tasks for the order tracking system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the order lifecycle.
//
// # Available Jobs
//
// 1. OrderAdvancerJob - Periodically sweeps all Pending orders and advances them to Processing
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(advanceHandler, cfg.AdvancerSchedule, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The advancer schedule comes from configuration and defaults to "@every 5m".
// Overlapping ticks are harmless: each order is advanced through a conditional
// status update, so concurrent sweeps resolve per order with one winner.
//
// # Error Handling
//
// - Per-order failures inside a sweep are logged and counted, never fatal
// - A failure to enumerate the pending set aborts only that sweep
package jobs
