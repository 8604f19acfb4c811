// Package jobs provides scheduled background tasks for the logistics system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// StationProgressJob - Runs every 30 seconds by default and marks the transit
// stations of shipping orders arrived in proportion to the elapsed part of
// their expected duration. It is disabled unless STATION_PROGRESS_ENABLED is set.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager()
//	jobManager.Register("station progress", jobs.NewStationProgressJob(advanceHandler, schedule, logger))
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
// Schedules use the six field cron format with a leading seconds field, so
// "*/30 * * * * *" runs every 30 seconds. Descriptors such as "@every 1m" work
// too. A pass that is still running when the next one is due is skipped.
//
// # Error Handling
//
// A failing order is logged and skipped by the handler; a failing pass is
// logged and retried on the next tick. Failed job starts stop any already
// running jobs.
package jobs
