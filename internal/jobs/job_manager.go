package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	staleOrderWatchJob *StaleOrderWatchJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes query handlers as dependencies to wire up the job execution.
func NewJobManager(
	getStaleOrdersHandler queries.GetStaleOrdersQueryHandler,
	schedule string,
	readyAge time.Duration,
	transitAge time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		staleOrderWatchJob: NewStaleOrderWatchJob(getStaleOrdersHandler, schedule, readyAge, transitAge, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staleOrderWatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale order watch job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.staleOrderWatchJob.Stop()
}
