package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// StaleOrderWatchJob periodically reports orders stuck in a pre-terminal
// state: ready orders nobody claimed and in-transit orders that stopped
// moving. The job only logs; operators decide what to do.
type StaleOrderWatchJob struct {
	handler    queries.GetStaleOrdersQueryHandler
	schedule   string
	readyAge   time.Duration
	transitAge time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStaleOrderWatchJob creates a job running on the given cron schedule
// (standard five-field expression).
func NewStaleOrderWatchJob(
	handler queries.GetStaleOrdersQueryHandler,
	schedule string,
	readyAge time.Duration,
	transitAge time.Duration,
	logger *slog.Logger,
) *StaleOrderWatchJob {
	return &StaleOrderWatchJob{
		handler:    handler,
		schedule:   schedule,
		readyAge:   readyAge,
		transitAge: transitAge,
		cron:       cron.New(),
		logger:     logger.With("component", "stale_order_watch_job"),
	}
}

// Start schedules the job.
func (j *StaleOrderWatchJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale order watch started",
		"schedule", j.schedule,
		"ready_age", j.readyAge,
		"transit_age", j.transitAge)
	return nil
}

// Stop stops the job.
func (j *StaleOrderWatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale order watch stopped")
}

func (j *StaleOrderWatchJob) run() {
	ctx := context.Background()

	query, err := queries.NewGetStaleOrdersQuery(j.readyAge, j.transitAge)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale order watch misconfigured", "error", err)
		return
	}

	stale, err := j.handler.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale order watch failed", "error", err)
		return
	}

	for _, entry := range stale {
		j.logger.WarnContext(ctx, "Order is stale",
			"order_id", entry.ID,
			"number", entry.Number,
			"status", entry.Status,
			"updated_at", entry.UpdatedAt)
	}
}
