package jobs

import (
	"context"
	"log/slog"

	"ordertracker/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultAdvancerSchedule is used when no schedule is configured.
const DefaultAdvancerSchedule = "@every 5m"

// OrderAdvancerJob periodically sweeps all Pending orders and advances them
// to Processing. Overlapping ticks are safe: the conditional status update
// lets at most one writer win per order, and the losers resolve as no-ops.
type OrderAdvancerJob struct {
	handler  commands.AdvancePendingOrdersCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOrderAdvancerJob creates the advancer job. The schedule accepts standard
// cron expressions and descriptors such as "@every 5m"; an empty schedule
// falls back to DefaultAdvancerSchedule.
func NewOrderAdvancerJob(
	handler commands.AdvancePendingOrdersCommandHandler,
	schedule string,
	logger *slog.Logger,
) *OrderAdvancerJob {
	if schedule == "" {
		schedule = DefaultAdvancerSchedule
	}

	return &OrderAdvancerJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "order_advancer_job"),
	}
}

// Start schedules the sweep. Returns an error if the schedule expression is
// invalid.
func (j *OrderAdvancerJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewAdvancePendingOrdersCommand()
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Order advancer sweep could not be constructed", "error", cmdErr)
			return
		}

		stats, sweepErr := j.handler.Handle(ctx, cmd)
		if sweepErr != nil {
			j.logger.ErrorContext(ctx, "Order advancer sweep failed", "error", sweepErr)
			return
		}

		j.logger.InfoContext(ctx, "Order advancer sweep finished",
			"attempted", stats.Attempted,
			"advanced", stats.Advanced,
			"skipped", stats.Skipped,
			"failed", stats.Failed)
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order advancer job started", "schedule", j.schedule)
	return nil
}

// Stop stops the order advancer job.
func (j *OrderAdvancerJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order advancer job stopped")
}
