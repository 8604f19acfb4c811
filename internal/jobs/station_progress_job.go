package jobs

import (
	"context"
	"log/slog"
	"time"

	"logistics/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultStationProgressSchedule runs the job every 30 seconds.
const DefaultStationProgressSchedule = "*/30 * * * * *"

// InTransitAdvancer moves shipping orders along their stations.
// commands.AdvanceInTransitOrdersCommandHandler is the production implementation.
type InTransitAdvancer interface {
	Handle(ctx context.Context, cmd commands.AdvanceInTransitOrdersCommand) (int, error)
}

// StationProgressJob marks stations arrived in proportion to the elapsed part
// of each shipping order's expected duration.
type StationProgressJob struct {
	handler  InTransitAdvancer
	schedule string
	timeout  time.Duration
	now      func() time.Time
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewStationProgressJob creates the job. An empty schedule falls back to
// DefaultStationProgressSchedule; schedules use the six field cron format with
// seconds or a descriptor such as "@every 1m".
func NewStationProgressJob(handler InTransitAdvancer, schedule string, logger *slog.Logger) *StationProgressJob {
	if schedule == "" {
		schedule = DefaultStationProgressSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StationProgressJob{
		handler:  handler,
		schedule: schedule,
		timeout:  time.Minute,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "station_progress_job"),
	}
}

// Start schedules the job. A schedule that does not parse is returned as an error.
func (j *StationProgressJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Station progress job started", "schedule", j.schedule)
	return nil
}

// Run performs one pass over the shipping orders.
func (j *StationProgressJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	cmd, err := commands.NewAdvanceInTransitOrdersCommand(j.now())
	if err != nil {
		j.logger.ErrorContext(ctx, "Station progress job failed", "error", err)
		return
	}

	advanced, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Station progress job failed", "error", err, "advanced", advanced)
		return
	}

	if advanced > 0 {
		j.logger.InfoContext(ctx, "Stations advanced", "orders", advanced)
	}
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *StationProgressJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Station progress job stopped")
}
