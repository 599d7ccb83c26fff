package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/area-weather/internal/weather"
)

// defaultInterval is used when the configured interval is not positive.
const defaultInterval = 15 * time.Minute

// RenderFunc receives each completed batch.
type RenderFunc func(weather.BatchResult) error

// Scheduler periodically runs a batch for a fixed set of locations.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	aggregator *weather.Aggregator
	locations  []weather.Location
	interval   time.Duration
	render     RenderFunc
	logger     *slog.Logger
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, aggregator *weather.Aggregator, render RenderFunc, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		aggregator: aggregator,
		locations:  locations,
		interval:   interval,
		render:     render,
		logger:     logger,
	}
}

// Start schedules the periodic job, running it immediately, and starts the
// underlying scheduler. A run still in progress is never overlapped.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.logger.Info("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// run executes one batch bounded by the scheduling interval.
func (s *Scheduler) run() {
	s.logger.Debug("scheduler: running batch", "locations", len(s.locations))

	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	batch := s.aggregator.RunBatch(ctx, s.locations)
	if err := s.render(batch); err != nil {
		s.logger.Error("scheduler: render failed", "batch_id", batch.ID, "error", err)
	}
}
