package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// sweepTimeout bounds a single sweep run.
const sweepTimeout = 2 * time.Minute

// Sweeper removes lapsed restock sessions.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Scheduler runs the RTD&E expiry sweep on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	sweeper  Sweeper
	logger   *zap.Logger
}

// NewScheduler creates a scheduler. schedule is a standard 5-field cron spec
// (or a descriptor such as "@every 10m") evaluated in loc.
func NewScheduler(schedule string, loc *time.Location, sweeper Sweeper, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: schedule,
		sweeper:  sweeper,
		logger:   logger,
	}
}

// Start registers the sweep job and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		s.logger.Error("failed to schedule expiry sweep", zap.Error(err))
		return fmt.Errorf("failed to schedule expiry sweep: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// RunOnce performs one sweep immediately.
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	n, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("expiry sweep failed", zap.Error(err))
		return 0, err
	}
	s.logger.Info("expiry sweep finished", zap.Int64("deleted", n))
	return n, nil
}

func (s *Scheduler) sweep() {
	// Errors are already logged; the next tick retries.
	_, _ = s.RunOnce(context.Background())
}
